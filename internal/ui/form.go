package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Actions are the account operations the UI can trigger. Each reports its
// outcome through the notice feed as well as the returned error.
type Actions interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string) error
	Logout() error
	SubscribeNewsletter(ctx context.Context, email string) error
}

type formKind int

const (
	formLogin formKind = iota
	formRegister
	formNewsletter
)

type field struct {
	label  string
	secret bool
}

var formFields = map[formKind][]field{
	formLogin:      {{label: "Email"}, {label: "Password", secret: true}},
	formRegister:   {{label: "Name"}, {label: "Email"}, {label: "Password", secret: true}},
	formNewsletter: {{label: "Email"}},
}

var formTitles = map[formKind]string{
	formLogin:      "Sign in",
	formRegister:   "Create account",
	formNewsletter: "Join the newsletter",
}

// form is a modal stack of text inputs.
type form struct {
	kind    formKind
	inputs  []textinput.Model
	focus   int
	pending bool
	err     string
}

func newForm(kind formKind) *form {
	fields := formFields[kind]
	f := &form{kind: kind, inputs: make([]textinput.Model, len(fields))}
	for i, fd := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = strings.ToLower(fd.label)
		in.CharLimit = 128
		in.Width = 32
		if fd.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

func (f *form) title() string {
	return formTitles[f.kind]
}

func (f *form) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Value()
	}
	return out
}

func (f *form) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// missing returns the label of the first empty field.
func (f *form) missing() string {
	for i, fd := range formFields[f.kind] {
		if strings.TrimSpace(f.inputs[i].Value()) == "" {
			return fd.label
		}
	}
	return ""
}

// actionDoneMsg reports a finished form submission.
type actionDoneMsg struct {
	kind formKind
	err  error
}

// updateForm handles a key while a form is open.
func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f.pending {
		// Submission in flight; only cancel is honoured.
		if key.Matches(msg, m.keys.Cancel) {
			m.form = nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.form = nil
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if f.focus < len(f.inputs)-1 {
			f.move(1)
			return m, nil
		}
		if label := f.missing(); label != "" {
			f.err = label + " is required"
			return m, nil
		}
		f.err = ""
		f.pending = true
		return m, m.submit(f.kind, f.values())
	case key.Matches(msg, m.keys.NextField):
		f.move(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		f.move(-1)
		return m, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

// submit runs the form's action off the UI goroutine.
func (m Model) submit(kind formKind, vals []string) tea.Cmd {
	ctx, actions := m.ctx, m.actions
	if actions == nil {
		return nil
	}
	return func() tea.Msg {
		var err error
		switch kind {
		case formLogin:
			err = actions.Login(ctx, vals[0], vals[1])
		case formRegister:
			err = actions.Register(ctx, vals[0], vals[1], vals[2])
		case formNewsletter:
			err = actions.SubscribeNewsletter(ctx, vals[0])
		}
		return actionDoneMsg{kind: kind, err: err}
	}
}

func (m Model) handleActionDone(msg actionDoneMsg) Model {
	if m.form == nil || m.form.kind != msg.kind {
		return m
	}
	if msg.err != nil {
		m.form.pending = false
		m.form.err = errorText(msg.err)
		return m
	}
	m.form = nil
	return m
}

func errorText(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	if msg == "" {
		return "Something went wrong"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
