package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/foxnuts/internal/cart"
	"github.com/five82/foxnuts/internal/catalog"
	"github.com/five82/foxnuts/internal/prefs"
	"github.com/five82/foxnuts/internal/state"
	"github.com/five82/foxnuts/internal/wishlist"
)

// Options configure the UI runtime.
type Options struct {
	Context  context.Context
	Actions  Actions
	Catalog  *catalog.Catalog
	Cart     *cart.Store
	Wishlist *wishlist.Store
	View     *state.Store
	Logger   *slog.Logger

	ThemeName string
	StartView string // products, cart or wishlist
	PrefsPath string
}

type page int

const (
	pageProducts page = iota
	pageCart
	pageWishlist
	pageCount
)

var pageNames = [pageCount]string{"products", "cart", "wishlist"}

func pageByName(name string) page {
	for i, n := range pageNames {
		if n == name {
			return page(i)
		}
	}
	return pageProducts
}

const toastTTL = 4 * time.Second

// changedMsg signals that the view has a newer snapshot.
type changedMsg struct{}

// toastExpiredMsg forces a redraw once the latest notice goes stale.
type toastExpiredMsg struct{}

// Model is the bubbletea model of the storefront.
type Model struct {
	ctx      context.Context
	actions  Actions
	products []catalog.Product
	cart     *cart.Store
	wishlist *wishlist.Store
	view     *state.Store
	logger   *slog.Logger

	prefsPath string

	keys     keyMap
	help     help.Model
	theme    Theme
	snapshot state.Snapshot
	page     page
	cursor   [pageCount]int
	form     *form
	showHelp bool

	width  int
	height int
	now    func() time.Time
}

// NewModel validates opts and builds the initial model.
func NewModel(opts Options) (Model, error) {
	if opts.Cart == nil || opts.Wishlist == nil || opts.View == nil {
		return Model{}, fmt.Errorf("ui requires cart, wishlist and view")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := Model{
		ctx:       ctx,
		actions:   opts.Actions,
		products:  cat.All(),
		cart:      opts.Cart,
		wishlist:  opts.Wishlist,
		view:      opts.View,
		logger:    logger.With("component", "ui"),
		prefsPath: opts.PrefsPath,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(opts.ThemeName),
		snapshot:  opts.View.Snapshot(),
		page:      pageByName(opts.StartView),
		now:       time.Now,
	}
	return m, nil
}

// Run starts the TUI and blocks until the user quits or the context ends.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-m.ctx.Done():
			p.Quit()
		case <-done:
		}
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	if fm, ok := final.(Model); ok {
		fm.savePrefs()
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) waitForChange() tea.Cmd {
	ch := m.view.Changes()
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case changedMsg:
		m.sync()
		expire := tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{} })
		return m, tea.Batch(m.waitForChange(), expire)

	case toastExpiredMsg:
		return m, nil

	case actionDoneMsg:
		m = m.handleActionDone(msg)
		m.sync()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Act on what the stores hold now, not on the last drawn frame.
		m.sync()
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.showHelp {
			if key.Matches(msg, m.keys.Help, m.keys.Cancel, m.keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		}
		return m.handleKey(msg)
	}

	if m.form != nil {
		var cmd tea.Cmd
		f := m.form
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
	case key.Matches(msg, m.keys.Tab):
		m.page = (m.page + 1) % pageCount
	case key.Matches(msg, m.keys.ShiftTab):
		m.page = (m.page + pageCount - 1) % pageCount
	case key.Matches(msg, m.keys.ViewProducts):
		m.page = pageProducts
	case key.Matches(msg, m.keys.ViewCart):
		m.page = pageCart
	case key.Matches(msg, m.keys.ViewWishlist):
		m.page = pageWishlist
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.cursor[m.page] = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor[m.page] = max(m.rows()-1, 0)
	case key.Matches(msg, m.keys.Login):
		if m.snapshot.SignedIn {
			if m.actions != nil {
				if err := m.actions.Logout(); err != nil {
					m.logger.Warn("logout failed", "error", err)
				}
			}
			m.sync()
			return m, nil
		}
		m.form = newForm(formLogin)
	case key.Matches(msg, m.keys.Register):
		m.form = newForm(formRegister)
	case key.Matches(msg, m.keys.Newsletter):
		m.form = newForm(formNewsletter)
	default:
		m.pageAction(msg)
	}
	return m, nil
}

// pageAction applies a shopping key to the row under the cursor.
func (m *Model) pageAction(msg tea.KeyMsg) {
	i := m.cursor[m.page]
	switch m.page {
	case pageProducts:
		if i >= len(m.products) {
			return
		}
		p := m.products[i]
		switch {
		case key.Matches(msg, m.keys.AddToCart):
			m.cart.AddOne(p)
		case key.Matches(msg, m.keys.ToggleWishlist):
			m.wishlist.Toggle(p)
		}

	case pageCart:
		if key.Matches(msg, m.keys.Clear) {
			m.cart.Clear()
			break
		}
		if i >= len(m.snapshot.Lines) {
			return
		}
		l := m.snapshot.Lines[i]
		switch {
		case key.Matches(msg, m.keys.Increase):
			m.cart.UpdateQuantity(l.ID, l.Quantity+1)
		case key.Matches(msg, m.keys.Decrease):
			m.cart.UpdateQuantity(l.ID, l.Quantity-1)
		case key.Matches(msg, m.keys.Remove):
			m.cart.Remove(l.ID)
		case key.Matches(msg, m.keys.ToggleWishlist):
			m.wishlist.Toggle(l.Product)
		}

	case pageWishlist:
		if key.Matches(msg, m.keys.Clear) {
			m.wishlist.Clear()
			break
		}
		if i >= len(m.snapshot.Wishlist) {
			return
		}
		p := m.snapshot.Wishlist[i]
		switch {
		case key.Matches(msg, m.keys.AddToCart):
			m.cart.AddOne(p)
		case key.Matches(msg, m.keys.Remove), key.Matches(msg, m.keys.ToggleWishlist):
			m.wishlist.Remove(p.ID)
		}
	}
	m.sync()
}

// sync pulls the newest snapshot and keeps cursors in range.
func (m *Model) sync() {
	m.snapshot = m.view.Snapshot()
	for p := range pageCount {
		n := m.rowsOf(p)
		if m.cursor[p] >= n {
			m.cursor[p] = max(n-1, 0)
		}
	}
}

func (m *Model) moveCursor(delta int) {
	n := m.rows()
	if n == 0 {
		return
	}
	m.cursor[m.page] = min(max(m.cursor[m.page]+delta, 0), n-1)
}

func (m Model) rows() int {
	return m.rowsOf(m.page)
}

func (m Model) rowsOf(p page) int {
	switch p {
	case pageCart:
		return len(m.snapshot.Lines)
	case pageWishlist:
		return len(m.snapshot.Wishlist)
	default:
		return len(m.products)
	}
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, View: pageNames[m.page]}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "error", err)
	}
}
