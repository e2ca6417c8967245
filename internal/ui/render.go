package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/foxnuts/internal/cart"
	"github.com/five82/foxnuts/internal/catalog"
	"github.com/five82/foxnuts/internal/notify"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	nameWidth     = 28
)

// View implements tea.Model.
func (m Model) View() string {
	width, height := m.size()
	if m.showHelp {
		return m.renderHelp(width, height)
	}

	header := m.renderHeader(width)
	footer := m.renderFooter(width)
	toast := m.renderToast(width)

	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer)-1, 1)
	var body string
	if m.form != nil {
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderForm())
	} else {
		body = lipgloss.NewStyle().Width(width).Height(bodyHeight).Padding(1, 1, 0, 1).Render(m.renderBody())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, toast, footer)
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m Model) renderHeader(width int) string {
	styles := m.theme.Styles()

	tabs := []string{
		"Products",
		fmt.Sprintf("Cart (%d)", m.snapshot.ItemCount),
		fmt.Sprintf("Wishlist (%d)", len(m.snapshot.Wishlist)),
	}
	parts := []string{styles.Logo.Render("foxnuts ")}
	for i, label := range tabs {
		if page(i) == m.page {
			parts = append(parts, styles.TabOn.Render(label))
		} else {
			parts = append(parts, styles.Tab.Render(label))
		}
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	who := "Guest · L to sign in"
	if m.snapshot.SignedIn {
		name := m.snapshot.User.Name
		if name == "" {
			name = m.snapshot.User.Email
		}
		who = "● " + name
	}
	right := styles.Header.Render(who)

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	filler := styles.Header.Padding(0).Render(strings.Repeat(" ", gap))
	return left + filler + right
}

func (m Model) renderBody() string {
	switch m.page {
	case pageCart:
		return m.renderCart()
	case pageWishlist:
		return m.renderWishlist()
	default:
		return m.renderProducts()
	}
}

func (m Model) renderProducts() string {
	styles := m.theme.Styles()
	var b strings.Builder
	for i, p := range m.products {
		price := p.Price.String()
		if p.OnSale() {
			price += " " + styles.FaintText.Strikethrough(true).Render(p.CompareAtPrice.String())
		}
		marks := ""
		if m.snapshot.InWishlist(p.ID) {
			marks += styles.DangerText.Render(" ♥")
		}
		if q := m.snapshot.Quantity(p.ID); q > 0 {
			marks += styles.AccentText.Render(fmt.Sprintf(" ×%d in cart", q))
		}
		stock := styles.StockStyle(p.Stock).Render(stockLabel(p.Stock))

		row := fmt.Sprintf("%s  %s  %s%s", padRight(p.Name, nameWidth), price, stock, marks)
		b.WriteString(m.row(i, row))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCart() string {
	styles := m.theme.Styles()
	if len(m.snapshot.Lines) == 0 {
		return styles.MutedText.Render("Your cart is empty. Press 1 to browse products.")
	}

	var b strings.Builder
	for i, l := range m.snapshot.Lines {
		b.WriteString(m.row(i, cartRow(l)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.Text.Bold(true).Render(
		fmt.Sprintf("Total %s  (%s)", catalog.FormatMoney(m.snapshot.Total), itemsLabel(m.snapshot.ItemCount)),
	))
	if !m.snapshot.SignedIn {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Saved on this device only. Sign in to sync."))
	}
	return b.String()
}

func cartRow(l cart.Line) string {
	return fmt.Sprintf("%s  %3d × %-8s %s",
		padRight(l.Name, nameWidth), l.Quantity, l.Price.String(), catalog.FormatMoney(l.Subtotal()))
}

func (m Model) renderWishlist() string {
	styles := m.theme.Styles()
	if len(m.snapshot.Wishlist) == 0 {
		return styles.MutedText.Render("Your wishlist is empty. Press w on a product to save it.")
	}

	var b strings.Builder
	for i, p := range m.snapshot.Wishlist {
		row := fmt.Sprintf("%s  %s", padRight(p.Name, nameWidth), p.Price.String())
		if m.snapshot.Quantity(p.ID) > 0 {
			row += styles.AccentText.Render("  in cart")
		}
		b.WriteString(m.row(i, row))
		b.WriteString("\n")
	}
	return b.String()
}

// row renders one list line, highlighted when under the cursor.
func (m Model) row(i int, content string) string {
	if i == m.cursor[m.page] {
		return m.theme.Styles().Selected.Render("› " + content)
	}
	return "  " + content
}

func (m Model) renderToast(width int) string {
	styles := m.theme.Styles()
	n, ok := m.snapshot.LatestNotice()
	if !ok || m.now().Sub(n.At) > toastTTL {
		return lipgloss.NewStyle().Width(width).Render("")
	}

	style := styles.InfoText
	switch {
	case n.Kind.IsError():
		style = styles.DangerText
	case n.Kind == notify.LineAdded || n.Kind == notify.LineUpdated || n.Kind == notify.WishlistAdded:
		style = styles.SuccessText
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(style.Render(n.Message))
}

func (m Model) renderFooter(width int) string {
	styles := m.theme.Styles()
	bindings := m.keys.ShortHelp()
	if m.form != nil {
		bindings = m.keys.formKeys()
	}
	return styles.Footer.Width(width).Render(m.help.ShortHelpView(bindings))
}

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	f := m.form

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(f.title()))
	b.WriteString("\n\n")
	for i, fd := range formFields[f.kind] {
		label := styles.MutedText.Render(padRight(fd.label, 10))
		if i == f.focus {
			label = styles.AccentText.Render(padRight(fd.label, 10))
		}
		b.WriteString(label)
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	switch {
	case f.pending:
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render("Working..."))
	case f.err != "":
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
	}
	return styles.Panel.Render(b.String())
}

// renderHelp renders the help overlay.
func (m Model) renderHelp(width, height int) string {
	styles := m.theme.Styles()

	full := m.help
	full.ShowAll = true
	content := styles.Text.Bold(true).Render("Keyboard Shortcuts") + "\n\n" +
		full.FullHelpView(m.keys.FullHelp()) + "\n\n" +
		styles.FaintText.Render("theme: "+m.theme.Name)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		styles.Panel.Render(content),
		lipgloss.WithWhitespaceChars(" "),
	)
}

func stockLabel(stock int) string {
	switch {
	case stock <= 0:
		return "sold out"
	case stock < lowStockThreshold:
		return fmt.Sprintf("only %d left", stock)
	default:
		return fmt.Sprintf("%d in stock", stock)
	}
}

func itemsLabel(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

// padRight pads or truncates s to width cells.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		r := []rune(s)
		for lipgloss.Width(string(r)) > width-1 && len(r) > 0 {
			r = r[:len(r)-1]
		}
		return string(r) + "…"
	}
	return s + strings.Repeat(" ", width-w)
}
