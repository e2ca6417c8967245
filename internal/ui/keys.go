package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding

	// View switching
	ViewProducts key.Binding
	ViewCart     key.Binding
	ViewWishlist key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Shopping
	AddToCart      key.Binding
	ToggleWishlist key.Binding
	Increase       key.Binding
	Decrease       key.Binding
	Remove         key.Binding
	Clear          key.Binding

	// Account
	Login      key.Binding
	Register   key.Binding
	Newsletter key.Binding

	// Forms
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Cancel    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),

		ViewProducts: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Products"),
		),
		ViewCart: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Cart"),
		),
		ViewWishlist: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Wishlist"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		AddToCart: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a/enter", "Add to cart"),
		),
		ToggleWishlist: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Toggle wishlist"),
		),
		Increase: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "More"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Fewer"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "Remove"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clear all"),
		),

		Login: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Sign in/out"),
		),
		Register: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Create account"),
		),
		Newsletter: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Newsletter"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.AddToCart, k.ToggleWishlist, k.Login, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Tab, k.ViewProducts, k.ViewCart, k.ViewWishlist},
		{k.Up, k.Down, k.Top, k.Bottom},
		// Shopping
		{k.AddToCart, k.ToggleWishlist, k.Increase, k.Decrease, k.Remove, k.Clear},
		// Account
		{k.Login, k.Register, k.Newsletter},
		// General
		{k.CycleTheme, k.Help, k.Quit},
	}
}

// formKeys is the help shown under an open form.
func (k keyMap) formKeys() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Cancel}
}
