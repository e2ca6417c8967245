// Package ui is the terminal storefront built on bubbletea.
//
// # Architecture Overview
//
// The UI is a thin consumer. It never owns cart or wishlist data: keys call
// the stores' operations directly, and what is drawn always comes from the
// latest state.Snapshot. Account actions (sign in, register, newsletter) go
// through the Actions interface, which app.Shop implements.
//
// # Package Structure
//
//   - model.go: Model, Options, Run and key dispatch
//   - form.go: textinput forms for sign-in, registration and the newsletter
//   - render.go: header tabs, product/cart/wishlist lists, toast, help overlay
//   - keys.go: bubbles/key bindings, also feeding the bubbles/help views
//   - theme.go: lipgloss palettes (Foxnut, Midnight, Paper)
//
// # Event Flow
//
//  1. Run builds the Model from the stores and the view
//  2. Init waits on view.Changes(); every signal re-reads the Snapshot
//  3. Keys mutate the stores synchronously; the view publishes the result
//  4. Forms submit in a tea.Cmd so network calls never block drawing
//  5. Context cancellation or q quits; theme and page are saved to prefs
//
// # Views
//
//   - Products: the catalog with price, stock, wishlist heart and cart count
//   - Cart: lines with quantity and subtotal, plus the total
//   - Wishlist: saved products, in insertion order
//
// # Key Bindings
//
//   - Tab / 1 2 3: Switch views
//   - j/k: Move
//   - a or Enter: Add to cart
//   - w: Toggle wishlist
//   - +/-: Change quantity (cart)
//   - d: Remove
//   - C: Clear the current list
//   - L: Sign in, or sign out when signed in
//   - R: Create account
//   - N: Newsletter
//   - T: Cycle theme
//   - ?: Help
//   - q or Ctrl+C: Exit
package ui
