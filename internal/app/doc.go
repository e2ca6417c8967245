// Package app is the composition root of the foxnuts terminal storefront.
//
// # Overview
//
// New builds a Shop: the one context object that owns the session, the cart,
// the wishlist and everything they need. Nothing in the process reaches for a
// global; the UI receives the Shop's stores and actions explicitly.
//
// # Wiring
//
//	┌──────────────┐
//	│   New()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()           TOML + FOXNUTS_API_URL
//	       ├─────> logging.New()           JSON to <data_dir>/foxnuts.log
//	       ├─────> kv.OpenFileStore()      <data_dir>/storage
//	       ├─────> session.New()           token gate
//	       ├─────> storefront.NewClient()  bearer token from the session
//	       ├─────> persist.NewMirror()     gated by the session, counted
//	       ├─────> cart / wishlist stores  Remote = the client
//	       └─────> state.New()             read-only view for the UI
//
//	Run(): New → Wishlist.Hydrate → StartSessionWatch → /metrics → ui.Run
//
// # Sessions
//
// Login and Register call the service, then sign the session in and refresh
// the view. From that point every cart and wishlist mutation is mirrored.
// Logout signs out; local cart and wishlist contents stay where they are.
// The wishlist is hydrated from the service once, at start-up, and never
// again during the run.
//
// StartSessionWatch reads the token's exp claim once a minute and posts a
// notice when it has passed. It never signs out: token presence alone decides
// whether mirroring happens.
//
// # Error Handling
//
// Fatal (returned from New and Run):
//   - malformed config file
//   - unusable data directory or log file
//   - invalid api_url
//   - metrics_addr that cannot be bound
//
// Reported as a notice and returned to the UI, never fatal:
//   - login, registration and newsletter failures
//
// Logged only:
//   - mirror failures (the local change is kept)
//   - storage write failures (the in-memory change is kept)
//
// # Metrics
//
// When metrics_addr is set, Run serves the Shop's Prometheus registry on
// /metrics: mirror outcomes by operation, cart and wishlist sizes, and the
// standard Go and process collectors.
package app
