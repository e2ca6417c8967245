// Package state provides the read-only view the foxnuts UI renders from.
//
// # Overview
//
// The cart and the wishlist own their data; the UI only reads it. This package
// gathers what a frame needs (cart lines and totals, wishlist entries, the
// signed-in user, recent notices) into one Snapshot so rendering never takes
// the stores' locks more than once per change.
//
// # Architecture
//
//	Owners:                         Consumer (UI):
//	┌────────────────────┐         ┌──────────────────┐
//	│ cart.Store         │─┐       │                  │
//	│ wishlist.Store     │─┼─────→ │ <-view.Changes() │
//	│ notify.Feed        │─┘ (sub) │ view.Snapshot()  │
//	│ session.Session    │         │ render           │
//	└────────────────────┘         └──────────────────┘
//
// New subscribes to the cart, the wishlist and the feed. Each publish triggers
// a rebuild and a signal on Changes. The session does not publish, so the
// composition root calls Refresh after sign-in and sign-out.
//
// # Change Signals
//
// Changes is a channel with a buffer of one. A burst of mutations (an add
// produces a cart publish and a feed push) collapses into a single pending
// signal; the UI always reads the newest Snapshot when it wakes up.
//
// # Snapshot Semantics
//
// Snapshot returns a deep copy: mutating its Lines or Wishlist never reaches
// the stores or later snapshots. Total is a decimal.Decimal and is immutable.
//
// # Thread Safety
//
// Rebuilds may be triggered from the UI goroutine and from background mirror
// goroutines (wishlist hydration). They are serialized; readers use an
// RWMutex and never block each other.
package state
