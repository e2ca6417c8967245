// Package wishlist is the single source of truth for saved-for-later
// products, their durable copy and their optional mirror on the storefront
// service.
package wishlist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/five82/foxnuts/internal/catalog"
	"github.com/five82/foxnuts/internal/kv"
	"github.com/five82/foxnuts/internal/notify"
	"github.com/five82/foxnuts/internal/persist"
)

// StorageKey is the local-storage key of the wishlist record.
const StorageKey = "foxnuts-wishlist"

// AddOutcome is the result of Add.
type AddOutcome int

const (
	Added AddOutcome = iota
	AlreadyPresent
)

func (o AddOutcome) String() string {
	if o == AlreadyPresent {
		return "already_present"
	}
	return "added"
}

// ToggleOutcome is the result of Toggle.
type ToggleOutcome int

const (
	ToggledOn ToggleOutcome = iota
	ToggledOff
)

func (o ToggleOutcome) String() string {
	if o == ToggledOff {
		return "removed"
	}
	return "added"
}

// Remote is the slice of the storefront API the wishlist mirrors to.
// FetchWishlist returns nil when the response carried no items array.
type Remote interface {
	FetchWishlist(ctx context.Context) ([]catalog.Product, error)
	AddToWishlist(ctx context.Context, productID int) error
	RemoveFromWishlist(ctx context.Context, productID int) error
}

// Options wires a Store. Storage is required.
type Options struct {
	Storage  kv.Store
	Mirror   *persist.Mirror
	Remote   Remote
	Notifier notify.Notifier
	Logger   *slog.Logger
}

// Store owns the wishlist.
type Store struct {
	storage  kv.Store
	mirror   *persist.Mirror
	remote   Remote
	notifier notify.Notifier
	logger   *slog.Logger

	mu      sync.Mutex
	entries []catalog.Product
	version uint64 // bumped by every local mutation

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewStore hydrates the wishlist from storage. Call Hydrate afterwards to
// pull the remote copy.
func NewStore(opts Options) (*Store, error) {
	if opts.Storage == nil {
		return nil, fmt.Errorf("wishlist store requires storage")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		storage:  opts.Storage,
		mirror:   opts.Mirror,
		remote:   opts.Remote,
		notifier: opts.Notifier,
		logger:   logger.With("store", "wishlist"),
		subs:     make(map[int]func()),
	}
	s.entries = unique(persist.Load[[]catalog.Product](opts.Storage, StorageKey, s.logger))
	return s, nil
}

// Hydrate fetches the remote wishlist in the background when signed in. A
// successful fetch that carries items replaces the local set and its stored
// copy, unless the wishlist was changed locally while the fetch was in
// flight. A failed fetch leaves local state alone. It reports whether a
// fetch was started.
func (s *Store) Hydrate() bool {
	if s.remote == nil || s.mirror == nil {
		return false
	}
	s.mu.Lock()
	since := s.version
	s.mu.Unlock()

	return s.mirror.Do("wishlist.fetch", func(ctx context.Context) error {
		items, err := s.remote.FetchWishlist(ctx)
		if err != nil {
			return err
		}
		if items == nil {
			return nil
		}
		s.replace(items, since)
		return nil
	})
}

// replace installs the remote set if no local mutation happened after since.
func (s *Store) replace(items []catalog.Product, since uint64) {
	s.mu.Lock()
	if s.version != since {
		s.mu.Unlock()
		s.logger.Info("remote wishlist ignored, changed locally during fetch", "count", len(items))
		return
	}
	entries := make([]catalog.Product, 0, len(items))
	for _, p := range items {
		entries = append(entries, p.Clone())
	}
	s.entries = unique(entries)
	s.saveLocked()
	s.mu.Unlock()

	s.logger.Info("wishlist replaced from remote", "count", len(items))
	s.publish()
}

// Add saves product. Adding a product that is already present changes
// nothing and returns AlreadyPresent.
func (s *Store) Add(product catalog.Product) AddOutcome {
	s.mu.Lock()
	outcome := s.addLocked(product)
	s.mu.Unlock()

	s.afterAdd(product, outcome)
	return outcome
}

// Remove deletes the entry for productID and reports whether it existed.
func (s *Store) Remove(productID int) bool {
	s.mu.Lock()
	removed, ok := s.removeLocked(productID)
	s.mu.Unlock()

	s.afterRemove(productID, removed, ok)
	return ok
}

// Toggle removes product when present and adds it otherwise.
func (s *Store) Toggle(product catalog.Product) ToggleOutcome {
	s.mu.Lock()
	if s.indexLocked(product.ID) >= 0 {
		removed, ok := s.removeLocked(product.ID)
		s.mu.Unlock()
		s.afterRemove(product.ID, removed, ok)
		return ToggledOff
	}
	outcome := s.addLocked(product)
	s.mu.Unlock()
	s.afterAdd(product, outcome)
	return ToggledOn
}

// Contains reports whether productID is saved.
func (s *Store) Contains(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(productID) >= 0
}

// Clear empties the wishlist locally. The remote copy is not touched.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.version++
	s.saveLocked()
	s.mu.Unlock()

	notify.Send(s.notifier, notify.WishlistCleared, "Wishlist cleared")
	s.publish()
}

// Count returns the number of entries.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of the saved products in the order they were added.
func (s *Store) Entries() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return nil
	}
	out := make([]catalog.Product, len(s.entries))
	for i, p := range s.entries {
		out[i] = p.Clone()
	}
	return out
}

// Subscribe registers fn to run after every mutation, including a remote
// replace. The returned function unregisters it.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) addLocked(product catalog.Product) AddOutcome {
	if s.indexLocked(product.ID) >= 0 {
		return AlreadyPresent
	}
	s.entries = append(s.entries, product.Clone())
	s.version++
	s.saveLocked()
	return Added
}

func (s *Store) removeLocked(productID int) (catalog.Product, bool) {
	i := s.indexLocked(productID)
	if i < 0 {
		return catalog.Product{}, false
	}
	removed := s.entries[i]
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	s.version++
	s.saveLocked()
	return removed, true
}

func (s *Store) afterAdd(product catalog.Product, outcome AddOutcome) {
	if outcome == AlreadyPresent {
		notify.Send(s.notifier, notify.WishlistAlreadyPresent, fmt.Sprintf("%s is already in your wishlist", product.Name))
		return
	}
	notify.Send(s.notifier, notify.WishlistAdded, fmt.Sprintf("%s added to wishlist!", product.Name))
	s.mirrorCall("wishlist.add", func(ctx context.Context) error {
		return s.remote.AddToWishlist(ctx, product.ID)
	})
	s.publish()
}

func (s *Store) afterRemove(productID int, removed catalog.Product, ok bool) {
	if !ok {
		return
	}
	notify.Send(s.notifier, notify.WishlistRemoved, fmt.Sprintf("%s removed from wishlist", removed.Name))
	s.mirrorCall("wishlist.remove", func(ctx context.Context) error {
		return s.remote.RemoveFromWishlist(ctx, productID)
	})
	s.publish()
}

func (s *Store) publish() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *Store) indexLocked(productID int) int {
	for i, p := range s.entries {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) saveLocked() {
	entries := s.entries
	if entries == nil {
		entries = []catalog.Product{}
	}
	if err := persist.Save(s.storage, StorageKey, entries); err != nil {
		s.logger.Error("persist wishlist failed", "error", err)
	}
}

func (s *Store) mirrorCall(op string, fn func(ctx context.Context) error) {
	if s.remote == nil || s.mirror == nil {
		return
	}
	s.mirror.Do(op, fn)
}

func unique(entries []catalog.Product) []catalog.Product {
	if len(entries) < 2 {
		return entries
	}
	seen := make(map[int]struct{}, len(entries))
	out := entries[:0]
	for _, p := range entries {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
