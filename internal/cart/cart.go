// Package cart is the single source of truth for the shopping cart: its lines,
// their durable copy in local storage and the derived count and total.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/five82/foxnuts/internal/catalog"
	"github.com/five82/foxnuts/internal/kv"
	"github.com/five82/foxnuts/internal/notify"
	"github.com/five82/foxnuts/internal/persist"
)

// StorageKey is the local-storage key of the cart record.
const StorageKey = "foxnuts-cart"

// Line is a product with a quantity. Its JSON form is the product's fields
// plus "quantity".
type Line struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Subtotal is price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Amount().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) clone() Line {
	return Line{Product: l.Product.Clone(), Quantity: l.Quantity}
}

// AddOutcome says whether Add created a line or grew an existing one.
type AddOutcome int

const (
	LineAdded AddOutcome = iota
	LineUpdated
)

func (o AddOutcome) String() string {
	if o == LineUpdated {
		return "updated"
	}
	return "added"
}

// Remote is the slice of the storefront API the cart mirrors to.
type Remote interface {
	AddCartItem(ctx context.Context, productID, quantity int) error
	UpdateCartItem(ctx context.Context, productID, quantity int) error
	RemoveCartItem(ctx context.Context, productID int) error
	ClearCart(ctx context.Context) error
}

// Options wires a Store. Storage is required; the rest may be nil.
type Options struct {
	Storage  kv.Store
	Mirror   *persist.Mirror
	Remote   Remote
	Notifier notify.Notifier
	Logger   *slog.Logger
}

// Store owns the cart. It is safe for concurrent use; mutations are
// serialized and each one is written to storage before the call returns.
type Store struct {
	storage  kv.Store
	mirror   *persist.Mirror
	remote   Remote
	notifier notify.Notifier
	logger   *slog.Logger

	mu    sync.Mutex
	lines []Line

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewStore hydrates the cart from storage.
func NewStore(opts Options) (*Store, error) {
	if opts.Storage == nil {
		return nil, fmt.Errorf("cart store requires storage")
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
		logger:   logger.With("store", "cart"),
		subs:     make(map[int]func()),
	}
	s.lines = dedupe(persist.Load[[]Line](opts.Storage, StorageKey, s.logger))
	return s, nil
}

// Add puts quantity units of product in the cart: an existing line grows by
// quantity, otherwise a new line is appended. Quantity is taken as given; a
// negative value is stored as is.
func (s *Store) Add(product catalog.Product, quantity int) AddOutcome {
	s.mu.Lock()
	outcome := LineAdded
	if i := s.indexLocked(product.ID); i >= 0 {
		s.lines[i].Quantity += quantity
		outcome = LineUpdated
	} else {
		s.lines = append(s.lines, Line{Product: product.Clone(), Quantity: quantity})
	}
	s.saveLocked()
	s.mu.Unlock()

	if outcome == LineUpdated {
		notify.Send(s.notifier, notify.LineUpdated, fmt.Sprintf("Updated %s quantity in cart", product.Name))
	} else {
		notify.Send(s.notifier, notify.LineAdded, fmt.Sprintf("%s added to cart!", product.Name))
	}
	s.mirrorCall("cart.add", func(ctx context.Context) error {
		return s.remote.AddCartItem(ctx, product.ID, quantity)
	})
	s.publish()
	return outcome
}

// AddOne is Add with a quantity of one.
func (s *Store) AddOne(product catalog.Product) AddOutcome {
	return s.Add(product, 1)
}

// Remove deletes the line for productID. It reports whether a line existed.
func (s *Store) Remove(productID int) bool {
	s.mu.Lock()
	var removed *Line
	if i := s.indexLocked(productID); i >= 0 {
		line := s.lines[i]
		removed = &line
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
	s.saveLocked()
	s.mu.Unlock()

	if removed != nil {
		notify.Send(s.notifier, notify.LineRemoved, fmt.Sprintf("%s removed from cart", removed.Name))
		s.mirrorCall("cart.remove", func(ctx context.Context) error {
			return s.remote.RemoveCartItem(ctx, productID)
		})
	}
	s.publish()
	return removed != nil
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line. Unknown IDs are ignored.
func (s *Store) UpdateQuantity(productID, quantity int) {
	if quantity <= 0 {
		s.Remove(productID)
		return
	}

	s.mu.Lock()
	changed := false
	if i := s.indexLocked(productID); i >= 0 {
		changed = s.lines[i].Quantity != quantity
		s.lines[i].Quantity = quantity
	}
	s.saveLocked()
	s.mu.Unlock()

	if changed {
		s.mirrorCall("cart.update", func(ctx context.Context) error {
			return s.remote.UpdateCartItem(ctx, productID, quantity)
		})
	}
	s.publish()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.saveLocked()
	s.mu.Unlock()

	notify.Send(s.notifier, notify.CartCleared, "Cart cleared")
	s.mirrorCall("cart.clear", func(ctx context.Context) error {
		return s.remote.ClearCart(ctx)
	})
	s.publish()
}

// Total is the sum of price times quantity over all lines.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Count is the sum of quantities.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// Lines returns a copy of the lines in the order they were first added.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lines) == 0 {
		return nil
	}
	out := make([]Line, len(s.lines))
	for i, l := range s.lines {
		out[i] = l.clone()
	}
	return out
}

// Line returns the line for productID.
func (s *Store) Line(productID int) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(productID); i >= 0 {
		return s.lines[i].clone(), true
	}
	return Line{}, false
}

// Subscribe registers fn to run after every mutating call. The returned
// function unregisters it.
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
	for i, l := range s.lines {
		if l.ID == productID {
			return i
		}
	}
	return -1
}

// saveLocked writes the lines. A failed write is logged and the in-memory
// change stands.
func (s *Store) saveLocked() {
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	if err := persist.Save(s.storage, StorageKey, lines); err != nil {
		s.logger.Error("persist cart failed", "error", err)
	}
}

func (s *Store) mirrorCall(op string, fn func(ctx context.Context) error) {
	if s.remote == nil || s.mirror == nil {
		return
	}
	s.mirror.Do(op, fn)
}

func dedupe(lines []Line) []Line {
	if len(lines) < 2 {
		return lines
	}
	seen := make(map[int]struct{}, len(lines))
	out := lines[:0]
	for _, l := range lines {
		if _, ok := seen[l.ID]; ok {
			continue
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}
	return out
}
