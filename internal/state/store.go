package state

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/five82/foxnuts/internal/cart"
	"github.com/five82/foxnuts/internal/catalog"
	"github.com/five82/foxnuts/internal/notify"
	"github.com/five82/foxnuts/internal/session"
	"github.com/five82/foxnuts/internal/wishlist"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Lines     []cart.Line
	Total     decimal.Decimal
	ItemCount int

	Wishlist []catalog.Product

	User     session.User
	SignedIn bool

	Notices     []notify.Notice
	LastUpdated time.Time
}

// InWishlist reports whether productID is in the snapshot's wishlist.
func (s Snapshot) InWishlist(productID int) bool {
	for _, p := range s.Wishlist {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Quantity returns the cart quantity of productID, zero when absent.
func (s Snapshot) Quantity(productID int) int {
	for _, l := range s.Lines {
		if l.ID == productID {
			return l.Quantity
		}
	}
	return 0
}

// LatestNotice returns the newest notice.
func (s Snapshot) LatestNotice() (notify.Notice, bool) {
	if len(s.Notices) == 0 {
		return notify.Notice{}, false
	}
	return s.Notices[len(s.Notices)-1], true
}

// Sources are the owners the view reads from. Any of them may be nil.
type Sources struct {
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Session  *session.Session
	Feed     *notify.Feed
}

// Store is a read-only view over the cart, the wishlist, the session and the
// notice feed. It never mutates them.
type Store struct {
	src Sources

	// rebuildMu orders rebuilds so a slow one can't overwrite a newer result.
	rebuildMu sync.Mutex

	mu       sync.RWMutex
	snapshot Snapshot

	changes chan struct{}
	cancels []func()
}

// New builds the view and subscribes it to its sources.
func New(src Sources) *Store {
	s := &Store{src: src, changes: make(chan struct{}, 1)}
	if src.Cart != nil {
		s.cancels = append(s.cancels, src.Cart.Subscribe(s.Refresh))
	}
	if src.Wishlist != nil {
		s.cancels = append(s.cancels, src.Wishlist.Subscribe(s.Refresh))
	}
	if src.Feed != nil {
		src.Feed.OnPush(s.Refresh)
		s.cancels = append(s.cancels, func() { src.Feed.OnPush(nil) })
	}
	s.rebuild()
	return s
}

// Refresh rebuilds the snapshot from the sources and signals Changes. Call it
// after changes the sources don't publish, such as sign-in.
func (s *Store) Refresh() {
	s.rebuild()
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Changes delivers a signal after each refresh. Signals coalesce: a reader
// that falls behind sees one pending signal, not one per change.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Lines = cloneLines(s.snapshot.Lines)
	snap.Wishlist = cloneProducts(s.snapshot.Wishlist)
	if len(s.snapshot.Notices) > 0 {
		snap.Notices = append([]notify.Notice(nil), s.snapshot.Notices...)
	}
	return snap
}

// Close unsubscribes from the sources.
func (s *Store) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
}

func (s *Store) rebuild() {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	var next Snapshot
	if c := s.src.Cart; c != nil {
		next.Lines = c.Lines()
		next.Total = c.Total()
		next.ItemCount = c.Count()
	}
	if w := s.src.Wishlist; w != nil {
		next.Wishlist = w.Entries()
	}
	if sess := s.src.Session; sess != nil {
		next.User, _ = sess.User()
		next.SignedIn = sess.Active()
	}
	if f := s.src.Feed; f != nil {
		next.Notices = f.Recent()
	}
	next.LastUpdated = time.Now()

	s.mu.Lock()
	s.snapshot = next
	s.mu.Unlock()
}

func cloneLines(lines []cart.Line) []cart.Line {
	if len(lines) == 0 {
		return nil
	}
	dup := make([]cart.Line, len(lines))
	for i, l := range lines {
		dup[i] = cart.Line{Product: l.Product.Clone(), Quantity: l.Quantity}
	}
	return dup
}

func cloneProducts(items []catalog.Product) []catalog.Product {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.Product, len(items))
	for i, p := range items {
		dup[i] = p.Clone()
	}
	return dup
}
