package wishlist

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/foxnuts/internal/catalog"
	"github.com/five82/foxnuts/internal/kv"
	"github.com/five82/foxnuts/internal/notify"
	"github.com/five82/foxnuts/internal/persist"
)

type gate bool

func (g gate) Active() bool { return bool(g) }

type fakeRemote struct {
	mu       sync.Mutex
	added    []int
	removed  []int
	fetches  int
	items    []catalog.Product
	fetchErr error
	writeErr error

	// When set, FetchWishlist signals fetching and then waits for release.
	fetching chan struct{}
	release  chan struct{}
}

func (f *fakeRemote) FetchWishlist(context.Context) ([]catalog.Product, error) {
	if f.release != nil {
		close(f.fetching)
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.items, nil
}

func (f *fakeRemote) AddToWishlist(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, id)
	return f.writeErr
}

func (f *fakeRemote) RemoveFromWishlist(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return f.writeErr
}

type harness struct {
	store   *Store
	storage *kv.Memory
	remote  *fakeRemote
	mirror  *persist.Mirror
	notices *notify.Feed
}

func newHarness(t *testing.T, signedIn bool) *harness {
	t.Helper()
	h := &harness{
		storage: kv.NewMemory(),
		remote:  &fakeRemote{},
		notices: notify.NewFeed(50),
		mirror:  persist.NewMirror(gate(signedIn), nil, nil),
	}
	h.store = h.reopen(t)
	return h
}

func (h *harness) reopen(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(Options{
		Storage:  h.storage,
		Mirror:   h.mirror,
		Remote:   h.remote,
		Notifier: h.notices,
	})
	require.NoError(t, err)
	return s
}

func (h *harness) lastKind(t *testing.T) notify.Kind {
	t.Helper()
	n, ok := h.notices.Latest()
	require.True(t, ok, "expected a notice")
	return n.Kind
}

func item(id int) catalog.Product {
	return catalog.Product{ID: id, Name: "Foxnuts", Price: catalog.NewPrice(10)}
}

func ids(products []catalog.Product) []int {
	var out []int
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

// ============================================
// Add / Remove / Toggle
// ============================================

func TestStore_AddHasSetSemantics(t *testing.T) {
	h := newHarness(t, false)

	assert.Equal(t, Added, h.store.Add(item(1)))
	assert.Equal(t, 1, h.store.Count())
	assert.Equal(t, notify.WishlistAdded, h.lastKind(t))

	assert.Equal(t, AlreadyPresent, h.store.Add(item(1)))
	assert.Equal(t, 1, h.store.Count())
	assert.Equal(t, notify.WishlistAlreadyPresent, h.lastKind(t))
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	h := newHarness(t, false)
	h.store.Add(item(1))
	h.store.Add(item(2))

	assert.True(t, h.store.Remove(1))
	assert.False(t, h.store.Remove(1))

	assert.Equal(t, []int{2}, ids(h.store.Entries()))
}

func TestStore_ToggleSymmetry(t *testing.T) {
	h := newHarness(t, false)
	p := item(5)

	assert.Equal(t, ToggledOn, h.store.Toggle(p))
	assert.True(t, h.store.Contains(5))
	first := h.store.Entries()

	assert.Equal(t, ToggledOff, h.store.Toggle(p))
	assert.False(t, h.store.Contains(5))
	assert.Equal(t, notify.WishlistRemoved, h.lastKind(t))

	assert.Equal(t, ToggledOn, h.store.Toggle(p))
	assert.Equal(t, first, h.store.Entries())
}

func TestStore_ContainsHasNoSideEffects(t *testing.T) {
	h := newHarness(t, false)
	writes := h.storage.Writes()

	assert.False(t, h.store.Contains(1))

	assert.Equal(t, writes, h.storage.Writes())
	assert.Empty(t, h.notices.Recent())
}

func TestStore_ClearIsLocalOnly(t *testing.T) {
	h := newHarness(t, true)
	h.store.Add(item(1))
	h.mirror.Wait()

	h.store.Clear()
	h.mirror.Wait()

	assert.Zero(t, h.store.Count())
	assert.Equal(t, notify.WishlistCleared, h.lastKind(t))
	assert.Equal(t, []int{1}, h.remote.added)
	assert.Empty(t, h.remote.removed)
	raw, _, _ := h.storage.Get(StorageKey)
	assert.JSONEq(t, `[]`, raw)
}

// ============================================
// Persistence
// ============================================

func TestStore_RoundTripsThroughStorage(t *testing.T) {
	h := newHarness(t, false)
	h.store.Add(item(3))
	h.store.Add(item(1))
	h.store.Toggle(item(2))
	h.store.Remove(3)

	reloaded := h.reopen(t)

	assert.Equal(t, ids(h.store.Entries()), ids(reloaded.Entries()))
	assert.Equal(t, []int{1, 2}, ids(reloaded.Entries()))
}

func TestStore_HydrateDropsDuplicateRecords(t *testing.T) {
	storage := kv.NewMemory()
	require.NoError(t, storage.Set(StorageKey, `[{"id":1,"name":"a","price":1},{"id":1,"name":"b","price":1}]`))

	s, err := NewStore(Options{Storage: storage})
	require.NoError(t, err)

	assert.Equal(t, 1, s.Count())
}

// ============================================
// Mirroring
// ============================================

func TestStore_MirrorsAddAndRemoveWhenSignedIn(t *testing.T) {
	h := newHarness(t, true)

	h.store.Add(item(1))
	h.store.Add(item(1))
	h.store.Remove(1)
	h.store.Remove(1)
	h.mirror.Wait()

	assert.Equal(t, []int{1}, h.remote.added)
	assert.Equal(t, []int{1}, h.remote.removed)
}

func TestStore_NoMirrorWhenSignedOut(t *testing.T) {
	h := newHarness(t, false)

	h.store.Add(item(1))
	h.store.Remove(1)
	h.mirror.Wait()

	assert.Empty(t, h.remote.added)
	assert.Empty(t, h.remote.removed)
}

func TestStore_RemoteAddFailureKeepsLocalAdd(t *testing.T) {
	h := newHarness(t, true)
	h.remote.writeErr = errors.New("500")

	outcome := h.store.Add(item(9))
	h.mirror.Wait()

	assert.Equal(t, Added, outcome)
	assert.True(t, h.store.Contains(9))
	assert.True(t, h.reopen(t).Contains(9), "durable copy must keep the add")
}

// ============================================
// Hydrate
// ============================================

func TestStore_HydrateRemoteWins(t *testing.T) {
	h := newHarness(t, true)
	h.store.Add(item(1))
	h.mirror.Wait()
	h.remote.items = []catalog.Product{item(7), item(8)}

	require.True(t, h.store.Hydrate())
	h.mirror.Wait()

	assert.Equal(t, []int{7, 8}, ids(h.store.Entries()))
	assert.Equal(t, []int{7, 8}, ids(h.reopen(t).Entries()))
}

func TestStore_HydrateEmptyRemoteClearsLocal(t *testing.T) {
	h := newHarness(t, true)
	h.store.Add(item(1))
	h.mirror.Wait()
	h.remote.items = []catalog.Product{}

	h.store.Hydrate()
	h.mirror.Wait()

	assert.Zero(t, h.store.Count())
}

func TestStore_HydrateMissingItemsKeepsLocal(t *testing.T) {
	h := newHarness(t, true)
	h.store.Add(item(1))
	h.mirror.Wait()
	h.remote.items = nil

	h.store.Hydrate()
	h.mirror.Wait()

	assert.Equal(t, []int{1}, ids(h.store.Entries()))
}

func TestStore_HydrateFailureKeepsLocal(t *testing.T) {
	h := newHarness(t, true)
	h.store.Add(item(1))
	h.mirror.Wait()
	h.remote.fetchErr = errors.New("offline")

	h.store.Hydrate()
	h.mirror.Wait()

	assert.Equal(t, []int{1}, ids(h.store.Entries()))
}

func TestStore_HydrateSkippedWhenSignedOut(t *testing.T) {
	h := newHarness(t, false)

	assert.False(t, h.store.Hydrate())
	h.mirror.Wait()

	assert.Zero(t, h.remote.fetches)
}

func TestStore_HydrateNotifiesSubscribers(t *testing.T) {
	h := newHarness(t, true)
	h.remote.items = []catalog.Product{item(2)}
	changed := make(chan struct{}, 1)
	h.store.Subscribe(func() { changed <- struct{}{} })

	h.store.Hydrate()
	h.mirror.Wait()

	select {
	case <-changed:
	default:
		t.Fatal("subscriber not called after remote replace")
	}
}

func TestStore_HydrateKeepsChangesMadeDuringFetch(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Store)
		want   []int
	}{
		{"add", func(s *Store) { s.Add(item(9)) }, []int{1, 9}},
		{"remove", func(s *Store) { s.Remove(1) }, nil},
		{"clear", func(s *Store) { s.Clear() }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, true)
			h.store.Add(item(1))
			h.mirror.Wait()
			h.remote.items = []catalog.Product{item(7)}
			h.remote.fetching = make(chan struct{})
			h.remote.release = make(chan struct{})

			require.True(t, h.store.Hydrate())
			<-h.remote.fetching
			tt.mutate(h.store)
			close(h.remote.release)
			h.mirror.Wait()

			assert.Equal(t, tt.want, ids(h.store.Entries()))
			assert.Equal(t, tt.want, ids(h.reopen(t).Entries()))
		})
	}
}

// ============================================
// Storage failure
// ============================================

func TestStore_StorageFailureKeepsMemoryChange(t *testing.T) {
	h := newHarness(t, false)
	h.storage.FailWrites(true)

	assert.Equal(t, Added, h.store.Add(item(1)))
	assert.Equal(t, Added, h.store.Add(item(2)))
	assert.True(t, h.store.Contains(1))
	assert.Equal(t, 2, h.store.Count())
	assert.Equal(t, notify.WishlistAdded, h.lastKind(t))

	assert.True(t, h.store.Remove(1))
	assert.False(t, h.store.Contains(1))
	assert.Equal(t, 1, h.store.Count())

	h.store.Clear()
	assert.Zero(t, h.store.Count())
	assert.Equal(t, notify.WishlistCleared, h.lastKind(t))
}
