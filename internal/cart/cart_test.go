package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/foxnuts/internal/catalog"
	"github.com/five82/foxnuts/internal/kv"
	"github.com/five82/foxnuts/internal/notify"
	"github.com/five82/foxnuts/internal/persist"
)

type gate bool

func (g gate) Active() bool { return bool(g) }

type remoteCall struct {
	Op        string
	ProductID int
	Quantity  int
}

type fakeRemote struct {
	mu    sync.Mutex
	calls []remoteCall
	err   error
}

func (f *fakeRemote) record(c remoteCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.err
}

func (f *fakeRemote) AddCartItem(_ context.Context, id, qty int) error {
	return f.record(remoteCall{"add", id, qty})
}

func (f *fakeRemote) UpdateCartItem(_ context.Context, id, qty int) error {
	return f.record(remoteCall{"update", id, qty})
}

func (f *fakeRemote) RemoveCartItem(_ context.Context, id int) error {
	return f.record(remoteCall{"remove", id, 0})
}

func (f *fakeRemote) ClearCart(context.Context) error {
	return f.record(remoteCall{"clear", 0, 0})
}

func (f *fakeRemote) Calls() []remoteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remoteCall(nil), f.calls...)
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
	}
	h.mirror = persist.NewMirror(gate(signedIn), nil, nil)
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

func (h *harness) kinds() []notify.Kind {
	var out []notify.Kind
	for _, n := range h.notices.Recent() {
		out = append(out, n.Kind)
	}
	return out
}

func product(id int, price float64) catalog.Product {
	return catalog.Product{ID: id, Name: "Product", Price: catalog.NewPrice(price), Stock: 10}
}

// ============================================
// Add
// ============================================

func TestStore_AddNewLine(t *testing.T) {
	h := newHarness(t, false)

	outcome := h.store.AddOne(product(1, 12.99))

	assert.Equal(t, LineAdded, outcome)
	lines := h.store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].ID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, []notify.Kind{notify.LineAdded}, h.kinds())
}

func TestStore_AddIsAdditive(t *testing.T) {
	h := newHarness(t, false)
	p := product(7, 2)

	assert.Equal(t, LineAdded, h.store.Add(p, 2))
	assert.Equal(t, LineUpdated, h.store.Add(p, 3))

	lines := h.store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, []notify.Kind{notify.LineAdded, notify.LineUpdated}, h.kinds())
}

func TestStore_AddKeepsInsertionOrder(t *testing.T) {
	h := newHarness(t, false)

	h.store.AddOne(product(3, 1))
	h.store.AddOne(product(1, 1))
	h.store.AddOne(product(2, 1))
	h.store.AddOne(product(3, 1))

	var ids []int
	for _, l := range h.store.Lines() {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []int{3, 1, 2}, ids)
}

func TestStore_AddAcceptsNegativeQuantityAsIs(t *testing.T) {
	h := newHarness(t, false)

	h.store.Add(product(1, 1), -2)

	line, ok := h.store.Line(1)
	require.True(t, ok)
	assert.Equal(t, -2, line.Quantity)
	assert.Equal(t, -2, h.store.Count())
}

// ============================================
// Remove / UpdateQuantity / Clear
// ============================================

func TestStore_RemoveIsIdempotent(t *testing.T) {
	h := newHarness(t, false)
	h.store.AddOne(product(1, 1))
	h.store.AddOne(product(2, 1))

	assert.True(t, h.store.Remove(1))
	afterFirst := h.store.Lines()
	assert.False(t, h.store.Remove(1))

	assert.Equal(t, afterFirst, h.store.Lines())
	removed := 0
	for _, k := range h.kinds() {
		if k == notify.LineRemoved {
			removed++
		}
	}
	assert.Equal(t, 1, removed, "only an actual deletion notifies")
}

func TestStore_UpdateQuantitySetsExactly(t *testing.T) {
	h := newHarness(t, false)
	h.store.Add(product(1, 1), 4)

	h.store.UpdateQuantity(1, 2)

	line, _ := h.store.Line(1)
	assert.Equal(t, 2, line.Quantity)
}

func TestStore_UpdateQuantityZeroRemoves(t *testing.T) {
	h := newHarness(t, false)
	h.store.AddOne(product(1, 1))

	h.store.UpdateQuantity(1, 0)

	_, ok := h.store.Line(1)
	assert.False(t, ok)
	assert.Contains(t, h.kinds(), notify.LineRemoved)
}

func TestStore_UpdateQuantityUnknownIsNoop(t *testing.T) {
	h := newHarness(t, false)
	h.store.AddOne(product(1, 1))

	h.store.UpdateQuantity(9, 5)

	assert.Equal(t, 1, h.store.Count())
}

func TestStore_ClearAlwaysNotifies(t *testing.T) {
	h := newHarness(t, false)

	h.store.Clear()
	h.store.AddOne(product(1, 1))
	h.store.Clear()

	assert.Empty(t, h.store.Lines())
	cleared := 0
	for _, k := range h.kinds() {
		if k == notify.CartCleared {
			cleared++
		}
	}
	assert.Equal(t, 2, cleared)
}

// ============================================
// Aggregates
// ============================================

func TestStore_TotalAndCount(t *testing.T) {
	h := newHarness(t, false)
	h.store.Add(product(1, 12.99), 2)
	h.store.Add(catalog.Product{ID: 2, Name: "Text", Price: catalog.TextPrice("$5.00")}, 1)

	assert.True(t, decimal.RequireFromString("30.98").Equal(h.store.Total()), "total = %s", h.store.Total())
	assert.Equal(t, 3, h.store.Count())
}

func TestStore_TotalTreatsBadPriceAsZero(t *testing.T) {
	h := newHarness(t, false)
	h.store.Add(catalog.Product{ID: 1, Price: catalog.TextPrice("call us")}, 3)
	h.store.Add(product(2, 1.5), 2)

	assert.True(t, decimal.RequireFromString("3").Equal(h.store.Total()))
}

func TestStore_LinesAreCopies(t *testing.T) {
	h := newHarness(t, false)
	h.store.AddOne(product(1, 1))

	lines := h.store.Lines()
	lines[0].Quantity = 99

	line, _ := h.store.Line(1)
	assert.Equal(t, 1, line.Quantity)
}

// ============================================
// Persistence
// ============================================

func TestStore_PersistsEveryMutation(t *testing.T) {
	h := newHarness(t, false)

	h.store.AddOne(product(1, 1))
	h.store.Remove(42)
	h.store.UpdateQuantity(1, 3)
	h.store.Clear()

	assert.Equal(t, 4, h.storage.Writes())
	raw, ok, err := h.storage.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, raw)
}

func TestStore_RoundTripsThroughStorage(t *testing.T) {
	h := newHarness(t, false)
	h.store.Add(product(1, 12.99), 2)
	h.store.Add(catalog.Product{ID: 2, Name: "Text", Price: catalog.TextPrice("$5.00")}, 1)
	h.store.AddOne(product(3, 4))
	h.store.Remove(3)
	before := h.store.Lines()

	reloaded := h.reopen(t)

	after := reloaded.Lines()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Quantity, after[i].Quantity)
		assert.True(t, before[i].Price.Amount().Equal(after[i].Price.Amount()))
	}
	assert.True(t, h.store.Total().Equal(reloaded.Total()))
}

func TestStore_RecordIsProductFieldsPlusQuantity(t *testing.T) {
	h := newHarness(t, false)
	h.store.Add(product(1, 12.99), 2)

	raw, _, _ := h.storage.Get(StorageKey)
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &records))
	require.Len(t, records, 1)
	assert.EqualValues(t, 1, records[0]["id"])
	assert.EqualValues(t, 2, records[0]["quantity"])
	assert.EqualValues(t, 12.99, records[0]["price"])
}

func TestStore_HydrateCorruptRecordStartsEmpty(t *testing.T) {
	storage := kv.NewMemory()
	require.NoError(t, storage.Set(StorageKey, "not json"))

	s, err := NewStore(Options{Storage: storage})

	require.NoError(t, err)
	assert.Empty(t, s.Lines())
}

func TestStore_StorageFailureKeepsMemoryChange(t *testing.T) {
	h := newHarness(t, false)
	h.storage.FailWrites(true)

	h.store.AddOne(product(1, 1))

	assert.Equal(t, 1, h.store.Count())
}

func TestNewStore_RequiresStorage(t *testing.T) {
	_, err := NewStore(Options{})
	assert.Error(t, err)
}

// ============================================
// Mirroring
// ============================================

func TestStore_NoMirrorWithoutSession(t *testing.T) {
	h := newHarness(t, false)

	h.store.AddOne(product(1, 1))
	h.store.Clear()
	h.mirror.Wait()

	assert.Empty(t, h.remote.Calls())
}

func TestStore_MirrorsChangesWhenSignedIn(t *testing.T) {
	h := newHarness(t, true)

	h.store.Add(product(1, 1), 2)
	h.mirror.Wait()
	h.store.UpdateQuantity(1, 5)
	h.mirror.Wait()
	h.store.UpdateQuantity(1, 5)
	h.mirror.Wait()
	h.store.Remove(1)
	h.mirror.Wait()
	h.store.Remove(1)
	h.mirror.Wait()
	h.store.Clear()
	h.mirror.Wait()

	assert.Equal(t, []remoteCall{
		{"add", 1, 2},
		{"update", 1, 5},
		{"remove", 1, 0},
		{"clear", 0, 0},
	}, h.remote.Calls())
}

func TestStore_RemoteFailureDoesNotTouchLocalState(t *testing.T) {
	h := newHarness(t, true)
	h.remote.err = errors.New("502 bad gateway")

	h.store.Add(product(1, 1), 2)
	h.mirror.Wait()

	assert.Equal(t, 2, h.store.Count())
	assert.Equal(t, 2, h.reopen(t).Count())
}

// ============================================
// Subscriptions
// ============================================

func TestStore_SubscribeAndCancel(t *testing.T) {
	h := newHarness(t, false)
	calls := 0
	cancel := h.store.Subscribe(func() { calls++ })

	h.store.AddOne(product(1, 1))
	h.store.Clear()
	cancel()
	h.store.AddOne(product(1, 1))

	assert.Equal(t, 2, calls)
}
