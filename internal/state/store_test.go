package state

import (
	"testing"
	"time"

	"github.com/five82/foxnuts/internal/cart"
	"github.com/five82/foxnuts/internal/catalog"
	"github.com/five82/foxnuts/internal/kv"
	"github.com/five82/foxnuts/internal/notify"
	"github.com/five82/foxnuts/internal/session"
	"github.com/five82/foxnuts/internal/wishlist"
)

type fixture struct {
	view     *Store
	cart     *cart.Store
	wishlist *wishlist.Store
	session  *session.Session
	feed     *notify.Feed
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	storage := kv.NewMemory()
	feed := notify.NewFeed(10)

	c, err := cart.NewStore(cart.Options{Storage: storage, Notifier: feed})
	if err != nil {
		t.Fatalf("cart.NewStore: %v", err)
	}
	w, err := wishlist.NewStore(wishlist.Options{Storage: storage, Notifier: feed})
	if err != nil {
		t.Fatalf("wishlist.NewStore: %v", err)
	}
	sess := session.New(storage, nil)

	view := New(Sources{Cart: c, Wishlist: w, Session: sess, Feed: feed})
	t.Cleanup(view.Close)
	return fixture{view: view, cart: c, wishlist: w, session: sess, feed: feed}
}

func drain(ch <-chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func TestStore_SnapshotFollowsOwners(t *testing.T) {
	f := newFixture(t)
	products := catalog.Default()
	salt, _ := products.ByID(1)
	caramel, _ := products.ByID(3)

	before := time.Now()
	f.cart.Add(salt, 2)
	f.wishlist.Add(caramel)

	snap := f.view.Snapshot()
	if snap.ItemCount != 2 || len(snap.Lines) != 1 {
		t.Fatalf("cart view = %d items / %d lines, want 2/1", snap.ItemCount, len(snap.Lines))
	}
	if got := catalog.FormatMoney(snap.Total); got != "$25.98" {
		t.Fatalf("Total = %s, want $25.98", got)
	}
	if !snap.InWishlist(3) || snap.InWishlist(1) {
		t.Fatalf("InWishlist wrong: %#v", snap.Wishlist)
	}
	if snap.Quantity(1) != 2 || snap.Quantity(3) != 0 {
		t.Fatalf("Quantity wrong")
	}
	latest, ok := snap.LatestNotice()
	if !ok || latest.Kind != notify.WishlistAdded {
		t.Fatalf("LatestNotice = %+v, want wishlist_added", latest)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	f := newFixture(t)
	salt, _ := catalog.Default().ByID(1)
	f.cart.AddOne(salt)
	f.wishlist.Add(salt)

	snap := f.view.Snapshot()
	snap.Lines[0].Quantity = 99
	snap.Lines[0].Tags[0] = "mutated"
	snap.Wishlist[0].Name = "mutated"

	again := f.view.Snapshot()
	if again.Lines[0].Quantity != 1 || again.Lines[0].Tags[0] == "mutated" {
		t.Fatalf("snapshot lines leaked mutation: %+v", again.Lines[0])
	}
	if again.Wishlist[0].Name == "mutated" {
		t.Fatalf("snapshot wishlist leaked mutation")
	}
	line, _ := f.cart.Line(1)
	if line.Quantity != 1 {
		t.Fatalf("owner mutated through view: quantity %d", line.Quantity)
	}
}

func TestStore_ChangesCoalesce(t *testing.T) {
	f := newFixture(t)
	drain(f.view.Changes())
	salt, _ := catalog.Default().ByID(1)

	f.cart.AddOne(salt)
	f.cart.AddOne(salt)
	f.wishlist.Toggle(salt)

	select {
	case <-f.view.Changes():
	default:
		t.Fatalf("expected a pending change signal")
	}
	select {
	case <-f.view.Changes():
		t.Fatalf("signals should coalesce into one")
	default:
	}
}

func TestStore_RefreshPicksUpSession(t *testing.T) {
	f := newFixture(t)
	if f.view.Snapshot().SignedIn {
		t.Fatalf("SignedIn = true before sign-in")
	}

	if err := f.session.SignIn("tok", session.User{ID: "u1", Name: "Asha"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	f.view.Refresh()

	snap := f.view.Snapshot()
	if !snap.SignedIn || snap.User.Name != "Asha" {
		t.Fatalf("snapshot user = %+v signedIn=%v, want Asha", snap.User, snap.SignedIn)
	}
}

func TestStore_CloseStopsUpdates(t *testing.T) {
	f := newFixture(t)
	salt, _ := catalog.Default().ByID(1)

	f.view.Close()
	f.cart.AddOne(salt)

	if n := f.view.Snapshot().ItemCount; n != 0 {
		t.Fatalf("ItemCount = %d after Close, want 0", n)
	}
}

func TestStore_NilSources(t *testing.T) {
	view := New(Sources{})
	defer view.Close()

	snap := view.Snapshot()
	if snap.Lines != nil || snap.Wishlist != nil || snap.SignedIn {
		t.Fatalf("empty sources should give an empty snapshot: %+v", snap)
	}
	if !snap.Total.IsZero() {
		t.Fatalf("Total = %s, want 0", snap.Total)
	}
}
