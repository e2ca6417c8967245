package notify

import (
	"fmt"
	"testing"
)

func TestFeed_KeepsMostRecent(t *testing.T) {
	f := NewFeed(3)
	for i := range 5 {
		Send(f, Info, fmt.Sprintf("n%d", i))
	}

	got := f.Recent()
	if len(got) != 3 {
		t.Fatalf("Recent len = %d, want 3", len(got))
	}
	if got[0].Message != "n2" || got[2].Message != "n4" {
		t.Fatalf("Recent = %v, want n2..n4", got)
	}
	latest, ok := f.Latest()
	if !ok || latest.Message != "n4" {
		t.Fatalf("Latest = %v, %v, want n4", latest, ok)
	}
	if latest.At.IsZero() {
		t.Fatalf("Latest.At is zero, want timestamp")
	}
}

func TestFeed_OnPush(t *testing.T) {
	f := NewFeed(0)
	pushes := 0
	f.OnPush(func() { pushes++ })

	f.Notify(Notice{Kind: CartCleared, Message: "Cart cleared"})

	if pushes != 1 {
		t.Fatalf("pushes = %d, want 1", pushes)
	}
}

func TestSend_NilNotifier(t *testing.T) {
	Send(nil, Info, "ignored")
}

func TestKind(t *testing.T) {
	if WishlistAlreadyPresent.String() != "wishlist_already_present" {
		t.Fatalf("String = %q", WishlistAlreadyPresent.String())
	}
	if !WishlistAlreadyPresent.IsError() || LineAdded.IsError() {
		t.Fatalf("IsError classification wrong")
	}
	if Kind(99).String() != "unknown" {
		t.Fatalf("unknown kind String = %q", Kind(99).String())
	}
}
