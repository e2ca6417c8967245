// Package notify carries the transient messages stores raise after a
// mutation. Stores decide what to say; the UI decides how to show it.
package notify

import (
	"sync"
	"time"
)

// Kind classifies a notice.
type Kind int

const (
	Info Kind = iota
	Failure
	LineAdded
	LineUpdated
	LineRemoved
	CartCleared
	WishlistAdded
	WishlistAlreadyPresent
	WishlistRemoved
	WishlistCleared
)

var kindNames = map[Kind]string{
	Info:                   "info",
	Failure:                "failure",
	LineAdded:              "line_added",
	LineUpdated:            "line_updated",
	LineRemoved:            "line_removed",
	CartCleared:            "cart_cleared",
	WishlistAdded:          "wishlist_added",
	WishlistAlreadyPresent: "wishlist_already_present",
	WishlistRemoved:        "wishlist_removed",
	WishlistCleared:        "wishlist_cleared",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsError reports whether the notice should be shown as a problem.
func (k Kind) IsError() bool {
	return k == Failure || k == WishlistAlreadyPresent
}

// Notice is one message.
type Notice struct {
	Kind    Kind
	Message string
	At      time.Time
}

// Notifier receives notices.
type Notifier interface {
	Notify(Notice)
}

// Func adapts a function to Notifier.
type Func func(Notice)

// Notify calls f.
func (f Func) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = Func(func(Notice) {})

// Send stamps n with the current time when unset and delivers it. A nil
// notifier is treated as Discard.
func Send(to Notifier, kind Kind, message string) {
	if to == nil {
		return
	}
	to.Notify(Notice{Kind: kind, Message: message, At: time.Now()})
}

const defaultFeedSize = 20

// Feed keeps the most recent notices.
type Feed struct {
	mu      sync.Mutex
	size    int
	notices []Notice
	onPush  func()
}

// NewFeed returns a feed keeping up to size notices; size <= 0 uses 20.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = defaultFeedSize
	}
	return &Feed{size: size}
}

// Notify appends n, dropping the oldest notice when full.
func (f *Feed) Notify(n Notice) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	f.mu.Lock()
	f.notices = append(f.notices, n)
	if len(f.notices) > f.size {
		f.notices = append([]Notice(nil), f.notices[len(f.notices)-f.size:]...)
	}
	hook := f.onPush
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// OnPush registers a callback run after every Notify.
func (f *Feed) OnPush(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onPush = fn
}

// Recent returns notices oldest first.
func (f *Feed) Recent() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.notices) == 0 {
		return nil
	}
	return append([]Notice(nil), f.notices...)
}

// Latest returns the newest notice.
func (f *Feed) Latest() (Notice, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.notices) == 0 {
		return Notice{}, false
	}
	return f.notices[len(f.notices)-1], true
}
