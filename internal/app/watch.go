package app

import (
	"context"
	"time"

	"github.com/five82/foxnuts/internal/notify"
)

const defaultWatchInterval = time.Minute

// StartSessionWatch launches a background goroutine that checks the session
// token's expiry at a fixed cadence and raises one notice per expired token.
// It returns immediately. Mirroring is not affected: only token presence
// gates it.
func (s *Shop) StartSessionWatch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var warned string
		for {
			warned = s.checkExpiry(warned)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// checkExpiry posts a notice when the current token has expired and was not
// warned about yet. It returns the last warned token, which is the warned
// argument unchanged when nothing new has expired.
func (s *Shop) checkExpiry(warned string) string {
	token := s.Session.Token()
	if token == "" || token == warned {
		return warned
	}
	exp, ok := s.Session.Expiry()
	if !ok || s.now().Before(exp) {
		return warned
	}
	s.Logger.Info("session token expired", "expired_at", exp)
	notify.Send(s.Feed, notify.Info, "Your session has expired. Sign in again to keep your cart in sync.")
	return token
}
