// Package session holds the signed-in state shared by the cart, the wishlist
// and the storefront client. A token being present is the only thing that
// enables remote mirroring; its contents are not interpreted for that
// decision.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/five82/foxnuts/internal/kv"
)

// Storage keys.
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// User is the profile returned by login and register.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the injected signed-in capability. It caches the stored token so
// Active is cheap to call on every mutation.
type Session struct {
	store  kv.Store
	logger *slog.Logger

	mu    sync.RWMutex
	token string
	user  *User
}

// New loads any stored token and user from store.
func New(store kv.Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{store: store, logger: logger}

	token, ok, err := store.Get(TokenKey)
	if err != nil {
		logger.Warn("read session token failed", "error", err)
	} else if ok {
		s.token = strings.TrimSpace(token)
	}

	raw, ok, err := store.Get(UserKey)
	if err != nil {
		logger.Warn("read session user failed", "error", err)
	} else if ok {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			logger.Warn("decode session user failed", "error", err)
		} else {
			s.user = &u
		}
	}
	return s
}

// Token returns the session token or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Active reports whether a token is present.
func (s *Session) Active() bool {
	return s.Token() != ""
}

// User returns the signed-in user when known.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// SignIn stores token and user. The in-memory session is updated even when
// persisting fails; the error reports the failed write.
func (s *Session) SignIn(token string, user User) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("sign in: empty token")
	}

	s.mu.Lock()
	s.token = token
	u := user
	s.user = &u
	s.mu.Unlock()

	if err := s.store.Set(TokenKey, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.store.Set(UserKey, string(data)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// SignOut forgets the token and user.
func (s *Session) SignOut() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Remove(TokenKey); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	if err := s.store.Remove(UserKey); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}
	return nil
}

// Expiry returns the exp claim when the token is a JWT. The signature is not
// checked; the result is for display only.
func (s *Session) Expiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
