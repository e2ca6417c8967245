package mockapi

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	ErrNotInCart  = errors.New("item not in cart")
)

type user struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
}

// CartEntry is one line of a server-side cart.
type CartEntry struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// memory holds all server state. Every method takes the lock.
type memory struct {
	mu         sync.Mutex
	users      map[string]*user
	byEmail    map[string]string
	wishlists  map[string][]int
	carts      map[string][]CartEntry
	newsletter map[string]bool
}

func newMemory() *memory {
	return &memory{
		users:      make(map[string]*user),
		byEmail:    make(map[string]string),
		wishlists:  make(map[string][]int),
		carts:      make(map[string][]CartEntry),
		newsletter: make(map[string]bool),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *memory) createUser(name, email, phone, hash string) (user, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := normalizeEmail(email)
	if _, ok := m.byEmail[key]; ok {
		return user{}, ErrEmailTaken
	}
	u := &user{ID: uuid.NewString(), Name: strings.TrimSpace(name), Email: key, Phone: phone, PasswordHash: hash}
	m.users[u.ID] = u
	m.byEmail[key] = u.ID
	return *u, nil
}

func (m *memory) userByEmail(email string) (user, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[normalizeEmail(email)]
	if !ok {
		return user{}, false
	}
	return *m.users[id], true
}

func (m *memory) userByID(id string) (user, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return user{}, false
	}
	return *u, true
}

func (m *memory) wishlist(userID string) []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.wishlists[userID])
}

func (m *memory) addToWishlist(userID string, productID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.wishlists[userID], productID) {
		return
	}
	m.wishlists[userID] = append(m.wishlists[userID], productID)
}

func (m *memory) removeFromWishlist(userID string, productID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wishlists[userID] = slices.DeleteFunc(m.wishlists[userID], func(id int) bool { return id == productID })
}

func (m *memory) cart(userID string) []CartEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.carts[userID])
}

func (m *memory) addToCart(userID string, productID, quantity int) []CartEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.carts[userID]
	found := false
	for i := range entries {
		if entries[i].ProductID == productID {
			entries[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, CartEntry{ProductID: productID, Quantity: quantity})
	}
	m.carts[userID] = entries
	return slices.Clone(entries)
}

// updateCart sets the quantity of an existing entry and drops entries whose
// quantity is no longer positive.
func (m *memory) updateCart(userID string, productID, quantity int) ([]CartEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.carts[userID]
	i := slices.IndexFunc(entries, func(e CartEntry) bool { return e.ProductID == productID })
	if i < 0 {
		return nil, ErrNotInCart
	}
	entries[i].Quantity = quantity
	entries = slices.DeleteFunc(entries, func(e CartEntry) bool { return e.Quantity <= 0 })
	m.carts[userID] = entries
	return slices.Clone(entries), nil
}

func (m *memory) removeFromCart(userID string, productID int) []CartEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = slices.DeleteFunc(m.carts[userID], func(e CartEntry) bool { return e.ProductID == productID })
	return slices.Clone(m.carts[userID])
}

func (m *memory) clearCart(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
}

// subscribe reports whether email was newly activated.
func (m *memory) subscribe(email string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := normalizeEmail(email)
	if m.newsletter[key] {
		return false
	}
	m.newsletter[key] = true
	return true
}

// unsubscribe reports whether email had an active subscription.
func (m *memory) unsubscribe(email string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := normalizeEmail(email)
	if !m.newsletter[key] {
		return false
	}
	m.newsletter[key] = false
	return true
}

func (m *memory) subscribed(email string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newsletter[normalizeEmail(email)]
}
