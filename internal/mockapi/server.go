// Package mockapi is an in-memory implementation of the storefront API. It
// backs local development (cmd/foxnuts-devapi) and the end-to-end tests of
// the client and the composition root.
package mockapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/five82/foxnuts/internal/catalog"
)

const defaultTokenTTL = 24 * time.Hour

// Options configures a Server. Secret is required for tokens to be
// meaningful; a zero Options still yields a working server.
type Options struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
	Catalog    *catalog.Catalog
	Logger     *slog.Logger
	Now        func() time.Time
}

// Server serves the storefront API under /api.
type Server struct {
	router  chi.Router
	data    *memory
	tokens  *tokenIssuer
	catalog *catalog.Catalog
	logger  *slog.Logger
	cost    int
	failing atomic.Bool
}

// New builds a Server with its routes mounted.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	secret := opts.Secret
	if secret == "" {
		secret = "foxnuts-dev-secret"
	}

	s := &Server{
		router:  chi.NewRouter(),
		data:    newMemory(),
		tokens:  &tokenIssuer{secret: []byte(secret), ttl: ttl, now: now},
		catalog: cat,
		logger:  logger,
		cost:    cost,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetFailing makes every cart, wishlist and newsletter call answer 503 until
// turned off. Auth keeps working.
func (s *Server) SetFailing(on bool) {
	s.failing.Store(on)
}

// Wishlist returns the product IDs saved for the user with email.
func (s *Server) Wishlist(email string) []int {
	u, ok := s.data.userByEmail(email)
	if !ok {
		return nil
	}
	return s.data.wishlist(u.ID)
}

// Cart returns the server-side cart of the user with email.
func (s *Server) Cart(email string) []CartEntry {
	u, ok := s.data.userByEmail(email)
	if !ok {
		return nil
	}
	return s.data.cart(u.ID)
}

// Subscribed reports whether email has an active newsletter subscription.
func (s *Server) Subscribed(email string) bool {
	return s.data.subscribed(email)
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(chimiddleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.With(s.requireAuth).Get("/profile", s.profile)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.failSwitch)
			r.Post("/newsletter/subscribe", s.subscribe)
			r.Post("/newsletter/unsubscribe", s.unsubscribe)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/wishlist", s.getWishlist)
				r.Post("/wishlist/add", s.addToWishlist)
				r.Delete("/wishlist/{productID}", s.removeFromWishlist)

				r.Get("/cart", s.getCart)
				r.Post("/cart/add", s.addToCart)
				r.Put("/cart/update", s.updateCart)
				r.Delete("/cart/{productID}", s.removeFromCart)
				r.Delete("/cart", s.clearCart)
			})
		})
	})
}

func (s *Server) failSwitch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.failing.Load() {
			writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("route", route),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			slog.String("client_request_id", r.Header.Get("X-Request-ID")),
		)
	})
}

// ============================================
// Auth
// ============================================

type userView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func viewOf(u user) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !validEmail(normalizeEmail(req.Email)) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if reason := validatePassword(req.Password); reason != "" {
		writeError(w, http.StatusBadRequest, reason)
		return
	}

	hash, err := hashPassword(req.Password, s.cost)
	if err != nil {
		s.logger.Error("hash password failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	u, err := s.data.createUser(req.Name, req.Email, req.Phone, hash)
	if errors.Is(err, ErrEmailTaken) {
		writeError(w, http.StatusConflict, "User with this email already exists")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	s.respondWithToken(w, http.StatusCreated, "User registered successfully", u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	u, ok := s.data.userByEmail(req.Email)
	if !ok || !checkPassword(req.Password, u.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	s.respondWithToken(w, http.StatusOK, "Login successful", u)
}

func (s *Server) respondWithToken(w http.ResponseWriter, status int, message string, u user) {
	token, err := s.tokens.issue(u.ID, u.Email)
	if err != nil {
		s.logger.Error("issue token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}
	writeJSON(w, status, map[string]any{
		"message": message,
		"token":   token,
		"user":    viewOf(u),
	})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	u, ok := s.data.userByID(userID(r.Context()))
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": viewOf(u)})
}

// ============================================
// Wishlist
// ============================================

func (s *Server) getWishlist(w http.ResponseWriter, r *http.Request) {
	ids := s.data.wishlist(userID(r.Context()))
	items := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.catalog.ByID(id); ok {
			items = append(items, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) addToWishlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int `json:"product_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	if _, ok := s.catalog.ByID(req.ProductID); !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	uid := userID(r.Context())
	s.data.addToWishlist(uid, req.ProductID)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Added to wishlist", "wishlist": s.data.wishlist(uid)})
}

func (s *Server) removeFromWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	uid := userID(r.Context())
	s.data.removeFromWishlist(uid, id)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Removed from wishlist", "wishlist": s.data.wishlist(uid)})
}

// ============================================
// Cart
// ============================================

type cartRequest struct {
	ProductID int  `json:"product_id"`
	Quantity  *int `json:"quantity"`
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": nonNil(s.data.cart(userID(r.Context())))})
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ProductID == 0 || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "Product ID and quantity required")
		return
	}
	product, ok := s.catalog.ByID(req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if *req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}
	if product.Stock < *req.Quantity {
		writeError(w, http.StatusBadRequest, "Insufficient stock")
		return
	}
	items := s.data.addToCart(userID(r.Context()), req.ProductID, *req.Quantity)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Item added to cart", "items": items})
}

func (s *Server) updateCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ProductID == 0 || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "Product ID and quantity required")
		return
	}
	items, err := s.data.updateCart(userID(r.Context()), req.ProductID, *req.Quantity)
	if errors.Is(err, ErrNotInCart) {
		writeError(w, http.StatusNotFound, "Item not in cart")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Cart updated", "items": nonNil(items)})
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	items := s.data.removeFromCart(userID(r.Context()), id)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Item removed from cart", "items": nonNil(items)})
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	s.data.clearCart(userID(r.Context()))
	writeJSON(w, http.StatusOK, map[string]any{"message": "Cart cleared"})
}

// ============================================
// Newsletter
// ============================================

type newsletterRequest struct {
	Email string `json:"email"`
}

func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if !decode(w, r, &req) {
		return
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if !validEmail(email) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if !s.data.subscribe(email) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Already subscribed to newsletter"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Successfully subscribed to newsletter"})
}

func (s *Server) unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.data.unsubscribe(req.Email) {
		writeError(w, http.StatusNotFound, "Email not found in newsletter list")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully unsubscribed from newsletter"})
}

// ============================================
// Helpers
// ============================================

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	errorType := "error"
	switch status {
	case http.StatusBadRequest:
		errorType = "bad_request"
	case http.StatusUnauthorized:
		errorType = "unauthorized"
	case http.StatusNotFound:
		errorType = "not_found"
	case http.StatusConflict:
		errorType = "conflict"
	case http.StatusServiceUnavailable:
		errorType = "unavailable"
	case http.StatusInternalServerError:
		errorType = "internal_server_error"
	}
	writeJSON(w, status, errorResponse{Error: errorType, Message: message})
}

func decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, "Request body required")
		return false
	}
	return true
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id")
		return 0, false
	}
	return id, true
}

func nonNil(items []CartEntry) []CartEntry {
	if items == nil {
		return []CartEntry{}
	}
	return items
}
