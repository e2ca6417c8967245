package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/foxnuts/internal/catalog"
)

// TokenSource supplies the bearer token for each request. An empty token
// sends no Authorization header.
type TokenSource interface {
	Token() string
}

// Client talks to the storefront HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	userAgent string
}

// Options tunes a Client. Zero values pick the defaults.
type Options struct {
	Tokens    TokenSource
	Timeout   time.Duration
	UserAgent string
}

const (
	DefaultBaseURL   = "http://localhost:5000/api"
	defaultUserAgent = "foxnuts/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client rooted at baseURL, e.g. http://localhost:5000/api.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		tokens:    opts.Tokens,
		userAgent: ua,
	}, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	var payload AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &payload); err != nil {
		return AuthResponse{}, err
	}
	return payload, nil
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, reg Registration) (AuthResponse, error) {
	var payload AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &payload); err != nil {
		return AuthResponse{}, err
	}
	return payload, nil
}

// Profile fetches the signed-in user.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var payload ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &payload); err != nil {
		return User{}, err
	}
	return payload.User, nil
}

// GetWishlist fetches the account's wishlist.
func (c *Client) GetWishlist(ctx context.Context) (WishlistResponse, error) {
	var payload WishlistResponse
	if err := c.do(ctx, http.MethodGet, "/wishlist", nil, &payload); err != nil {
		return WishlistResponse{}, err
	}
	return payload, nil
}

// FetchWishlist returns only the items of GetWishlist; nil when the response
// had none.
func (c *Client) FetchWishlist(ctx context.Context) ([]catalog.Product, error) {
	resp, err := c.GetWishlist(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// AddToWishlist saves productID to the account's wishlist.
func (c *Client) AddToWishlist(ctx context.Context, productID int) error {
	return c.do(ctx, http.MethodPost, "/wishlist/add", productRef{ProductID: productID}, nil)
}

// RemoveFromWishlist drops productID from the account's wishlist.
func (c *Client) RemoveFromWishlist(ctx context.Context, productID int) error {
	return c.do(ctx, http.MethodDelete, "/wishlist/"+strconv.Itoa(productID), nil, nil)
}

// AddCartItem adds quantity of productID to the account's cart.
func (c *Client) AddCartItem(ctx context.Context, productID, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/add", cartItem{ProductID: productID, Quantity: quantity}, nil)
}

// UpdateCartItem sets the cart quantity of productID.
func (c *Client) UpdateCartItem(ctx context.Context, productID, quantity int) error {
	return c.do(ctx, http.MethodPut, "/cart/update", cartItem{ProductID: productID, Quantity: quantity}, nil)
}

// RemoveCartItem deletes productID from the account's cart.
func (c *Client) RemoveCartItem(ctx context.Context, productID int) error {
	return c.do(ctx, http.MethodDelete, "/cart/"+strconv.Itoa(productID), nil, nil)
}

// ClearCart empties the account's cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart", nil, nil)
}

// SubscribeNewsletter signs email up for the newsletter.
func (c *Client) SubscribeNewsletter(ctx context.Context, email string) (Ack, error) {
	var ack Ack
	if err := c.do(ctx, http.MethodPost, "/newsletter/subscribe", emailBody{Email: email}, &ack); err != nil {
		return Ack{}, err
	}
	return ack, nil
}

// UnsubscribeNewsletter removes email from the newsletter.
func (c *Client) UnsubscribeNewsletter(ctx context.Context, email string) (Ack, error) {
	var ack Ack
	if err := c.do(ctx, http.MethodPost, "/newsletter/unsubscribe", emailBody{Email: email}, &ack); err != nil {
		return Ack{}, err
	}
	return ack, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.JoinPath(path)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.Token()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Path: path, Message: readErrorMessage(resp.Body)}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorMessage prefers the JSON "message", then "error", then the raw
// text of the body.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4<<10))
	if err != nil {
		return ""
	}
	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
