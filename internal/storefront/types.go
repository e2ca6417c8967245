package storefront

import (
	"fmt"

	"github.com/five82/foxnuts/internal/catalog"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// User is the account profile as the service reports it.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// ProfileResponse wraps the signed-in user's profile.
type ProfileResponse struct {
	User User `json:"user"`
}

// WishlistResponse is the body of GET /wishlist. Items stays nil when the
// service omitted the array.
type WishlistResponse struct {
	Items []catalog.Product `json:"items"`
}

// Ack is the generic acknowledgement body.
type Ack struct {
	Message string `json:"message,omitempty"`
}

type productRef struct {
	ProductID int `json:"product_id"`
}

type cartItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type emailBody struct {
	Email string `json:"email"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Message)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
