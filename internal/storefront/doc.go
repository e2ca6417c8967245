// Package storefront provides an HTTP client for the foxnuts storefront API.
//
// # Overview
//
// The client covers the calls the terminal client makes against the remote
// service: account login and registration, the wishlist, per-item cart
// updates and the newsletter. The cart and wishlist stores only ever call it
// through persist.Mirror, so every method here may fail without consequence
// for local state.
//
// The package is split into two files:
//
//   - client.go: HTTP client and request handling
//   - types.go: request and response bodies, APIError
//
// # Client Usage
//
//	client, err := storefront.NewClient("http://localhost:5000/api", storefront.Options{
//		Tokens:  sess,
//		Timeout: 10 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	resp, err := client.Login(ctx, storefront.Credentials{Email: e, Password: p})
//
// # API Endpoints
//
// Paths are relative to the base URL:
//
//   - POST /auth/login, POST /auth/register, GET /auth/profile
//   - GET /wishlist, POST /wishlist/add, DELETE /wishlist/{id}
//   - POST /cart/add, PUT /cart/update, DELETE /cart/{id}, DELETE /cart
//   - POST /newsletter/subscribe, POST /newsletter/unsubscribe
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Set Accept: application/json, and Content-Type when a body is sent
//   - Carry a fresh X-Request-ID
//   - Carry Authorization: Bearer <token> when the TokenSource has one
//
// # Error Handling
//
// Any non-2xx status yields *APIError. Its Message is the body's "message"
// field, else its "error" field, else the raw body text. Use errors.As to
// inspect the status:
//
//	var apiErr *storefront.APIError
//	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
//		...
//	}
//
// Network and decode failures are wrapped with fmt.Errorf.
//
// The client does not retry. Callers decide what a failure means.
package storefront
