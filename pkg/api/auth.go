package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/example/quickbite/pkg/models"
)

// Auth operations against the backend's auth base. A session response
// with an empty access token means the backend accepted the request
// but did not open a session (e.g. signup pending email confirmation).

func (c *Client) SignUp(ctx context.Context, email, password string) (*models.SessionResponse, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	var session models.SessionResponse
	body := models.EmailPassword{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, c.authBase+"/signup", body, &session, nil); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*models.SessionResponse, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	params := url.Values{"grant_type": {"password"}}
	var session models.SessionResponse
	body := models.EmailPassword{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, c.authBase+"/token?"+params.Encode(), body, &session, nil); err != nil {
		return nil, err
	}
	return &session, nil
}

// Recover requests a password-recovery email.
func (c *Client) Recover(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, c.authBase+"/recover", body, nil, nil)
}

// CurrentUser returns the identifier the backend associates with the
// current bearer token.
func (c *Client) CurrentUser(ctx context.Context) (*models.UserResponse, error) {
	var user models.UserResponse
	if err := c.do(ctx, http.MethodGet, c.authBase+"/user", nil, &user, nil); err != nil {
		return nil, err
	}
	return &user, nil
}
