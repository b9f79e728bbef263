// Package authapi is the typed client for the backend's /api/auth endpoints.
// It classifies transport failures into the console's error taxonomy.
package authapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-assoc-admin/httpclient"
	apperrors "github.com/jrsteele09/go-assoc-admin/internal/errors"
	"github.com/jrsteele09/go-assoc-admin/users"
)

const (
	RouteLogin    = "/api/auth/login"
	RouteLogout   = "/api/auth/logout"
	RouteProfile  = "/api/auth/profile"
	RoutePassword = "/api/auth/password"
)

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user,omitempty"`
}

// MessageResponse is returned by endpoints that only report a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// API is what the session manager needs from the backend.
type API interface {
	Login(ctx context.Context, creds users.Credentials) (*LoginResponse, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (*users.User, error)
	UpdateProfile(ctx context.Context, update users.ProfileUpdate) (*users.User, error)
	ChangePassword(ctx context.Context, change users.PasswordChange) (string, error)
}

var _ API = (*Client)(nil)

// Client implements API over an httpclient.Client.
type Client struct {
	http *httpclient.Client
}

func New(httpClient *httpclient.Client) *Client {
	return &Client{http: httpClient}
}

// Login never sends the current credential, so a 401 here means bad
// credentials rather than an expired session.
func (c *Client) Login(ctx context.Context, creds users.Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, RouteLogin, creds, &resp, httpclient.WithoutCredential()); err != nil {
		return nil, classifyLogin(err)
	}
	if resp.Token == "" {
		return nil, apperrors.New(apperrors.ErrServer, "login response did not include a token", nil)
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return classifySession(c.http.DoJSON(ctx, http.MethodPost, RouteLogout, nil, nil))
}

func (c *Client) GetProfile(ctx context.Context) (*users.User, error) {
	var user users.User
	if err := c.http.DoJSON(ctx, http.MethodGet, RouteProfile, nil, &user); err != nil {
		return nil, classifySession(err)
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update users.ProfileUpdate) (*users.User, error) {
	var user users.User
	if err := c.http.DoJSON(ctx, http.MethodPut, RouteProfile, update, &user); err != nil {
		return nil, classifySession(err)
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, change users.PasswordChange) (string, error) {
	var resp MessageResponse
	if err := c.http.DoJSON(ctx, http.MethodPut, RoutePassword, change, &resp); err != nil {
		return "", classifySession(err)
	}
	return resp.Message, nil
}

func classifyLogin(err error) error {
	var reqErr *httpclient.RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode == 0 {
		return apperrors.New(apperrors.ErrServer, "backend unreachable, try again later", err)
	}
	switch {
	case reqErr.StatusCode == http.StatusUnauthorized:
		return apperrors.New(apperrors.ErrInvalidCredentials, "invalid email or password", err)
	case reqErr.StatusCode == http.StatusBadRequest:
		return apperrors.New(apperrors.ErrValidation, reqErr.Message, err)
	case reqErr.StatusCode >= 500:
		return apperrors.New(apperrors.ErrServer, "server error, try again later", err)
	default:
		return apperrors.New(apperrors.ErrRequest, reqErr.Message, err)
	}
}

func classifySession(err error) error {
	if err == nil {
		return nil
	}
	var reqErr *httpclient.RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode == 0 {
		return apperrors.New(apperrors.ErrServer, "backend unreachable, try again later", err)
	}
	switch {
	case reqErr.StatusCode == http.StatusUnauthorized:
		return apperrors.New(apperrors.ErrSessionExpired, "your session has expired, please log in again", err)
	case reqErr.StatusCode == http.StatusBadRequest:
		return apperrors.New(apperrors.ErrValidation, reqErr.Message, err)
	case reqErr.StatusCode >= 500:
		return apperrors.New(apperrors.ErrServer, "server error, try again later", err)
	default:
		return apperrors.New(apperrors.ErrRequest, reqErr.Message, err)
	}
}
