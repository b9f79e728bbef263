// Package httpclient is the single place requests to the backend leave the
// console. It attaches the current bearer credential and reports 401s.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 2 * 1024 * 1024
)

// Client talks JSON to the backend rooted at a base URL fixed at construction.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	onUnauthorized func(credential string)

	credential string
	source     func() string
	lock       sync.RWMutex
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the transport timeout used for every request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithUnauthorizedHandler registers the callback run when a credentialed
// request comes back 401. It receives the credential the request carried so a
// stale response cannot tear down a newer session.
func WithUnauthorizedHandler(fn func(credential string)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// New validates the base URL and builds a client.
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, &RequestError{Op: "create http client", Err: errors.New("base url is empty")}
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, &RequestError{Op: "parse base url", Err: err}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &RequestError{Op: "validate base url", Err: fmt.Errorf("invalid base url: %s", trimmed)}
	}

	c := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// SetUnauthorizedHandler sets the 401 callback after construction. The session
// manager is usually built after the client it depends on.
func (c *Client) SetUnauthorizedHandler(fn func(credential string)) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.onUnauthorized = fn
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetCredential sets the bearer token attached to subsequent requests.
func (c *Client) SetCredential(token string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.credential = token
}

// ClearCredential stops attaching a bearer token.
func (c *Client) ClearCredential() {
	c.SetCredential("")
}

// SetCredentialSource makes every request ask source for its bearer token
// instead of using the one set with SetCredential. An empty result sends no
// Authorization header.
func (c *Client) SetCredentialSource(source func() string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.source = source
}

// HasCredential reports whether requests currently carry a bearer token.
func (c *Client) HasCredential() bool {
	credential, _ := c.snapshot()
	return credential != ""
}

// snapshot reads the source outside the client lock; the source may take locks
// of its own that are held while SetCredential is called.
func (c *Client) snapshot() (string, func(string)) {
	c.lock.RLock()
	credential, source, onUnauthorized := c.credential, c.source, c.onUnauthorized
	c.lock.RUnlock()
	if source != nil {
		credential = source()
	}
	return credential, onUnauthorized
}

// RequestOption tweaks a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	skipCredential bool
}

// WithoutCredential sends the request without the bearer token, e.g. login.
func WithoutCredential() RequestOption {
	return func(o *requestOptions) {
		o.skipCredential = true
	}
}

// DoJSON sends body as JSON and decodes a 2xx response into out. Non-2xx
// responses come back as *RequestError, untouched apart from the 401 callback.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any, options ...RequestOption) error {
	var opts requestOptions
	for _, opt := range options {
		opt(&opts)
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: "marshal request body", Method: method, Path: path, Err: err}
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+ensureLeadingSlash(path), payload)
	if err != nil {
		return &RequestError{Op: "create http request", Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	credential, onUnauthorized := c.snapshot()
	credentialed := credential != "" && !opts.skipCredential
	if credentialed {
		(&oauth2.Token{AccessToken: credential, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: "execute http request", Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &RequestError{Op: "read http response", Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqErr := &RequestError{
			Op:         "unexpected http status",
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    backendMessage(responseBytes, resp.StatusCode),
		}
		if resp.StatusCode == http.StatusUnauthorized && credentialed && onUnauthorized != nil {
			log.Debug().Str("method", method).Str("path", path).Msg("credentialed request rejected with 401")
			onUnauthorized(credential)
		}
		return reqErr
	}

	if out == nil || len(bytes.TrimSpace(responseBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(responseBytes, out); err != nil {
		return &RequestError{Op: "decode http response", Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func ensureLeadingSlash(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "/"
	}
	if strings.HasPrefix(trimmed, "/") {
		return trimmed
	}
	return "/" + trimmed
}

// backendMessage pulls {"message": "..."} out of an error body, falling back to
// the raw body and then the status text.
func backendMessage(body []byte, statusCode int) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" && !strings.HasPrefix(msg, "{") && len(msg) < 256 {
		return msg
	}
	return http.StatusText(statusCode)
}
