// package api implements the single outbound HTTP boundary to the shortener backend.
//
// Every backend capability is exposed as one method on [Client]. Responses
// share the backend's {code, message, data} envelope; transport and HTTP
// failures surface as [RequestError]. The session credential travels in a
// cookie managed by the client's jar, never in a bearer header.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shrtx/internal/models"
	"github.com/desertthunder/shrtx/internal/shared"
	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "http://localhost:3322"
	defaultPrefix  = "/api/v1"
)

// RequestError describes a failed request. Transport failures carry a zero
// HTTPStatus; HTTP-level failures carry the response status and the backend
// message when one was present.
type RequestError struct {
	HTTPStatus int
	Message    string
	cause      error
}

func (e *RequestError) Error() string {
	if e.HTTPStatus == 0 {
		return fmt.Sprintf("%v: %s", e.cause, e.Message)
	}
	return fmt.Sprintf("%v: status %d: %s", e.cause, e.HTTPStatus, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.cause
}

// Envelope is the backend's response wrapper. Code 200 signals logical
// success; any other code is a logical failure even when the HTTP transport
// succeeded.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OK reports logical success.
func (e Envelope) OK() bool { return e.Code == http.StatusOK }

// UserResult is the envelope carrying a [models.UserProfile].
type UserResult struct {
	Envelope
	User models.UserProfile `json:"data"`
}

// URLListResult is the envelope carrying the user's shortened URLs in
// server-defined order.
type URLListResult struct {
	Envelope
	URLs []models.ShortURL `json:"data"`
}

// URLResult is the envelope carrying a single [models.ShortURL].
type URLResult struct {
	Envelope
	URL models.ShortURL `json:"data"`
}

// Options configures a [Client]. Zero values fall back to the fixed defaults.
type Options struct {
	BaseURL    string
	PathPrefix string
	// Jar overrides the in-memory cookie jar, e.g. with the sqlite-backed
	// jar so the session survives between invocations.
	Jar        http.CookieJar
	HTTPClient *http.Client
	Logger     *log.Logger
	// OnSessionExpired runs whenever any response carries HTTP 401. This is
	// a global policy, not a per-call one: the presentation layer maps it to
	// navigation back to the login entry point.
	OnSessionExpired func()
}

// Client wraps outbound requests to the backend. One instance is configured
// at startup and shared by the session store and the URL collection.
type Client struct {
	inner   *resty.Client
	prefix  string
	logger  *log.Logger
	expired func()
}

// New creates a [Client] from the given options.
//
// No retries, no timeout overrides: every call runs to completion or failure
// exactly once, bounded only by the caller's context.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.PathPrefix == "" {
		opts.PathPrefix = defaultPrefix
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var inner *resty.Client
	if opts.HTTPClient != nil {
		inner = resty.NewWithClient(opts.HTTPClient)
	} else {
		inner = resty.New()
	}

	inner.SetBaseURL(opts.BaseURL)
	inner.SetHeader("Content-Type", "application/json")
	if opts.Jar != nil {
		inner.SetCookieJar(opts.Jar)
	}

	client := &Client{
		inner:   inner,
		prefix:  opts.PathPrefix,
		logger:  opts.Logger,
		expired: opts.OnSessionExpired,
	}

	inner.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.StatusCode() == http.StatusUnauthorized && client.expired != nil {
			client.logger.Debug("session expired", "path", resp.Request.URL)
			client.expired()
		}
		return nil
	})

	return client
}

// SetSessionExpiredHook replaces the global 401 handler. The TUI installs its
// own handler once the program is running so the signal becomes a view change.
func (c *Client) SetSessionExpiredHook(fn func()) {
	c.expired = fn
}

// execute runs one request against a prefixed endpoint, decoding the success
// envelope into result and normalizing failures into [RequestError].
func (c *Client) execute(ctx context.Context, method, path string, body, result any) error {
	var apiErr Envelope
	req := c.inner.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, c.prefix+path)
	if err != nil {
		return &RequestError{Message: err.Error(), cause: shared.ErrAPIRequest}
	}

	if resp.IsError() {
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode())
		}
		cause := shared.ErrAPIRequest
		if resp.StatusCode() == http.StatusUnauthorized {
			cause = shared.ErrSessionExpired
		}
		return &RequestError{HTTPStatus: resp.StatusCode(), Message: message, cause: cause}
	}

	return nil
}

// SignIn authenticates with email and password.
func (c *Client) SignIn(ctx context.Context, creds models.Credentials) (*UserResult, error) {
	var result UserResult
	if err := c.execute(ctx, http.MethodPost, "/signin", creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SignUp registers a new account. Registration never establishes a session;
// a successful sign-up must be followed by an explicit sign-in.
func (c *Client) SignUp(ctx context.Context, reg models.Registration) (*Envelope, error) {
	var result Envelope
	if err := c.execute(ctx, http.MethodPost, "/signup", reg, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LogOut invalidates the backend session.
func (c *Client) LogOut(ctx context.Context) (*Envelope, error) {
	var result Envelope
	if err := c.execute(ctx, http.MethodPost, "/logout", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CurrentUser returns the profile bound to the session cookie.
func (c *Client) CurrentUser(ctx context.Context) (*UserResult, error) {
	var result UserResult
	if err := c.execute(ctx, http.MethodGet, "/user/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GoogleSignIn authenticates with a Google ID-token credential. The token is
// opaque to this client; the backend verifies it.
func (c *Client) GoogleSignIn(ctx context.Context, credential string) (*UserResult, error) {
	var result UserResult
	body := map[string]string{"credential": credential}
	if err := c.execute(ctx, http.MethodPost, "/google", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListURLs fetches all shortened URLs for the current session.
func (c *Client) ListURLs(ctx context.Context) (*URLListResult, error) {
	var result URLListResult
	if err := c.execute(ctx, http.MethodGet, "/url/url-list", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ShortenURL creates a new shortened URL for longURL.
func (c *Client) ShortenURL(ctx context.Context, longURL string) (*URLResult, error) {
	var result URLResult
	body := map[string]string{"long_url": longURL}
	if err := c.execute(ctx, http.MethodPost, "/url/shorten-url", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteURL removes the record with the given id.
func (c *Client) DeleteURL(ctx context.Context, id string) (*Envelope, error) {
	var result Envelope
	if err := c.execute(ctx, http.MethodDelete, "/url/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
