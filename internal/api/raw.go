package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/desertthunder/shrtx/internal/shared"
)

// RawResponse represents an unparsed backend response with status and body.
// Used by the `shrtx api` debugging commands, which bypass the envelope.
type RawResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to the specified backend path (unprefixed) and
// returns the raw response regardless of status.
func (c *Client) Get(ctx context.Context, path string) (*RawResponse, error) {
	return c.raw(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON body and returns the raw
// response regardless of status.
func (c *Client) Post(ctx context.Context, path string, data []byte) (*RawResponse, error) {
	return c.raw(ctx, http.MethodPost, path, data)
}

func (c *Client) raw(ctx context.Context, method, path string, body []byte) (*RawResponse, error) {
	req := c.inner.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, &RequestError{Message: err.Error(), cause: shared.ErrAPIRequest}
	}

	raw := &RawResponse{
		StatusCode: resp.StatusCode(),
		Headers:    resp.Header(),
		Body:       resp.Body(),
	}

	var jsonData any
	if err := json.Unmarshal(raw.Body, &jsonData); err == nil {
		raw.IsJSON = true
		raw.JSONData = jsonData
	}

	return raw, nil
}
