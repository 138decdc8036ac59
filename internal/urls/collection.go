// package urls owns the in-memory collection of shortened URLs backing the
// dashboard: the record list, its loading flag, the text filter, and the
// mutation operations. Records are rebuilt wholesale on every successful
// fetch; there are no optimistic updates.
package urls

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shrtx/internal/api"
	"github.com/desertthunder/shrtx/internal/models"
	"github.com/desertthunder/shrtx/internal/shared"
)

// Gateway is the slice of the API client the collection depends on.
type Gateway interface {
	ListURLs(ctx context.Context) (*api.URLListResult, error)
	ShortenURL(ctx context.Context, longURL string) (*api.URLResult, error)
	DeleteURL(ctx context.Context, id string) (*api.Envelope, error)
}

// Stats is the summary derived from the record list.
type Stats struct {
	Total    int `json:"total"`
	Today    int `json:"today"`
	ThisWeek int `json:"this_week"`
}

// Collection holds the current list of shortened URLs for the session.
//
// If two refreshes are in flight at once, both run to completion and the last
// response to resolve wins; consistency is restored by the next successful
// refresh.
type Collection struct {
	mu      sync.Mutex
	api     Gateway
	logger  *log.Logger
	now     func() time.Time
	records []models.ShortURL
	loading bool
	filter  string
}

// NewCollection creates an empty collection.
func NewCollection(gw Gateway, logger *log.Logger) *Collection {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Collection{api: gw, logger: logger, now: time.Now}
}

// Refresh replaces the record list with the backend's authoritative copy,
// preserving server order. On failure the previous records are kept. The
// loading flag is always cleared on completion.
func (c *Collection) Refresh(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)

	res, err := c.api.ListURLs(ctx)
	if err != nil {
		return failure(shared.ErrListURLs, "", err)
	}
	if !res.OK() {
		return failure(shared.ErrListURLs, res.Message, nil)
	}

	c.mu.Lock()
	c.records = res.URLs
	c.mu.Unlock()

	c.logger.Debug("url list refreshed", "count", len(res.URLs))
	return nil
}

// Shorten submits longURL for shortening and, on success, reloads the list.
// Empty or whitespace-only input fails locally without a network call.
func (c *Collection) Shorten(ctx context.Context, longURL string) error {
	if strings.TrimSpace(longURL) == "" {
		return fmt.Errorf("%w: please enter a URL", shared.ErrInvalidInput)
	}

	res, err := c.api.ShortenURL(ctx, longURL)
	if err != nil {
		return failure(shared.ErrShortenURL, "", err)
	}
	if !res.OK() {
		return failure(shared.ErrShortenURL, res.Message, nil)
	}

	return c.Refresh(ctx)
}

// Remove deletes the record with the given id and, on success, reloads the
// list. Callers must have obtained explicit user confirmation first; there is
// no optimistic local removal.
func (c *Collection) Remove(ctx context.Context, id string) error {
	res, err := c.api.DeleteURL(ctx, id)
	if err != nil {
		return failure(shared.ErrDeleteURL, "", err)
	}
	if !res.OK() {
		return failure(shared.ErrDeleteURL, res.Message, nil)
	}

	return c.Refresh(ctx)
}

// SetFilter updates the local filter text. Purely local; no network call.
func (c *Collection) SetFilter(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = text
}

// FilterText returns the current filter text.
func (c *Collection) FilterText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Records returns a copy of the record list in server order, unfiltered.
func (c *Collection) Records() []models.ShortURL {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ShortURL, len(c.records))
	copy(out, c.records)
	return out
}

// Loading reports whether a refresh is in flight.
func (c *Collection) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Visible returns the filtered projection of the record list. The projection
// is recomputed on every call and never mutates the underlying records.
func (c *Collection) Visible() []models.ShortURL {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Filter(c.records, c.filter)
}

// Stats derives the summary statistics from the current records.
func (c *Collection) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Derive(c.records, c.now())
}

func (c *Collection) setLoading(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = v
}

// Filter returns the subset of records whose original or shortened URL
// contains text as a case-insensitive substring, in the original order.
// Empty text yields all records.
func Filter(records []models.ShortURL, text string) []models.ShortURL {
	if text == "" {
		out := make([]models.ShortURL, len(records))
		copy(out, records)
		return out
	}

	needle := strings.ToLower(text)
	out := make([]models.ShortURL, 0, len(records))
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.OriginalURL), needle) ||
			strings.Contains(strings.ToLower(record.ShortURL), needle) {
			out = append(out, record)
		}
	}
	return out
}

// Derive computes the stats triple for records relative to now: total count,
// records created on now's calendar date, and records created within the
// trailing seven days.
func Derive(records []models.ShortURL, now time.Time) Stats {
	stats := Stats{Total: len(records)}
	for _, record := range records {
		if record.CreatedToday(now) {
			stats.Today++
		}
		if record.CreatedWithinWeek(now) {
			stats.ThisWeek++
		}
	}
	return stats
}

func failure(fallback error, message string, err error) error {
	if message == "" {
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) {
			message = reqErr.Message
		}
	}
	if message == "" {
		return fallback
	}
	return fmt.Errorf("%w: %s", fallback, message)
}
