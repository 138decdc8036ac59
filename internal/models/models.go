// package models defines the data model for the shortener client
package models

import (
	"strings"
	"time"
)

// UserProfile represents the authenticated user as returned by the backend.
//
// The client treats the profile as an opaque value copied into the session on
// every successful auth operation.
type UserProfile struct {
	ID       string `json:"_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// DisplayName returns the user's full name, falling back to "User" when the
// backend did not supply one.
func (u UserProfile) DisplayName() string {
	if strings.TrimSpace(u.FullName) == "" {
		return "User"
	}
	return u.FullName
}

// Credentials is the request body for credential-based sign in.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the request body for account creation.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ShortURL represents a single shortened URL record.
//
// Records are immutable from the client's perspective: they are created and
// deleted through the API, never edited in place. The in-memory list is
// replaced wholesale on every successful fetch.
type ShortURL struct {
	ID          string    `json:"_id"`
	OriginalURL string    `json:"org_url"`
	ShortCode   string    `json:"short_code"`
	ShortURL    string    `json:"shortened_url"`
	Clicks      int       `json:"clicks"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreatedToday reports whether the record was created on the same calendar
// date as now, in now's location.
func (u ShortURL) CreatedToday(now time.Time) bool {
	if u.CreatedAt.IsZero() {
		return false
	}
	y1, m1, d1 := u.CreatedAt.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// CreatedWithinWeek reports whether the record was created within the
// trailing seven days from now.
func (u ShortURL) CreatedWithinWeek(now time.Time) bool {
	if u.CreatedAt.IsZero() {
		return false
	}
	return u.CreatedAt.After(now.AddDate(0, 0, -7))
}
