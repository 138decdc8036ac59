// package repositories provides the persistence layer for the session cookie.
//
// A browser keeps the session cookie alive across page loads; the terminal
// analog is a cookie jar that writes through to sqlite so `shrtx` stays
// signed in between invocations. Nothing else is persisted.
package repositories

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shrtx/internal/shared"
)

// CookieRepository stores cookies keyed by (origin, path, name).
type CookieRepository struct {
	db *sql.DB
}

// NewCookieRepository creates a repository over an open database. The cookies
// table must exist (see shared.RunMigrations).
func NewCookieRepository(db *sql.DB) *CookieRepository {
	return &CookieRepository{db: db}
}

// Upsert writes the given cookies for an origin ("scheme://host"). Cookies
// with MaxAge < 0 or an empty value are treated as deletions, matching
// browser semantics for Set-Cookie.
func (r *CookieRepository) Upsert(origin string, cookies []*http.Cookie) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, cookie := range cookies {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			if _, err := tx.Exec(
				"DELETE FROM cookies WHERE origin = ? AND path = ? AND name = ?",
				origin, cookiePath(cookie), cookie.Name,
			); err != nil {
				return fmt.Errorf("failed to delete cookie %s: %w", cookie.Name, err)
			}
			continue
		}

		var expires sql.NullTime
		if !cookie.Expires.IsZero() {
			expires = sql.NullTime{Time: cookie.Expires, Valid: true}
		} else if cookie.MaxAge > 0 {
			expires = sql.NullTime{Time: time.Now().Add(time.Duration(cookie.MaxAge) * time.Second), Valid: true}
		}

		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO cookies (origin, path, name, value, expires, secure, http_only)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			origin, cookiePath(cookie), cookie.Name, cookie.Value, expires, cookie.Secure, cookie.HttpOnly,
		); err != nil {
			return fmt.Errorf("failed to store cookie %s: %w", cookie.Name, err)
		}
	}

	return tx.Commit()
}

// Load returns all unexpired cookies grouped by origin and prunes expired rows.
func (r *CookieRepository) Load() (map[string][]*http.Cookie, error) {
	if _, err := r.db.Exec("DELETE FROM cookies WHERE expires IS NOT NULL AND expires < ?", time.Now()); err != nil {
		return nil, fmt.Errorf("failed to prune expired cookies: %w", err)
	}

	rows, err := r.db.Query("SELECT origin, path, name, value, expires, secure, http_only FROM cookies")
	if err != nil {
		return nil, fmt.Errorf("failed to query cookies: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]*http.Cookie)
	for rows.Next() {
		var (
			origin, path, name, value string
			expires                   sql.NullTime
			secure, httpOnly          bool
		)
		if err := rows.Scan(&origin, &path, &name, &value, &expires, &secure, &httpOnly); err != nil {
			return nil, fmt.Errorf("failed to scan cookie row: %w", err)
		}

		cookie := &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     path,
			Secure:   secure,
			HttpOnly: httpOnly,
		}
		if expires.Valid {
			cookie.Expires = expires.Time
		}
		result[origin] = append(result[origin], cookie)
	}

	return result, rows.Err()
}

// Clear removes every persisted cookie.
func (r *CookieRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM cookies"); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return nil
}

func cookiePath(c *http.Cookie) string {
	if c.Path == "" {
		return "/"
	}
	return c.Path
}

// Jar is an [http.CookieJar] backed by an in-memory jar with write-through to
// a [CookieRepository]. Persistence failures are logged and never block the
// request path.
type Jar struct {
	mu     sync.Mutex
	mem    *cookiejar.Jar
	repo   *CookieRepository
	logger *log.Logger
}

// NewJar creates a jar seeded with the repository's persisted cookies.
func NewJar(repo *CookieRepository, logger *log.Logger) (*Jar, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	mem, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	jar := &Jar{mem: mem, repo: repo, logger: logger}

	persisted, err := repo.Load()
	if err != nil {
		return nil, err
	}
	for origin, cookies := range persisted {
		u, err := url.Parse(origin)
		if err != nil {
			logger.Warn("skipping cookies for unparseable origin", "origin", origin)
			continue
		}
		mem.SetCookies(u, cookies)
	}

	return jar, nil
}

// SetCookies stores cookies in memory and writes them through to sqlite.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.mem.SetCookies(u, cookies)

	origin := u.Scheme + "://" + u.Host
	if err := j.repo.Upsert(origin, cookies); err != nil {
		j.logger.Warn("failed to persist session cookies", "error", err)
	}
}

// Cookies returns the cookies to send for u.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.mem.Cookies(u)
}
