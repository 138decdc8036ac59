package repositories

import (
	"database/sql"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/desertthunder/shrtx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func sessionCookie(value string) *http.Cookie {
	return &http.Cookie{Name: "jwt", Value: value, Path: "/"}
}

func TestCookieRepository(t *testing.T) {
	const origin = "http://localhost:3322"

	t.Run("Upsert And Load", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCookieRepository(db)
		if err := repo.Upsert(origin, []*http.Cookie{sessionCookie("token123")}); err != nil {
			t.Fatalf("failed to upsert: %v", err)
		}

		loaded, err := repo.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}

		cookies := loaded[origin]
		if len(cookies) != 1 {
			t.Fatalf("expected 1 cookie, got %d", len(cookies))
		}
		if cookies[0].Name != "jwt" || cookies[0].Value != "token123" {
			t.Errorf("expected jwt=token123, got %s=%s", cookies[0].Name, cookies[0].Value)
		}
	})

	t.Run("Upsert Replaces Existing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCookieRepository(db)
		repo.Upsert(origin, []*http.Cookie{sessionCookie("old")})
		repo.Upsert(origin, []*http.Cookie{sessionCookie("new")})

		loaded, _ := repo.Load()
		cookies := loaded[origin]
		if len(cookies) != 1 {
			t.Fatalf("expected 1 cookie after replace, got %d", len(cookies))
		}
		if cookies[0].Value != "new" {
			t.Errorf("expected replaced value 'new', got %s", cookies[0].Value)
		}
	})

	t.Run("Empty Value Deletes", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCookieRepository(db)
		repo.Upsert(origin, []*http.Cookie{sessionCookie("token123")})
		repo.Upsert(origin, []*http.Cookie{sessionCookie("")})

		loaded, _ := repo.Load()
		if len(loaded[origin]) != 0 {
			t.Error("expected empty-value cookie to delete the row")
		}
	})

	t.Run("Negative MaxAge Deletes", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCookieRepository(db)
		repo.Upsert(origin, []*http.Cookie{sessionCookie("token123")})

		expired := sessionCookie("token123")
		expired.MaxAge = -1
		repo.Upsert(origin, []*http.Cookie{expired})

		loaded, _ := repo.Load()
		if len(loaded[origin]) != 0 {
			t.Error("expected MaxAge<0 cookie to delete the row")
		}
	})

	t.Run("Load Prunes Expired", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCookieRepository(db)

		stale := sessionCookie("stale")
		stale.Expires = time.Now().Add(-time.Hour)
		repo.Upsert(origin, []*http.Cookie{stale})

		loaded, err := repo.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if len(loaded[origin]) != 0 {
			t.Error("expected expired cookie to be pruned")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCookieRepository(db)
		repo.Upsert(origin, []*http.Cookie{sessionCookie("token123")})

		if err := repo.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}

		loaded, _ := repo.Load()
		if len(loaded) != 0 {
			t.Error("expected no cookies after clear")
		}
	})
}

func TestJar(t *testing.T) {
	backend, _ := url.Parse("http://localhost:3322/api/v1/signin")

	t.Run("Round Trip Through Memory", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		jar, err := NewJar(NewCookieRepository(db), nil)
		if err != nil {
			t.Fatalf("failed to create jar: %v", err)
		}

		jar.SetCookies(backend, []*http.Cookie{sessionCookie("token123")})

		cookies := jar.Cookies(backend)
		if len(cookies) != 1 || cookies[0].Value != "token123" {
			t.Errorf("expected session cookie from memory, got %v", cookies)
		}
	})

	t.Run("Survives Across Instances", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCookieRepository(db)

		first, err := NewJar(repo, nil)
		if err != nil {
			t.Fatalf("failed to create jar: %v", err)
		}
		first.SetCookies(backend, []*http.Cookie{sessionCookie("token123")})

		second, err := NewJar(repo, nil)
		if err != nil {
			t.Fatalf("failed to create second jar: %v", err)
		}

		cookies := second.Cookies(backend)
		if len(cookies) != 1 || cookies[0].Value != "token123" {
			t.Errorf("expected persisted session cookie in fresh jar, got %v", cookies)
		}
	})
}
