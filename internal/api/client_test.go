package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/shrtx/internal/models"
	"github.com/desertthunder/shrtx/internal/shared"
	tu "github.com/desertthunder/shrtx/internal/testing"
)

func writeEnvelope(w http.ResponseWriter, status, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"message": message,
		"data":    data,
	})
}

func TestClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Defaults", func(t *testing.T) {
			c := New(Options{})

			if c.prefix != "/api/v1" {
				t.Errorf("expected default prefix '/api/v1', got %s", c.prefix)
			}
			if c.inner.BaseURL != "http://localhost:3322" {
				t.Errorf("expected default base URL 'http://localhost:3322', got %s", c.inner.BaseURL)
			}
		})

		t.Run("With Custom Options", func(t *testing.T) {
			c := New(Options{BaseURL: "http://example.com", PathPrefix: "/v2"})

			if c.prefix != "/v2" {
				t.Errorf("expected prefix '/v2', got %s", c.prefix)
			}
			if c.inner.BaseURL != "http://example.com" {
				t.Errorf("expected base URL 'http://example.com', got %s", c.inner.BaseURL)
			}
		})
	})

	t.Run("SignIn", func(t *testing.T) {
		t.Run("Success Sets Session Cookie", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/api/v1/signin":
					if r.Method != http.MethodPost {
						t.Errorf("expected POST method, got %s", r.Method)
					}
					var creds map[string]string
					json.NewDecoder(r.Body).Decode(&creds)
					if creds["email"] != "test@example.com" {
						t.Errorf("expected email 'test@example.com', got %s", creds["email"])
					}
					if creds["password"] != "hunter2" {
						t.Errorf("expected password 'hunter2', got %s", creds["password"])
					}
					http.SetCookie(w, &http.Cookie{Name: "jwt", Value: "token123", Path: "/"})
					writeEnvelope(w, http.StatusOK, 200, "", map[string]string{
						"_id": "u1", "full_name": "Test User", "email": "test@example.com",
					})
				case "/api/v1/user/me":
					cookie, err := r.Cookie("jwt")
					if err != nil || cookie.Value != "token123" {
						t.Error("expected session cookie on subsequent request")
					}
					writeEnvelope(w, http.StatusOK, 200, "", map[string]string{
						"_id": "u1", "full_name": "Test User", "email": "test@example.com",
					})
				default:
					t.Errorf("unexpected path %s", r.URL.Path)
				}
			}))
			defer server.Close()

			jar, _ := cookiejar.New(nil)
			c := New(Options{BaseURL: server.URL, Jar: jar})

			res, err := c.SignIn(context.Background(), testCreds())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !res.OK() {
				t.Errorf("expected logical success, got code %d", res.Code)
			}
			if res.User.FullName != "Test User" {
				t.Errorf("expected full name 'Test User', got %s", res.User.FullName)
			}

			if _, err := c.CurrentUser(context.Background()); err != nil {
				t.Fatalf("expected no error on follow-up request, got %v", err)
			}
		})

		t.Run("Logical Failure In 200 Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusOK, 400, "Incorrect password", nil)
			}))
			defer server.Close()

			c := New(Options{BaseURL: server.URL})
			res, err := c.SignIn(context.Background(), testCreds())

			if err != nil {
				t.Fatalf("expected no transport error, got %v", err)
			}
			if res.OK() {
				t.Error("expected logical failure for code 400")
			}
			if res.Message != "Incorrect password" {
				t.Errorf("expected backend message, got %s", res.Message)
			}
		})

		t.Run("HTTP Error Carries Backend Message", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusBadRequest, 400, "User does not exist", nil)
			}))
			defer server.Close()

			c := New(Options{BaseURL: server.URL})
			_, err := c.SignIn(context.Background(), testCreds())

			if err == nil {
				t.Fatal("expected error for HTTP 400")
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}

			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("expected RequestError, got %T", err)
			}
			if reqErr.HTTPStatus != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", reqErr.HTTPStatus)
			}
			if reqErr.Message != "User does not exist" {
				t.Errorf("expected backend message, got %s", reqErr.Message)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			httpClient := &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
			}
			c := New(Options{BaseURL: "http://example.com", HTTPClient: httpClient})

			_, err := c.SignIn(context.Background(), testCreds())
			if err == nil {
				t.Fatal("expected error for failed transport")
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("Session Expiry", func(t *testing.T) {
		t.Run("Hook Fires On Any 401", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusUnauthorized, 401, "Unauthorized", nil)
			}))
			defer server.Close()

			fired := 0
			c := New(Options{BaseURL: server.URL, OnSessionExpired: func() { fired++ }})

			if _, err := c.ListURLs(context.Background()); !errors.Is(err, shared.ErrSessionExpired) {
				t.Errorf("expected ErrSessionExpired from list, got %v", err)
			}
			if _, err := c.DeleteURL(context.Background(), "u1"); !errors.Is(err, shared.ErrSessionExpired) {
				t.Errorf("expected ErrSessionExpired from delete, got %v", err)
			}
			if _, err := c.CurrentUser(context.Background()); !errors.Is(err, shared.ErrSessionExpired) {
				t.Errorf("expected ErrSessionExpired from current user, got %v", err)
			}

			if fired != 3 {
				t.Errorf("expected hook to fire once per 401, got %d", fired)
			}
		})

		t.Run("Hook Replaceable After Construction", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusUnauthorized, 401, "Unauthorized", nil)
			}))
			defer server.Close()

			c := New(Options{BaseURL: server.URL})

			fired := false
			c.SetSessionExpiredHook(func() { fired = true })
			c.CurrentUser(context.Background())

			if !fired {
				t.Error("expected replacement hook to fire")
			}
		})
	})

	t.Run("ShortenURL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v1/url/shorten-url" {
				t.Errorf("expected shorten path, got %s", r.URL.Path)
			}
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["long_url"] != "https://example.com/long" {
				t.Errorf("expected long_url in body, got %v", body)
			}
			writeEnvelope(w, http.StatusOK, 200, "", map[string]any{
				"_id": "url1", "org_url": "https://example.com/long",
				"shortened_url": "http://sh.rt/abc", "short_code": "abc", "clicks": 0,
			})
		}))
		defer server.Close()

		c := New(Options{BaseURL: server.URL})
		res, err := c.ShortenURL(context.Background(), "https://example.com/long")

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.URL.ShortCode != "abc" {
			t.Errorf("expected short code 'abc', got %s", res.URL.ShortCode)
		}
	})

	t.Run("DeleteURL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("expected DELETE method, got %s", r.Method)
			}
			if r.URL.Path != "/api/v1/url/url123" {
				t.Errorf("expected path '/api/v1/url/url123', got %s", r.URL.Path)
			}
			writeEnvelope(w, http.StatusOK, 200, "URL deleted", nil)
		}))
		defer server.Close()

		c := New(Options{BaseURL: server.URL})
		res, err := c.DeleteURL(context.Background(), "url123")

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !res.OK() {
			t.Errorf("expected logical success, got code %d", res.Code)
		}
	})

	t.Run("ListURLs", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v1/url/url-list" {
				t.Errorf("expected list path, got %s", r.URL.Path)
			}
			writeEnvelope(w, http.StatusOK, 200, "", []map[string]any{
				{"_id": "a", "org_url": "https://one.example.com", "shortened_url": "http://sh.rt/one", "clicks": 3, "createdAt": "2026-08-20T10:00:00Z"},
				{"_id": "b", "org_url": "https://two.example.com", "shortened_url": "http://sh.rt/two", "clicks": 0, "createdAt": "2026-08-21T10:00:00Z"},
			})
		}))
		defer server.Close()

		c := New(Options{BaseURL: server.URL})
		res, err := c.ListURLs(context.Background())

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(res.URLs) != 2 {
			t.Fatalf("expected 2 records, got %d", len(res.URLs))
		}
		if res.URLs[0].ID != "a" || res.URLs[1].ID != "b" {
			t.Error("expected records in server order")
		}
		if res.URLs[0].CreatedAt.IsZero() {
			t.Error("expected createdAt to parse")
		}
	})
}

func TestRawRequests(t *testing.T) {
	t.Run("Get Returns Response Regardless Of Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/health" {
				t.Errorf("expected unprefixed path '/health', got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
		}))
		defer server.Close()

		c := New(Options{BaseURL: server.URL})
		resp, err := c.Get(context.Background(), "/health")

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", resp.StatusCode)
		}
		if !resp.IsJSON {
			t.Error("expected JSON response to be detected")
		}
	})

	t.Run("Post Sends Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["key"] != "value" {
				t.Errorf("expected posted body, got %v", body)
			}
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("ok"))
		}))
		defer server.Close()

		c := New(Options{BaseURL: server.URL})
		resp, err := c.Post(context.Background(), "/echo", []byte(`{"key":"value"}`))

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.IsJSON {
			t.Error("expected non-JSON response")
		}
		if string(resp.Body) != "ok" {
			t.Errorf("expected body 'ok', got %s", string(resp.Body))
		}
	})
}

func testCreds() models.Credentials {
	return models.Credentials{Email: "test@example.com", Password: "hunter2"}
}
