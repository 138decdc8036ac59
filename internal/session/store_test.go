package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/shrtx/internal/api"
	"github.com/desertthunder/shrtx/internal/models"
	"github.com/desertthunder/shrtx/internal/shared"
)

// fakeGateway implements Gateway with overridable behavior per method.
type fakeGateway struct {
	signIn      func(models.Credentials) (*api.UserResult, error)
	signUp      func(models.Registration) (*api.Envelope, error)
	logOut      func() (*api.Envelope, error)
	currentUser func() (*api.UserResult, error)
	google      func(string) (*api.UserResult, error)
}

func (f *fakeGateway) SignIn(_ context.Context, creds models.Credentials) (*api.UserResult, error) {
	return f.signIn(creds)
}

func (f *fakeGateway) SignUp(_ context.Context, reg models.Registration) (*api.Envelope, error) {
	return f.signUp(reg)
}

func (f *fakeGateway) LogOut(_ context.Context) (*api.Envelope, error) {
	return f.logOut()
}

func (f *fakeGateway) CurrentUser(_ context.Context) (*api.UserResult, error) {
	return f.currentUser()
}

func (f *fakeGateway) GoogleSignIn(_ context.Context, credential string) (*api.UserResult, error) {
	return f.google(credential)
}

func okUser(name string) *api.UserResult {
	return &api.UserResult{
		Envelope: api.Envelope{Code: 200},
		User:     models.UserProfile{ID: "u1", FullName: name, Email: "test@example.com"},
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Initial State", func(t *testing.T) {
		store := NewStore(&fakeGateway{}, nil)

		if store.State() != Unknown {
			t.Errorf("expected Unknown, got %s", store.State())
		}
		if !store.Initializing() {
			t.Error("expected store to report initializing")
		}
		if _, ok := store.User(); ok {
			t.Error("expected no user before check resolves")
		}
	})

	t.Run("Check", func(t *testing.T) {
		t.Run("Recognized Session", func(t *testing.T) {
			gw := &fakeGateway{currentUser: func() (*api.UserResult, error) {
				return okUser("Test User"), nil
			}}
			store := NewStore(gw, nil)

			if state := store.Check(ctx); state != Authenticated {
				t.Errorf("expected Authenticated, got %s", state)
			}
			user, ok := store.User()
			if !ok || user.FullName != "Test User" {
				t.Errorf("expected profile to be held, got %v ok=%v", user, ok)
			}
			if store.Initializing() {
				t.Error("expected initializing to be over")
			}
		})

		t.Run("Transport Failure Resolves Anonymous", func(t *testing.T) {
			gw := &fakeGateway{currentUser: func() (*api.UserResult, error) {
				return nil, errors.New("connection refused")
			}}
			store := NewStore(gw, nil)

			if state := store.Check(ctx); state != Anonymous {
				t.Errorf("expected Anonymous, got %s", state)
			}
		})

		t.Run("Logical Failure Resolves Anonymous", func(t *testing.T) {
			gw := &fakeGateway{currentUser: func() (*api.UserResult, error) {
				return &api.UserResult{Envelope: api.Envelope{Code: 401}}, nil
			}}
			store := NewStore(gw, nil)

			if state := store.Check(ctx); state != Anonymous {
				t.Errorf("expected Anonymous, got %s", state)
			}
		})
	})

	t.Run("SignIn", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			gw := &fakeGateway{signIn: func(creds models.Credentials) (*api.UserResult, error) {
				if creds.Email != "test@example.com" {
					t.Errorf("expected credentials to pass through, got %s", creds.Email)
				}
				return okUser("Test User"), nil
			}}
			store := NewStore(gw, nil)

			if err := store.SignIn(ctx, "test@example.com", "hunter2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !store.Authenticated() {
				t.Error("expected Authenticated after sign in")
			}
		})

		t.Run("Backend Message Wins", func(t *testing.T) {
			gw := &fakeGateway{signIn: func(models.Credentials) (*api.UserResult, error) {
				return &api.UserResult{Envelope: api.Envelope{Code: 400, Message: "Incorrect password"}}, nil
			}}
			store := NewStore(gw, nil)

			err := store.SignIn(ctx, "test@example.com", "wrong")
			if !errors.Is(err, shared.ErrSignInFailed) {
				t.Errorf("expected ErrSignInFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), "Incorrect password") {
				t.Errorf("expected backend message in error, got %v", err)
			}
			if store.State() != Unknown {
				t.Errorf("expected state to be unchanged on failure, got %s", store.State())
			}
		})

		t.Run("Generic Fallback Without Message", func(t *testing.T) {
			gw := &fakeGateway{signIn: func(models.Credentials) (*api.UserResult, error) {
				return nil, errors.New("dial tcp: connection refused")
			}}
			store := NewStore(gw, nil)

			err := store.SignIn(ctx, "test@example.com", "hunter2")
			if !errors.Is(err, shared.ErrSignInFailed) {
				t.Errorf("expected ErrSignInFailed, got %v", err)
			}
		})
	})

	t.Run("SignUp", func(t *testing.T) {
		t.Run("Success Leaves Session Unchanged", func(t *testing.T) {
			gw := &fakeGateway{signUp: func(reg models.Registration) (*api.Envelope, error) {
				if reg.Name != "Test User" {
					t.Errorf("expected registration to pass through, got %s", reg.Name)
				}
				return &api.Envelope{Code: 200, Message: "User created"}, nil
			}}
			store := NewStore(gw, nil)

			if err := store.SignUp(ctx, "Test User", "test@example.com", "hunter2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if store.Authenticated() {
				t.Error("registration must not start a session")
			}
			if store.State() != Unknown {
				t.Errorf("expected state to be unchanged, got %s", store.State())
			}
		})

		t.Run("Duplicate Account", func(t *testing.T) {
			gw := &fakeGateway{signUp: func(models.Registration) (*api.Envelope, error) {
				return &api.Envelope{Code: 400, Message: "Email already in use"}, nil
			}}
			store := NewStore(gw, nil)

			err := store.SignUp(ctx, "Test User", "test@example.com", "hunter2")
			if !errors.Is(err, shared.ErrSignUpFailed) {
				t.Errorf("expected ErrSignUpFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), "Email already in use") {
				t.Errorf("expected backend message, got %v", err)
			}
		})
	})

	t.Run("GoogleSignIn", func(t *testing.T) {
		gw := &fakeGateway{google: func(credential string) (*api.UserResult, error) {
			if credential != "id-token" {
				t.Errorf("expected credential to pass through, got %s", credential)
			}
			return okUser("Google User"), nil
		}}
		store := NewStore(gw, nil)

		if err := store.GoogleSignIn(ctx, "id-token"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !store.Authenticated() {
			t.Error("expected Authenticated after google sign in")
		}
	})

	t.Run("LogOut", func(t *testing.T) {
		t.Run("Clears Session", func(t *testing.T) {
			gw := &fakeGateway{
				signIn: func(models.Credentials) (*api.UserResult, error) { return okUser("Test User"), nil },
				logOut: func() (*api.Envelope, error) { return &api.Envelope{Code: 200}, nil },
			}
			store := NewStore(gw, nil)
			store.SignIn(ctx, "test@example.com", "hunter2")

			store.LogOut(ctx)

			if store.State() != Anonymous {
				t.Errorf("expected Anonymous, got %s", store.State())
			}
			if _, ok := store.User(); ok {
				t.Error("expected profile to be cleared")
			}
		})

		t.Run("Backend Failure Still Clears Session", func(t *testing.T) {
			gw := &fakeGateway{
				signIn: func(models.Credentials) (*api.UserResult, error) { return okUser("Test User"), nil },
				logOut: func() (*api.Envelope, error) { return nil, errors.New("connection refused") },
			}
			store := NewStore(gw, nil)
			store.SignIn(ctx, "test@example.com", "hunter2")

			store.LogOut(ctx)

			if store.State() != Anonymous {
				t.Errorf("expected Anonymous even when backend logout fails, got %s", store.State())
			}
		})
	})
}
