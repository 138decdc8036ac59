// package session owns the client-side authentication state.
//
// The [Store] is the only place permitted to mutate the session; the
// presentation layer reads it and invokes its operations, never touching the
// state directly.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shrtx/internal/api"
	"github.com/desertthunder/shrtx/internal/models"
	"github.com/desertthunder/shrtx/internal/shared"
)

// State enumerates the session state machine:
//
//	Unknown → Checking → {Authenticated, Anonymous}
//
// Checking resolves to Authenticated when the backend recognizes the session
// cookie, Anonymous otherwise. Sign-in moves Anonymous to Authenticated;
// logout always ends Anonymous.
type State int

const (
	Unknown State = iota
	Checking
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "invalid"
	}
}

// Gateway is the slice of the API client the session store depends on.
type Gateway interface {
	SignIn(ctx context.Context, creds models.Credentials) (*api.UserResult, error)
	SignUp(ctx context.Context, reg models.Registration) (*api.Envelope, error)
	LogOut(ctx context.Context) (*api.Envelope, error)
	CurrentUser(ctx context.Context) (*api.UserResult, error)
	GoogleSignIn(ctx context.Context, credential string) (*api.UserResult, error)
}

// Store holds the current session. Safe for use from bubbletea command
// goroutines; state only changes after the corresponding response resolves.
type Store struct {
	mu     sync.Mutex
	api    Gateway
	logger *log.Logger
	state  State
	user   models.UserProfile
}

// NewStore creates a session store in the Unknown state.
func NewStore(gw Gateway, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{api: gw, logger: logger, state: Unknown}
}

// State returns the current session state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the authenticated profile. ok is false unless the session is
// Authenticated; the profile is non-empty iff ok.
func (s *Store) User() (models.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.state == Authenticated
}

// Authenticated reports whether a user is signed in.
func (s *Store) Authenticated() bool {
	return s.State() == Authenticated
}

// Initializing reports whether the initial session check has not resolved yet.
func (s *Store) Initializing() bool {
	state := s.State()
	return state == Unknown || state == Checking
}

// Check performs the initial session check against the persisted cookie and
// resolves Unknown to Authenticated or Anonymous. Any failure, including a
// non-200 code, resolves to Anonymous.
func (s *Store) Check(ctx context.Context) State {
	s.setState(Checking)

	res, err := s.api.CurrentUser(ctx)
	if err != nil || !res.OK() {
		s.logger.Debug("session check resolved anonymous", "error", err)
		s.transition(Anonymous, models.UserProfile{})
		return Anonymous
	}

	s.transition(Authenticated, res.User)
	return Authenticated
}

// SignIn authenticates with email and password. On success the session holds
// the returned profile; on failure the session is left unchanged and the
// returned error carries the backend message or a generic fallback.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	res, err := s.api.SignIn(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return failure(shared.ErrSignInFailed, "", err)
	}
	if !res.OK() {
		return failure(shared.ErrSignInFailed, res.Message, nil)
	}

	s.transition(Authenticated, res.User)
	s.logger.Info("signed in", "user", res.User.DisplayName())
	return nil
}

// SignUp registers a new account. Session state never changes here: a
// successful registration still requires an explicit sign-in.
func (s *Store) SignUp(ctx context.Context, name, email, password string) error {
	res, err := s.api.SignUp(ctx, models.Registration{Name: name, Email: email, Password: password})
	if err != nil {
		return failure(shared.ErrSignUpFailed, "", err)
	}
	if !res.OK() {
		return failure(shared.ErrSignUpFailed, res.Message, nil)
	}
	return nil
}

// GoogleSignIn authenticates with a third-party identity credential.
func (s *Store) GoogleSignIn(ctx context.Context, credential string) error {
	res, err := s.api.GoogleSignIn(ctx, credential)
	if err != nil {
		return failure(shared.ErrGoogleFailed, "", err)
	}
	if !res.OK() {
		return failure(shared.ErrGoogleFailed, res.Message, nil)
	}

	s.transition(Authenticated, res.User)
	s.logger.Info("signed in with google", "user", res.User.DisplayName())
	return nil
}

// LogOut clears the session. Logout is optimistic: local state is cleared
// even when the backend call fails, so it never returns an error.
func (s *Store) LogOut(ctx context.Context) {
	if _, err := s.api.LogOut(ctx); err != nil {
		s.logger.Warn("backend logout failed, clearing local session anyway", "error", err)
	}
	s.transition(Anonymous, models.UserProfile{})
}

func (s *Store) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Store) transition(state State, user models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.user = user
}

// failure builds a user-facing error: the backend message when present, the
// transport error's message next, the per-action fallback last.
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
