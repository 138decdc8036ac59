package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/shrtx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in with email and password and persists the session cookie.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("signing in", "email", email)

	if err := r.session.SignIn(ctx, email, password); err != nil {
		return err
	}

	user, _ := r.session.User()
	return r.writePlain("✓ Signed in as %s\n", user.DisplayName())
}

// AuthRegister creates a new account. The backend does not start a session
// for fresh accounts, so the user signs in afterwards.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("registering account", "email", email)

	if err := r.session.SignUp(ctx, name, email, password); err != nil {
		return err
	}

	r.writePlain("✓ Account created\n")
	return r.writePlain("Run 'shrtx auth login' to sign in\n")
}

// AuthGoogle signs in with Google. The credential comes from a localhost
// callback flow through the system browser.
func (r *Runner) AuthGoogle(ctx context.Context, cmd *cli.Command) error {
	credential := cmd.String("credential")
	if credential == "" {
		if r.google == nil {
			return fmt.Errorf("%w: google client credentials not configured", shared.ErrMissingConfig)
		}

		r.logger.Info("starting google sign-in")
		r.writePlain("Complete the sign-in in your browser...\n")

		var err error
		if credential, err = r.google.Credential(ctx); err != nil {
			return err
		}
	}

	if err := r.session.GoogleSignIn(ctx, credential); err != nil {
		return err
	}

	user, _ := r.session.User()
	return r.writePlain("✓ Signed in as %s\n", user.DisplayName())
}

// AuthLogout ends the current session. The local session always ends even
// when the backend call fails.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.LogOut(ctx)
	return r.writePlain("✓ Signed out\n")
}

// AuthWhoami resolves the current session against the backend.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	state := r.session.Check(ctx)
	if !r.session.Authenticated() {
		r.logger.Debug("session check", "state", state)
		return fmt.Errorf("%w: run 'shrtx auth login'", shared.ErrNotAuthenticated)
	}

	user, _ := r.session.User()
	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlain("Signed in as %s\n", user.DisplayName())
	if user.Email != "" {
		r.writePlain("Email: %s\n", user.Email)
	}
	return nil
}
