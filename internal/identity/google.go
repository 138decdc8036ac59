// package identity obtains the Google ID-token credential that the backend's
// third-party sign-in endpoint verifies.
//
// A browser page gets the credential from Google Identity Services; the
// terminal equivalent is a short-lived localhost callback server plus the
// system browser. The credential itself stays opaque to this client.
package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shrtx/internal/server"
	"github.com/desertthunder/shrtx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultRedirectURI = "http://localhost:8080/callback"

// Flow runs the browser-based Google authorization flow.
type Flow struct {
	config      *oauth2.Config
	logger      *log.Logger
	openBrowser func(string) error
}

// NewFlow creates a flow from the configured Google credentials.
func NewFlow(cfg shared.GoogleConfig, logger *log.Logger) (*Flow, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: google client_id and client_secret are required", shared.ErrMissingConfig)
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = defaultRedirectURI
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	return &Flow{config: config, logger: logger, openBrowser: shared.OpenBrowser}, nil
}

// Credential opens the system browser, waits for the localhost callback, and
// returns the ID token from the exchanged response.
func (f *Flow) Credential(ctx context.Context) (string, error) {
	redirect, err := url.Parse(f.config.RedirectURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid redirect_uri: %v", shared.ErrInvalidConfig, err)
	}

	state := shared.GenerateID()
	handler := server.NewCallbackHandler(f.config, state)

	router := server.NewBasicRouter()
	router.Use(server.Logging(f.logger))
	router.Handler(handler)

	srv := &http.Server{Addr: redirect.Host, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			f.logger.Error("callback server failed", "error", err)
		}
	}()
	defer srv.Shutdown(context.Background())

	authURL := f.config.AuthCodeURL(state)
	f.logger.Info("waiting for google authorization", "callback", f.config.RedirectURL)
	if err := f.openBrowser(authURL); err != nil {
		f.logger.Warn("could not open browser, visit the URL manually", "url", authURL)
	}

	select {
	case result := <-handler.Result():
		if result.Error() != nil {
			return "", fmt.Errorf("%w: %v", shared.ErrGoogleFailed, result.Error())
		}
		credential, ok := result.Token.Extra("id_token").(string)
		if !ok || credential == "" {
			return "", fmt.Errorf("%w: no id_token in token response", shared.ErrGoogleFailed)
		}
		return credential, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
