package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"

	"github.com/bookwise/calsync/internal/config"
	"github.com/bookwise/calsync/internal/store"
)

// Out-of-band redirect for installed applications without a callback URL.
const oobRedirectURL = "urn:ietf:wg:oauth:2.0:oob"

// OAuthConfig builds the oauth2 configuration for Google Calendar access
// from the application config.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	if err := cfg.ValidateOAuth(); err != nil {
		return nil, err
	}

	redirectURL := cfg.GoogleRedirectURL
	if redirectURL == "" {
		redirectURL = oobRedirectURL
	}

	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{calendar.CalendarScope},
	}, nil
}

// AuthURL returns the consent URL a user must visit to authorize calendar
// access. Offline access is requested so a refresh token is issued.
func AuthURL(conf *oauth2.Config) string {
	return conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

// Exchange completes the auth-code flow and stores the resulting credential
// for the user, replacing any previous one.
func Exchange(ctx context.Context, conf *oauth2.Config, st *store.Store, userID uuid.UUID, authCode string) error {
	token, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	cred := &store.Credential{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
	if len(conf.Scopes) > 0 {
		cred.Scope = strings.Join(conf.Scopes, " ")
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		cred.IDToken = idToken
	}

	if err := st.SaveCredential(ctx, cred); err != nil {
		return err
	}
	return nil
}
