package google

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/bookwise/calsync/internal/config"
)

// staticTokenSource hands out a fixed sequence of tokens.
type staticTokenSource struct {
	tokens []*oauth2.Token
	err    error
	calls  int
}

func (s *staticTokenSource) Token() (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	i := s.calls
	if i >= len(s.tokens) {
		i = len(s.tokens) - 1
	}
	s.calls++
	return s.tokens[i], nil
}

// recordingPersist captures tokens handed to the persist callback.
type recordingPersist struct {
	tokens []*oauth2.Token
	err    error
}

func (r *recordingPersist) persist(_ context.Context, token *oauth2.Token) error {
	if r.err != nil {
		return r.err
	}
	r.tokens = append(r.tokens, token)
	return nil
}

func TestPersistingTokenSourceNoRotation(t *testing.T) {
	stored := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"}
	rec := &recordingPersist{}

	ts := NewPersistingTokenSource(context.Background(),
		&staticTokenSource{tokens: []*oauth2.Token{stored}}, stored, rec.persist)

	token, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
	assert.Empty(t, rec.tokens, "unchanged token must not be persisted")
}

func TestPersistingTokenSourceAccessRotation(t *testing.T) {
	stored := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"}
	rotated := &oauth2.Token{
		AccessToken:  "rotated-access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
	rec := &recordingPersist{}

	ts := NewPersistingTokenSource(context.Background(),
		&staticTokenSource{tokens: []*oauth2.Token{rotated}}, stored, rec.persist)

	token, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "rotated-access", token.AccessToken)
	require.Len(t, rec.tokens, 1)
	assert.Equal(t, "rotated-access", rec.tokens[0].AccessToken)

	// A second call with the same token persists nothing further.
	_, err = ts.Token()
	require.NoError(t, err)
	assert.Len(t, rec.tokens, 1)
}

func TestPersistingTokenSourceRefreshRotation(t *testing.T) {
	stored := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"}
	rotated := &oauth2.Token{AccessToken: "access", RefreshToken: "rotated-refresh"}
	rec := &recordingPersist{}

	ts := NewPersistingTokenSource(context.Background(),
		&staticTokenSource{tokens: []*oauth2.Token{rotated}}, stored, rec.persist)

	_, err := ts.Token()
	require.NoError(t, err)
	require.Len(t, rec.tokens, 1)
	assert.Equal(t, "rotated-refresh", rec.tokens[0].RefreshToken)
}

func TestPersistingTokenSourcePersistFailure(t *testing.T) {
	stored := &oauth2.Token{AccessToken: "access"}
	rotated := &oauth2.Token{AccessToken: "rotated"}
	rec := &recordingPersist{err: errors.New("db down")}

	ts := NewPersistingTokenSource(context.Background(),
		&staticTokenSource{tokens: []*oauth2.Token{rotated}}, stored, rec.persist)

	_, err := ts.Token()
	assert.ErrorContains(t, err, "db down")
}

func TestPersistingTokenSourceSourceFailure(t *testing.T) {
	rec := &recordingPersist{}
	ts := NewPersistingTokenSource(context.Background(),
		&staticTokenSource{err: errors.New("revoked")}, nil, rec.persist)

	_, err := ts.Token()
	assert.ErrorContains(t, err, "revoked")
	assert.Empty(t, rec.tokens)
}

func TestOAuthConfig(t *testing.T) {
	cfg := &config.Config{
		GoogleClientID:     "id",
		GoogleClientSecret: "secret",
	}

	conf, err := OAuthConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "id", conf.ClientID)
	assert.Equal(t, oobRedirectURL, conf.RedirectURL)
	require.Len(t, conf.Scopes, 1)
	assert.Contains(t, conf.Scopes[0], "calendar")

	cfg.GoogleRedirectURL = "https://app.example.com/oauth/callback"
	conf, err = OAuthConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/oauth/callback", conf.RedirectURL)
}

func TestOAuthConfigMissingCredentials(t *testing.T) {
	_, err := OAuthConfig(&config.Config{})
	assert.Error(t, err)
}

func TestAuthURL(t *testing.T) {
	conf, err := OAuthConfig(&config.Config{GoogleClientID: "id", GoogleClientSecret: "secret"})
	require.NoError(t, err)

	url := AuthURL(conf)
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "client_id=id")
}
