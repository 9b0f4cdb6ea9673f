package google

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// PersistFunc writes rotated token values back to durable storage.
type PersistFunc func(ctx context.Context, token *oauth2.Token) error

// persistingTokenSource wraps an oauth2.TokenSource and invokes persist
// whenever the underlying source rotates the access or refresh token. It is
// attached exactly once per constructed client, so persistence cannot
// accumulate per resolution.
type persistingTokenSource struct {
	ctx     context.Context
	src     oauth2.TokenSource
	persist PersistFunc

	mu   sync.Mutex
	last *oauth2.Token
}

// NewPersistingTokenSource returns a token source that persists rotated
// tokens via persist before handing them out. last is the token the stored
// credential was built from; rotations are detected against it.
func NewPersistingTokenSource(ctx context.Context, src oauth2.TokenSource, last *oauth2.Token, persist PersistFunc) oauth2.TokenSource {
	return &persistingTokenSource{
		ctx:     ctx,
		src:     src,
		persist: persist,
		last:    last,
	}
}

// Token returns a valid token from the wrapped source, persisting it first
// if the provider rotated either token value.
func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.src.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rotated(token) {
		if err := p.persist(p.ctx, token); err != nil {
			return nil, err
		}
		p.last = token
	}

	return token, nil
}

// rotated reports whether token carries a value different from the last
// persisted one.
func (p *persistingTokenSource) rotated(token *oauth2.Token) bool {
	if p.last == nil {
		return true
	}
	return token.AccessToken != p.last.AccessToken ||
		(token.RefreshToken != "" && token.RefreshToken != p.last.RefreshToken)
}
