package catalog

import (
	"VoiceCart/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenFetcher obtains a fresh upstream token on every call.
type TokenFetcher interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// CredentialProvider holds one process-wide upstream token and refreshes it when
// it is missing or about to expire. It is an oauth2.TokenSource.
type CredentialProvider struct {
	mu      sync.Mutex
	fetcher TokenFetcher
	token   *oauth2.Token
	timeout time.Duration
	log     *slog.Logger
}

func NewCredentialProvider(fetcher TokenFetcher, timeout time.Duration, log *slog.Logger) *CredentialProvider {
	return &CredentialProvider{
		fetcher: fetcher,
		timeout: timeout,
		log:     log.With(sl.Module("catalog.credentials")),
	}
}

// NewClientCredentials builds a provider for the OAuth2 client-credentials grant.
func NewClientCredentials(clientID, clientSecret, tokenURL string, scopes []string, timeout time.Duration, log *slog.Logger) *CredentialProvider {
	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopes,
	}
	return NewCredentialProvider(cc, timeout, log)
}

func (p *CredentialProvider) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Valid already treats tokens within a few seconds of expiry as expired
	if p.token.Valid() {
		return p.token, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	token, err := p.fetcher.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching upstream token: %w", err)
	}
	p.token = token
	p.log.With(
		slog.Time("expiry", token.Expiry),
	).Debug("upstream token refreshed")
	return token, nil
}

// Invalidate drops the cached token so the next call fetches a new one.
func (p *CredentialProvider) Invalidate() {
	p.mu.Lock()
	p.token = nil
	p.mu.Unlock()
}
