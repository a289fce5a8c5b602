package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/ytmigrate/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"
)

// Account names one of the two authenticated YouTube accounts.
type Account string

const (
	AccountSource Account = "source"
	AccountTarget Account = "target"
)

// ParseAccount validates an account label.
func ParseAccount(s string) (Account, error) {
	switch a := Account(s); a {
	case AccountSource, AccountTarget:
		return a, nil
	default:
		return "", fmt.Errorf("%w: account must be source or target (got %q)", shared.ErrInvalidArgument, s)
	}
}

// Authenticator holds the installed-app OAuth client shared by both accounts and stores one token file per account.
type Authenticator struct {
	config   *oauth2.Config
	tokenDir string
}

// NewAuthenticator reads a Google client secrets file and prepares the loopback redirect on port.
func NewAuthenticator(secretsPath, tokenDir string, port int) (*Authenticator, error) {
	data, err := os.ReadFile(secretsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: client secrets file %s not found", shared.ErrMissingCredentials, secretsPath)
		}
		return nil, fmt.Errorf("failed to read client secrets: %w", err)
	}

	config, err := google.ConfigFromJSON(data, youtube.YoutubeScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	config.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)

	return NewAuthenticatorWithConfig(config, tokenDir), nil
}

// NewAuthenticatorWithConfig wraps an existing OAuth config.
func NewAuthenticatorWithConfig(config *oauth2.Config, tokenDir string) *Authenticator {
	return &Authenticator{config: config, tokenDir: tokenDir}
}

// OAuthConfig returns the underlying OAuth2 configuration.
func (a *Authenticator) OAuthConfig() *oauth2.Config {
	return a.config
}

// AuthURL returns the consent URL. Offline access with forced consent so a refresh token is always issued.
func (a *Authenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// TokenPath returns the token file for account.
func (a *Authenticator) TokenPath(account Account) string {
	return filepath.Join(a.tokenDir, string(account)+".json")
}

// SaveToken writes the token for account with owner-only permissions.
func (a *Authenticator) SaveToken(account Account, token *oauth2.Token) error {
	if err := os.MkdirAll(a.tokenDir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(a.TokenPath(account), data, 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// LoadToken reads the stored token for account.
func (a *Authenticator) LoadToken(account Account) (*oauth2.Token, error) {
	data, err := os.ReadFile(a.TokenPath(account))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no token for %s account, run `ytmigrate auth %s`", shared.ErrNotAuthenticated, account, account)
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: token file for %s account is unreadable: %v", shared.ErrNotAuthenticated, account, err)
	}
	return &token, nil
}

// Client returns an HTTP client authorized as account. Refreshed tokens are written back to the token file.
func (a *Authenticator) Client(ctx context.Context, account Account) (*http.Client, error) {
	token, err := a.LoadToken(account)
	if err != nil {
		return nil, err
	}

	src := &savingTokenSource{
		base: a.config.TokenSource(ctx, token),
		last: token.AccessToken,
		save: func(t *oauth2.Token) error { return a.SaveToken(account, t) },
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, src)), nil
}

// savingTokenSource persists every token that differs from the last one seen.
type savingTokenSource struct {
	base oauth2.TokenSource
	save func(*oauth2.Token) error

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last {
		if err := s.save(token); err != nil {
			return nil, err
		}
		s.last = token.AccessToken
	}
	return token, nil
}
