package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/ytmigrate/internal/server"
	"github.com/desertthunder/ytmigrate/internal/services"
	"github.com/desertthunder/ytmigrate/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// authTimeout bounds how long the callback server waits for the browser.
const authTimeout = 2 * time.Minute

// Auth performs the OAuth2 installed-app flow for one account and stores its token.
//
// Starts a local HTTP server, opens browser for user authorization, and exchanges auth code for tokens.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	account, err := services.ParseAccount(cmd.StringArg("account"))
	if err != nil {
		return err
	}

	creds := r.config.Credentials
	auth, err := services.NewAuthenticator(creds.ClientSecrets, creds.TokenDir, creds.RedirectPort)
	if err != nil {
		return err
	}

	token, err := r.doOAuth(ctx, auth, account, creds.RedirectPort)
	if err != nil {
		return err
	}

	if err := auth.SaveToken(account, token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token saved to %s\n\n", auth.TokenPath(account))
	r.writePlain("You can now use: ytmigrate playlists --account %s\n", account)
	return nil
}

func (r *Runner) doOAuth(ctx context.Context, auth *services.Authenticator, account services.Account, port int) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	logger := shared.WithLogger(r.logger, "account", account)
	authURL := auth.AuthURL(state)
	oauthHandler := server.NewOAuthHandler(auth.OAuthConfig(), state, string(account))

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(logger))
	router.Handler(oauthHandler)

	httpServer := server.NewCallbackServer(port, router)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting OAuth callback server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error shutting down server", "error", err)
		}
	}()

	r.writePlain("→ Opening browser to authorize the %s account...\n", account)
	if err := shared.OpenBrowser(authURL); err != nil {
		logger.Warn("failed to open browser automatically", "error", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return result.Token, nil
}
