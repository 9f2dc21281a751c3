package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsync/internal/server"
	"github.com/desertthunder/plsync/internal/shared"
	"golang.org/x/oauth2"
)

// defaultAuthTimeout bounds how long the flow waits for the user to grant
// consent in the browser.
const defaultAuthTimeout = 2 * time.Minute

// BrowserAuthorizer implements [Authorizer] with the loopback
// authorization-code flow: it starts a temporary HTTP server on the
// configured address, opens the system browser to the consent page, and
// waits for the provider to redirect back with the code.
type BrowserAuthorizer struct {
	Host    string
	Port    int
	Timeout time.Duration
	Output  io.Writer
	Logger  *log.Logger

	// OpenURL launches the browser; defaults to [shared.OpenBrowser]. The
	// URL is always printed as a fallback for headless sessions.
	OpenURL func(url string) error
}

// Authorize executes the interactive flow and returns the exchanged token.
func (b *BrowserAuthorizer) Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	logger := b.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	openURL := b.OpenURL
	if openURL == nil {
		openURL = shared.OpenBrowser
	}
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = defaultAuthTimeout
	}

	// The provider redirects to the loopback callback; the config copy keeps
	// the caller's config free of flow-specific state.
	flowConfig := *config
	flowConfig.RedirectURL = fmt.Sprintf("http://%s:%d/callback", b.Host, b.Port)

	state := shared.GenerateState()
	authURL := flowConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)

	handler := server.NewOAuthHandler(&flowConfig, state)
	router := server.NewBasicRouter()
	router.Use(server.LogRequests(logger))
	router.Handler(handler)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", b.Host, b.Port),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting OAuth callback server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	b.print("→ Opening browser for Google authorization...\n")
	if err := openURL(authURL); err != nil {
		logger.Warn("failed to open browser automatically", "error", err)
		b.print("⚠ Could not open browser automatically.\n")
		b.print("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	b.print("→ Waiting for authorization (%s timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result server.OAuthResult

	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("callback server error: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: authorization not completed within %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error shutting down callback server", "error", err)
	}

	if result.Error() != nil {
		return nil, result.Error()
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}

func (b *BrowserAuthorizer) print(format string, args ...any) {
	if b.Output == nil {
		return
	}
	fmt.Fprintf(b.Output, format, args...)
}
