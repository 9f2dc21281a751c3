package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
)

// AuthLogin forces the interactive consent flow and caches the result.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	authn, err := r.authenticator()
	if err != nil {
		return err
	}

	token, err := authn.Login(ctx)
	if err != nil {
		return err
	}

	r.writePlain("✓ Authorized. Token cached at %s\n", r.tokenCachePath())
	if !token.Expiry.IsZero() {
		r.writePlain("  Access token expires %s\n", token.Expiry.Local().Format(time.RFC1123))
	}
	return nil
}

// AuthStatus reports the token cache state without touching the network.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	status := r.cacheAuthenticator().Status()

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"cached":        status.Present,
			"refresh_token": status.HasRefresh,
			"expiry":        status.Expiry,
		})
	}

	if !status.Present {
		return r.writePlain("Not authenticated. Run: plsync auth login\n")
	}

	r.writePlain("Token cache: present\n")
	if status.HasRefresh {
		r.writePlain("Refresh token: yes (re-auth not required)\n")
	} else {
		r.writePlain("Refresh token: no\n")
	}
	if !status.Expiry.IsZero() {
		state := "expires"
		if status.Expiry.Before(time.Now()) {
			state = "expired"
		}
		r.writePlain("Access token %s %s\n", state, status.Expiry.Local().Format(time.RFC1123))
	}
	return nil
}

// AuthReset deletes the token cache.
func (r *Runner) AuthReset(ctx context.Context, cmd *cli.Command) error {
	if err := r.cacheAuthenticator().Reset(); err != nil {
		return err
	}
	return r.writePlain("Token cache removed.\n")
}
