package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/plsync/internal/auth"
	"github.com/urfave/cli/v3"
)

// Config handles `plsync config`: credential path updates, rule management,
// and rule listing. Mutations persist only when every requested change
// succeeds.
func (r *Runner) Config(ctx context.Context, cmd *cli.Command) error {
	changed := false

	if path := cmd.String("oauth2-json"); path != "" {
		// Parse up front so a bad file never lands in the config.
		if _, err := auth.LoadClientCredentials(path); err != nil {
			return err
		}
		r.config.SetCredentials(path)
		changed = true
		r.writePlain("Credentials path set to %s\n", path)
	}

	if id := cmd.String("add"); id != "" {
		if err := r.addRule(ctx, cmd, id); err != nil {
			return err
		}
		changed = true
	}

	if id := cmd.String("remove"); id != "" {
		if err := r.config.RemoveRule(id); err != nil {
			return err
		}
		changed = true
		r.writePlain("Removed rule for %s\n", id)
	}

	if cmd.Bool("reset") {
		r.config.Reset()
		changed = true
		r.writePlain("All sync rules removed\n")
	}

	if changed {
		if err := r.config.Save(r.configPath); err != nil {
			return err
		}
		r.logger.Debug("config saved", "path", r.configPath)
	}

	if cmd.Bool("list") || !changed {
		return r.listRules(cmd.Bool("json"))
	}

	return nil
}

// addRule validates the target id remotely, resolves its title, and gathers
// sources from the flag or the interactive picker.
func (r *Runner) addRule(ctx context.Context, cmd *cli.Command, id string) error {
	api, err := r.service(ctx)
	if err != nil {
		return err
	}

	playlist, err := api.GetPlaylist(ctx, id)
	if err != nil {
		return fmt.Errorf("cannot add rule for %s: %w", id, err)
	}

	sources := cmd.StringSlice("sources")
	if len(sources) == 0 && r.isTTY() {
		// The target itself and any playlist that already syncs from it are
		// not valid sources; hide them from the picker.
		exclude := []string{id}
		for _, rule := range r.config.Playlists {
			if rule.HasSource(id) {
				exclude = append(exclude, rule.ID)
			}
		}
		picked, err := r.pickSources(ctx, api, exclude)
		if err != nil {
			return err
		}
		sources = picked
	}

	if err := r.config.AddRule(id, playlist.Title, sources); err != nil {
		return err
	}

	r.writePlain("Added rule: %s (%s) ← %d source(s)\n", playlist.Title, id, len(sources))
	return nil
}

func (r *Runner) listRules(asJSON bool) error {
	if asJSON {
		type ruleJSON struct {
			ID       string   `json:"id"`
			Title    string   `json:"title,omitempty"`
			SyncFrom []string `json:"sync_from"`
		}
		rules := make([]ruleJSON, 0, len(r.config.Playlists))
		for _, rule := range r.config.Playlists {
			rules = append(rules, ruleJSON{ID: rule.ID, Title: rule.Title, SyncFrom: rule.SyncFrom})
		}
		return r.writeJSON(rules)
	}

	if len(r.config.Playlists) == 0 {
		return r.writePlain("No sync rules configured. Add one with: plsync config --add <playlist-id>\n")
	}

	for _, rule := range r.config.Playlists {
		label := rule.Title
		if label == "" {
			label = rule.ID
		}
		r.writePlain("%s (%s)\n", label, rule.ID)
		if len(rule.SyncFrom) == 0 {
			r.writePlain("  no sources\n")
			continue
		}
		r.writePlain("  ← %s\n", strings.Join(rule.SyncFrom, ", "))
	}

	return nil
}
