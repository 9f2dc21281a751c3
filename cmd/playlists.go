package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Playlists handles `plsync playlists`: lists the authenticated channel's
// playlists so users can discover ids for config rules.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	api, err := r.service(ctx)
	if err != nil {
		return err
	}

	playlists, err := api.ListPlaylists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type playlistJSON struct {
			ID        string `json:"id"`
			Title     string `json:"title"`
			ItemCount int    `json:"item_count"`
			Privacy   string `json:"privacy,omitempty"`
		}
		out := make([]playlistJSON, 0, len(playlists))
		for _, pl := range playlists {
			out = append(out, playlistJSON{ID: pl.ID, Title: pl.Title, ItemCount: pl.ItemCount, Privacy: pl.Privacy})
		}
		return r.writeJSON(out)
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists found on this channel.\n")
	}

	for _, pl := range playlists {
		r.writePlain("%s  %s (%d videos", pl.ID, pl.Title, pl.ItemCount)
		if pl.Privacy != "" {
			r.writePlain(", %s", pl.Privacy)
		}
		r.writePlain(")\n")
	}
	return nil
}
