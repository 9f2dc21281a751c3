package main

import (
	"context"

	"github.com/desertthunder/plsync/internal/formatter"
	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/repositories"
	"github.com/urfave/cli/v3"
)

// History handles `plsync history`: prints recent sync runs from the local
// database, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := r.historyDB()
	if err != nil {
		return err
	}

	repo := repositories.NewRunRepository(db)
	limit := int(cmd.Int("limit"))

	var runs []*models.SyncRun
	if id := cmd.String("id"); id != "" {
		runs, err = repo.RecentForTarget(id, limit)
	} else {
		runs, err = repo.Recent(limit)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		data, err := formatter.HistoryJSON(runs)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	_, err = r.output.Write(formatter.HistoryText(runs))
	return err
}
