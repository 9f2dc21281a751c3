package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/plsync/internal/formatter"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/desertthunder/plsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync handles `plsync sync`: runs the engine over all configured rules (or
// the one selected with --id), streams progress to the logger, and prints
// the report.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	rules := r.config.Playlists
	if id := cmd.String("id"); id != "" {
		rule, ok := r.config.Rule(id)
		if !ok {
			return fmt.Errorf("%w: %s", shared.ErrRuleNotFound, id)
		}
		rules = []shared.Playlist{*rule}
	}
	if len(rules) == 0 {
		return fmt.Errorf("%w: add one with plsync config --add", shared.ErrNoRules)
	}

	engine, err := r.syncEngine(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 64)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	summary, runErr := engine.Run(ctx, rules, tasks.RunOptions{
		DryRun:   cmd.Bool("dry-run"),
		Progress: progress,
	})
	close(progress)
	<-drained

	if runErr != nil {
		return runErr
	}

	if cmd.Bool("json") {
		data, err := formatter.NewReport(summary).JSON()
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return err
		}
	} else {
		if _, err := r.output.Write(formatter.NewReport(summary).Text()); err != nil {
			return err
		}
	}

	if path := cmd.String("report"); path != "" {
		written, err := formatter.WriteReport(summary, path)
		if err != nil {
			return err
		}
		r.writePlain("Report written to %s\n", written)
	}

	if summary.Aborted {
		return fmt.Errorf("%w: run aborted before completion", shared.ErrQuotaExceeded)
	}

	return nil
}
