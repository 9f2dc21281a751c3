// package formatter renders sync results and run history to plain text, Markdown, and JSON
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/tasks"
)

// Report is the serializable view of a sync pass, shared by every output
// format.
type Report struct {
	GeneratedAt  time.Time    `json:"generated_at"`
	DryRun       bool         `json:"dry_run"`
	Aborted      bool         `json:"aborted"`
	TotalAdded   int          `json:"total_added"`
	TotalSkipped int          `json:"total_skipped"`
	TotalFailed  int          `json:"total_failed"`
	Rules        []RuleReport `json:"rules"`
}

// RuleReport describes the outcome of one rule.
type RuleReport struct {
	TargetID    string          `json:"target_id"`
	TargetTitle string          `json:"target_title,omitempty"`
	Added       int             `json:"added"`
	Skipped     int             `json:"skipped"`
	Aborted     bool            `json:"aborted"`
	Error       string          `json:"error,omitempty"`
	Planned     []VideoReport   `json:"planned,omitempty"`
	Failures    []FailureReport `json:"failures,omitempty"`
	Duration    string          `json:"duration,omitempty"`
}

// VideoReport identifies one planned or added video.
type VideoReport struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title,omitempty"`
}

// FailureReport describes one video that could not be inserted.
type FailureReport struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title,omitempty"`
	Error   string `json:"error"`
}

// NewReport flattens a [tasks.SyncSummary] into a Report.
func NewReport(summary *tasks.SyncSummary) *Report {
	report := &Report{
		GeneratedAt:  time.Now(),
		DryRun:       summary.DryRun,
		Aborted:      summary.Aborted,
		TotalAdded:   summary.TotalAdded(),
		TotalSkipped: summary.TotalSkipped(),
		TotalFailed:  summary.TotalFailed(),
	}

	for _, result := range summary.Results {
		rule := RuleReport{
			TargetID:    result.TargetID,
			TargetTitle: result.TargetTitle,
			Added:       result.Added,
			Skipped:     result.Skipped,
			Aborted:     result.Aborted,
		}
		if result.Err != nil {
			rule.Error = result.Err.Error()
		}
		if !result.FinishedAt.IsZero() && !result.StartedAt.IsZero() {
			rule.Duration = result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond).String()
		}
		for _, video := range result.Planned {
			rule.Planned = append(rule.Planned, VideoReport{VideoID: video.VideoID, Title: video.Title})
		}
		for _, failure := range result.Failures {
			rule.Failures = append(rule.Failures, FailureReport{
				VideoID: failure.VideoID,
				Title:   failure.Title,
				Error:   failure.Err.Error(),
			})
		}
		report.Rules = append(report.Rules, rule)
	}

	return report
}

func (r *Report) mode() string {
	if r.DryRun {
		return "dry-run"
	}
	return "live"
}

func ruleLabel(rule RuleReport) string {
	if rule.TargetTitle != "" {
		return fmt.Sprintf("%s (%s)", rule.TargetTitle, rule.TargetID)
	}
	return rule.TargetID
}

// Text renders the report for terminal output.
func (r *Report) Text() []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Sync report (%s)\n\n", r.mode()))

	for _, rule := range r.Rules {
		verb := "added"
		count := rule.Added
		if r.DryRun {
			verb = "would add"
			count = len(rule.Planned)
		}
		buf.WriteString(fmt.Sprintf("%s: %d %s, %d skipped, %d failed\n", ruleLabel(rule), count, verb, rule.Skipped, len(rule.Failures)))

		if r.DryRun {
			for _, video := range rule.Planned {
				buf.WriteString(fmt.Sprintf("  + %s (%s)\n", video.Title, video.VideoID))
			}
		}
		for _, failure := range rule.Failures {
			buf.WriteString(fmt.Sprintf("  ✗ %s (%s): %s\n", failure.Title, failure.VideoID, failure.Error))
		}
		if rule.Error != "" {
			buf.WriteString(fmt.Sprintf("  error: %s\n", rule.Error))
		}
	}

	buf.WriteString(fmt.Sprintf("\nTotals: %d added, %d skipped, %d failed\n", r.TotalAdded, r.TotalSkipped, r.TotalFailed))
	if r.Aborted {
		buf.WriteString("Run aborted before completion (quota exhausted).\n")
	}

	return buf.Bytes()
}

// Markdown renders the report for saving alongside project docs.
func (r *Report) Markdown() []byte {
	var buf bytes.Buffer

	buf.WriteString("# Sync Report\n\n")
	buf.WriteString(fmt.Sprintf("**Generated**: %s\n", r.GeneratedAt.Format(time.RFC3339)))
	buf.WriteString(fmt.Sprintf("**Mode**: %s\n", r.mode()))
	buf.WriteString(fmt.Sprintf("**Totals**: %d added, %d skipped, %d failed\n\n", r.TotalAdded, r.TotalSkipped, r.TotalFailed))
	if r.Aborted {
		buf.WriteString("> Run aborted before completion (quota exhausted).\n\n")
	}

	for _, rule := range r.Rules {
		buf.WriteString(fmt.Sprintf("## %s\n\n", ruleLabel(rule)))
		buf.WriteString(fmt.Sprintf("- Added: %d\n", rule.Added))
		buf.WriteString(fmt.Sprintf("- Skipped: %d\n", rule.Skipped))
		buf.WriteString(fmt.Sprintf("- Failed: %d\n", len(rule.Failures)))
		if rule.Duration != "" {
			buf.WriteString(fmt.Sprintf("- Duration: %s\n", rule.Duration))
		}
		if rule.Error != "" {
			buf.WriteString(fmt.Sprintf("- Error: %s\n", rule.Error))
		}
		buf.WriteString("\n")

		if len(rule.Planned) > 0 {
			buf.WriteString("### Planned\n\n")
			for i, video := range rule.Planned {
				buf.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, video.Title, video.VideoID))
			}
			buf.WriteString("\n")
		}

		if len(rule.Failures) > 0 {
			buf.WriteString("### Failures\n\n")
			for _, failure := range rule.Failures {
				buf.WriteString(fmt.Sprintf("- %s (%s): %s\n", failure.Title, failure.VideoID, failure.Error))
			}
			buf.WriteString("\n")
		}
	}

	return buf.Bytes()
}

// JSON renders the report for machine consumption.
func (r *Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteReport renders a summary to path, choosing the format from the file
// extension: .json, .md/.markdown, anything else plain text. Returns the
// written path.
func WriteReport(summary *tasks.SyncSummary, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty report path")
	}

	report := NewReport(summary)

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = report.JSON()
	case ".md", ".markdown":
		data = report.Markdown()
	default:
		data = report.Text()
	}
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return path, nil
}

// HistoryText renders history rows for `plsync history`, newest first.
func HistoryText(runs []*models.SyncRun) []byte {
	var buf bytes.Buffer

	if len(runs) == 0 {
		buf.WriteString("No sync runs recorded yet.\n")
		return buf.Bytes()
	}

	for _, run := range runs {
		mode := ""
		if run.DryRun {
			mode = " [dry-run]"
		}
		status := ""
		if run.Aborted {
			status = " ABORTED"
		}
		label := run.TargetTitle
		if label == "" {
			label = run.TargetID
		}

		buf.WriteString(fmt.Sprintf("#%d %s%s%s\n", run.Sequence, label, mode, status))
		buf.WriteString(fmt.Sprintf("   %s  %d added, %d skipped, %d failed\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.Added, run.Skipped, run.Failed))
		if run.Error != "" {
			buf.WriteString(fmt.Sprintf("   error: %s\n", run.Error))
		}
	}

	return buf.Bytes()
}

// HistoryJSON renders history rows as JSON.
func HistoryJSON(runs []*models.SyncRun) ([]byte, error) {
	type historyRun struct {
		Sequence    int       `json:"sequence"`
		RunID       string    `json:"run_id"`
		TargetID    string    `json:"target_id"`
		TargetTitle string    `json:"target_title,omitempty"`
		DryRun      bool      `json:"dry_run"`
		Added       int       `json:"added"`
		Skipped     int       `json:"skipped"`
		Failed      int       `json:"failed"`
		Aborted     bool      `json:"aborted"`
		Error       string    `json:"error,omitempty"`
		StartedAt   time.Time `json:"started_at"`
		FinishedAt  time.Time `json:"finished_at"`
	}

	out := make([]historyRun, 0, len(runs))
	for _, run := range runs {
		out = append(out, historyRun{
			Sequence:    run.Sequence,
			RunID:       run.RunID,
			TargetID:    run.TargetID,
			TargetTitle: run.TargetTitle,
			DryRun:      run.DryRun,
			Added:       run.Added,
			Skipped:     run.Skipped,
			Failed:      run.Failed,
			Aborted:     run.Aborted,
			Error:       run.Error,
			StartedAt:   run.StartedAt,
			FinishedAt:  run.FinishedAt,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return append(data, '\n'), nil
}
