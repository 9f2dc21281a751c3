package formatter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/tasks"
)

func sampleSummary(dryRun bool) *tasks.SyncSummary {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &tasks.SyncSummary{
		DryRun: dryRun,
		Results: []tasks.RuleResult{
			{
				TargetID:    "PLtarget",
				TargetTitle: "Weekly Mix",
				DryRun:      dryRun,
				Planned: []models.Video{
					{VideoID: "C", Title: "Song C"},
					{VideoID: "D", Title: "Song D"},
				},
				Added:   2,
				Skipped: 1,
				Failures: []tasks.RuleFailure{
					{VideoID: "E", Title: "Song E", Err: errors.New("video is private")},
				},
				StartedAt:  started,
				FinishedAt: started.Add(3 * time.Second),
			},
		},
	}
}

func TestReportText(t *testing.T) {
	t.Run("live run", func(t *testing.T) {
		text := string(NewReport(sampleSummary(false)).Text())

		for _, want := range []string{
			"Sync report (live)",
			"Weekly Mix (PLtarget): 2 added, 1 skipped, 1 failed",
			"Song E (E): video is private",
			"Totals: 2 added, 1 skipped, 1 failed",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("text report missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("dry run lists planned videos", func(t *testing.T) {
		text := string(NewReport(sampleSummary(true)).Text())

		if !strings.Contains(text, "would add") {
			t.Errorf("dry-run report should say 'would add':\n%s", text)
		}
		if !strings.Contains(text, "+ Song C (C)") {
			t.Errorf("dry-run report should list planned videos:\n%s", text)
		}
	})

	t.Run("aborted run is flagged", func(t *testing.T) {
		summary := sampleSummary(false)
		summary.Aborted = true
		text := string(NewReport(summary).Text())

		if !strings.Contains(text, "aborted") {
			t.Errorf("aborted report missing notice:\n%s", text)
		}
	})
}

func TestReportMarkdown(t *testing.T) {
	md := string(NewReport(sampleSummary(false)).Markdown())

	for _, want := range []string{
		"# Sync Report",
		"## Weekly Mix (PLtarget)",
		"- Added: 2",
		"- Skipped: 1",
		"### Failures",
		"- Song E (E): video is private",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown report missing %q", want)
		}
	}
}

func TestReportJSON(t *testing.T) {
	data, err := NewReport(sampleSummary(false)).JSON()
	if err != nil {
		t.Fatalf("failed to encode report: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report JSON does not round trip: %v", err)
	}
	if decoded.TotalAdded != 2 || decoded.TotalSkipped != 1 || decoded.TotalFailed != 1 {
		t.Errorf("unexpected totals: %+v", decoded)
	}
	if len(decoded.Rules) != 1 || decoded.Rules[0].TargetID != "PLtarget" {
		t.Errorf("unexpected rules: %+v", decoded.Rules)
	}
	if decoded.Rules[0].Failures[0].Error != "video is private" {
		t.Errorf("failure error lost: %+v", decoded.Rules[0].Failures)
	}
}

func TestWriteReport(t *testing.T) {
	summary := sampleSummary(false)

	t.Run("json by extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.json")
		written, err := WriteReport(summary, path)
		if err != nil {
			t.Fatalf("failed to write report: %v", err)
		}
		if written != path {
			t.Errorf("unexpected path: %s", written)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var decoded Report
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Errorf("written file is not valid JSON: %v", err)
		}
	})

	t.Run("markdown by extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.md")
		if _, err := WriteReport(summary, path); err != nil {
			t.Fatalf("failed to write report: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(data), "# Sync Report") {
			t.Errorf("expected markdown content, got: %.40s", data)
		}
	})

	t.Run("plain text fallback", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.txt")
		if _, err := WriteReport(summary, path); err != nil {
			t.Fatalf("failed to write report: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "Sync report (live)") {
			t.Errorf("expected text content, got: %.40s", data)
		}
	})

	t.Run("empty path fails", func(t *testing.T) {
		if _, err := WriteReport(summary, ""); err == nil {
			t.Error("expected error for empty path")
		}
	})
}

func TestHistoryText(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		text := string(HistoryText(nil))
		if !strings.Contains(text, "No sync runs") {
			t.Errorf("unexpected empty-history output: %s", text)
		}
	})

	t.Run("rows include counters and flags", func(t *testing.T) {
		runs := []*models.SyncRun{
			{
				Sequence:    2,
				TargetID:    "PLtarget",
				TargetTitle: "Weekly Mix",
				DryRun:      true,
				Added:       0,
				Skipped:     3,
				StartedAt:   time.Now(),
				FinishedAt:  time.Now(),
			},
			{
				Sequence:   1,
				TargetID:   "PLother",
				Added:      5,
				Aborted:    true,
				Error:      "quota exhausted",
				StartedAt:  time.Now(),
				FinishedAt: time.Now(),
			},
		}

		text := string(HistoryText(runs))
		for _, want := range []string{"#2 Weekly Mix [dry-run]", "#1 PLother ABORTED", "5 added", "error: quota exhausted"} {
			if !strings.Contains(text, want) {
				t.Errorf("history output missing %q:\n%s", want, text)
			}
		}
	})
}

func TestHistoryJSON(t *testing.T) {
	runs := []*models.SyncRun{{Sequence: 1, RunID: "r1", TargetID: "PL1", Added: 2}}

	data, err := HistoryJSON(runs)
	if err != nil {
		t.Fatalf("failed to encode history: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("history JSON does not round trip: %v", err)
	}
	if len(decoded) != 1 || decoded[0]["target_id"] != "PL1" {
		t.Errorf("unexpected history JSON: %v", decoded)
	}
}
