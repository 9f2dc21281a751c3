package tasks

import (
	"fmt"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTarget Phase = iota
	FetchSource
	Diff
	Insert
	RuleDone
)

func (p Phase) String() string {
	switch p {
	case FetchTarget:
		return "fetch_target"
	case FetchSource:
		return "fetch_source"
	case Diff:
		return "diff"
	case Insert:
		return "insert"
	case RuleDone:
		return "rule_done"
	default:
		return ""
	}
}

func fetchTargetUpdate(rule shared.Playlist) ProgressUpdate {
	label := rule.Title
	if label == "" {
		label = rule.ID
	}
	return ProgressUpdate{
		Phase:   FetchTarget,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching target playlist (%s)...", label),
	}
}

func fetchSourceUpdate(step, total int, sourceID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching source playlist %s...", step, total, sourceID),
	}
}

func diffUpdate(plan *RulePlan) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Diff,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d to add, %d duplicates skipped", len(plan.ToAdd), plan.Skipped),
		Data:    plan,
	}
}

func insertUpdate(step, total int, video models.Video) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Insert,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Adding: %s", step, total, video.Title),
		Data:    video,
	}
}

func ruleDoneUpdate(result RuleResult) ProgressUpdate {
	verb := "added"
	if result.DryRun {
		verb = "would add"
	}
	count := result.Added
	if result.DryRun {
		count = len(result.Planned)
	}
	return ProgressUpdate{
		Phase:   RuleDone,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%s: %d %s, %d skipped, %d failed", result.TargetID, count, verb, result.Skipped, len(result.Failures)),
		Data:    result,
	}
}
