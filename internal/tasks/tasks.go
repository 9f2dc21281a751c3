package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/retry"
	"github.com/desertthunder/plsync/internal/services"
	"github.com/desertthunder/plsync/internal/shared"
	"golang.org/x/time/rate"
)

// RuleFailure records one failed insertion within a rule pass.
type RuleFailure struct {
	VideoID string
	Title   string
	Err     error
}

// RulePlan is the computed mutation set for a single rule: the videos
// missing from the target, in insertion order.
type RulePlan struct {
	TargetID    string
	TargetTitle string
	ToAdd       []models.Video // Insertion order: source config order, then natural item order
	Skipped     int            // Source entries already in the target or an earlier source
}

// RuleResult contains the outcome of one rule pass.
type RuleResult struct {
	TargetID    string
	TargetTitle string
	DryRun      bool
	Planned     []models.Video // The to-add list (identical in dry-run and live mode)
	Added       int
	Skipped     int
	Failures    []RuleFailure
	Aborted     bool  // Quota exhaustion stopped this rule (and the rest of the run)
	Err         error // Rule-level failure (fetch error, quota); per-video errors live in Failures
	StartedAt   time.Time
	FinishedAt  time.Time
}

// SyncSummary aggregates rule results across one invocation.
type SyncSummary struct {
	Results []RuleResult
	DryRun  bool
	Aborted bool
}

// TotalAdded sums insertions across all rules.
func (s *SyncSummary) TotalAdded() int {
	total := 0
	for _, r := range s.Results {
		total += r.Added
	}
	return total
}

// TotalSkipped sums duplicate skips across all rules.
func (s *SyncSummary) TotalSkipped() int {
	total := 0
	for _, r := range s.Results {
		total += r.Skipped
	}
	return total
}

// TotalFailed sums per-video failures across all rules.
func (s *SyncSummary) TotalFailed() int {
	total := 0
	for _, r := range s.Results {
		total += len(r.Failures)
	}
	return total
}

// RunOptions configures one engine invocation.
type RunOptions struct {
	// DryRun computes and reports the to-add list without issuing any
	// mutating API call.
	DryRun bool
	// Progress receives non-blocking updates; nil disables reporting.
	Progress chan<- ProgressUpdate
}

// SyncEngine defines playlist reconciliation operations.
type SyncEngine interface {
	// Run processes each rule in order: fetch target and source items,
	// compute the difference, insert what is missing.
	Run(ctx context.Context, rules []shared.Playlist, opts RunOptions) (*SyncSummary, error)

	// Plan computes the to-add list for a single rule without mutating anything.
	Plan(ctx context.Context, rule shared.Playlist) (*RulePlan, error)
}

// RunRecorder persists one history row per rule pass. A nil recorder
// disables history.
type RunRecorder interface {
	Record(ctx context.Context, run *models.SyncRun) error
}

// EngineOpts contains construction options for a PlaylistEngine.
type EngineOpts struct {
	// QuotaPolicy is [shared.QuotaPolicyAbort] (default) or
	// [shared.QuotaPolicyRetry].
	QuotaPolicy string
	// MaxRetries bounds backoff attempts when QuotaPolicy is "retry".
	MaxRetries int
	// InsertsPerSecond paces insert calls; 0 disables pacing.
	InsertsPerSecond float64
	Recorder         RunRecorder
	Logger           *log.Logger
}

// PlaylistEngine implements SyncEngine against a [services.PlaylistAPI].
type PlaylistEngine struct {
	api        services.PlaylistAPI
	recorder   RunRecorder
	limiter    *rate.Limiter
	retryCfg   retry.Config
	quotaRetry bool
	logger     *log.Logger
}

var _ SyncEngine = (*PlaylistEngine)(nil)

// NewPlaylistEngine creates a PlaylistEngine over the provided API client.
func NewPlaylistEngine(api services.PlaylistAPI, opts EngineOpts) *PlaylistEngine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.InsertsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.InsertsPerSecond), 1)
	}

	retryCfg := retry.DefaultConfig()
	if opts.MaxRetries > 0 {
		retryCfg.MaxRetries = opts.MaxRetries
	}

	return &PlaylistEngine{
		api:        api,
		recorder:   opts.Recorder,
		limiter:    limiter,
		retryCfg:   retryCfg,
		quotaRetry: opts.QuotaPolicy == shared.QuotaPolicyRetry,
		logger:     opts.Logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
		// Channel full or closed, skip this update
	}
}

// Run processes the configured rules sequentially. A quota-exceeded failure
// aborts the current rule and every subsequent rule; all other failures are
// collected per rule and the run continues.
func (e *PlaylistEngine) Run(ctx context.Context, rules []shared.Playlist, opts RunOptions) (*SyncSummary, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: playlist API not initialized", shared.ErrAPIRequest)
	}
	if len(rules) == 0 {
		return nil, shared.ErrNoRules
	}

	summary := &SyncSummary{DryRun: opts.DryRun}

	for _, rule := range rules {
		if len(rule.SyncFrom) == 0 {
			e.logger.Warn("rule has no sources, skipping", "target", rule.ID)
			continue
		}

		result := e.syncRule(ctx, rule, opts)
		summary.Results = append(summary.Results, result)
		e.record(ctx, result)

		if result.Aborted {
			summary.Aborted = true
			e.logger.Error("quota exhausted, aborting remaining rules", "target", rule.ID)
			break
		}
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
	}

	return summary, nil
}

// Plan computes the to-add list for one rule without mutating anything.
func (e *PlaylistEngine) Plan(ctx context.Context, rule shared.Playlist) (*RulePlan, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: playlist API not initialized", shared.ErrAPIRequest)
	}
	return e.plan(ctx, rule, nil)
}

// plan fetches target and source items and computes the run-scoped set
// difference. The seen set starts as the target's video ids and grows as
// sources contribute, so a video appearing in multiple sources is planned
// exactly once.
func (e *PlaylistEngine) plan(ctx context.Context, rule shared.Playlist, progress chan<- ProgressUpdate) (*RulePlan, error) {
	plan := &RulePlan{TargetID: rule.ID, TargetTitle: rule.Title}

	e.sendProgress(progress, fetchTargetUpdate(rule))
	targetItems, err := e.list(ctx, rule.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch target playlist %s: %w", rule.ID, err)
	}

	seen := make(map[string]struct{}, len(targetItems))
	for _, video := range targetItems {
		seen[video.VideoID] = struct{}{}
	}

	for i, sourceID := range rule.SyncFrom {
		e.sendProgress(progress, fetchSourceUpdate(i+1, len(rule.SyncFrom), sourceID))

		items, err := e.list(ctx, sourceID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch source playlist %s: %w", sourceID, err)
		}

		for _, video := range items {
			if _, dup := seen[video.VideoID]; dup {
				plan.Skipped++
				continue
			}
			seen[video.VideoID] = struct{}{}
			plan.ToAdd = append(plan.ToAdd, video)
		}
	}

	e.sendProgress(progress, diffUpdate(plan))
	return plan, nil
}

// syncRule executes one full rule pass: plan, then insert (unless dry-run).
func (e *PlaylistEngine) syncRule(ctx context.Context, rule shared.Playlist, opts RunOptions) RuleResult {
	result := RuleResult{
		TargetID:    rule.ID,
		TargetTitle: rule.Title,
		DryRun:      opts.DryRun,
		StartedAt:   time.Now(),
	}

	plan, err := e.plan(ctx, rule, opts.Progress)
	if err != nil {
		result.Err = err
		result.Aborted = errors.Is(err, shared.ErrQuotaExceeded)
		result.FinishedAt = time.Now()
		return result
	}

	result.Planned = plan.ToAdd
	result.Skipped = plan.Skipped

	if opts.DryRun {
		result.FinishedAt = time.Now()
		e.sendProgress(opts.Progress, ruleDoneUpdate(result))
		return result
	}

	for i, video := range plan.ToAdd {
		e.sendProgress(opts.Progress, insertUpdate(i+1, len(plan.ToAdd), video))

		if err := e.insert(ctx, rule.ID, video.VideoID); err != nil {
			if errors.Is(err, shared.ErrQuotaExceeded) {
				result.Err = err
				result.Aborted = true
				break
			}
			e.logger.Warn("failed to insert video", "target", rule.ID, "video", video.VideoID, "error", err)
			result.Failures = append(result.Failures, RuleFailure{
				VideoID: video.VideoID,
				Title:   video.Title,
				Err:     err,
			})
			continue
		}
		result.Added++
	}

	result.FinishedAt = time.Now()
	e.sendProgress(opts.Progress, ruleDoneUpdate(result))
	return result
}

// list fetches playlist items, optionally retrying quota failures per the
// configured policy. Transient failures are already retried inside the
// service layer.
func (e *PlaylistEngine) list(ctx context.Context, playlistID string) ([]models.Video, error) {
	if !e.quotaRetry {
		return e.api.ListItems(ctx, playlistID)
	}

	var items []models.Video
	err := retry.Do(ctx, e.retryCfg, quotaRetryable, func(ctx context.Context) error {
		var callErr error
		items, callErr = e.api.ListItems(ctx, playlistID)
		return callErr
	})
	return items, err
}

// insert issues one paced insert call, optionally retrying quota failures.
func (e *PlaylistEngine) insert(ctx context.Context, playlistID, videoID string) error {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	do := func(ctx context.Context) error {
		_, err := e.api.InsertItem(ctx, playlistID, videoID)
		return err
	}

	if !e.quotaRetry {
		return do(ctx)
	}
	return retry.Do(ctx, e.retryCfg, quotaRetryable, do)
}

// quotaRetryable classifies errors for the "retry" quota policy: only
// quota-flavored failures get the backoff treatment here.
func quotaRetryable(err error) bool {
	return errors.Is(err, shared.ErrQuotaExceeded)
}

// record persists the rule pass through the recorder, if one is configured.
func (e *PlaylistEngine) record(ctx context.Context, result RuleResult) {
	if e.recorder == nil {
		return
	}

	errText := ""
	if result.Err != nil {
		errText = result.Err.Error()
	}

	run := &models.SyncRun{
		RunID:       shared.GenerateID(),
		TargetID:    result.TargetID,
		TargetTitle: result.TargetTitle,
		DryRun:      result.DryRun,
		Added:       result.Added,
		Skipped:     result.Skipped,
		Failed:      len(result.Failures),
		Aborted:     result.Aborted,
		Error:       errText,
		StartedAt:   result.StartedAt,
		FinishedAt:  result.FinishedAt,
	}

	if err := e.recorder.Record(ctx, run); err != nil {
		e.logger.Warn("failed to record sync run", "target", result.TargetID, "error", err)
	}
}
