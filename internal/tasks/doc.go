// Package tasks orchestrates playlist synchronization with real-time progress reporting.
//
// # Core Operations
//
// The [SyncEngine] interface defines two operations:
//
//  1. [SyncEngine.Run] : Full sync pass over the configured rules
//     - Fetches the target playlist and each source playlist
//     - Computes the set of videos missing from the target
//     - Inserts missing videos, pacing calls through a rate limiter
//     - Records one history row per rule and returns per-rule results
//
//  2. [SyncEngine.Plan] : Compute the mutation set for one rule
//     - Same fetch and diff logic as Run, with no mutating calls
//     - Backs the --dry-run flag and report previews
//
// # De-duplication
//
// Each rule pass keeps a run-scoped seen set seeded with the target's video
// ids. Sources are processed in config order and each contributes only ids
// not yet seen, so a video present in the target or in an earlier source is
// skipped and a video shared by several sources is inserted exactly once.
//
// # Quota Handling
//
// A quota-exceeded error aborts the current rule and every rule after it;
// with the "retry" policy the failing call is retried with exponential
// backoff first. Any other per-video failure is collected in
// [RuleResult.Failures] and the pass continues.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and
// optional data for advanced UI rendering. Updates use select with default
// to prevent blocking.
//
// # Implementation
//
// [PlaylistEngine] implements [SyncEngine] with dependencies on:
//   - [services.PlaylistAPI] : playlist provider client
//   - [RunRecorder] : optional history persistence (repositories.RunRepository)
package tasks
