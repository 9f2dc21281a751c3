// Package repositories implements SQLite persistence for the sync history.
//
// [RunRepository] stores one row per rule pass with atomic sequence
// generation for human-readable ordering. It satisfies the engine's
// recorder interface, so wiring it in is all that is needed to get
// `plsync history` output.
//
// Sequence numbers provide stable, human-readable ordering (e.g., run #42)
// independent of UUIDs and creation timestamps. The [NextSequence] function
// atomically increments per-table sequence counters in dedicated sequence
// tables.
package repositories
