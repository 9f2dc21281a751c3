// package models defines the data model for the playlist sync tool
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Playlist represents a playlist on the remote platform.
type Playlist struct {
	ID          string
	Title       string
	Description string
	ItemCount   int
	Privacy     string // public, private, unlisted
}

// Video identifies a single playlist entry.
//
// PlaylistItemID is the owning playlist-item resource, needed for later
// mutations of the entry; VideoID identifies the video itself and is the
// key de-duplication operates on.
type Video struct {
	VideoID        string
	PlaylistItemID string
	Title          string
	Position       int
}

// SyncRun records one rule pass: which target was synced, in which mode,
// and with what outcome. Persisted to the local history database.
type SyncRun struct {
	RunID       string
	Sequence    int
	TargetID    string
	TargetTitle string
	DryRun      bool
	Added       int
	Skipped     int
	Failed      int
	Aborted     bool
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Created     time.Time
}

var _ Model = (*SyncRun)(nil)

func (r *SyncRun) ID() string           { return r.RunID }
func (r *SyncRun) CreatedAt() time.Time { return r.Created }

// Validate checks the invariants a run row must satisfy before insertion.
func (r *SyncRun) Validate() error {
	if r.TargetID == "" {
		return fmt.Errorf("sync run missing target playlist id")
	}
	if r.Added < 0 || r.Skipped < 0 || r.Failed < 0 {
		return fmt.Errorf("sync run counts must be non-negative")
	}
	if r.FinishedAt.Before(r.StartedAt) {
		return fmt.Errorf("sync run finished before it started")
	}
	return nil
}
