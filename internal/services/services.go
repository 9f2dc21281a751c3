// package services defines interface PlaylistAPI for interacting with the
// remote video platform (YouTube Data API v3)
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
	"google.golang.org/api/googleapi"
)

// PlaylistAPI defines the operations the sync engine needs from the remote
// platform: playlist lookup, item listing, and item insertion.
type PlaylistAPI interface {
	// GetPlaylist retrieves playlist metadata by ID. Unknown ids map to
	// [shared.ErrPlaylistNotFound].
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// ListPlaylists retrieves all playlists owned by the authenticated channel.
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)

	// ListItems retrieves every entry of a playlist, paging internally until
	// the playlist is exhausted. Order matches the playlist's natural order.
	ListItems(ctx context.Context, playlistID string) ([]models.Video, error)

	// InsertItem appends a video to the end of a playlist and returns the
	// created entry.
	InsertItem(ctx context.Context, playlistID, videoID string) (*models.Video, error)

	// Name returns the platform name (e.g. "YouTube")
	Name() string
}

// APIError carries a non-success remote API response. Callers branch on the
// wrapped sentinel via errors.Is; Reason preserves the API's own error code
// (e.g. "quotaExceeded") for logging.
type APIError struct {
	Code    int
	Message string
	Reason  string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube API error (status %d, %s): %s", e.Code, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube API error (status %d): %s", e.Code, e.Message)
}

// IsQuota reports whether the response signals quota or rate-limit
// exhaustion, which the sync engine treats as fatal-for-this-run by default.
func (e *APIError) IsQuota() bool {
	switch e.Reason {
	case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded":
		return true
	}
	return false
}

// Retryable reports whether the failure is transient (server-side).
func (e *APIError) Retryable() bool {
	return e.Code >= 500
}

// Unwrap maps the response onto the shared sentinel taxonomy so call sites
// can match with errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch {
	case e.IsQuota():
		return shared.ErrQuotaExceeded
	case e.Code == 404 || e.Reason == "playlistNotFound":
		return shared.ErrPlaylistNotFound
	case e.Code == 403:
		return shared.ErrVideoRejected
	default:
		return shared.ErrAPIRequest
	}
}

// mapError converts client library failures into the package taxonomy.
// Structured API responses become [*APIError]; transport-level failures are
// wrapped as [shared.ErrAPIRequest].
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	reason := ""
	if len(gerr.Errors) > 0 {
		reason = gerr.Errors[0].Reason
	}
	return &APIError{Code: gerr.Code, Message: gerr.Message, Reason: reason}
}

// retryable classifies mapped errors for the in-place retry loop: only
// transient transport or server-side failures qualify. Quota and other 4xx
// responses surface immediately.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return errors.Is(err, shared.ErrAPIRequest)
}
