// Package services defines the [PlaylistAPI] interface for the remote video
// platform and implements it for the YouTube Data API v3.
//
// # PlaylistAPI Interface
//
// The sync engine only needs four operations: playlist lookup, owned
// playlist listing, item listing, and item insertion. Tests supply fakes
// implementing the same interface.
//
// # YouTube Implementation
//
// [YouTubeService] wraps the official google.golang.org/api/youtube/v3
// client. The OAuth2 token source is injected at construction via client
// options, so the service itself carries no credential handling.
//
// Listing operations page with maxResults=50 and follow page tokens until
// the playlist is exhausted. Insertions build a playlistItems.insert request
// with resourceId kind "youtube#video".
//
// # Error Handling
//
// Non-success responses surface as [*APIError] carrying the HTTP status and
// the API's own reason code. The error unwraps onto the shared sentinel
// taxonomy:
//   - [shared.ErrQuotaExceeded] : quota or rate-limit exhaustion (fatal for the run)
//   - [shared.ErrPlaylistNotFound] : unknown or invisible playlist id
//   - [shared.ErrVideoRejected] : insertion refused (private/deleted video, permissions)
//   - [shared.ErrAPIRequest] : everything else, including transport failures
//
// Transient failures (5xx, network errors) are retried in place with
// bounded exponential backoff before surfacing; quota and other 4xx
// responses are never retried at this layer.
package services
