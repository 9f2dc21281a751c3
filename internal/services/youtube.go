// YouTube Data API v3 [PlaylistAPI] implementation
//
// Wraps the official google.golang.org/api/youtube/v3 client. Listing calls
// page with maxResults=50 until exhausted; transient failures are retried
// in place with bounded backoff before surfacing.
package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/retry"
	"github.com/desertthunder/plsync/internal/shared"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// maxPageSize is the largest page the playlistItems.list and playlists.list
// endpoints accept.
const maxPageSize = 50

// videoKind is the resourceId kind for playlist item insertion.
const videoKind = "youtube#video"

// YouTubeService implements [PlaylistAPI] against the YouTube Data API v3.
type YouTubeService struct {
	svc      *youtube.Service
	retryCfg retry.Config
}

// NewYouTubeService creates a YouTube service from client options (token
// source in production, test endpoint + HTTP client in tests).
func NewYouTubeService(ctx context.Context, retryCfg retry.Config, opts ...option.ClientOption) (*YouTubeService, error) {
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}
	return &YouTubeService{svc: svc, retryCfg: retryCfg}, nil
}

// Name returns the platform name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// do runs one API call through the retry loop with the transient classifier.
func (y *YouTubeService) do(ctx context.Context, fn func(context.Context) error) error {
	return retry.Do(ctx, y.retryCfg, retryable, fn)
}

// GetPlaylist retrieves playlist metadata by ID.
//
// Calls playlists.list with parts snippet,contentDetails,status. An empty
// item list means the id does not exist or is not visible to the caller.
func (y *YouTubeService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	var resp *youtube.PlaylistListResponse

	err := y.do(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = y.svc.Playlists.List([]string{"snippet", "contentDetails", "status"}).
			Id(playlistID).
			Context(ctx).
			Do()
		return mapError(callErr)
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	pl := toPlaylist(resp.Items[0])
	return &pl, nil
}

// ListPlaylists retrieves all playlists owned by the authenticated channel,
// paging until exhausted.
func (y *YouTubeService) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	pageToken := ""

	for {
		var resp *youtube.PlaylistListResponse

		err := y.do(ctx, func(ctx context.Context) error {
			var callErr error
			resp, callErr = y.svc.Playlists.List([]string{"snippet", "contentDetails", "status"}).
				Mine(true).
				MaxResults(maxPageSize).
				PageToken(pageToken).
				Context(ctx).
				Do()
			return mapError(callErr)
		})
		if err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			playlists = append(playlists, toPlaylist(item))
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return playlists, nil
		}
	}
}

// ListItems retrieves every entry of a playlist in natural order.
//
// Calls playlistItems.list with parts snippet,contentDetails, maxResults=50,
// following page tokens until the playlist is exhausted.
func (y *YouTubeService) ListItems(ctx context.Context, playlistID string) ([]models.Video, error) {
	var videos []models.Video
	pageToken := ""

	for {
		var resp *youtube.PlaylistItemListResponse

		err := y.do(ctx, func(ctx context.Context) error {
			var callErr error
			resp, callErr = y.svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
				PlaylistId(playlistID).
				MaxResults(maxPageSize).
				PageToken(pageToken).
				Context(ctx).
				Do()
			return mapError(callErr)
		})
		if err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			videos = append(videos, toVideo(item))
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return videos, nil
		}
	}
}

// InsertItem appends a video to the end of a playlist.
//
// Calls playlistItems.insert with a snippet carrying resourceId kind
// "youtube#video". Rejections (private/deleted videos, permission errors)
// surface as [*APIError].
func (y *YouTubeService) InsertItem(ctx context.Context, playlistID, videoID string) (*models.Video, error) {
	item := &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{
				Kind:    videoKind,
				VideoId: videoID,
			},
		},
	}

	var created *youtube.PlaylistItem

	err := y.do(ctx, func(ctx context.Context) error {
		var callErr error
		created, callErr = y.svc.PlaylistItems.Insert([]string{"snippet"}, item).
			Context(ctx).
			Do()
		return mapError(callErr)
	})
	if err != nil {
		return nil, err
	}

	video := toVideo(created)
	return &video, nil
}

func toPlaylist(item *youtube.Playlist) models.Playlist {
	pl := models.Playlist{ID: item.Id}
	if item.Snippet != nil {
		pl.Title = item.Snippet.Title
		pl.Description = item.Snippet.Description
	}
	if item.ContentDetails != nil {
		pl.ItemCount = int(item.ContentDetails.ItemCount)
	}
	if item.Status != nil {
		pl.Privacy = item.Status.PrivacyStatus
	}
	return pl
}

func toVideo(item *youtube.PlaylistItem) models.Video {
	video := models.Video{PlaylistItemID: item.Id}
	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.Position = int(item.Snippet.Position)
		if item.Snippet.ResourceId != nil {
			video.VideoID = item.Snippet.ResourceId.VideoId
		}
	}
	if video.VideoID == "" && item.ContentDetails != nil {
		video.VideoID = item.ContentDetails.VideoId
	}
	return video
}
