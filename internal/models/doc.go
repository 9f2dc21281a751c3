// Package models defines domain entities for the plsync playlist synchronizer.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing remote API data
//   - [Playlist] : Playlist metadata from the YouTube Data API
//   - [Video] : A single playlist entry (video id + owning playlist-item id)
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [SyncRun] : One sync rule pass with mode, counts, and outcome
//
// Persistent entities implement the [Model] interface providing ID access,
// timestamps, and validation. Repositories in internal/repositories handle
// database access for these types.
package models
