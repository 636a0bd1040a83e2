// Package models defines the value types exchanged between the Spotify client and its callers.
//
// The package contains two categories of types:
//
// 1. Credentials
//   - [Token] : the persisted access/refresh token pair and its expiry
//
// 2. Snapshots and catalog records, built per call and never cached
//   - [PlaybackSnapshot] : point-in-time read of the player
//   - [TrackRef], [ArtistRef], [AlbumRef], [DeviceRef] : flat records
//   - [SearchResult] : one page of tracks, artists and albums
package models
