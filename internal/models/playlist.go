// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package models

// Track is one entry of a playlist's track list.
//
// Only TrackURI is required by the pipeline. The remaining fields mirror the
// dataset slice files and are carried through for diagnostics.
type Track struct {
	// Pos is the zero-based position of the track in the playlist.
	Pos int `json:"pos"`

	// TrackURI is the opaque track identifier (e.g. "spotify:track:...").
	TrackURI string `json:"track_uri"`

	// TrackName is the display name of the track.
	TrackName string `json:"track_name,omitempty"`

	// ArtistURI and ArtistName describe the primary artist.
	ArtistURI  string `json:"artist_uri,omitempty"`
	ArtistName string `json:"artist_name,omitempty"`

	// AlbumURI and AlbumName describe the album.
	AlbumURI  string `json:"album_uri,omitempty"`
	AlbumName string `json:"album_name,omitempty"`

	// DurationMS is the track length in milliseconds.
	DurationMS int `json:"duration_ms,omitempty"`
}

// Playlist is a single playlist record from a slice file.
//
// PID is a pointer so that a missing "pid" key can be told apart from pid 0.
type Playlist struct {
	PID *int `json:"pid"`

	Name          string `json:"name,omitempty"`
	Collaborative string `json:"collaborative,omitempty"`
	ModifiedAt    int64  `json:"modified_at,omitempty"`
	NumTracks     int    `json:"num_tracks,omitempty"`
	NumSamples    int    `json:"num_samples,omitempty"`
	NumHoldouts   int    `json:"num_holdouts,omitempty"`
	NumFollowers  int    `json:"num_followers,omitempty"`

	// Tracks may be absent, notably for held-out test playlists whose seeds
	// were all withheld.
	Tracks []Track `json:"tracks"`
}

// ID returns the playlist id and whether it was present in the record.
func (p *Playlist) ID() (int, bool) {
	if p.PID == nil {
		return -1, false
	}
	return *p.PID, true
}

// SliceInfo is the "info" header of a slice file.
type SliceInfo struct {
	Generated string `json:"generated_on,omitempty"`
	Slice     string `json:"slice,omitempty"`
	Version   string `json:"version,omitempty"`
}

// Slice is the top-level document of a dataset JSON file.
type Slice struct {
	Info      SliceInfo  `json:"info"`
	Playlists []Playlist `json:"playlists"`
}
