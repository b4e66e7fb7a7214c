// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestSliceDecode(t *testing.T) {
	data := []byte(`{
		"info": {"generated_on": "2017-12-03 08:41:42.057563", "slice": "0-999", "version": "v1"},
		"playlists": [
			{"pid": 0, "name": "Throwbacks", "collaborative": "false", "num_tracks": 2, "num_followers": 1,
			 "tracks": [
				{"pos": 0, "track_uri": "spotify:track:a", "artist_name": "X", "duration_ms": 1000},
				{"pos": 1, "track_uri": "spotify:track:b"}
			 ]},
			{"pid": 1000002, "num_samples": 0, "num_holdouts": 10}
		]
	}`)

	var slice Slice
	if err := json.Unmarshal(data, &slice); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if slice.Info.Slice != "0-999" {
		t.Errorf("Info.Slice = %q", slice.Info.Slice)
	}
	if len(slice.Playlists) != 2 {
		t.Fatalf("len(Playlists) = %d, want 2", len(slice.Playlists))
	}

	first := slice.Playlists[0]
	if pid, ok := first.ID(); !ok || pid != 0 {
		t.Errorf("ID() = %d, %v, want 0, true", pid, ok)
	}
	if len(first.Tracks) != 2 || first.Tracks[1].TrackURI != "spotify:track:b" {
		t.Errorf("Tracks = %+v", first.Tracks)
	}

	second := slice.Playlists[1]
	if pid, ok := second.ID(); !ok || pid != 1000002 {
		t.Errorf("ID() = %d, %v, want 1000002, true", pid, ok)
	}
	if second.Tracks != nil {
		t.Errorf("Tracks = %v, want nil for a playlist without tracks", second.Tracks)
	}
	if second.NumHoldouts != 10 {
		t.Errorf("NumHoldouts = %d, want 10", second.NumHoldouts)
	}
}

func TestPlaylistID(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		wantID int
		wantOK bool
	}{
		{"present", `{"pid": 42}`, 42, true},
		{"zero", `{"pid": 0}`, 0, true},
		{"missing", `{"name": "no pid"}`, -1, false},
		{"null", `{"pid": null}`, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Playlist
			if err := json.Unmarshal([]byte(tt.data), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			id, ok := p.ID()
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("ID() = %d, %v, want %d, %v", id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}
