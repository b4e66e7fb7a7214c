// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package playlistimport

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/playlistpop/internal/models"
	"github.com/tomtom215/playlistpop/internal/recommend"
)

const testInput = `{"info":{"slice":"challenge"},"playlists":[
	{"pid":1000,"name":"seeded","num_samples":2,"tracks":[{"track_uri":"A"},{"track_uri":"B"},{"track_uri":"A"}]},
	{"pid":1001,"name":"title only","num_samples":0},
	{"pid":1002,"tracks":[]}
]}`

func intPtr(v int) *int { return &v }

func TestToSeedSet(t *testing.T) {
	tests := []struct {
		name      string
		rec       models.Playlist
		wantPID   int
		wantSeeds int
		wantField string
	}{
		{
			name:      "tracks collapse repeats",
			rec:       models.Playlist{PID: intPtr(5), Tracks: []models.Track{{TrackURI: "A"}, {TrackURI: "A"}, {TrackURI: "B"}}},
			wantPID:   5,
			wantSeeds: 2,
		},
		{
			name:      "no tracks key",
			rec:       models.Playlist{PID: intPtr(0)},
			wantPID:   0,
			wantSeeds: 0,
		},
		{
			name:      "missing pid",
			rec:       models.Playlist{Tracks: []models.Track{{TrackURI: "A"}}},
			wantField: "pid",
		},
		{
			name:      "empty track uri",
			rec:       models.Playlist{PID: intPtr(7), Tracks: []models.Track{{TrackURI: "A"}, {}}},
			wantField: "tracks[1].track_uri",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed, err := ToSeedSet(&tt.rec, "test_input_playlists.json", 3)
			if tt.wantField != "" {
				var mre *recommend.MalformedRecordError
				if !errors.As(err, &mre) {
					t.Fatalf("ToSeedSet() error = %v, want MalformedRecordError", err)
				}
				if mre.Field != tt.wantField || mre.Index != 3 {
					t.Errorf("error = %+v, want field %s at index 3", mre, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToSeedSet() error = %v", err)
			}
			if seed.PlaylistID != tt.wantPID {
				t.Errorf("PlaylistID = %d, want %d", seed.PlaylistID, tt.wantPID)
			}
			if len(seed.Tracks) != tt.wantSeeds {
				t.Errorf("len(Tracks) = %d, want %d", len(seed.Tracks), tt.wantSeeds)
			}
		})
	}
}

func TestReadSeeds(t *testing.T) {
	archive := newTestArchive(t, member{"test_input_playlists.json", testInput})

	seeds, err := ReadSeeds(context.Background(), archive, "test_input_playlists.json")
	if err != nil {
		t.Fatalf("ReadSeeds() error = %v", err)
	}
	if len(seeds) != 3 {
		t.Fatalf("got %d seed sets, want 3", len(seeds))
	}
	if seeds[0].PlaylistID != 1000 || !seeds[0].Contains("A") || !seeds[0].Contains("B") {
		t.Errorf("seeds[0] = %+v", seeds[0])
	}
	for _, s := range seeds[1:] {
		if len(s.Tracks) != 0 {
			t.Errorf("playlist %d should have no seeds, got %v", s.PlaylistID, s.Tracks)
		}
	}

	index := SeedIndex(seeds)
	if len(index) != 3 {
		t.Errorf("SeedIndex() has %d entries, want 3", len(index))
	}
	if _, ok := index[1000]["B"]; !ok {
		t.Error("SeedIndex()[1000] should contain B")
	}
}

func TestReadSeedsFile(t *testing.T) {
	path := writeTestArchive(t, member{"challenge/test_input_playlists.json", testInput})

	seeds, err := ReadSeedsFile(context.Background(), path, "test_input_playlists.json")
	if err != nil {
		t.Fatalf("ReadSeedsFile() error = %v", err)
	}
	if len(seeds) != 3 {
		t.Errorf("got %d seed sets, want 3", len(seeds))
	}

	if _, err := ReadSeedsFile(context.Background(), path, "other.json"); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("ReadSeedsFile() error = %v, want ErrMemberNotFound", err)
	}
}
