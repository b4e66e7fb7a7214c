// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package playlistimport

import (
	"context"
	"fmt"

	"github.com/tomtom215/playlistpop/internal/logging"
	"github.com/tomtom215/playlistpop/internal/models"
	"github.com/tomtom215/playlistpop/internal/recommend"
)

// ToSeedSet converts a query playlist into its seed set. A playlist without
// tracks yields an empty set; a missing pid or an empty track_uri is
// malformed.
func ToSeedSet(rec *models.Playlist, source string, index int) (recommend.PlaylistSeedSet, error) {
	pid, ok := rec.ID()
	if !ok {
		return recommend.PlaylistSeedSet{}, &recommend.MalformedRecordError{
			Source: source,
			Index:  index,
			Field:  "pid",
			Reason: "is missing",
		}
	}

	uris := make([]string, 0, len(rec.Tracks))
	for t := range rec.Tracks {
		if rec.Tracks[t].TrackURI == "" {
			return recommend.PlaylistSeedSet{}, &recommend.MalformedRecordError{
				Source:     source,
				Index:      index,
				PlaylistID: pid,
				HasPID:     true,
				Field:      fmt.Sprintf("tracks[%d].track_uri", t),
				Reason:     "is missing",
			}
		}
		uris = append(uris, rec.Tracks[t].TrackURI)
	}
	return recommend.NewPlaylistSeedSet(pid, uris...), nil
}

// ReadSeeds extracts the seed sets of every query playlist in member, in file
// order.
func ReadSeeds(ctx context.Context, archive *Archive, member string) ([]recommend.PlaylistSeedSet, error) {
	slice, err := archive.ReadSlice(member)
	if err != nil {
		return nil, err
	}

	seeds := make([]recommend.PlaylistSeedSet, 0, len(slice.Playlists))
	empty := 0
	for p := range slice.Playlists {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seed, err := ToSeedSet(&slice.Playlists[p], member, p)
		if err != nil {
			return nil, err
		}
		if len(seed.Tracks) == 0 {
			empty++
		}
		seeds = append(seeds, seed)
	}

	logging.CtxInfo(ctx).
		Str("archive", archive.Name()).
		Str("member", member).
		Int("playlists", len(seeds)).
		Int("without_seeds", empty).
		Msg("Query playlists loaded")

	return seeds, nil
}

// ReadSeedsFile opens the archive at path and reads seeds from member.
func ReadSeedsFile(ctx context.Context, path, member string) ([]recommend.PlaylistSeedSet, error) {
	archive, err := OpenArchive(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := archive.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Str("archive", path).Msg("Error closing archive")
		}
	}()
	return ReadSeeds(ctx, archive, member)
}

// SeedIndex maps each pid to its seed tracks, the form submission
// validation consumes.
func SeedIndex(seeds []recommend.PlaylistSeedSet) map[int]map[string]struct{} {
	index := make(map[int]map[string]struct{}, len(seeds))
	for _, s := range seeds {
		index[s.PlaylistID] = s.Tracks
	}
	return index
}
