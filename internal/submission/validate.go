// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package submission

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// IssueKind classifies a submission validation issue.
type IssueKind string

const (
	// WrongLength: a list does not hold exactly k tracks.
	WrongLength IssueKind = "wrong_length"

	// DuplicateTrack: a track appears twice in one list.
	DuplicateTrack IssueKind = "duplicate_track"

	// SeedOverlap: a recommended track is already in the playlist.
	SeedOverlap IssueKind = "seed_overlap"

	// MissingPlaylist: a query playlist has no recommendations.
	MissingPlaylist IssueKind = "missing_playlist"

	// UnknownPlaylist: recommendations exist for a pid that is not a query playlist.
	UnknownPlaylist IssueKind = "unknown_playlist"
)

// Issue is one problem found in one playlist.
type Issue struct {
	PlaylistID int
	Kind       IssueKind
	Detail     string
}

func (i Issue) String() string {
	return fmt.Sprintf("playlist %d: %s (%s)", i.PlaylistID, i.Kind, i.Detail)
}

// ValidationWarning lists every problem found in a submission. It is an
// error so that strict callers can return it directly.
type ValidationWarning struct {
	Issues []Issue
}

// maxListedIssues caps how many issues Error spells out.
const maxListedIssues = 5

func (w *ValidationWarning) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "submission has %d validation issue(s)", len(w.Issues))
	for i, issue := range w.Issues {
		if i == maxListedIssues {
			fmt.Fprintf(&b, "; and %d more", len(w.Issues)-maxListedIssues)
			break
		}
		b.WriteString("; ")
		b.WriteString(issue.String())
	}
	return b.String()
}

// Counts returns the number of issues per kind.
func (w *ValidationWarning) Counts() map[string]int {
	counts := make(map[string]int)
	for _, issue := range w.Issues {
		counts[string(issue.Kind)]++
	}
	return counts
}

// Validate checks recs against the submission rules: exactly k tracks per
// playlist, no repeats, no seed tracks, and one list per query playlist. It
// reports problems and never changes recs. Issues are ordered by pid.
//
// A nil seeds map skips the seed and coverage checks.
func Validate(recs map[int][]string, seeds map[int]map[string]struct{}, k int) *ValidationWarning {
	var issues []Issue

	for _, pid := range sortedPIDs(recs) {
		tracks := recs[pid]
		if len(tracks) != k {
			issues = append(issues, Issue{pid, WrongLength, fmt.Sprintf("%d tracks, want %d", len(tracks), k)})
		}

		seen := make(map[string]struct{}, len(tracks))
		var seedSet map[string]struct{}
		if seeds != nil {
			var known bool
			if seedSet, known = seeds[pid]; !known {
				issues = append(issues, Issue{pid, UnknownPlaylist, "not in the query set"})
			}
		}
		for _, uri := range tracks {
			if _, dup := seen[uri]; dup {
				issues = append(issues, Issue{pid, DuplicateTrack, uri})
			}
			seen[uri] = struct{}{}
			if _, overlap := seedSet[uri]; overlap {
				issues = append(issues, Issue{pid, SeedOverlap, uri})
			}
		}
	}

	if seeds != nil {
		missing := make(map[int][]string)
		for pid := range seeds {
			if _, ok := recs[pid]; !ok {
				missing[pid] = nil
			}
		}
		for _, pid := range sortedPIDs(missing) {
			issues = append(issues, Issue{pid, MissingPlaylist, "no recommendations"})
		}
	}

	if len(issues) == 0 {
		return nil
	}
	slices.SortStableFunc(issues, func(a, b Issue) int {
		return cmp.Compare(a.PlaylistID, b.PlaylistID)
	})
	return &ValidationWarning{Issues: issues}
}
