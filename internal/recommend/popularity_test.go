// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package recommend

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestRank_TwoPlaylists(t *testing.T) {
	m, v := buildMatrix(t, BuilderConfig{},
		playlist(0, "A", "B"),
		playlist(1, "B", "C"),
	)

	ranking, err := Rank(m, v)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	want := []PopularityEntry{{"B", 2}, {"A", 1}, {"C", 1}}
	if got := ranking.Entries(); !slices.Equal(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}

func TestRank_TieBreakByFirstSeen(t *testing.T) {
	// Z is interned before A, so it wins the tie despite sorting after A.
	m, v := buildMatrix(t, BuilderConfig{},
		playlist(0, "Z", "A", "M"),
		playlist(1, "M"),
	)

	for run := 0; run < 3; run++ {
		ranking, err := Rank(m, v)
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}
		want := []string{"M", "Z", "A"}
		if got := ranking.Tracks(); !slices.Equal(got, want) {
			t.Fatalf("run %d: Tracks() = %v, want %v", run, got, want)
		}
	}
}

func TestRank_SortedNonIncreasing(t *testing.T) {
	b := NewIncidenceBuilder(BuilderConfig{})
	for pid := 0; pid < 50; pid++ {
		var uris []string
		for tr := 0; tr <= pid%13; tr++ {
			uris = append(uris, fmt.Sprintf("t%d", (pid*7+tr)%31))
		}
		if err := b.Add(playlist(pid, uris...), "", pid); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	m, v, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	ranking, err := Rank(m, v)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	entries := ranking.Entries()
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.Count > prev.Count {
			t.Fatalf("entry %d count %d > previous %d", i, cur.Count, prev.Count)
		}
		if cur.Count == prev.Count {
			pc, _ := v.Lookup(prev.TrackURI)
			cc, _ := v.Lookup(cur.TrackURI)
			if cc < pc {
				t.Fatalf("tie at %d not in column order: %d before %d", i, pc, cc)
			}
		}
	}
}

func TestRank_ShapeMismatch(t *testing.T) {
	m, err := NewSparseMatrix([]int{0}, []int{0}, []int{1}, Shape{1, 2})
	if err != nil {
		t.Fatalf("NewSparseMatrix() error = %v", err)
	}
	v, _ := NewVocabulary([]string{"A"})

	_, err = Rank(m, v)
	var mismatch *ShapeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Rank() error = %v, want *ShapeMismatchError", err)
	}
	if mismatch.MatrixCols != 2 || mismatch.VocabularySize != 1 {
		t.Errorf("mismatch = %+v", mismatch)
	}
}

func TestRank_OmitsZeroColumns(t *testing.T) {
	m, err := NewSparseMatrix([]int{0}, []int{1}, []int{1}, Shape{1, 2})
	if err != nil {
		t.Fatalf("NewSparseMatrix() error = %v", err)
	}
	v, _ := NewVocabulary([]string{"unused", "used"})

	ranking, err := Rank(m, v)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if got := ranking.Tracks(); !slices.Equal(got, []string{"used"}) {
		t.Errorf("Tracks() = %v, want [used]", got)
	}
}

func TestRank_Empty(t *testing.T) {
	m, v := buildMatrix(t, BuilderConfig{})
	ranking, err := Rank(m, v)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if ranking.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ranking.Len())
	}
}

func TestRankingFromCounts(t *testing.T) {
	ranking := RankingFromCounts(map[string]int{
		"c":    3,
		"b":    5,
		"a":    3,
		"zero": 0,
	})

	want := []PopularityEntry{{"b", 5}, {"a", 3}, {"c", 3}}
	if got := ranking.Entries(); !slices.Equal(got, want) {
		t.Errorf("RankingFromCounts() = %v, want %v", got, want)
	}
}

func TestRanking_CountsRoundTrip(t *testing.T) {
	original := NewRanking([]PopularityEntry{{"x", 9}, {"y", 4}, {"z", 1}})
	restored := RankingFromCounts(original.Counts())
	if !slices.Equal(original.Entries(), restored.Entries()) {
		t.Errorf("restored = %v, want %v", restored.Entries(), original.Entries())
	}
}

func TestRanking_Top(t *testing.T) {
	ranking := NewRanking([]PopularityEntry{{"a", 3}, {"b", 2}, {"c", 1}})

	tests := []struct {
		n    int
		want int
	}{
		{-1, 0},
		{0, 0},
		{2, 2},
		{10, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			if got := len(ranking.Top(tt.n)); got != tt.want {
				t.Errorf("len(Top(%d)) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}
