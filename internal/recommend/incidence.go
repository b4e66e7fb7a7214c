// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package recommend

import (
	"fmt"

	"github.com/tomtom215/playlistpop/internal/models"
)

// DuplicatePolicy controls how a track repeated within one playlist is counted.
type DuplicatePolicy string

const (
	// DuplicatePresence emits one occurrence per (playlist, track) pair, so
	// column sums count playlists containing the track.
	DuplicatePresence DuplicatePolicy = "presence"

	// DuplicateCount emits every occurrence, so column sums count total
	// appearances.
	DuplicateCount DuplicatePolicy = "count"
)

// RowMapping controls how playlist ids become matrix rows.
type RowMapping string

const (
	// RowsDense uses the pid as the row index; Rows = max pid + 1.
	RowsDense RowMapping = "dense"

	// RowsRemap interns pids in first-seen order; Rows = distinct playlists.
	RowsRemap RowMapping = "remap"
)

// BuilderConfig configures an IncidenceBuilder.
type BuilderConfig struct {
	Duplicates DuplicatePolicy
	Rows       RowMapping

	// TrackHint and PlaylistHint preallocate interner storage.
	TrackHint    int
	PlaylistHint int
}

// BuilderStats summarizes what a builder consumed.
type BuilderStats struct {
	Playlists       int
	EmptyPlaylists  int
	Occurrences     int
	DuplicateTracks int
}

// IncidenceBuilder turns playlist records into playlist x track triples.
//
// It is driven by a single ingestion pass. The track interner it owns is
// safe for concurrent use, but Add itself is not: records must be fed in
// order so that column assignment stays reproducible.
type IncidenceBuilder struct {
	cfg BuilderConfig

	tracks    *Interner[string]
	playlists *Interner[int] // RowsRemap only
	seenPIDs  map[int]struct{}

	rows   []int
	cols   []int
	values []int
	maxRow int

	seen  map[int]struct{} // per-playlist scratch set
	stats BuilderStats
	built bool
}

// NewIncidenceBuilder creates a builder. Zero-value policies default to
// DuplicatePresence and RowsDense.
func NewIncidenceBuilder(cfg BuilderConfig) *IncidenceBuilder {
	if cfg.Duplicates == "" {
		cfg.Duplicates = DuplicatePresence
	}
	if cfg.Rows == "" {
		cfg.Rows = RowsDense
	}

	b := &IncidenceBuilder{
		cfg:      cfg,
		tracks:   NewInterner[string](cfg.TrackHint),
		seenPIDs: make(map[int]struct{}, cfg.PlaylistHint),
		maxRow:   -1,
		seen:     make(map[int]struct{}),
	}
	if cfg.Rows == RowsRemap {
		b.playlists = NewInterner[int](cfg.PlaylistHint)
	}
	return b
}

// Add consumes one playlist record. index is the record's position in the
// ingestion pass and source the archive member it came from; both are used
// only for error reporting.
func (b *IncidenceBuilder) Add(rec *models.Playlist, source string, index int) error {
	if b.built {
		return ErrBuilderSealed
	}

	pid, ok := rec.ID()
	if !ok {
		return &MalformedRecordError{Source: source, Index: index, Field: "pid", Reason: "is missing"}
	}
	if _, dup := b.seenPIDs[pid]; dup {
		return &MalformedRecordError{Source: source, Index: index, PlaylistID: pid, HasPID: true, Field: "pid", Reason: "appears more than once"}
	}

	row, err := b.rowFor(pid)
	if err != nil {
		return err
	}
	b.seenPIDs[pid] = struct{}{}

	b.stats.Playlists++
	if len(rec.Tracks) == 0 {
		b.stats.EmptyPlaylists++
		return nil
	}

	clear(b.seen)
	for i := range rec.Tracks {
		uri := rec.Tracks[i].TrackURI
		if uri == "" {
			return &MalformedRecordError{
				Source:     source,
				Index:      index,
				PlaylistID: pid,
				HasPID:     true,
				Field:      fmt.Sprintf("tracks[%d].track_uri", i),
				Reason:     "is missing",
			}
		}

		col, err := b.tracks.Intern(uri)
		if err != nil {
			return fmt.Errorf("intern track %q: %w", uri, err)
		}

		if b.cfg.Duplicates == DuplicatePresence {
			if _, dup := b.seen[col]; dup {
				b.stats.DuplicateTracks++
				continue
			}
			b.seen[col] = struct{}{}
		}

		b.rows = append(b.rows, row)
		b.cols = append(b.cols, col)
		b.values = append(b.values, 1)
		b.stats.Occurrences++
	}

	return nil
}

// rowFor maps a pid to its matrix row under the configured row mapping.
func (b *IncidenceBuilder) rowFor(pid int) (int, error) {
	switch b.cfg.Rows {
	case RowsRemap:
		row, err := b.playlists.Intern(pid)
		if err != nil {
			return 0, fmt.Errorf("intern playlist %d: %w", pid, err)
		}
		if row > b.maxRow {
			b.maxRow = row
		}
		return row, nil
	default:
		if pid < 0 {
			return 0, &InvalidShapeError{
				Rows:   b.maxRow + 1,
				Cols:   b.tracks.Len(),
				Reason: fmt.Sprintf("negative playlist id %d cannot be a dense row index", pid),
			}
		}
		if pid > b.maxRow {
			b.maxRow = pid
		}
		return pid, nil
	}
}

// Stats returns counters for the records consumed so far.
func (b *IncidenceBuilder) Stats() BuilderStats {
	return b.stats
}

// Build seals the interners, fixes the shape and returns the matrix together
// with the track vocabulary. The builder cannot be used afterwards.
func (b *IncidenceBuilder) Build() (*SparseMatrix, *Vocabulary[string], error) {
	if b.built {
		return nil, nil, ErrBuilderSealed
	}
	b.built = true

	vocab := b.tracks.Seal()
	if b.playlists != nil {
		b.playlists.Seal()
	}

	shape := Shape{Rows: b.maxRow + 1, Cols: vocab.Len()}
	if b.playlists != nil && shape.Rows != b.playlists.Len() {
		return nil, nil, &InvalidShapeError{
			Rows:   shape.Rows,
			Cols:   shape.Cols,
			Reason: fmt.Sprintf("remapped row count does not match %d distinct playlists", b.playlists.Len()),
		}
	}

	m, err := NewSparseMatrix(b.rows, b.cols, b.values, shape)
	if err != nil {
		return nil, nil, err
	}
	if m.Shape().Cols != vocab.Len() {
		return nil, nil, &InvalidShapeError{
			Rows:   shape.Rows,
			Cols:   shape.Cols,
			Reason: fmt.Sprintf("column count does not match %d interned tracks", vocab.Len()),
		}
	}

	b.rows, b.cols, b.values = nil, nil, nil
	return m, vocab, nil
}
