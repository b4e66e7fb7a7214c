// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when the requested recommendation count is not positive.
	ErrInvalidK = errors.New("recommendation count must be positive")

	// ErrInternerSealed is returned when Intern is called after Seal.
	ErrInternerSealed = errors.New("interner is sealed")

	// ErrBuilderSealed is returned when records are added after Build.
	ErrBuilderSealed = errors.New("incidence builder already built")
)

// MalformedRecordError reports an input record missing required structure.
// Ingestion aborts on the first one; a partial matrix is not usable.
type MalformedRecordError struct {
	// Source is the archive member the record came from (may be empty).
	Source string

	// Index is the position of the record within the ingestion pass.
	Index int

	// PlaylistID is the pid of the record. It is only meaningful when
	// HasPID is set; remapped pids may be any int, -1 included.
	PlaylistID int
	HasPID     bool

	// Field names the missing or invalid field.
	Field string

	// Reason is an optional detail message.
	Reason string
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("malformed record %d", e.Index)
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.HasPID {
		msg += fmt.Sprintf(" (pid %d)", e.PlaylistID)
	}
	msg += ": " + e.Field
	if e.Reason != "" {
		msg += " " + e.Reason
	}
	return msg
}

// InvalidShapeError reports matrix dimensions inconsistent with the interned data.
type InvalidShapeError struct {
	Rows   int
	Cols   int
	Reason string
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("invalid matrix shape (%d x %d): %s", e.Rows, e.Cols, e.Reason)
}

// ShapeMismatchError reports a matrix and vocabulary whose sizes disagree.
type ShapeMismatchError struct {
	MatrixCols     int
	VocabularySize int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("matrix has %d columns but vocabulary has %d tracks", e.MatrixCols, e.VocabularySize)
}

// InsufficientCandidatesError reports a ranking exhausted before k non-seed
// tracks were collected for a playlist.
type InsufficientCandidatesError struct {
	PlaylistID int
	Want       int
	Got        int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("playlist %d: only %d of %d recommendations available after removing seeds",
		e.PlaylistID, e.Got, e.Want)
}
