// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package storage

import (
	"fmt"

	"github.com/tomtom215/playlistpop/internal/recommend"
)

// IncidenceArtifact is the serializable form of an ingested playlist x track
// matrix together with its track vocabulary.
type IncidenceArtifact struct {
	Shape recommend.Shape

	// Coordinate triples.
	Rows   []int
	Cols   []int
	Values []int

	// Tracks holds the track URIs in column order.
	Tracks []string

	// Policies the matrix was built with.
	Duplicates recommend.DuplicatePolicy
	RowMapping recommend.RowMapping
}

// NewIncidenceArtifact captures a built matrix and its vocabulary.
func NewIncidenceArtifact(m *recommend.SparseMatrix, v *recommend.Vocabulary[string], cfg recommend.BuilderConfig) (*IncidenceArtifact, error) {
	if m.Shape().Cols != v.Len() {
		return nil, &recommend.ShapeMismatchError{MatrixCols: m.Shape().Cols, VocabularySize: v.Len()}
	}

	rows, cols, values := m.Triples()
	return &IncidenceArtifact{
		Shape:      m.Shape(),
		Rows:       rows,
		Cols:       cols,
		Values:     values,
		Tracks:     v.IDs(),
		Duplicates: cfg.Duplicates,
		RowMapping: cfg.Rows,
	}, nil
}

// Matrix rebuilds the matrix and vocabulary, re-validating the shape.
func (a *IncidenceArtifact) Matrix() (*recommend.SparseMatrix, *recommend.Vocabulary[string], error) {
	vocab, err := recommend.NewVocabulary(a.Tracks)
	if err != nil {
		return nil, nil, fmt.Errorf("rebuild vocabulary: %w", err)
	}

	m, err := recommend.NewSparseMatrix(a.Rows, a.Cols, a.Values, a.Shape)
	if err != nil {
		return nil, nil, fmt.Errorf("rebuild matrix: %w", err)
	}
	if m.Shape().Cols != vocab.Len() {
		return nil, nil, &recommend.ShapeMismatchError{MatrixCols: m.Shape().Cols, VocabularySize: vocab.Len()}
	}

	return m, vocab, nil
}
