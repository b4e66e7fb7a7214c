// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package recommend

import "fmt"

// Shape is the declared size of a SparseMatrix.
type Shape struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// SparseMatrix is a playlist x track count matrix stored as coordinate
// triples. It is built once and only supports column aggregation.
type SparseMatrix struct {
	shape  Shape
	rows   []int
	cols   []int
	values []int
}

// NewSparseMatrix wraps triples into a matrix. All three slices must have the
// same length and every (row, col) must fall inside shape. The slices are
// owned by the matrix afterwards.
func NewSparseMatrix(rows, cols, values []int, shape Shape) (*SparseMatrix, error) {
	if shape.Rows < 0 || shape.Cols < 0 {
		return nil, &InvalidShapeError{Rows: shape.Rows, Cols: shape.Cols, Reason: "negative dimension"}
	}
	if len(rows) != len(cols) || len(rows) != len(values) {
		return nil, &InvalidShapeError{
			Rows:   shape.Rows,
			Cols:   shape.Cols,
			Reason: fmt.Sprintf("triple length mismatch: %d rows, %d cols, %d values", len(rows), len(cols), len(values)),
		}
	}

	for i := range rows {
		if rows[i] < 0 || rows[i] >= shape.Rows || cols[i] < 0 || cols[i] >= shape.Cols {
			return nil, &InvalidShapeError{
				Rows:   shape.Rows,
				Cols:   shape.Cols,
				Reason: fmt.Sprintf("triple %d at (%d, %d) is out of bounds", i, rows[i], cols[i]),
			}
		}
		if values[i] < 0 {
			return nil, &InvalidShapeError{
				Rows:   shape.Rows,
				Cols:   shape.Cols,
				Reason: fmt.Sprintf("triple %d has negative value %d", i, values[i]),
			}
		}
	}

	return &SparseMatrix{shape: shape, rows: rows, cols: cols, values: values}, nil
}

// Shape returns the matrix dimensions.
func (m *SparseMatrix) Shape() Shape {
	return m.shape
}

// NNZ returns the number of stored triples.
func (m *SparseMatrix) NNZ() int {
	return len(m.values)
}

// ColumnSums returns one total per column, i.e. per track.
// An empty matrix yields an empty (or all-zero) slice.
func (m *SparseMatrix) ColumnSums() []int {
	sums := make([]int, m.shape.Cols)
	for i, c := range m.cols {
		sums[c] += m.values[i]
	}
	return sums
}

// Triples returns the underlying coordinate slices. Callers must not modify them.
func (m *SparseMatrix) Triples() (rows, cols, values []int) {
	return m.rows, m.cols, m.values
}
