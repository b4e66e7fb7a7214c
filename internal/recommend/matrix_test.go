// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package recommend

import (
	"errors"
	"slices"
	"testing"
)

func TestNewSparseMatrix(t *testing.T) {
	tests := []struct {
		name    string
		rows    []int
		cols    []int
		values  []int
		shape   Shape
		wantErr bool
	}{
		{"valid", []int{0, 1}, []int{1, 0}, []int{1, 1}, Shape{2, 2}, false},
		{"empty", nil, nil, nil, Shape{0, 0}, false},
		{"rows without columns", nil, nil, nil, Shape{5, 0}, false},
		{"length mismatch", []int{0}, []int{0, 1}, []int{1, 1}, Shape{2, 2}, true},
		{"row out of bounds", []int{2}, []int{0}, []int{1}, Shape{2, 2}, true},
		{"column out of bounds", []int{0}, []int{2}, []int{1}, Shape{2, 2}, true},
		{"negative value", []int{0}, []int{0}, []int{-1}, Shape{1, 1}, true},
		{"negative shape", nil, nil, nil, Shape{-1, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSparseMatrix(tt.rows, tt.cols, tt.values, tt.shape)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSparseMatrix() error = %v, wantErr %v", err, tt.wantErr)
			}
			var shapeErr *InvalidShapeError
			if tt.wantErr && !errors.As(err, &shapeErr) {
				t.Errorf("error = %T, want *InvalidShapeError", err)
			}
		})
	}
}

func TestSparseMatrix_ColumnSums(t *testing.T) {
	tests := []struct {
		name   string
		rows   []int
		cols   []int
		values []int
		shape  Shape
		want   []int
	}{
		{"two playlists", []int{0, 0, 1, 1}, []int{0, 1, 1, 2}, []int{1, 1, 1, 1}, Shape{2, 3}, []int{1, 2, 1}},
		{"accumulated values", []int{0, 0}, []int{0, 0}, []int{2, 3}, Shape{1, 1}, []int{5}},
		{"unused column", []int{0}, []int{0}, []int{1}, Shape{1, 2}, []int{1, 0}},
		{"zero columns", nil, nil, nil, Shape{3, 0}, []int{}},
		{"zero rows", nil, nil, nil, Shape{0, 2}, []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewSparseMatrix(tt.rows, tt.cols, tt.values, tt.shape)
			if err != nil {
				t.Fatalf("NewSparseMatrix() error = %v", err)
			}
			if got := m.ColumnSums(); !slices.Equal(got, tt.want) {
				t.Errorf("ColumnSums() = %v, want %v", got, tt.want)
			}
			if m.NNZ() != len(tt.values) {
				t.Errorf("NNZ() = %d, want %d", m.NNZ(), len(tt.values))
			}
		})
	}
}
