// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package rankstore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"github.com/tomtom215/playlistpop/internal/recommend"
)

// FileStore keeps the ranking as a flat JSON object mapping track URI to count.
//
// The document carries no order, so Load re-derives it with
// recommend.RankingFromCounts (count descending, then URI ascending).
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) compressed() bool {
	return strings.HasSuffix(s.path, ".gz")
}

// Save writes the ranking atomically via a temporary file in the same directory.
func (s *FileStore) Save(ctx context.Context, ranking recommend.Ranking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for ranking output
			return fmt.Errorf("create ranking directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".ranking-*")
	if err != nil {
		return fmt.Errorf("create ranking file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }() //nolint:errcheck // no-op after successful rename

	if err := s.encode(tmp, ranking); err != nil {
		_ = tmp.Close() //nolint:errcheck // encode error already being returned
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close ranking file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("publish ranking file: %w", err)
	}
	return nil
}

func (s *FileStore) encode(f *os.File, ranking recommend.Ranking) error {
	bw := bufio.NewWriter(f)

	var w io.Writer = bw
	var gzw *gzip.Writer
	if s.compressed() {
		gzw = gzip.NewWriter(bw)
		w = gzw
	}

	if err := json.NewEncoder(w).Encode(ranking.Counts()); err != nil {
		return fmt.Errorf("encode ranking: %w", err)
	}
	if gzw != nil {
		if err := gzw.Close(); err != nil {
			return fmt.Errorf("finalize compression: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush ranking: %w", err)
	}
	return nil
}

// Load reads the document and re-derives ranking order.
func (s *FileStore) Load(ctx context.Context) (recommend.Ranking, error) {
	if err := ctx.Err(); err != nil {
		return recommend.Ranking{}, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return recommend.Ranking{}, fmt.Errorf("%w: %s", ErrEmpty, s.path)
		}
		return recommend.Ranking{}, fmt.Errorf("open ranking file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var r io.Reader = bufio.NewReader(f)
	if s.compressed() {
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return recommend.Ranking{}, fmt.Errorf("decompress ranking: %w", err)
		}
		defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable
		r = gzr
	}

	var counts map[string]int
	if err := json.NewDecoder(r).Decode(&counts); err != nil {
		return recommend.Ranking{}, fmt.Errorf("decode ranking %s: %w", s.path, err)
	}
	for uri, count := range counts {
		if count < 0 {
			return recommend.Ranking{}, fmt.Errorf("decode ranking %s: negative count %d for %q", s.path, count, uri)
		}
	}

	return recommend.RankingFromCounts(counts), nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}
