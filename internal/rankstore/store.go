// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package rankstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/playlistpop/internal/recommend"
)

// Backend selects where the popularity ranking is persisted.
type Backend string

const (
	// BackendFile writes a flat {track_uri: count} JSON document,
	// gzip-compressed when the path ends in ".gz".
	BackendFile Backend = "file"

	// BackendBadger writes one key per rank position to a BadgerDB directory.
	// The exact in-memory order, tie-breaks included, survives a reload.
	BackendBadger Backend = "badger"
)

// ErrEmpty is returned by Load when nothing has been saved yet.
var ErrEmpty = errors.New("no ranking stored")

// Store persists a popularity ranking between pipeline stages.
type Store interface {
	// Save replaces any previously stored ranking.
	Save(ctx context.Context, ranking recommend.Ranking) error

	// Load returns the stored ranking in ranking order.
	Load(ctx context.Context) (recommend.Ranking, error)

	// Close releases the backend.
	Close() error
}

// Open returns the store for backend at path.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(path), nil
	case BackendBadger:
		store, err := OpenBadgerStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown ranking store backend %q", backend)
	}
}
