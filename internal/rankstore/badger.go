// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package rankstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/playlistpop/internal/logging"
	"github.com/tomtom215/playlistpop/internal/recommend"
)

const (
	// headKey holds the generation and entry count of the current ranking.
	headKey = "rank:head"

	// generationPrefix starts every entry key:
	// "rank:g" + zero-padded generation + ":" + zero-padded position, so
	// badger's lexical key order within a generation equals ranking order.
	generationPrefix = "rank:g"
)

// head points Load at the generation written by the last successful Save.
type head struct {
	Generation int `json:"generation"`
	Count      int `json:"count"`
}

// BadgerStore keeps the ranking in BadgerDB with one key per position.
//
// Each Save writes a new generation and then switches the head key to it in
// a single transaction, so a failed or canceled Save leaves the previous
// ranking readable.
type BadgerStore struct {
	db     *badger.DB
	ownsDB bool
}

// OpenBadgerStore opens (or creates) a BadgerDB directory at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = logging.NewBadgerLogger(zerolog.WarnLevel)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for ranking: %w", err)
	}
	return &BadgerStore{db: db, ownsDB: true}, nil
}

// NewBadgerStore wraps an already open database. Close leaves it open.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func generationKeyPrefix(gen int) []byte {
	return []byte(fmt.Sprintf("%s%08d:", generationPrefix, gen))
}

func entryKey(gen, pos int) []byte {
	return []byte(fmt.Sprintf("%s%08d:%012d", generationPrefix, gen, pos))
}

// readHead returns the current head, or ErrEmpty when nothing is stored.
func readHead(txn *badger.Txn) (head, error) {
	var h head
	item, err := txn.Get([]byte(headKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return h, ErrEmpty
	}
	if err != nil {
		return h, err
	}
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &h)
	}); err != nil {
		return h, fmt.Errorf("decode head: %w", err)
	}
	if h.Generation < 1 || h.Count < 0 {
		return h, fmt.Errorf("invalid head: generation %d, count %d", h.Generation, h.Count)
	}
	return h, nil
}

// Save replaces the stored ranking.
func (s *BadgerStore) Save(ctx context.Context, ranking recommend.Ranking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var prev head
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		prev, err = readHead(txn)
		return err
	})
	if err != nil && !errors.Is(err, ErrEmpty) {
		return fmt.Errorf("read ranking head: %w", err)
	}

	next := head{Generation: prev.Generation + 1, Count: ranking.Len()}
	prefix := generationKeyPrefix(next.Generation)

	// Leftovers of an earlier failed Save may occupy this generation.
	if err := s.db.DropPrefix(prefix); err != nil {
		return fmt.Errorf("clear generation %d: %w", next.Generation, err)
	}

	if err := s.writeGeneration(ctx, next.Generation, ranking); err != nil {
		s.discard(prefix)
		return err
	}

	data, err := json.Marshal(next)
	if err != nil {
		s.discard(prefix)
		return fmt.Errorf("marshal head: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(headKey), data)
	}); err != nil {
		s.discard(prefix)
		return fmt.Errorf("publish ranking: %w", err)
	}

	if prev.Generation > 0 {
		s.discard(generationKeyPrefix(prev.Generation))
	}
	return nil
}

func (s *BadgerStore) writeGeneration(ctx context.Context, gen int, ranking recommend.Ranking) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for pos, entry := range ranking.Entries() {
		if pos%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry %d: %w", pos, err)
		}
		if err := wb.Set(entryKey(gen, pos), data); err != nil {
			return fmt.Errorf("write entry %d: %w", pos, err)
		}
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush ranking: %w", err)
	}
	return nil
}

// discard drops an unreferenced generation. Failure only leaves garbage keys.
func (s *BadgerStore) discard(prefix []byte) {
	if err := s.db.DropPrefix(prefix); err != nil {
		logging.Warn().Err(err).Str("prefix", string(prefix)).Msg("Failed to drop ranking generation")
	}
}

// Load reads the ranking back in stored order.
func (s *BadgerStore) Load(ctx context.Context) (recommend.Ranking, error) {
	var entries []recommend.PopularityEntry
	var h head

	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		h, err = readHead(txn)
		if err != nil {
			return err
		}
		entries = make([]recommend.PopularityEntry, 0, h.Count)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = generationKeyPrefix(h.Generation)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if len(entries)%10000 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			var entry recommend.PopularityEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return fmt.Errorf("decode entry %s: %w", it.Item().Key(), err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return recommend.Ranking{}, fmt.Errorf("load ranking: %w", err)
	}
	if len(entries) != h.Count {
		return recommend.Ranking{}, fmt.Errorf("load ranking: found %d entries, expected %d", len(entries), h.Count)
	}
	return recommend.NewRanking(entries), nil
}

// Close closes the database if this store opened it.
func (s *BadgerStore) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
