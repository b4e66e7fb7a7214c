// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package recommend

import "sync"

// Interner assigns each distinct identifier a dense integer index in
// first-seen order. Indexes are never reassigned and nothing is removed.
//
// Intern is safe for concurrent use: assigning Len() as the next index is a
// read-modify-write and runs under the interner's mutex. Once the ingestion
// pass is complete, call Seal to obtain an immutable Vocabulary.
type Interner[K comparable] struct {
	mu     sync.Mutex
	index  map[K]int
	ids    []K
	sealed bool
}

// NewInterner creates an empty interner. sizeHint preallocates storage and
// may be zero.
func NewInterner[K comparable](sizeHint int) *Interner[K] {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Interner[K]{
		index: make(map[K]int, sizeHint),
		ids:   make([]K, 0, sizeHint),
	}
}

// Intern returns the index for id, assigning the next free index on first sight.
func (in *Interner[K]) Intern(id K) (int, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if idx, ok := in.index[id]; ok {
		return idx, nil
	}
	if in.sealed {
		return 0, ErrInternerSealed
	}

	idx := len(in.ids)
	in.index[id] = idx
	in.ids = append(in.ids, id)
	return idx, nil
}

// Len returns the number of distinct identifiers interned so far.
func (in *Interner[K]) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.ids)
}

// Resolve returns the identifier assigned to idx.
// The second result is false if idx was never assigned.
func (in *Interner[K]) Resolve(idx int) (K, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	var zero K
	if idx < 0 || idx >= len(in.ids) {
		return zero, false
	}
	return in.ids[idx], true
}

// Seal freezes the interner and returns a read-only view of its mapping.
// Lookups of already interned identifiers keep working; new identifiers
// are rejected with ErrInternerSealed. Seal may be called more than once.
func (in *Interner[K]) Seal() *Vocabulary[K] {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.sealed = true
	return &Vocabulary[K]{index: in.index, ids: in.ids}
}

// Vocabulary is the immutable mapping produced by Interner.Seal.
// It requires no locking and may be shared freely across goroutines.
type Vocabulary[K comparable] struct {
	index map[K]int
	ids   []K
}

// NewVocabulary rebuilds a vocabulary from identifiers in index order,
// e.g. when loading a persisted incidence artifact. Duplicate identifiers
// are rejected because they would break the bijection.
func NewVocabulary[K comparable](ids []K) (*Vocabulary[K], error) {
	in := NewInterner[K](len(ids))
	for i, id := range ids {
		idx, err := in.Intern(id)
		if err != nil {
			return nil, err
		}
		if idx != i {
			return nil, &InvalidShapeError{
				Rows:   0,
				Cols:   len(ids),
				Reason: "duplicate identifier in vocabulary",
			}
		}
	}
	return in.Seal(), nil
}

// Len returns the number of identifiers.
func (v *Vocabulary[K]) Len() int {
	return len(v.ids)
}

// Resolve returns the identifier for idx.
func (v *Vocabulary[K]) Resolve(idx int) (K, bool) {
	var zero K
	if idx < 0 || idx >= len(v.ids) {
		return zero, false
	}
	return v.ids[idx], true
}

// Lookup returns the index assigned to id.
func (v *Vocabulary[K]) Lookup(id K) (int, bool) {
	idx, ok := v.index[id]
	return idx, ok
}

// IDs returns a copy of the identifiers in index order.
func (v *Vocabulary[K]) IDs() []K {
	out := make([]K, len(v.ids))
	copy(out, v.ids)
	return out
}
