// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
)

// artifactExt names the gob envelope; the payload inside it is gzip-compressed.
const artifactExt = ".gob"

// ErrNotFound is returned by Load when no artifact exists for the name.
var ErrNotFound = errors.New("artifact not found")

// ChecksumError reports an artifact whose payload does not match its checksum.
type ChecksumError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch in %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Metadata describes a stored incidence artifact.
type Metadata struct {
	// Name is the artifact name, e.g. "incidence".
	Name string `json:"name"`

	// Version is assigned by Save and increases monotonically per name.
	Version int `json:"version"`

	// Source is the archive the matrix was ingested from.
	Source string `json:"source"`

	// CreatedAt is when ingestion finished.
	CreatedAt time.Time `json:"created_at"`

	// SavedAt is when the artifact was written.
	SavedAt time.Time `json:"saved_at"`

	Playlists   int `json:"playlists"`
	Tracks      int `json:"tracks"`
	Occurrences int `json:"occurrences"`

	// IngestDurationMS is how long ingestion took.
	IngestDurationMS int64 `json:"ingest_duration_ms"`

	// Checksum is the SHA-256 of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`
}

// storedFile is the on-disk envelope.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Store persists versioned incidence artifacts as {name}_v{version}.gob
// files in one directory. It is safe for concurrent use.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per artifact name
	versions map[string]int
}

// NewStore opens (and creates if needed) an artifact directory.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for artifact storage
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	found, err := s.scan()
	if err != nil {
		return nil, fmt.Errorf("scan existing artifacts: %w", err)
	}
	for name, versions := range found {
		s.versions[name] = slices.Max(versions)
	}

	return s, nil
}

// scan lists every artifact version on disk, grouped by name.
func (s *Store) scan() (map[string][]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	found := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, version, ok := parseArtifactFilename(entry.Name())
		if !ok {
			continue
		}
		found[name] = append(found[name], version)
	}
	return found, nil
}

// parseArtifactFilename splits "incidence_v3.gob" into ("incidence", 3).
func parseArtifactFilename(filename string) (name string, version int, ok bool) {
	base, found := strings.CutSuffix(filename, artifactExt)
	if !found {
		return "", 0, false
	}

	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0, false
	}

	version, err := strconv.Atoi(base[idx+2:])
	if err != nil || version < 1 {
		return "", 0, false
	}
	return base[:idx], version, true
}

// Save writes a new version of the named artifact and returns its metadata.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, art *IncidenceArtifact, meta Metadata) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(art); err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, fmt.Errorf("compress artifact: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meta.Name = name
	meta.Version = s.versions[name] + 1
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()

	// Write to a temp file first so a crash never leaves a truncated version.
	final := s.artifactPath(name, meta.Version)
	tmp, err := os.CreateTemp(s.baseDir, ".artifact-*")
	if err != nil {
		return nil, fmt.Errorf("create artifact file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }() //nolint:errcheck // no-op after successful rename

	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error already being returned
		return nil, fmt.Errorf("write artifact file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close artifact file: %w", err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return nil, fmt.Errorf("publish artifact file: %w", err)
	}

	s.versions[name] = meta.Version
	return &meta, nil
}

// Load reads the named artifact. Version 0 loads the latest version.
func (s *Store) Load(ctx context.Context, name string, version int) (*IncidenceArtifact, *Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s in %s", ErrNotFound, name, s.baseDir)
		}
	}

	path := s.artifactPath(name, version)
	sf, err := readStoredFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s version %d", ErrNotFound, name, version)
		}
		return nil, nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress artifact: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, nil, &ChecksumError{Path: path, Expected: sf.Metadata.Checksum, Actual: checksum}
	}

	var art IncidenceArtifact
	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(&art); err != nil {
		return nil, nil, fmt.Errorf("decode artifact: %w", err)
	}

	return &art, &sf.Metadata, nil
}

func readStoredFile(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the store directory and artifact name
	if err != nil {
		return nil, fmt.Errorf("open artifact file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read artifact file %s: %w", path, err)
	}
	return &sf, nil
}

// List returns metadata for the latest version of every stored artifact,
// sorted by name. Unreadable files are skipped.
func (s *Store) List(ctx context.Context) ([]Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.versions))
	for name := range s.versions {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]Metadata, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sf, err := readStoredFile(s.artifactPath(name, s.versions[name]))
		if err != nil {
			continue
		}
		out = append(out, sf.Metadata)
	}
	return out, nil
}

// Prune removes old versions of the named artifact, keeping the newest
// keepVersions (at least one). It returns the number of files removed.
func (s *Store) Prune(ctx context.Context, name string, keepVersions int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keepVersions = max(keepVersions, 1)

	found, err := s.scan()
	if err != nil {
		return 0, fmt.Errorf("read directory: %w", err)
	}

	versions := found[name]
	slices.Sort(versions)
	slices.Reverse(versions)

	removed := 0
	for i := keepVersions; i < len(versions); i++ {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := os.Remove(s.artifactPath(name, versions[i])); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("remove %s version %d: %w", name, versions[i], err)
		}
		removed++
	}

	return removed, nil
}

// artifactPath returns the file path for an artifact version.
func (s *Store) artifactPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, artifactExt))
}
