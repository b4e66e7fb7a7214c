// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package playlistimport

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zip"

	"github.com/tomtom215/playlistpop/internal/models"
	"github.com/tomtom215/playlistpop/internal/recommend"
)

// ErrMemberNotFound is returned when a named archive member does not exist.
var ErrMemberNotFound = errors.New("archive member not found")

// Archive is a read-only zip of dataset slice files.
type Archive struct {
	name   string
	reader *zip.Reader
	closer io.Closer
}

// OpenArchive opens the zip file at path.
func OpenArchive(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	return &Archive{name: path, reader: &rc.Reader, closer: rc}, nil
}

// NewArchive reads a zip from r. name is used in log and error messages.
func NewArchive(r io.ReaderAt, size int64, name string) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", name, err)
	}
	return &Archive{name: name, reader: zr}, nil
}

// Name returns the archive path or label.
func (a *Archive) Name() string {
	return a.name
}

// Close releases the underlying file, if any.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Members returns the names of regular files whose base name matches
// pattern, in lexical order. Column assignment depends on the order records
// are read, so it must not depend on how the zip was written.
func (a *Archive) Members(pattern string) ([]string, error) {
	var names []string
	for _, f := range a.reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		ok, err := path.Match(pattern, path.Base(f.Name))
		if err != nil {
			return nil, fmt.Errorf("member pattern %q: %w", pattern, err)
		}
		if ok {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadSlice decodes the slice document stored in member. A member is
// matched by its full name first, then by base name, so a seed file nested
// in a directory is still found.
func (a *Archive) ReadSlice(member string) (*models.Slice, error) {
	f := a.lookup(member)
	if f == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrMemberNotFound, member, a.name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	var slice models.Slice
	if err := json.NewDecoder(rc).Decode(&slice); err != nil {
		return nil, &recommend.MalformedRecordError{
			Source: f.Name,
			Index:  -1,
			Field:  "document",
			Reason: err.Error(),
		}
	}
	if slice.Playlists == nil {
		return nil, &recommend.MalformedRecordError{
			Source: f.Name,
			Index:  -1,
			Field:  "playlists",
			Reason: "is missing",
		}
	}
	return &slice, nil
}

func (a *Archive) lookup(member string) *zip.File {
	var byBase *zip.File
	for _, f := range a.reader.File {
		if f.Name == member {
			return f
		}
		if byBase == nil && !strings.HasSuffix(f.Name, "/") && path.Base(f.Name) == member {
			byBase = f
		}
	}
	return byBase
}
