// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package submission

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// headerTag starts the first line of every submission.
const headerTag = "team_info"

// Header identifies the submitting team.
type Header struct {
	TeamName string

	// ContactEmail may hold several comma-separated addresses.
	ContactEmail string
}

// Format writes the submission text to w:
//
//	team_info,<team>,<email>
//	<pid>,<track_1>,...,<track_k>
//
// Playlists are written in ascending pid order with "\n" line endings and no
// padding, so equal input always yields identical bytes. Format does not check
// list lengths or seed overlap; see Validate.
func Format(w io.Writer, recs map[int][]string, h Header) error {
	if err := h.check(); err != nil {
		return err
	}
	pids := sortedPIDs(recs)
	if err := checkTracks(pids, recs); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(headerTag)
	bw.WriteByte(',')
	bw.WriteString(h.TeamName)
	bw.WriteByte(',')
	bw.WriteString(h.ContactEmail)
	bw.WriteByte('\n')

	var num []byte
	for _, pid := range pids {
		num = strconv.AppendInt(num[:0], int64(pid), 10)
		bw.Write(num)
		for _, uri := range recs[pid] {
			bw.WriteByte(',')
			bw.WriteString(uri)
		}
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write submission: %w", err)
	}
	return nil
}

// checkTracks rejects any uri that would break the line format, so nothing
// reaches the writer when one list is bad.
func checkTracks(pids []int, recs map[int][]string) error {
	for _, pid := range pids {
		for i, uri := range recs[pid] {
			if uri == "" || strings.ContainsAny(uri, ",\r\n") {
				return fmt.Errorf("playlist %d: track %d %q cannot be written to a submission line", pid, i, uri)
			}
		}
	}
	return nil
}

func (h Header) check() error {
	if strings.ContainsAny(h.TeamName, ",\r\n") {
		return fmt.Errorf("team name %q must not contain commas or line breaks", h.TeamName)
	}
	if strings.ContainsAny(h.ContactEmail, "\r\n") {
		return fmt.Errorf("contact email must not contain line breaks")
	}
	return nil
}

func sortedPIDs(recs map[int][]string) []int {
	pids := make([]int, 0, len(recs))
	for pid := range recs {
		pids = append(pids, pid)
	}
	slices.Sort(pids)
	return pids
}

// WriteFile writes the submission to path atomically, creating parent
// directories. The output is gzip-compressed when path ends in ".gz".
// It returns the number of bytes written to disk.
func WriteFile(ctx context.Context, path string, recs map[int][]string, h Header) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for submission output
		return 0, fmt.Errorf("create submission directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".submission-*")
	if err != nil {
		return 0, fmt.Errorf("create submission file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }() //nolint:errcheck // no-op after successful rename

	if err := encode(tmp, strings.HasSuffix(path, ".gz"), recs, h); err != nil {
		_ = tmp.Close() //nolint:errcheck // encode error already being returned
		return 0, err
	}

	info, err := tmp.Stat()
	if err != nil {
		_ = tmp.Close() //nolint:errcheck // stat error already being returned
		return 0, fmt.Errorf("stat submission file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close submission file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("publish submission file: %w", err)
	}
	return info.Size(), nil
}

func encode(f *os.File, compress bool, recs map[int][]string, h Header) error {
	if !compress {
		return Format(f, recs, h)
	}

	gzw := gzip.NewWriter(f)
	if err := Format(gzw, recs, h); err != nil {
		_ = gzw.Close() //nolint:errcheck // format error already being returned
		return err
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}
	return nil
}
