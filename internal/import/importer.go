// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package playlistimport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/playlistpop/internal/logging"
	"github.com/tomtom215/playlistpop/internal/models"
)

// RecordSink consumes playlist records in ingestion order.
// recommend.IncidenceBuilder satisfies it.
type RecordSink interface {
	Add(rec *models.Playlist, source string, index int) error
}

// Options configures an Importer.
type Options struct {
	// MemberPattern selects slice files by base name. Default: *.json
	MemberPattern string

	// ProgressEvery logs progress after this many members. 0 logs only the summary.
	ProgressEvery int
}

// Importer streams playlist records from a dataset archive into a sink.
type Importer struct {
	opts Options
	sink RecordSink

	mu      sync.RWMutex
	running bool
	stats   *IngestStats
}

// NewImporter creates an importer that feeds sink.
func NewImporter(opts Options, sink RecordSink) *Importer {
	if opts.MemberPattern == "" {
		opts.MemberPattern = "*.json"
	}
	return &Importer{opts: opts, sink: sink}
}

// ImportFile opens the archive at path and imports it.
func (i *Importer) ImportFile(ctx context.Context, path string) (*IngestStats, error) {
	archive, err := OpenArchive(path)
	if err != nil {
		return i.GetStats(), err
	}
	defer func() {
		if closeErr := archive.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Str("archive", path).Msg("Error closing archive")
		}
	}()
	return i.Import(ctx, archive)
}

// Import reads every matching member of archive in lexical order and hands
// each playlist to the sink. The first sink error aborts the pass; records
// are never skipped. The context is checked between records.
func (i *Importer) Import(ctx context.Context, archive *Archive) (*IngestStats, error) {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, fmt.Errorf("import already in progress")
	}
	i.running = true
	i.stats = &IngestStats{
		Archive:   archive.Name(),
		StartTime: time.Now(),
	}
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.running = false
		i.stats.EndTime = time.Now()
		i.stats.CurrentMember = ""
		i.mu.Unlock()
	}()

	members, err := archive.Members(i.opts.MemberPattern)
	if err != nil {
		return i.GetStats(), err
	}

	i.mu.Lock()
	i.stats.TotalMembers = len(members)
	i.mu.Unlock()

	logging.CtxInfo(ctx).
		Str("archive", archive.Name()).
		Int("members", len(members)).
		Msg("Starting ingest")

	index := 0
	for n, member := range members {
		if err := ctx.Err(); err != nil {
			return i.GetStats(), err
		}

		next, err := i.importMember(ctx, archive, member, index)
		if err != nil {
			return i.GetStats(), err
		}
		index = next

		i.mu.Lock()
		i.stats.MembersRead++
		i.stats.Records = index
		stats := *i.stats
		i.mu.Unlock()

		if i.opts.ProgressEvery > 0 && (n+1)%i.opts.ProgressEvery == 0 {
			logProgress(ctx, &stats)
		}
	}

	stats := i.GetStats()
	logging.CtxInfo(ctx).
		Int("members", stats.MembersRead).
		Int("records", stats.Records).
		Float64("records_per_second", stats.RecordsPerSecond()).
		Dur("duration", stats.Duration()).
		Msg("Ingest completed")

	return stats, nil
}

// importMember feeds one slice file to the sink. index is the global position
// of the member's first record; the returned value is one past its last.
func (i *Importer) importMember(ctx context.Context, archive *Archive, member string, index int) (int, error) {
	i.mu.Lock()
	i.stats.CurrentMember = member
	i.mu.Unlock()

	slice, err := archive.ReadSlice(member)
	if err != nil {
		return index, err
	}

	logging.Ctx(ctx).Debug().
		Str("member", member).
		Str("slice", slice.Info.Slice).
		Int("playlists", len(slice.Playlists)).
		Msg("Reading slice")

	for p := range slice.Playlists {
		if err := ctx.Err(); err != nil {
			return index, err
		}
		if err := i.sink.Add(&slice.Playlists[p], member, index); err != nil {
			return index, err
		}
		index++
	}
	return index, nil
}

func logProgress(ctx context.Context, stats *IngestStats) {
	logging.CtxInfo(ctx).
		Float64("progress_percent", stats.Progress()).
		Int("members_read", stats.MembersRead).
		Int("total_members", stats.TotalMembers).
		Int("records", stats.Records).
		Float64("records_per_second", stats.RecordsPerSecond()).
		Dur("eta", stats.EstimatedRemaining()).
		Msg("Ingest progress")
}

// GetStats returns a copy of the current ingest statistics.
func (i *Importer) GetStats() *IngestStats {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.stats == nil {
		return &IngestStats{}
	}

	stats := *i.stats
	return &stats
}
