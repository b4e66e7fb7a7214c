// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package playlistimport

import (
	"time"
)

// IngestStats holds statistics about an ingest pass.
type IngestStats struct {
	// Archive is the path or label of the archive being read.
	Archive string

	// TotalMembers is the number of slice files selected for reading.
	TotalMembers int

	// MembersRead is the number of slice files fully consumed.
	MembersRead int

	// Records is the number of playlist records handed to the sink.
	Records int

	// CurrentMember is the slice file being read (empty when idle).
	CurrentMember string

	// StartTime is when the ingest started.
	StartTime time.Time

	// EndTime is when the ingest finished (zero if still running).
	EndTime time.Time
}

// Duration returns the duration of the ingest.
func (s *IngestStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns ingest progress by member as a percentage (0-100).
func (s *IngestStats) Progress() float64 {
	if s.TotalMembers == 0 {
		return 0
	}
	return float64(s.MembersRead) / float64(s.TotalMembers) * 100
}

// RecordsPerSecond returns the ingest rate.
func (s *IngestStats) RecordsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Records) / duration
}

// EstimatedRemaining extrapolates the time left from the member rate.
func (s *IngestStats) EstimatedRemaining() time.Duration {
	if s.MembersRead == 0 || s.MembersRead >= s.TotalMembers {
		return 0
	}
	perMember := s.Duration() / time.Duration(s.MembersRead)
	return perMember * time.Duration(s.TotalMembers-s.MembersRead)
}
