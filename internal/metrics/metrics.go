// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline instrumentation:
// - Ingest volume and duplicate handling
// - Ranking and vocabulary size
// - Recommendation outcomes
// - Submission validation warnings
// - Stage durations and failures

var (
	// Ingest Metrics
	IngestRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "playlistpop_ingest_playlists_total",
			Help: "Total number of playlist records ingested",
		},
	)

	IngestEmptyPlaylistsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "playlistpop_ingest_empty_playlists_total",
			Help: "Playlists ingested with no tracks",
		},
	)

	IngestOccurrencesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "playlistpop_ingest_track_occurrences_total",
			Help: "Track entries read from playlists, duplicates included",
		},
	)

	IngestDuplicatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "playlistpop_ingest_duplicate_tracks_total",
			Help: "Repeated tracks within one playlist that were coalesced",
		},
	)

	IngestMembersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "playlistpop_ingest_archive_members_total",
			Help: "Slice files read from the training archive",
		},
	)

	VocabularyTracks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "playlistpop_vocabulary_tracks",
			Help: "Distinct tracks in the most recent incidence matrix",
		},
	)

	MatrixRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "playlistpop_matrix_rows",
			Help: "Rows in the most recent incidence matrix",
		},
	)

	ArtifactBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "playlistpop_artifact_bytes",
			Help: "Size of the most recently saved incidence artifact",
		},
	)

	// Ranking Metrics
	RankingTracks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "playlistpop_ranking_tracks",
			Help: "Tracks in the popularity ranking",
		},
	)

	RankingTopCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "playlistpop_ranking_top_count",
			Help: "Popularity count of the most popular track",
		},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlistpop_recommendations_total",
			Help: "Query playlists processed by outcome",
		},
		[]string{"result"}, // "ok", "skipped"
	)

	SubmissionWarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlistpop_submission_warnings_total",
			Help: "Submission validation warnings by kind",
		},
		[]string{"kind"}, // "wrong_length", "duplicate_track", "seed_overlap"
	)

	// Stage Metrics
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "playlistpop_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"stage"}, // "ingest", "rank", "recommend", "submit"
	)

	StageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlistpop_stage_errors_total",
			Help: "Failed pipeline stages by error kind",
		},
		[]string{"stage", "kind"},
	)

	LastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "playlistpop_stage_last_success_timestamp",
			Help: "Unix timestamp of the last successful run of each stage",
		},
		[]string{"stage"},
	)
)

// IngestSummary is the set of counts reported after an ingest run.
type IngestSummary struct {
	Members         int
	Playlists       int
	EmptyPlaylists  int
	Occurrences     int
	DuplicateTracks int
	Tracks          int
	Rows            int
}

// RecordIngest records the outcome of an ingest stage.
func RecordIngest(s IngestSummary, duration time.Duration) {
	IngestMembersTotal.Add(float64(s.Members))
	IngestRecordsTotal.Add(float64(s.Playlists))
	IngestEmptyPlaylistsTotal.Add(float64(s.EmptyPlaylists))
	IngestOccurrencesTotal.Add(float64(s.Occurrences))
	IngestDuplicatesTotal.Add(float64(s.DuplicateTracks))
	VocabularyTracks.Set(float64(s.Tracks))
	MatrixRows.Set(float64(s.Rows))
	recordStageSuccess("ingest", duration)
}

// RecordArtifactSize records the compressed size of a saved artifact.
func RecordArtifactSize(bytes int64) {
	ArtifactBytes.Set(float64(bytes))
}

// RecordRanking records the outcome of a ranking stage. topCount is the count
// of the first entry, or 0 for an empty ranking.
func RecordRanking(tracks, topCount int, duration time.Duration) {
	RankingTracks.Set(float64(tracks))
	RankingTopCount.Set(float64(topCount))
	recordStageSuccess("rank", duration)
}

// RecordRecommendations records the outcome of a recommendation stage.
func RecordRecommendations(generated, skipped int, duration time.Duration) {
	RecommendationsTotal.WithLabelValues("ok").Add(float64(generated))
	RecommendationsTotal.WithLabelValues("skipped").Add(float64(skipped))
	recordStageSuccess("recommend", duration)
}

// RecordSubmission records submission warnings by kind and the write duration
// of a submission that was written.
func RecordSubmission(warnings map[string]int, duration time.Duration) {
	RecordSubmissionWarnings(warnings)
	recordStageSuccess("submit", duration)
}

// RecordSubmissionWarnings records warnings by kind without marking the
// submit stage successful, for submissions rejected by validation.
func RecordSubmissionWarnings(warnings map[string]int) {
	for kind, n := range warnings {
		SubmissionWarningsTotal.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordStageError records a failed stage. kind should be a short, bounded
// classification such as "malformed_record" or "io".
func RecordStageError(stage, kind string) {
	StageErrors.WithLabelValues(stage, kind).Inc()
}

func recordStageSuccess(stage string, duration time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	LastSuccess.WithLabelValues(stage).Set(float64(time.Now().Unix()))
}

// WriteTextfile writes all registered metrics to path in Prometheus text
// format, for node_exporter's textfile collector. The write is atomic.
func WriteTextfile(path string) error {
	return WriteTextfileFrom(prometheus.DefaultGatherer, path)
}

// WriteTextfileFrom writes the metrics of gatherer to path.
func WriteTextfileFrom(gatherer prometheus.Gatherer, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
