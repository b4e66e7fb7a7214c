// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package pipeline

import (
	"context"
	"fmt"
	"time"

	playlistimport "github.com/tomtom215/playlistpop/internal/import"
	"github.com/tomtom215/playlistpop/internal/logging"
	"github.com/tomtom215/playlistpop/internal/metrics"
	"github.com/tomtom215/playlistpop/internal/recommend"
	"github.com/tomtom215/playlistpop/internal/recommend/storage"
)

// IngestResult holds the matrix built from the training archive and the
// metadata of the artifact it was saved as.
type IngestResult struct {
	Matrix     *recommend.SparseMatrix
	Vocabulary *recommend.Vocabulary[string]
	Stats      recommend.BuilderStats
	Import     *playlistimport.IngestStats
	Artifact   *storage.Metadata
}

// Ingest streams the training archive into an incidence matrix, saves it as
// a new artifact version and prunes old versions.
func (p *Pipeline) Ingest(ctx context.Context) (*IngestResult, error) {
	var result *IngestResult
	err := stage(ctx, StageIngest, func(ctx context.Context) error {
		var err error
		result, err = p.ingest(ctx)
		return err
	})
	return result, err
}

func (p *Pipeline) ingest(ctx context.Context) (*IngestResult, error) {
	start := time.Now()
	builderCfg := p.cfg.Ingest.BuilderConfig()

	builder := recommend.NewIncidenceBuilder(builderCfg)
	importer := playlistimport.NewImporter(playlistimport.Options{
		MemberPattern: p.cfg.Dataset.MemberPattern,
		ProgressEvery: p.cfg.Ingest.ProgressEvery,
	}, builder)

	importStats, err := importer.ImportFile(ctx, p.cfg.Dataset.TrainPath)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", p.cfg.Dataset.TrainPath, err)
	}

	m, vocab, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build incidence matrix: %w", err)
	}
	stats := builder.Stats()
	duration := time.Since(start)

	logging.CtxInfo(ctx).
		Int("playlists", stats.Playlists).
		Int("empty_playlists", stats.EmptyPlaylists).
		Int("tracks", vocab.Len()).
		Int("occurrences", stats.Occurrences).
		Int("duplicate_tracks", stats.DuplicateTracks).
		Int("rows", m.Shape().Rows).
		Str("duplicate_policy", string(builderCfg.Duplicates)).
		Str("row_mapping", string(builderCfg.Rows)).
		Msg("Incidence matrix built")

	meta, err := p.saveArtifact(ctx, m, vocab, builderCfg, stats, start, duration)
	if err != nil {
		return nil, err
	}

	metrics.RecordIngest(metrics.IngestSummary{
		Members:         importStats.MembersRead,
		Playlists:       stats.Playlists,
		EmptyPlaylists:  stats.EmptyPlaylists,
		Occurrences:     stats.Occurrences,
		DuplicateTracks: stats.DuplicateTracks,
		Tracks:          vocab.Len(),
		Rows:            m.Shape().Rows,
	}, duration)
	metrics.RecordArtifactSize(meta.SizeBytes)

	return &IngestResult{
		Matrix:     m,
		Vocabulary: vocab,
		Stats:      stats,
		Import:     importStats,
		Artifact:   meta,
	}, nil
}

//nolint:gocritic // stats passed by value is acceptable for a one-off save
func (p *Pipeline) saveArtifact(
	ctx context.Context,
	m *recommend.SparseMatrix,
	vocab *recommend.Vocabulary[string],
	builderCfg recommend.BuilderConfig,
	stats recommend.BuilderStats,
	start time.Time,
	duration time.Duration,
) (*storage.Metadata, error) {
	store, err := storage.NewStore(p.cfg.Artifacts.Dir)
	if err != nil {
		return nil, err
	}

	art, err := storage.NewIncidenceArtifact(m, vocab, builderCfg)
	if err != nil {
		return nil, err
	}

	meta, err := store.Save(ctx, p.cfg.Artifacts.Name, art, storage.Metadata{
		Source:           p.cfg.Dataset.TrainPath,
		CreatedAt:        start.Add(duration),
		Playlists:        stats.Playlists,
		Tracks:           vocab.Len(),
		Occurrences:      stats.Occurrences,
		IngestDurationMS: duration.Milliseconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("save incidence artifact: %w", err)
	}

	removed, err := store.Prune(ctx, p.cfg.Artifacts.Name, p.cfg.Artifacts.KeepVersions)
	if err != nil {
		// The new version is already published; a failed prune only leaves extra files.
		logging.CtxWarn(ctx).Err(err).Msg("Failed to prune old artifacts")
	}

	logging.CtxInfo(ctx).
		Str("artifact", meta.Name).
		Int("version", meta.Version).
		Int64("size_bytes", meta.SizeBytes).
		Int("pruned", removed).
		Msg("Incidence artifact saved")

	return meta, nil
}

// loadArtifact reads the latest incidence artifact.
func (p *Pipeline) loadArtifact(ctx context.Context) (*recommend.SparseMatrix, *recommend.Vocabulary[string], *storage.Metadata, error) {
	store, err := storage.NewStore(p.cfg.Artifacts.Dir)
	if err != nil {
		return nil, nil, nil, err
	}

	art, meta, err := store.Load(ctx, p.cfg.Artifacts.Name, 0)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load incidence artifact: %w", err)
	}

	m, vocab, err := art.Matrix()
	if err != nil {
		return nil, nil, nil, err
	}

	logging.CtxInfo(ctx).
		Str("artifact", meta.Name).
		Int("version", meta.Version).
		Str("source", meta.Source).
		Int("playlists", meta.Playlists).
		Int("tracks", meta.Tracks).
		Msg("Incidence artifact loaded")

	return m, vocab, meta, nil
}

// Artifacts lists the latest stored version of every artifact in the
// artifact directory.
func (p *Pipeline) Artifacts(ctx context.Context) ([]storage.Metadata, error) {
	store, err := storage.NewStore(p.cfg.Artifacts.Dir)
	if err != nil {
		return nil, err
	}
	return store.List(ctx)
}
