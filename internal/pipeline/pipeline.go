// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/tomtom215/playlistpop/internal/config"
	"github.com/tomtom215/playlistpop/internal/logging"
	"github.com/tomtom215/playlistpop/internal/metrics"
	"github.com/tomtom215/playlistpop/internal/rankstore"
	"github.com/tomtom215/playlistpop/internal/recommend"
	"github.com/tomtom215/playlistpop/internal/recommend/storage"
	"github.com/tomtom215/playlistpop/internal/submission"
)

// Stage names used in logs and metrics labels.
const (
	StageIngest    = "ingest"
	StageRank      = "rank"
	StageRecommend = "recommend"
	StageSubmit    = "submit"
)

// Pipeline runs the ingest, rank and recommend stages against one
// configuration.
type Pipeline struct {
	cfg *config.Config
}

// New creates a pipeline. cfg must already be validated.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// RunResult summarizes a full in-process run.
type RunResult struct {
	Ingest    *IngestResult
	Ranking   recommend.Ranking
	Submitted *SubmitResult
}

// Run ingests the training archive, ranks it and writes the submission in one
// pass. The ranking handed to the recommend stage is the in-memory one, so
// ties keep first-seen order whatever the store backend.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()

	ingested, err := p.Ingest(ctx)
	if err != nil {
		return nil, err
	}

	ranking, err := p.rankMatrix(ctx, ingested.Matrix, ingested.Vocabulary, ingested.Stats.Playlists)
	if err != nil {
		return nil, err
	}

	submitted, err := p.recommendWith(ctx, ranking)
	if err != nil {
		return nil, err
	}

	logging.CtxInfo(ctx).
		Int("playlists", submitted.Playlists).
		Int("tracks", ranking.Len()).
		Str("path", submitted.Path).
		Dur("duration", time.Since(start)).
		Msg("Pipeline completed")

	return &RunResult{Ingest: ingested, Ranking: ranking, Submitted: submitted}, nil
}

// stage tags ctx with name, runs fn, and records a failure metric when it
// returns an error.
func stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx = logging.ContextWithStage(ctx, name)
	if err := fn(ctx); err != nil {
		kind := errorKind(err)
		metrics.RecordStageError(name, kind)
		logging.CtxErr(ctx, err).Str("kind", kind).Msg("Stage failed")
		return err
	}
	return nil
}

// errorKind maps an error to a bounded metrics label.
func errorKind(err error) string {
	var (
		malformed    *recommend.MalformedRecordError
		shape        *recommend.InvalidShapeError
		mismatch     *recommend.ShapeMismatchError
		insufficient *recommend.InsufficientCandidatesError
		warning      *submission.ValidationWarning
		checksum     *storage.ChecksumError
	)

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &malformed):
		return "malformed_record"
	case errors.As(err, &shape):
		return "invalid_shape"
	case errors.As(err, &mismatch):
		return "shape_mismatch"
	case errors.As(err, &insufficient):
		return "insufficient_candidates"
	case errors.As(err, &warning):
		return "validation"
	case errors.As(err, &checksum):
		return "checksum"
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, rankstore.ErrEmpty), errors.Is(err, fs.ErrNotExist):
		return "not_found"
	case errors.Is(err, recommend.ErrInvalidK):
		return "config"
	default:
		return "io"
	}
}
