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
	"github.com/tomtom215/playlistpop/internal/submission"
)

// OnInsufficientSkip drops playlists whose ranking runs out before K
// candidates instead of failing the batch.
const OnInsufficientSkip = "skip"

// SubmitResult summarizes a written submission.
type SubmitResult struct {
	Path      string
	Playlists int
	Skipped   []int
	Bytes     int64

	// Warning is non-nil when validation found issues and the submission was
	// written anyway.
	Warning *submission.ValidationWarning
}

// Recommend loads the stored ranking, generates recommendations for every
// query playlist and writes the submission file.
func (p *Pipeline) Recommend(ctx context.Context) (*SubmitResult, error) {
	var result *SubmitResult
	err := stage(ctx, StageRecommend, func(ctx context.Context) error {
		ranking, err := p.loadRanking(ctx)
		if err != nil {
			return err
		}
		result, err = p.recommend(ctx, ranking)
		return err
	})
	return result, err
}

// recommendWith runs the recommend stage against an in-memory ranking.
func (p *Pipeline) recommendWith(ctx context.Context, ranking recommend.Ranking) (*SubmitResult, error) {
	var result *SubmitResult
	err := stage(ctx, StageRecommend, func(ctx context.Context) error {
		var err error
		result, err = p.recommend(ctx, ranking)
		return err
	})
	return result, err
}

func (p *Pipeline) recommend(ctx context.Context, ranking recommend.Ranking) (*SubmitResult, error) {
	start := time.Now()

	seeds, err := playlistimport.ReadSeedsFile(ctx, p.cfg.Dataset.TestPath, p.cfg.Dataset.TestMember)
	if err != nil {
		return nil, fmt.Errorf("read query playlists: %w", err)
	}

	batch, err := recommend.RecommendAll(ctx, seeds, ranking, recommend.BatchOptions{
		K:                p.cfg.Recommend.K,
		Workers:          p.cfg.Recommend.Workers,
		SkipInsufficient: p.cfg.Recommend.OnInsufficient == OnInsufficientSkip,
	})
	if err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}
	metrics.RecordRecommendations(len(batch.Recommendations), len(batch.Skipped), time.Since(start))

	if len(batch.Skipped) > 0 {
		logging.CtxWarn(ctx).
			Int("skipped", len(batch.Skipped)).
			Ints("playlist_ids", firstN(batch.Skipped, 20)).
			Int("k", p.cfg.Recommend.K).
			Msg("Playlists skipped for insufficient candidates")
	}

	// Failures are counted once, under the enclosing recommend stage.
	result, err := p.submit(logging.ContextWithStage(ctx, StageSubmit), batch.Recommendations, playlistimport.SeedIndex(seeds))
	if err != nil {
		return nil, err
	}
	result.Skipped = batch.Skipped
	return result, nil
}

func (p *Pipeline) submit(ctx context.Context, recs map[int][]string, seeds map[int]map[string]struct{}) (*SubmitResult, error) {
	start := time.Now()

	warning := submission.Validate(recs, seeds, p.cfg.Recommend.K)
	var counts map[string]int
	if warning != nil {
		counts = warning.Counts()
		if p.cfg.Submission.Strict {
			metrics.RecordSubmissionWarnings(counts)
			return nil, warning
		}
		logging.CtxWarn(ctx).
			Int("issues", len(warning.Issues)).
			Interface("by_kind", counts).
			Str("detail", warning.Error()).
			Msg("Submission has validation issues; writing anyway")
	}

	size, err := submission.WriteFile(ctx, p.cfg.Submission.OutputPath, recs, submission.Header{
		TeamName:     p.cfg.Submission.TeamName,
		ContactEmail: p.cfg.Submission.ContactEmail,
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordSubmission(counts, time.Since(start))

	logging.CtxInfo(ctx).
		Int("playlists", len(recs)).
		Int("k", p.cfg.Recommend.K).
		Str("path", p.cfg.Submission.OutputPath).
		Int64("size_bytes", size).
		Msg("Submission written")

	return &SubmitResult{
		Path:      p.cfg.Submission.OutputPath,
		Playlists: len(recs),
		Bytes:     size,
		Warning:   warning,
	}, nil
}

func firstN(ids []int, n int) []int {
	if len(ids) <= n {
		return ids
	}
	return ids[:n]
}
