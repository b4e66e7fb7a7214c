// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/playlistpop/internal/logging"
	"github.com/tomtom215/playlistpop/internal/metrics"
	"github.com/tomtom215/playlistpop/internal/rankstore"
	"github.com/tomtom215/playlistpop/internal/recommend"
)

// Rank loads the latest incidence artifact, ranks its tracks by popularity
// and persists the ranking to the configured store.
func (p *Pipeline) Rank(ctx context.Context) (recommend.Ranking, error) {
	var ranking recommend.Ranking
	err := stage(ctx, StageRank, func(ctx context.Context) error {
		m, vocab, meta, err := p.loadArtifact(ctx)
		if err != nil {
			return err
		}
		ranking, err = p.rank(ctx, m, vocab, meta.Playlists)
		return err
	})
	return ranking, err
}

// rankMatrix ranks an in-memory matrix under the rank stage.
func (p *Pipeline) rankMatrix(ctx context.Context, m *recommend.SparseMatrix, vocab *recommend.Vocabulary[string], playlists int) (recommend.Ranking, error) {
	var ranking recommend.Ranking
	err := stage(ctx, StageRank, func(ctx context.Context) error {
		var err error
		ranking, err = p.rank(ctx, m, vocab, playlists)
		return err
	})
	return ranking, err
}

func (p *Pipeline) rank(ctx context.Context, m *recommend.SparseMatrix, vocab *recommend.Vocabulary[string], playlists int) (recommend.Ranking, error) {
	start := time.Now()

	ranking, err := recommend.Rank(m, vocab)
	if err != nil {
		return recommend.Ranking{}, fmt.Errorf("rank tracks: %w", err)
	}

	logging.CtxInfo(ctx).
		Int("playlists", playlists).
		Int("tracks", ranking.Len()).
		Int("vocabulary", vocab.Len()).
		Msg("Popularity ranking built")
	logTop(ctx, ranking, p.cfg.Rank.LogTop)

	if err := p.saveRanking(ctx, ranking); err != nil {
		return recommend.Ranking{}, err
	}

	topCount := 0
	if top := ranking.Top(1); len(top) == 1 {
		topCount = top[0].Count
	}
	metrics.RecordRanking(ranking.Len(), topCount, time.Since(start))

	return ranking, nil
}

func logTop(ctx context.Context, ranking recommend.Ranking, n int) {
	for i, e := range ranking.Top(n) {
		logging.CtxInfo(ctx).
			Int("rank", i+1).
			Str("track_uri", e.TrackURI).
			Int("count", e.Count).
			Msg("Top track")
	}
}

func (p *Pipeline) saveRanking(ctx context.Context, ranking recommend.Ranking) error {
	store, err := rankstore.Open(rankstore.Backend(p.cfg.Store.Backend), p.cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open ranking store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logging.CtxWarn(ctx).Err(closeErr).Msg("Error closing ranking store")
		}
	}()

	if err := store.Save(ctx, ranking); err != nil {
		return fmt.Errorf("save ranking: %w", err)
	}

	logging.CtxInfo(ctx).
		Str("backend", p.cfg.Store.Backend).
		Str("path", p.cfg.Store.Path).
		Msg("Popularity ranking saved")
	return nil
}

func (p *Pipeline) loadRanking(ctx context.Context) (recommend.Ranking, error) {
	store, err := rankstore.Open(rankstore.Backend(p.cfg.Store.Backend), p.cfg.Store.Path)
	if err != nil {
		return recommend.Ranking{}, fmt.Errorf("open ranking store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logging.CtxWarn(ctx).Err(closeErr).Msg("Error closing ranking store")
		}
	}()

	ranking, err := store.Load(ctx)
	if err != nil {
		return recommend.Ranking{}, fmt.Errorf("load ranking: %w", err)
	}

	logging.CtxInfo(ctx).
		Str("backend", p.cfg.Store.Backend).
		Int("tracks", ranking.Len()).
		Msg("Popularity ranking loaded")
	return ranking, nil
}
