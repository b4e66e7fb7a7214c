// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tomtom215/playlistpop/internal/config"
	"github.com/tomtom215/playlistpop/internal/logging"
	"github.com/tomtom215/playlistpop/internal/metrics"
	"github.com/tomtom215/playlistpop/internal/pipeline"
	"github.com/tomtom215/playlistpop/internal/validation"
)

// cfgKey is the cli.App metadata key holding the loaded *config.Config.
const cfgKey = "config"

func newApp() *cli.App {
	return &cli.App{
		Name:  "playlistpop",
		Usage: "Rank tracks by playlist popularity and write challenge submissions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{config.ConfigPathEnvVar},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override logging.level (trace, debug, info, warn, error)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Build the incidence artifact from the training archive",
				Action: action(false, func(ctx context.Context, p *pipeline.Pipeline) error {
					_, err := p.Ingest(ctx)
					return err
				}),
			},
			{
				Name:   "rank",
				Usage:  "Rank tracks from the latest incidence artifact and store the ranking",
				Action: action(false, func(ctx context.Context, p *pipeline.Pipeline) error {
					_, err := p.Rank(ctx)
					return err
				}),
			},
			{
				Name:   "recommend",
				Usage:  "Write a submission from the stored ranking and the query playlists",
				Action: action(true, func(ctx context.Context, p *pipeline.Pipeline) error {
					_, err := p.Recommend(ctx)
					return err
				}),
			},
			{
				Name:   "artifacts",
				Usage:  "List the latest stored incidence artifacts",
				Action: listArtifacts,
			},
			{
				Name:   "run",
				Usage:  "Ingest, rank and recommend in one process",
				Action: action(true, func(ctx context.Context, p *pipeline.Pipeline) error {
					_, err := p.Run(ctx)
					return err
				}),
			},
		},
	}
}

// setup loads configuration and initializes logging before any command runs.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if level := c.String("log-level"); level != "" {
		cfg.Logging.Level = level
		if verr := validation.ValidateStruct(&cfg.Logging); verr != nil {
			return fmt.Errorf("--log-level %q: %w", level, verr)
		}
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    c.App.ErrWriter,
	})

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]interface{})
	}
	c.App.Metadata[cfgKey] = cfg
	return nil
}

// action wraps a pipeline call with a run id, submission checks and the
// metrics textfile export.
func action(needsSubmission bool, fn func(context.Context, *pipeline.Pipeline) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, ok := c.App.Metadata[cfgKey].(*config.Config)
		if !ok {
			return fmt.Errorf("configuration not loaded")
		}
		if needsSubmission {
			if err := cfg.ValidateSubmission(); err != nil {
				return err
			}
		}

		ctx := logging.ContextWithNewRunID(c.Context)
		logging.CtxInfo(ctx).
			Str("command", c.Command.Name).
			Str("train", cfg.Dataset.TrainPath).
			Str("store", cfg.Store.Backend).
			Int("k", cfg.Recommend.K).
			Msg("Starting playlistpop")

		runErr := fn(ctx, pipeline.New(cfg))

		if cfg.Metrics.TextfilePath != "" {
			if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
				logging.CtxWarn(ctx).Err(err).Str("path", cfg.Metrics.TextfilePath).Msg("Failed to write metrics textfile")
			}
		}
		return runErr
	}
}

// listArtifacts prints one line per stored artifact to the app writer.
func listArtifacts(c *cli.Context) error {
	cfg, ok := c.App.Metadata[cfgKey].(*config.Config)
	if !ok {
		return fmt.Errorf("configuration not loaded")
	}

	list, err := pipeline.New(cfg).Artifacts(c.Context)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintf(c.App.Writer, "no artifacts in %s\n", cfg.Artifacts.Dir)
		return nil
	}
	for _, meta := range list {
		fmt.Fprintf(c.App.Writer, "%s\tv%d\t%d playlists\t%d tracks\t%d bytes\t%s\n",
			meta.Name, meta.Version, meta.Playlists, meta.Tracks, meta.SizeBytes,
			meta.SavedAt.Format(time.RFC3339))
	}
	return nil
}
