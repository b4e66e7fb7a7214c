// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package config

import (
	"github.com/tomtom215/playlistpop/internal/recommend"
)

// Config holds all pipeline configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (--config flag, CONFIG_PATH, or a default path)
//  3. Environment Variables: override any mapped setting
//
// Example:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Dataset.TrainPath, cfg.Recommend.K, etc. are now populated
type Config struct {
	Dataset    DatasetConfig    `koanf:"dataset"`
	Artifacts  ArtifactsConfig  `koanf:"artifacts"`
	Ingest     IngestConfig     `koanf:"ingest"`
	Rank       RankConfig       `koanf:"rank"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Submission SubmissionConfig `koanf:"submission"`
	Store      StoreConfig      `koanf:"store"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// DatasetConfig locates the input archives.
//
// Environment Variables:
//   - TRAIN_ZIP_PATH: zip of training slice files
//   - TEST_ZIP_PATH: zip holding the query playlists
//   - TEST_MEMBER: name of the query file inside TEST_ZIP_PATH
type DatasetConfig struct {
	// TrainPath is the zip archive of training slice files.
	TrainPath string `koanf:"train_path" validate:"required"`

	// MemberPattern selects training members (path.Match syntax).
	// Default: *.json
	MemberPattern string `koanf:"member_pattern" validate:"required"`

	// TestPath is the zip archive holding the query playlists.
	TestPath string `koanf:"test_path" validate:"required"`

	// TestMember is the file inside TestPath to read seeds from.
	// Default: test_input_playlists.json
	TestMember string `koanf:"test_member" validate:"required"`
}

// ArtifactsConfig controls where ingested incidence matrices are kept.
type ArtifactsConfig struct {
	Dir string `koanf:"dir" validate:"required"`

	// Name is the artifact name; files are {name}_v{N}.gob.
	Name string `koanf:"name" validate:"required,excludesall=/\\"`

	// KeepVersions is how many versions survive pruning after each ingest.
	KeepVersions int `koanf:"keep_versions" validate:"min=1,max=100"`
}

// IngestConfig holds incidence-building policies.
type IngestConfig struct {
	// DuplicatePolicy is "presence" (count playlists containing a track) or
	// "count" (count every occurrence).
	DuplicatePolicy string `koanf:"duplicate_policy" validate:"oneof=presence count"`

	// RowMapping is "dense" (row = pid) or "remap" (rows in first-seen order).
	RowMapping string `koanf:"row_mapping" validate:"oneof=dense remap"`

	// TrackHint and PlaylistHint preallocate interner storage.
	TrackHint    int `koanf:"track_hint" validate:"min=0"`
	PlaylistHint int `koanf:"playlist_hint" validate:"min=0"`

	// ProgressEvery logs progress after this many archive members.
	ProgressEvery int `koanf:"progress_every" validate:"min=1"`
}

// BuilderConfig converts the ingest section into recommend.BuilderConfig.
func (c IngestConfig) BuilderConfig() recommend.BuilderConfig {
	return recommend.BuilderConfig{
		Duplicates:   recommend.DuplicatePolicy(c.DuplicatePolicy),
		Rows:         recommend.RowMapping(c.RowMapping),
		TrackHint:    c.TrackHint,
		PlaylistHint: c.PlaylistHint,
	}
}

// RankConfig controls the ranking stage.
type RankConfig struct {
	// LogTop is how many of the most popular tracks are logged. 0 disables it.
	LogTop int `koanf:"log_top" validate:"min=0,max=1000"`
}

// RecommendConfig controls recommendation generation.
type RecommendConfig struct {
	// K is the number of recommendations per playlist.
	// Default: 500
	K int `koanf:"k" validate:"min=1"`

	// Workers bounds parallel playlist processing.
	Workers int `koanf:"workers" validate:"min=1,max=256"`

	// OnInsufficient is "abort" (fail the batch) or "skip" (drop the playlist)
	// when the ranking is exhausted before K candidates.
	OnInsufficient string `koanf:"on_insufficient" validate:"oneof=abort skip"`
}

// SubmissionConfig holds submission output settings.
type SubmissionConfig struct {
	TeamName     string `koanf:"team_name" validate:"omitempty,excludesall=\n\r"`
	ContactEmail string `koanf:"contact_email" validate:"omitempty,excludesall=\n\r"`

	// OutputPath is gzip-compressed when it ends in ".gz".
	OutputPath string `koanf:"output_path" validate:"required"`

	// Strict turns validation warnings into failures.
	Strict bool `koanf:"strict"`
}

// StoreConfig selects the ranking store.
type StoreConfig struct {
	// Backend is "file" or "badger".
	Backend string `koanf:"backend" validate:"oneof=file badger"`

	// Path is the JSON file (file) or database directory (badger).
	Path string `koanf:"path" validate:"required"`
}

// MetricsConfig holds metrics export settings.
type MetricsConfig struct {
	// TextfilePath, when set, receives a Prometheus text-format dump after
	// each command, for node_exporter's textfile collector.
	TextfilePath string `koanf:"textfile_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`

	// Format is the output format: json or console.
	// Default: console
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}
