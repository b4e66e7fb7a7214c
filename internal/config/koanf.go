// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/playlistpop/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"playlistpop.yaml",
	"playlistpop.yml",
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			TrainPath:     "./dataset/spotify_train_dataset.zip",
			MemberPattern: "*.json",
			TestPath:      "./dataset/spotify_test_playlists.zip",
			TestMember:    "test_input_playlists.json",
		},
		Artifacts: ArtifactsConfig{
			Dir:          "./dataset/artifacts",
			Name:         "incidence",
			KeepVersions: 3,
		},
		Ingest: IngestConfig{
			DuplicatePolicy: string(recommend.DuplicatePresence),
			RowMapping:      string(recommend.RowsDense),
			TrackHint:       0,
			PlaylistHint:    0,
			ProgressEvery:   50,
		},
		Rank: RankConfig{
			LogTop: 10,
		},
		Recommend: RecommendConfig{
			K:              recommend.DefaultK,
			Workers:        4,
			OnInsufficient: "abort",
		},
		Submission: SubmissionConfig{
			TeamName:     "EXP",
			ContactEmail: "",
			OutputPath:   "./results/submission.csv.gz",
			Strict:       false,
		},
		Store: StoreConfig{
			Backend: "file",
			Path:    "./results/popularity_ranking.json.gz",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// Load loads configuration from defaults, an optional YAML file and the
// environment. configPath may be empty to search the default locations.
func Load(configPath string) (*Config, error) {
	return LoadWithKoanf(configPath)
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in defaults
//  2. Config File: configPath, else CONFIG_PATH, else the first DefaultConfigPaths hit
//  3. Environment Variables: override any mapped setting
//
// An explicit configPath that does not exist is an error; a missing default
// file is not.
func LoadWithKoanf(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	} else {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// TRAIN_ZIP_PATH -> dataset.train_path
	// NUM_RECOMMENDATIONS -> recommend.k
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lower-cased environment variable names to koanf paths.
// The names follow the flags of the original scripts where one existed.
var envMappings = map[string]string{
	// Dataset
	"train_zip_path":       "dataset.train_path",
	"train_member_pattern": "dataset.member_pattern",
	"test_zip_path":        "dataset.test_path",
	"test_member":          "dataset.test_member",

	// Artifacts
	"artifacts_dir":           "artifacts.dir",
	"artifacts_name":          "artifacts.name",
	"artifacts_keep_versions": "artifacts.keep_versions",

	// Ingest
	"ingest_duplicate_policy": "ingest.duplicate_policy",
	"ingest_row_mapping":      "ingest.row_mapping",
	"ingest_track_hint":       "ingest.track_hint",
	"ingest_playlist_hint":    "ingest.playlist_hint",
	"ingest_progress_every":   "ingest.progress_every",

	// Rank
	"rank_log_top": "rank.log_top",

	// Recommend
	"num_recommendations":       "recommend.k",
	"recommend_workers":         "recommend.workers",
	"recommend_on_insufficient": "recommend.on_insufficient",

	// Submission
	"team_name":            "submission.team_name",
	"contact_email":        "submission.contact_email",
	"recommendations_path": "submission.output_path",
	"submission_strict":    "submission.strict",

	// Ranking store
	"popularity_path": "store.path",
	"store_backend":   "store.backend",

	// Metrics
	"metrics_textfile_path": "metrics.textfile_path",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - TRAIN_ZIP_PATH -> dataset.train_path
//   - POPULARITY_PATH -> store.path
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped variables are skipped so the environment cannot pollute config.
	return ""
}
