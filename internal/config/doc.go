// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

/*
Package config provides configuration loading and validation for the
playlistpop pipeline.

# Configuration Sources

Configuration is layered with Koanf v2, later sources overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: the --config flag, then CONFIG_PATH, then the
    first of DefaultConfigPaths that exists
 3. Environment variables listed below

# Environment Variables

Dataset:
  - TRAIN_ZIP_PATH: training archive (default: ./dataset/spotify_train_dataset.zip)
  - TRAIN_MEMBER_PATTERN: training members to read (default: *.json)
  - TEST_ZIP_PATH: query archive (default: ./dataset/spotify_test_playlists.zip)
  - TEST_MEMBER: query file inside the archive (default: test_input_playlists.json)

Ingest and artifacts:
  - INGEST_DUPLICATE_POLICY: presence or count (default: presence)
  - INGEST_ROW_MAPPING: dense or remap (default: dense)
  - ARTIFACTS_DIR, ARTIFACTS_NAME, ARTIFACTS_KEEP_VERSIONS

Ranking:
  - POPULARITY_PATH: ranking location (default: ./results/popularity_ranking.json.gz)
  - STORE_BACKEND: file or badger (default: file)
  - RANK_LOG_TOP: tracks logged after ranking (default: 10)

Recommendations and submission:
  - NUM_RECOMMENDATIONS: K per playlist (default: 500)
  - RECOMMEND_WORKERS: parallel playlists (default: 4)
  - RECOMMEND_ON_INSUFFICIENT: abort or skip (default: abort)
  - RECOMMENDATIONS_PATH: submission file (default: ./results/submission.csv.gz)
  - TEAM_NAME, CONTACT_EMAIL: submission header
  - SUBMISSION_STRICT: fail on validation warnings (default: false)

Observability:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - METRICS_TEXTFILE_PATH: Prometheus text dump written after each command

# Validation

Config.Validate runs struct-tag validation through the validation package and
then cross-field checks. Config.ValidateSubmission is run only by commands
that write a submission.

# Usage Example

	cfg, err := config.Load(configPath)
	if err != nil {
	    return err
	}
	builder := recommend.NewIncidenceBuilder(cfg.Ingest.BuilderConfig())
*/
package config
