// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package config

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/tomtom215/playlistpop/internal/validation"
)

// Validate checks that the configuration is complete and consistent.
// Struct tags cover ranges and enums; the helpers below cover rules that
// span more than one field.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	validators := []func() error{
		c.validateDataset,
		c.validateStore,
		c.validateSubmissionPath,
	}

	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSubmission checks the settings only the submission writer needs.
// It is separate from Validate so ingest and rank can run without a team.
func (c *Config) ValidateSubmission() error {
	if strings.TrimSpace(c.Submission.TeamName) == "" {
		return fmt.Errorf("TEAM_NAME is required to write a submission")
	}
	if strings.TrimSpace(c.Submission.ContactEmail) == "" {
		return fmt.Errorf("CONTACT_EMAIL is required to write a submission")
	}
	if strings.Contains(c.Submission.TeamName, ",") {
		return fmt.Errorf("TEAM_NAME must not contain a comma")
	}
	return nil
}

// validateDataset validates archive locations and the member pattern
func (c *Config) validateDataset() error {
	if _, err := path.Match(c.Dataset.MemberPattern, ""); err != nil {
		return fmt.Errorf("TRAIN_MEMBER_PATTERN %q is invalid: %w", c.Dataset.MemberPattern, err)
	}
	if filepath.Clean(c.Dataset.TrainPath) == filepath.Clean(c.Dataset.TestPath) {
		return fmt.Errorf("TRAIN_ZIP_PATH and TEST_ZIP_PATH must differ")
	}
	return nil
}

// validateStore validates that the ranking store does not collide with other outputs
func (c *Config) validateStore() error {
	storePath := filepath.Clean(c.Store.Path)
	if storePath == filepath.Clean(c.Submission.OutputPath) {
		return fmt.Errorf("POPULARITY_PATH and RECOMMENDATIONS_PATH must differ")
	}
	if c.Store.Backend == "badger" && storePath == filepath.Clean(c.Artifacts.Dir) {
		return fmt.Errorf("badger store path must not be the artifacts directory")
	}
	return nil
}

// validateSubmissionPath validates the submission output location
func (c *Config) validateSubmissionPath() error {
	if strings.HasSuffix(c.Submission.OutputPath, string(filepath.Separator)) {
		return fmt.Errorf("RECOMMENDATIONS_PATH must be a file, got directory %q", c.Submission.OutputPath)
	}
	return nil
}
