// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type innerSection struct {
	Workers int    `koanf:"workers" validate:"min=1,max=64"`
	Policy  string `koanf:"policy" validate:"oneof=presence count"`
}

type outerConfig struct {
	Name    string       `koanf:"team_name" validate:"required,max=20"`
	Email   string       `koanf:"contact_email" validate:"omitempty,email"`
	Section innerSection `koanf:"section"`
	Plain   int          `validate:"gte=0"`
}

func validOuter() outerConfig {
	return outerConfig{
		Name:    "team",
		Email:   "team@example.com",
		Section: innerSection{Workers: 4, Policy: "presence"},
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	cfg := validOuter()
	if err := ValidateStruct(&cfg); err != nil {
		t.Errorf("ValidateStruct() error = %v", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *outerConfig)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "missing required",
			mutate:    func(c *outerConfig) { c.Name = "" },
			wantField: "team_name",
			wantTag:   "required",
			wantMsg:   "team_name is required",
		},
		{
			name:      "string too long",
			mutate:    func(c *outerConfig) { c.Name = strings.Repeat("x", 21) },
			wantField: "team_name",
			wantTag:   "max",
			wantMsg:   "team_name must be at most 20 characters",
		},
		{
			name:      "bad email",
			mutate:    func(c *outerConfig) { c.Email = "not-an-email" },
			wantField: "contact_email",
			wantTag:   "email",
			wantMsg:   "contact_email must be a valid email address",
		},
		{
			name:      "nested number below min",
			mutate:    func(c *outerConfig) { c.Section.Workers = 0 },
			wantField: "section.workers",
			wantTag:   "min",
			wantMsg:   "section.workers must be at least 1",
		},
		{
			name:      "nested oneof",
			mutate:    func(c *outerConfig) { c.Section.Policy = "sum" },
			wantField: "section.policy",
			wantTag:   "oneof",
			wantMsg:   "section.policy must be one of: presence count",
		},
		{
			name:      "field without koanf tag",
			mutate:    func(c *outerConfig) { c.Plain = -1 },
			wantField: "Plain",
			wantTag:   "gte",
			wantMsg:   "Plain must be greater than or equal to 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validOuter()
			tt.mutate(&cfg)

			verr := ValidateStruct(&cfg)
			if verr == nil {
				t.Fatal("ValidateStruct() should fail")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if verr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	cfg := validOuter()
	cfg.Name = ""
	cfg.Section.Workers = 100

	verr := ValidateStruct(&cfg)
	if verr == nil {
		t.Fatal("ValidateStruct() should fail")
	}
	if len(verr.Errors()) != 2 {
		t.Errorf("got %d errors, want 2", len(verr.Errors()))
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("Error() = %q, want messages joined with '; '", verr.Error())
	}
}

func TestStructValidationError_Empty(t *testing.T) {
	verr := &StructValidationError{}
	if verr.Error() != "validation failed" {
		t.Errorf("Error() = %q", verr.Error())
	}
}
