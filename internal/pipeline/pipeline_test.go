// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/playlistpop/internal/config"
	"github.com/tomtom215/playlistpop/internal/metrics"
	"github.com/tomtom215/playlistpop/internal/rankstore"
	"github.com/tomtom215/playlistpop/internal/recommend"
	"github.com/tomtom215/playlistpop/internal/recommend/storage"
	"github.com/tomtom215/playlistpop/internal/submission"
)

const (
	trainSlice = `{"info":{"slice":"0-1"},"playlists":[
		{"pid":0,"name":"a","tracks":[{"pos":0,"track_uri":"A"},{"pos":1,"track_uri":"B"}]},
		{"pid":1,"name":"b","tracks":[{"pos":0,"track_uri":"B"},{"pos":1,"track_uri":"C"}]}
	]}`

	testSeeds = `{"info":{},"playlists":[{"pid":7,"tracks":[{"pos":0,"track_uri":"B"}]}]}`

	testMember = "test_input_playlists.json"
)

func writeZip(t *testing.T, path string, members map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	zw := zip.NewWriter(f)
	for name, body := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create member %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write member %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
}

// testConfig writes the default fixtures into a temp dir and returns a
// config pointing at them.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	trainPath := filepath.Join(dir, "train.zip")
	testPath := filepath.Join(dir, "test.zip")
	writeZip(t, trainPath, map[string]string{"data/mpd.slice.0-1.json": trainSlice, "README.md": "ignored"})
	writeZip(t, testPath, map[string]string{testMember: testSeeds})

	return &config.Config{
		Dataset: config.DatasetConfig{
			TrainPath:     trainPath,
			MemberPattern: "*.json",
			TestPath:      testPath,
			TestMember:    testMember,
		},
		Artifacts: config.ArtifactsConfig{
			Dir:          filepath.Join(dir, "artifacts"),
			Name:         "incidence",
			KeepVersions: 2,
		},
		Ingest: config.IngestConfig{
			DuplicatePolicy: "presence",
			RowMapping:      "dense",
			ProgressEvery:   1,
		},
		Rank: config.RankConfig{LogTop: 10},
		Recommend: config.RecommendConfig{
			K:              2,
			Workers:        2,
			OnInsufficient: "abort",
		},
		Submission: config.SubmissionConfig{
			TeamName:     "EXP",
			ContactEmail: "a@b.c",
			OutputPath:   filepath.Join(dir, "results", "submission.csv"),
		},
		Store: config.StoreConfig{
			Backend: "file",
			Path:    filepath.Join(dir, "results", "ranking.json.gz"),
		},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRun(t *testing.T) {
	for _, backend := range []string{"file", "badger"} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Store.Backend = backend
			if backend == "badger" {
				cfg.Store.Path = filepath.Join(t.TempDir(), "ranking.db")
			}

			result, err := New(cfg).Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got := result.Ranking.Tracks(); fmt.Sprint(got) != "[B A C]" {
				t.Errorf("ranking = %v, want [B A C]", got)
			}
			if result.Ingest.Stats.Playlists != 2 || result.Ingest.Artifact.Version != 1 {
				t.Errorf("ingest = %+v, artifact = %+v", result.Ingest.Stats, result.Ingest.Artifact)
			}
			if result.Submitted.Warning != nil {
				t.Errorf("unexpected warning: %v", result.Submitted.Warning)
			}

			want := "team_info,EXP,a@b.c\n7,A,C\n"
			if got := readFile(t, cfg.Submission.OutputPath); got != want {
				t.Errorf("submission = %q, want %q", got, want)
			}
		})
	}
}

func TestStagesSeparately(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg)
	ctx := context.Background()

	if _, err := p.Ingest(ctx); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	ranking, err := p.Rank(ctx)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if ranking.Len() != 3 {
		t.Errorf("ranking length = %d, want 3", ranking.Len())
	}

	result, err := p.Recommend(ctx)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if result.Playlists != 1 {
		t.Errorf("playlists = %d, want 1", result.Playlists)
	}
	if got := readFile(t, cfg.Submission.OutputPath); got != "team_info,EXP,a@b.c\n7,A,C\n" {
		t.Errorf("submission = %q", got)
	}
}

func TestIngest_PrunesArtifacts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Artifacts.KeepVersions = 1
	p := New(cfg)

	for i := 0; i < 3; i++ {
		if _, err := p.Ingest(context.Background()); err != nil {
			t.Fatalf("Ingest() #%d error = %v", i, err)
		}
	}

	list, err := p.Artifacts(context.Background())
	if err != nil {
		t.Fatalf("Artifacts() error = %v", err)
	}
	if len(list) != 1 || list[0].Name != "incidence" || list[0].Version != 3 {
		t.Errorf("Artifacts() = %+v, want incidence v3", list)
	}
	entries, err := os.ReadDir(cfg.Artifacts.Dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("artifact files = %d, want 1", len(entries))
	}
}

func TestRank_NoArtifact(t *testing.T) {
	cfg := testConfig(t)

	_, err := New(cfg).Rank(context.Background())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Rank() error = %v, want ErrNotFound", err)
	}
}

func TestRecommend_NoRanking(t *testing.T) {
	cfg := testConfig(t)

	_, err := New(cfg).Recommend(context.Background())
	if !errors.Is(err, rankstore.ErrEmpty) {
		t.Errorf("Recommend() error = %v, want ErrEmpty", err)
	}
}

func TestRun_Insufficient(t *testing.T) {
	t.Run("abort", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Recommend.K = 3

		before := testutil.ToFloat64(metrics.StageErrors.WithLabelValues(StageRecommend, "insufficient_candidates"))
		_, err := New(cfg).Run(context.Background())

		var insufficient *recommend.InsufficientCandidatesError
		if !errors.As(err, &insufficient) {
			t.Fatalf("Run() error = %v, want InsufficientCandidatesError", err)
		}
		if insufficient.PlaylistID != 7 || insufficient.Got != 2 {
			t.Errorf("error = %+v", insufficient)
		}
		after := testutil.ToFloat64(metrics.StageErrors.WithLabelValues(StageRecommend, "insufficient_candidates"))
		if after != before+1 {
			t.Errorf("stage error counter = %v, want %v", after, before+1)
		}
		if _, statErr := os.Stat(cfg.Submission.OutputPath); !os.IsNotExist(statErr) {
			t.Error("submission should not be written")
		}
	})

	t.Run("skip", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Recommend.K = 3
		cfg.Recommend.OnInsufficient = OnInsufficientSkip

		result, err := New(cfg).Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if fmt.Sprint(result.Submitted.Skipped) != "[7]" {
			t.Errorf("skipped = %v, want [7]", result.Submitted.Skipped)
		}
		if result.Submitted.Warning == nil || result.Submitted.Warning.Counts()["missing_playlist"] != 1 {
			t.Errorf("warning = %v, want one missing_playlist", result.Submitted.Warning)
		}
		if got := readFile(t, cfg.Submission.OutputPath); got != "team_info,EXP,a@b.c\n" {
			t.Errorf("submission = %q", got)
		}
	})

	t.Run("skip strict", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Recommend.K = 3
		cfg.Recommend.OnInsufficient = OnInsufficientSkip
		cfg.Submission.Strict = true
		metrics.LastSuccess.DeleteLabelValues(StageSubmit)

		_, err := New(cfg).Run(context.Background())
		var warning *submission.ValidationWarning
		if !errors.As(err, &warning) {
			t.Fatalf("Run() error = %v, want ValidationWarning", err)
		}
		if _, statErr := os.Stat(cfg.Submission.OutputPath); !os.IsNotExist(statErr) {
			t.Error("strict failure should not write the submission")
		}
		if got := testutil.ToFloat64(metrics.LastSuccess.WithLabelValues(StageSubmit)); got != 0 {
			t.Errorf("submit last success = %v, want unset after a strict failure", got)
		}
	})
}

func TestRun_MalformedTraining(t *testing.T) {
	cfg := testConfig(t)
	writeZip(t, cfg.Dataset.TrainPath, map[string]string{
		"mpd.slice.0.json": `{"playlists":[{"pid":0,"tracks":[{"track_uri":""}]}]}`,
	})

	_, err := New(cfg).Run(context.Background())
	var malformed *recommend.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("Run() error = %v, want MalformedRecordError", err)
	}
	if malformed.Source != "mpd.slice.0.json" || malformed.PlaylistID != 0 {
		t.Errorf("error = %+v", malformed)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(t)).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{context.Canceled, "canceled"},
		{fmt.Errorf("wrap: %w", &recommend.MalformedRecordError{Field: "pid"}), "malformed_record"},
		{&recommend.InvalidShapeError{}, "invalid_shape"},
		{&recommend.ShapeMismatchError{}, "shape_mismatch"},
		{&recommend.InsufficientCandidatesError{}, "insufficient_candidates"},
		{&submission.ValidationWarning{}, "validation"},
		{&storage.ChecksumError{}, "checksum"},
		{fmt.Errorf("load: %w", storage.ErrNotFound), "not_found"},
		{rankstore.ErrEmpty, "not_found"},
		{os.ErrNotExist, "not_found"},
		{recommend.ErrInvalidK, "config"},
		{errors.New("disk full"), "io"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := errorKind(tt.err); got != tt.want {
				t.Errorf("errorKind(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
