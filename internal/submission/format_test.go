// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package submission

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestFormat(t *testing.T) {
	recs := map[int][]string{
		1001: {"spotify:track:c", "spotify:track:a"},
		7:    {"spotify:track:b", "spotify:track:c"},
		1000: {"spotify:track:a", "spotify:track:b"},
	}

	var buf bytes.Buffer
	if err := Format(&buf, recs, Header{TeamName: "EXP", ContactEmail: "a@example.com,b@example.com"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "team_info,EXP,a@example.com,b@example.com\n" +
		"7,spotify:track:b,spotify:track:c\n" +
		"1000,spotify:track:a,spotify:track:b\n" +
		"1001,spotify:track:c,spotify:track:a\n"
	if buf.String() != want {
		t.Errorf("Format() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	recs := map[int][]string{}
	for pid := 0; pid < 50; pid++ {
		recs[pid*7%50] = []string{"x", "y", "z"}
	}
	h := Header{TeamName: "EXP", ContactEmail: "team@example.com"}

	var first, second bytes.Buffer
	if err := Format(&first, recs, h); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if err := Format(&second, recs, h); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("Format() output differs between identical calls")
	}
}

func TestFormat_EmptyList(t *testing.T) {
	var buf bytes.Buffer
	if err := Format(&buf, map[int][]string{3: {}}, Header{TeamName: "EXP", ContactEmail: "e"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n3\n") {
		t.Errorf("Format() = %q, want a bare pid line", buf.String())
	}
}

func TestFormat_Rejects(t *testing.T) {
	tests := []struct {
		name string
		recs map[int][]string
		h    Header
	}{
		{"comma in team", nil, Header{TeamName: "A,B", ContactEmail: "e"}},
		{"newline in email", nil, Header{TeamName: "EXP", ContactEmail: "e\nf"}},
		{"comma in track", map[int][]string{1: {"a,b"}}, Header{TeamName: "EXP"}},
		{"empty track", map[int][]string{1: {""}}, Header{TeamName: "EXP"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Format(io.Discard, tt.recs, tt.h); err == nil {
				t.Error("Format() should fail")
			}
		})
	}
}

func TestFormat_BadTrackWritesNothing(t *testing.T) {
	// Enough good lines to overflow the write buffer before the bad one.
	recs := make(map[int][]string)
	for pid := range 2000 {
		recs[pid] = []string{"spotify:track:a", "spotify:track:b"}
	}
	recs[5000] = []string{"ok", "bad\ntrack"}

	var buf bytes.Buffer
	if err := Format(&buf, recs, Header{TeamName: "EXP", ContactEmail: "e"}); err == nil {
		t.Fatal("Format() should fail")
	}
	if buf.Len() != 0 {
		t.Errorf("Format() wrote %d bytes before failing, want 0", buf.Len())
	}
}

func TestWriteFile(t *testing.T) {
	recs := map[int][]string{2: {"b", "c"}, 1: {"a", "c"}}
	h := Header{TeamName: "EXP", ContactEmail: "team@example.com"}
	want := "team_info,EXP,team@example.com\n1,a,c\n2,b,c\n"

	t.Run("plain", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results", "submission.csv")
		size, err := WriteFile(context.Background(), path, recs, h)
		if err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(data) != want {
			t.Errorf("file = %q, want %q", data, want)
		}
		if size != int64(len(want)) {
			t.Errorf("size = %d, want %d", size, len(want))
		}
	})

	t.Run("gzip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "submission.csv.gz")
		if _, err := WriteFile(context.Background(), path, recs, h); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer f.Close()
		gzr, err := gzip.NewReader(f)
		if err != nil {
			t.Fatalf("gzip reader: %v", err)
		}
		data, err := io.ReadAll(gzr)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(data) != want {
			t.Errorf("file = %q, want %q", data, want)
		}
	})

	t.Run("failed format leaves no file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "submission.csv")
		if _, err := WriteFile(context.Background(), path, map[int][]string{1: {"bad,uri"}}, h); err == nil {
			t.Fatal("WriteFile() should fail")
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("read dir: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("directory has %d entries, want 0", len(entries))
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := WriteFile(ctx, filepath.Join(t.TempDir(), "s.csv"), recs, h); err == nil {
			t.Error("WriteFile() should fail on a canceled context")
		}
	})
}
