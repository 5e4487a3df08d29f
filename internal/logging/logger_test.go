package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("unknown format should fail")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sedgen.log")
	logger, err := New(Options{
		Format:           "json",
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("archive saved", String(FieldArchive, "out.hdf5"))

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(raw)
	for _, want := range []string{`"msg":"archive saved"`, `"level":"info"`, `"archive":"out.hdf5"`, `"ts":`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s: %s", want, out)
		}
	}
}

func TestComponentLogger(t *testing.T) {
	logger := NewComponentLogger(nil, "pipeline")
	// The nil base becomes a no-op logger; logging must not panic.
	logger.Info("noop")

	ctx := WithContext(t.Context(), NewNop())
	if FromContext(ctx) == nil {
		t.Fatal("FromContext returned nil")
	}
	if FromContext(nil) == nil {
		t.Fatal("FromContext(nil) must fall back to the no-op logger")
	}
}
