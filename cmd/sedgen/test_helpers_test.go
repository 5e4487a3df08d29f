package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sedgen/internal/config"
	"sedgen/internal/testsupport"
)

// runCLI executes the root command with args, prefixing --config when a
// config path is given, and captures stdout and stderr.
func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTestConfig persists cfg as a TOML file under its base directory and
// returns the path for the --config flag.
func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\noutput_dir = %q\nlog_dir = %q\nreference_dir = %q\n\n"+
			"[pipeline]\nextrapolate = %t\nnormalize_column = %q\n\n"+
			"[watch]\ndir = %q\napi_bind = %q\n",
		cfg.Paths.OutputDir,
		cfg.Paths.LogDir,
		cfg.Paths.ReferenceDir,
		cfg.Pipeline.Extrapolate,
		cfg.Pipeline.NormalizeColumn,
		cfg.Watch.Dir,
		cfg.Watch.APIBind,
	)
	path := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", substr, output)
	}
}
