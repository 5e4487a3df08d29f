package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"sedgen/internal/preflight"
	"sedgen/internal/testsupport"
)

func TestPreflightCommandPasses(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"preflight"}, configPath)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	requireContains(t, out, "Archive driver")
	requireContains(t, out, "All preflight checks passed")
}

func TestPreflightCommandReportsFailure(t *testing.T) {
	refDir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(refDir, "niriss_zeropoints.list"), "not a table\n")
	cfg := testsupport.NewConfig(t, testsupport.WithReferenceDir(refDir))
	configPath := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"preflight"}, configPath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, out, "ERROR")
	requireContains(t, out, "NIRISS zeropoints")
}

func TestPreflightCommandJSON(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"preflight", "--json"}, configPath)
	if err != nil {
		t.Fatalf("preflight --json: %v", err)
	}

	var results []preflight.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode results: %v\noutput:\n%s", err, out)
	}
	if len(results) == 0 {
		t.Fatal("no preflight results in JSON output")
	}
	for _, res := range results {
		if !res.Passed {
			t.Fatalf("unexpected failure: %+v", res)
		}
	}
}
