package main

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"sedgen/internal/logging"
	"sedgen/internal/testsupport"
	"sedgen/internal/watchd"
)

func startTestDaemon(t *testing.T) (*watchd.Daemon, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	d, err := watchd.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("watchd.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Start(ctx); err != nil {
		cancel()
		t.Fatalf("start daemon: %v", err)
	}
	t.Cleanup(func() {
		d.Stop()
		cancel()
	})

	cfg.Watch.APIBind = d.Status().APIAddress
	return d, writeTestConfig(t, cfg)
}

func TestWatchStatusCommand(t *testing.T) {
	d, configPath := startTestDaemon(t)

	out, _, err := runCLI(t, []string{"watch", "status"}, configPath)
	if err != nil {
		t.Fatalf("watch status: %v", err)
	}
	requireContains(t, out, "Running:   yes")
	requireContains(t, out, d.Status().WatchDir)
	requireContains(t, out, "Runs:      0 (0 failed)")

	out, _, err = runCLI(t, []string{"watch", "runs"}, configPath)
	if err != nil {
		t.Fatalf("watch runs: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestWatchStatusCommandJSON(t *testing.T) {
	d, configPath := startTestDaemon(t)

	out, _, err := runCLI(t, []string{"watch", "status", "--json"}, configPath)
	if err != nil {
		t.Fatalf("watch status --json: %v", err)
	}

	var status watchd.Status
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("decode status: %v\noutput:\n%s", err, out)
	}
	if !status.Running {
		t.Fatal("expected running daemon in JSON status")
	}
	if status.WatchDir != d.Status().WatchDir {
		t.Fatalf("watch dir = %q, want %q", status.WatchDir, d.Status().WatchDir)
	}
}

func TestWatchStatusUnreachable(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := lis.Addr().String()
	lis.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Watch.APIBind = addr
	configPath := writeTestConfig(t, cfg)

	_, _, err = runCLI(t, []string{"watch", "status"}, configPath)
	if err == nil {
		t.Fatal("expected error when daemon is not running")
	}
	requireContains(t, err.Error(), "not reachable")
}
