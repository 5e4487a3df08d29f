package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sedgen/internal/config"
	"sedgen/internal/logging"
	"sedgen/internal/watchd"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a directory for arriving catalogs",
	}

	watchCmd.AddCommand(newWatchRunCommand(ctx))
	watchCmd.AddCommand(newWatchStatusCommand(ctx))
	watchCmd.AddCommand(newWatchRunsCommand(ctx))

	return watchCmd
}

func newWatchRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the watch daemon in the foreground",
		Long: "Run watches the configured directory and feeds every settled catalog\n" +
			"through the pipeline until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			d, err := watchd.New(cfg, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return d.Run(runCtx)
		},
	}
}

func newWatchStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running watch daemon's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newWatchAPIClient(ctx.configValue())
			if err != nil {
				return err
			}
			status, err := client.status(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Running:   %s\n", yesNo(status.Running))
			fmt.Fprintf(out, "Watch dir: %s\n", status.WatchDir)
			fmt.Fprintf(out, "Globs:     %s\n", strings.Join(status.Globs, ", "))
			if status.APIAddress != "" {
				fmt.Fprintf(out, "API:       %s\n", status.APIAddress)
			}
			fmt.Fprintf(out, "Runs:      %d (%d failed)\n", status.Runs, status.Failures)
			if status.LastRun != nil {
				fmt.Fprintf(out, "Last run:  %s %s\n", filepath.Base(status.LastRun.Catalog), runOutcome(*status.LastRun))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit status as JSON")
	return cmd
}

func newWatchRunsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent pipeline runs recorded by the watch daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newWatchAPIClient(ctx.configValue())
			if err != nil {
				return err
			}
			runs, err := client.runs(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					filepath.Base(run.Catalog),
					strconv.Itoa(run.Objects),
					run.Duration.Round(time.Millisecond).String(),
					runOutcome(run),
				})
			}
			table := renderTable(
				[]string{"Started", "Catalog", "Objects", "Duration", "Outcome"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			)
			fmt.Fprintln(out, table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit runs as JSON")
	return cmd
}

func runOutcome(run watchd.RunRecord) string {
	if run.Failed() {
		return "failed: " + run.Error
	}
	return "ok"
}

// watchAPIClient talks to the watch daemon's HTTP API.
type watchAPIClient struct {
	base *url.URL
	http *http.Client
}

func newWatchAPIClient(cfg *config.Config) (*watchAPIClient, error) {
	if cfg == nil {
		return nil, errors.New("configuration unavailable")
	}
	bind := strings.TrimSpace(cfg.Watch.APIBind)
	if bind == "" {
		return nil, errors.New("watch.api_bind is not configured")
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, fmt.Errorf("parse watch API address: %w", err)
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""
	return &watchAPIClient{
		base: base,
		http: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *watchAPIClient) status(ctx context.Context) (watchd.Status, error) {
	var status watchd.Status
	err := c.getJSON(ctx, "/api/status", &status)
	return status, err
}

func (c *watchAPIClient) runs(ctx context.Context) ([]watchd.RunRecord, error) {
	var resp struct {
		Runs []watchd.RunRecord `json:"runs"`
	}
	err := c.getJSON(ctx, "/api/runs", &resp)
	return resp.Runs, err
}

func (c *watchAPIClient) getJSON(ctx context.Context, path string, v any) error {
	endpoint := c.base.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return fmt.Errorf("watch daemon is not reachable at %s; start it with `sedgen watch run`", c.base.Host)
		}
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("watch API returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
