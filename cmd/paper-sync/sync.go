// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-sync/internal/config"
	"github.com/pdiddy/paper-sync/internal/httputil"
	"github.com/pdiddy/paper-sync/internal/pipeline"
	"github.com/pdiddy/paper-sync/internal/sink"
	"github.com/pdiddy/paper-sync/pkg/types"
)

const flagDateFmt = "2006-01-02"

func init() {
	rootCmd.Flags().String("category", "", "arXiv category to query (default cs.LG)")
	rootCmd.Flags().StringSlice("keywords", nil, "abstract keywords to filter on (comma-separated)")
	rootCmd.Flags().String("free-text", "", "free-text terms added to the arXiv query")
	rootCmd.Flags().Int("max-results", 0, "maximum number of entries to fetch (default 1000)")
	rootCmd.Flags().String("from", "", "submitted date range start (YYYY-MM-DD; default yesterday)")
	rootCmd.Flags().String("to", "", "submitted date range end, exclusive (YYYY-MM-DD)")
	rootCmd.Flags().Bool("skip-enrich", false, "skip GitHub link enrichment")
	rootCmd.Flags().Bool("dry-run", false, "print matched papers instead of writing to the sink")
	rootCmd.Flags().Bool("json", false, "with --dry-run, print JSON instead of a table")
	rootCmd.Flags().String("save", "", "write a YAML run report to this path")

	for flag, key := range map[string]string{
		"category":    "category",
		"keywords":    "keywords",
		"free-text":   "free_text",
		"max-results": "max_results",
		"skip-enrich": "skip_enrich",
	} {
		viper.BindPFlag(key, rootCmd.Flags().Lookup(flag))
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	settings := config.Load(viper.GetViper())

	var err error
	if settings.Fetch.DateFrom, err = parseDateFlag(cmd, "from"); err != nil {
		return err
	}
	if settings.Fetch.DateTo, err = parseDateFlag(cmd, "to"); err != nil {
		return err
	}
	if !settings.Fetch.DateFrom.IsZero() && settings.Fetch.DateTo.IsZero() {
		settings.Fetch.DateTo = settings.Fetch.DateFrom.AddDate(0, 0, 1)
	}
	if settings.Fetch.DateFrom.IsZero() && !settings.Fetch.DateTo.IsZero() {
		return fmt.Errorf("--to requires --from")
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	asJSON, _ := cmd.Flags().GetBool("json")
	savePath, _ := cmd.Flags().GetString("save")
	opts := pipeline.Options{DryRun: dryRun, JSON: asJSON, SavePath: savePath}

	client := httputil.NewClient(settings.Fetch.HTTPConfig)

	var snk sink.Sink = noopSink{}
	if !dryRun {
		if err := config.SelectSink(settings, loadedSecrets); err != nil {
			return err
		}
		snk, err = buildSink(settings)
		if err != nil {
			return err
		}
		defer snk.Close()
		fmt.Fprintf(os.Stderr, "writing to %s sink\n", snk.Name())
	}

	_, err = pipeline.Run(cmd.Context(), client, settings.Config, snk, opts, os.Stdout)
	return err
}

// noopSink backs --dry-run; the pipeline prints instead of writing.
type noopSink struct{}

func (noopSink) Name() string { return "none" }

func (noopSink) Write(context.Context, *types.PaperRecord) error { return nil }

func (noopSink) Close() error { return nil }

// buildSink constructs the sink the configuration selected.
func buildSink(settings *config.Settings) (sink.Sink, error) {
	switch settings.Mode {
	case config.ModeCSV:
		return sink.NewCSV(settings.CSV)
	case config.ModeSQLite:
		return sink.NewSQLite(settings.SQLite)
	case config.ModeNotion:
		return sink.NewNotion(httputil.NewClient(settings.Notion.HTTPConfig), settings.Notion), nil
	default:
		return nil, fmt.Errorf("unknown sink mode %v", settings.Mode)
	}
}

func parseDateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(flagDateFmt, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q: expected YYYY-MM-DD", name, raw)
	}
	return t, nil
}
