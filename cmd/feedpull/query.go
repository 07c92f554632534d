package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyeh/costfeed/internal/db"
	"github.com/gyeh/costfeed/internal/exitcode"
	"github.com/gyeh/costfeed/internal/logging"
	"github.com/gyeh/costfeed/internal/metrics"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Render metric definitions and run them against the warehouse",
	RunE:  runQuery,
}

func init() {
	f := queryCmd.Flags()
	f.StringVar(&cfg.MetricsFile, "metrics", "", "Path to metric definitions (.yml, .yaml or .json) (required)")
	f.StringVar(&cfg.DSN, "dsn", os.Getenv("COSTFEED_DB_URL"), "Postgres connection string (or set COSTFEED_DB_URL)")
	_ = queryCmd.MarkFlagRequired("metrics")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or COSTFEED_DB_URL is required")
		os.Exit(exitcode.UsageError)
	}

	defs, err := metrics.Load(cfg.MetricsFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to load metric definitions")
		os.Exit(exitcode.RenderError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	res, err := metrics.RunQuery(ctx, pool, defs)
	if err != nil {
		log.Error().Err(err).Msg("metrics query failed")
		os.Exit(exitcode.RenderError)
	}

	fmt.Println(strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		fmt.Println(strings.Join(row, "\t"))
	}
	return nil
}
