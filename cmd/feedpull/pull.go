package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/costfeed/internal/exitcode"
	"github.com/gyeh/costfeed/internal/ingest"
	"github.com/gyeh/costfeed/internal/logging"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download every matching remote file and validate it",
	RunE:  runPull,
}

func init() {
	addRemoteFlags(pullCmd)
	f := pullCmd.Flags()
	f.StringVar(&cfg.LocalDir, "local-dir", "", "Local destination directory (required)")
	f.BoolVar(&cfg.EnforceSizeMatch, "check-size", false, "Fail files whose local size differs from the remote-reported size")
	f.BoolVar(&cfg.EnforceMD5Match, "check-md5", false, "Fail files whose MD5 differs from the expected digest in md5_sums")
	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			log.Error().Err(err).Msg("config load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.ValidateForPull(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if err := ensurePassword(); err != nil {
		log.Error().Err(err).Msg("password prompt failed")
		os.Exit(exitcode.UsageError)
	}

	outcome, summary, err := ingest.New(&cfg, log).DownloadAll()
	if err != nil {
		var pe *ingest.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("pull failed")
			if pe.Phase == "connect" {
				os.Exit(exitcode.ConnectError)
			}
			os.Exit(exitcode.ListError)
		}
		log.Error().Err(err).Msg("pull failed")
		os.Exit(exitcode.ConnectError)
	}

	fmt.Printf("Pull complete: %d files downloaded, %d failed (%.1fs)\n",
		summary.FilesDownloaded, summary.FilesFailed, summary.DurationTotal.Seconds())
	for _, e := range outcome.Errors {
		fmt.Printf("  failed: %s\n", e)
	}

	if len(outcome.Errors) > 0 {
		os.Exit(exitcode.PartialFailure)
	}
	return nil
}
