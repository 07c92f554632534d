package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gyeh/costfeed/internal/exitcode"
	"github.com/gyeh/costfeed/internal/ingest"
	"github.com/gyeh/costfeed/internal/logging"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List matching remote files without downloading (no writes)",
	RunE:  runList,
}

func init() {
	addRemoteFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			log.Error().Err(err).Msg("config load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if err := ensurePassword(); err != nil {
		log.Error().Err(err).Msg("password prompt failed")
		os.Exit(exitcode.UsageError)
	}

	descs, err := ingest.New(&cfg, log).ListRemote()
	if err != nil {
		var pe *ingest.PipelineError
		if errors.As(err, &pe) && pe.Phase == "connect" {
			log.Error().Err(pe.Err).Msg("connect failed")
			os.Exit(exitcode.ConnectError)
		}
		log.Error().Err(err).Msg("listing failed")
		os.Exit(exitcode.ListError)
	}

	fmt.Printf("%d files matching %q in %s:\n", len(descs), cfg.FilenameGlob, cfg.RemoteDir)
	for _, d := range descs {
		size := "?"
		if d.Size != nil {
			size = strconv.FormatInt(*d.Size, 10)
		}
		fmt.Printf("  %-48s %12s\n", d.RemotePath, size)
	}
	return nil
}
