package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/costfeed/internal/exitcode"
	"github.com/gyeh/costfeed/internal/logging"
	"github.com/gyeh/costfeed/internal/metrics"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render metric definitions into a SQL SELECT",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&cfg.MetricsFile, "metrics", "", "Path to metric definitions (.yml, .yaml or .json) (required)")
	_ = renderCmd.MarkFlagRequired("metrics")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	defs, err := metrics.Load(cfg.MetricsFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to load metric definitions")
		os.Exit(exitcode.RenderError)
	}

	fmt.Println(defs.RenderSelect())
	return nil
}
