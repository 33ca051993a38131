// Waterfall reads multibeam survey logs, reconstructs the along-track
// waterfall and renders it as a shaded relief image.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/banshee-data/waterfall.report/internal/config"
	"github.com/banshee-data/waterfall.report/internal/monitoring"
	"github.com/banshee-data/waterfall.report/internal/multibeam/datagram"
	"github.com/banshee-data/waterfall.report/internal/multibeam/survey"
	"github.com/banshee-data/waterfall.report/internal/version"
)

// app holds the flags shared by every subcommand.
type app struct {
	configPath string
	verbose    bool
	maxRecords int

	cfg *config.WaterfallConfig
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "waterfall",
		Short: "Reconstruct and render multibeam sonar waterfalls",
		Long: `Waterfall reads survey logs of navigation fixes and multibeam depth pings,
stacks the pings into an along-track waterfall corrected for vessel travel,
and renders it as grayscale relief or palette-coloured shaded relief.

Survey logs hold one NMEA sentence per line: GGA/RMC/HDT for navigation
and $SDMBD for depth pings. Use "waterfall gen" to write a synthetic one.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			monitoring.SetDebug(a.verbose)
			return a.loadConfig(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a JSON render configuration")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log progress and debug detail")
	root.PersistentFlags().IntVar(&a.maxRecords, "max-records", 0, "stop once more than this many records have been read (0 reads all)")

	root.AddCommand(
		newRenderCmd(a),
		newInfoCmd(a),
		newTrackCmd(a),
		newGenCmd(),
		newSoundVelocityCmd(),
		newSurveysCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads --config (or the built-in defaults) and applies flags
// that override config values.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg := config.EmptyWaterfallConfig()
	if a.configPath != "" {
		var err error
		if cfg, err = config.LoadWaterfallConfig(a.configPath); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("max-records") {
		cfg.MaxRecords = &a.maxRecords
	}
	a.cfg = cfg
	return nil
}

// readSurvey runs every record of the log at path through a new survey.
func (a *app) readSurvey(ctx context.Context, path string) (*survey.Survey, error) {
	src, err := datagram.OpenLog(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	sv := survey.New(filepath.Base(path), survey.WithConfig(a.cfg), survey.WithLogger(monitoring.Logf))
	stats, err := sv.Run(ctx, src, a.cfg.GetMaxRecords())
	if err != nil {
		return nil, err
	}
	if n := src.Malformed(); n > 0 {
		monitoring.Logf("%s: %d malformed lines skipped", sv.Name(), n)
	}
	monitoring.Debugf("%s: read %d records, %d pings", sv.Name(), stats.TotalRecords, sv.Waterfall().Len())
	return sv, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String("waterfall"))
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
