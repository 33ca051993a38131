package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/banshee-data/waterfall.report/internal/report"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <log>",
		Short: "Print a summary of a survey log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sv, err := a.readSurvey(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sv.String())
			return nil
		},
	}
}

func newTrackCmd(a *app) *cobra.Command {
	var (
		local    bool
		pngPath  string
		htmlPath string
	)
	cmd := &cobra.Command{
		Use:   "track <log>",
		Short: "Plot the navigation track of a survey log",
		Long: `Track writes the vessel track as a static plot (--png) and/or an
interactive chart (--html). With --enu the track is drawn in east/north
metres from the first fix instead of latitude/longitude.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pngPath == "" && htmlPath == "" {
				return fmt.Errorf("nothing to write: pass --png and/or --html")
			}
			sv, err := a.readSurvey(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			xs, ys, err := sv.Navigation(local)
			if err != nil {
				return err
			}
			t := report.NewTrack(sv.Name(), xs, ys, local)

			if pngPath != "" {
				if err := report.SaveTrackPlot(pngPath, t); err != nil {
					return fmt.Errorf("failed to plot track: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", pngPath)
			}
			if htmlPath != "" {
				if err := writeTrackHTML(htmlPath, t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", htmlPath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "enu", false, "plot local east/north metres")
	cmd.Flags().StringVar(&pngPath, "png", "", "write a static track plot (.png, .svg, .pdf)")
	cmd.Flags().StringVar(&htmlPath, "html", "", "write an interactive track chart")
	return cmd
}

func writeTrackHTML(path string, t report.Track) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteTrackHTML(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
