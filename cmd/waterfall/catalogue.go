package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/banshee-data/waterfall.report/internal/db"
	"github.com/banshee-data/waterfall.report/internal/ocean"
)

func newSurveysCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "surveys",
		Short: "List surveys recorded in a catalogue database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := db.NewDB(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open catalogue: %w", err)
			}
			defer store.Close()

			list, err := store.Surveys()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCREATED\tPINGS\tBEAMS\tDEPTH (m)\tDISTANCE (m)")
			for _, s := range list {
				depth := "-"
				if s.MinDepth != nil && s.MaxDepth != nil {
					depth = fmt.Sprintf("%.1f..%.1f", *s.MinDepth, *s.MaxDepth)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%.1f\n",
					s.ID, s.Name, s.Created.Format("2006-01-02 15:04:05"), s.Pings, s.BeamCount, depth, s.Distance)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "waterfall.db", "catalogue database")
	return cmd
}

func newSoundVelocityCmd() *cobra.Command {
	var (
		salinity, temperature, pressure, depth float64
		castDepths, castTemps                  []float64
	)
	cmd := &cobra.Command{
		Use:   "sound-velocity",
		Short: "Speed of sound in seawater (Chen and Millero 1977)",
		Long: `Sound-velocity evaluates the UNESCO speed of sound in seawater for a
salinity (PSU), temperature (degrees C) and pressure (decibars). Pass
--depth instead of --pressure to use the hydrostatic pressure of a water
column of that many metres.

With --cast-depths and --cast-temps the velocity is printed for every
level of a cast at the given salinity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(castDepths) > 0 || len(castTemps) > 0 {
				if cmd.Flags().Changed("depth") || cmd.Flags().Changed("pressure") {
					return fmt.Errorf("--cast-depths cannot be combined with --depth or --pressure")
				}
				return writeCast(cmd, salinity, castDepths, castTemps)
			}
			if cmd.Flags().Changed("depth") {
				if cmd.Flags().Changed("pressure") {
					return fmt.Errorf("--depth and --pressure are mutually exclusive")
				}
				pressure = ocean.KPaToDecibars(ocean.DepthToPressure(depth, ocean.SeawaterDensity, ocean.Gravity))
			}
			v := ocean.SoundVelocity(salinity, temperature, pressure)
			fmt.Fprintf(cmd.OutOrStdout(), "%.3f m/s (S=%.2f, T=%.2f C, P=%.2f dbar)\n", v, salinity, temperature, pressure)
			return nil
		},
	}
	cmd.Flags().Float64VarP(&salinity, "salinity", "s", 35, "salinity in PSU")
	cmd.Flags().Float64VarP(&temperature, "temperature", "t", 15, "temperature in degrees C")
	cmd.Flags().Float64VarP(&pressure, "pressure", "p", 0, "pressure in decibars")
	cmd.Flags().Float64VarP(&depth, "depth", "d", 0, "depth in metres, converted to pressure")
	cmd.Flags().Float64SliceVar(&castDepths, "cast-depths", nil, "cast levels in metres, comma separated")
	cmd.Flags().Float64SliceVar(&castTemps, "cast-temps", nil, "temperature at each cast level in degrees C")
	return cmd
}

func writeCast(cmd *cobra.Command, salinity float64, depths, temps []float64) error {
	v, err := ocean.Profile(salinity, depths, temps)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEPTH (m)\tTEMP (C)\tVELOCITY (m/s)")
	for i := range v {
		fmt.Fprintf(tw, "%.1f\t%.2f\t%.3f\n", depths[i], temps[i], v[i])
	}
	return tw.Flush()
}
