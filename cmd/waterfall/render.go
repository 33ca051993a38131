package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/waterfall.report/internal/db"
	"github.com/banshee-data/waterfall.report/internal/monitoring"
	"github.com/banshee-data/waterfall.report/internal/multibeam/palette"
	"github.com/banshee-data/waterfall.report/internal/multibeam/survey"
	"github.com/banshee-data/waterfall.report/internal/report"
)

type renderFlags struct {
	output     string
	palette    string
	shade      float64
	zoom       float64
	start, end int
	dbPath     string
}

func newRenderCmd(a *app) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render <log>",
		Short: "Render the waterfall of a survey log to an image",
		Long: `Render reads a survey log and writes its waterfall as PNG or TIFF.

Without a palette the image is grayscale relief with empty cells
transparent. With --palette (or palette/palette_colors in the config)
depths are coloured over the survey's depth range and the relief is
blended in. Rows are numbered newest first; --end -1 means the oldest row.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "waterfall.png", "output image (.png, .tif or .tiff)")
	cmd.Flags().StringVar(&f.palette, "palette", "", fmt.Sprintf("colour palette %v (default grayscale relief)", palette.Names()))
	cmd.Flags().Float64Var(&f.shade, "shade", 0, "vertical exaggeration of the relief (default from config)")
	cmd.Flags().Float64Var(&f.zoom, "zoom", 0, "along-track zoom factor (default from config)")
	cmd.Flags().IntVar(&f.start, "start", 0, "first row to render, 0 is the newest ping")
	cmd.Flags().IntVar(&f.end, "end", -1, "row after the last to render, -1 for all")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "record the survey in this catalogue database")
	return cmd
}

func (a *app) render(cmd *cobra.Command, path string, f *renderFlags) error {
	if _, err := report.FormatFor(f.output); err != nil {
		return err
	}
	if cmd.Flags().Changed("palette") {
		a.cfg.Palette = &f.palette
		a.cfg.PaletteColors = nil
	}
	if cmd.Flags().Changed("shade") {
		a.cfg.ShadeScale = &f.shade
	}
	if cmd.Flags().Changed("zoom") {
		a.cfg.Zoom = &f.zoom
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	pal, err := palette.FromConfig(a.cfg)
	if err != nil {
		return err
	}

	sv, err := a.readSurvey(cmd.Context(), path)
	if err != nil {
		return err
	}
	img, err := sv.Render(cmd.Context(), survey.RowRange{Start: f.start, End: f.end}, a.cfg.GetShadeScale(), a.cfg.GetZoom(), pal)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := report.SaveImage(f.output, img); err != nil {
		return err
	}
	b := img.Bounds()
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", f.output, b.Dx(), b.Dy())

	if f.dbPath != "" {
		id, err := catalogue(f.dbPath, sv)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "recorded survey %s\n", id)
	}
	return nil
}

// catalogue stores a completed survey in the database at path.
func catalogue(path string, sv *survey.Survey) (string, error) {
	store, err := db.NewDB(path)
	if err != nil {
		return "", fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer store.Close()

	s, track := db.SurveyFrom(sv)
	id, err := store.RecordSurvey(s, track)
	if err != nil {
		return "", err
	}
	monitoring.Debugf("catalogued %s as %s with %d track points", s.Name, id, len(track))
	return id, nil
}
