package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/banshee-data/waterfall.report/internal/geodesy"
	"github.com/banshee-data/waterfall.report/internal/multibeam/datagram"
)

// synthetic describes a straight survey line over a sloped, rippled seafloor.
type synthetic struct {
	Origin     geodesy.LatLon
	Heading    float64 // degrees from north
	Speed      float64 // m/s
	Interval   time.Duration
	Pings      int
	Beams      int
	Swath      float64 // full swath width, m
	Depth      float64 // depth under the first ping, m
	Slope      float64 // along-track depth gradient, m/m
	Transducer float64
	Start      time.Time
}

func defaultSynthetic() synthetic {
	return synthetic{
		Origin:     geodesy.LatLon{Lat: -12.46, Lon: 130.84},
		Heading:    90,
		Speed:      2,
		Interval:   time.Second,
		Pings:      200,
		Beams:      64,
		Swath:      120,
		Depth:      30,
		Slope:      0.02,
		Transducer: 1.5,
		Start:      time.Date(2021, time.March, 3, 8, 0, 0, 0, time.UTC),
	}
}

// seafloor returns the true depth at along/across metres from the origin.
func (s synthetic) seafloor(along, across float64) float64 {
	ripple := 0.8 * math.Sin(2*math.Pi*along/40) * math.Cos(2*math.Pi*across/60)
	return s.Depth + s.Slope*along + 0.05*across + ripple
}

// position moves dist metres from the origin along the heading, using a
// spherical approximation that is ample for a synthetic line.
func (s synthetic) position(dist float64) (lat, lon float64) {
	const earthRadius = 6371008.8
	h := s.Heading * math.Pi / 180
	dLat := dist * math.Cos(h) / earthRadius
	dLon := dist * math.Sin(h) / (earthRadius * math.Cos(s.Origin.Lat*math.Pi/180))
	return s.Origin.Lat + dLat*180/math.Pi, s.Origin.Lon + dLon*180/math.Pi
}

// write emits one fix then one ping per interval.
func (s synthetic) write(w *datagram.LogWriter) error {
	if s.Pings < 1 || s.Beams < 2 {
		return fmt.Errorf("need at least 1 ping and 2 beams, got %d and %d", s.Pings, s.Beams)
	}
	for i := 0; i < s.Pings; i++ {
		along := float64(i) * s.Speed * s.Interval.Seconds()
		t := s.Start.Add(time.Duration(i) * s.Interval)
		lat, lon := s.position(along)
		fix := datagram.Position{Latitude: lat, Longitude: lon, Heading: s.Heading, HasHeading: true, Descriptor: "GP"}
		if err := w.WritePosition(t, fix); err != nil {
			return err
		}

		d := datagram.Depth{
			BeamCount:       s.Beams,
			Depth:           make([]float64, s.Beams),
			AcrossTrack:     make([]float64, s.Beams),
			TransducerDepth: s.Transducer,
		}
		step := s.Swath / float64(s.Beams-1)
		for b := 0; b < s.Beams; b++ {
			across := -s.Swath/2 + float64(b)*step
			d.AcrossTrack[b] = across
			// Depths are reported below the transducer.
			d.Depth[b] = s.seafloor(along, across) - s.Transducer
		}
		if err := w.WriteDepth(datagram.KindDepth, t.Add(s.Interval/2), d); err != nil {
			return err
		}
	}
	return nil
}

func newGenCmd() *cobra.Command {
	s := defaultSynthetic()
	var output string
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Write a synthetic survey log",
		Long: `Gen writes a survey log for a vessel running a straight line over a
sloped seafloor with sinusoidal ripples. The log can be fed straight back
into render, info and track.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			bw := bufio.NewWriter(f)
			if err := s.write(datagram.NewLogWriter(bw)); err != nil {
				f.Close()
				return err
			}
			if err := bw.Flush(); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d pings, %d beams)\n", output, s.Pings, s.Beams)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "survey.log", "survey log to write")
	cmd.Flags().IntVar(&s.Pings, "pings", s.Pings, "number of pings")
	cmd.Flags().IntVar(&s.Beams, "beams", s.Beams, "beams per ping")
	cmd.Flags().Float64Var(&s.Swath, "swath", s.Swath, "swath width in metres")
	cmd.Flags().Float64Var(&s.Speed, "speed", s.Speed, "vessel speed in m/s")
	cmd.Flags().Float64Var(&s.Heading, "heading", s.Heading, "line heading in degrees")
	cmd.Flags().Float64Var(&s.Depth, "depth", s.Depth, "seafloor depth at the start of the line in metres")
	cmd.Flags().Float64Var(&s.Slope, "slope", s.Slope, "along-track seafloor gradient")
	cmd.Flags().Float64Var(&s.Origin.Lat, "lat", s.Origin.Lat, "latitude of the first fix")
	cmd.Flags().Float64Var(&s.Origin.Lon, "lon", s.Origin.Lon, "longitude of the first fix")
	return cmd
}
