package report

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Track is a navigation track ready for plotting.
type Track struct {
	Title string
	// Local tracks are east/north metres; others are longitude/latitude.
	Local bool
	X, Y  []float64
}

// NewTrack builds a Track from the pair returned by survey navigation:
// (latitude, longitude) or, when local, (east, north).
func NewTrack(title string, a, b []float64, local bool) Track {
	if local {
		return Track{Title: title, Local: true, X: a, Y: b}
	}
	return Track{Title: title, X: b, Y: a}
}

func (t Track) labels() (x, y string) {
	if t.Local {
		return "East (m)", "North (m)"
	}
	return "Longitude (deg)", "Latitude (deg)"
}

func (t Track) validate() error {
	if len(t.X) != len(t.Y) {
		return fmt.Errorf("track %q has %d x and %d y values", t.Title, len(t.X), len(t.Y))
	}
	if len(t.X) == 0 {
		return fmt.Errorf("track %q is empty", t.Title)
	}
	return nil
}

// SaveTrackPlot draws the track as a line with the start marked and saves
// it to path. The format follows the extension (png, svg, pdf, ...).
func SaveTrackPlot(path string, t Track) error {
	if err := t.validate(); err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = t.Title
	p.X.Label.Text, p.Y.Label.Text = t.labels()
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(t.X))
	for i := range t.X {
		pts[i] = plotter.XY{X: t.X[i], Y: t.Y[i]}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("track", line)

	start, err := plotter.NewScatter(pts[:1])
	if err != nil {
		return err
	}
	start.GlyphStyle.Shape = draw.CircleGlyph{}
	start.GlyphStyle.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	start.GlyphStyle.Radius = vg.Points(3)
	p.Add(start)
	p.Legend.Add("start", start)

	if t.Local {
		equalAspect(p)
	}
	return p.Save(8*vg.Inch, 8*vg.Inch, path)
}

// equalAspect widens the shorter axis so metres are square on the page.
func equalAspect(p *plot.Plot) {
	xr := p.X.Max - p.X.Min
	yr := p.Y.Max - p.Y.Min
	switch {
	case xr > yr:
		mid := (p.Y.Min + p.Y.Max) / 2
		p.Y.Min, p.Y.Max = mid-xr/2, mid+xr/2
	case yr > xr:
		mid := (p.X.Min + p.X.Max) / 2
		p.X.Min, p.X.Max = mid-yr/2, mid+yr/2
	}
}

// WriteTrackHTML renders the track as an interactive scatter coloured by
// fix order.
func WriteTrackHTML(w io.Writer, t Track) error {
	if err := t.validate(); err != nil {
		return err
	}
	data := make([]opts.ScatterData, len(t.X))
	for i := range t.X {
		data[i] = opts.ScatterData{Value: []interface{}{t.X[i], t.Y[i], i}}
	}
	xLabel, yLabel := t.labels()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: t.Title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: t.Title, Subtitle: fmt.Sprintf("fixes=%d", len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: xLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: yLabel, NameLocation: "middle", NameGap: 40}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(len(data) - 1),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("track", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
