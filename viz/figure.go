package viz

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cwbudde/algo-erp/erp"
)

var (
	// ErrMismatch is returned when conditions do not share channels and
	// time axis.
	ErrMismatch = errors.New("viz: conditions do not match")
	// ErrNoData is returned when there is nothing to draw.
	ErrNoData = errors.New("viz: nothing to plot")
	// ErrFormat is returned for an output extension no canvas supports.
	ErrFormat = errors.New("viz: unsupported output format")
)

// Options controls figure appearance. Zero fields take the defaults of
// [DefaultOptions].
type Options struct {
	// Width and Height are the figure size in inches.
	Width, Height float64
	// Band is the shaded latency range in seconds; nil takes DefaultBand.
	Band      *[2]float64
	BandColor color.Color
	// NoBand disables the shaded band.
	NoBand bool
	// Target and NonTarget are the condition names [PlotCompare] shows as
	// TargetLabel and NonTargetLabel.
	Target    string
	NonTarget string
	// TargetLabel and NonTargetLabel name the target and non-target legend
	// entries.
	TargetLabel    string
	NonTargetLabel string
	YLabel         string
	XLabel         string
	Title          string
}

// DefaultBand is the shaded P300 range in seconds.
var DefaultBand = [2]float64{0.25, 0.35}

// DefaultOptions returns the defaults: a grey band over 250-350 ms and
// micro-volt amplitude axes.
func DefaultOptions() Options {
	band := DefaultBand
	return Options{
		Width:          10,
		Height:         8,
		Band:           &band,
		BandColor:      color.NRGBA{R: 128, G: 128, B: 128, A: 77},
		Target:         "Odd",
		NonTarget:      "Standard",
		TargetLabel:    "Target",
		NonTargetLabel: "Non-Target",
		YLabel:         "µV",
		XLabel:         "Time (s)",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	switch {
	case o.NoBand:
		o.Band = nil
	case o.Band == nil:
		o.Band = d.Band
	}
	if o.BandColor == nil {
		o.BandColor = d.BandColor
	}
	if o.Target == "" {
		o.Target = d.Target
	}
	if o.NonTarget == "" {
		o.NonTarget = d.NonTarget
	}
	if o.TargetLabel == "" {
		o.TargetLabel = d.TargetLabel
	}
	if o.NonTargetLabel == "" {
		o.NonTargetLabel = d.NonTargetLabel
	}
	if o.YLabel == "" {
		o.YLabel = d.YLabel
	}
	if o.XLabel == "" {
		o.XLabel = d.XLabel
	}
	return o
}

// legendLabel returns the legend text for the condition name.
func (o Options) legendLabel(name string) string {
	switch name {
	case o.Target:
		return o.TargetLabel
	case o.NonTarget:
		return o.NonTargetLabel
	}
	return name
}

// Figure is a grid of plots ready to be written.
type Figure struct {
	Plots [][]*plot.Plot
	// Bands holds the shaded band of every panel that has one.
	Bands  []*Band
	Width  vg.Length
	Height vg.Length
}

// Rows returns the grid row count.
func (f *Figure) Rows() int { return len(f.Plots) }

// Cols returns the grid column count.
func (f *Figure) Cols() int {
	if len(f.Plots) == 0 {
		return 0
	}
	return len(f.Plots[0])
}

// Save writes the figure to path. The extension selects the format (png,
// svg, pdf, jpg, tiff or eps). Missing parent directories are created.
func (f *Figure) Save(path string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	c, err := draw.NewFormattedCanvas(f.Width, f.Height, ext)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrFormat, ext, err)
	}

	dc := draw.New(c)
	tiles := draw.Tiles{
		Rows:      f.Rows(),
		Cols:      f.Cols(),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(f.Plots, tiles, dc)
	for i, row := range f.Plots {
		for j, p := range row {
			p.Draw(canvases[i][j])
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("viz: create %s: %w", dir, err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("viz: create %s: %w", path, err)
	}
	if _, err := c.WriteTo(out); err != nil {
		out.Close()
		return fmt.Errorf("viz: write %s: %w", path, err)
	}
	return out.Close()
}

// gridShape returns the rows and columns of the most square grid holding n
// panels, preferring more columns.
func gridShape(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return rows, cols
}

// newPanel returns a titled panel and its band, nil when o has none.
func newPanel(title string, o Options) (*plot.Plot, *Band) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = o.XLabel
	p.Y.Label.Text = o.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	if o.Band == nil {
		return p, nil
	}
	b := &Band{From: o.Band[0], To: o.Band[1], Color: o.BandColor}
	p.Add(b)
	return p, b
}

func addLine(p *plot.Plot, label string, times, values []float64, colorIndex int) error {
	xys := make(plotter.XYs, len(times))
	for i := range times {
		xys[i].X = times[i]
		xys[i].Y = values[i]
	}
	l, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("viz: %s: %w", label, err)
	}
	l.LineStyle.Width = vg.Points(1.5)
	l.LineStyle.Color = plotutil.Color(colorIndex)
	p.Add(l)
	p.Legend.Add(label, l)
	return nil
}

func sameShape(a, b *erp.Evoked) error {
	if len(a.Times) != len(b.Times) || len(a.Channels) != len(b.Channels) {
		return fmt.Errorf("%w: %q and %q", ErrMismatch, a.Label, b.Label)
	}
	for i := range a.Channels {
		if !strings.EqualFold(a.Channels[i].Name, b.Channels[i].Name) {
			return fmt.Errorf("%w: channel %d is %s in %q but %s in %q",
				ErrMismatch, i, a.Channels[i].Name, a.Label, b.Channels[i].Name, b.Label)
		}
	}
	return nil
}

// PlotChannels draws one panel per channel, each overlaying the target and
// non-target evoked responses.
func PlotChannels(target, nonTarget *erp.Evoked, opts Options) (*Figure, error) {
	o := opts.withDefaults()
	if target == nil || nonTarget == nil {
		return nil, fmt.Errorf("%w: missing condition", ErrNoData)
	}
	if err := sameShape(target, nonTarget); err != nil {
		return nil, err
	}
	n := len(target.Channels)
	if n == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrNoData)
	}

	rows, cols := gridShape(n)
	fig := &Figure{Width: vg.Length(o.Width) * vg.Inch, Height: vg.Length(o.Height) * vg.Inch}
	grid := make([][]*plot.Plot, rows)
	for r := range grid {
		grid[r] = make([]*plot.Plot, cols)
		for c := range grid[r] {
			k := r*cols + c
			if k >= n {
				p := plot.New()
				p.HideAxes()
				grid[r][c] = p
				continue
			}
			p, band := newPanel(target.Channels[k].Name, o)
			if band != nil {
				fig.Bands = append(fig.Bands, band)
			}
			if err := addLine(p, o.TargetLabel, target.Times, target.Data[k], 1); err != nil {
				return nil, err
			}
			if err := addLine(p, o.NonTargetLabel, nonTarget.Times, nonTarget.Data[k], 0); err != nil {
				return nil, err
			}
			grid[r][c] = p
		}
	}

	fig.Plots = grid
	return fig, nil
}

// PlotCompare overlays the channel-mean waveform of each condition on a
// single panel. Conditions are drawn in name order; the target and
// non-target conditions are labelled like in [PlotChannels].
func PlotCompare(conditions map[string]*erp.Evoked, opts Options) (*Figure, error) {
	o := opts.withDefaults()
	if len(conditions) == 0 {
		return nil, fmt.Errorf("%w: no conditions", ErrNoData)
	}

	names := make([]string, 0, len(conditions))
	for name := range conditions {
		names = append(names, name)
	}
	sort.Strings(names)

	title := o.Title
	if title == "" {
		title = "Channel mean"
	}
	p, band := newPanel(title, o)
	for i, name := range names {
		ev := conditions[name]
		if ev == nil {
			return nil, fmt.Errorf("%w: condition %q is nil", ErrNoData, name)
		}
		if err := addLine(p, o.legendLabel(name), ev.Times, ev.CombineMean(), i); err != nil {
			return nil, err
		}
	}

	if opts.Width <= 0 && opts.Height <= 0 {
		o.Width, o.Height = 8, 5
	}
	fig := &Figure{
		Plots:  [][]*plot.Plot{{p}},
		Width:  vg.Length(o.Width) * vg.Inch,
		Height: vg.Length(o.Height) * vg.Inch,
	}
	if band != nil {
		fig.Bands = []*Band{band}
	}
	return fig, nil
}
