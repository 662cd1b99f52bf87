package render

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/i474232898/wind-station/internal/wind"
)

// Mode is the client device class a chart is drawn for.
type Mode int

const (
	ModeDesktop Mode = iota
	ModeMobile
)

func (m Mode) String() string {
	if m == ModeMobile {
		return "mobile"
	}
	return "desktop"
}

// Kind selects the chart form.
type Kind string

const (
	KindRose  Kind = "rose"
	KindTrend Kind = "trend"
)

const (
	colorBackground = "#FFFFFF"
	colorText       = "#000000"
	colorGrid       = "#DDDDDD"
	colorSpeedBar   = "#87CEEB"
	colorSpeedLine  = "#1F4FE0"
	colorGust       = "#E02020"

	minAxisKmh = 30.0
)

// Renderer draws wind tables into images.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer returns a renderer sized for the dashboard page.
func NewRenderer() *Renderer {
	return &Renderer{Width: 800, Height: 480}
}

// Draw picks the chart form for kind and mode. On mobile the trend becomes the compact bar chart.
func (r *Renderer) Draw(kind Kind, mode Mode, t wind.Tables) (*gg.Context, error) {
	switch kind {
	case KindRose:
		return r.Rose(t), nil
	case KindTrend:
		if mode == ModeMobile {
			return r.Compact(t), nil
		}
		return r.Trend(t), nil
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
}

func (r *Renderer) newCanvas(width, height int, title string) *gg.Context {
	dc := gg.NewContext(width, height)
	dc.SetHexColor(colorBackground)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetHexColor(colorText)
	dc.DrawStringAnchored(title, float64(width)/2, 16, 0.5, 0.5)
	return dc
}

func drawNoData(dc *gg.Context) {
	dc.SetHexColor(colorText)
	dc.DrawStringAnchored("No data yet for today", float64(dc.Width())/2, float64(dc.Height())/2, 0.5, 0.5)
}

// Rose draws one wedge per sample at its bearing, north up and clockwise, with
// length proportional to the average speed.
func (r *Renderer) Rose(t wind.Tables) *gg.Context {
	size := r.Height
	dc := r.newCanvas(size, size, "Wind rose")
	if t.NoData {
		drawNoData(dc)
		return dc
	}

	cx, cy := float64(size)/2, float64(size)/2+10
	radius := float64(size)/2 - 40
	maxSpeed := math.Max(maxOf(t.Speeds), 1)

	dc.SetHexColor(colorGrid)
	dc.SetLineWidth(1)
	for i := 1; i <= 4; i++ {
		dc.DrawCircle(cx, cy, radius*float64(i)/4)
		dc.Stroke()
	}

	dc.SetHexColor(colorText)
	for i, o := range wind.Octants {
		a := screenAngle(float64(i) * 45)
		dc.DrawStringAnchored(string(o), cx+(radius+14)*math.Cos(a), cy+(radius+14)*math.Sin(a), 0.5, 0.5)
	}

	half := gg.Radians(22.5) / 2
	for i, deg := range t.Directions {
		length := t.Speeds[i] / maxSpeed * radius
		if length <= 0 {
			continue
		}
		a := screenAngle(deg)
		dc.NewSubPath()
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, length, a-half, a+half)
		dc.ClosePath()
		dc.SetHexColor(colorSpeedBar)
		dc.FillPreserve()
		dc.SetHexColor(colorText)
		dc.SetLineWidth(0.5)
		dc.Stroke()
	}
	return dc
}

// Trend draws the full-day line chart: average speed solid, max gust dashed.
func (r *Renderer) Trend(t wind.Tables) *gg.Context {
	dc := r.newCanvas(r.Width, r.Height, "Wind speed & gusts over the day (km/h)")
	if t.NoData {
		drawNoData(dc)
		return dc
	}

	p := newPlot(dc, t)
	p.axes(t.Times)

	p.line(t.Speeds, colorSpeedLine, nil)
	p.line(t.Gusts, colorGust, []float64{6, 4})
	p.labels(t.Speeds)
	p.legend()
	return dc
}

// Compact draws bars of the given speeds with the gusts as a dashed overlay, for narrow screens.
func (r *Renderer) Compact(t wind.Tables) *gg.Context {
	dc := r.newCanvas(r.Width/2+200, r.Height/2+60, "Wind & gusts (latest readings)")
	if t.NoData {
		drawNoData(dc)
		return dc
	}

	p := newPlot(dc, t)
	p.axes(t.Times)

	barWidth := p.step() * 0.6
	dc.SetHexColor(colorSpeedBar)
	for i, v := range t.Speeds {
		x, y := p.x(i), p.y(v)
		dc.DrawRectangle(x-barWidth/2, y, barWidth, p.bottom-y)
	}
	dc.Fill()

	p.line(t.Gusts, colorGust, []float64{6, 4})
	p.legend()
	return dc
}

func screenAngle(deg float64) float64 {
	// gg measures angles clockwise from +x because y grows downward.
	return gg.Radians(deg - 90)
}

func maxOf(values ...[]float64) float64 {
	m := math.Inf(-1)
	for _, vs := range values {
		for _, v := range vs {
			m = math.Max(m, v)
		}
	}
	if math.IsInf(m, -1) {
		return 0
	}
	return m
}
