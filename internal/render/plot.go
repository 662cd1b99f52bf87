package render

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/i474232898/wind-station/internal/wind"
)

// plot maps sample index and km/h onto the drawing area of a canvas.
type plot struct {
	dc                       *gg.Context
	n                        int
	yMax                     float64
	left, right, top, bottom float64
}

func newPlot(dc *gg.Context, t wind.Tables) *plot {
	return &plot{
		dc:     dc,
		n:      t.Len(),
		yMax:   math.Ceil(math.Max(maxOf(t.Speeds, t.Gusts), minAxisKmh)/10) * 10,
		left:   45,
		right:  float64(dc.Width()) - 20,
		top:    35,
		bottom: float64(dc.Height()) - 45,
	}
}

func (p *plot) step() float64 {
	if p.n <= 1 {
		return p.right - p.left
	}
	return (p.right - p.left) / float64(p.n-1)
}

func (p *plot) x(i int) float64 {
	if p.n <= 1 {
		return (p.left + p.right) / 2
	}
	return p.left + float64(i)*p.step()
}

func (p *plot) y(v float64) float64 {
	return p.bottom - v/p.yMax*(p.bottom-p.top)
}

func (p *plot) axes(times []string) {
	dc := p.dc

	dc.SetLineWidth(1)
	for v := 0.0; v <= p.yMax; v += 10 {
		dc.SetHexColor(colorGrid)
		dc.DrawLine(p.left, p.y(v), p.right, p.y(v))
		dc.Stroke()
		dc.SetHexColor(colorText)
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", v), p.left-6, p.y(v), 1, 0.5)
	}

	dc.SetHexColor(colorText)
	dc.DrawLine(p.left, p.bottom, p.right, p.bottom)
	dc.DrawLine(p.left, p.top, p.left, p.bottom)
	dc.Stroke()

	// at most ~10 time labels
	every := int(math.Ceil(float64(len(times)) / 10))
	if every < 1 {
		every = 1
	}
	for i := 0; i < len(times); i += every {
		dc.DrawStringAnchored(times[i], p.x(i), p.bottom+14, 0.5, 0.5)
	}
}

func (p *plot) line(values []float64, hex string, dash []float64) {
	dc := p.dc
	dc.SetHexColor(hex)
	dc.SetLineWidth(2)
	dc.SetDash(dash...)
	for i, v := range values {
		if i == 0 {
			dc.MoveTo(p.x(i), p.y(v))
			continue
		}
		dc.LineTo(p.x(i), p.y(v))
	}
	dc.Stroke()
	dc.SetDash()

	for i, v := range values {
		dc.DrawCircle(p.x(i), p.y(v), 3)
	}
	dc.Fill()
}

// labels prints each value in km/h above its marker.
func (p *plot) labels(values []float64) {
	dc := p.dc
	dc.SetHexColor(colorText)
	for i, v := range values {
		dc.DrawStringAnchored(fmt.Sprintf("%.0f km/h", v), p.x(i), p.y(v)-6, 0.5, 1)
	}
}

func (p *plot) legend() {
	dc := p.dc
	y := float64(dc.Height()) - 14

	dc.SetLineWidth(2)
	dc.SetHexColor(colorSpeedLine)
	dc.DrawLine(p.left, y, p.left+24, y)
	dc.Stroke()
	dc.SetHexColor(colorText)
	dc.DrawStringAnchored("average wind", p.left+30, y, 0, 0.5)

	dc.SetHexColor(colorGust)
	dc.SetDash(6, 4)
	dc.DrawLine(p.left+140, y, p.left+164, y)
	dc.Stroke()
	dc.SetDash()
	dc.SetHexColor(colorText)
	dc.DrawStringAnchored("max gust", p.left+170, y, 0, 0.5)
}
