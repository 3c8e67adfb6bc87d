package render

import (
	"math"

	"github.com/woozymasta/geoconv/geo"

	"golang.org/x/image/vector"
)

type box struct {
	minX, minY, maxX, maxY float64
}

// add extends the box; NaN coordinates (empty points) are skipped.
func (b *box) add(cs ...geo.XY) {
	for _, c := range cs {
		if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) {
			continue
		}
		b.minX = math.Min(b.minX, c.X)
		b.minY = math.Min(b.minY, c.Y)
		b.maxX = math.Max(b.maxX, c.X)
		b.maxY = math.Max(b.maxY, c.Y)
	}
}

// projection maps world coordinates onto canvas pixels.
type projection struct {
	scale          float64
	offX, offY     float64
	minX, minY     float64
	size           float64
}

func newProjection(b box, size, pad int) projection {
	span := math.Max(b.maxX-b.minX, b.maxY-b.minY)
	inner := float64(size - 2*pad)
	scale := 1.0
	if span > 0 {
		scale = inner / span
	}
	return projection{
		scale: scale,
		minX:  b.minX,
		minY:  b.minY,
		size:  float64(size),
		// center the shorter axis
		offX: float64(pad) + (inner-(b.maxX-b.minX)*scale)/2,
		offY: float64(pad) + (inner-(b.maxY-b.minY)*scale)/2,
	}
}

func (p projection) apply(c geo.XY) (float32, float32) {
	x := p.offX + (c.X-p.minX)*p.scale
	y := p.size - (p.offY + (c.Y-p.minY)*p.scale)
	return float32(x), float32(y)
}

func valid(c geo.XY) bool {
	return !math.IsNaN(c.X) && !math.IsNaN(c.Y) && !math.IsInf(c.X, 0) && !math.IsInf(c.Y, 0)
}

// path adds the outline of cs to z.
func path(z *vector.Rasterizer, p projection, cs []geo.XY, closed bool) {
	started := false
	for _, c := range cs {
		if !valid(c) {
			continue
		}
		x, y := p.apply(c)
		if !started {
			z.MoveTo(x, y)
			started = true
			continue
		}
		z.LineTo(x, y)
	}
	if started && closed {
		z.ClosePath()
	}
}

// stroke adds each segment of cs as a quad of the given width.
func stroke(z *vector.Rasterizer, p projection, cs []geo.XY, width float32) {
	half := width / 2
	for i := 1; i < len(cs); i++ {
		if !valid(cs[i-1]) || !valid(cs[i]) {
			continue
		}
		x0, y0 := p.apply(cs[i-1])
		x1, y1 := p.apply(cs[i])

		dx, dy := x1-x0, y1-y0
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half

		z.MoveTo(x0+nx, y0+ny)
		z.LineTo(x1+nx, y1+ny)
		z.LineTo(x1-nx, y1-ny)
		z.LineTo(x0-nx, y0-ny)
		z.ClosePath()
	}
}

func square(z *vector.Rasterizer, p projection, c geo.XY, side float32) {
	if !valid(c) {
		return
	}
	x, y := p.apply(c)
	h := side / 2
	z.MoveTo(x-h, y-h)
	z.LineTo(x+h, y-h)
	z.LineTo(x+h, y+h)
	z.LineTo(x-h, y+h)
	z.ClosePath()
}
