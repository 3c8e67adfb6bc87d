// Package render draws geometry previews and encodes them as WebP.
package render

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/woozymasta/geoconv/geo"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// supersample is the factor of the working canvas over the output size.
const supersample = 2

// Options controls the preview.
type Options struct {
	Size       int
	Padding    int
	LineWidth  float32
	Background color.RGBA
	Fill       color.RGBA
	Stroke     color.RGBA
	Quality    float32
	Lossless   bool
}

// DefaultOptions returns a square 256 px preview.
func DefaultOptions() Options {
	return Options{
		Size:       256,
		Padding:    12,
		LineWidth:  2,
		Background: color.RGBA{R: 0xf4, G: 0xf1, B: 0xea, A: 0xff},
		Fill:       color.RGBA{R: 0x3b, G: 0x82, B: 0xc4, A: 0x99},
		Stroke:     color.RGBA{R: 0x1d, G: 0x3f, B: 0x72, A: 0xff},
		Quality:    85,
	}
}

// Render draws g. North is up; the geometry is scaled to fit with equal axes.
func Render(g geo.Geometry, opts Options) (*image.RGBA, error) {
	if opts.Size <= 0 {
		return nil, errors.Errorf("invalid preview size %d", opts.Size)
	}

	var s shapes
	s.collect(g)

	size := opts.Size * supersample
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Background), image.Point{}, xdraw.Src)

	if b, ok := s.bounds(); ok {
		p := newProjection(b, size, opts.Padding*supersample)
		width := opts.LineWidth * supersample

		for _, poly := range s.polygons {
			z := vector.NewRasterizer(size, size)
			for _, ring := range poly {
				path(z, p, ring, true)
			}
			z.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Fill), image.Point{})
		}

		z := vector.NewRasterizer(size, size)
		for _, poly := range s.polygons {
			for _, ring := range poly {
				stroke(z, p, ring, width)
			}
		}
		for _, line := range s.lines {
			stroke(z, p, line, width)
		}
		for _, pt := range s.points {
			square(z, p, pt, width*2)
		}
		z.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Stroke), image.Point{})
	}

	out := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
	return out, nil
}

// WebP renders g and writes it to w.
func WebP(w io.Writer, g geo.Geometry, opts Options) error {
	img, err := Render(g, opts)
	if err != nil {
		return err
	}
	if err := webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: opts.Quality}); err != nil {
		return errors.Wrap(err, "encode webp")
	}
	return nil
}

// shapes is g flattened to 2D drawing primitives.
type shapes struct {
	polygons [][][]geo.XY
	lines    [][]geo.XY
	points   []geo.XY
}

func (s *shapes) collect(g geo.Geometry) {
	switch g := g.(type) {
	case geo.Point:
		if g.Coordinates != nil {
			s.points = append(s.points, *g.Coordinates)
		}
	case geo.PointZ:
		if g.Coordinates != nil {
			s.points = append(s.points, flat(*g.Coordinates))
		}
	case geo.LineString:
		s.lines = append(s.lines, g.Coordinates)
	case geo.LineStringZ:
		s.lines = append(s.lines, flat1(g.Coordinates))
	case geo.Polygon:
		s.polygons = append(s.polygons, g.Coordinates)
	case geo.PolygonZ:
		s.polygons = append(s.polygons, flat2(g.Coordinates))
	case geo.MultiPoint:
		s.points = append(s.points, g.Coordinates...)
	case geo.MultiPointZ:
		s.points = append(s.points, flat1(g.Coordinates)...)
	case geo.MultiLineString:
		s.lines = append(s.lines, g.Coordinates...)
	case geo.MultiLineStringZ:
		s.lines = append(s.lines, flat2(g.Coordinates)...)
	case geo.MultiPolygon:
		s.polygons = append(s.polygons, g.Coordinates...)
	case geo.MultiPolygonZ:
		for _, p := range g.Coordinates {
			s.polygons = append(s.polygons, flat2(p))
		}
	case geo.GeometryCollection:
		for _, m := range g.Geometries {
			s.collect(m)
		}
	}
}

func (s *shapes) bounds() (box, bool) {
	b := box{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for _, poly := range s.polygons {
		for _, ring := range poly {
			b.add(ring...)
		}
	}
	for _, line := range s.lines {
		b.add(line...)
	}
	b.add(s.points...)
	return b, b.minX <= b.maxX
}

func flat(c geo.XYZ) geo.XY {
	return geo.XY{X: c.X, Y: c.Y}
}

func flat1(cs []geo.XYZ) []geo.XY {
	out := make([]geo.XY, len(cs))
	for i, c := range cs {
		out[i] = flat(c)
	}
	return out
}

func flat2(css [][]geo.XYZ) [][]geo.XY {
	out := make([][]geo.XY, len(css))
	for i, cs := range css {
		out[i] = flat1(cs)
	}
	return out
}
