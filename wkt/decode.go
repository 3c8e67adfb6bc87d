// Package wkt reads and writes Well Known Text, including the EWKT
// `SRID=n;` prefix. Only 2D and Z geometries are supported.
package wkt

import (
	"math"
	"strconv"
	"strings"

	"github.com/woozymasta/geoconv/geo"
)

var tags = map[string]geo.Type{
	"POINT":              geo.TypePoint,
	"LINESTRING":         geo.TypeLineString,
	"POLYGON":            geo.TypePolygon,
	"MULTIPOINT":         geo.TypeMultiPoint,
	"MULTILINESTRING":    geo.TypeMultiLineString,
	"MULTIPOLYGON":       geo.TypeMultiPolygon,
	"GEOMETRYCOLLECTION": geo.TypeGeometryCollection,
}

// Decode parses one geometry, optionally prefixed with `SRID=n;`.
func Decode(s string) (geo.Geometry, error) {
	toks, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	p := parser{toks: toks}

	srid, err := p.srid()
	if err != nil {
		return nil, err
	}
	g, err := p.geometry()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.syntax(t)
	}
	if !srid.IsZero() {
		g = geo.WithSRID(g, srid)
	}
	return g, nil
}

// MustDecode is like Decode but panics on error.
func MustDecode(s string) geo.Geometry {
	g, err := Decode(s)
	if err != nil {
		panic(err)
	}
	return g
}

// MaxDepth bounds the nesting of geometries inside collections.
const MaxDepth = 64

type parser struct {
	toks []token
	i    int
	// dim is the coordinate arity of the geometry being parsed, 0 until known.
	dim   int
	depth int
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) syntax(t token) error {
	return geo.NewError(geo.KindSyntax, Position{Offset: t.off, Token: t.text})
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.syntax(t)
	}
	return t, nil
}

// keyword consumes the next token if it is the word w in any case.
func (p *parser) keyword(w string) bool {
	if p.isWord(w) {
		p.i++
		return true
	}
	return false
}

func (p *parser) isWord(w string) bool {
	t := p.peek()
	return t.kind == tokWord && strings.EqualFold(t.text, w)
}

func (p *parser) srid() (geo.SRID, error) {
	if !p.keyword("SRID") {
		return geo.SRID{}, nil
	}
	if _, err := p.expect(tokEquals); err != nil {
		return geo.SRID{}, err
	}

	t := p.next()
	if t.kind != tokNumber && t.kind != tokWord {
		return geo.SRID{}, p.syntax(t)
	}
	n, err := strconv.Atoi(t.text)
	if err != nil || n < 0 {
		return geo.SRID{}, geo.NewError(geo.KindInvalidSRID, t.text)
	}

	if _, err := p.expect(tokSemicolon); err != nil {
		return geo.SRID{}, err
	}
	return geo.Code(n), nil
}

// typeTag reads the geometry tag and its Z marker, either glued (POINTZ) or
// as a separate keyword (POINT Z).
func (p *parser) typeTag() (geo.Type, bool, error) {
	t, err := p.expect(tokWord)
	if err != nil {
		return geo.TypeUnknown, false, err
	}

	tag := strings.ToUpper(t.text)
	base, ok := tags[tag]
	z := false
	if !ok && strings.HasSuffix(tag, "Z") {
		base, ok = tags[strings.TrimSuffix(tag, "Z")]
		z = true
	}
	if !ok {
		return geo.TypeUnknown, false, geo.NewError(geo.KindUnrecognizedType, t.text)
	}

	if !z {
		switch {
		case p.keyword("Z"):
			z = true
		case p.isWord("M"), p.isWord("ZM"):
			return geo.TypeUnknown, false, geo.NewError(geo.KindUnrecognizedType, t.text+" "+p.peek().text)
		}
	}
	return base, z, nil
}

func (p *parser) geometry() (geo.Geometry, error) {
	if p.depth >= MaxDepth {
		t := p.peek()
		return nil, geo.NewError(geo.KindTooDeep, Position{Offset: t.off, Token: t.text})
	}
	p.depth++
	defer func() { p.depth-- }()

	base, z, err := p.typeTag()
	if err != nil {
		return nil, err
	}

	saved := p.dim
	defer func() { p.dim = saved }()
	p.dim = 0
	if z {
		p.dim = 3
	}

	switch base {
	case geo.TypePoint:
		var seq []float64
		if !p.keyword("EMPTY") {
			if seq, err = p.parenthesized(); err != nil {
				return nil, err
			}
		}
		return p.point(seq)

	case geo.TypeLineString, geo.TypeMultiPoint:
		item := p.coord
		if base == geo.TypeMultiPoint {
			item = p.multiPointMember
		}
		seqs, err := emptyOr(p, func() ([][]float64, error) { return list(p, item) })
		if err != nil {
			return nil, err
		}
		return build1(base, p.is3D(), seqs)

	case geo.TypePolygon, geo.TypeMultiLineString:
		seqs, err := p.rings()
		if err != nil {
			return nil, err
		}
		return build2(base, p.is3D(), seqs)

	case geo.TypeMultiPolygon:
		seqs, err := emptyOr(p, func() ([][][][]float64, error) { return list(p, p.rings) })
		if err != nil {
			return nil, err
		}
		if p.is3D() {
			cs, err := depth3(seqs, triple)
			if err != nil {
				return nil, err
			}
			return geo.MultiPolygonZ{Coordinates: cs}, nil
		}
		cs, err := depth3(seqs, pair)
		if err != nil {
			return nil, err
		}
		return geo.MultiPolygon{Coordinates: cs}, nil

	case geo.TypeGeometryCollection:
		// members carry their own dimensions, so a Z marker here is ignored
		gs, err := emptyOr(p, func() ([]geo.Geometry, error) { return list(p, p.geometry) })
		if err != nil {
			return nil, err
		}
		return geo.GeometryCollection{Geometries: gs}, nil
	}
	return nil, geo.NewError(geo.KindUnrecognizedType, base.String())
}

func (p *parser) is3D() bool {
	return p.dim == 3
}

func (p *parser) point(seq []float64) (geo.Geometry, error) {
	switch {
	case p.is3D() && seq == nil:
		return geo.PointZ{}, nil
	case p.is3D():
		c, err := geo.TripleFromSequence(seq)
		if err != nil {
			return nil, err
		}
		return geo.PointZ{Coordinates: &c}, nil
	case seq == nil:
		return geo.Point{}, nil
	}
	c, err := geo.PairFromSequence(seq)
	if err != nil {
		return nil, err
	}
	return geo.Point{Coordinates: &c}, nil
}

// coord reads 2 or 3 numbers, matching the arity already seen.
func (p *parser) coord() ([]float64, error) {
	start := p.peek()
	var seq []float64
	for p.peek().kind == tokNumber {
		seq = append(seq, p.next().num)
	}
	if len(seq) == 0 {
		return nil, p.syntax(start)
	}
	if n := len(seq); n < 2 || n > 3 || (p.dim != 0 && n != p.dim) {
		return nil, geo.NewError(geo.KindMalformedCoordinate, Position{Offset: start.off, Token: start.text})
	}
	p.dim = len(seq)
	return seq, nil
}

func (p *parser) parenthesized() ([]float64, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	seq, err := p.coord()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return seq, nil
}

// multiPointMember accepts `1 2`, `(1 2)` and `EMPTY`. An empty member is
// returned as nil.
func (p *parser) multiPointMember() ([]float64, error) {
	switch {
	case p.keyword("EMPTY"):
		return nil, nil
	case p.peek().kind == tokLParen:
		return p.parenthesized()
	}
	return p.coord()
}

func (p *parser) line() ([][]float64, error) {
	return emptyOr(p, func() ([][]float64, error) { return list(p, p.coord) })
}

func (p *parser) rings() ([][][]float64, error) {
	return emptyOr(p, func() ([][][]float64, error) { return list(p, p.line) })
}

// emptyOr returns an empty slice for EMPTY and parses with body otherwise.
func emptyOr[T any](p *parser, body func() ([]T, error)) ([]T, error) {
	if p.keyword("EMPTY") {
		return []T{}, nil
	}
	return body()
}

// list parses `( item {, item} )`.
func list[T any](p *parser, item func() (T, error)) ([]T, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	var out []T
	for {
		v, err := item()
		if err != nil {
			return nil, err
		}
		out = append(out, v)

		switch t := p.next(); t.kind {
		case tokRParen:
			return out, nil
		case tokComma:
		default:
			return nil, p.syntax(t)
		}
	}
}

func pair(seq []float64) (geo.XY, error) {
	if seq == nil {
		return geo.XY{X: math.NaN(), Y: math.NaN()}, nil
	}
	return geo.PairFromSequence(seq)
}

func triple(seq []float64) (geo.XYZ, error) {
	if seq == nil {
		return geo.XYZ{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}, nil
	}
	return geo.TripleFromSequence(seq)
}

func depth2[C any](seqs [][][]float64, leaf func([]float64) (C, error)) ([][]C, error) {
	return geo.Map(seqs, func(s [][]float64) ([]C, error) { return geo.Map(s, leaf) })
}

func depth3[C any](seqs [][][][]float64, leaf func([]float64) (C, error)) ([][][]C, error) {
	return geo.Map(seqs, func(s [][][]float64) ([][]C, error) { return depth2(s, leaf) })
}

func build1(base geo.Type, z bool, seqs [][]float64) (geo.Geometry, error) {
	if z {
		cs, err := geo.Map(seqs, triple)
		if err != nil {
			return nil, err
		}
		if base == geo.TypeMultiPoint {
			return geo.MultiPointZ{Coordinates: cs}, nil
		}
		return geo.LineStringZ{Coordinates: cs}, nil
	}

	cs, err := geo.Map(seqs, pair)
	if err != nil {
		return nil, err
	}
	if base == geo.TypeMultiPoint {
		return geo.MultiPoint{Coordinates: cs}, nil
	}
	return geo.LineString{Coordinates: cs}, nil
}

func build2(base geo.Type, z bool, seqs [][][]float64) (geo.Geometry, error) {
	if z {
		cs, err := depth2(seqs, triple)
		if err != nil {
			return nil, err
		}
		if base == geo.TypeMultiLineString {
			return geo.MultiLineStringZ{Coordinates: cs}, nil
		}
		return geo.PolygonZ{Coordinates: cs}, nil
	}

	cs, err := depth2(seqs, pair)
	if err != nil {
		return nil, err
	}
	if base == geo.TypeMultiLineString {
		return geo.MultiLineString{Coordinates: cs}, nil
	}
	return geo.Polygon{Coordinates: cs}, nil
}
