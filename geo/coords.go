package geo

// PairFromSequence returns the first two elements of seq as a coordinate.
// Extra elements are ignored.
func PairFromSequence(seq []float64) (XY, error) {
	if len(seq) < 2 {
		return XY{}, NewError(KindMalformedCoordinate, seq)
	}
	return XY{X: seq[0], Y: seq[1]}, nil
}

// TripleFromSequence returns seq as a coordinate with elevation.
// seq must hold exactly three elements.
func TripleFromSequence(seq []float64) (XYZ, error) {
	if len(seq) != 3 {
		return XYZ{}, NewError(KindMalformedCoordinate, seq)
	}
	return XYZ{X: seq[0], Y: seq[1], Z: seq[2]}, nil
}

// Sequence returns c as an ordered pair.
func (c XY) Sequence() []float64 { return []float64{c.X, c.Y} }

// Sequence returns c as an ordered triple.
func (c XYZ) Sequence() []float64 { return []float64{c.X, c.Y, c.Z} }

// Map applies leaf to every element of seq and stops at the first error.
// Deeper nestings are built by passing a leaf that itself calls Map.
func Map[S, C any](seq []S, leaf func(S) (C, error)) ([]C, error) {
	out := make([]C, len(seq))
	for i, s := range seq {
		c, err := leaf(s)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
