package geo

import "strconv"

// SRID identifies a spatial reference system, either by integer code or by name.
// The zero value means the reference is unspecified.
type SRID struct {
	name  string
	code  int
	set   bool
	named bool
}

// Code returns an SRID holding an integer code such as 4326.
func Code(n int) SRID {
	return SRID{code: n, set: true}
}

// Named returns an SRID holding a raw reference name.
func Named(name string) SRID {
	return SRID{name: name, set: true, named: true}
}

// IsZero reports whether the reference is absent.
func (s SRID) IsZero() bool { return !s.set }

// Int returns the integer code, if s holds one.
func (s SRID) Int() (int, bool) {
	if !s.set || s.named {
		return 0, false
	}
	return s.code, true
}

// Name returns the raw name, if s holds one.
func (s SRID) Name() (string, bool) {
	if !s.set || !s.named {
		return "", false
	}
	return s.name, true
}

func (s SRID) String() string {
	switch {
	case !s.set:
		return ""
	case s.named:
		return s.name
	default:
		return strconv.Itoa(s.code)
	}
}
