package geo

import (
	"errors"
	"fmt"
)

// Kind classifies a codec failure.
type Kind uint8

// Failure kinds shared by all codecs.
const (
	KindUnrecognizedDocument Kind = iota + 1
	KindUnrecognizedType
	KindMalformedCoordinate
	KindInvalidSRID
	KindUnsupportedCRS
	KindTruncatedBuffer
	KindUnknownTypeCode
	KindInvalidByteOrder
	KindTrailingData
	KindSyntax
	KindTooDeep
)

var kindNames = map[Kind]string{
	KindUnrecognizedDocument: "unrecognized document",
	KindUnrecognizedType:     "unrecognized type",
	KindMalformedCoordinate:  "malformed coordinate",
	KindInvalidSRID:          "invalid srid",
	KindUnsupportedCRS:       "unsupported crs",
	KindTruncatedBuffer:      "truncated buffer",
	KindUnknownTypeCode:      "unknown type code",
	KindInvalidByteOrder:     "invalid byte order",
	KindTrailingData:         "trailing data",
	KindSyntax:               "syntax error",
	KindTooDeep:              "nesting too deep",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is a codec failure carrying the offending input.
type Error struct {
	Kind  Kind
	Input any
}

// Sentinels for errors.Is. They carry no input.
var (
	ErrUnrecognizedDocument = &Error{Kind: KindUnrecognizedDocument}
	ErrUnrecognizedType     = &Error{Kind: KindUnrecognizedType}
	ErrMalformedCoordinate  = &Error{Kind: KindMalformedCoordinate}
	ErrInvalidSRID          = &Error{Kind: KindInvalidSRID}
	ErrUnsupportedCRS       = &Error{Kind: KindUnsupportedCRS}
	ErrTruncatedBuffer      = &Error{Kind: KindTruncatedBuffer}
	ErrUnknownTypeCode      = &Error{Kind: KindUnknownTypeCode}
	ErrInvalidByteOrder     = &Error{Kind: KindInvalidByteOrder}
	ErrTrailingData         = &Error{Kind: KindTrailingData}
	ErrSyntax               = &Error{Kind: KindSyntax}
	ErrTooDeep              = &Error{Kind: KindTooDeep}
)

// ErrNilGeometry is returned by encoders that cannot represent the absence value.
var ErrNilGeometry = errors.New("geo: nil geometry")

// NewError returns an error of the given kind carrying input.
func NewError(kind Kind, input any) *Error {
	return &Error{Kind: kind, Input: input}
}

func (e *Error) Error() string {
	switch in := e.Input.(type) {
	case nil:
		return "geo: " + e.Kind.String()
	case string:
		return fmt.Sprintf("geo: %s: %q", e.Kind, in)
	default:
		return fmt.Sprintf("geo: %s: %v", e.Kind, in)
	}
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
