// Package geojson decodes and encodes geometries as geographic JSON trees.
//
// The engine works on Value, a small recursive tree independent of any JSON
// library. Parse and Marshal bridge it to JSON text; FromAny and ToAny bridge it
// to the plain Go trees produced by JSON or YAML decoders.
package geojson

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/woozymasta/geoconv/geo"

	json "github.com/goccy/go-json"
)

// Value is one node of a parsed document: Object, Array, Number, String, Bool or Null.
// A nil Value is treated as Null.
type Value interface {
	isValue()
}

type (
	// Object is a JSON object.
	Object map[string]Value
	// Array is a JSON array.
	Array []Value
	// Number is a JSON number.
	Number float64
	// String is a JSON string.
	String string
	// Bool is a JSON boolean.
	Bool bool
	// Null is the JSON null.
	Null struct{}
)

func (Object) isValue() {}
func (Array) isValue()  {}
func (Number) isValue() {}
func (String) isValue() {}
func (Bool) isValue()   {}
func (Null) isValue()   {}

// IsNull reports whether v is nil or Null.
func IsNull(v Value) bool {
	switch v.(type) {
	case nil, Null:
		return true
	}
	return false
}

type float64er interface {
	Float64() (float64, error)
}

// FromAny converts a plain Go tree (maps, slices, numbers, strings, bools, nil)
// into a Value. It accepts the output of JSON and YAML decoders.
func FromAny(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case float64:
		return Number(v), nil
	case float32:
		return Number(v), nil
	case int:
		return Number(v), nil
	case int8:
		return Number(v), nil
	case int16:
		return Number(v), nil
	case int32:
		return Number(v), nil
	case int64:
		return Number(v), nil
	case uint:
		return Number(v), nil
	case uint8:
		return Number(v), nil
	case uint16:
		return Number(v), nil
	case uint32:
		return Number(v), nil
	case uint64:
		return Number(v), nil
	case float64er:
		f, err := v.Float64()
		if err != nil {
			return nil, geo.NewError(geo.KindSyntax, fmt.Sprint(v))
		}
		return Number(f), nil
	case []any:
		arr := make(Array, len(v))
		for i, e := range v {
			ev, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			arr[i] = ev
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(v))
		for k, e := range v {
			ev, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			obj[k] = ev
		}
		return obj, nil
	case map[any]any:
		obj := make(Object, len(v))
		for k, e := range v {
			ev, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			obj[fmt.Sprint(k)] = ev
		}
		return obj, nil
	}

	// typed slices and maps, e.g. []float64 or map[string]string
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		arr := make(Array, rv.Len())
		for i := range arr {
			ev, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			arr[i] = ev
		}
		return arr, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		obj := make(Object, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := FromAny(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			obj[iter.Key().String()] = ev
		}
		return obj, nil
	}
	return nil, geo.NewError(geo.KindUnrecognizedDocument, fmt.Sprintf("%T", v))
}

// ToAny converts v into plain Go values: map[string]any, []any, float64,
// string, bool and nil.
func ToAny(v Value) any {
	switch v := v.(type) {
	case Object:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = ToAny(e)
		}
		return m
	case Array:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = ToAny(e)
		}
		return s
	case Number:
		return float64(v)
	case String:
		return string(v)
	case Bool:
		return bool(v)
	}
	return nil
}

// Parse reads JSON text into a Value. Anything but whitespace after the
// first value is trailing data.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, geo.NewError(geo.KindSyntax, err.Error())
	}
	end := dec.InputOffset()

	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, geo.NewError(geo.KindTrailingData, len(data)-int(end))
	}
	return FromAny(raw)
}

// Format writes v as compact JSON text. Non-finite numbers are rejected.
func Format(v Value) ([]byte, error) {
	if err := checkFinite(v); err != nil {
		return nil, err
	}
	return json.Marshal(ToAny(v))
}

func checkFinite(v Value) error {
	switch v := v.(type) {
	case Number:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return geo.NewError(geo.KindMalformedCoordinate, float64(v))
		}
	case Array:
		for _, e := range v {
			if err := checkFinite(e); err != nil {
				return err
			}
		}
	case Object:
		for _, e := range v {
			if err := checkFinite(e); err != nil {
				return err
			}
		}
	}
	return nil
}
