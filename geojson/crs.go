package geojson

import (
	"strconv"
	"strings"

	"github.com/woozymasta/geoconv/geo"
)

const epsgPrefix = "EPSG:"

// ResolveSRID extracts the spatial reference from a "crs" member.
//
// A missing or null crs yields the zero SRID. Only named CRS objects
// ({"type":"name","properties":{"name":...}}) are understood: "EPSG:<digits>"
// becomes an integer code, any other name is kept verbatim.
func ResolveSRID(crs Value) (geo.SRID, error) {
	if IsNull(crs) {
		return geo.SRID{}, nil
	}

	obj, ok := crs.(Object)
	if !ok || obj["type"] != String("name") {
		return geo.SRID{}, geo.NewError(geo.KindUnsupportedCRS, crs)
	}
	props, ok := obj["properties"].(Object)
	if !ok {
		return geo.SRID{}, geo.NewError(geo.KindUnsupportedCRS, crs)
	}
	name, ok := props["name"].(String)
	if !ok {
		return geo.SRID{}, geo.NewError(geo.KindUnsupportedCRS, crs)
	}

	digits, isEPSG := strings.CutPrefix(string(name), epsgPrefix)
	if !isEPSG {
		return geo.Named(string(name)), nil
	}
	code, err := strconv.Atoi(digits)
	if err != nil || digits == "" || digits[0] == '+' || digits[0] == '-' {
		return geo.SRID{}, geo.NewError(geo.KindInvalidSRID, string(name))
	}
	return geo.Code(code), nil
}

// crsValue is the inverse of ResolveSRID.
func crsValue(srid geo.SRID) Value {
	name := srid.String()
	if code, ok := srid.Int(); ok {
		name = epsgPrefix + strconv.Itoa(code)
	}
	return Object{
		"type":       String("name"),
		"properties": Object{"name": String(name)},
	}
}
