package coerce

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/paulmach/orb"
)

var pointType = reflect.TypeOf(orb.Point{})

// PointHook decodes geo points into orb.Point. Accepted raw forms:
//   - {"lat": 48.85, "lon": 2.35} (also "latitude"/"longitude")
//   - "48.85,2.35" (lat,lon)
//   - [2.35, 48.85] (GeoJSON order: lon, lat)
func PointHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != pointType {
			return data, nil
		}
		switch data.(type) {
		case orb.Point, map[string]any, string, []any:
			return ParsePoint(data)
		}
		return data, nil
	}
}

// IntegralHook rejects floating-point values with a fractional part bound
// for integer fields. Without it 1.7 would be truncated to 1.
func IntegralHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
			return data, nil
		}
		switch to.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return data, nil
		}
		if f := reflect.ValueOf(data).Float(); f != math.Trunc(f) {
			return nil, fmt.Errorf("%v is not an integer", f)
		}
		return data, nil
	}
}

// ParsePoint converts one of the raw forms accepted by PointHook into an
// orb.Point. Coordinates are range checked.
func ParsePoint(raw any) (orb.Point, error) {
	switch v := raw.(type) {
	case orb.Point:
		return newPoint(v.Lat(), v.Lon())
	case map[string]any:
		lat, okLat := pointField(v, "lat", "latitude")
		lon, okLon := pointField(v, "lon", "longitude")
		if !okLat || !okLon {
			return orb.Point{}, fmt.Errorf("geo point requires numeric lat and lon")
		}
		return newPoint(lat, lon)
	case string:
		latStr, lonStr, ok := strings.Cut(v, ",")
		if !ok {
			return orb.Point{}, fmt.Errorf("geo point %q must be \"lat,lon\"", v)
		}
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
		if errLat != nil || errLon != nil {
			return orb.Point{}, fmt.Errorf("geo point %q must be \"lat,lon\"", v)
		}
		return newPoint(lat, lon)
	case []any:
		if len(v) != 2 {
			return orb.Point{}, fmt.Errorf("geo point requires [lon, lat], got %d values", len(v))
		}
		lon, okLon := toFloat(v[0])
		lat, okLat := toFloat(v[1])
		if !okLat || !okLon {
			return orb.Point{}, fmt.Errorf("geo point requires numeric [lon, lat]")
		}
		return newPoint(lat, lon)
	}
	return orb.Point{}, fmt.Errorf("unsupported geo point value %T", raw)
}

func newPoint(lat, lon float64) (orb.Point, error) {
	if lat < -90 || lat > 90 {
		return orb.Point{}, fmt.Errorf("latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return orb.Point{}, fmt.Errorf("longitude %v out of range", lon)
	}
	return orb.Point{lon, lat}, nil
}

func pointField(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return toFloat(v)
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}
