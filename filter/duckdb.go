package filter

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/hugr-lab/fetchargs/coerce"
	"github.com/hugr-lab/fetchargs/condition"
)

// EventTypeProperty is the property compared by eventTypeCondition.
const EventTypeProperty = "eventType"

// DuckDBEncoder encodes condition trees to DuckDB SQL syntax.
// It keeps no per-call state and is safe for concurrent use.
type DuckDBEncoder struct {
	opts *EncoderOptions
}

// NewDuckDBEncoder creates a new DuckDB SQL encoder.
// If opts is nil, default options are used.
func NewDuckDBEncoder(opts *EncoderOptions) *DuckDBEncoder {
	if opts == nil {
		opts = &EncoderOptions{}
	}
	return &DuckDBEncoder{opts: opts}
}

// Encode converts a condition tree to a WHERE clause body.
// Returns empty string if the condition is unsupported.
func (e *DuckDBEncoder) Encode(c *condition.Condition) string {
	return e.encode(c, false)
}

// encode renders c under negation when negated is true. An unsupported
// sub-tree ("") stands for TRUE in a positive position and for FALSE under
// an odd number of NOTs, so the rendered filter is never narrower than the
// tree it approximates.
func (e *DuckDBEncoder) encode(c *condition.Condition, negated bool) string {
	if c == nil {
		return ""
	}

	switch c.TypeID() {
	case condition.BooleanConditionType:
		return e.encodeBoolean(c, negated)
	case condition.NotConditionType:
		return e.encodeNot(c, negated)
	case condition.MatchAllConditionType:
		return "TRUE"
	case condition.EventTypeConditionType:
		return e.encodeEventType(c)
	case condition.PropertyConditionType:
		return e.encodeProperty(c)
	default:
		return ""
	}
}

// encodeBoolean encodes and/or combinations.
func (e *DuckDBEncoder) encodeBoolean(c *condition.Condition, negated bool) string {
	var op string
	switch strings.ToLower(c.Operator()) {
	case condition.OperatorAnd:
		op = " AND "
	case condition.OperatorOr:
		op = " OR "
	default:
		return ""
	}

	subs := c.SubConditions()
	var parts []string
	for _, sub := range subs {
		encoded := e.encode(sub, negated)
		if encoded != "" {
			parts = append(parts, encoded)
		}
	}

	// Positive: an OR with an unsupported child is skipped entirely, an AND
	// skips the child. Under negation the roles swap.
	strict := " OR "
	if negated {
		strict = " AND "
	}
	if op == strict && len(parts) != len(subs) {
		return ""
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return "(" + strings.Join(parts, op) + ")"
}

// encodeNot encodes a negation. The child is encoded with flipped polarity;
// an unsupported child cannot be negated safely, so the node is skipped.
func (e *DuckDBEncoder) encodeNot(c *condition.Condition, negated bool) string {
	v, _ := c.Parameter(condition.ParamSubCondition)
	sub, ok := v.(*condition.Condition)
	if !ok {
		return ""
	}
	child := e.encode(sub, !negated)
	if child == "" {
		return ""
	}
	return "NOT (" + child + ")"
}

func (e *DuckDBEncoder) encodeEventType(c *condition.Condition) string {
	v, _ := c.Parameter(condition.ParamEventTypeID)
	id, ok := v.(string)
	if !ok || id == "" {
		return ""
	}
	return e.column(EventTypeProperty) + " = " + quoteLiteral(id)
}

// encodeProperty encodes a propertyCondition by comparison operator.
func (e *DuckDBEncoder) encodeProperty(c *condition.Condition) string {
	v, _ := c.Parameter(condition.ParamPropertyName)
	name, ok := v.(string)
	if !ok || name == "" {
		return ""
	}
	v, _ = c.Parameter(condition.ParamComparisonOperator)
	op, _ := v.(string)

	if op == condition.CompareDistance {
		return e.encodeDistance(c, name)
	}

	col := e.column(name)

	switch op {
	case condition.CompareExists:
		return col + " IS NOT NULL"
	case condition.CompareMissing:
		return col + " IS NULL"
	case condition.CompareEquals:
		return e.encodeBinary(c, col, " = ")
	case condition.CompareNotEquals:
		return e.encodeBinary(c, col, " <> ")
	case condition.CompareGreaterThan:
		return e.encodeBinary(c, col, " > ")
	case condition.CompareGreaterThanOrEqualTo:
		return e.encodeBinary(c, col, " >= ")
	case condition.CompareLessThan:
		return e.encodeBinary(c, col, " < ")
	case condition.CompareLessThanOrEqualTo:
		return e.encodeBinary(c, col, " <= ")
	case condition.CompareBetween:
		values := e.listValues(c)
		if len(values) != 2 {
			return ""
		}
		return col + " BETWEEN " + values[0] + " AND " + values[1]
	case condition.CompareIn, condition.CompareNotIn:
		values := e.listValues(c)
		if len(values) == 0 {
			return ""
		}
		kw := " IN "
		if op == condition.CompareNotIn {
			kw = " NOT IN "
		}
		return col + kw + "(" + strings.Join(values, ", ") + ")"
	case condition.CompareContains:
		return e.encodeLike(c, col, "%", "%")
	case condition.CompareStartsWith:
		return e.encodeLike(c, col, "", "%")
	case condition.CompareEndsWith:
		return e.encodeLike(c, col, "%", "")
	default:
		return ""
	}
}

func (e *DuckDBEncoder) encodeBinary(c *condition.Condition, col, op string) string {
	value := e.formatValue(scalarValue(c))
	if value == "" || value == "NULL" {
		return ""
	}
	return col + op + value
}

func (e *DuckDBEncoder) encodeLike(c *condition.Condition, col, prefix, suffix string) string {
	s, ok := scalarValue(c).(string)
	if !ok {
		return ""
	}
	return col + " LIKE " + quoteLiteral(prefix+escapeLike(s)+suffix) + ` ESCAPE '\'`
}

// scalarValue returns the comparison value, preferring the date parameter.
func scalarValue(c *condition.Condition) any {
	if v, ok := c.Parameter(condition.ParamPropertyValueDate); ok && v != nil {
		return v
	}
	v, _ := c.Parameter(condition.ParamPropertyValue)
	return v
}

// listValues formats propertyValues. Returns nil if any value is
// unsupported.
func (e *DuckDBEncoder) listValues(c *condition.Condition) []string {
	v, _ := c.Parameter(condition.ParamPropertyValues)
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil
	}

	values := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		formatted := e.formatValue(rv.Index(i).Interface())
		if formatted == "" || formatted == "NULL" {
			return nil
		}
		values = append(values, formatted)
	}
	return values
}

// column resolves a property name to a SQL column reference.
func (e *DuckDBEncoder) column(name string) string {
	// Check for expression mapping first (takes precedence)
	if expr, ok := e.opts.ColumnExpressions[name]; ok {
		return expr
	}
	if mapped, ok := e.opts.ColumnMapping[name]; ok {
		return quoteIdentifier(mapped)
	}
	return quotePath(name)
}

// formatValue formats a parameter value as a SQL literal.
// Returns empty string for unsupported values.
func (e *DuckDBEncoder) formatValue(data any) string {
	switch v := data.(type) {
	case nil:
		return "NULL"
	case string:
		return quoteLiteral(v)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return "TIMESTAMP '" + v.UTC().Format("2006-01-02 15:04:05.999999") + "'"
	case *time.Time:
		if v == nil {
			return "NULL"
		}
		return e.formatValue(*v)
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Distance units in meters.
var distanceUnits = map[string]float64{
	"":   1000,
	"km": 1000,
	"m":  1,
	"mi": 1609.344,
}

// encodeDistance encodes a geo distance predicate: a bounding box on the
// coordinate columns to keep the scan selective, then an exact haversine
// distance test matching geo.DistanceHaversine.
func (e *DuckDBEncoder) encodeDistance(c *condition.Condition, name string) string {
	cols, ok := e.opts.GeoColumns[name]
	if !ok {
		return ""
	}

	v, _ := c.Parameter(condition.ParamCenter)
	center, err := coerce.ParsePoint(v)
	if err != nil {
		return ""
	}

	v, _ = c.Parameter(condition.ParamDistance)
	dist, ok := toFloat(v)
	if !ok || dist < 0 || math.IsNaN(dist) || math.IsInf(dist, 0) {
		return ""
	}
	v, _ = c.Parameter(condition.ParamUnit)
	unit, _ := v.(string)
	scale, ok := distanceUnits[strings.ToLower(unit)]
	if !ok {
		return ""
	}
	meters := dist * scale

	bound := geo.NewBoundAroundPoint(center, meters)
	lat := quoteIdentifier(cols.Lat)
	lon := quoteIdentifier(cols.Lon)

	parts := []string{
		lat + " BETWEEN " + formatFloat(bound.Min.Lat()) + " AND " + formatFloat(bound.Max.Lat()),
		lon + " BETWEEN " + formatFloat(bound.Min.Lon()) + " AND " + formatFloat(bound.Max.Lon()),
		haversine(lat, lon, center) + " <= " + formatFloat(meters),
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

// haversine renders the great-circle distance in meters between the
// coordinate columns and center.
func haversine(lat, lon string, center orb.Point) string {
	cLat := formatFloat(center.Lat())
	cLon := formatFloat(center.Lon())
	return fmt.Sprintf(
		"2 * %s * asin(sqrt(pow(sin(radians(%s - %s) / 2), 2) + cos(radians(%s)) * cos(radians(%s)) * pow(sin(radians(%s - %s) / 2), 2)))",
		formatFloat(orb.EarthRadius), lat, cLat, cLat, lat, lon, cLon,
	)
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
