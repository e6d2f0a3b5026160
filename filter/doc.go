// Package filter renders condition trees as DuckDB SQL predicates.
//
// Condition trees built by the condition package are evaluated by a backend
// engine. This package lets services that keep events or profiles in DuckDB
// evaluate the same trees locally:
//
//	enc := filter.NewDuckDBEncoder(nil)
//	where := enc.Encode(cond)
//	if where != "" {
//	    query := "SELECT * FROM events WHERE " + where
//	}
//
// # Column Mapping
//
// Property names are dotted paths ("properties.age"). By default each path
// segment becomes an identifier, which DuckDB resolves as struct field
// access. Map properties to flat columns or SQL expressions:
//
//	enc := filter.NewDuckDBEncoder(&filter.EncoderOptions{
//	    ColumnMapping: map[string]string{
//	        "timeStamp": "ts",
//	    },
//	    ColumnExpressions: map[string]string{
//	        "properties.fullName": "first_name || ' ' || last_name",
//	    },
//	    GeoColumns: map[string]filter.GeoColumn{
//	        "location": {Lat: "lat", Lon: "lon"},
//	    },
//	})
//
// # Unsupported Conditions
//
// The encoder gracefully handles unsupported conditions (unknown types or
// operators, malformed parameters):
//   - For AND: Skips unsupported children, keeps others
//   - For OR: If any child is unsupported, skips entire OR
//   - For NOT: If the child is unsupported, skips the negation
//   - Under an odd number of NOTs the AND and OR rules swap, so that
//     NOT (a AND <unsupported>) is skipped rather than narrowed to NOT (a)
//   - Returns empty string if nothing can be encoded
//
// This produces the widest possible filter. Callers that need exact results
// must re-check rows with the backend evaluator.
//
// # Supported Conditions
//
//   - booleanCondition: "and" / "or"
//   - notCondition
//   - matchAllCondition: TRUE
//   - eventTypeCondition: eventType = '...'
//   - propertyCondition: equals, notEquals, greaterThan,
//     greaterThanOrEqualTo, lessThan, lessThanOrEqualTo, between, exists,
//     missing, contains, startsWith, endsWith, in, notIn, distance
//
// Distance conditions need GeoColumns for the property and render a
// bounding box pre-filter plus a haversine test. Units are "km" (default),
// "m" and "mi".
package filter
