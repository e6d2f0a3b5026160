package filter

import (
	"strings"

	"github.com/hugr-lab/fetchargs/condition"
)

// Encoder converts condition trees to SQL predicates.
// Implementations handle dialect-specific syntax.
type Encoder interface {
	// Encode converts a condition tree to a WHERE clause body, without the
	// "WHERE" keyword. Returns empty string if nothing can be encoded,
	// meaning "no filter".
	Encode(c *condition.Condition) string
}

// GeoColumn names the latitude and longitude columns holding a geo point
// property.
type GeoColumn struct {
	Lat string
	Lon string
}

// EncoderOptions configures encoding behavior.
type EncoderOptions struct {
	// ColumnMapping maps property names to column names.
	// Properties not in the map use their own dotted path (struct access).
	ColumnMapping map[string]string

	// ColumnExpressions maps property names to SQL expressions.
	// Takes precedence over ColumnMapping.
	ColumnExpressions map[string]string

	// GeoColumns maps geo point properties to their coordinate columns.
	// Distance conditions on properties not in the map are unsupported.
	GeoColumns map[string]GeoColumn
}

// escapeString escapes single quotes in a string value for SQL.
func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// quoteLiteral returns a SQL string literal with proper escaping.
func quoteLiteral(s string) string {
	return "'" + escapeString(s) + "'"
}

// quotePath quotes each segment of a dotted property path.
func quotePath(path string) string {
	parts := strings.Split(path, ".")
	for i, p := range parts {
		parts[i] = quoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

// escapeLike escapes LIKE wildcards using backslash as the escape character.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// quoteIdentifier returns a quoted identifier if needed.
// DuckDB uses double quotes for identifiers.
func quoteIdentifier(name string) string {
	if needsQuoting(name) {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return name
}

// needsQuoting returns true if the identifier needs quoting.
func needsQuoting(name string) bool {
	if len(name) == 0 {
		return true
	}

	// Check first character (must be letter or underscore)
	c := name[0]
	if !isLetter(c) && c != '_' {
		return true
	}

	// Check remaining characters (letters, digits, or underscore)
	for i := 1; i < len(name); i++ {
		c = name[i]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			return true
		}
	}

	// Check for reserved words (simplified list)
	upper := strings.ToUpper(name)
	switch upper {
	case "SELECT", "FROM", "WHERE", "AND", "OR", "NOT", "NULL", "TRUE", "FALSE",
		"INSERT", "UPDATE", "DELETE", "CREATE", "DROP", "ALTER", "TABLE", "INDEX",
		"JOIN", "LEFT", "RIGHT", "INNER", "OUTER", "ON", "AS", "IN", "IS", "LIKE",
		"BETWEEN", "EXISTS", "CASE", "WHEN", "THEN", "ELSE", "END", "ORDER", "BY",
		"GROUP", "HAVING", "LIMIT", "OFFSET", "UNION", "EXCEPT", "INTERSECT",
		"ALL", "DISTINCT", "VALUES", "SET", "INTO", "PRIMARY", "KEY", "FOREIGN",
		"REFERENCES", "CONSTRAINT", "DEFAULT", "CHECK", "UNIQUE", "ASC", "DESC",
		"NULLS", "FIRST", "LAST", "CAST", "INTERVAL", "DATE", "TIME", "TIMESTAMP":
		return true
	}

	return false
}

// isLetter returns true if c is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDigit returns true if c is an ASCII digit.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
