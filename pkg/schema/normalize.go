package schema

import (
	"strings"
)

// nullLiterals are cell spellings that legacy SQL-to-CSV dumps use for NULL.
var nullLiterals = map[string]bool{
	"":     true,
	"null": true,
	"\\n":  true,
	"nil":  true,
	"none": true,
}

// IsNullLiteral reports whether a raw CSV cell should be read as null.
func IsNullLiteral(s string) bool {
	return nullLiterals[strings.ToLower(strings.TrimSpace(s))]
}

// Cell converts a raw CSV cell into a Value, mapping null literals to Null
// and trimming surrounding whitespace from everything else.
func Cell(s string) Value {
	if IsNullLiteral(s) {
		return Null
	}
	return String(strings.TrimSpace(s))
}

// NormalizeHeader lowercases a header and strips whitespace so headers from
// differently-cased extracts compare equal.
func NormalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// Bool interprets a value as a legacy boolean flag. The extracts encode
// booleans as 0/1, but true/false and yes/no appear in older dumps.
// Null and unrecognized values read as false.
func (v Value) Bool() bool {
	if v.IsNull() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v.Raw)) {
	case "1", "true", "yes", "y", "t":
		return true
	default:
		return false
	}
}
