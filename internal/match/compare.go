package match

import (
	"strconv"

	"github.com/fedqlab/fedq/internal/query"
)

// CompareNumeric applies a comparison operator to two numeric strings.
//
// Both sides are parsed as float64. A parse failure on either side means
// "no match", never an error; same for an operator outside the grammar.
// Callers that need to know why a record was excluded can log at debug
// level, but exclusion itself is silent.
func CompareNumeric(value, op, target string) bool {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false
	}
	tgt, err := strconv.ParseFloat(target, 64)
	if err != nil {
		return false
	}

	switch op {
	case query.OpLess:
		return v < tgt
	case query.OpGreater:
		return v > tgt
	case query.OpEqual:
		return v == tgt
	case query.OpLessEqual:
		return v <= tgt
	case query.OpGreaterEqual:
		return v >= tgt
	default:
		return false
	}
}
