package query

import (
	"strings"
)

// Comparison operators accepted by a Condition.
const (
	OpLess         = "<"
	OpGreater      = ">"
	OpEqual        = "="
	OpLessEqual    = "<="
	OpGreaterEqual = ">="
)

// JoinerAnd is the canonical joiner token. The spelled-out form "and" is
// accepted on input and normalized here.
const JoinerAnd = "&"

// Condition is one filter clause.
//
// Field is the match key after disambiguation (see StripFieldKey). RawKey
// retains the key as written, for diagnostics only. Join, when non-empty,
// updates the sticky joiner before this clause is emitted.
type Condition struct {
	Field  string
	RawKey string
	Op     string
	Value  string
	Join   string
}

// Spec is an ordered filter specification. Evaluation and compilation both
// follow slice order, which mirrors the insertion order of the source
// configuration.
type Spec struct {
	Conditions []Condition
}

// StripFieldKey removes a trailing "-<digits>" disambiguator from a field
// key. Keys carry the suffix so the same field can appear more than once in
// a single mapping; the suffix is never part of the match key.
//
//	StripFieldKey("code-1")  = "code"
//	StripFieldKey("code")    = "code"
//	StripFieldKey("a-b-2")   = "a-b"
func StripFieldKey(key string) string {
	i := strings.LastIndex(key, "-")
	if i < 0 {
		return key
	}
	suffix := key[i+1:]
	if suffix == "" {
		return key[:i]
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return key
		}
	}
	return key[:i]
}

// NormalizeJoiner maps an input joiner token to its canonical form.
// Returns ("", false) for tokens outside the grammar.
func NormalizeJoiner(tok string) (string, bool) {
	switch tok {
	case "", "and", JoinerAnd:
		if tok == "and" {
			return JoinerAnd, true
		}
		return tok, true
	default:
		return "", false
	}
}

// validOp reports whether op is one of the five comparison operators.
func validOp(op string) bool {
	switch op {
	case OpLess, OpGreater, OpEqual, OpLessEqual, OpGreaterEqual:
		return true
	}
	return false
}
