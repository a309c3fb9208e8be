package query

import "strings"

// queryPrefix is prepended to every compiled query string.
const queryPrefix = "q="

// Compile assembles a Spec into its canonical query-URI form.
//
// Clause assembly:
//  1. Clauses are emitted in declaration order.
//  2. A condition's Join token, when set, updates the sticky joiner before
//     the clause is emitted.
//  3. The first clause is never prefixed. Every later clause is prefixed by
//     "&" once a sticky joiner has been observed; with no joiner observed
//     yet, clauses concatenate bare.
//
// The joiner prefix is independent of the condition's own comparison
// operator, which always sits between field and value.
//
// Compile is pure and assumes a validated Spec; call Validate first when the
// spec did not come from the config loader.
func Compile(spec Spec) string {
	var b strings.Builder
	b.WriteString(queryPrefix)

	sticky := ""
	for i, c := range spec.Conditions {
		if c.Join != "" {
			sticky = c.Join
		}
		if i > 0 && sticky != "" {
			b.WriteString(sticky)
		}
		b.WriteString(c.Field)
		b.WriteString(c.Op)
		b.WriteString(c.Value)
	}
	return b.String()
}
