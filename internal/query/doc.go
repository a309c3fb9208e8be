// Package query defines the structured filter model shared by every party
// and compiles it to the canonical query-URI form sent to data sources.
//
// A Spec is an ordered list of Conditions. Order matters twice: clauses are
// emitted in declaration order, and a condition's joiner token, once seen,
// becomes the sticky joiner for every later condition that omits one.
//
// The grammar keeps two distinct token classes:
//   - comparison operator: < > = <= >=   (applied to the record value)
//   - joiner: "and" or "&"               (glues clauses together)
//
// The joiner is normalized to "&" when the condition is constructed, so the
// compiler never has to rewrite assembled output and a comparison value that
// happens to contain the letters "and" is left alone.
package query
