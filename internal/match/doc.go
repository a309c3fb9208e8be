// Package match evaluates a compiled-for query spec against the records a
// party fetched from its sources.
//
// Matching is a full scan: every condition is checked against every record
// of every source. Record volumes per run are small enough that building an
// index would cost more than it saves, and the spec model allows several
// independently-joined conditions per field, which makes a per-field index
// useless anyway.
//
// A record whose numeric value does not parse is skipped silently. That is
// the one locally-recovered condition in the whole pipeline: the row is
// simply absent from the result, the run never fails over it.
package match
