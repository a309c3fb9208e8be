// Package store persists the run log: one row per party run, plus every
// state transition and every contribution receipt the coordinator observed.
//
// The log is an audit surface, not a coordination mechanism. Orchestration
// behaves identically with or without a store attached; a run that cannot
// log still runs. Operators use the log after the fact to answer "which
// states did party X pass through" and "whose contribution arrived when".
package store
