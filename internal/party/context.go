package party

import (
	"github.com/fedqlab/fedq/internal/match"
	"github.com/fedqlab/fedq/internal/query"
)

// RunContext threads data between states within one party's run.
//
// It is created when the run starts, owned by exactly one state handler at
// a time, and handed onward by the run loop. Nothing outside the run ever
// holds a reference while the run is live; after Terminal the caller gets
// it back for inspection only.
type RunContext struct {
	// Token is the run's correlation token (UUIDv7 in production).
	Token string

	// Party and Role identify whose run this is.
	Party string
	Role  Role

	// Spec and CompiledQuery are fixed at Init.
	Spec          query.Spec
	CompiledQuery string

	// Sources is the party's configured source list.
	Sources []string

	// ResultFile is the local report path, computed at Init.
	ResultFile string

	// AggregatePath and TestDataPath are the coordinator's output paths,
	// computed at Init; unused by participants.
	AggregatePath string
	TestDataPath  string

	// Filtered is the party's match result, set by Fetch and consumed by
	// Write.
	Filtered match.Result

	// Trail records every state the run entered, in order. Diagnostics
	// and tests read it; handlers never do.
	Trail []State
}
