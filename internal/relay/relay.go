// Package relay carries party contributions to the coordinator.
//
// The transport here is in-process: every party in a run holds the same
// *Relay and participants Send into it while the coordinator Gathers. A
// production deployment swaps this for an HTTP hop, which is outside this
// module; the contract both ends program against is Send plus Gather.
//
// The fan-in contract is explicit about partial arrival: Gather returns a
// GatherResult that is either complete, partial with the missing sender set,
// or timed out. The coordinator decides what a partial gather means (it
// treats it as fatal); the relay only reports it.
package relay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fedqlab/fedq/internal/match"
)

// Contribution is one party's filtered result as received by the
// coordinator. Contributions are never mutated after receipt.
type Contribution struct {
	PartyID string
	Result  match.Result
}

// GatherResult is the outcome of a fan-in wait.
type GatherResult struct {
	// Contributions holds everything received, in receipt order.
	Contributions []Contribution

	// Missing lists expected senders that were never observed, sorted by
	// the caller-supplied expected order. Empty on a complete gather.
	Missing []string

	// TimedOut is true when the wait ended on the timeout rather than on
	// completion or context cancellation.
	TimedOut bool
}

// Complete reports whether every expected sender was observed.
func (g GatherResult) Complete() bool {
	return len(g.Missing) == 0 && !g.TimedOut
}

// Relay is the coordinator's contribution inbox.
//
// Thread-safety model:
//   - Send(): safe from any goroutine
//   - Gather(): called by the coordinator's run goroutine only
//
// Signaling uses a buffered channel of size 1 so that any number of Sends
// coalesce into one wakeup, the same shape as a single-consumer event queue.
type Relay struct {
	mu            sync.Mutex
	contributions []Contribution
	seen          map[string]bool
	closed        bool
	signal        chan struct{}
}

// New creates an empty relay.
func New() *Relay {
	return &Relay{
		seen:   make(map[string]bool),
		signal: make(chan struct{}, 1),
	}
}

// Send delivers one party's contribution. Returns false once the relay is
// closed. A duplicate send from the same party keeps the first contribution;
// the duplicate is logged and dropped.
func (r *Relay) Send(from string, result match.Result) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	if r.seen[from] {
		slog.Warn("duplicate contribution dropped", "party", from)
		return true
	}

	r.seen[from] = true
	r.contributions = append(r.contributions, Contribution{PartyID: from, Result: result})

	select {
	case r.signal <- struct{}{}:
	default:
	}
	return true
}

// Close marks the relay closed. Subsequent Sends are refused; a Gather in
// progress wakes up and reports what arrived.
func (r *Relay) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	select {
	case r.signal <- struct{}{}:
	default:
	}
}

// Gather blocks until a contribution from every expected sender has been
// observed, the timeout elapses, or ctx is done.
//
// timeout == 0 means no deadline: Gather waits until completion, relay
// close, or context cancellation. A cancelled context returns ctx.Err();
// every other outcome is reported through the GatherResult, not an error,
// so the caller can see exactly which senders are missing.
func (r *Relay) Gather(ctx context.Context, expected []string, timeout time.Duration) (GatherResult, error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		if res, done := r.snapshot(expected, false); done {
			return res, nil
		}

		select {
		case <-r.signal:
			// Re-check under lock.
		case <-deadline:
			res, _ := r.snapshot(expected, true)
			return res, nil
		case <-ctx.Done():
			return GatherResult{}, ctx.Err()
		}
	}
}

// snapshot copies the current contribution list and computes the missing
// set. done is true when the wait should end: all expected senders observed,
// the relay closed, or timedOut forced.
func (r *Relay) snapshot(expected []string, timedOut bool) (GatherResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var missing []string
	for _, id := range expected {
		if !r.seen[id] {
			missing = append(missing, id)
		}
	}

	res := GatherResult{
		Contributions: append([]Contribution(nil), r.contributions...),
		Missing:       missing,
		TimedOut:      timedOut,
	}
	return res, timedOut || r.closed || len(missing) == 0
}
