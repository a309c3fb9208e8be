// Package party drives one party through the federated run.
//
// Every party executes the same state machine; the role decides which path
// it takes through it:
//
//	Init ──► Fetch ──► Write ──► Terminal        (participant)
//	                      │
//	                      ▼
//	                  Aggregate ──► GenerateTestData ──► Terminal
//	                                                 (coordinator)
//
// Transitions are a table keyed by (state, role), validated when a Runner
// is built: every state reachable for a role must have exactly one outgoing
// transition for that role. Declaring a transition a role can never reach
// is legal; it simply never fires.
//
// Each state handler receives the RunContext by ownership transfer, does
// its work, and hands the context to the next handler through the run loop.
// Nothing about a run is global; two parties in the same process share only
// the relay.
//
// There is no concurrency inside a run: each state completes fully before
// the next begins, and the one suspension point in the whole system is the
// coordinator's gather inside Aggregate. Once a party enters Fetch it runs
// to Terminal or fails fatally; there is no retry anywhere in the pipeline.
package party
