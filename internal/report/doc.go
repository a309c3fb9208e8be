// Package report writes filtered results and aggregate reports to
// row-oriented CSV sinks, and samples a held-out test dataset from a
// finished aggregate report.
//
// Sink failures are fatal to the run that hit them: the orchestrator halts
// rather than advancing past a report that was never written.
package report
