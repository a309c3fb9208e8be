// Package testutil holds deterministic test doubles shared across package
// tests.
package testutil

import "sync"

// FixedTokenGenerator returns predetermined run tokens in sequence.
//
// Deterministic tokens keep run logs and golden output stable across test
// runs. When every run in a test should share one token, construct the
// generator with one token repeated.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedTokenGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokenGenerator creates a generator that returns tokens in order.
// With no tokens given it yields "test-run-default" forever.
func NewFixedTokenGenerator(tokens ...string) *FixedTokenGenerator {
	return &FixedTokenGenerator{tokens: tokens}
}

// Generate returns the next predetermined token. Once the list is
// exhausted (or empty) it returns "test-run-default".
func (g *FixedTokenGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		return "test-run-default"
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
