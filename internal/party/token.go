package party

import "github.com/google/uuid"

// TokenGenerator mints run tokens. Implemented by UUIDv7Generator
// (production) and testutil.FixedTokenGenerator (tests).
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator mints time-sortable UUIDv7 run tokens, so a directory of
// run logs sorts by start time for free.
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7 string.
// Panics if UUID generation fails (it does not, in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
