package source

import (
	"bytes"
	"context"
	"fmt"
)

// Record is one observation flattened out of a resource entry. Records are
// read-only to everything downstream of the fetcher.
//
// NumericValue stays a string: whether it parses as a number is the match
// engine's concern, and sources are allowed to emit it either as a JSON
// number or a quoted string.
type Record struct {
	Code         string
	Display      string
	NumericValue string
	Unit         string
	Issued       string
}

// Fetcher retrieves records for one party from its configured sources.
//
// The returned map has one entry per requested source, in no particular
// order; a source that could not be reached or has no data maps to an empty
// slice rather than being dropped. Only entries whose resource type equals
// resourceKind are returned.
type Fetcher interface {
	Fetch(ctx context.Context, partyID, resourceKind string, sources []string) (map[string][]Record, error)
}

// Bundle is the wire shape of one source response: a list of entries, each
// wrapping a single resource.
type Bundle struct {
	Entry []Entry `json:"entry"`
}

// Entry wraps one resource object.
type Entry struct {
	Resource Resource `json:"resource"`
}

// Resource carries the subset of the resource schema this system reads.
type Resource struct {
	ResourceType  string          `json:"resourceType"`
	Code          CodeableConcept `json:"code"`
	ValueQuantity Quantity        `json:"valueQuantity"`
	Issued        string          `json:"issued"`
}

// CodeableConcept holds the coding list; only the first coding is read.
type CodeableConcept struct {
	Coding []Coding `json:"coding"`
}

// Coding is one code/display pair.
type Coding struct {
	Code    string `json:"code"`
	Display string `json:"display"`
}

// Quantity is a value with a unit. Value accepts both a JSON number and a
// quoted string.
type Quantity struct {
	Value FlexNumber `json:"value"`
	Unit  string     `json:"unit"`
}

// FlexNumber is a numeric field that may arrive quoted or bare. It keeps
// the literal text either way.
type FlexNumber string

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		if len(data) < 2 || data[len(data)-1] != '"' {
			return fmt.Errorf("malformed string value: %s", data)
		}
		*n = FlexNumber(data[1 : len(data)-1])
		return nil
	}
	*n = FlexNumber(data)
	return nil
}

// record flattens a resource into the Record view.
func (r Resource) record() Record {
	rec := Record{
		NumericValue: string(r.ValueQuantity.Value),
		Unit:         r.ValueQuantity.Unit,
		Issued:       r.Issued,
	}
	if len(r.Code.Coding) > 0 {
		rec.Code = r.Code.Coding[0].Code
		rec.Display = r.Code.Coding[0].Display
	}
	return rec
}
