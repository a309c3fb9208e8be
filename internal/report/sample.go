package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/fedqlab/fedq/internal/aggregate"
)

// Sampling defaults: a fifth of the training data, fixed seed for
// reproducible held-out sets.
const (
	DefaultSampleFrac = 0.2
	DefaultSampleSeed = 42
)

// Sample reads the aggregate report at inputPath, draws a random fraction
// of its data rows without replacement, and writes them (with the header)
// to outputPath as the held-out test dataset.
//
// The draw is seeded, so a fixed (input, frac, seed) triple always yields
// the same test dataset. The sample size is round(frac × rows), minimum 1
// when any rows exist.
func Sample(inputPath, outputPath string, frac float64, seed int64) error {
	if frac <= 0 || frac > 1 {
		return &SampleError{Message: fmt.Sprintf("fraction %v outside (0, 1]", frac)}
	}

	header, rows, err := readCSV(inputPath)
	if err != nil {
		return &SampleError{Message: "read aggregate report", Err: err}
	}
	if len(rows) == 0 {
		return &SampleError{Message: "aggregate report has no data rows"}
	}

	k := int(math.Round(frac * float64(len(rows))))
	if k < 1 {
		k = 1
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(rows))

	sampled := make([][]string, 0, k)
	for _, idx := range perm[:k] {
		sampled = append(sampled, rows[idx])
	}

	if err := writeCSV(outputPath, header, sampled); err != nil {
		return &SampleError{Message: "write test dataset", Err: err}
	}
	return nil
}

// readCSV loads a report back from disk. The header is NFC-normalized so
// comparisons against the canonical column set behave the same way as
// during aggregation.
func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s: empty report", path)
	}
	return aggregate.NormalizeHeader(all[0]), all[1:], nil
}
