package source

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundleJSON = `{
  "entry": [
    {
      "resource": {
        "resourceType": "Observation",
        "code": {"coding": [{"code": "code", "display": "Body weight"}]},
        "valueQuantity": {"value": 72.5, "unit": "kg"},
        "issued": "2024-03-01T10:00:00Z"
      }
    },
    {
      "resource": {
        "resourceType": "Observation",
        "code": {"coding": [{"code": "rate", "display": "Heart rate"}]},
        "valueQuantity": {"value": "64", "unit": "bpm"},
        "issued": "2024-03-01T10:05:00Z"
      }
    },
    {
      "resource": {
        "resourceType": "Patient",
        "code": {"coding": [{"code": "ignored", "display": "ignored"}]},
        "valueQuantity": {"value": 1, "unit": ""},
        "issued": ""
      }
    }
  ]
}`

func writeBundle(t *testing.T, root, party, src, name, content string) {
	t.Helper()
	dir := filepath.Join(root, party, src)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDirFetcher_FiltersByResourceKind(t *testing.T) {
	root := t.TempDir()
	writeBundle(t, root, "alice", "bergen", "bundle.json", bundleJSON)

	f := NewDirFetcher(root)
	got, err := f.Fetch(context.Background(), "alice", "Observation", []string{"bergen"})
	require.NoError(t, err)

	require.Len(t, got["bergen"], 2, "the Patient entry must be filtered out")
	assert.Equal(t, Record{
		Code:         "code",
		Display:      "Body weight",
		NumericValue: "72.5",
		Unit:         "kg",
		Issued:       "2024-03-01T10:00:00Z",
	}, got["bergen"][0])
	assert.Equal(t, "64", got["bergen"][1].NumericValue, "quoted numeric values keep their literal text")
}

func TestDirFetcher_AbsentSourceYieldsEmptyResult(t *testing.T) {
	root := t.TempDir()
	writeBundle(t, root, "alice", "bergen", "bundle.json", bundleJSON)

	f := NewDirFetcher(root)
	got, err := f.Fetch(context.Background(), "alice", "Observation", []string{"bergen", "ghost"})
	require.NoError(t, err, "an absent source is reported, not fatal")

	assert.Len(t, got["bergen"], 2)
	require.Contains(t, got, "ghost")
	assert.Empty(t, got["ghost"])
}

func TestDirFetcher_MalformedBundleIsAnError(t *testing.T) {
	root := t.TempDir()
	writeBundle(t, root, "alice", "bergen", "bad.json", `{"entry": [`)

	f := NewDirFetcher(root)
	_, err := f.Fetch(context.Background(), "alice", "Observation", []string{"bergen"})
	assert.Error(t, err)
}

func TestDirFetcher_FilesReadInLexicalOrder(t *testing.T) {
	root := t.TempDir()
	one := `{"entry":[{"resource":{"resourceType":"Observation","code":{"coding":[{"code":"a","display":"A"}]},"valueQuantity":{"value":1,"unit":"u"},"issued":"t1"}}]}`
	two := `{"entry":[{"resource":{"resourceType":"Observation","code":{"coding":[{"code":"b","display":"B"}]},"valueQuantity":{"value":2,"unit":"u"},"issued":"t2"}}]}`
	writeBundle(t, root, "alice", "bergen", "02.json", two)
	writeBundle(t, root, "alice", "bergen", "01.json", one)

	f := NewDirFetcher(root)
	got, err := f.Fetch(context.Background(), "alice", "Observation", []string{"bergen"})
	require.NoError(t, err)

	require.Len(t, got["bergen"], 2)
	assert.Equal(t, "a", got["bergen"][0].Code)
	assert.Equal(t, "b", got["bergen"][1].Code)
}

func TestFlexNumber_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want FlexNumber
	}{
		{"bare number", `{"value": 72.5}`, "72.5"},
		{"quoted number", `{"value": "64"}`, "64"},
		{"null", `{"value": null}`, ""},
		{"non-numeric string", `{"value": "abc"}`, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q struct {
				Value FlexNumber `json:"value"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.in), &q))
			assert.Equal(t, tt.want, q.Value)
		})
	}
}
