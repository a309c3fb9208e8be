package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirFetcher reads source bundles from a directory tree laid out as
//
//	<root>/<partyID>/<source>/*.json
//
// Each *.json file is a Bundle. Files within a source directory are read in
// lexical order so repeated fetches yield identical record order.
//
// A configured source with no directory on disk is reported with a warning
// and contributes an empty record list; the run proceeds. Anything else that
// goes wrong while reading (unreadable file, malformed JSON) is an error.
type DirFetcher struct {
	Root string
}

// NewDirFetcher creates a DirFetcher rooted at dir.
func NewDirFetcher(dir string) *DirFetcher {
	return &DirFetcher{Root: dir}
}

// Fetch implements Fetcher.
func (f *DirFetcher) Fetch(ctx context.Context, partyID, resourceKind string, sources []string) (map[string][]Record, error) {
	if len(sources) == 0 {
		slog.Warn("no sources configured", "party", partyID)
		return map[string][]Record{}, nil
	}

	out := make(map[string][]Record, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := f.fetchSource(partyID, resourceKind, src)
		if err != nil {
			return nil, fmt.Errorf("fetch source %s: %w", src, err)
		}
		out[src] = records
	}
	return out, nil
}

func (f *DirFetcher) fetchSource(partyID, resourceKind, src string) ([]Record, error) {
	dir := filepath.Join(f.Root, partyID, src)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		slog.Warn("source directory absent, returning empty result", "party", partyID, "source", src, "dir", dir)
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	records := []Record{}
	for _, name := range files {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		var bundle Bundle
		if err := json.Unmarshal(data, &bundle); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}

		for _, entry := range bundle.Entry {
			if entry.Resource.ResourceType != resourceKind {
				continue
			}
			records = append(records, entry.Resource.record())
		}
	}

	slog.Debug("source fetched", "party", partyID, "source", src, "records", len(records))
	return records, nil
}
