// Package source is the data-source collaborator: it fetches resource
// entries from every source a party is configured for and flattens them
// into the read-only Record view the match engine consumes.
//
// The production transport is an HTTP client against real resource servers;
// it lives outside this module. DirFetcher is the in-tree implementation,
// backed by JSON bundle files on disk, and is what runs and tests bind to.
package source
