// Package ingest implements the format-dispatch ingestion layer.
// Each supported file format has one ingestor that claims an extension set
// and knows how to decode quote records from files of that format; the
// Dispatcher routes a path to the single ingestor claiming its extension.
//
// All ingestors are stateless after construction, so concurrent Parse calls
// with different paths are safe without coordination.
package ingest

import (
	"path/filepath"
	"strings"
)

// extensionSet is the shared extension-membership check, composed into every
// ingestor and the dispatcher so the rule lives in exactly one place.
// Entries are lowercase without the leading dot.
type extensionSet []string

// pathExtension returns the path's extension - the substring after the final
// dot - lowercased and without the dot. Empty when the path has no dot.
func pathExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}

	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// contains reports whether the path's extension is a member of the set.
func (s extensionSet) contains(path string) bool {
	ext := pathExtension(path)
	for _, e := range s {
		if e == ext {
			return true
		}
	}

	return false
}

// list returns a copy of the declared extensions.
func (s extensionSet) list() []string {
	out := make([]string, len(s))
	copy(out, s)

	return out
}
