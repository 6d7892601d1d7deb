// Package sourcemap consumes source maps left behind by an upstream
// compiler. It answers original-position and original-content queries and
// discovers a previous map next to a CSS string, whether supplied
// explicitly, embedded inline as a data URI, or referenced by annotation
// from a neighboring file. Map generation is out of scope.
package sourcemap

import (
	"encoding/json"
	"fmt"
	"strings"

	gosourcemap "github.com/go-sourcemap/sourcemap"
	"github.com/tidwall/jsonc"
)

// Mapping is an original position resolved from a generated one. Line and
// Column are 1-based. Source is the source name as the map records it,
// before any path resolution.
type Mapping struct {
	Source string
	Name   string
	Line   int
	Column int
}

// Consumer is the capability a decoded source map provides. Lookups that
// fail for ordinary data reasons return a false second value, never an
// error.
type Consumer interface {
	// OriginalPosition maps a 1-based generated position back to the
	// original source. False when no mapping with a source covers it.
	OriginalPosition(line, column int) (Mapping, bool)
	// SourceContent returns the embedded original text for a source name
	// as returned by OriginalPosition. False when the map carries none.
	SourceContent(source string) (string, bool)
	// SourceRoot is the map's declared root for relative source names,
	// empty when undeclared.
	SourceRoot() string
	// File is the generated file the map declares, empty when undeclared.
	File() string
}

// envelope is the subset of the source map JSON read directly; mapping
// queries go through the decoded consumer instead.
type envelope struct {
	Version        int      `json:"version"`
	File           string   `json:"file"`
	SourceRoot     string   `json:"sourceRoot"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
}

// SourceMap is the reference Consumer for the standard source map v3
// format.
type SourceMap struct {
	env envelope
	con *gosourcemap.Consumer
}

var _ Consumer = (*SourceMap)(nil)

// Parse decodes a source map payload. The payload is passed through a JSONC
// filter first, so maps written with comments or trailing commas still load.
func Parse(data []byte) (*SourceMap, error) {
	data = jsonc.ToJSON(data)
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid source map: %w", err)
	}
	con, err := gosourcemap.Parse("", data)
	if err != nil {
		return nil, fmt.Errorf("invalid source map: %w", err)
	}
	return &SourceMap{env: env, con: con}, nil
}

// File returns the generated file the map declares.
func (m *SourceMap) File() string { return m.env.File }

// SourceRoot returns the declared root for relative source names.
func (m *SourceMap) SourceRoot() string { return m.env.SourceRoot }

// OriginalPosition maps a 1-based generated line and column back to the
// original source. Positions with no mapped source are synthetic; they
// report false rather than an error.
func (m *SourceMap) OriginalPosition(line, column int) (Mapping, bool) {
	source, name, oline, ocol, ok := m.con.Source(line, column-1)
	if !ok || source == "" {
		return Mapping{}, false
	}
	return Mapping{Source: source, Name: name, Line: oline, Column: ocol + 1}, true
}

// SourceContent returns the embedded original text for a source name.
func (m *SourceMap) SourceContent(source string) (string, bool) {
	if c := m.con.SourceContent(source); c != "" {
		return c, true
	}
	for i, s := range m.env.Sources {
		if i >= len(m.env.SourcesContent) {
			break
		}
		if s == source || strings.HasSuffix(source, "/"+s) {
			return m.env.SourcesContent[i], m.env.SourcesContent[i] != ""
		}
	}
	return "", false
}

// WithContent reports whether the map embeds any original source text.
func (m *SourceMap) WithContent() bool {
	for _, c := range m.env.SourcesContent {
		if c != "" {
			return true
		}
	}
	return false
}
