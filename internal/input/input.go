// Package input wraps a raw CSS string with its identity: the file it came
// from, or a process-unique synthetic id when it came from nowhere in
// particular, plus an optional link to the source map an upstream compiler
// left behind. Diagnostics built here point at the user's authored source
// whenever the map can take them there, and at the generated CSS otherwise.
package input

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"bennypowers.dev/cssinput/internal/csserror"
	"bennypowers.dev/cssinput/internal/pathutil"
	"bennypowers.dev/cssinput/internal/sourcemap"
)

// ErrInvalidInput reports construction from bytes that are not
// representable as text.
var ErrInvalidInput = errors.New("invalid CSS input")

// Factory issues Inputs and owns the sequence behind synthetic ids. The
// sequence is atomic, so concurrent constructions never share an id.
type Factory struct {
	seq atomic.Uint64
}

// NewFactory returns a Factory whose synthetic ids start at 1.
func NewFactory() *Factory { return &Factory{} }

// defaultFactory backs the package-level constructors; its ids are unique
// for the process lifetime.
var defaultFactory = NewFactory()

// Input is one CSS unit under processing. Exactly one of File and ID is
// set; both are fixed at construction.
type Input struct {
	css    string
	hasBOM bool
	file   string
	id     string
	prev   *sourcemap.PrevMap
}

type options struct {
	from        string
	mapPayload  []byte
	mapDisabled bool
}

// Option configures Input construction.
type Option func(*options)

// WithFrom declares where the CSS came from: a URL or absolute path is kept
// verbatim, anything else resolves against the working directory.
func WithFrom(from string) Option {
	return func(o *options) { o.from = from }
}

// WithMap supplies a previous source map payload explicitly instead of
// discovering one from the CSS.
func WithMap(payload []byte) Option {
	return func(o *options) { o.mapPayload = payload }
}

// WithMapDisabled suppresses previous-map discovery.
func WithMapDisabled() Option {
	return func(o *options) { o.mapDisabled = true }
}

// New constructs an Input from the default factory.
func New(css string, opts ...Option) (*Input, error) {
	return defaultFactory.New(css, opts...)
}

// NewFromBytes constructs an Input from raw bytes, failing when the bytes
// are missing or not valid text.
func NewFromBytes(css []byte, opts ...Option) (*Input, error) {
	return defaultFactory.NewFromBytes(css, opts...)
}

// NewFromBytes constructs an Input from raw bytes, failing when the bytes
// are missing or not valid text.
func (f *Factory) NewFromBytes(css []byte, opts ...Option) (*Input, error) {
	if css == nil {
		return nil, fmt.Errorf("%w: received nil instead of a CSS string", ErrInvalidInput)
	}
	return f.New(string(css), opts...)
}

// New constructs an Input. The identity is settled here once: an explicit
// from wins, then a file declared by a discovered map, then a fresh
// synthetic id. When a map was linked, its File label is bound to the
// resulting identity so reports against the map stay readable.
func (f *Factory) New(css string, opts ...Option) (*Input, error) {
	if !utf8.ValidString(css) {
		return nil, fmt.Errorf("%w: not valid UTF-8 text", ErrInvalidInput)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	in := &Input{}
	if r, size := utf8.DecodeRuneInString(css); r == '\uFEFF' || r == '\uFFFE' {
		in.hasBOM = true
		css = css[size:]
	}
	in.css = css

	if o.from != "" {
		if pathutil.Classify(o.from) == pathutil.KindURL {
			in.file = o.from
		} else {
			in.file = pathutil.Resolve(o.from, "")
		}
	}

	prev, err := sourcemap.NewPrevMap(css, sourcemap.PrevMapOptions{
		From:     o.from,
		Payload:  o.mapPayload,
		Disabled: o.mapDisabled,
	})
	if err != nil {
		return nil, err
	}
	if prev != nil {
		in.prev = prev
		if in.file == "" {
			if mf := prev.Consumer().File(); mf != "" {
				in.file = in.MapResolve(mf)
			}
		}
	}

	if in.file == "" {
		in.id = fmt.Sprintf("<input css %d>", f.seq.Add(1))
	}
	if in.prev != nil {
		in.prev.File = in.From()
	}
	return in, nil
}

// CSS returns the raw text with any byte order mark removed.
func (in *Input) CSS() string { return in.css }

// HasBOM reports whether a leading byte order mark was stripped.
func (in *Input) HasBOM() bool { return in.hasBOM }

// File returns the resolved path or URL of the input, empty for anonymous
// inputs.
func (in *Input) File() string { return in.file }

// ID returns the synthetic identifier of an anonymous input, empty when a
// file is known.
func (in *Input) ID() string { return in.id }

// From returns the file when known and the synthetic id otherwise; it is
// never empty.
func (in *Input) From() string {
	if in.file != "" {
		return in.file
	}
	return in.id
}

// Map returns the linked previous source map, nil when none was found.
func (in *Input) Map() *sourcemap.PrevMap { return in.prev }

// Origin is a position mapped back to the original source behind this
// input. Source holds the original file's text when the map embeds it.
type Origin struct {
	File   string
	Line   int
	Column int
	Source string
}

// Origin maps a 1-based position in the generated CSS back to the original
// source. It reports false when no map is linked or the position has no
// mapped source; both mean the caller should fall back to the generated
// position.
func (in *Input) Origin(line, column int) (Origin, bool) {
	if in.prev == nil {
		return Origin{}, false
	}
	con := in.prev.Consumer()
	m, ok := con.OriginalPosition(line, column)
	if !ok {
		return Origin{}, false
	}
	o := Origin{
		File:   in.MapResolve(m.Source),
		Line:   m.Line,
		Column: m.Column,
	}
	if content, ok := con.SourceContent(m.Source); ok {
		o.Source = content
	}
	return o, true
}

// MapResolve resolves a source name from the linked map: URLs pass through
// and paths resolve against the map's declared root, defaulting to the
// working directory. Resolving an already resolved name is a no-op.
func (in *Input) MapResolve(file string) string {
	root := ""
	if in.prev != nil {
		root = in.prev.Consumer().SourceRoot()
	}
	return pathutil.Resolve(file, root)
}

// Error builds a SyntaxError at a 1-based position in the generated CSS.
// When the position maps back to an original source the error's primary
// location is the authored one; the generated location is attached either
// way.
func (in *Input) Error(reason string, line, column int, opts ...ErrorOption) *csserror.SyntaxError {
	var eo errorOptions
	for _, opt := range opts {
		opt(&eo)
	}

	var e *csserror.SyntaxError
	if o, ok := in.Origin(line, column); ok {
		e = csserror.New(reason, o.Line, o.Column, o.Source, o.File, eo.plugin)
	} else {
		e = csserror.New(reason, line, column, in.css, in.file, eo.plugin)
	}
	e.Generated = csserror.Generated{Line: line, Column: column, Source: in.css}
	if in.file != "" {
		e.Generated.File = in.file
	}
	return e
}

type errorOptions struct {
	plugin string
}

// ErrorOption decorates a diagnostic built by Error.
type ErrorOption func(*errorOptions)

// WithPlugin names the plugin reporting the problem.
func WithPlugin(plugin string) ErrorOption {
	return func(o *errorOptions) { o.plugin = plugin }
}

// Position converts a byte offset into the CSS to a 1-based line and
// column. Columns count runes, matching how diagnostics address text.
func (in *Input) Position(offset int) (line, column int) {
	if offset > len(in.css) {
		offset = len(in.css)
	}
	upto := in.css[:offset]
	line = 1 + strings.Count(upto, "\n")
	if i := strings.LastIndexByte(upto, '\n'); i >= 0 {
		upto = upto[i+1:]
	}
	return line, utf8.RuneCountInString(upto) + 1
}
