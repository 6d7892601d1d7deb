package sourcemap

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"bennypowers.dev/cssinput/internal/log"
)

var (
	annotationRE = regexp.MustCompile(`/\*\s*# sourceMappingURL=(.*?)\s*\*/`)
	base64URI    = regexp.MustCompile(`^data:application/json;(?:charset=utf-?8;)?base64,`)
	encodingRE   = regexp.MustCompile(`^data:application/json;([^,]+),`)
)

const plainURI = "data:application/json,"

// PrevMap is a source map found next to a CSS string. File is late-bound by
// the input that adopted the map and names the generated CSS for human
// consumption; it is not the map's own declared file.
type PrevMap struct {
	Text       string
	File       string
	Annotation string
	Inline     bool

	sm *SourceMap
}

// PrevMapOptions control where a previous map may come from.
type PrevMapOptions struct {
	// From is the path of the CSS file, used to locate an annotated
	// external map. Empty for anonymous inputs.
	From string
	// Payload supplies the map explicitly, bypassing discovery.
	Payload []byte
	// Disabled suppresses map lookup entirely.
	Disabled bool
}

// NewPrevMap discovers and decodes a previous source map for css. It
// returns (nil, nil) when no map is present, which is the common case and
// not an error. A payload that is present but undecodable is an error.
func NewPrevMap(css string, opts PrevMapOptions) (*PrevMap, error) {
	p := &PrevMap{}
	p.loadAnnotation(css)
	p.Inline = strings.HasPrefix(p.Annotation, "data:")

	text, err := p.loadMap(opts)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	if !looksLikeMap(text) {
		return nil, fmt.Errorf("unsupported previous source map format: %.32q", text)
	}
	sm, err := Parse([]byte(text))
	if err != nil {
		return nil, err
	}
	p.Text = text
	p.sm = sm
	return p, nil
}

// Consumer returns the decoded map.
func (p *PrevMap) Consumer() Consumer { return p.sm }

// loadAnnotation records the last sourceMappingURL annotation comment.
func (p *PrevMap) loadAnnotation(css string) {
	matches := annotationRE.FindAllStringSubmatch(css, -1)
	if len(matches) > 0 {
		p.Annotation = strings.TrimSpace(matches[len(matches)-1][1])
	}
}

func (p *PrevMap) loadMap(opts PrevMapOptions) (string, error) {
	switch {
	case opts.Disabled:
		return "", nil
	case len(opts.Payload) > 0:
		return string(opts.Payload), nil
	case p.Inline:
		return decodeInline(p.Annotation)
	case p.Annotation != "":
		mapPath := p.Annotation
		if opts.From != "" {
			mapPath = filepath.Join(filepath.Dir(opts.From), mapPath)
		}
		b, err := os.ReadFile(mapPath)
		if err != nil {
			// An annotation pointing at a file we cannot read means
			// no previous map, same as no annotation at all.
			log.Debug("previous map %s not readable: %v", mapPath, err)
			return "", nil
		}
		log.Debug("loaded previous map from %s", mapPath)
		return strings.TrimSpace(string(b)), nil
	default:
		return "", nil
	}
}

// decodeInline unpacks a data-URI annotation. Base64 and URL-encoded JSON
// payloads are supported; any other encoding is an error.
func decodeInline(text string) (string, error) {
	if strings.HasPrefix(text, plainURI) {
		decoded, err := url.PathUnescape(text[len(plainURI):])
		if err != nil {
			return "", fmt.Errorf("invalid inline source map: %w", err)
		}
		return decoded, nil
	}
	if m := base64URI.FindString(text); m != "" {
		payload := text[len(m):]
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			b, err = base64.RawStdEncoding.DecodeString(payload)
		}
		if err != nil {
			return "", fmt.Errorf("invalid base64 in source map annotation: %w", err)
		}
		return string(b), nil
	}
	if m := encodingRE.FindStringSubmatch(text); m != nil {
		return "", fmt.Errorf("unsupported source map encoding %s", m[1])
	}
	return "", fmt.Errorf("unsupported source map data URI")
}

// looksLikeMap is a cheap sanity check that a candidate payload is a JSON
// object rather than some unrelated file the annotation pointed at.
func looksLikeMap(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "{")
}
