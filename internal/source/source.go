package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/targetdigest/ietrack/internal/model"
)

// ErrUnsupported is returned for locations no source or parser can handle.
var ErrUnsupported = errors.New("unsupported filing source")

// Parser converts a saved or fetched IE listing into filings.
type Parser interface {
	Parse(r io.Reader) ([]model.Filing, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForPath picks a parser from a file extension.
func (r *Registry) ForPath(path string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		if p := r.Get(FormatCSV); p != nil {
			return p, nil
		}
	case ".html", ".htm":
		if p := r.Get(FormatCalAccess); p != nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: no parser for %s", ErrUnsupported, path)
}

// DefaultRegistry returns a registry with all built-in parsers. Links in
// HTML pages are resolved against baseURL.
func DefaultRegistry(baseURL string) *Registry {
	r := NewRegistry()
	r.Register(&CalAccessParser{BaseURL: baseURL})
	r.Register(&CSVParser{})
	return r
}

// File reads filings from local files.
type File struct {
	parsers *Registry
}

// NewFile creates a File source using parsers.
func NewFile(parsers *Registry) *File {
	return &File{parsers: parsers}
}

// Fetch parses the file at location, a path or file:// URL.
func (s *File) Fetch(_ context.Context, location string) ([]model.Filing, error) {
	path := strings.TrimPrefix(location, "file://")
	p, err := s.parsers.ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	filings, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return filings, nil
}

// Fetcher is the interface every source in this package satisfies.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]model.Filing, error)
}

// Mux routes http(s) URLs to web and everything else to file.
type Mux struct {
	web  Fetcher
	file Fetcher
}

// NewMux creates a Mux. Either side may be nil to refuse that kind of location.
func NewMux(web, file Fetcher) *Mux {
	return &Mux{web: web, file: file}
}

// Fetch dispatches location to the matching source.
func (m *Mux) Fetch(ctx context.Context, location string) ([]model.Filing, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnsupported, location, err)
	}
	switch u.Scheme {
	case "http", "https":
		if m.web != nil {
			return m.web.Fetch(ctx, location)
		}
	case "file", "":
		if m.file != nil {
			return m.file.Fetch(ctx, location)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, location)
}
