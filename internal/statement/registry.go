package statement

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/IO-n-A/quant-fin/internal/config"
	"github.com/IO-n-A/quant-fin/internal/model"
)

// Format describes the delimiter and encoding of a known export flavor.
type Format struct {
	Name      string
	Delimiter rune
	Encoding  string
}

// Registry holds named statement formats.
type Registry struct {
	formats map[string]Format
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]Format)}
}

// Register adds a format. Panics on duplicate name.
func (r *Registry) Register(f Format) {
	key := strings.ToLower(f.Name)
	if _, ok := r.formats[key]; ok {
		panic("duplicate statement format: " + key)
	}
	r.formats[key] = f
}

// Get returns the named format and whether it exists.
func (r *Registry) Get(name string) (Format, bool) {
	f, ok := r.formats[strings.ToLower(name)]
	return f, ok
}

// DefaultRegistry returns a registry with the built-in formats.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Format{Name: "generic", Delimiter: ';', Encoding: "auto"})
	r.Register(Format{Name: "csv", Delimiter: ',', Encoding: "auto"})
	r.Register(Format{Name: "dkb", Delimiter: ';', Encoding: "auto"})
	r.Register(Format{Name: "fyrst", Delimiter: ';', Encoding: "auto"})
	r.Register(Format{Name: "paypal", Delimiter: ',', Encoding: "auto"})
	return r
}

// NewParser builds the parser for a configured source. The format is looked
// up by src.Format, then by src.Name, falling back to "generic"; a source
// delimiter or encoding overrides the format's.
func (r *Registry) NewParser(src config.Source, cfg *config.Config) (*Parser, error) {
	f, ok := r.Get(src.Format)
	if !ok && src.Format != "" {
		return nil, fmt.Errorf("unknown statement format %q for source %s", src.Format, src.Name)
	}
	if !ok {
		f, ok = r.Get(src.Name)
	}
	if !ok {
		f, _ = r.Get("generic")
	}

	if src.Delimiter != "" {
		d, size := utf8.DecodeRuneInString(src.Delimiter)
		if size != len(src.Delimiter) {
			return nil, fmt.Errorf("delimiter %q for source %s must be a single character", src.Delimiter, src.Name)
		}
		f.Delimiter = d
	}
	if src.Encoding != "" {
		f.Encoding = src.Encoding
	}

	return &Parser{
		Source:    model.Source(src.Name),
		Delimiter: f.Delimiter,
		Encoding:  f.Encoding,
		Aliases:   cfg.Aliases,
		Locale:    cfg.Locale,
	}, nil
}

// Scan returns config sources for the CSV files directly inside dir, named
// after the file without extension.
func Scan(dir string) ([]config.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading statement dir: %w", err)
	}

	var sources []config.Source
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}
		sources = append(sources, SourceForFile(filepath.Join(dir, name)))
	}
	return sources, nil
}

// SourceForFile derives a config source from a file path; the lower-cased
// base name doubles as the format hint.
func SourceForFile(path string) config.Source {
	base := filepath.Base(path)
	name := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	return config.Source{Name: name, Path: path}
}
