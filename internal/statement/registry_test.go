package statement

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IO-n-A/quant-fin/internal/config"
	"github.com/IO-n-A/quant-fin/internal/model"
)

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Get("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := DefaultRegistry()
	for _, name := range []string{"PayPal", "PAYPAL", "paypal"} {
		f, ok := r.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, ',', f.Delimiter)
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(Format{Name: "x", Delimiter: ';'})
	assert.Panics(t, func() { r.Register(Format{Name: "X", Delimiter: ','}) })
}

func TestRegistry_NewParser(t *testing.T) {
	cfg := config.Default()
	r := DefaultRegistry()

	tests := []struct {
		name     string
		src      config.Source
		delim    rune
		encoding string
	}{
		{"format by name", config.Source{Name: "paypal", Path: "p.csv"}, ',', "auto"},
		{"explicit format", config.Source{Name: "giro", Path: "g.csv", Format: "fyrst"}, ';', "auto"},
		{"generic fallback", config.Source{Name: "other", Path: "o.csv"}, ';', "auto"},
		{"delimiter override", config.Source{Name: "dkb", Path: "d.csv", Delimiter: ","}, ',', "auto"},
		{"encoding override", config.Source{Name: "dkb", Path: "d.csv", Encoding: "iso-8859-1"}, ';', "iso-8859-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.NewParser(tt.src, cfg)
			require.NoError(t, err)
			assert.Equal(t, model.Source(tt.src.Name), p.Source)
			assert.Equal(t, tt.delim, p.Delimiter)
			assert.Equal(t, tt.encoding, p.Encoding)
			assert.Equal(t, cfg.Aliases, p.Aliases)
		})
	}
}

func TestRegistry_NewParserErrors(t *testing.T) {
	cfg := config.Default()
	r := DefaultRegistry()

	_, err := r.NewParser(config.Source{Name: "x", Path: "x.csv", Format: "mt940"}, cfg)
	assert.ErrorContains(t, err, "unknown statement format")

	_, err = r.NewParser(config.Source{Name: "x", Path: "x.csv", Delimiter: ";;"}, cfg)
	assert.ErrorContains(t, err, "single character")
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "FYRST.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PayPal.CSV"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("data"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "old.csv"), 0o755))

	sources, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "fyrst", sources[0].Name)
	assert.Equal(t, filepath.Join(dir, "FYRST.csv"), sources[0].Path)
	assert.Equal(t, "paypal", sources[1].Name)
}

func TestScan_MissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
