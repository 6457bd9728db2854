package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Sources = []Source{
		{Name: "fyrst", Path: "FYRST.csv", Format: "fyrst"},
		{Name: "paypal", Path: "PayPal.csv", Delimiter: ",", Encoding: "windows-1252"},
	}
	cfg.Output.ArchiveDir = "archive"

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Locale, got.Locale)
	assert.Equal(t, cfg.Aliases, got.Aliases)
	assert.InDelta(t, cfg.Clustering.Epsilon, got.Clustering.Epsilon, 0.001)
	assert.Equal(t, cfg.Clustering.MinSamples, got.Clustering.MinSamples)
	assert.Equal(t, "archive", got.Output.ArchiveDir)
	require.Len(t, got.Sources, 2)
	assert.Equal(t, "fyrst", got.Sources[0].Name)
	assert.Equal(t, ",", got.Sources[1].Delimiter)
	assert.Equal(t, "windows-1252", got.Sources[1].Encoding)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ",", cfg.Locale.DecimalSeparator)
	assert.True(t, cfg.Locale.DayFirst)
	assert.InDelta(t, 0.5, cfg.Clustering.Epsilon, 0.0001)
	assert.Equal(t, 3, cfg.Clustering.MinSamples)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Contains(t, cfg.Aliases.Date, "Buchungsdatum")
	assert.Contains(t, cfg.Aliases.Amount, "Betrag")
	assert.Contains(t, cfg.Aliases.Description, "Verwendungszweck")
	assert.Empty(t, cfg.Sources)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("clustering:\n  min_samples: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Clustering.MinSamples)
	assert.InDelta(t, 0.5, cfg.Clustering.Epsilon, 0.0001)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.NotEmpty(t, cfg.Aliases.Date)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("clustering: [\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "epsilon: 0.5")
	assert.Contains(t, contents, "min_samples: 3")
	assert.Contains(t, contents, "day_first: true")
	assert.Contains(t, contents, "- Buchungsdatum")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"zero epsilon", func(c *Config) { c.Clustering.Epsilon = 0 }, "Epsilon"},
		{"zero min samples", func(c *Config) { c.Clustering.MinSamples = 0 }, "MinSamples"},
		{"bad format", func(c *Config) { c.Output.Format = "pdf" }, "Format"},
		{"no date aliases", func(c *Config) { c.Aliases.Date = nil }, "Date"},
		{"bad decimal separator", func(c *Config) { c.Locale.DecimalSeparator = "'" }, "DecimalSeparator"},
		{"source without path", func(c *Config) { c.Sources = []Source{{Name: "x"}} }, "Path"},
		{"long delimiter", func(c *Config) { c.Sources = []Source{{Name: "x", Path: "x.csv", Delimiter: ";;"}} }, "Delimiter"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "Workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvEpsilon:      "0.75",
		EnvMinSamples:   "4",
		EnvOutputFormat: "rtf",
		EnvArchiveDir:   "out",
		EnvWorkers:      "2",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.InDelta(t, 0.75, cfg.Clustering.Epsilon, 0.0001)
	assert.Equal(t, 4, cfg.Clustering.MinSamples)
	assert.Equal(t, "rtf", cfg.Output.Format)
	assert.Equal(t, "out", cfg.Output.ArchiveDir)
	assert.Equal(t, 2, cfg.Workers)
}

func TestApplyEnv_BadNumber(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) string {
		if k == EnvMinSamples {
			return "three"
		}
		return ""
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvMinSamples)
}
