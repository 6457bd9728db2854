package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "incomereport.yaml"

// Config represents the top-level incomereport.yaml configuration.
type Config struct {
	Locale     Locale     `yaml:"locale"`
	Aliases    Aliases    `yaml:"aliases"`
	Clustering Clustering `yaml:"clustering"`
	Sources    []Source   `yaml:"sources,omitempty" validate:"dive"`
	Output     Output     `yaml:"output"`
	Workers    int        `yaml:"workers" validate:"gte=1"`
}

// Locale controls how ambiguous dates and amounts are read.
type Locale struct {
	DecimalSeparator string `yaml:"decimal_separator" validate:"oneof=0x2C ."`
	DayFirst         bool   `yaml:"day_first"`
}

// Aliases maps each logical field to the header strings accepted for it,
// in priority order.
type Aliases struct {
	Date        []string `yaml:"date" validate:"min=1,dive,required"`
	Amount      []string `yaml:"amount" validate:"min=1,dive,required"`
	Description []string `yaml:"description"`
}

// Clustering holds the density-clustering parameters.
type Clustering struct {
	Epsilon    float64 `yaml:"epsilon" validate:"gt=0"`
	MinSamples int     `yaml:"min_samples" validate:"gte=1"`
}

// Source declares one statement file.
type Source struct {
	Name      string `yaml:"name" validate:"required"`
	Path      string `yaml:"path" validate:"required"`
	Format    string `yaml:"format,omitempty"`
	Delimiter string `yaml:"delimiter,omitempty" validate:"omitempty,len=1"`
	Encoding  string `yaml:"encoding,omitempty" validate:"omitempty,oneof=auto utf-8 windows-1252 iso-8859-1"`
}

// Output controls where the report goes.
type Output struct {
	Format     string `yaml:"format" validate:"oneof=text rtf xlsx"`
	Path       string `yaml:"path,omitempty"`
	ArchiveDir string `yaml:"archive_dir,omitempty"`
}

// Load reads an incomereport.yaml file from disk. Fields missing from the
// file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config matching German and English bank exports.
func Default() *Config {
	return &Config{
		Locale: Locale{
			DecimalSeparator: ",",
			DayFirst:         true,
		},
		Aliases: Aliases{
			Date:        []string{"Buchungsdatum", "Datum", "Date"},
			Amount:      []string{"Betrag", "Amount", "Brutto"},
			Description: []string{"Verwendungszweck", "Description", "Zahlungsempfänger", "Name"},
		},
		Clustering: Clustering{
			Epsilon:    0.5,
			MinSamples: 3,
		},
		Output: Output{
			Format: "text",
		},
		Workers: 4,
	}
}

var validate = validator.New()

// Validate checks field constraints and returns all violations in one error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Env variable names recognized by ApplyEnv.
const (
	EnvEpsilon      = "INCOMEREPORT_EPSILON"
	EnvMinSamples   = "INCOMEREPORT_MIN_SAMPLES"
	EnvOutputFormat = "INCOMEREPORT_FORMAT"
	EnvArchiveDir   = "INCOMEREPORT_ARCHIVE_DIR"
	EnvWorkers      = "INCOMEREPORT_WORKERS"
)

// ApplyEnv overrides settings from INCOMEREPORT_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvEpsilon); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvEpsilon, v, err)
		}
		c.Clustering.Epsilon = f
	}
	if v := getenv(EnvMinSamples); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvMinSamples, v, err)
		}
		c.Clustering.MinSamples = n
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	if v := getenv(EnvOutputFormat); v != "" {
		c.Output.Format = v
	}
	if v := getenv(EnvArchiveDir); v != "" {
		c.Output.ArchiveDir = v
	}
	return nil
}
