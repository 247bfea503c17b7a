package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"seriesgen/internal/sheet"
)

// EnvPrefix prefixes every environment override, e.g. SERIESGEN_SERVER_PORT.
const EnvPrefix = "SERIESGEN"

// Config is the on-disk configuration shape (YAML), overridable from the environment.
type Config struct {
	Layout    LayoutConfig    `yaml:"layout" split_words:"true"`
	Generator GeneratorConfig `yaml:"generator" split_words:"true"`
	Output    OutputConfig    `yaml:"output" split_words:"true"`
	Server    ServerConfig    `yaml:"server" split_words:"true"`
	Logging   LoggingConfig   `yaml:"logging" split_words:"true"`
	S3        S3Config        `yaml:"s3" split_words:"true"`
}

// LayoutConfig locates labels, values and the series table (0-based columns).
type LayoutConfig struct {
	// Sheet selects a worksheet in xlsx input; empty means the first sheet.
	Sheet        string `yaml:"sheet" split_words:"true"`
	LabelColumn  int    `yaml:"label_column" split_words:"true" validate:"min=0"`
	ValueColumn  int    `yaml:"value_column" split_words:"true" validate:"min=0"`
	MarkerColumn int    `yaml:"marker_column" split_words:"true" validate:"min=0"`
	NameColumn   int    `yaml:"name_column" split_words:"true" validate:"min=0"`
}

type GeneratorConfig struct {
	// Seed makes output reproducible; 0 uses system entropy.
	Seed int64 `yaml:"seed" split_words:"true"`
}

type OutputConfig struct {
	Format          string `yaml:"format" split_words:"true" validate:"oneof=csv xlsx parquet"`
	TimestampLayout string `yaml:"timestamp_layout" split_words:"true" validate:"required"`
	// FileName overrides the default generated_hourly_data.<ext> download name.
	FileName string `yaml:"file_name" split_words:"true"`
}

type ServerConfig struct {
	Port           int           `yaml:"port" split_words:"true" validate:"min=1,max=65535"`
	Env            string        `yaml:"env" split_words:"true" validate:"oneof=development production test"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" split_words:"true" validate:"gt=0"`
	// MaxRows caps the timestamps one upload may generate.
	MaxRows        int           `yaml:"max_rows" split_words:"true" validate:"gt=0"`
	ResultTTL      time.Duration `yaml:"result_ttl" split_words:"true" validate:"gt=0"`
	PreviewRows    int           `yaml:"preview_rows" split_words:"true" validate:"min=0"`
	AllowedOrigins []string      `yaml:"allowed_origins" split_words:"true"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" split_words:"true" validate:"oneof=json console"`
	// FilePath, when set, also writes logs to a rotated file.
	FilePath   string `yaml:"file_path" split_words:"true"`
	MaxSizeMB  int    `yaml:"max_size_mb" split_words:"true" validate:"min=0"`
	MaxBackups int    `yaml:"max_backups" split_words:"true" validate:"min=0"`
	MaxAgeDays int    `yaml:"max_age_days" split_words:"true" validate:"min=0"`
}

// S3Config enables publishing generated files to object storage.
type S3Config struct {
	Enabled         bool   `yaml:"enabled" split_words:"true"`
	Bucket          string `yaml:"bucket" split_words:"true" validate:"required_if=Enabled true"`
	Region          string `yaml:"region" split_words:"true" validate:"required_if=Enabled true"`
	Prefix          string `yaml:"prefix" split_words:"true"`
	Endpoint        string `yaml:"endpoint" split_words:"true"`
	PathStyle       bool   `yaml:"path_style" split_words:"true"`
	AccessKeyID     string `yaml:"access_key_id" split_words:"true"`
	SecretAccessKey string `yaml:"secret_access_key" split_words:"true"`
}

var validate = validator.New()

// Load reads path (optional), applies environment overrides and validates.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked layers defaults, the YAML file and the environment, without validating.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config %s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	return nil
}

func (l LayoutConfig) ToLayout() sheet.Layout {
	return sheet.Layout{
		LabelColumn:  l.LabelColumn,
		ValueColumn:  l.ValueColumn,
		MarkerColumn: l.MarkerColumn,
		NameColumn:   l.NameColumn,
	}
}
