package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/eleven-am/fwaudit/internal/analyzer"
	"github.com/eleven-am/fwaudit/internal/domain"
)

const (
	dirName  = ".fwaudit"
	fileName = "config.yaml"

	EnvLogLevel  = "FWAUDIT_LOG_LEVEL"
	EnvOutputDir = "FWAUDIT_OUTPUT_DIR"
	EnvAWSRegion = "FWAUDIT_AWS_REGION"
)

type Config struct {
	SensitivePorts    []int              `yaml:"sensitive_ports" toml:"sensitive_ports" json:"sensitive_ports"`
	UnsafeServices    []analyzer.Service `yaml:"unsafe_services" toml:"unsafe_services" json:"unsafe_services"`
	Parallel          bool               `yaml:"parallel" toml:"parallel" json:"parallel"`
	DisabledDetectors []string           `yaml:"disabled_detectors" toml:"disabled_detectors" json:"disabled_detectors"`
	Output            OutputConfig       `yaml:"output" toml:"output" json:"output"`
	AWS               AWSConfig          `yaml:"aws" toml:"aws" json:"aws"`
	Server            ServerConfig       `yaml:"server" toml:"server" json:"server"`
	LogLevel          string             `yaml:"log_level" toml:"log_level" json:"log_level"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir" toml:"dir" json:"dir"`
	Format string `yaml:"format" toml:"format" json:"format"`
}

type AWSConfig struct {
	Region         string `yaml:"region" toml:"region" json:"region"`
	Profile        string `yaml:"profile" toml:"profile" json:"profile"`
	RoleARNPattern string `yaml:"role_arn_pattern" toml:"role_arn_pattern" json:"role_arn_pattern"`
}

type ServerConfig struct {
	Host string `yaml:"host" toml:"host" json:"host"`
	Port int    `yaml:"port" toml:"port" json:"port"`
}

var outputFormats = map[string]bool{"html": true, "pdf": true, "both": true, "json": true}

func Default() *Config {
	tables := analyzer.DefaultTables()
	return &Config{
		SensitivePorts: tables.SensitivePorts,
		UnsafeServices: tables.UnsafeServices,
		Output: OutputConfig{
			Dir:    "reports",
			Format: "html",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		LogLevel: "info",
	}
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Load reads a YAML or TOML config chosen by extension. An empty path means
// the default location; a missing file yields the defaults. Environment
// overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		log.Debugf("No config at %s, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := decode(data, path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

func decode(data []byte, path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

// Save writes cfg to path, creating the parent directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		data = buf.Bytes()
	default:
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		data = out
	}

	return os.WriteFile(path, data, 0600)
}

// Init writes the default config to path unless a file is already there.
func Init(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	return true, Save(Default(), path)
}

func (c *Config) ApplyEnvOverrides() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
	if dir := os.Getenv(EnvOutputDir); dir != "" {
		c.Output.Dir = dir
	}
	if region := os.Getenv(EnvAWSRegion); region != "" {
		c.AWS.Region = region
	}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	for _, p := range c.SensitivePorts {
		if p < 0 || p > 65535 {
			errs = append(errs, ValidationError{
				Field:   "sensitive_ports",
				Message: fmt.Sprintf("port %d out of range", p),
			})
		}
	}
	for i, s := range c.UnsafeServices {
		if s.Port < 0 || s.Port > 65535 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("unsafe_services[%d].port", i),
				Message: fmt.Sprintf("port %d out of range", s.Port),
			})
		}
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("unsafe_services[%d].name", i),
				Message: "name is required",
			})
		}
	}
	for _, d := range c.DisabledDetectors {
		if _, err := domain.ParseKind(d); err != nil {
			errs = append(errs, ValidationError{Field: "disabled_detectors", Message: err.Error()})
		}
	}
	if !outputFormats[strings.ToLower(c.Output.Format)] {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: html, pdf, both, json", c.Output.Format),
		})
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port %d out of range", c.Server.Port),
		})
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, ValidationError{Field: "log_level", Message: err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) Tables() analyzer.Tables {
	return analyzer.Tables{
		SensitivePorts: c.SensitivePorts,
		UnsafeServices: c.UnsafeServices,
	}
}

// Disabled returns the detector kinds switched off in the config. Unknown
// names are skipped; Validate reports them.
func (c *Config) Disabled() []domain.Kind {
	var kinds []domain.Kind
	for _, d := range c.DisabledDetectors {
		if k, err := domain.ParseKind(d); err == nil {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// AuditorOptions translates the config into analyzer options.
func (c *Config) AuditorOptions() []analyzer.Option {
	return []analyzer.Option{
		analyzer.WithTables(c.Tables()),
		analyzer.WithParallel(c.Parallel),
		analyzer.WithDisabled(c.Disabled()...),
	}
}
