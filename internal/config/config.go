package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/swarmourr/pegasus-sub001/internal/namespace"
	"github.com/swarmourr/pegasus-sub001/internal/selector/site"
	"github.com/swarmourr/pegasus-sub001/internal/selector/transformation"
	"github.com/swarmourr/pegasus-sub001/internal/transfer"
	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// DefaultEnvPrefix prefixes every environment variable read by the Loader.
const DefaultEnvPrefix = "PLANNER_"

// Config represents the complete planner configuration.
type Config struct {
	Planner  PlannerConfig  `yaml:"planner"`
	Catalogs CatalogConfig  `yaml:"catalogs"`
	Transfer TransferConfig `yaml:"transfer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PlannerConfig holds site selection and clustering settings.
type PlannerConfig struct {
	SiteSelector           string   `yaml:"site_selector" env:"SITE_SELECTOR"`
	TransformationSelector string   `yaml:"transformation_selector" env:"TRANSFORMATION_SELECTOR"`
	Sites                  []string `yaml:"sites,omitempty" env:"SITES"`
	OutputSite             string   `yaml:"output_site" env:"OUTPUT_SITE"`
	ClusterByLabel         bool     `yaml:"cluster_by_label" env:"CLUSTER_BY_LABEL"`
	RandomSeed             int64    `yaml:"random_seed" env:"RANDOM_SEED"`
	// ProfileAggregators adds or replaces aggregation rules, each written as
	// namespace.key=Aggregator[:default].
	ProfileAggregators []string `yaml:"profile_aggregators,omitempty" env:"PROFILE_AGGREGATORS"`
}

// CatalogConfig holds catalog file locations.
type CatalogConfig struct {
	Sites           string `yaml:"sites" env:"SITE_CATALOG"`
	Transformations string `yaml:"transformations" env:"TRANSFORMATION_CATALOG"`
	Replicas        string `yaml:"replicas" env:"REPLICA_CATALOG"`
}

// TransferConfig holds transfer placement settings.
type TransferConfig struct {
	StageInRemoteSites  []string `yaml:"stagein_remote_sites,omitempty" env:"TRANSFER_STAGEIN_REMOTE_SITES"`
	StageOutRemoteSites []string `yaml:"stageout_remote_sites,omitempty" env:"TRANSFER_STAGEOUT_REMOTE_SITES"`
	InterRemoteSites    []string `yaml:"inter_remote_sites,omitempty" env:"TRANSFER_INTER_REMOTE_SITES"`
	LocationPreference  string   `yaml:"location_preference" env:"TRANSFER_LOCATION_PREFERENCE"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	Output     string `yaml:"output" env:"LOG_OUTPUT"`
	FilePath   string `yaml:"file_path" env:"LOG_FILE_PATH"`
	MaxSize    int    `yaml:"max_size" env:"LOG_MAX_SIZE"` // MB
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS"`
	MaxAge     int    `yaml:"max_age" env:"LOG_MAX_AGE"` // days
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Planner: PlannerConfig{
			SiteSelector:           site.NameRoundRobin,
			TransformationSelector: transformation.NameInstalled,
			OutputSite:             types.LocalSiteHandle,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			Output:     "stderr",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// RefinerConfig returns the transfer refiner settings.
func (c *Config) RefinerConfig() transfer.RefinerConfig {
	return transfer.RefinerConfig{
		RemoteSites: map[types.TransferType][]string{
			types.StageInTransfer:   c.Transfer.StageInRemoteSites,
			types.StageOutTransfer:  c.Transfer.StageOutRemoteSites,
			types.InterSiteTransfer: c.Transfer.InterRemoteSites,
		},
		LocationPreference: c.Transfer.LocationPreference,
	}
}

// AggregationRules returns the default aggregation rules followed by the
// configured ones.
func (c *Config) AggregationRules() ([]namespace.Rule, error) {
	rules := namespace.DefaultRules()
	for _, s := range c.Planner.ProfileAggregators {
		r, err := namespace.ParseRule(s)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Loader handles configuration loading from multiple sources.
type Loader struct {
	configPath string
	envPrefix  string
	cmdArgs    map[string]string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		envPrefix: DefaultEnvPrefix,
		cmdArgs:   make(map[string]string),
	}
}

// WithConfigPath sets the path to the YAML configuration file.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix sets the prefix for environment variables.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithCmdArgs sets command-line arguments for configuration override.
// Keys are dotted YAML paths such as "planner.site_selector".
func (l *Loader) WithCmdArgs(args map[string]string) *Loader {
	l.cmdArgs = args
	return l
}

// Load loads configuration from all sources with proper precedence:
// defaults < YAML file < environment variables < command-line flags
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := l.applyCmdOverrides(cfg); err != nil {
		return nil, fmt.Errorf("apply command-line overrides: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("read %s: %w", l.configPath, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", l.configPath, err)
	}

	return nil
}

func (l *Loader) applyEnvOverrides(cfg *Config) error {
	return l.applyEnvToStruct(reflect.ValueOf(cfg).Elem())
}

// applyEnvToStruct recursively applies environment variables to struct fields.
func (l *Loader) applyEnvToStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if field.Kind() == reflect.Struct {
			if err := l.applyEnvToStruct(field); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		name := l.envPrefix + envTag
		envValue := os.Getenv(name)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("set %s from %s: %w", fieldType.Name, name, err)
		}
	}

	return nil
}

func (l *Loader) applyCmdOverrides(cfg *Config) error {
	for key, value := range l.cmdArgs {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a configuration value by its dotted YAML path.
func setConfigValue(cfg *Config, path, value string) error {
	parts := strings.Split(path, ".")
	v := reflect.ValueOf(cfg).Elem()

	for i, part := range parts {
		field, ok := fieldByYAMLName(v, part)
		if !ok {
			return fmt.Errorf("unknown configuration path: %s", path)
		}

		if i == len(parts)-1 {
			return setFieldValue(field, value)
		}

		if field.Kind() != reflect.Struct {
			return fmt.Errorf("expected %s to be a section, got %s", part, field.Kind())
		}
		v = field
	}

	return nil
}

func fieldByYAMLName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		if tag == name || strings.EqualFold(t.Field(i).Name, name) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setFieldValue sets a reflect.Value from a string value.
func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		// comma-separated string slices
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Serialize serializes the configuration to YAML bytes.
func (c *Config) Serialize() ([]byte, error) {
	return yaml.Marshal(c)
}

// ParseConfig parses a YAML configuration from bytes.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file path.
func LoadFromFile(path string) (*Config, error) {
	return NewLoader().WithConfigPath(path).Load()
}
