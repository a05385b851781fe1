package config

import (
	"fmt"
	"strings"

	"github.com/duke-git/lancet/v2/slice"

	"github.com/swarmourr/pegasus-sub001/internal/namespace"
	"github.com/swarmourr/pegasus-sub001/internal/selector/site"
	"github.com/swarmourr/pegasus-sub001/internal/selector/transformation"
	"github.com/swarmourr/pegasus-sub001/internal/transfer"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration values.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{Field: field, Message: message})
}

// Validate validates the entire configuration and returns any errors.
func (v *Validator) Validate(cfg *Config) error {
	v.errors = make(ValidationErrors, 0)

	v.validatePlannerConfig(&cfg.Planner)
	v.validateTransferConfig(&cfg.Transfer)
	v.validateLoggingConfig(&cfg.Logging)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

func (v *Validator) validatePlannerConfig(cfg *PlannerConfig) {
	if cfg.SiteSelector == "" {
		v.addError("planner.site_selector", "site selector is required")
	} else if names := site.DefaultRegistry.List(); !slice.Contain(names, strings.ToLower(cfg.SiteSelector)) {
		v.addError("planner.site_selector", fmt.Sprintf("unknown site selector '%s', must be one of: %s", cfg.SiteSelector, strings.Join(names, ", ")))
	}

	if cfg.TransformationSelector != "" {
		if _, err := transformation.Get(cfg.TransformationSelector); err != nil {
			v.addError("planner.transformation_selector", err.Error())
		}
	}

	if cfg.OutputSite == "" {
		v.addError("planner.output_site", "output site is required")
	}

	for _, s := range cfg.Sites {
		if strings.TrimSpace(s) == "" {
			v.addError("planner.sites", "site handles must not be empty")
			break
		}
	}

	for _, r := range cfg.ProfileAggregators {
		if _, err := namespace.ParseRule(r); err != nil {
			v.addError("planner.profile_aggregators", err.Error())
		}
	}
}

func (v *Validator) validateTransferConfig(cfg *TransferConfig) {
	switch strings.ToLower(cfg.LocationPreference) {
	case transfer.PreferenceNone, transfer.PreferenceLocal, transfer.PreferenceRemote:
	default:
		v.addError("transfer.location_preference",
			fmt.Sprintf("invalid location preference '%s', must be one of: local, remote", cfg.LocationPreference))
	}
}

func (v *Validator) validateLoggingConfig(cfg *LoggingConfig) {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if cfg.Level == "" {
		v.addError("logging.level", "log level is required")
	} else if !validLevels[strings.ToLower(cfg.Level)] {
		v.addError("logging.level", fmt.Sprintf("invalid log level '%s', must be one of: debug, info, warn, error", cfg.Level))
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}
	if cfg.Format == "" {
		v.addError("logging.format", "log format is required")
	} else if !validFormats[strings.ToLower(cfg.Format)] {
		v.addError("logging.format", fmt.Sprintf("invalid log format '%s', must be one of: json, console", cfg.Format))
	}

	switch strings.ToLower(cfg.Output) {
	case "", "stdout", "stderr":
	case "file", "both":
		if cfg.FilePath == "" {
			v.addError("logging.file_path", "file path is required when logging to a file")
		}
	default:
		v.addError("logging.output", fmt.Sprintf("invalid log output '%s', must be one of: stdout, stderr, file, both", cfg.Output))
	}

	if cfg.MaxSize < 0 {
		v.addError("logging.max_size", "max size must be non-negative")
	}
	if cfg.MaxBackups < 0 {
		v.addError("logging.max_backups", "max backups must be non-negative")
	}
	if cfg.MaxAge < 0 {
		v.addError("logging.max_age", "max age must be non-negative")
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	return NewValidator().Validate(c)
}

// LoadAndValidate loads configuration and validates it.
func LoadAndValidate(l *Loader) (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
