// Package config provides configuration management for the planner.
// Configuration is loaded from a YAML file, environment variables and
// command-line overrides, with precedence:
// defaults < YAML file < environment variables < command-line arguments.
package config
