// Package config provides configuration management for the validator.
//
// Configuration is loaded from YAML files with optional environment
// variable overrides:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// Environment variables follow the naming convention
// VERIDATA_SECTION_FIELD, for example:
//
//   - VERIDATA_RULES_PATH overrides rules.path
//   - VERIDATA_ENGINE_FAIL_MODE overrides engine.fail_mode
//   - VERIDATA_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Values are applied in order: defaults, YAML file, environment
// overrides, then validation.
package config
