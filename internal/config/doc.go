// Package config provides centralized configuration management for the
// SurveyPrep system. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration values
// throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SURVEYPREP_* for namespacing:
//
//	SURVEYPREP_SERVER_PORT=8080
//	SURVEYPREP_LOGGING_LEVEL=info
//	SURVEYPREP_PIPELINE_RULE_SET=remove
//	SURVEYPREP_PIPELINE_MAX_UPLOAD_BYTES=52428800
//	SURVEYPREP_TELEMETRY_ENABLED=true
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths := cfg.ResolvedPaths()
//	staged := paths.GetUploadPath("export.csv")
//	logFile := paths.GetLogPath("surveyprep.log")
//
// # Validation
//
// All configuration is validated at load time. Invalid logging values are
// coerced to safe defaults; everything else (out-of-range port, zero upload
// limits, unknown trace exporter) fails startup. The pipeline rule set name
// is resolved against the known rule sets during application bootstrap.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
