// Package config provides centralized configuration management for the WIL
// data pipeline. It handles loading configuration from multiple sources,
// validation, and a type-safe API for the rest of the application.
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
// All environment variables follow the pattern WIL_* for namespacing:
//
//	WIL_LOGGING_LEVEL=debug
//	WIL_PATHS_CLEANED_DIR=/var/wil/cleaned
//	WIL_PIPELINE_BATCH_CONCURRENCY=8
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Domain rule tables (integer fields, categorical expectations, classifier
// patterns) live with the packages that apply them and carry their own
// Default* constructors; this package only holds operational settings.
package config
