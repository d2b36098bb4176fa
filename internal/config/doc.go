// Package config loads, normalizes, and validates wordcore configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// WORDCORE_DATA_DIR and WORDCORE_LOG_LEVEL. The Config type centralizes the
// SRS constants, planner weights, default parent policy, and import limits so
// the engine, planner, and import pipeline read one source of truth.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
