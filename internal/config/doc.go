// Package config loads, normalizes, and validates gazeprep configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and centralizes every knob the CLI needs:
// dataset roots, the excluded coder alias list, the completeness threshold,
// and batch execution settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, case-folded alias lists, and clear validation errors.
package config
