// Package config loads, normalizes, and validates revoice configuration
// from TOML, resolving paths and applying repository defaults for any
// omitted values. All collaborator parameters (sample rates, candidate
// counts, seeds, thresholds, binaries) flow from here; nothing downstream
// hardcodes them.
package config
