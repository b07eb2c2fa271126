// Package config loads, normalizes, and validates bilistage configuration data.
//
// It supplies repository defaults, resolves the configuration home (honouring
// BILISTAGE_CONFIG_HOME), expands user paths including tilde shortcuts, and
// reads the TOML file. The Config type centralizes every knob the commands
// need: cache and settings directories, toolchain binaries, upload defaults,
// filler clip locations, and logging.
//
// A Config is built once per command and passed down explicitly. Per-title
// media settings live in separate TOML files loaded by the catalog package.
package config
