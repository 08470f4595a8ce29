// Package config loads the astarviz application configuration.
//
// What:
//
//   - Config groups the knobs of every front end: grid generation, search
//     limits, TUI pacing, the streaming server and logging.
//   - Default returns a complete, valid configuration.
//   - Load overlays a YAML file on Default and validates the result.
//
// Why:
//
//   - Command-line flags override individual fields after Load, so a file only
//     needs the values that differ from the defaults.
//
// Errors:
//
//   - ErrInvalidConfig wraps every validation failure, naming the offending
//     fields.
//   - Read and decode failures are wrapped with the file path.
package config
