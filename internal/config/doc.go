// Package config loads browsermotion settings.
//
// Settings come from three layers, lowest priority first:
//
//   - built-in defaults (Default)
//   - a TOML file, by default config.toml in the user config directory
//   - BROWSERMOTION_* environment variables
//
// Environment variables name a section and a setting:
// BROWSERMOTION_INPUT_SEQUENCE_TIMEOUT sets [input] sequence_timeout.
//
// Example config.toml:
//
//	[input]
//	sequence_timeout = "1s"
//
//	[store]
//	backend = "bbolt"
//	path = "~/.local/share/browsermotion/keybinds.db"
//
//	[script]
//	enabled = true
//	timeout = "5s"
//
//	[log]
//	level = "info"
package config
