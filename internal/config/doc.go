// Package config loads the calsync runtime configuration.
//
// Configuration is merged from three sources in increasing precedence:
// an optional calsync.toml file (current directory, then
// $HOME/.config/calsync/), an optional .env file, and the process
// environment (CALSYNC_* variables).
package config
