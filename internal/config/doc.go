// SPDX-License-Identifier: MPL-2.0

// Package config handles coursekit's application configuration using Viper
// with CUE as the file format.
//
// Configuration is read from config.cue in the user configuration directory
// ($XDG_CONFIG_HOME/coursekit on Linux), or from an explicit path. The file
// is validated against the embedded schema (config_schema.cue) and merged
// over the defaults; COURSEKIT_* environment variables override both, e.g.
// COURSEKIT_INSTALL_PARALLELISM=8.
package config
