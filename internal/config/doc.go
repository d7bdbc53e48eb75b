// SPDX-License-Identifier: MPL-2.0

// Package config handles project configuration using Viper with CUE as the file format.
//
// Configuration is read from testsetup.cue in the package root, or from an explicit
// path. Values are validated against the embedded CUE schema (config_schema.cue),
// merged over the defaults and may be overridden by TESTSETUP_* environment variables.
package config
