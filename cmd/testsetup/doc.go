// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for testsetup.
//
// The commands are thin: they resolve a package, load its testsetup.cue
// configuration and delegate to internal/collector, then render the result.
package cmd
