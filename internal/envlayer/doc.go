// SPDX-License-Identifier: MPL-2.0

// Package envlayer models the optional functional environment framework:
// whether it is available, and the definition-file layers it builds.
//
// File organization:
//   - envlayer.go: Framework interface, DefinitionLayer and Static
//   - containers.go: availability probe backed by a container provider
//   - mode.go: auto/none/always selection used by configuration and the CLI
package envlayer
