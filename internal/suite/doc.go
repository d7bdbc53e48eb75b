// SPDX-License-Identifier: MPL-2.0

// Package suite holds the assembled test suite model: runnable units, the
// tree of nodes that groups them, shared-environment layers and the option
// flags and output checkers attached to each unit.
//
// Nothing in this package runs tests. A Node is the hand-off point to
// whatever engine executes the units.
package suite
