// SPDX-License-Identifier: MPL-2.0

// Package getter finds the test files of one kind in a package and turns
// each into a suite unit.
//
// A kind is described by a Descriptor: the file extensions it accepts, the
// marker rule a file must satisfy, a one-character configuration prefix and
// the kind's default options. A Getter combines a descriptor with a package
// and decoded Options, and Build produces the kind's suite node.
//
// File organization:
//   - descriptor.go: kinds and their descriptors
//   - options.go: option decoding, precedence and recognized keys
//   - getter.go: Getter construction and Build
//   - layer.go: per-file layer resolution
package getter
