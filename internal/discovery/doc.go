// SPDX-License-Identifier: MPL-2.0

// Package discovery walks a package directory tree and yields the files a
// test getter should consider.
//
// File organization:
//   - scan.go: recursive Scan with hidden-directory skipping
//   - predicate.go: composable file predicates (extension, marker presence)
//   - diagnostic.go: structured non-fatal diagnostics and reporters
package discovery
