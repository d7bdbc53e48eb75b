// SPDX-License-Identifier: MPL-2.0

// Package marker extracts in-file test annotations ("markers").
//
// A marker is a single line of the form
//
//	:<tag>: <value>
//
// optionally preceded by a reStructuredText comment prefix:
//
//	.. :<tag>: <value>
//
// Tags are matched case-insensitively and values are trimmed. Files are read as raw
// bytes and decoded leniently, so corrupt or binary input simply yields no markers.
package marker
