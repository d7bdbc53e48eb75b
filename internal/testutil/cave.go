// SPDX-License-Identifier: MPL-2.0

package testutil

import "testing"

// CaveFiles is the sample package tree shared by getter and collector tests.
//
//	file1.py               module test (:unittest:)
//	file1.rst              unit doctest (:test-layer: unit)
//	file1.txt              functional doctest (:test-layer: functional)
//	subdir/subdirfile.txt  functional doctest
//	doc.rst                plain doctest (:doctest:)
//	notatest1.foo          unit doctest with an extension nobody accepts by default
//	notatest2.txt          no markers at all
//	.hidden/hidden.rst     doctest inside a hidden directory (never found)
//	ftesting.zcml          environment definition used by functional tests
var CaveFiles = map[string]string{
	"file1.py": `"""
:unittest:
"""
`,
	"file1.rst": `A unit doctest
==============

:Test-Layer: unit

  >>> 1 + 1
  2
`,
	"file1.txt": `A functional doctest

:Test-Layer: functional
`,
	"subdir/subdirfile.txt": `Another functional doctest

:test-layer: functional
`,
	"doc.rst": `Simple doctest

.. :doctest:
`,
	"notatest1.foo": `:test-layer: unit
`,
	"notatest2.txt": `Just documentation.
`,
	".hidden/hidden.rst": `.. :doctest:
`,
	"ftesting.zcml": `<configure/>
`,
}

// WriteCave writes CaveFiles below a new temporary directory and returns it.
func WriteCave(t testing.TB) string {
	t.Helper()
	root := t.TempDir()
	WriteTree(t, root, CaveFiles)
	return root
}
