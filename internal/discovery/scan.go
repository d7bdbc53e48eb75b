// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"os"
	"path/filepath"
)

// Result is the outcome of a Scan.
type Result struct {
	// Paths holds the absolute paths of accepted files, in walk order.
	Paths []string
	// Diagnostics holds the non-fatal problems met while walking.
	Diagnostics []Diagnostic
}

// Scan walks root recursively and returns the absolute paths of all
// non-directory entries accepted by pred. Hidden subdirectories are skipped.
// Within a directory, entries keep os.ReadDir order and subdirectory results
// are spliced in at the directory's position.
//
// Failing to list root is an error. Failing to list a nested directory is
// reported as a diagnostic and that subtree is skipped. Symbolic links are not
// followed; they are offered to pred like regular files.
func Scan(root string, pred Predicate) (Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Result{}, fmt.Errorf("resolving scan root %q: %w", root, err)
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return Result{}, fmt.Errorf("listing scan root %s: %w", absRoot, err)
	}

	var res Result
	scanEntries(absRoot, entries, pred, &res)
	return res, nil
}

func scanDir(dir string, pred Predicate, res *Result) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, NewDiagnosticWithCause(
			SeverityWarning,
			CodeScanDirFailed,
			fmt.Sprintf("skipping directory %s: %v", dir, err),
			dir,
			err,
		))
		return
	}
	scanEntries(dir, entries, pred, res)
}

func scanEntries(dir string, entries []os.DirEntry, pred Predicate, res *Result) {
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !entry.IsDir() {
			if pred(path) {
				res.Paths = append(res.Paths, path)
			}
			continue
		}
		if IsHiddenDir(entry.Name()) {
			continue
		}
		scanDir(path, pred, res)
	}
}
