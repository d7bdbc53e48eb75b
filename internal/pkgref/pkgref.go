// SPDX-License-Identifier: MPL-2.0

// Package pkgref resolves a package reference, either a directory or a Go
// import path, to the package root directory that discovery scans.
package pkgref

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// ErrPackageNotFound is the sentinel error wrapped by NotFoundError.
var ErrPackageNotFound = errors.New("package not found")

type (
	// Package is a resolved package reference.
	Package struct {
		// Ref is the reference as given by the caller.
		Ref string
		// Dir is the absolute package root directory.
		Dir string
		// Name is the package name: the Go package name for import paths,
		// the directory basename otherwise.
		Name string
		// ImportPath is set when Ref was resolved as a Go import path.
		ImportPath string
	}

	// NotFoundError is returned when a reference resolves to nothing.
	NotFoundError struct {
		Ref   string
		Cause error
	}
)

// Resolve turns ref into a Package. References that look like filesystem
// paths (absolute, or starting with "." or "..") are only tried as
// directories; anything else is tried as a directory first and then as a Go
// import path through the go tool.
func Resolve(ctx context.Context, ref string) (Package, error) {
	if ref == "" {
		ref = "."
	}
	if pkg, err := FromDir(ref); err == nil {
		return pkg, nil
	} else if isPathLike(ref) {
		return Package{}, err
	}
	return fromImportPath(ctx, ref)
}

// FromDir builds a Package for an existing directory.
func FromDir(dir string) (Package, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Package{}, &NotFoundError{Ref: dir, Cause: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Package{}, &NotFoundError{Ref: dir, Cause: err}
	}
	if !info.IsDir() {
		return Package{}, &NotFoundError{Ref: dir, Cause: fmt.Errorf("%s is not a directory", abs)}
	}
	return Package{Ref: dir, Dir: abs, Name: filepath.Base(abs)}, nil
}

func fromImportPath(ctx context.Context, ref string) (Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles,
	}
	pkgs, err := packages.Load(cfg, ref)
	if err != nil {
		return Package{}, &NotFoundError{Ref: ref, Cause: err}
	}
	if len(pkgs) != 1 {
		return Package{}, &NotFoundError{Ref: ref, Cause: fmt.Errorf("pattern matched %d packages", len(pkgs))}
	}
	p := pkgs[0]
	if len(p.Errors) > 0 {
		return Package{}, &NotFoundError{Ref: ref, Cause: p.Errors[0]}
	}

	files := append(append([]string{}, p.GoFiles...), p.OtherFiles...)
	if len(files) == 0 {
		return Package{}, &NotFoundError{Ref: ref, Cause: errors.New("package has no files")}
	}
	return Package{Ref: ref, Dir: filepath.Dir(files[0]), Name: p.Name, ImportPath: p.PkgPath}, nil
}

func isPathLike(ref string) bool {
	return filepath.IsAbs(ref) ||
		ref == "." || ref == ".." ||
		strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") ||
		strings.HasPrefix(ref, "."+string(filepath.Separator)) ||
		strings.HasPrefix(ref, ".."+string(filepath.Separator))
}

// String returns the import path when known, the directory otherwise.
func (p Package) String() string {
	if p.ImportPath != "" {
		return p.ImportPath
	}
	return p.Dir
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("package %q not found", e.Ref)
	}
	return fmt.Sprintf("package %q not found: %v", e.Ref, e.Cause)
}

// Unwrap returns ErrPackageNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() []error {
	return []error{ErrPackageNotFound, e.Cause}
}
