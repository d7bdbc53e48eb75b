// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/testsetup/internal/config"
	"github.com/invowk/testsetup/internal/envlayer"
	"github.com/invowk/testsetup/internal/issue"
	"github.com/invowk/testsetup/internal/pkgref"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App reference.
	App struct {
		Config     config.Provider
		Frameworks FrameworkFactory
		stdout     io.Writer
		stderr     io.Writer

		verbose    bool
		configPath string
	}

	// FrameworkFactory returns the environment framework for a mode.
	FrameworkFactory func(mode envlayer.Mode, logger *log.Logger) (envlayer.Framework, error)

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     config.Provider
		Frameworks FrameworkFactory
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// session is the per-invocation state shared by commands that operate on a
	// package: its resolved location, configuration and logger.
	session struct {
		pkg        pkgref.Package
		cfg        *config.Config
		configFile string
		logger     *log.Logger
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		Frameworks: deps.Frameworks,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Frameworks == nil {
		app.Frameworks = defaultFramework
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

func defaultFramework(mode envlayer.Mode, logger *log.Logger) (envlayer.Framework, error) {
	fw, err := mode.Framework()
	if err != nil {
		return nil, err
	}
	if containers, ok := fw.(*envlayer.Containers); ok {
		containers.Logger = logger
	}
	return fw, nil
}

// newLogger builds the CLI logger writing to w. Verbose lowers the level to debug.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "testsetup",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// openSession resolves ref and loads the configuration that applies to it.
func (a *App) openSession(ctx context.Context, ref string) (*session, error) {
	if ref == "" {
		ref = "."
	}
	pkg, err := pkgref.Resolve(ctx, ref)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("resolve package").
			WithResource(ref).
			WithSuggestions(
				"Pass a directory path or a Go import path",
				"Run the command from inside the module that contains the package",
			).
			WithIssue(issue.PackageNotFoundId).
			Wrap(err).
			BuildError()
	}

	cfg, configFile, err := a.loadConfig(ctx, pkg.Dir)
	if err != nil {
		return nil, err
	}

	return &session{
		pkg:        pkg,
		cfg:        cfg,
		configFile: configFile,
		logger:     newLogger(a.stderr, a.verbose || cfg.Verbose),
	}, nil
}

func (a *App) loadConfig(ctx context.Context, packageDir string) (*config.Config, string, error) {
	opts := config.LoadOptions{ConfigFilePath: a.configPath, PackageDir: packageDir}
	cfg, err := a.Config.Load(ctx, opts)
	if err != nil {
		return nil, "", err
	}
	return cfg, opts.Path(), nil
}

// reportError prints err to stderr the way every command does and returns the
// ExitError the handler should return.
func (a *App) reportError(err error) error {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))
	if a.verbose {
		if iss := issue.IssueOf(err); iss != nil {
			if rendered, renderErr := iss.Render(""); renderErr == nil {
				fmt.Fprint(a.stderr, rendered)
			}
		}
	}
	return &ExitError{Code: 1, Err: err}
}

// renderIssues writes the catalog entry of each issue to stderr.
func (a *App) renderIssues(issues []*issue.Issue) {
	for _, iss := range issues {
		if rendered, err := iss.Render(""); err == nil {
			fmt.Fprint(a.stderr, rendered)
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their Format method; in verbose mode the chain is shown.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
