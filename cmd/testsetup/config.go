// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/invowk/testsetup/internal/config"
)

// newConfigCommand creates the `testsetup config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage testsetup configuration",
		Long: `Manage testsetup configuration.

Configuration is read from testsetup.cue in the package directory, or from
the file given with --config. TESTSETUP_FRAMEWORK and TESTSETUP_VERBOSE
override the file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show [package]",
		Short: "Show the effective configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := "."
			if len(args) == 1 {
				ref = args[0]
			}
			sess, err := app.openSession(cmd.Context(), ref)
			if err != nil {
				cmd.SilenceErrors = true
				return app.reportError(err)
			}
			return showConfig(cmd.OutOrStdout(), sess, format)
		},
	}
	showCmd.Flags().StringVar(&format, "format", "text", "output format (text|toml|yaml|cue)")
	cfgCmd.AddCommand(showCmd)

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a default testsetup.cue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return initConfig(cmd.OutOrStdout(), dir, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(w io.Writer, sess *session, format string) error {
	cfg := sess.cfg
	switch format {
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config as TOML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config as YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "cue":
		_, err := io.WriteString(w, config.GenerateCUE(cfg))
		return err
	case "text":
	default:
		return fmt.Errorf("unknown format %q (expected text, toml, yaml or cue)", format)
	}

	keyStyle := PathStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if sess.configFile != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), sess.configFile)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("framework"), valueStyle.Render(cfg.Framework.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("verbose"), valueStyle.Render(fmt.Sprintf("%v", cfg.Verbose)))
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("collector"))
	if len(cfg.Collector) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
		return nil
	}
	keys := make([]string, 0, len(cfg.Collector))
	for k := range cfg.Collector {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, valueStyle.Render(fmt.Sprintf("%v", cfg.Collector[k])))
	}
	return nil
}

func initConfig(w io.Writer, dir string, force bool) error {
	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(config.GenerateCUE(config.DefaultConfig())), 0o644); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	fmt.Fprintf(w, "%s Created %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
