// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aplus-courses/coursekit/internal/config"
)

// newConfigCommand creates the `coursekit config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage coursekit configuration",
		Long: `Manage coursekit configuration.

Configuration is stored in config.cue inside the coursekit config directory
($COURSEKIT_CONFIG_DIR, or the platform user config directory). Every value
can be overridden with a COURSEKIT_ environment variable, for example
COURSEKIT_INSTALL_PARALLELISM=2.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				writeHints(app.stderr, err, flags.verbose)
				return err
			}
			app.showConfig(cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", dir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", filepath.Join(dir, config.ConfigFileName))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			path, err := config.Save(config.DefaultConfig(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func (app *App) showConfig(cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	value := func(v any) string { return valueStyle.Render(fmt.Sprint(v)) }

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	if cfg.Source() != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), cfg.Source())
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("project_dir"), value(orNone(cfg.ProjectDir)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("course_url"), value(orNone(cfg.CourseURL)))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("fetch"))
	fmt.Fprintf(app.stdout, "  timeout: %s\n", value(cfg.Fetch.Timeout))
	fmt.Fprintf(app.stdout, "  max_retries: %s\n", value(cfg.Fetch.MaxRetries))
	fmt.Fprintf(app.stdout, "  user_agent: %s\n", value(cfg.Fetch.UserAgent))
	fmt.Fprintf(app.stdout, "  token_env: %s\n", value(cfg.Fetch.TokenEnv))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("install"))
	fmt.Fprintf(app.stdout, "  parallelism: %s\n", value(cfg.Install.Parallelism))
	fmt.Fprintf(app.stdout, "  assume_yes: %s\n", value(cfg.Install.AssumeYes))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(app.stdout, "  ignore: %s\n", value(strings.Join(cfg.Watch.Ignore, ", ")))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", value(cfg.UI.Verbose))
	fmt.Fprintf(app.stdout, "  interactive: %s\n", value(cfg.UI.Interactive))
	fmt.Fprintf(app.stdout, "  theme: %s\n", value(cfg.UI.Theme))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
