// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for coursekit.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "coursekit",
		Short: "Install and track the components of a programming course",
		Long: TitleStyle.Render("coursekit") + SubtitleStyle.Render(" - Install and track the components of a programming course") + `

coursekit installs the modules and libraries a course publishes into a
project directory, keeps track of which ones are installed, and notices
when a component or one of its dependencies disappears.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Point the project at a course: coursekit init <course-url>
  2. See what the course contains: coursekit status
  3. Install a module with everything it needs: coursekit install --with-deps <module>

` + SubtitleStyle.Render("Examples:") + `
  coursekit status                  List components and their state
  coursekit install GoodStuff       Install one module
  coursekit remove GoodStuff        Remove a module and invalidate its dependents
  coursekit watch                   Follow deletions in the project
  coursekit config show             Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/coursekit/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&flags.projectDir, "project", "p", "", "project directory (default is the working directory)")

	rootCmd.AddCommand(
		newInitCommand(app, flags),
		newStatusCommand(app, flags),
		newInstallCommand(app, flags),
		newRemoveCommand(app, flags),
		newWatchCommand(app, flags),
		newConfigCommand(app, flags),
	)
	return rootCmd
}

// run prepares the invocation environment, calls fn and prints hints for
// actionable errors before handing the error back to cobra.
func (app *App) run(cmd *cobra.Command, flags *rootFlagValues, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()

	e, err := app.prepare(ctx, flags)
	if err != nil {
		writeHints(app.stderr, err, flags.verbose)
		return err
	}
	defer e.Close()

	if err := fn(ctx, e); err != nil {
		writeHints(app.stderr, err, e.verbose)
		return err
	}
	return nil
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits. It is called by main.main().
func Execute() {
	os.Exit(run())
}

// run executes the command tree and returns the process exit code.
func run() int {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}
