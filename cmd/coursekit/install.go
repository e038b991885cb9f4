// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aplus-courses/coursekit/internal/install"
	"github.com/aplus-courses/coursekit/internal/issue"
	"github.com/aplus-courses/coursekit/internal/tui"
	"github.com/aplus-courses/coursekit/pkg/course"
)

func newInstallCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var (
		withDeps bool
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "install <name>...",
		Short: "Install course components",
		Long: `Install course components into the project.

An installed component is only replaced after confirmation. Without a
terminal the confirmation is declined unless --yes is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, flags, func(ctx context.Context, e *env) error {
				tuiCfg := tui.DefaultConfig()
				tuiCfg.Theme = tui.Theme(e.cfg.UI.Theme)
				dialogs := tui.NewDialogs(
					tuiCfg,
					e.cfg.UI.Interactive && tui.IsInputTerminal(),
					yes || e.cfg.Install.AssumeYes,
					e.logger,
				)

				s, err := e.openSession(ctx, dialogs)
				if err != nil {
					return err
				}
				defer s.Close()

				names := make([]course.ComponentName, 0, len(args))
				for _, a := range args {
					names = append(names, course.ComponentName(a))
				}

				outcomes, err := s.Install(ctx, names, withDeps)
				if len(outcomes) == 0 && err != nil {
					return issue.ForInstall(err, failedComponent(err, names[0]))
				}
				return app.reportOutcomes(outcomes, e.verbose)
			})
		},
	}
	cmd.Flags().BoolVar(&withDeps, "with-deps", false, "also install missing dependencies")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "overwrite installed components without asking")
	return cmd
}

// failedComponent returns the component err names, or fallback when it
// names none.
func failedComponent(err error, fallback course.ComponentName) course.ComponentName {
	var (
		unknown *course.UnknownComponentError
		failed  *install.InstallError
	)
	switch {
	case errors.As(err, &unknown):
		return unknown.Name
	case errors.As(err, &failed):
		return failed.Component
	default:
		return fallback
	}
}

// reportOutcomes prints one line per outcome and fails with ExitError when
// any install failed.
func (app *App) reportOutcomes(outcomes []install.Outcome, verbose bool) error {
	failed := 0
	for _, o := range outcomes {
		name := CmdStyle.Render(string(o.Component.Name()))
		switch o.Result {
		case install.ResultInstalled:
			fmt.Fprintf(app.stdout, "%s %s installed\n", SuccessStyle.Render("✓"), name)
		case install.ResultDeclined:
			fmt.Fprintf(app.stdout, "%s %s kept, already installed\n", SubtitleStyle.Render("-"), name)
		case install.ResultInProgress:
			fmt.Fprintf(app.stdout, "%s %s is already being installed\n", WarningStyle.Render("…"), name)
		case install.ResultAbandoned:
			fmt.Fprintf(app.stdout, "%s %s was removed while installing\n", WarningStyle.Render("!"), name)
		default:
			failed++
			ae := issue.ForInstall(o.Err, o.Component.Name())
			fmt.Fprintf(app.stderr, "%s %s\n", ErrorStyle.Render("✗"), ae.Error())
			writeHints(app.stderr, ae, verbose)
		}
	}

	if failed > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d installs failed", failed, len(outcomes))}
	}
	return nil
}
