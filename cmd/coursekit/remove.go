// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aplus-courses/coursekit/internal/issue"
	"github.com/aplus-courses/coursekit/pkg/course"
)

func newRemoveCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a component from the project",
		Long: `Remove a component from the project.

The component directory is deleted. The component and every component that
depends on it, directly or transitively, are marked as broken.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, flags, func(ctx context.Context, e *env) error {
				s, err := e.openSession(ctx, nil)
				if err != nil {
					return err
				}
				defer s.Close()

				name := course.ComponentName(args[0])
				if err := s.Remove(name); err != nil {
					return issue.NewErrorContext().
						WithOperation("remove component").
						WithResource(args[0]).
						WithSuggestion("Run 'coursekit status' to list the course components").
						Wrap(err).
						Build()
				}

				fmt.Fprintf(app.stdout, "%s %s removed\n", SuccessStyle.Render("✓"), CmdStyle.Render(args[0]))
				for _, st := range s.Status() {
					if st.Name != name && st.State == course.StateError {
						fmt.Fprintf(app.stdout, "%s %s is broken, it depends on %s\n",
							WarningStyle.Render("!"), CmdStyle.Render(string(st.Name)), args[0])
					}
				}
				return nil
			})
		},
	}
}
