// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aplus-courses/coursekit/internal/session"
)

func newStatusCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List the course components and their state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, flags, func(ctx context.Context, e *env) error {
				s, err := e.openSession(ctx, nil)
				if err != nil {
					return err
				}
				defer s.Close()

				app.printStatus(s)
				return nil
			})
		},
	}
}

func (app *App) printStatus(s *session.Session) {
	c := s.Course()
	fmt.Fprintln(app.stdout, TitleStyle.Render(c.Name()))
	fmt.Fprintf(app.stdout, "%s %s\n\n", SubtitleStyle.Render("course:"), c.ID())

	for _, st := range s.Status() {
		line := fmt.Sprintf("  %s %-8s %s", nameColumnStyle.Render(string(st.Name)), st.Kind, stateStyle(st.State).Render(st.State.String()))
		if len(st.Dependencies) > 0 {
			deps := make([]string, 0, len(st.Dependencies))
			for _, d := range st.Dependencies {
				deps = append(deps, string(d))
			}
			line += SubtitleStyle.Render("  needs " + strings.Join(deps, ", "))
		}
		fmt.Fprintln(app.stdout, line)
	}

	plugins := c.RequiredPlugins()
	if len(plugins) == 0 {
		return
	}
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("Required plugins:"))
	for _, id := range slices.Sorted(maps.Keys(plugins)) {
		fmt.Fprintf(app.stdout, "  - %s (%s)\n", plugins[id], CmdStyle.Render(id))
	}
}
