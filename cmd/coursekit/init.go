// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aplus-courses/coursekit/internal/config"
	"github.com/aplus-courses/coursekit/internal/issue"
	"github.com/aplus-courses/coursekit/internal/project"
)

func newInitCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var skipSettings bool

	cmd := &cobra.Command{
		Use:   "init [course-url]",
		Short: "Select the course of the project",
		Long: `Select the course of the project.

The course configuration is loaded and validated, its location is recorded
in .coursekit/course-url, and the project and IDE settings the course
publishes are imported. Without an argument the course_url configuration
value is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, flags, func(ctx context.Context, e *env) error {
				location := e.cfg.CourseURL
				if len(args) > 0 {
					location = args[0]
				}
				if location == "" {
					return issue.NewErrorContext().
						WithOperation("select course").
						WithIssue(issue.NoCourseId).
						WithSuggestion("Pass the course URL: coursekit init <course-url>").
						Wrap(project.ErrNoCourse).
						Build()
				}
				return app.runInit(ctx, e, location, skipSettings)
			})
		},
	}
	cmd.Flags().BoolVar(&skipSettings, "skip-settings", false, "do not import project and IDE settings")
	return cmd
}

func (app *App) runInit(ctx context.Context, e *env, location string, skipSettings bool) error {
	s, err := e.openLocation(ctx, location, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := e.project.SetCourseURL(location); err != nil {
		return err
	}

	c := s.Course()
	fmt.Fprintf(app.stdout, "%s Selected course %s (%d components)\n",
		SuccessStyle.Render("✓"), TitleStyle.Render(c.Name()), s.Graph().Len())

	if skipSettings {
		return nil
	}

	cfgDir, err := config.Dir()
	if err != nil {
		return err
	}
	importer := project.NewImporter(e.fetcher, cfgDir, e.logger)

	imported, err := importer.ImportProjectSettings(ctx, e.project, c)
	if err != nil {
		return issue.ForCourseLoad(err, location)
	}
	if imported {
		fmt.Fprintf(app.stdout, "%s Imported project settings into %s\n", SuccessStyle.Render("✓"), e.project.SettingsDir())
	}

	state, err := e.project.LoadState()
	if err != nil {
		return err
	}
	imported, err = importer.ImportIDESettings(ctx, e.project, c, state)
	if err != nil {
		return issue.ForCourseLoad(err, location)
	}
	if imported {
		fmt.Fprintf(app.stdout, "%s Imported IDE settings into %s\n", SuccessStyle.Render("✓"), importer.IDESettingsDir())
	}
	return nil
}
