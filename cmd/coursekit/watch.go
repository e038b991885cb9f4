// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/aplus-courses/coursekit/internal/artifact"
	"github.com/aplus-courses/coursekit/internal/host"
	"github.com/aplus-courses/coursekit/internal/watch"
	"github.com/aplus-courses/coursekit/pkg/course"
)

func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Report components whose files are deleted",
		Long: `Watch the project for deleted component directories.

When a component directory disappears, the component and everything that
depends on it are marked as broken and reported. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, flags, func(ctx context.Context, e *env) error {
				s, err := e.openSession(ctx, nil)
				if err != nil {
					return err
				}
				defer s.Close()

				w, err := watch.New(watch.Config{
					BaseDir:   e.project.Dir(),
					Subdirs:   []string{artifact.LibraryDir},
					Ignore:    e.cfg.Watch.Ignore,
					Debounce:  debounce,
					Publisher: s.Events(),
					Logger:    e.logger,
				})
				if err != nil {
					return err
				}

				// Subscribed after the session bridge, so the graph has already
				// cascaded when this listener runs.
				var mu sync.Mutex
				reported := make(map[course.ComponentName]bool)
				sub := s.Events().Subscribe(func(host.Event) {
					mu.Lock()
					defer mu.Unlock()
					for _, st := range s.Status() {
						broken := st.State == course.StateError
						if broken && !reported[st.Name] {
							fmt.Fprintf(app.stdout, "%s %s is broken\n", WarningStyle.Render("!"), CmdStyle.Render(string(st.Name)))
						}
						reported[st.Name] = broken
					}
				})
				defer sub.Unsubscribe()

				fmt.Fprintf(app.stdout, "%s watching %s\n", SubtitleStyle.Render("»"), e.project.Dir())
				return w.Run(ctx)
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before deletions are reported (default 300ms)")
	return cmd
}
