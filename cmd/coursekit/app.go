// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"github.com/aplus-courses/coursekit/internal/config"
	"github.com/aplus-courses/coursekit/internal/fetch"
	"github.com/aplus-courses/coursekit/internal/install"
	"github.com/aplus-courses/coursekit/internal/issue"
	"github.com/aplus-courses/coursekit/internal/project"
	"github.com/aplus-courses/coursekit/internal/session"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and builds its per-invocation environment through it.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlagValues holds the persistent flags shared by all commands.
	rootFlagValues struct {
		configPath string
		projectDir string
		verbose    bool
	}

	// env is the state one command invocation works with.
	env struct {
		cfg     *config.Config
		logger  *slog.Logger
		fetcher *fetch.BreakerFetcher
		project *project.Project
		verbose bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{Config: deps.Config, stdout: deps.Stdout, stderr: deps.Stderr}
}

// prepare loads the configuration and builds the logger, fetcher and project
// for one invocation. The caller must Close the result.
func (app *App) prepare(ctx context.Context, flags *rootFlagValues) (*env, error) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		var ae *issue.ActionableError
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, issue.ForConfig(err, flags.configPath)
	}

	verbose := flags.verbose || cfg.UI.Verbose
	logger := newLogger(app.stderr, verbose)
	slog.SetDefault(logger)

	projectDir := flags.projectDir
	if projectDir == "" {
		projectDir = cfg.ProjectDir
	}
	if projectDir == "" {
		projectDir = "."
	}
	proj, err := project.Open(projectDir)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open project").
			WithResource(projectDir).
			WithSuggestion("Pass an existing directory with --project").
			Wrap(err).
			Build()
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		fetcher: newFetcher(cfg, logger),
		project: proj,
		verbose: verbose,
	}, nil
}

// Close releases the fetcher's background resources.
func (e *env) Close() {
	e.fetcher.Close()
}

// openSession opens the course recorded in the project.
func (e *env) openSession(ctx context.Context, dialogs install.Dialogs) (*session.Session, error) {
	location, err := e.project.CourseURL()
	if errors.Is(err, project.ErrNoCourse) {
		return nil, issue.NewErrorContext().
			WithOperation("open course").
			WithResource(e.project.Dir()).
			WithIssue(issue.NoCourseId).
			WithSuggestion("Run 'coursekit init <course-url>' first").
			Wrap(err).
			Build()
	}
	if err != nil {
		return nil, err
	}
	return e.openLocation(ctx, location, dialogs)
}

func (e *env) openLocation(ctx context.Context, location string, dialogs install.Dialogs) (*session.Session, error) {
	s, err := session.Open(ctx, session.Options{
		Location:    location,
		ProjectDir:  e.project.Dir(),
		Fetcher:     e.fetcher,
		Dialogs:     dialogs,
		Parallelism: e.cfg.Install.Parallelism,
		Logger:      e.logger,
	})
	if err != nil {
		return nil, issue.ForCourseLoad(err, location)
	}
	return s, nil
}

// newLogger returns a slog logger backed by charmbracelet/log. Only warnings
// reach the terminal unless verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "coursekit",
	})
	return slog.New(handler)
}

func newFetcher(cfg *config.Config, logger *slog.Logger) *fetch.BreakerFetcher {
	f := fetch.NewFetcher(
		fetch.WithTimeout(cfg.Fetch.Timeout),
		fetch.WithMaxRetries(cfg.Fetch.MaxRetries),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithAuthentication(fetch.TokenFromEnv(cfg.Fetch.TokenEnv)),
		fetch.WithLogger(logger),
	)
	return fetch.NewBreakerFetcher(f, fetch.DefaultTripThreshold)
}

// writeHints prints the suggestions of an actionable error, and in verbose
// mode its error chain and the rendered catalog entry, to w. Other errors
// print nothing; the command runner reports the error itself.
func writeHints(w io.Writer, err error, verbose bool) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}

	for _, s := range ae.Suggestions {
		fmt.Fprintf(w, "%s %s\n", WarningStyle.Render("hint:"), s)
	}
	if !verbose {
		return
	}
	if ae.Cause != nil {
		fmt.Fprintln(w, SubtitleStyle.Render("Error chain:"))
		for i, cause := range errorChain(ae.Cause) {
			fmt.Fprintf(w, "  %d. %s\n", i+1, cause.Error())
		}
	}
	if entry := issue.Get(ae.Issue); entry != nil {
		if rendered, renderErr := entry.Render("dark"); renderErr == nil {
			fmt.Fprint(w, rendered)
		}
	}
}

// errorChain flattens err and everything it wraps, depth first. Both the
// single and the multi-error Unwrap forms are followed.
func errorChain(err error) []error {
	var chain []error
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		chain = append(chain, e)
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return chain
}
