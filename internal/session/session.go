// SPDX-License-Identifier: MPL-2.0

// Package session opens a course into a project: it loads the course
// configuration, builds the component graph and wires the installer and the
// host event bridge around it. A session is closed as a unit.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aplus-courses/coursekit/internal/artifact"
	"github.com/aplus-courses/coursekit/internal/bridge"
	"github.com/aplus-courses/coursekit/internal/host"
	"github.com/aplus-courses/coursekit/internal/install"
	"github.com/aplus-courses/coursekit/pkg/course"
	"github.com/aplus-courses/coursekit/pkg/courseconfig"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

type (
	// Options configures Open.
	Options struct {
		// Location is the course configuration URL or path.
		Location string
		// ProjectDir is the directory components are installed into.
		ProjectDir string
		// Fetcher serves http(s) URLs. file:// URLs and local paths are read
		// directly.
		Fetcher courseconfig.Fetcher
		// Dialogs answers overwrite prompts. Nil declines every overwrite.
		Dialogs install.Dialogs
		// Parallelism bounds concurrent installs. Zero keeps the installer
		// default.
		Parallelism int
		Logger      *slog.Logger
	}

	// Session is one open course.
	Session struct {
		course    *course.Course
		graph     *course.Graph
		layout    artifact.Layout
		writer    *artifact.ZipWriter
		installer *install.Installer
		bus       *host.Bus
		bridge    *bridge.EventBridge
		logger    *slog.Logger

		closeOnce sync.Once
		mu        sync.RWMutex
		closed    bool
	}

	// ComponentStatus is a snapshot of one component.
	ComponentStatus struct {
		Name         course.ComponentName
		Kind         course.Kind
		State        course.State
		Dependencies []course.ComponentName
	}

	// sourceFetcher reads artifact URLs the way course configurations are read.
	sourceFetcher struct {
		remote courseconfig.Fetcher
	}
)

func (f sourceFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return courseconfig.Read(ctx, url, f.remote)
}

// Open loads the course at opts.Location and wires a session around it.
// Components whose directory already exists in the project start INSTALLED.
func Open(ctx context.Context, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	layout, err := artifact.NewLayout(opts.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project directory: %w", err)
	}

	crs, err := courseconfig.Load(ctx, opts.Location, opts.Fetcher, layout)
	if err != nil {
		return nil, err
	}

	graph, err := course.BuildGraph(crs, course.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("build component graph: %w", err)
	}

	writer := artifact.NewZipWriter(layout, logger)

	installOpts := []install.Option{install.WithLogger(logger)}
	if opts.Parallelism > 0 {
		installOpts = append(installOpts, install.WithParallelism(opts.Parallelism))
	}
	installer := install.New(graph, sourceFetcher{remote: opts.Fetcher}, writer, opts.Dialogs, installOpts...)

	bus := host.NewBus(logger)
	br := bridge.New(graph, layout, logger)
	br.Attach(bus)

	logger.Info("course opened",
		"course", crs.ID(),
		"name", crs.Name(),
		"components", graph.Len(),
		"project", layout.Root)

	return &Session{
		course:    crs,
		graph:     graph,
		layout:    layout,
		writer:    writer,
		installer: installer,
		bus:       bus,
		bridge:    br,
		logger:    logger,
	}, nil
}

// Course returns the loaded course.
func (s *Session) Course() *course.Course { return s.course }

// Graph returns the component graph.
func (s *Session) Graph() *course.Graph { return s.graph }

// Layout returns where components live in the project.
func (s *Session) Layout() artifact.Layout { return s.layout }

// Installer returns the session's installer.
func (s *Session) Installer() *install.Installer { return s.installer }

// Events returns the bus the session listens on. Watchers publish to it.
func (s *Session) Events() *host.Bus { return s.bus }

// Status returns a snapshot of every component in configuration order.
func (s *Session) Status() []ComponentStatus {
	comps := s.graph.Components()
	out := make([]ComponentStatus, 0, len(comps))
	for _, c := range comps {
		out = append(out, ComponentStatus{
			Name:         c.Name(),
			Kind:         c.Kind(),
			State:        c.State().Get(),
			Dependencies: c.Dependencies(),
		})
	}
	return out
}

// Install installs the named components, and their missing dependencies when
// withDeps is set.
func (s *Session) Install(ctx context.Context, names []course.ComponentName, withDeps bool) ([]install.Outcome, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	if withDeps {
		var (
			all  []install.Outcome
			errs []error
		)
		for _, name := range names {
			outcomes, err := s.installer.InstallWithDependencies(ctx, name)
			all = append(all, outcomes...)
			if err != nil {
				errs = append(errs, err)
			}
		}
		return all, errors.Join(errs...)
	}

	comps := make([]*course.Component, 0, len(names))
	for _, name := range names {
		c, err := s.graph.Lookup(name)
		if err != nil {
			return nil, err
		}
		comps = append(comps, c)
	}
	return s.installer.InstallAll(ctx, comps)
}

// Remove deletes the component's files and reports its removal on the
// session bus, invalidating it and every dependent.
func (s *Session) Remove(name course.ComponentName) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	c, err := s.graph.Lookup(name)
	if err != nil {
		return err
	}
	if err := s.writer.Remove(c); err != nil {
		return err
	}

	kind := host.ModuleRemoved
	if c.Kind() == course.KindLibrary {
		kind = host.LibraryRemoved
	}
	s.bus.Publish(host.Event{Kind: kind, Name: c.Name()})
	return nil
}

// Close detaches the bridge. Later host events no longer reach the graph.
// It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.bridge.Close()
		s.logger.Debug("course closed", "course", s.course.ID())
	})
}

func (s *Session) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}
