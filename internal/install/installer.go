// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aplus-courses/coursekit/pkg/course"
)

// tracerName is the instrumentation scope of install spans.
const tracerName = "github.com/aplus-courses/coursekit/internal/install"

const (
	// ResultFailed means the install ran and failed; see the returned error.
	ResultFailed Result = iota
	// ResultInstalled means the component was fetched, written and committed.
	ResultInstalled
	// ResultInProgress means another install of the component is running.
	ResultInProgress
	// ResultDeclined means the user declined to overwrite an installed component.
	ResultDeclined
	// ResultAbandoned means the component was invalidated while installing
	// and the invalidation was kept.
	ResultAbandoned
)

type (
	// Result is the outcome of an install that did not fail.
	Result int

	// Fetcher downloads an artifact.
	Fetcher interface {
		Fetch(ctx context.Context, url string) ([]byte, error)
	}

	// Writer materialises a downloaded artifact for a component.
	Writer interface {
		Write(ctx context.Context, c *course.Component, data []byte) error
	}

	// Dialogs asks the user questions during an install.
	Dialogs interface {
		ConfirmOverwrite(ctx context.Context, c *course.Component) bool
	}

	// Registry is the graph the installer consults.
	Registry interface {
		Contains(c *course.Component) bool
		Lookup(name course.ComponentName) (*course.Component, error)
		Dependencies(name course.ComponentName) ([]*course.Component, error)
	}

	// Installer runs component installs. It is safe for concurrent use.
	Installer struct {
		registry    Registry
		fetcher     Fetcher
		writer      Writer
		dialogs     Dialogs
		logger      *slog.Logger
		tracer      trace.Tracer
		parallelism int
	}

	// Option configures an Installer.
	Option func(*Installer)
)

// String returns a human readable result.
func (r Result) String() string {
	switch r {
	case ResultFailed:
		return "failed"
	case ResultInstalled:
		return "installed"
	case ResultInProgress:
		return "in progress"
	case ResultDeclined:
		return "declined"
	case ResultAbandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Installer) { i.logger = l }
}

// WithTracer overrides the tracer taken from the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(i *Installer) { i.tracer = t }
}

// WithParallelism bounds concurrent installs in InstallAll.
func WithParallelism(n int) Option {
	return func(i *Installer) { i.parallelism = max(n, 1) }
}

// New creates an installer. A nil dialogs declines every overwrite.
func New(registry Registry, fetcher Fetcher, writer Writer, dialogs Dialogs, opts ...Option) *Installer {
	i := &Installer{
		registry:    registry,
		fetcher:     fetcher,
		writer:      writer,
		dialogs:     dialogs,
		logger:      slog.Default(),
		tracer:      otel.Tracer(tracerName),
		parallelism: 4,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install fetches and writes c, publishing its state transitions.
//
// An installed component is reinstalled only after the user confirms the
// overwrite; declining leaves it untouched and fetches nothing. Failures
// leave the component in course.StateError and return an *InstallError.
func (i *Installer) Install(ctx context.Context, c *course.Component) (Result, error) {
	ctx, span := i.tracer.Start(ctx, "install "+string(c.Name()), trace.WithAttributes(
		attribute.String("coursekit.component.name", string(c.Name())),
		attribute.String("coursekit.component.kind", string(c.Kind())),
	))
	defer span.End()

	result, err := i.install(ctx, c)
	span.SetAttributes(attribute.String("coursekit.install.result", result.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (i *Installer) install(ctx context.Context, c *course.Component) (Result, error) {
	logger := i.logger.With("component", c.Name())

	// A failed swap means the state moved while the overwrite dialog was open;
	// start over from the new state.
	var version uint64
	for {
		observed := c.State().Get()
		switch observed {
		case course.StateInstalling:
			logger.Debug("install already in progress")
			return ResultInProgress, nil
		case course.StateInstalled:
			if i.dialogs == nil || !i.dialogs.ConfirmOverwrite(ctx, c) {
				logger.Info("overwrite declined")
				return ResultDeclined, nil
			}
		}

		if c.URL() == "" {
			return ResultFailed, &InstallError{Component: c.Name(), Stage: StageFetch, Err: ErrNotInstallable}
		}

		v, ok := c.State().CompareAndSwap(observed, course.StateInstalling)
		if ok {
			version = v
			break
		}
		logger.Debug("state changed before install started", "observed", observed, "state", c.State().Get())
	}
	logger.Info("installing", "url", c.URL())

	data, err := i.fetcher.Fetch(ctx, c.URL())
	if err != nil {
		return i.fail(logger, c, version, StageFetch, err)
	}

	if err := i.writer.Write(ctx, c, data); err != nil {
		return i.fail(logger, c, version, StageWrite, err)
	}

	if !i.registry.Contains(c) {
		c.State().CommitIfUnchanged(version, course.StateError)
		logger.Warn("component left the course during install, discarding result")
		return ResultAbandoned, nil
	}
	if !c.State().CommitIfUnchanged(version, course.StateInstalled) {
		logger.Warn("component invalidated during install, discarding result", "state", c.State().Get())
		return ResultAbandoned, nil
	}

	logger.Info("installed")
	return ResultInstalled, nil
}

func (i *Installer) fail(logger *slog.Logger, c *course.Component, version uint64, stage Stage, err error) (Result, error) {
	// An invalidation that already moved the component out of INSTALLING
	// set StateError itself.
	c.State().CommitIfUnchanged(version, course.StateError)
	logger.Error("install failed", "stage", stage, "error", err)
	return ResultFailed, &InstallError{Component: c.Name(), Stage: stage, Err: err}
}
