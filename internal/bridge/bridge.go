// SPDX-License-Identifier: MPL-2.0

// Package bridge forwards host notifications to a course graph.
package bridge

import (
	"log/slog"
	"sync"

	"github.com/aplus-courses/coursekit/internal/host"
	"github.com/aplus-courses/coursekit/pkg/course"
)

type (
	// PathResolver maps a deleted path to the component that owned it. An
	// empty name stands for every component of the returned kind.
	PathResolver interface {
		Resolve(path string) (course.Kind, course.ComponentName, bool)
	}

	// Graph is the part of course.Graph the bridge drives.
	Graph interface {
		Find(name course.ComponentName) *course.Component
		Components() []*course.Component
		OnComponentRemove(c *course.Component)
		OnComponentFilesDeleted(c *course.Component)
	}

	// EventBridge subscribes to a notification source and translates its
	// events into graph invalidations. Names unknown to the graph are ignored.
	EventBridge struct {
		graph    Graph
		resolver PathResolver
		logger   *slog.Logger

		mu  sync.Mutex
		sub host.Subscription
	}
)

// New creates a bridge for graph. resolver may be nil when the source never
// emits file deletions.
func New(graph Graph, resolver PathResolver, logger *slog.Logger) *EventBridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBridge{graph: graph, resolver: resolver, logger: logger}
}

// Attach subscribes to src. Attaching an attached bridge is a no-op.
func (b *EventBridge) Attach(src host.NotificationSource) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sub != nil {
		return
	}
	b.sub = src.Subscribe(b.Handle)
}

// Close unsubscribes. It is safe to call more than once.
func (b *EventBridge) Close() {
	b.mu.Lock()
	sub := b.sub
	b.sub = nil
	b.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// Handle dispatches one event.
func (b *EventBridge) Handle(e host.Event) {
	switch e.Kind {
	case host.ModuleRemoved, host.LibraryRemoved:
		b.graph.OnComponentRemove(b.graph.Find(e.Name))
	case host.FilesDeleted:
		b.filesDeleted(e.Paths)
	default:
		b.logger.Debug("ignoring host event", "event", e.String())
	}
}

func (b *EventBridge) filesDeleted(paths []string) {
	if b.resolver == nil {
		return
	}

	seen := make(map[course.ComponentName]struct{}, len(paths))
	deleted := func(c *course.Component) {
		if _, dup := seen[c.Name()]; dup {
			return
		}
		seen[c.Name()] = struct{}{}
		b.graph.OnComponentFilesDeleted(c)
	}

	for _, p := range paths {
		kind, name, ok := b.resolver.Resolve(p)
		if !ok {
			continue
		}
		if name == "" {
			for _, c := range b.graph.Components() {
				if c.Kind() == kind {
					deleted(c)
				}
			}
			continue
		}
		if c := b.graph.Find(name); c != nil && c.Kind() == kind {
			deleted(c)
		}
	}
}
