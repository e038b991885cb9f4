// SPDX-License-Identifier: MPL-2.0

// Package host abstracts the notifications a host environment emits about
// course components and provides an in-process Bus implementation.
package host

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aplus-courses/coursekit/pkg/course"
)

const (
	// ModuleRemoved is emitted when a module's host registration disappears.
	ModuleRemoved EventKind = iota + 1
	// LibraryRemoved is emitted when a library's host registration disappears.
	LibraryRemoved
	// FilesDeleted is emitted when files below the project disappear.
	FilesDeleted
)

type (
	// EventKind classifies host notifications.
	EventKind int

	// Event is one host notification. Name is set for removals, Paths for
	// file deletions.
	Event struct {
		Kind  EventKind
		Name  course.ComponentName
		Paths []string
	}

	// Listener receives events. It runs on the publishing goroutine.
	Listener func(Event)

	// Subscription cancels a Subscribe call.
	Subscription interface {
		Unsubscribe()
	}

	// NotificationSource delivers host events to listeners.
	NotificationSource interface {
		Subscribe(l Listener) Subscription
	}

	// Bus is a synchronous in-process NotificationSource. Publish returns
	// after every listener has handled the event.
	Bus struct {
		mu        sync.RWMutex
		listeners map[uuid.UUID]Listener
		order     []uuid.UUID
		logger    *slog.Logger
	}

	busSubscription struct {
		bus  *Bus
		id   uuid.UUID
		once sync.Once
	}
)

// String returns a human readable kind.
func (k EventKind) String() string {
	switch k {
	case ModuleRemoved:
		return "module removed"
	case LibraryRemoved:
		return "library removed"
	case FilesDeleted:
		return "files deleted"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// String describes the event for logs.
func (e Event) String() string {
	if e.Kind == FilesDeleted {
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Paths, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Name)
}

// NewBus creates an empty bus. A nil logger selects slog.Default().
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		listeners: make(map[uuid.UUID]Listener),
		logger:    logger,
	}
}

// Subscribe registers l until the returned subscription is cancelled.
func (b *Bus) Subscribe(l Listener) Subscription {
	id := uuid.New()

	b.mu.Lock()
	b.listeners[id] = l
	b.order = append(b.order, id)
	b.mu.Unlock()

	return &busSubscription{bus: b, id: id}
}

// Publish delivers e to every current listener in subscription order.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	targets := make([]Listener, 0, len(b.order))
	for _, id := range b.order {
		targets = append(targets, b.listeners[id])
	}
	b.mu.RUnlock()

	b.logger.Debug("host event", "event", e.String(), "listeners", len(targets))
	for _, l := range targets {
		l(e)
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

func (b *Bus) remove(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.listeners, id)
	for i, o := range b.order {
		if o == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Unsubscribe is idempotent.
func (s *busSubscription) Unsubscribe() {
	s.once.Do(func() { s.bus.remove(s.id) })
}
