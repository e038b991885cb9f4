// SPDX-License-Identifier: MPL-2.0

package course

import (
	"log/slog"
	"slices"
	"sync"
)

type (
	// Graph indexes the components of one course load by name.
	// It is safe for concurrent use.
	Graph struct {
		mu     sync.RWMutex
		index  map[ComponentName]*Component
		order  []ComponentName
		logger *slog.Logger
	}

	// GraphOption configures a Graph.
	GraphOption func(*Graph)
)

// WithLogger sets the logger used to report invalidation cascades.
func WithLogger(l *slog.Logger) GraphOption {
	return func(g *Graph) {
		g.logger = l
	}
}

// NewGraph creates an empty graph.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		index:  make(map[ComponentName]*Component),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BuildGraph registers every component of c and validates that all
// dependency names resolve.
func BuildGraph(c *Course, opts ...GraphOption) (*Graph, error) {
	g := NewGraph(opts...)
	for _, comp := range c.Components() {
		if err := g.Register(comp); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Register inserts c into the name index. A duplicate name fails with
// DuplicateComponentError and leaves the graph unchanged.
func (g *Graph) Register(c *Component) error {
	if err := c.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.index[c.Name()]; exists {
		return &DuplicateComponentError{Name: c.Name()}
	}
	g.index[c.Name()] = c
	g.order = append(g.order, c.Name())
	return nil
}

// Lookup returns the component registered under name, or UnknownComponentError.
func (g *Graph) Lookup(name ComponentName) (*Component, error) {
	if c := g.Find(name); c != nil {
		return c, nil
	}
	return nil, &UnknownComponentError{Name: name}
}

// Find returns the component registered under name, or nil.
func (g *Graph) Find(name ComponentName) *Component {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.index[name]
}

// Contains reports whether this exact component instance is registered.
func (g *Graph) Contains(c *Component) bool {
	if c == nil {
		return false
	}
	return g.Find(c.Name()) == c
}

// Len returns the number of registered components.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// Components returns the registered components in registration order.
func (g *Graph) Components() []*Component {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Component, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.index[name])
	}
	return out
}

// Dependents returns every registered component whose dependency list
// contains name, in registration order. It is recomputed on every call.
func (g *Graph) Dependents(name ComponentName) []*Component {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []*Component
	for _, n := range g.order {
		if c := g.index[n]; c.DependsOn(name) {
			out = append(out, c)
		}
	}
	return out
}

// Dependencies resolves the direct dependencies of the named component.
func (g *Graph) Dependencies(name ComponentName) ([]*Component, error) {
	c, err := g.Lookup(name)
	if err != nil {
		return nil, err
	}

	deps := make([]*Component, 0, len(c.dependencies))
	for _, d := range c.dependencies {
		dep, err := g.Lookup(d)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

// Validate reports every dependency name that does not resolve to a
// registered component as an InconsistentGraphError.
func (g *Graph) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var missing []MissingDependency
	for _, n := range g.order {
		for _, d := range g.index[n].dependencies {
			if _, ok := g.index[d]; !ok {
				missing = append(missing, MissingDependency{Component: n, Dependency: d})
			}
		}
	}
	if len(missing) > 0 {
		return &InconsistentGraphError{Missing: missing}
	}
	return nil
}

// OnComponentRemove invalidates c after its host registration disappeared.
// A nil component (never tracked, or already gone) is a no-op.
func (g *Graph) OnComponentRemove(c *Component) {
	if c == nil {
		return
	}
	g.invalidate(c, "removed")
}

// OnComponentFilesDeleted invalidates c after its files disappeared from disk.
// The outward effect is identical to OnComponentRemove.
func (g *Graph) OnComponentFilesDeleted(c *Component) {
	if c == nil {
		return
	}
	g.invalidate(c, "files deleted")
}

// invalidate marks root as StateError and walks its transitive dependents
// breadth-first. The visited set terminates cycles; a dependent that is
// already StateError is not descended, its own cascade already ran.
func (g *Graph) invalidate(root *Component, reason string) {
	root.state.Set(StateError)
	g.logger.Info("component invalidated", "component", root.name, "reason", reason)

	visited := map[ComponentName]struct{}{root.name: {}}
	queue := []*Component{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, dep := range g.Dependents(cur.name) {
			if _, seen := visited[dep.name]; seen {
				continue
			}
			visited[dep.name] = struct{}{}

			if dep.state.Get() == StateError {
				continue
			}
			dep.state.Set(StateError)
			g.logger.Debug("dependent invalidated", "component", dep.name, "dependency", cur.name)
			queue = append(queue, dep)
		}
	}
}

// Names returns the registered names in registration order.
func (g *Graph) Names() []ComponentName {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.order)
}
