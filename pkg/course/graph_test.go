// SPDX-License-Identifier: MPL-2.0

package course

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

// newTestGraph registers one module per entry of deps, keyed by name, all
// starting in initial. Registration follows the order of names.
func newTestGraph(t *testing.T, initial State, names []ComponentName, deps map[ComponentName][]ComponentName) *Graph {
	t.Helper()

	g := NewGraph()
	for _, n := range names {
		if err := g.Register(NewModule(n, "https://example.org/"+string(n)+".zip", deps[n], initial)); err != nil {
			t.Fatalf("Register(%s) error = %v", n, err)
		}
	}
	return g
}

func mustLookup(t *testing.T, g *Graph, name ComponentName) *Component {
	t.Helper()

	c, err := g.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%s) error = %v", name, err)
	}
	return c
}

func assertStates(t *testing.T, g *Graph, want map[ComponentName]State) {
	t.Helper()

	for name, state := range want {
		if got := mustLookup(t, g, name).State().Get(); got != state {
			t.Errorf("%s state = %v, want %v", name, got, state)
		}
	}
}

func TestGraphRegisterAndLookup(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	a := NewModule("A", "", nil, StateNotInstalled)
	if err := g.Register(a); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, err := g.Lookup("A")
	if err != nil || got != a {
		t.Fatalf("Lookup(A) = %v, %v", got, err)
	}

	_, err = g.Lookup("missing")
	var unknown *UnknownComponentError
	if !errors.As(err, &unknown) || unknown.Name != "missing" {
		t.Errorf("Lookup(missing) error = %v, want UnknownComponentError", err)
	}
	if !errors.Is(err, ErrUnknownComponent) {
		t.Error("UnknownComponentError does not wrap ErrUnknownComponent")
	}
	if g.Find("missing") != nil {
		t.Error("Find(missing) returned a component")
	}
}

func TestGraphRegisterDuplicateLeavesGraphUnchanged(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	first := NewModule("A", "first", nil, StateNotInstalled)
	if err := g.Register(first); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	err := g.Register(NewLibrary("A", "second", nil, StateInstalled))
	var dup *DuplicateComponentError
	if !errors.As(err, &dup) || dup.Name != "A" {
		t.Fatalf("Register(duplicate) error = %v, want DuplicateComponentError", err)
	}

	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
	if got := g.Find("A"); got != first {
		t.Errorf("Find(A) = %v, want the first registration", got)
	}
}

func TestGraphRegisterRejectsInvalidName(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	if err := g.Register(NewModule("", "", nil, StateNotInstalled)); !errors.Is(err, ErrInvalidComponentName) {
		t.Errorf("Register(empty name) error = %v", err)
	}
	var reserved *ReservedComponentNameError
	if err := g.Register(NewModule("lib", "", nil, StateNotInstalled)); !errors.As(err, &reserved) {
		t.Errorf("Register(module lib) error = %v, want ReservedComponentNameError", err)
	}
	if g.Len() != 0 {
		t.Errorf("Len() = %d after rejected registrations, want 0", g.Len())
	}
}

func TestGraphContains(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	registered := NewModule("A", "", nil, StateNotInstalled)
	if err := g.Register(registered); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		c    *Component
		want bool
	}{
		{"registered instance", registered, true},
		{"other instance with the same name", NewModule("A", "", nil, StateNotInstalled), false},
		{"unregistered name", NewModule("B", "", nil, StateNotInstalled), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := g.Contains(tt.c); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGraphDependents(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t, StateInstalled,
		[]ComponentName{"A", "B", "C", "D"},
		map[ComponentName][]ComponentName{
			"B": {"A"},
			"C": {"A", "B"},
			"D": {"C"},
		})

	tests := []struct {
		name ComponentName
		want []ComponentName
	}{
		{"A", []ComponentName{"B", "C"}},
		{"B", []ComponentName{"C"}},
		{"C", []ComponentName{"D"}},
		{"D", nil},
		{"unknown", nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			t.Parallel()
			var got []ComponentName
			for _, c := range g.Dependents(tt.name) {
				got = append(got, c.Name())
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Dependents(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestGraphDependentsIsRecomputed(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t, StateInstalled, []ComponentName{"A"}, nil)
	if got := g.Dependents("A"); len(got) != 0 {
		t.Fatalf("Dependents(A) = %v, want none", got)
	}

	if err := g.Register(NewModule("B", "", []ComponentName{"A"}, StateInstalled)); err != nil {
		t.Fatal(err)
	}
	if got := g.Dependents("A"); len(got) != 1 || got[0].Name() != "B" {
		t.Errorf("Dependents(A) after Register(B) = %v, want [B]", got)
	}
}

func TestGraphDependencies(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t, StateNotInstalled,
		[]ComponentName{"A", "B", "C"},
		map[ComponentName][]ComponentName{"C": {"A", "B"}})

	deps, err := g.Dependencies("C")
	if err != nil {
		t.Fatalf("Dependencies(C) error = %v", err)
	}
	if len(deps) != 2 || deps[0].Name() != "A" || deps[1].Name() != "B" {
		t.Errorf("Dependencies(C) = %v", deps)
	}

	if _, err := g.Dependencies("nope"); !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("Dependencies(nope) error = %v", err)
	}
}

func TestGraphValidateReportsMissingDependencies(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t, StateNotInstalled,
		[]ComponentName{"A", "B"},
		map[ComponentName][]ComponentName{
			"A": {"ghost"},
			"B": {"A", "phantom"},
		})

	err := g.Validate()
	var inconsistent *InconsistentGraphError
	if !errors.As(err, &inconsistent) {
		t.Fatalf("Validate() error = %v, want InconsistentGraphError", err)
	}
	want := []MissingDependency{
		{Component: "A", Dependency: "ghost"},
		{Component: "B", Dependency: "phantom"},
	}
	if !slices.Equal(inconsistent.Missing, want) {
		t.Errorf("Missing = %v, want %v", inconsistent.Missing, want)
	}
	if !errors.Is(err, ErrInconsistentGraph) {
		t.Error("InconsistentGraphError does not wrap ErrInconsistentGraph")
	}
}

func TestBuildGraph(t *testing.T) {
	t.Parallel()

	crs, err := NewCourse(Definition{ID: "c", Name: "C", Components: []*Component{
		NewModule("A", "", nil, StateNotInstalled),
		NewModule("B", "", []ComponentName{"A"}, StateNotInstalled),
	}})
	if err != nil {
		t.Fatal(err)
	}

	g, err := BuildGraph(crs)
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	if !slices.Equal(g.Names(), []ComponentName{"A", "B"}) {
		t.Errorf("Names() = %v", g.Names())
	}

	broken, err := NewCourse(Definition{ID: "c", Name: "C", Components: []*Component{
		NewModule("B", "", []ComponentName{"A"}, StateNotInstalled),
	}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := BuildGraph(broken); !errors.Is(err, ErrInconsistentGraph) {
		t.Errorf("BuildGraph(broken) error = %v, want ErrInconsistentGraph", err)
	}
}

func TestOnComponentRemoveCascadesThroughChain(t *testing.T) {
	t.Parallel()

	// C -> D -> E
	g := newTestGraph(t, StateInstalled,
		[]ComponentName{"C", "D", "E", "unrelated"},
		map[ComponentName][]ComponentName{
			"C": {"D"},
			"D": {"E"},
		})

	g.OnComponentRemove(mustLookup(t, g, "E"))

	assertStates(t, g, map[ComponentName]State{
		"C":         StateError,
		"D":         StateError,
		"E":         StateError,
		"unrelated": StateInstalled,
	})
}

func TestOnComponentFilesDeletedMatchesRemove(t *testing.T) {
	t.Parallel()

	names := []ComponentName{"A", "B", "C"}
	deps := map[ComponentName][]ComponentName{"B": {"A"}, "C": {"B"}}

	removed := newTestGraph(t, StateInstalled, names, deps)
	deleted := newTestGraph(t, StateInstalled, names, deps)

	removed.OnComponentRemove(mustLookup(t, removed, "A"))
	deleted.OnComponentFilesDeleted(mustLookup(t, deleted, "A"))

	for _, n := range names {
		r := mustLookup(t, removed, n).State().Get()
		d := mustLookup(t, deleted, n).State().Get()
		if r != d {
			t.Errorf("%s: remove -> %v, files deleted -> %v", n, r, d)
		}
	}
}

func TestOnComponentRemoveNilIsNoop(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t, StateInstalled, []ComponentName{"A"}, nil)
	g.OnComponentRemove(nil)
	g.OnComponentFilesDeleted(nil)

	v, s := mustLookup(t, g, "A").State().Snapshot()
	if s != StateInstalled || v != 0 {
		t.Errorf("A = (%d, %v), want untouched", v, s)
	}
}

func TestOnComponentRemoveHandlesCycles(t *testing.T) {
	t.Parallel()

	// A -> B -> C -> A, plus D -> C.
	g := newTestGraph(t, StateInstalled,
		[]ComponentName{"A", "B", "C", "D"},
		map[ComponentName][]ComponentName{
			"A": {"B"},
			"B": {"C"},
			"C": {"A"},
			"D": {"C"},
		})

	g.OnComponentRemove(mustLookup(t, g, "A"))

	assertStates(t, g, map[ComponentName]State{
		"A": StateError,
		"B": StateError,
		"C": StateError,
		"D": StateError,
	})
}

func TestOnComponentRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t, StateInstalled,
		[]ComponentName{"A", "B", "C"},
		map[ComponentName][]ComponentName{
			"A": {"C"},
			"B": {"A"},
			"C": {"B"},
		})

	a := mustLookup(t, g, "A")
	g.OnComponentRemove(a)

	versions := make(map[ComponentName]uint64)
	for _, c := range g.Components() {
		v, _ := c.State().Snapshot()
		versions[c.Name()] = v
	}

	g.OnComponentRemove(a)
	g.OnComponentFilesDeleted(a)

	for _, c := range g.Components() {
		v, s := c.State().Snapshot()
		if s != StateError {
			t.Errorf("%s state = %v, want error", c.Name(), s)
		}
		// Only the root is rewritten; dependents already in error are not.
		if c != a && v != versions[c.Name()] {
			t.Errorf("%s was written again (version %d -> %d)", c.Name(), versions[c.Name()], v)
		}
	}
}

func TestCascadeStopsAtComponentAlreadyInError(t *testing.T) {
	t.Parallel()

	// A <- B <- C, with B already failed on its own.
	g := newTestGraph(t, StateInstalled,
		[]ComponentName{"A", "B", "C"},
		map[ComponentName][]ComponentName{"B": {"A"}, "C": {"B"}})
	mustLookup(t, g, "B").State().Set(StateError)

	g.OnComponentRemove(mustLookup(t, g, "A"))

	assertStates(t, g, map[ComponentName]State{
		"A": StateError,
		"B": StateError,
		"C": StateInstalled,
	})
}

func TestCascadeConcurrentWithReaders(t *testing.T) {
	t.Parallel()

	names := []ComponentName{"A", "B", "C", "D", "E"}
	g := newTestGraph(t, StateInstalled, names, map[ComponentName][]ComponentName{
		"B": {"A"}, "C": {"B"}, "D": {"C"}, "E": {"D"},
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range names {
				_ = g.Find(n).State().Get()
				_ = g.Dependents(n)
			}
		}()
	}
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.OnComponentRemove(g.Find("A"))
		}()
	}
	wg.Wait()

	for _, n := range names {
		if got := g.Find(n).State().Get(); got != StateError {
			t.Errorf("%s state = %v, want error", n, got)
		}
	}
}
