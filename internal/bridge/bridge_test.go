// SPDX-License-Identifier: MPL-2.0

package bridge

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/aplus-courses/coursekit/internal/host"
	"github.com/aplus-courses/coursekit/pkg/course"
)

// prefixResolver resolves <r>/<name>/... to a module and <r>/lib/<name>/...
// to a library; <r>/lib alone stands for every library.
type prefixResolver string

func (r prefixResolver) Resolve(path string) (course.Kind, course.ComponentName, bool) {
	rel, ok := strings.CutPrefix(path, string(r)+"/")
	if !ok {
		return "", "", false
	}
	parts := strings.Split(rel, "/")
	if parts[0] != course.LibraryDir {
		return course.KindModule, course.ComponentName(parts[0]), true
	}
	if len(parts) == 1 {
		return course.KindLibrary, "", true
	}
	return course.KindLibrary, course.ComponentName(parts[1]), true
}

// newGraph builds A <- B <- C with every component installed.
func newGraph(t *testing.T) *course.Graph {
	t.Helper()

	c, err := course.NewCourse(course.Definition{
		ID:   "c",
		Name: "c",
		Components: []*course.Component{
			course.NewModule("A", "https://x/A.zip", nil, course.StateInstalled),
			course.NewModule("B", "https://x/B.zip", []course.ComponentName{"A"}, course.StateInstalled),
			course.NewLibrary("C", "", []course.ComponentName{"B"}, course.StateInstalled),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	g, err := course.BuildGraph(c)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func states(g *course.Graph) map[course.ComponentName]course.State {
	out := map[course.ComponentName]course.State{}
	for _, c := range g.Components() {
		out[c.Name()] = c.State().Get()
	}
	return out
}

func TestBridgeRemovalCascades(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event host.Event
		want  map[course.ComponentName]course.State
	}{
		{
			name:  "module removed",
			event: host.Event{Kind: host.ModuleRemoved, Name: "B"},
			want:  map[course.ComponentName]course.State{"A": course.StateInstalled, "B": course.StateError, "C": course.StateError},
		},
		{
			name:  "library removed",
			event: host.Event{Kind: host.LibraryRemoved, Name: "C"},
			want:  map[course.ComponentName]course.State{"A": course.StateInstalled, "B": course.StateInstalled, "C": course.StateError},
		},
		{
			name:  "files deleted",
			event: host.Event{Kind: host.FilesDeleted, Paths: []string{"/p/A/src/x.scala", "/p/A", "/elsewhere/B"}},
			want:  map[course.ComponentName]course.State{"A": course.StateError, "B": course.StateError, "C": course.StateError},
		},
		{
			name:  "unknown name is ignored",
			event: host.Event{Kind: host.ModuleRemoved, Name: "Nope"},
			want:  map[course.ComponentName]course.State{"A": course.StateInstalled, "B": course.StateInstalled, "C": course.StateInstalled},
		},
		{
			name:  "library dir deleted",
			event: host.Event{Kind: host.FilesDeleted, Paths: []string{"/p/lib"}},
			want:  map[course.ComponentName]course.State{"A": course.StateInstalled, "B": course.StateInstalled, "C": course.StateError},
		},
		{
			name:  "library file deleted",
			event: host.Event{Kind: host.FilesDeleted, Paths: []string{"/p/lib/C/c.jar"}},
			want:  map[course.ComponentName]course.State{"A": course.StateInstalled, "B": course.StateInstalled, "C": course.StateError},
		},
		{
			name:  "module path naming a library is ignored",
			event: host.Event{Kind: host.FilesDeleted, Paths: []string{"/p/C"}},
			want:  map[course.ComponentName]course.State{"A": course.StateInstalled, "B": course.StateInstalled, "C": course.StateInstalled},
		},
		{
			name:  "library path naming a module is ignored",
			event: host.Event{Kind: host.FilesDeleted, Paths: []string{"/p/lib/A"}},
			want:  map[course.ComponentName]course.State{"A": course.StateInstalled, "B": course.StateInstalled, "C": course.StateInstalled},
		},
		{
			name:  "deleted path of unknown component is ignored",
			event: host.Event{Kind: host.FilesDeleted, Paths: []string{"/p/Nope"}},
			want:  map[course.ComponentName]course.State{"A": course.StateInstalled, "B": course.StateInstalled, "C": course.StateInstalled},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := newGraph(t)
			bus := host.NewBus(nil)
			b := New(g, prefixResolver("/p"), nil)
			b.Attach(bus)
			defer b.Close()

			bus.Publish(tt.event)

			got := states(g)
			for name, want := range tt.want {
				if got[name] != want {
					t.Errorf("%s = %v, want %v", name, got[name], want)
				}
			}
		})
	}
}

func TestBridgeClose(t *testing.T) {
	t.Parallel()

	g := newGraph(t)
	bus := host.NewBus(nil)
	b := New(g, nil, nil)
	b.Attach(bus)
	b.Attach(bus)
	if bus.Len() != 1 {
		t.Fatalf("subscriptions = %d, want 1", bus.Len())
	}

	b.Close()
	b.Close()
	bus.Publish(host.Event{Kind: host.ModuleRemoved, Name: "A"})

	if got := states(g)["A"]; got != course.StateInstalled {
		t.Errorf("A = %v after Close, want installed", got)
	}
	if bus.Len() != 0 {
		t.Errorf("subscriptions = %d, want 0", bus.Len())
	}
}

func TestBridgeFilesDeletedWithoutResolver(t *testing.T) {
	t.Parallel()

	g := newGraph(t)
	New(g, nil, nil).Handle(host.Event{Kind: host.FilesDeleted, Paths: []string{filepath.Join("p", "A")}})
	if got := states(g)["A"]; got != course.StateInstalled {
		t.Errorf("A = %v, want installed", got)
	}
}
