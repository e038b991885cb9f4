// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/aplus-courses/coursekit/pkg/course"
)

// Outcome is the result of one install in a batch.
type Outcome struct {
	Component *course.Component
	Result    Result
	Err       error
}

// InstallAll installs the distinct components of cs concurrently, at most
// the configured parallelism at a time. One failure does not stop the
// others. Outcomes follow the order of first appearance in cs; the error
// joins every failure.
func (i *Installer) InstallAll(ctx context.Context, cs []*course.Component) ([]Outcome, error) {
	seen := make(map[*course.Component]struct{}, len(cs))
	outcomes := make([]Outcome, 0, len(cs))
	for _, c := range cs {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		outcomes = append(outcomes, Outcome{Component: c})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.parallelism)
	for idx := range outcomes {
		g.Go(func() error {
			o := &outcomes[idx]
			o.Result, o.Err = i.Install(gctx, o.Component)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return outcomes, errors.Join(errs...)
}

// InstallWithDependencies installs the named component together with every
// transitive dependency that is not already installed or installing. No
// ordering between them is implied.
func (i *Installer) InstallWithDependencies(ctx context.Context, name course.ComponentName) ([]Outcome, error) {
	root, err := i.registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	closure, err := i.dependencyClosure(root)
	if err != nil {
		return nil, err
	}

	targets := []*course.Component{root}
	for _, dep := range closure {
		switch dep.State().Get() {
		case course.StateInstalled, course.StateInstalling:
			continue
		}
		targets = append(targets, dep)
	}
	return i.InstallAll(ctx, targets)
}

// dependencyClosure returns the transitive dependencies of root, excluding
// root itself, breadth first.
func (i *Installer) dependencyClosure(root *course.Component) ([]*course.Component, error) {
	visited := map[course.ComponentName]struct{}{root.Name(): {}}
	queue := []*course.Component{root}
	var out []*course.Component
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		deps, err := i.registry.Dependencies(cur.Name())
		if err != nil {
			return nil, err
		}
		for _, dep := range deps {
			if _, ok := visited[dep.Name()]; ok {
				continue
			}
			visited[dep.Name()] = struct{}{}
			out = append(out, dep)
			queue = append(queue, dep)
		}
	}
	return out, nil
}
