// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{"operation only", &ActionableError{Operation: "load course"}, "failed to load course"},
		{
			"operation with resource",
			&ActionableError{Operation: "install component", Resource: "GoodStuff"},
			"failed to install component: GoodStuff",
		},
		{
			"full context",
			&ActionableError{Operation: "install component", Resource: "GoodStuff", Cause: errors.New("disk full")},
			"failed to install component: GoodStuff: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("connection refused")
	err := NewErrorContext().
		WithOperation("load course").
		WithResource("https://example.com/course.json").
		WithSuggestions("Check your network", "Retry later").
		Wrap(wrapped{inner}).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "  • Check your network\n  • Retry later") {
		t.Errorf("Format(false) = %q, missing suggestions", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Error("Format(false) includes the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:\n  1. wrapped: connection refused\n  2. connection refused") {
		t.Errorf("Format(true) = %q, missing chain", verbose)
	}
}

type wrapped struct{ err error }

func (w wrapped) Error() string { return "wrapped: " + w.err.Error() }
func (w wrapped) Unwrap() error { return w.err }

func TestErrorContextBuild(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation != nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}

	cause := errors.New("boom")
	err := NewErrorContext().WithOperation("remove component").WithIssue(InstallFailedId).Wrap(cause).BuildError()
	if !errors.Is(err, cause) {
		t.Error("BuildError() does not unwrap to its cause")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Issue != InstallFailedId {
		t.Errorf("BuildError() = %#v", err)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) != nil")
	}
	got := WrapWithContext(errors.New("x"), "write settings", ".coursekit/state.cue")
	if got.Error() != "failed to write settings: .coursekit/state.cue: x" {
		t.Errorf("Error() = %q", got.Error())
	}
}
