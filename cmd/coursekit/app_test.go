// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aplus-courses/coursekit/internal/fetch"
	"github.com/aplus-courses/coursekit/internal/install"
	"github.com/aplus-courses/coursekit/internal/issue"
	"github.com/aplus-courses/coursekit/pkg/course"
)

func newTestApp() (*App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return NewApp(Dependencies{Stdout: &stdout, Stderr: &stderr}), &stdout, &stderr
}

func TestReportOutcomes(t *testing.T) {
	t.Parallel()

	mod := func(name string) *course.Component {
		return course.NewModule(course.ComponentName(name), "https://example.com/"+name+".zip", nil, course.StateNotInstalled)
	}

	app, stdout, stderr := newTestApp()
	err := app.reportOutcomes([]install.Outcome{
		{Component: mod("A"), Result: install.ResultInstalled},
		{Component: mod("B"), Result: install.ResultDeclined},
		{Component: mod("C"), Result: install.ResultInProgress},
		{Component: mod("D"), Result: install.ResultAbandoned},
		{Component: mod("E"), Result: install.ResultFailed, Err: &install.InstallError{
			Component: "E",
			Stage:     install.StageFetch,
			Err:       &fetch.NetworkError{URL: "https://example.com/E.zip", Err: errors.New("connection refused")},
		}},
	}, false)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("reportOutcomes() error = %v, want ExitError code 1", err)
	}
	if !strings.Contains(err.Error(), "1 of 5 installs failed") {
		t.Errorf("error = %q", err)
	}

	out := stdout.String()
	for _, want := range []string{"A installed", "B kept", "C is already being installed", "D was removed while installing"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
	errOut := stderr.String()
	for _, want := range []string{"failed to install component: E", "hint: Check your network connection"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut)
		}
	}
}

func TestReportOutcomesAllSucceeded(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp()
	c := course.NewModule("A", "https://example.com/A.zip", nil, course.StateNotInstalled)
	if err := app.reportOutcomes([]install.Outcome{{Component: c, Result: install.ResultInstalled}}, false); err != nil {
		t.Errorf("reportOutcomes() error = %v", err)
	}
}

func TestWriteHints(t *testing.T) {
	t.Parallel()

	ae := issue.NewErrorContext().
		WithOperation("open course").
		WithSuggestion("Run 'coursekit init <course-url>' first").
		Wrap(errors.New("no course selected for project")).
		Build()

	installFailed := issue.NewErrorContext().
		WithOperation("install").
		Wrap(&install.InstallError{
			Component: "A",
			Stage:     install.StageFetch,
			Err:       fmt.Errorf("fetch artifact: %w", errors.New("connection refused")),
		}).
		Build()

	tests := []struct {
		name    string
		err     error
		verbose bool
		want    []string
		notWant []string
	}{
		{
			name:    "plain error",
			err:     errors.New("boom"),
			notWant: []string{"boom"},
		},
		{
			name:    "actionable",
			err:     ae,
			want:    []string{"hint: Run 'coursekit init <course-url>' first"},
			notWant: []string{"Error chain:"},
		},
		{
			name:    "actionable verbose",
			err:     ae,
			verbose: true,
			want:    []string{"hint:", "Error chain:", "1. no course selected for project"},
		},
		{
			name:    "verbose chain follows multi-error unwrap",
			err:     installFailed,
			verbose: true,
			want: []string{
				"1. install A: fetch: fetch artifact: connection refused",
				"2. install failed",
				"3. fetch artifact: connection refused",
				"4. connection refused",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			writeHints(&buf, tt.err, tt.verbose)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(buf.String(), w) {
					t.Errorf("output contains %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestFailedComponent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want course.ComponentName
	}{
		{"unknown later name", &course.UnknownComponentError{Name: "Nope"}, "Nope"},
		{"unknown inside join", errors.Join(errors.New("other"), &course.UnknownComponentError{Name: "Gone"}), "Gone"},
		{"install error", &install.InstallError{Component: "B", Stage: install.StageWrite, Err: errors.New("disk full")}, "B"},
		{"unrelated error", errors.New("boom"), "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := failedComponent(tt.err, "A"); got != tt.want {
				t.Errorf("failedComponent() = %q, want %q", got, tt.want)
			}
			if ae := issue.ForInstall(tt.err, failedComponent(tt.err, "A")); ae.Resource != string(tt.want) {
				t.Errorf("ForInstall().Resource = %q, want %q", ae.Resource, tt.want)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{name: "with cause", err: &ExitError{Code: 2, Err: cause}, want: "boom"},
		{name: "code only", err: &ExitError{Code: 3}, want: "exit status 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
	if !errors.Is(&ExitError{Code: 1, Err: cause}, cause) {
		t.Error("ExitError does not unwrap to its cause")
	}
}

func TestGetVersionString(t *testing.T) {
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}
}
