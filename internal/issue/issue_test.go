// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       Id
		contains string
	}{
		{NoCourseId, "No course selected"},
		{CourseLoadFailedId, "Could not load the course"},
		{MalformedCourseId, "malformed"},
		{InconsistentCourseId, "missing components"},
		{ComponentNotFoundId, "Component not found"},
		{NetworkUnavailableId, "Network error"},
		{AuthenticationFailedId, "Authentication failed"},
		{UnexpectedResponseId, "Unexpected server response"},
		{InstallFailedId, "Installation failed"},
		{PermissionDeniedId, "Permission denied"},
		{ConfigLoadFailedId, "Failed to load configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			t.Parallel()

			got := Get(tt.id)
			if got == nil {
				t.Fatalf("Get(%d) = nil", tt.id)
			}
			if got.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", got.Id(), tt.id)
			}
			if !strings.Contains(string(got.MarkdownMsg()), tt.contains) {
				t.Errorf("MarkdownMsg() does not contain %q", tt.contains)
			}
		})
	}

	if Get(Id(9999)) != nil {
		t.Error("Get(9999) != nil")
	}
}

func TestValuesOrdered(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() = %d entries, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not ordered at %d", i)
		}
	}
}

func TestIssueDocLinksClone(t *testing.T) {
	t.Parallel()

	i := &Issue{id: NoCourseId, docLinks: []HttpLink{"https://example.com/docs"}}
	links := i.DocLinks()
	links[0] = "modified"
	if i.DocLinks()[0] != "https://example.com/docs" {
		t.Error("DocLinks() does not return a copy")
	}
}

// TestIssueRender is not parallel: it swaps the package renderer.
func TestIssueRender(t *testing.T) {
	original := render
	defer func() { render = original }()

	var gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	i := &Issue{id: NoCourseId, mdMsg: "# Title", docLinks: []HttpLink{"https://example.com/docs"}}
	out, err := i.Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if gotStyle != "notty" {
		t.Errorf("style = %q", gotStyle)
	}
	if !strings.Contains(out, "# Title") || !strings.Contains(out, "<https://example.com/docs>") {
		t.Errorf("Render() = %q", out)
	}
}
