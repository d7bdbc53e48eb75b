// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	ids := []Id{
		PackageNotFoundId,
		MarkerResolutionFailedId,
		EnvFrameworkUnavailableId,
		ConfigLoadFailedId,
		InvalidOptionId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	if PackageNotFoundId != 1 {
		t.Errorf("PackageNotFoundId = %d, want 1", PackageNotFoundId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{PackageNotFoundId, false, "Package not found"},
		{MarkerResolutionFailedId, false, "does not exist"},
		{EnvFrameworkUnavailableId, false, "framework unavailable"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{InvalidOptionId, false, "Invalid collector option"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("issue.Id() = %d, want %d", issue.Id(), tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	i := &Issue{id: 42, docLinks: []HttpLink{"https://example.com/a"}, extLinks: []HttpLink{"https://example.com/b"}}

	links := i.DocLinks()
	links[0] = "modified"
	if i.DocLinks()[0] != "https://example.com/a" {
		t.Error("DocLinks() should return a clone")
	}
	ext := i.ExtLinks()
	ext[0] = "modified"
	if i.ExtLinks()[0] != "https://example.com/b" {
		t.Error("ExtLinks() should return a clone")
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotStyle string
	render = func(in string, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	i := &Issue{id: 42, mdMsg: "# Title", docLinks: []HttpLink{"https://example.com/doc"}}
	rendered, err := i.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if gotStyle != "auto" {
		t.Errorf("Render(\"\") style = %q, want auto", gotStyle)
	}
	for _, want := range []string{"# Title", "## See also", "https://example.com/doc"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Render() output should contain %q, got:\n%s", want, rendered)
		}
	}
}

func TestIssue_RenderGlamour(t *testing.T) {
	rendered, err := Get(PackageNotFoundId).Render("notty")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "Package not found") {
		t.Errorf("rendered output missing heading:\n%s", rendered)
	}
}

func TestValues(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not ordered by Id at %d", i)
		}
	}
}
