// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/aplus-courses/coursekit/internal/issue"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := DefaultConfig()
	if !reflect.DeepEqual(cfg.Fetch, want.Fetch) || !reflect.DeepEqual(cfg.Install, want.Install) ||
		!reflect.DeepEqual(cfg.Watch, want.Watch) || !reflect.DeepEqual(cfg.UI, want.UI) {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
	if cfg.Source() != "" {
		t.Errorf("Source() = %q, want empty", cfg.Source())
	}
}

func TestLoadFromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, `
course_url: "https://example.com/o1.json"
fetch: {
	timeout: "30s"
	max_retries: 1
}
install: parallelism: 8
ui: theme: "dracula"
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CourseURL != "https://example.com/o1.json" {
		t.Errorf("CourseURL = %q", cfg.CourseURL)
	}
	if cfg.Fetch.Timeout != 30*time.Second || cfg.Fetch.MaxRetries != 1 {
		t.Errorf("Fetch = %+v", cfg.Fetch)
	}
	if cfg.Fetch.UserAgent != "coursekit/1.0" {
		t.Errorf("UserAgent default lost: %q", cfg.Fetch.UserAgent)
	}
	if cfg.Install.Parallelism != 8 || cfg.UI.Theme != "dracula" {
		t.Errorf("Install = %+v, UI = %+v", cfg.Install, cfg.UI)
	}
	if cfg.Source() != path {
		t.Errorf("Source() = %q, want %q", cfg.Source(), path)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"syntax", "install: {", "config.cue"},
		{"out of range", "install: parallelism: 0", "install.parallelism"},
		{"unknown key", "colour: \"red\"", "colour"},
		{"bad duration", "fetch: timeout: \"soon\"", "fetch.timeout"},
		{"bad theme", "ui: theme: \"neon\"", "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.Issue != issue.ConfigLoadFailedId {
				t.Errorf("error %v is not an actionable config error", err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not contain %q", err, tt.contains)
			}
		})
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.cue")
	if err := os.WriteFile(path, []byte(`install: assume_yes: true`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Install.AssumeYes {
		t.Error("AssumeYes = false")
	}

	_, err = NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path + ".missing"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Load() of missing file error = %v", err)
	}
}

func TestLoadCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

// TestLoadEnvOverride is not parallel: it sets process environment.
func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("COURSEKIT_INSTALL_PARALLELISM", "12")
	t.Setenv("COURSEKIT_UI_VERBOSE", "true")

	dir := t.TempDir()
	writeConfig(t, dir, "install: parallelism: 2")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Install.Parallelism != 12 {
		t.Errorf("Parallelism = %d, want env override 12", cfg.Install.Parallelism)
	}
	if !cfg.UI.Verbose {
		t.Error("Verbose = false, want env override")
	}
}

func TestDirEnvOverride(t *testing.T) {
	t.Setenv("COURSEKIT_CONFIG_DIR", "/tmp/coursekit-test")
	dir, err := Dir()
	if err != nil || dir != "/tmp/coursekit-test" {
		t.Errorf("Dir() = %q, %v", dir, err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.CourseURL = "https://example.com/o1.json"
	cfg.Fetch.Timeout = 90 * time.Second
	cfg.Install.Parallelism = 2
	cfg.Watch.Ignore = []string{"**/target/**"}
	cfg.UI.Theme = "charm"

	dir := t.TempDir()
	if _, err := Save(cfg, dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.CourseURL != cfg.CourseURL || loaded.Fetch != cfg.Fetch || loaded.Install != cfg.Install ||
		!reflect.DeepEqual(loaded.Watch, cfg.Watch) || loaded.UI != cfg.UI {
		t.Errorf("round trip = %+v, want %+v", loaded, cfg)
	}
}
