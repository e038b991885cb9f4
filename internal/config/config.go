// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/aplus-courses/coursekit/internal/issue"
	"github.com/aplus-courses/coursekit/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "coursekit"
	// ConfigFileName is the config file name.
	ConfigFileName = "config.cue"
	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "COURSEKIT"
)

//go:embed config_schema.cue
var configSchema []byte

// Dir returns the coursekit configuration directory. COURSEKIT_CONFIG_DIR
// takes precedence over the platform default.
func Dir() (string, error) {
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load config canceled: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolvePath(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values match the configuration schema").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.source = path
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("project_dir", d.ProjectDir)
	v.SetDefault("course_url", d.CourseURL)
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.max_retries", d.Fetch.MaxRetries)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("fetch.token_env", d.Fetch.TokenEnv)
	v.SetDefault("install.parallelism", d.Install.Parallelism)
	v.SetDefault("install.assume_yes", d.Install.AssumeYes)
	v.SetDefault("watch.ignore", d.Watch.Ignore)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("ui.interactive", d.UI.Interactive)
	v.SetDefault("ui.theme", d.UI.Theme)
}

// resolvePath returns the file to load. An explicit path must exist; the
// default location is optional.
func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = Dir(); err != nil {
			return "", err
		}
	}
	if p := filepath.Join(dir, ConfigFileName); fileExists(p) {
		return p, nil
	}
	return "", nil
}

// loadCUEIntoViper validates the file against #Config and merges it over the
// defaults. Fields are optional, so the document need not be concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	values, err := cueutil.Decode[map[string]any](configSchema, "#Config", data,
		cueutil.WithFilename(path), cueutil.WithConcrete(false))
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(*values); err != nil {
		return fmt.Errorf("merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Save writes cfg to the config file in dir, creating dir when needed.
func Save(cfg *Config, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return "", fmt.Errorf("write config file: %w", err)
	}
	return path, nil
}

// GenerateCUE renders cfg as a config file.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// coursekit configuration\n\n")
	if cfg.ProjectDir != "" {
		fmt.Fprintf(&sb, "project_dir: %q\n", cfg.ProjectDir)
	}
	if cfg.CourseURL != "" {
		fmt.Fprintf(&sb, "course_url: %q\n", cfg.CourseURL)
	}

	sb.WriteString("\nfetch: {\n")
	fmt.Fprintf(&sb, "\ttimeout: %q\n", cfg.Fetch.Timeout.String())
	fmt.Fprintf(&sb, "\tmax_retries: %d\n", cfg.Fetch.MaxRetries)
	fmt.Fprintf(&sb, "\tuser_agent: %q\n", cfg.Fetch.UserAgent)
	fmt.Fprintf(&sb, "\ttoken_env: %q\n", cfg.Fetch.TokenEnv)
	sb.WriteString("}\n")

	sb.WriteString("\ninstall: {\n")
	fmt.Fprintf(&sb, "\tparallelism: %d\n", cfg.Install.Parallelism)
	fmt.Fprintf(&sb, "\tassume_yes: %v\n", cfg.Install.AssumeYes)
	sb.WriteString("}\n")

	sb.WriteString("\nwatch: {\n\tignore: [")
	for i, p := range cfg.Watch.Ignore {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", p)
	}
	sb.WriteString("]\n}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tinteractive: %v\n", cfg.UI.Interactive)
	fmt.Fprintf(&sb, "\ttheme: %q\n", cfg.UI.Theme)
	sb.WriteString("}\n")

	return sb.String()
}
