// SPDX-License-Identifier: MPL-2.0

package config

import "time"

type (
	// Config is the complete application configuration.
	Config struct {
		// ProjectDir is the project the course is installed into. Empty means
		// the working directory.
		ProjectDir string `json:"project_dir" mapstructure:"project_dir"`
		// CourseURL is used by init when no argument is given.
		CourseURL string        `json:"course_url" mapstructure:"course_url"`
		Fetch     FetchConfig   `json:"fetch" mapstructure:"fetch"`
		Install   InstallConfig `json:"install" mapstructure:"install"`
		Watch     WatchConfig   `json:"watch" mapstructure:"watch"`
		UI        UIConfig      `json:"ui" mapstructure:"ui"`

		source string
	}

	// FetchConfig configures downloads.
	FetchConfig struct {
		Timeout    time.Duration `json:"timeout" mapstructure:"timeout"`
		MaxRetries int           `json:"max_retries" mapstructure:"max_retries"`
		UserAgent  string        `json:"user_agent" mapstructure:"user_agent"`
		// TokenEnv names the environment variable holding the API token.
		TokenEnv string `json:"token_env" mapstructure:"token_env"`
	}

	// InstallConfig configures the installer.
	InstallConfig struct {
		Parallelism int  `json:"parallelism" mapstructure:"parallelism"`
		AssumeYes   bool `json:"assume_yes" mapstructure:"assume_yes"`
	}

	// WatchConfig configures the project watcher.
	WatchConfig struct {
		// Ignore holds doublestar patterns relative to the project directory.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Verbose     bool   `json:"verbose" mapstructure:"verbose"`
		Interactive bool   `json:"interactive" mapstructure:"interactive"`
		Theme       string `json:"theme" mapstructure:"theme"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			Timeout:    5 * time.Minute,
			MaxRetries: 3,
			UserAgent:  "coursekit/1.0",
			TokenEnv:   "COURSEKIT_TOKEN",
		},
		Install: InstallConfig{
			Parallelism: 4,
		},
		Watch: WatchConfig{
			Ignore: []string{"**/.git/**", "**/*.swp", "**/*~"},
		},
		UI: UIConfig{
			Interactive: true,
			Theme:       "default",
		},
	}
}

// Source returns the file the configuration was read from, empty when only
// defaults and environment variables apply.
func (c *Config) Source() string { return c.source }
