// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/huh"

	"github.com/aplus-courses/coursekit/pkg/course"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("prompt cancelled")

type (
	// ConfirmOptions configures Confirm.
	ConfirmOptions struct {
		Title       string
		Description string
		Affirmative string
		Negative    string
		Default     bool
		Config      Config
	}

	// Dialogs answers installer questions. With AssumeYes every question is
	// answered affirmatively; without an interactive terminal every question
	// is declined.
	Dialogs struct {
		AssumeYes   bool
		Interactive bool
		Config      Config
		Logger      *slog.Logger

		prompt func(ctx context.Context, opts ConfirmOptions) (bool, error)
	}
)

// Confirm asks a yes/no question.
func Confirm(ctx context.Context, opts ConfirmOptions) (bool, error) {
	affirmative, negative := opts.Affirmative, opts.Negative
	if affirmative == "" {
		affirmative = "Yes"
	}
	if negative == "" {
		negative = "No"
	}

	result := opts.Default
	field := huh.NewConfirm().
		Title(opts.Title).
		Description(opts.Description).
		Affirmative(affirmative).
		Negative(negative).
		Value(&result)

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(huhTheme(opts.Config.Theme)).
		WithAccessible(opts.Config.Accessible)
	if opts.Config.Input != nil {
		form = form.WithInput(opts.Config.Input)
	}
	if opts.Config.Output != nil {
		form = form.WithOutput(opts.Config.Output)
	}

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrCancelled
		}
		return false, err
	}
	return result, nil
}

// NewDialogs creates installer dialogs backed by Confirm.
func NewDialogs(cfg Config, interactive, assumeYes bool, logger *slog.Logger) *Dialogs {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dialogs{
		AssumeYes:   assumeYes,
		Interactive: interactive,
		Config:      cfg,
		Logger:      logger,
		prompt:      Confirm,
	}
}

// ConfirmOverwrite asks whether an installed component may be replaced.
func (d *Dialogs) ConfirmOverwrite(ctx context.Context, c *course.Component) bool {
	if d.AssumeYes {
		return true
	}
	if !d.Interactive {
		d.Logger.Warn("not overwriting installed component without a terminal; pass --yes to force", "component", c.Name())
		return false
	}

	ok, err := d.prompt(ctx, ConfirmOptions{
		Title:       fmt.Sprintf("%s is already installed", c),
		Description: "Reinstalling replaces its directory, including any changes you made.",
		Affirmative: "Overwrite",
		Negative:    "Keep",
		Config:      d.Config,
	})
	if err != nil {
		d.Logger.Debug("overwrite prompt failed", "component", c.Name(), "error", err)
		return false
	}
	return ok
}
