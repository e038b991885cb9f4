// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"fmt"

	"github.com/aplus-courses/coursekit/pkg/course"
)

const (
	// StageFetch is the download of the component artifact.
	StageFetch Stage = "fetch"
	// StageWrite is the materialisation of the downloaded artifact.
	StageWrite Stage = "write"
)

var (
	// ErrInstall is the sentinel wrapped by every InstallError.
	ErrInstall = errors.New("install failed")
	// ErrNotInstallable is returned for components without an artifact URL.
	ErrNotInstallable = errors.New("component has no artifact to install")
)

type (
	// Stage names the step of an install that failed.
	Stage string

	// InstallError reports a failed install. The component is left in
	// course.StateError.
	//
	//nolint:revive // InstallError reads better than Error at call sites.
	InstallError struct {
		Component course.ComponentName
		Stage     Stage
		Err       error
	}
)

// Error implements the error interface.
func (e *InstallError) Error() string {
	return fmt.Sprintf("install %s: %s: %v", e.Component, e.Stage, e.Err)
}

// Unwrap returns ErrInstall and the cause.
func (e *InstallError) Unwrap() []error { return []error{ErrInstall, e.Err} }
