// SPDX-License-Identifier: MPL-2.0

package project

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aplus-courses/coursekit/pkg/cueutil"
)

//go:embed state_schema.cue
var stateSchema []byte

// SettingsState records which settings have been imported into a project.
// It is passed explicitly to the importer and saved after every change.
type SettingsState struct {
	ImportedIDESettings string `json:"imported_ide_settings,omitempty"`
}

// LoadState reads the saved state. A project without a state file has the
// zero state.
func (p *Project) LoadState() (*SettingsState, error) {
	path := p.MetaPath(StateFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &SettingsState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	st, err := cueutil.Decode[SettingsState](stateSchema, "#State", data, cueutil.WithFilename(path))
	if err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	return st, nil
}

// SaveState writes st as CUE.
func (p *Project) SaveState(st *SettingsState) error {
	var sb strings.Builder
	sb.WriteString("// coursekit project state\n")
	if st.ImportedIDESettings != "" {
		fmt.Fprintf(&sb, "imported_ide_settings: %q\n", st.ImportedIDESettings)
	}
	return p.writeMeta(StateFileName, []byte(sb.String()))
}
