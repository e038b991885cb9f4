// SPDX-License-Identifier: MPL-2.0

package course

import (
	"fmt"
	"sync/atomic"
)

const (
	// StateNotInstalled means the component artifact is absent.
	StateNotInstalled State = iota
	// StateInstalling means an install is in flight. Observing it is the
	// signal for other callers not to start a parallel install.
	StateInstalling
	// StateInstalled means the artifact is present and its dependencies were
	// valid the last time anything said otherwise.
	StateInstalled
	// StateError means the component is unusable: its install failed, or it
	// or one of its dependencies was removed.
	StateError
)

// stateBits is the number of low bits of the packed word holding the state.
// The remaining high bits hold the write version.
const stateBits = 8

const stateMask = 1<<stateBits - 1

type (
	// State is the installation state of a component.
	State uint8

	// StateMonitor holds the current State of one component. All methods are
	// safe for concurrent use without external locking.
	//
	// Every write increments a version counter, so a caller that read the
	// monitor can later commit a value only if nobody wrote in between
	// (see CommitIfUnchanged).
	StateMonitor struct {
		word atomic.Uint64
	}
)

// String returns the display form of the state.
func (s State) String() string {
	switch s {
	case StateNotInstalled:
		return "not installed"
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// IsValid reports whether s is one of the four defined states.
func (s State) IsValid() bool {
	return s <= StateError
}

// NewStateMonitor returns a monitor holding initial at version zero.
func NewStateMonitor(initial State) *StateMonitor {
	m := &StateMonitor{}
	m.word.Store(pack(0, initial))
	return m
}

// Get returns the current state.
func (m *StateMonitor) Get() State {
	_, s := unpack(m.word.Load())
	return s
}

// Snapshot returns the current state together with its version.
func (m *StateMonitor) Snapshot() (version uint64, state State) {
	return unpack(m.word.Load())
}

// Set unconditionally stores s. No transition is rejected: invalidation may
// legitimately interrupt an in-flight install.
func (m *StateMonitor) Set(s State) {
	for {
		old := m.word.Load()
		v, _ := unpack(old)
		if m.word.CompareAndSwap(old, pack(v+1, s)) {
			return
		}
	}
}

// CompareAndSwap stores next only if the current state is old. It returns the
// version written on success.
func (m *StateMonitor) CompareAndSwap(old, next State) (uint64, bool) {
	for {
		word := m.word.Load()
		v, cur := unpack(word)
		if cur != old {
			return 0, false
		}
		if m.word.CompareAndSwap(word, pack(v+1, next)) {
			return v + 1, true
		}
	}
}

// CommitIfUnchanged stores next only if no write happened since the write that
// produced version.
func (m *StateMonitor) CommitIfUnchanged(version uint64, next State) bool {
	word := m.word.Load()
	v, _ := unpack(word)
	if v != version {
		return false
	}
	return m.word.CompareAndSwap(word, pack(v+1, next))
}

func pack(version uint64, s State) uint64 {
	return version<<stateBits | uint64(s)
}

func unpack(word uint64) (uint64, State) {
	return word >> stateBits, State(word & stateMask)
}
