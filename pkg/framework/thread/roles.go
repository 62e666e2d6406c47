// Package thread defines the execution roles of the plugin boundary and an
// optional runtime checker for them.
//
// Three roles exist. The Main role runs all lifecycle calls and is logically
// single-threaded: the embedder serializes calls into it. The AudioProcessor
// role runs StartProcessing, StopProcessing and Process; it is logically
// single-threaded while processing is started but may live on a different OS
// thread than Main, and the two may run truly concurrently. The Shared role
// names data readable from either; whoever owns Shared data picks its own
// synchronization.
//
// Role separation is a documented contract. It can additionally be verified
// at runtime when the host publishes a Checker under the thread-check
// capability identifier; violations are reported as typed errors and never
// auto-corrected.
package thread

import (
	"errors"
	"fmt"
)

// Role identifies an execution context of the plugin boundary.
type Role uint8

const (
	// RoleShared data is readable from any role.
	RoleShared Role = iota
	// RoleMain runs lifecycle calls; logically single-threaded.
	RoleMain
	// RoleAudio runs the processing calls; may be a distinct OS thread.
	RoleAudio
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleShared:
		return "shared"
	case RoleMain:
		return "main"
	case RoleAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// ErrWrongThread reports a call made from a thread that does not carry the
// required role.
var ErrWrongThread = errors.New("thread: call made from wrong execution role")

// Checker reports which role the calling thread currently carries.
//
// The host owns thread identity, so the host provides the implementation;
// plugins and the session layer only consult it.
type Checker interface {
	IsMainThread() bool
	IsAudioThread() bool
}

// Ensure verifies that the calling thread carries the given role.
//
// A nil checker disables verification: the role contract then holds by
// documentation alone and Ensure reports no error. RoleShared always passes.
func Ensure(c Checker, role Role) error {
	if c == nil {
		return nil
	}
	switch role {
	case RoleShared:
		return nil
	case RoleMain:
		if c.IsMainThread() {
			return nil
		}
	case RoleAudio:
		if c.IsAudioThread() {
			return nil
		}
	}
	return fmt.Errorf("%w: need %s role", ErrWrongThread, role)
}
