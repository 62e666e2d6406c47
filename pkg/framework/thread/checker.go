package thread

// SingleThreaded is a Checker for embedders that drive both the Main and
// AudioProcessor roles from one thread, such as offline renderers or tests.
// Every check passes.
type SingleThreaded struct{}

// IsMainThread always reports true.
func (SingleThreaded) IsMainThread() bool { return true }

// IsAudioThread always reports true.
func (SingleThreaded) IsAudioThread() bool { return true }

// StaticChecker is a Checker with fixed answers. Hosts that dedicate one
// goroutine per role hand each goroutine its own view of the world; tests
// use it to simulate calls from the wrong role.
type StaticChecker struct {
	Main  bool
	Audio bool
}

// IsMainThread reports the configured Main flag.
func (c StaticChecker) IsMainThread() bool { return c.Main }

// IsAudioThread reports the configured Audio flag.
func (c StaticChecker) IsAudioThread() bool { return c.Audio }
