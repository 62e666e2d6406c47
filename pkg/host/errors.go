package host

import "errors"

// Lifecycle and setup errors. Misusing the state machine always yields the
// same sentinel for the same misuse, so callers can match with errors.Is;
// none of these are ever retried or auto-corrected internally.
var (
	// ErrPluginNotFound reports an identity the module's factory does not
	// carry.
	ErrPluginNotFound = errors.New("host: plugin not found")

	// ErrInstantiationFailed reports a plugin that could not be built or
	// initialized. Only the failing session is abandoned.
	ErrInstantiationFailed = errors.New("host: could not instantiate plugin")

	// ErrAlreadyActivated reports Activate on an active session.
	ErrAlreadyActivated = errors.New("host: session already activated")

	// ErrActivationFailed reports a configuration the plugin rejected.
	ErrActivationFailed = errors.New("host: could not activate plugin")

	// ErrNotActivated reports a processing-side call without an active
	// audio processor.
	ErrNotActivated = errors.New("host: session is not activated")

	// ErrStillActivated reports Deactivate or Destroy while an audio
	// processor handle is still held; release the handle first.
	ErrStillActivated = errors.New("host: audio processor still activated")

	// ErrProcessorMismatch reports a processor handle returned to a
	// session that did not create it.
	ErrProcessorMismatch = errors.New("host: audio processor belongs to another session")

	// ErrStartProcessingFailed reports a plugin that refused to start.
	ErrStartProcessingFailed = errors.New("host: could not start processing")

	// ErrProcessingStarted reports StartProcessing while already started,
	// or Deactivate before stopping.
	ErrProcessingStarted = errors.New("host: processing already started")

	// ErrProcessingStopped reports StopProcessing or Process while
	// stopped.
	ErrProcessingStopped = errors.New("host: processing is stopped")

	// ErrProcessingFailed reports a render call that failed, including
	// one that panicked and was caught at the boundary.
	ErrProcessingFailed = errors.New("host: processing failed")

	// ErrFrameCountOutOfRange reports a render call whose frame count
	// lies outside the range negotiated at activation.
	ErrFrameCountOutOfRange = errors.New("host: frame count outside activated range")

	// ErrDestroyed reports any call on a destroyed session.
	ErrDestroyed = errors.New("host: session is destroyed")
)
