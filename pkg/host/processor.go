package host

import (
	"fmt"
	"sync"

	"github.com/plugforge/plugrt/pkg/framework/process"
	"github.com/plugforge/plugrt/pkg/framework/thread"
	"github.com/plugforge/plugrt/pkg/plugin"
)

// AudioProcessor is the sole handle to a session's audio-processor
// partition. Activate creates it, Deactivate consumes it. All methods run on
// the AudioProcessor role.
//
// The mutex serializes the render path against teardown: Deactivate blocks
// until an in-flight Process drains, and a handle used after deactivation
// fails with a typed error rather than touching freed state.
type AudioProcessor struct {
	mu      sync.Mutex
	session *Session
	plug    plugin.Plugin
	cfg     plugin.AudioConfig
	checker thread.Checker
	data    any

	started  bool
	released bool
}

// Config returns the activation configuration.
func (p *AudioProcessor) Config() plugin.AudioConfig { return p.cfg }

// Session returns the owning session.
func (p *AudioProcessor) Session() *Session { return p.session }

// Data returns the per-activation data partition, nil after deactivation.
func (p *AudioProcessor) Data() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data
}

// Started reports whether the render path is armed.
func (p *AudioProcessor) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

func (p *AudioProcessor) ensureAudio() error {
	return thread.Ensure(p.checker, thread.RoleAudio)
}

// StartProcessing arms the render path. Starting twice is a typed error.
func (p *AudioProcessor) StartProcessing() error {
	if err := p.ensureAudio(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return ErrNotActivated
	}
	if p.started {
		return ErrProcessingStarted
	}
	if err := p.plug.StartProcessing(); err != nil {
		return fmt.Errorf("%w: %s", ErrStartProcessingFailed, err)
	}
	p.started = true
	return nil
}

// StopProcessing disarms the render path. Stopping twice is a typed error.
func (p *AudioProcessor) StopProcessing() error {
	if err := p.ensureAudio(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return ErrNotActivated
	}
	if !p.started {
		return ErrProcessingStopped
	}
	p.plug.StopProcessing()
	p.started = false
	return nil
}

// Reset clears the plugin's render-path state without deactivating.
func (p *AudioProcessor) Reset() error {
	if err := p.ensureAudio(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return ErrNotActivated
	}
	p.plug.Reset()
	return nil
}

// Process renders one block. The frame count must lie inside the activated
// range and processing must be started. A panic inside the plugin is caught
// here and surfaced as StatusError with ErrProcessingFailed; the handle
// stays usable.
func (p *AudioProcessor) Process(ctx *process.Context) (status process.Status, err error) {
	if err := p.ensureAudio(); err != nil {
		return process.StatusError, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return process.StatusError, ErrNotActivated
	}
	if !p.started {
		return process.StatusError, ErrProcessingStopped
	}
	if ctx.FrameCount < p.cfg.MinFrames || ctx.FrameCount > p.cfg.MaxFrames {
		return process.StatusError, fmt.Errorf("%w: %d not in [%d, %d]",
			ErrFrameCountOutOfRange, ctx.FrameCount, p.cfg.MinFrames, p.cfg.MaxFrames)
	}
	if err := ctx.Validate(); err != nil {
		return process.StatusError, fmt.Errorf("%w: %s", ErrProcessingFailed, err)
	}

	defer func() {
		if r := recover(); r != nil {
			status = process.StatusError
			err = fmt.Errorf("%w: plugin panicked: %v", ErrProcessingFailed, r)
		}
	}()

	st := p.plug.Process(ctx)
	if st == process.StatusError {
		return st, ErrProcessingFailed
	}
	return st, nil
}
