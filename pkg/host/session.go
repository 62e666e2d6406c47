package host

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/plugforge/plugrt/pkg/framework/capability"
	"github.com/plugforge/plugrt/pkg/framework/debug"
	"github.com/plugforge/plugrt/pkg/framework/thread"
	"github.com/plugforge/plugrt/pkg/plugin"
)

// State is a session's lifecycle state.
type State int32

const (
	// StateInstantiated is the resting state: the plugin exists and is
	// initialized, but has no audio-processor partition.
	StateInstantiated State = iota
	// StateActivated means an AudioProcessor handle is outstanding.
	StateActivated
	// StateDestroyed is terminal.
	StateDestroyed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateInstantiated:
		return "instantiated"
	case StateActivated:
		return "activated"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

type sessionOptions struct {
	shared   func() any
	main     func(shared any) any
	audio    func(shared any) any
	checker  thread.Checker
	log      *debug.Logger
	hostCaps *capability.Registry
}

// SessionOption configures a session at instantiation.
type SessionOption func(*sessionOptions)

// WithSharedData attaches session data readable from any role. Built first,
// before the role partitions.
func WithSharedData(create func() any) SessionOption {
	return func(o *sessionOptions) { o.shared = create }
}

// WithMainData attaches session data owned by the Main role. Built after the
// shared partition, which it receives.
func WithMainData(create func(shared any) any) SessionOption {
	return func(o *sessionOptions) { o.main = create }
}

// WithAudioData attaches per-activation data owned by the AudioProcessor
// role. Built on every Activate and dropped on Deactivate.
func WithAudioData(create func(shared any) any) SessionOption {
	return func(o *sessionOptions) { o.audio = create }
}

// WithThreadChecker installs a thread checker. The session enforces role
// preconditions through it and exposes it to the plugin as the
// capability.IDThreadCheck host capability. Without one, role checks pass.
func WithThreadChecker(c thread.Checker) SessionOption {
	return func(o *sessionOptions) { o.checker = c }
}

// WithLogger installs a logger for lifecycle tracing, exposed to the plugin
// as the capability.IDLog host capability.
func WithLogger(l *debug.Logger) SessionOption {
	return func(o *sessionOptions) { o.log = l }
}

// WithHostCapability exposes an additional host capability to the plugin.
func WithHostCapability(id string, impl any) SessionOption {
	return func(o *sessionOptions) {
		if o.hostCaps == nil {
			o.hostCaps = capability.NewRegistry()
		}
		o.hostCaps.Register(id, impl)
	}
}

// Session owns one plugin instance from instantiation to destruction.
//
// All session methods run on the Main role. The processing side lives on the
// AudioProcessor handle returned by Activate; the session refuses to advance
// past an outstanding handle, so lifecycle and render calls cannot overlap.
type Session struct {
	id     uuid.UUID
	module *Module
	desc   *plugin.Descriptor
	plug   plugin.Plugin

	shared any
	main   any
	opts   sessionOptions

	state     State
	processor *AudioProcessor

	callbackRequested atomic.Bool
}

// sessionHost is the plugin's view of its session.
type sessionHost struct {
	s    *Session
	info Info
	caps *capability.Registry
}

func (h *sessionHost) Name() string { return h.info.Name }

func (h *sessionHost) Capability(id string) (capability.Handle, bool) {
	return h.caps.Query(id)
}

func (h *sessionHost) RequestCallback() {
	h.s.callbackRequested.Store(true)
}

// Instantiate creates a session for one of the module's plugin identities.
// Runs on the Main role. A failure abandons only this session; the module
// and its other sessions are untouched.
func (m *Module) Instantiate(info Info, pluginID string, opts ...SessionOption) (*Session, error) {
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := thread.Ensure(o.checker, thread.RoleMain); err != nil {
		return nil, err
	}

	f, err := m.Factory()
	if err != nil {
		return nil, err
	}
	desc := f.DescriptorByID(pluginID)
	if desc == nil {
		return nil, fmt.Errorf("%w: %q", ErrPluginNotFound, pluginID)
	}

	caps := o.hostCaps
	if caps == nil {
		caps = capability.NewRegistry()
	}
	if o.checker != nil {
		caps.Register(capability.IDThreadCheck, o.checker)
	}
	if o.log != nil {
		caps.Register(capability.IDLog, o.log)
	}

	s := &Session{
		id:     uuid.New(),
		module: m,
		desc:   desc,
		opts:   o,
	}
	p, err := f.Create(&sessionHost{s: s, info: info, caps: caps}, pluginID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInstantiationFailed, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: constructor returned nil", ErrInstantiationFailed)
	}
	if err := p.Init(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInstantiationFailed, err)
	}
	s.plug = p

	// Partitions build outward from shared: shared first, then main.
	if o.shared != nil {
		s.shared = o.shared()
	}
	if o.main != nil {
		s.main = o.main(s.shared)
	}

	m.retain()
	if o.log != nil {
		o.log.Debugf("session %s: instantiated %s", s.id, pluginID)
	}
	return s, nil
}

// ID returns the session's unique tag.
func (s *Session) ID() uuid.UUID { return s.id }

// Descriptor returns the identity this session was instantiated from.
func (s *Session) Descriptor() *plugin.Descriptor { return s.desc }

// State returns the session's lifecycle state.
func (s *Session) State() State { return s.state }

// Shared returns the shared data partition; readable from any role.
func (s *Session) Shared() any { return s.shared }

// MainData returns the Main-role data partition.
func (s *Session) MainData() any { return s.main }

// Capability resolves a plugin capability. Handles are stable for the life
// of the session and may be cached by the caller.
func (s *Session) Capability(id string) (capability.Handle, bool) {
	if s.plug == nil {
		return capability.Handle{}, false
	}
	return s.plug.Capabilities().Query(id)
}

func (s *Session) ensureMain() error {
	return thread.Ensure(s.opts.checker, thread.RoleMain)
}

// Activate moves the session to the activated state and returns the sole
// handle to its audio-processor partition. Exactly one handle exists per
// activation; it must come back through Deactivate.
func (s *Session) Activate(cfg plugin.AudioConfig) (*AudioProcessor, error) {
	if err := s.ensureMain(); err != nil {
		return nil, err
	}
	switch s.state {
	case StateDestroyed:
		return nil, ErrDestroyed
	case StateActivated:
		return nil, ErrAlreadyActivated
	}
	if cfg.SampleRate <= 0 || cfg.MinFrames > cfg.MaxFrames || cfg.MaxFrames == 0 {
		return nil, fmt.Errorf("%w: bad audio config %+v", ErrActivationFailed, cfg)
	}

	if err := s.plug.Activate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrActivationFailed, err)
	}

	var audio any
	if s.opts.audio != nil {
		audio = s.opts.audio(s.shared)
	}
	p := &AudioProcessor{
		session: s,
		plug:    s.plug,
		cfg:     cfg,
		checker: s.opts.checker,
		data:    audio,
	}
	s.processor = p
	s.state = StateActivated
	if s.opts.log != nil {
		s.opts.log.Debugf("session %s: activated at %.0f Hz, %d..%d frames",
			s.id, cfg.SampleRate, cfg.MinFrames, cfg.MaxFrames)
	}
	return p, nil
}

// Deactivate takes the audio processor handle back and tears down the
// audio-processor partition. It waits for an in-flight render call to drain
// and refuses a handle that is still started or belongs elsewhere. After it
// returns, the handle only yields typed errors.
func (s *Session) Deactivate(p *AudioProcessor) error {
	if err := s.ensureMain(); err != nil {
		return err
	}
	switch s.state {
	case StateDestroyed:
		return ErrDestroyed
	case StateInstantiated:
		return ErrNotActivated
	}
	if p == nil || p != s.processor {
		return ErrProcessorMismatch
	}

	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrProcessingStarted
	}
	p.released = true
	p.data = nil
	p.mu.Unlock()

	s.plug.Deactivate()
	s.processor = nil
	s.state = StateInstantiated
	if s.opts.log != nil {
		s.opts.log.Debugf("session %s: deactivated", s.id)
	}
	return nil
}

// Destroy ends the session. It refuses while an audio processor handle is
// outstanding and is a typed error once destroyed.
func (s *Session) Destroy() error {
	if err := s.ensureMain(); err != nil {
		return err
	}
	switch s.state {
	case StateDestroyed:
		return ErrDestroyed
	case StateActivated:
		return ErrStillActivated
	}

	s.plug.Destroy()
	s.state = StateDestroyed
	if s.opts.log != nil {
		s.opts.log.Debugf("session %s: destroyed", s.id)
	}
	return s.module.Release()
}

// CallbackRequested reports whether the plugin has asked for a main-thread
// callback since the last pump.
func (s *Session) CallbackRequested() bool {
	return s.callbackRequested.Load()
}

// PumpCallbacks runs the plugin's main-thread callback if one was requested.
// Hosts call this from their Main-role event loop.
func (s *Session) PumpCallbacks() error {
	if err := s.ensureMain(); err != nil {
		return err
	}
	if s.state == StateDestroyed {
		return ErrDestroyed
	}
	if !s.callbackRequested.CompareAndSwap(true, false) {
		return nil
	}
	if h, ok := s.Capability(capability.IDMainThreadCallback); ok {
		if cb, ok := h.Impl().(capability.MainThreadCallback); ok {
			cb.OnMainThread()
		}
	}
	return nil
}
