package host

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugforge/plugrt/pkg/framework/capability"
	"github.com/plugforge/plugrt/pkg/framework/process"
	"github.com/plugforge/plugrt/pkg/framework/thread"
	"github.com/plugforge/plugrt/pkg/plugin"
)

const testPluginID = "com.plugforge.test-plugin"

// testPlugin records lifecycle calls and lets tests inject failures.
type testPlugin struct {
	host plugin.Host
	caps *capability.Registry

	initErr     error
	activateErr error
	startErr    error
	processFn   func(*process.Context) process.Status

	calls []string
}

func (p *testPlugin) record(name string) { p.calls = append(p.calls, name) }

func (p *testPlugin) Init() error { p.record("init"); return p.initErr }
func (p *testPlugin) Destroy()    { p.record("destroy") }
func (p *testPlugin) Activate(plugin.AudioConfig) error {
	p.record("activate")
	return p.activateErr
}
func (p *testPlugin) Deactivate() { p.record("deactivate") }
func (p *testPlugin) StartProcessing() error {
	p.record("start")
	return p.startErr
}
func (p *testPlugin) StopProcessing() { p.record("stop") }
func (p *testPlugin) Reset()          { p.record("reset") }
func (p *testPlugin) Process(ctx *process.Context) process.Status {
	p.record("process")
	if p.processFn != nil {
		return p.processFn(ctx)
	}
	return process.StatusContinue
}
func (p *testPlugin) Capabilities() *capability.Registry { return p.caps }

func newTestEntry(p *testPlugin) *plugin.Entry {
	f := plugin.NewFactory()
	desc := plugin.Descriptor{
		ID:       testPluginID,
		Name:     "Test Plugin",
		Vendor:   "plugforge",
		Features: []string{plugin.FeatureAudioEffect, plugin.FeatureStereo},
	}
	f.Register(desc, func(h plugin.Host) plugin.Plugin {
		p.host = h
		if p.caps == nil {
			p.caps = capability.NewRegistry()
		}
		return p
	})
	return plugin.NewEntry(f, nil)
}

var moduleSeq int

// loadTestModule loads a fresh entry under a unique cache name so tests do
// not share cache state.
func loadTestModule(t *testing.T, p *testPlugin) *Module {
	t.Helper()
	moduleSeq++
	name := fmt.Sprintf("test-module-%d", moduleSeq)
	m, err := LoadModule(name, newTestEntry(p))
	require.NoError(t, err)
	t.Cleanup(func() { m.Release() })
	return m
}

func testConfig() plugin.AudioConfig {
	return plugin.AudioConfig{SampleRate: 48000, MinFrames: 1, MaxFrames: 512}
}

func TestModuleCacheSharesLoads(t *testing.T) {
	p := &testPlugin{}
	entry := newTestEntry(p)

	m1, err := LoadModule("shared-module", entry)
	require.NoError(t, err)
	m2, err := LoadModule("shared-module", nil)
	require.NoError(t, err)
	assert.Same(t, m1, m2, "same name must share one module")
	assert.True(t, entry.Initialized())

	require.NoError(t, m1.Release())
	assert.True(t, entry.Initialized(), "one reference left")
	require.NoError(t, m2.Release())
	assert.False(t, entry.Initialized(), "last release deinitializes the entry")

	err = m2.Release()
	assert.ErrorIs(t, err, plugin.ErrUnbalancedDeinit)
}

func TestLoadModuleUncachedNeedsEntry(t *testing.T) {
	_, err := LoadModule("never-loaded", nil)
	assert.ErrorIs(t, err, ErrPluginNotFound)
}

func TestInstantiateUnknownPlugin(t *testing.T) {
	m := loadTestModule(t, &testPlugin{})
	_, err := m.Instantiate(Info{Name: "test-host"}, "com.plugforge.nope")
	assert.ErrorIs(t, err, ErrPluginNotFound)
}

func TestInstantiateInitFailureAbandonsSession(t *testing.T) {
	p := &testPlugin{initErr: errors.New("boom")}
	m := loadTestModule(t, p)

	_, err := m.Instantiate(Info{Name: "test-host"}, testPluginID)
	assert.ErrorIs(t, err, ErrInstantiationFailed)

	// The module is untouched; a second attempt works.
	p.initErr = nil
	s, err := m.Instantiate(Info{Name: "test-host"}, testPluginID)
	require.NoError(t, err)
	require.NoError(t, s.Destroy())
}

func TestSessionLifecycle(t *testing.T) {
	p := &testPlugin{}
	m := loadTestModule(t, p)

	s, err := m.Instantiate(Info{Name: "test-host"}, testPluginID)
	require.NoError(t, err)
	assert.Equal(t, StateInstantiated, s.State())
	assert.Equal(t, testPluginID, s.Descriptor().ID)
	assert.NotEqual(t, s.ID().String(), "")

	proc, err := s.Activate(testConfig())
	require.NoError(t, err)
	assert.Equal(t, StateActivated, s.State())

	_, err = s.Activate(testConfig())
	assert.ErrorIs(t, err, ErrAlreadyActivated)

	err = s.Destroy()
	assert.ErrorIs(t, err, ErrStillActivated)

	require.NoError(t, s.Deactivate(proc))
	assert.Equal(t, StateInstantiated, s.State())

	err = s.Deactivate(proc)
	assert.ErrorIs(t, err, ErrNotActivated)

	require.NoError(t, s.Destroy())
	assert.Equal(t, StateDestroyed, s.State())
	assert.Equal(t, []string{"init", "activate", "deactivate", "destroy"}, p.calls)

	// Everything after Destroy is the same typed error.
	_, err = s.Activate(testConfig())
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.ErrorIs(t, s.Deactivate(proc), ErrDestroyed)
	assert.ErrorIs(t, s.Destroy(), ErrDestroyed)
}

func TestActivateRejectsBadConfig(t *testing.T) {
	m := loadTestModule(t, &testPlugin{})
	s, err := m.Instantiate(Info{Name: "test-host"}, testPluginID)
	require.NoError(t, err)
	defer s.Destroy()

	_, err = s.Activate(plugin.AudioConfig{SampleRate: 0, MinFrames: 1, MaxFrames: 64})
	assert.ErrorIs(t, err, ErrActivationFailed)
	_, err = s.Activate(plugin.AudioConfig{SampleRate: 48000, MinFrames: 65, MaxFrames: 64})
	assert.ErrorIs(t, err, ErrActivationFailed)
	assert.Equal(t, StateInstantiated, s.State())
}

func TestActivatePluginRejection(t *testing.T) {
	p := &testPlugin{activateErr: errors.New("unsupported rate")}
	m := loadTestModule(t, p)
	s, err := m.Instantiate(Info{Name: "test-host"}, testPluginID)
	require.NoError(t, err)
	defer s.Destroy()

	_, err = s.Activate(testConfig())
	assert.ErrorIs(t, err, ErrActivationFailed)
	assert.Equal(t, StateInstantiated, s.State(), "failed activation leaves session usable")
}

func TestDeactivateForeignHandle(t *testing.T) {
	m := loadTestModule(t, &testPlugin{})
	s1, err := m.Instantiate(Info{Name: "test-host"}, testPluginID)
	require.NoError(t, err)

	p2 := &testPlugin{}
	m2 := loadTestModule(t, p2)
	s2, err := m2.Instantiate(Info{Name: "test-host"}, testPluginID)
	require.NoError(t, err)

	proc1, err := s1.Activate(testConfig())
	require.NoError(t, err)
	proc2, err := s2.Activate(testConfig())
	require.NoError(t, err)

	assert.ErrorIs(t, s1.Deactivate(proc2), ErrProcessorMismatch)
	assert.ErrorIs(t, s1.Deactivate(nil), ErrProcessorMismatch)

	require.NoError(t, s1.Deactivate(proc1))
	require.NoError(t, s2.Deactivate(proc2))
	require.NoError(t, s1.Destroy())
	require.NoError(t, s2.Destroy())
}

func TestProcessorStartStopProcess(t *testing.T) {
	p := &testPlugin{}
	m := loadTestModule(t, p)
	s, err := m.Instantiate(Info{Name: "test-host"}, testPluginID)
	require.NoError(t, err)
	defer s.Destroy()

	proc, err := s.Activate(testConfig())
	require.NoError(t, err)
	defer s.Deactivate(proc)

	ctx := &process.Context{FrameCount: 64}

	// Processing before starting is refused.
	st, err := proc.Process(ctx)
	assert.Equal(t, process.StatusError, st)
	assert.ErrorIs(t, err, ErrProcessingStopped)

	require.NoError(t, proc.StartProcessing())
	assert.True(t, proc.Started())
	assert.ErrorIs(t, proc.StartProcessing(), ErrProcessingStarted)

	st, err = proc.Process(ctx)
	require.NoError(t, err)
	assert.Equal(t, process.StatusContinue, st)

	// Deactivation waits for a stop first.
	assert.ErrorIs(t, s.Deactivate(proc), ErrProcessingStarted)

	require.NoError(t, proc.StopProcessing())
	assert.ErrorIs(t, proc.StopProcessing(), ErrProcessingStopped)
}

func TestProcessorFrameCountRange(t *testing.T) {
	m := loadTestModule(t, &testPlugin{})
	s, err := m.Instantiate(Info{Name: "test-host"}, testPluginID)
	require.NoError(t, err)
	defer s.Destroy()

	proc, err := s.Activate(plugin.AudioConfig{SampleRate: 48000, MinFrames: 16, MaxFrames: 64})
	require.NoError(t, err)
	defer s.Deactivate(proc)
	require.NoError(t, proc.StartProcessing())
	defer proc.StopProcessing()

	for _, frames := range []uint32{15, 65} {
		st, err := proc.Process(&process.Context{FrameCount: frames})
		assert.Equal(t, process.StatusError, st)
		assert.ErrorIs(t, err, ErrFrameCountOutOfRange)
	}

	st, err := proc.Process(&process.Context{FrameCount: 16})
	require.NoError(t, err)
	assert.Equal(t, process.StatusContinue, st)
}

func TestProcessorPanicBecomesStatusError(t *testing.T) {
	p := &testPlugin{processFn: func(*process.Context) process.Status {
		panic("render blew up")
	}}
	m := loadTestModule(t, p)
	s, err := m.Instantiate(Info{Name: "test-host"}, testPluginID)
	require.NoError(t, err)
	defer s.Destroy()

	proc, err := s.Activate(testConfig())
	require.NoError(t, err)
	defer s.Deactivate(proc)
	require.NoError(t, proc.StartProcessing())

	st, err := proc.Process(&process.Context{FrameCount: 64})
	assert.Equal(t, process.StatusError, st)
	assert.ErrorIs(t, err, ErrProcessingFailed)
	assert.Contains(t, err.Error(), "render blew up")

	// The handle survives the panic.
	p.processFn = nil
	st, err = proc.Process(&process.Context{FrameCount: 64})
	require.NoError(t, err)
	assert.Equal(t, process.StatusContinue, st)
	require.NoError(t, proc.StopProcessing())
}

func TestProcessorUseAfterDeactivate(t *testing.T) {
	m := loadTestModule(t, &testPlugin{})
	s, err := m.Instantiate(Info{Name: "test-host"}, testPluginID)
	require.NoError(t, err)
	defer s.Destroy()

	proc, err := s.Activate(testConfig())
	require.NoError(t, err)
	require.NoError(t, s.Deactivate(proc))

	assert.ErrorIs(t, proc.StartProcessing(), ErrNotActivated)
	assert.ErrorIs(t, proc.StopProcessing(), ErrNotActivated)
	assert.ErrorIs(t, proc.Reset(), ErrNotActivated)
	st, err := proc.Process(&process.Context{FrameCount: 64})
	assert.Equal(t, process.StatusError, st)
	assert.ErrorIs(t, err, ErrNotActivated)
	assert.Nil(t, proc.Data())
}

func TestSessionDataPartitions(t *testing.T) {
	m := loadTestModule(t, &testPlugin{})

	type sharedData struct{ tag string }
	s, err := m.Instantiate(Info{Name: "test-host"}, testPluginID,
		WithSharedData(func() any { return &sharedData{tag: "shared"} }),
		WithMainData(func(shared any) any {
			require.IsType(t, &sharedData{}, shared)
			return "main"
		}),
		WithAudioData(func(shared any) any {
			require.IsType(t, &sharedData{}, shared)
			return "audio"
		}),
	)
	require.NoError(t, err)
	defer s.Destroy()

	assert.Equal(t, "shared", s.Shared().(*sharedData).tag)
	assert.Equal(t, "main", s.MainData())

	proc, err := s.Activate(testConfig())
	require.NoError(t, err)
	assert.Equal(t, "audio", proc.Data())
	require.NoError(t, s.Deactivate(proc))
}

func TestThreadRoleEnforcement(t *testing.T) {
	m := loadTestModule(t, &testPlugin{})

	// The instantiating goroutine is Main but not Audio.
	s, err := m.Instantiate(Info{Name: "test-host"}, testPluginID,
		WithThreadChecker(thread.StaticChecker{Main: true, Audio: false}))
	require.NoError(t, err)

	proc, err := s.Activate(testConfig())
	require.NoError(t, err)

	assert.ErrorIs(t, proc.StartProcessing(), thread.ErrWrongThread)
	st, err := proc.Process(&process.Context{FrameCount: 64})
	assert.Equal(t, process.StatusError, st)
	assert.ErrorIs(t, err, thread.ErrWrongThread)

	require.NoError(t, s.Deactivate(proc))
	require.NoError(t, s.Destroy())
}

func TestThreadRoleEnforcementMainSide(t *testing.T) {
	m := loadTestModule(t, &testPlugin{})

	// A goroutine that is only Audio cannot drive the lifecycle.
	_, err := m.Instantiate(Info{Name: "test-host"}, testPluginID,
		WithThreadChecker(thread.StaticChecker{Main: false, Audio: true}))
	assert.ErrorIs(t, err, thread.ErrWrongThread)
}

type callbackPlugin struct {
	testPlugin
	ran int
}

func (p *callbackPlugin) OnMainThread() { p.ran++ }

func TestMainThreadCallbackPump(t *testing.T) {
	p := &callbackPlugin{}
	f := plugin.NewFactory()
	f.Register(plugin.Descriptor{
		ID: testPluginID, Name: "CB", Vendor: "plugforge",
		Features: []string{plugin.FeatureAudioEffect},
	}, func(h plugin.Host) plugin.Plugin {
		p.host = h
		p.caps = capability.NewRegistry()
		p.caps.Register(capability.IDMainThreadCallback, p)
		return p
	})
	moduleSeq++
	m, err := LoadModule(fmt.Sprintf("test-module-%d", moduleSeq), plugin.NewEntry(f, nil))
	require.NoError(t, err)
	defer m.Release()

	s, err := m.Instantiate(Info{Name: "test-host"}, testPluginID)
	require.NoError(t, err)
	defer s.Destroy()

	// No request, no callback.
	require.NoError(t, s.PumpCallbacks())
	assert.Zero(t, p.ran)

	p.host.RequestCallback()
	p.host.RequestCallback() // requests coalesce
	assert.True(t, s.CallbackRequested())

	require.NoError(t, s.PumpCallbacks())
	assert.Equal(t, 1, p.ran)
	assert.False(t, s.CallbackRequested())

	require.NoError(t, s.PumpCallbacks())
	assert.Equal(t, 1, p.ran)
}

func TestHostCapabilitiesVisibleToPlugin(t *testing.T) {
	p := &testPlugin{}
	m := loadTestModule(t, p)

	type tuner struct{ hz float64 }
	s, err := m.Instantiate(Info{Name: "test-host"}, testPluginID,
		WithThreadChecker(thread.SingleThreaded{}),
		WithHostCapability("test.tuner", &tuner{hz: 442}),
	)
	require.NoError(t, err)
	defer s.Destroy()

	assert.Equal(t, "test-host", p.host.Name())

	h, ok := p.host.Capability(capability.IDThreadCheck)
	require.True(t, ok)
	_, isChecker := h.Impl().(thread.Checker)
	assert.True(t, isChecker)

	h, ok = p.host.Capability("test.tuner")
	require.True(t, ok)
	assert.Equal(t, 442.0, h.Impl().(*tuner).hz)

	_, ok = p.host.Capability("test.absent")
	assert.False(t, ok)
}
