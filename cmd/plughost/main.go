// Command plughost runs the gain example plugin inside a minimal live host:
// it instantiates a session, activates it against the default duplex device
// and renders the input through the plugin until interrupted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gordonklaus/portaudio"

	"github.com/plugforge/plugrt/examples/gain"
	"github.com/plugforge/plugrt/pkg/framework/audio"
	"github.com/plugforge/plugrt/pkg/framework/capability"
	"github.com/plugforge/plugrt/pkg/framework/debug"
	"github.com/plugforge/plugrt/pkg/framework/event"
	"github.com/plugforge/plugrt/pkg/framework/param"
	"github.com/plugforge/plugrt/pkg/framework/process"
	"github.com/plugforge/plugrt/pkg/framework/thread"
	"github.com/plugforge/plugrt/pkg/host"
	"github.com/plugforge/plugrt/pkg/plugin"
)

type config struct {
	SampleRate float64       `env:"PLUGHOST_SAMPLE_RATE" envDefault:"44100"`
	Frames     int           `env:"PLUGHOST_FRAMES" envDefault:"256"`
	GainDB     float64       `env:"PLUGHOST_GAIN_DB" envDefault:"0"`
	LogLevel   string        `env:"PLUGHOST_LOG_LEVEL" envDefault:"info"`
	PumpEvery  time.Duration `env:"PLUGHOST_PUMP_INTERVAL" envDefault:"50ms"`
}

func parseLevel(s string) debug.Level {
	switch s {
	case "debug":
		return debug.LevelDebug
	case "warn":
		return debug.LevelWarn
	case "error":
		return debug.LevelError
	case "off":
		return debug.LevelOff
	default:
		return debug.LevelInfo
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "plughost:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := env.ParseAs[config]()
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	log := debug.New(os.Stderr, "plughost")
	log.SetLevel(parseLevel(cfg.LogLevel))

	mod, err := host.LoadModule("examples/gain", gain.Entry())
	if err != nil {
		return err
	}
	defer mod.Release()

	info := host.Info{Name: "plughost", Vendor: "plugforge", Version: "1.0.0"}
	session, err := mod.Instantiate(info, gain.PluginID,
		host.WithLogger(log),
		host.WithThreadChecker(thread.SingleThreaded{}),
	)
	if err != nil {
		return err
	}
	defer session.Destroy()

	if h, ok := session.Capability(capability.IDParams); ok {
		if params, ok := h.Impl().(*param.Registry); ok {
			params.Get(gain.ParamGain).SetPlain(cfg.GainDB)
		}
	}

	proc, err := session.Activate(plugin.AudioConfig{
		SampleRate: cfg.SampleRate,
		MinFrames:  uint32(cfg.Frames),
		MaxFrames:  uint32(cfg.Frames),
	})
	if err != nil {
		return err
	}
	defer session.Deactivate(proc)

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	// Event arenas and queues are allocated once; the callback clears and
	// reuses them per block.
	evIn := event.NewBufferWithCapacity(64)
	evOut := event.NewBufferWithCapacity(64)
	evInQ := evIn.AsInput()
	evOutQ := evOut.AsOutput()
	var steady int64

	// The stream hands the callback the same channel slice headers on every
	// invocation, re-pointed at the device buffers, so the port views and
	// the context are bound once on the first block and reused after that.
	var ctx *process.Context

	callback := func(in, out [][]float32) {
		evIn.Clear()
		evOut.Clear()
		evOutQ.Reset()

		if ctx == nil {
			inBufs, err := audio.BindBuffers(uint32(cfg.Frames), audio.BindPort32(in, nil))
			if err != nil {
				log.Errorf("bind input: %v", err)
				return
			}
			outBufs, err := audio.BindBuffers(uint32(cfg.Frames), audio.BindPort32(out, nil))
			if err != nil {
				log.Errorf("bind output: %v", err)
				return
			}
			ctx = &process.Context{
				FrameCount: uint32(cfg.Frames),
				AudioIn:    inBufs,
				AudioOut:   outBufs,
				EventsIn:   evInQ,
				EventsOut:  evOutQ,
			}
		}
		ctx.SteadyTime = steady

		if _, err := proc.Process(ctx); err != nil {
			log.Errorf("process: %v", err)
			for ch := range out {
				for i := range out[ch] {
					out[ch][i] = 0
				}
			}
		}
		steady += int64(cfg.Frames)
	}

	stream, err := portaudio.OpenDefaultStream(2, 2, cfg.SampleRate, cfg.Frames, callback)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := proc.StartProcessing(); err != nil {
		return err
	}
	defer proc.StopProcessing()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}
	defer stream.Stop()

	log.Infof("running %s at %.0f Hz, %d frames per block (+%.1f dB)",
		gain.PluginID, cfg.SampleRate, cfg.Frames, cfg.GainDB)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	pump := time.NewTicker(cfg.PumpEvery)
	defer pump.Stop()

	for {
		select {
		case <-sig:
			log.Infof("shutting down")
			return nil
		case <-pump.C:
			if err := session.PumpCallbacks(); err != nil {
				return err
			}
		}
	}
}
