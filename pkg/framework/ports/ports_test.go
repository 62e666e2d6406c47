package ports

import (
	"testing"

	"github.com/plugforge/plugrt/pkg/framework/audio"
)

func TestStereoLayout(t *testing.T) {
	l := NewStereoLayout()

	if l.InputCount() != 1 || l.OutputCount() != 1 {
		t.Fatalf("expected 1 in / 1 out, got %d / %d", l.InputCount(), l.OutputCount())
	}
	in := l.Input(0)
	if in == nil || in.Channels != 2 || in.Direction != DirectionInput {
		t.Errorf("unexpected input port: %+v", in)
	}
	if l.Input(1) != nil {
		t.Error("out-of-range port must be nil")
	}
}

func TestLayoutBuilder(t *testing.T) {
	l := NewLayout().
		AddInput(Info{Name: "Main", Channels: 2, Kind: KindMain}).
		AddInput(Info{Name: "Sidechain", Channels: 2, Kind: KindAux}).
		AddOutput(Info{Name: "Main", Channels: 2, Kind: KindMain})

	if l.InputCount() != 2 {
		t.Errorf("expected 2 inputs, got %d", l.InputCount())
	}
	if l.Input(1).Kind != KindAux {
		t.Error("expected second input to be aux")
	}
	if l.Output(0).Direction != DirectionOutput {
		t.Error("AddOutput must force output direction")
	}
}

func TestLayoutMatches(t *testing.T) {
	l := NewMonoLayout()

	mono := audio.BindPort32([][]float32{make([]float32, 16)}, nil)
	stereo := audio.BindPort32([][]float32{make([]float32, 16), make([]float32, 16)}, nil)

	in, err := audio.BindBuffers(16, mono)
	if err != nil {
		t.Fatal(err)
	}
	out, err := audio.BindBuffers(16, mono)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Matches(in, out); err != nil {
		t.Errorf("matching buffers rejected: %v", err)
	}

	wrong, err := audio.BindBuffers(16, stereo)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Matches(in, wrong); err == nil {
		t.Error("channel count mismatch must be rejected")
	}
	if err := l.Matches(nil, out); err == nil {
		t.Error("missing input side must be rejected for a layout with inputs")
	}
}
