package midi

import (
	"bytes"
	"testing"
	"time"
)

func TestEncodeChannelMessages(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		ch   uint8
		d1   uint8
		d2   uint8
		want []byte
	}{
		{"note on", KindNoteOn, 0, 60, 100, []byte{0x90, 60, 100}},
		{"note off", KindNoteOff, 2, 60, 0, []byte{0x82, 60, 0}},
		{"cc", KindControlChange, 1, 7, 127, []byte{0xB1, 7, 127}},
		{"pc", KindProgramChange, 3, 12, 0, []byte{0xC3, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.kind, tt.ch, tt.d1, tt.d2)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode = % X, want % X", got, tt.want)
			}
		})
	}

	if Encode(KindOther, 0, 0, 0) != nil {
		t.Error("unknown kind should encode to nil")
	}
}

func TestEncodeRoundTripsThroughClassify(t *testing.T) {
	raw := Encode(KindNoteOn, 9, 38, 90)
	msg, ok := Classify(raw, "loop")
	if !ok {
		t.Fatal("encoded message did not classify")
	}
	if msg.Kind != KindNoteOn || msg.Channel != 9 || msg.Data1 != 38 || msg.Data2 != 90 {
		t.Errorf("round trip mismatch: %+v", msg)
	}
}

func TestClockInterval(t *testing.T) {
	// 120 bpm = 2 beats/sec = 48 clocks/sec
	if got := ClockInterval(120); got != time.Second/48 {
		t.Errorf("ClockInterval(120) = %v, want %v", got, time.Second/48)
	}
	if ClockInterval(0) != 0 {
		t.Error("non-positive tempo should yield 0")
	}
}

func TestRealtimeBytes(t *testing.T) {
	if got := Clock(); len(got) != 1 || got[0] != 0xF8 {
		t.Errorf("Clock() = % X, want F8", got)
	}
	if got := Start(); len(got) != 1 || got[0] != 0xFA {
		t.Errorf("Start() = % X, want FA", got)
	}
	if got := Stop(); len(got) != 1 || got[0] != 0xFC {
		t.Errorf("Stop() = % X, want FC", got)
	}
}
