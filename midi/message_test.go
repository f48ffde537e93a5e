package midi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyChannelMessages(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want Message
	}{
		{
			name: "note on",
			raw:  []byte{0x91, 60, 100},
			want: Message{Kind: KindNoteOn, Channel: 1, Data1: 60, Data2: 100, Source: "pad"},
		},
		{
			name: "note off",
			raw:  []byte{0x80, 60, 64},
			want: Message{Kind: KindNoteOff, Channel: 0, Data1: 60, Data2: 64, Source: "pad"},
		},
		{
			name: "note on velocity zero is note off",
			raw:  []byte{0x93, 72, 0},
			want: Message{Kind: KindNoteOff, Channel: 3, Data1: 72, Source: "pad"},
		},
		{
			name: "control change",
			raw:  []byte{0xB5, 7, 127},
			want: Message{Kind: KindControlChange, Channel: 5, Data1: 7, Data2: 127, Source: "pad"},
		},
		{
			name: "program change has two bytes",
			raw:  []byte{0xC2, 12},
			want: Message{Kind: KindProgramChange, Channel: 2, Data1: 12, Source: "pad"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.raw, "pad")
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyDropsMalformed(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, {0x90}, {0xF8}, {0xA0, 60, 10}, {0xE0, 0, 64}} {
		if _, ok := Classify(raw, "pad"); ok {
			t.Errorf("Classify(%v) should be dropped", raw)
		}
	}
}

func TestNoteName(t *testing.T) {
	if got := NoteName(60); got != "C4" {
		t.Errorf("NoteName(60) = %q, want C4", got)
	}
	if got := NoteName(61); got != "C#4" {
		t.Errorf("NoteName(61) = %q, want C#4", got)
	}
	if got := NoteName(0); got != "C-1" {
		t.Errorf("NoteName(0) = %q, want C-1", got)
	}
}
