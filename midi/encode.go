package midi

import (
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Encode builds the on-wire bytes for an outbound channel message (tempo
// sync, Helix-style control messages). Transmission is the transport's job;
// this is a pure function. Unknown kinds encode to nil.
func Encode(kind Kind, channel, data1, data2 uint8) []byte {
	channel &= 0x0F
	data1 &= 0x7F
	data2 &= 0x7F

	switch kind {
	case KindNoteOn:
		return gomidi.NoteOn(channel, data1, data2)
	case KindNoteOff:
		return gomidi.NoteOff(channel, data1)
	case KindControlChange:
		return gomidi.ControlChange(channel, data1, data2)
	case KindProgramChange:
		return gomidi.ProgramChange(channel, data1)
	}
	return nil
}

// Realtime bytes for tempo broadcast.
func Clock() []byte { return gomidi.TimingClock() }
func Start() []byte { return gomidi.Start() }
func Stop() []byte  { return gomidi.Stop() }

// ClockInterval returns the period between timing-clock bytes at the given
// tempo (24 clocks per quarter note).
func ClockInterval(bpm float64) time.Duration {
	if bpm <= 0 {
		return 0
	}
	return time.Duration(float64(time.Minute) / (bpm * 24))
}
