package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Kind classifies a parsed MIDI message
type Kind int

const (
	KindOther Kind = iota
	KindNoteOn
	KindNoteOff
	KindControlChange
	KindProgramChange
)

func (k Kind) String() string {
	switch k {
	case KindNoteOn:
		return "note-on"
	case KindNoteOff:
		return "note-off"
	case KindControlChange:
		return "cc"
	case KindProgramChange:
		return "pc"
	}
	return "other"
}

// Message is one parsed channel message tagged with the name of the input
// port it arrived on. Data2 is velocity for notes, value for CC, unused
// for program change.
type Message struct {
	Kind    Kind
	Channel uint8 // 0-15
	Data1   uint8 // note / controller / program number
	Data2   uint8
	Source  string
}

// Classify parses a raw channel message. Packets shorter than 2 bytes and
// messages outside the four routed kinds return ok=false; the caller drops
// them without error.
func Classify(raw []byte, source string) (Message, bool) {
	if len(raw) < 2 {
		return Message{}, false
	}

	msg := gomidi.Message(raw)
	var channel, data1, data2 uint8
	switch {
	case msg.GetNoteStart(&channel, &data1, &data2):
		return Message{Kind: KindNoteOn, Channel: channel, Data1: data1, Data2: data2, Source: source}, true
	case msg.GetNoteOff(&channel, &data1, &data2):
		return Message{Kind: KindNoteOff, Channel: channel, Data1: data1, Data2: data2, Source: source}, true
	case msg.GetNoteEnd(&channel, &data1):
		// Velocity-0 note-on
		return Message{Kind: KindNoteOff, Channel: channel, Data1: data1, Source: source}, true
	case msg.GetControlChange(&channel, &data1, &data2):
		return Message{Kind: KindControlChange, Channel: channel, Data1: data1, Data2: data2, Source: source}, true
	case msg.GetProgramChange(&channel, &data1):
		return Message{Kind: KindProgramChange, Channel: channel, Data1: data1, Source: source}, true
	}
	return Message{}, false
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName renders a note number as e.g. "C#4" (middle C = C4 = 60).
func NoteName(note uint8) string {
	return fmt.Sprintf("%s%d", noteNames[note%12], int(note/12)-1)
}

func (m Message) String() string {
	switch m.Kind {
	case KindNoteOn, KindNoteOff:
		return fmt.Sprintf("%s %s vel=%d ch=%d [%s]", m.Kind, NoteName(m.Data1), m.Data2, m.Channel, m.Source)
	case KindControlChange:
		return fmt.Sprintf("cc %d=%d ch=%d [%s]", m.Data1, m.Data2, m.Channel, m.Source)
	case KindProgramChange:
		return fmt.Sprintf("pc %d ch=%d [%s]", m.Data1, m.Channel, m.Source)
	}
	return "other"
}
