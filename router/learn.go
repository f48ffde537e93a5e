package router

import "midirig/midi"

// LearnKind tags the single capture slot. Only one capture can be armed
// engine-wide; arming another silently replaces it.
type LearnKind int

const (
	LearnNote LearnKind = iota
	LearnCC
	LearnTrigger
)

func (k LearnKind) String() string {
	switch k {
	case LearnCC:
		return "cc"
	case LearnTrigger:
		return "trigger"
	}
	return "note"
}

// LearnTarget is an armed capture: the next qualifying message is assigned
// to the pending mapping slot instead of being routed normally (CC-learn
// only observes and routes normally as well).
type LearnTarget struct {
	Kind   LearnKind
	Filter Filter // optional pre-set source/channel narrowing
}

// qualifies reports whether the message can resolve this capture.
func (t LearnTarget) qualifies(m midi.Message) bool {
	if !t.Filter.Matches(m) {
		return false
	}
	switch t.Kind {
	case LearnNote:
		return m.Kind == midi.KindNoteOn
	case LearnCC:
		return m.Kind == midi.KindControlChange
	case LearnTrigger:
		return m.Kind == midi.KindNoteOn || m.Kind == midi.KindControlChange || m.Kind == midi.KindProgramChange
	}
	return false
}
