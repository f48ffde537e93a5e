package router

import "midirig/midi"

// ChannelEvent is a routed note for one performance channel's strip
type ChannelEvent struct {
	Channel  int // route id
	Note     uint8
	Velocity uint8
	Kind     midi.Kind // KindNoteOn or KindNoteOff
}

// PresetSelected fires when a trigger mapping matches
type PresetSelected struct {
	Index int
}

// ParameterChanged fires when a CC fader mapping matches. Value is the
// controller value scaled to 0.0-1.0.
type ParameterChanged struct {
	Target CCTarget
	Value  float64
}

// LearnCaptured delivers the message that resolved an armed capture
type LearnCaptured struct {
	Kind    LearnKind
	Message midi.Message
}
