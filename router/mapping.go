package router

import "midirig/midi"

// Filter narrows a mapping to one input channel and/or source port.
// Nil fields are wildcards.
type Filter struct {
	Channel *uint8
	Source  *string
}

// Matches checks the message against the filter
func (f Filter) Matches(m midi.Message) bool {
	if f.Channel != nil && *f.Channel != m.Channel {
		return false
	}
	if f.Source != nil && *f.Source != m.Source {
		return false
	}
	return true
}

// filterKey normalises a Filter for dedup comparison
type filterKey struct {
	channel   int // -1 = wildcard
	source    string
	hasSource bool
}

func (f Filter) key() filterKey {
	k := filterKey{channel: -1}
	if f.Channel != nil {
		k.channel = int(*f.Channel)
	}
	if f.Source != nil {
		k.source = *f.Source
		k.hasSource = true
	}
	return k
}

// tableKey is the full dedup key: the mapping's discriminator plus its
// filter. Two inserts with equal keys keep only the second.
type tableKey struct {
	disc   uint16
	filter filterKey
}

type keyed interface {
	tableKey() tableKey
}

// table is an insertion-ordered mapping list with replace-on-duplicate
// insert. With dedup enforced at insert time, first-match lookup order is
// just insertion order.
type table[T keyed] struct {
	entries []T
}

func (t *table[T]) insert(e T) {
	k := e.tableKey()
	for i := range t.entries {
		if t.entries[i].tableKey() == k {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			break
		}
	}
	t.entries = append(t.entries, e)
}

func (t *table[T]) remove(k tableKey) bool {
	for i := range t.entries {
		if t.entries[i].tableKey() == k {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (t *table[T]) find(match func(T) bool) (T, bool) {
	for i := range t.entries {
		if match(t.entries[i]) {
			return t.entries[i], true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T]) snapshot() []T {
	out := make([]T, len(t.entries))
	copy(out, t.entries)
	return out
}

// TargetKind says what a CC fader mapping controls
type TargetKind int

const (
	TargetChannelVolume TargetKind = iota
	TargetChannelPan
	TargetChannelMute
	TargetMasterVolume
	TargetPluginParameter
)

// CCTarget identifies the controlled parameter. Channel is a route id for
// the channel kinds; Plugin/Param are used for plugin parameters.
type CCTarget struct {
	Kind    TargetKind
	Channel int
	Plugin  int
	Param   int
}

// CCMapping binds a controller number to a fader-control target
type CCMapping struct {
	CC     uint8
	Filter Filter
	Target CCTarget
}

func (m CCMapping) tableKey() tableKey {
	return tableKey{disc: uint16(m.CC), filter: m.Filter.key()}
}

func (m CCMapping) matches(msg midi.Message) bool {
	return msg.Kind == midi.KindControlChange && msg.Data1 == m.CC && m.Filter.Matches(msg)
}

// TriggerType says which message kind fires a preset trigger
type TriggerType int

const (
	TriggerProgramChange TriggerType = iota
	TriggerControlChange
	TriggerNoteOn
)

func (t TriggerType) String() string {
	switch t {
	case TriggerControlChange:
		return "cc"
	case TriggerNoteOn:
		return "note"
	}
	return "pc"
}

// ValueRange is an inclusive data2 window
type ValueRange struct {
	Min uint8
	Max uint8
}

// defaultTriggerRange applies when a CC/Note trigger has no explicit range.
var defaultTriggerRange = ValueRange{Min: 64, Max: 127}

// TriggerMapping fires preset selection from an incoming message
type TriggerMapping struct {
	Type       TriggerType
	Data1      uint8
	Filter     Filter
	Data2Range *ValueRange // CC/Note only; nil = default 64-127
	Preset     int
}

func (m TriggerMapping) tableKey() tableKey {
	// Discriminator packs the trigger type with data1 so the same note and
	// CC numbers never collide across types.
	return tableKey{disc: uint16(m.Type)<<8 | uint16(m.Data1), filter: m.Filter.key()}
}

func (m TriggerMapping) matches(msg midi.Message) bool {
	switch m.Type {
	case TriggerProgramChange:
		if msg.Kind != midi.KindProgramChange {
			return false
		}
	case TriggerControlChange:
		if msg.Kind != midi.KindControlChange {
			return false
		}
	case TriggerNoteOn:
		if msg.Kind != midi.KindNoteOn {
			return false
		}
	}
	if msg.Data1 != m.Data1 || !m.Filter.Matches(msg) {
		return false
	}
	if m.Type == TriggerControlChange || m.Type == TriggerNoteOn {
		r := defaultTriggerRange
		if m.Data2Range != nil {
			r = *m.Data2Range
		}
		if msg.Data2 < r.Min || msg.Data2 > r.Max {
			return false
		}
	}
	return true
}
