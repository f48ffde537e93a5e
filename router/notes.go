package router

// inputKey identifies the physical key a note-on arrived from. Note-offs
// for the same key release exactly the outputs that note-on produced, even
// if the transforms changed in between - the engine never asks the
// downstream synth what is sounding.
type inputKey struct {
	source  string
	channel uint8
	note    uint8
}

// Sounding is one output note this router emitted and has not yet released
type Sounding struct {
	Note    uint8
	Channel int // destination route id
}

// NoteTracker records, per input key, the output notes currently sounding
// as a result of this router's own note-on emissions.
type NoteTracker struct {
	active map[inputKey][]Sounding
}

func NewNoteTracker() *NoteTracker {
	return &NoteTracker{active: make(map[inputKey][]Sounding)}
}

func (t *NoteTracker) record(k inputKey, s Sounding) {
	t.active[k] = append(t.active[k], s)
}

// release removes and returns the outputs recorded for the input key.
func (t *NoteTracker) release(k inputKey) []Sounding {
	out := t.active[k]
	delete(t.active, k)
	return out
}

// releaseChannel removes and returns all outputs recorded for one
// destination, leaving other destinations' entries in place.
func (t *NoteTracker) releaseChannel(channel int) []Sounding {
	var out []Sounding
	for k, list := range t.active {
		var keep []Sounding
		for _, s := range list {
			if s.Channel == channel {
				out = append(out, s)
			} else {
				keep = append(keep, s)
			}
		}
		if len(keep) == 0 {
			delete(t.active, k)
		} else {
			t.active[k] = keep
		}
	}
	return out
}

// releaseAll removes every entry and returns the distinct output pairs.
func (t *NoteTracker) releaseAll() []Sounding {
	seen := make(map[Sounding]bool)
	var out []Sounding
	for _, list := range t.active {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	t.active = make(map[inputKey][]Sounding)
	return out
}

// activeOn returns the distinct notes currently sounding on a destination.
func (t *NoteTracker) activeOn(channel int) []uint8 {
	seen := make(map[uint8]bool)
	var notes []uint8
	for _, list := range t.active {
		for _, s := range list {
			if s.Channel == channel && !seen[s.Note] {
				seen[s.Note] = true
				notes = append(notes, s.Note)
			}
		}
	}
	return notes
}
