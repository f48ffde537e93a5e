package router

import (
	"sync"

	"midirig/debug"
	"midirig/midi"
)

// FilterMode is the scale-filter policy for a channel
type FilterMode int

const (
	FilterBlock FilterMode = iota // drop out-of-scale notes
	FilterSnap                    // rewrite to the nearest scale tone
)

func (m FilterMode) String() string {
	if m == FilterSnap {
		return "snap"
	}
	return "block"
}

// SourceNone is the explicit "no input" source filter sentinel. A route
// carrying it matches nothing; nil matches any source.
const SourceNone = "none"

// ChannelRoute is the routing configuration for one performance channel.
// Created when the channel is added, removed with it, edited live.
type ChannelRoute struct {
	ID              int
	Name            string
	SourceFilter    *string // nil = any source, SourceNone = no input
	ChannelFilter   *uint8  // nil = any input channel
	ScaleFilter     bool
	FilterMode      FilterMode
	ChordPad        bool // pad buttons fire chords on this channel
	SingleNote      bool // receives chord roots from the pad's secondary window
	OctaveTranspose int  // -3..3
	Zones           []Zone
}

func (rt ChannelRoute) accepts(m midi.Message) bool {
	if rt.SourceFilter != nil {
		if *rt.SourceFilter == SourceNone || *rt.SourceFilter != m.Source {
			return false
		}
	}
	if rt.ChannelFilter != nil && *rt.ChannelFilter != m.Channel {
		return false
	}
	return true
}

// Router classifies incoming MIDI, applies learn capture, trigger and
// fader matching, and routes notes through chord/zone/scale transforms to
// channel destinations.
//
// One mutex serialises MIDI dispatch (driver callback goroutines) and
// configuration edits (control/UI goroutine). Dispatch never blocks or
// does I/O, so the lock is held only for table lookups and small math.
// Listeners run with the lock held and must not call back into the Router.
type Router struct {
	mu sync.Mutex

	routes  []*ChannelRoute
	nextID  int
	scale   Scale
	chord   ChordMapping
	ccMaps  table[CCMapping]
	trigs   table[TriggerMapping]
	tracker *NoteTracker
	learn   *LearnTarget

	spillover bool
	malformed uint64

	onChannel func(ChannelEvent)
	onPreset  func(PresetSelected)
	onParam   func(ParameterChanged)
	onLearn   func(LearnCaptured)
}

// New creates a router with no routes, C major scale, and an empty chord
// mapping. The host constructs exactly one and passes it to collaborators.
func New() *Router {
	return &Router{
		scale:   Scale{Root: 0, Type: ScaleMajor},
		chord:   ChordMapping{Buttons: make(map[uint8]int), BaseOctave: 3},
		tracker: NewNoteTracker(),
	}
}

// Listener registration - one replaceable listener per event category.

func (r *Router) SetOnChannelEvent(fn func(ChannelEvent)) {
	r.mu.Lock()
	r.onChannel = fn
	r.mu.Unlock()
}

func (r *Router) SetOnPresetSelected(fn func(PresetSelected)) {
	r.mu.Lock()
	r.onPreset = fn
	r.mu.Unlock()
}

func (r *Router) SetOnParameterChanged(fn func(ParameterChanged)) {
	r.mu.Lock()
	r.onParam = fn
	r.mu.Unlock()
}

func (r *Router) SetOnLearnCaptured(fn func(LearnCaptured)) {
	r.mu.Lock()
	r.onLearn = fn
	r.mu.Unlock()
}

// HandleRaw ingests one raw packet from the transport. Malformed packets
// are dropped silently and counted for diagnostics.
func (r *Router) HandleRaw(raw []byte, source string) {
	msg, ok := midi.Classify(raw, source)
	if !ok {
		r.mu.Lock()
		r.malformed++
		r.mu.Unlock()
		return
	}
	r.Handle(msg)
}

// Handle dispatches one classified message in arrival order.
func (r *Router) Handle(m midi.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	suppressNotes := false

	if r.learn != nil {
		if r.learn.qualifies(m) {
			target := *r.learn
			r.learn = nil
			debug.Log("learn", "captured %s for %s-learn", m, target.Kind)
			if r.onLearn != nil {
				r.onLearn(LearnCaptured{Kind: target.Kind, Message: m})
			}
			// CC-learn only observes values; note and trigger captures
			// consume the message.
			if target.Kind != LearnCC {
				return
			}
		} else if r.learn.Kind == LearnNote {
			// Global note-learn suppresses ordinary channel routing, but
			// note-offs must still release whatever is sounding.
			suppressNotes = true
		}
	}

	if trig, ok := r.trigs.find(func(t TriggerMapping) bool { return t.matches(m) }); ok {
		debug.Log("trigger", "%s -> preset %d", m, trig.Preset)
		if r.onPreset != nil {
			r.onPreset(PresetSelected{Index: trig.Preset})
		}
		// A matched trigger consumes the message; only note triggers could
		// ever have collided with channel routing anyway.
		return
	}

	if m.Kind == midi.KindControlChange {
		if cm, ok := r.ccMaps.find(func(c CCMapping) bool { return c.matches(m) }); ok {
			r.emitParam(cm.Target, float64(m.Data2)/127)
		}
		return
	}

	switch m.Kind {
	case midi.KindNoteOn:
		if !suppressNotes {
			r.routeNoteOn(m)
		}
	case midi.KindNoteOff:
		r.routeNoteOff(m)
	}
}

func (r *Router) routeNoteOn(m midi.Message) {
	key := inputKey{source: m.Source, channel: m.Channel, note: m.Data1}

	for _, rt := range r.routes {
		if !rt.accepts(m) {
			continue
		}

		if rt.ChordPad {
			r.routeChordPad(rt, key, m)
			continue
		}
		if rt.SingleNote {
			// Fed only by the chord pad's secondary window
			continue
		}

		note := int(m.Data1) + rt.OctaveTranspose*12
		if note < 0 || note > 127 {
			continue
		}
		out, vel, ok := applyZones(rt.Zones, uint8(note), m.Data2)
		if !ok {
			continue
		}
		n := int(out)
		if rt.ScaleFilter {
			if rt.FilterMode == FilterBlock {
				if !InScale(n, r.scale) {
					continue
				}
			} else {
				n = Snap(n, r.scale)
			}
		}

		r.emitNote(rt.ID, uint8(n), vel, midi.KindNoteOn)
		r.tracker.record(key, Sounding{Note: uint8(n), Channel: rt.ID})
	}
}

func (r *Router) routeChordPad(rt *ChannelRoute, key inputKey, m midi.Message) {
	if degree, ok := r.chord.Buttons[m.Data1]; ok {
		for _, n := range GenerateChord(degree, r.scale, r.chord.BaseOctave) {
			r.emitNote(rt.ID, n, m.Data2, midi.KindNoteOn)
			r.tracker.record(key, Sounding{Note: n, Channel: rt.ID})
		}
		return
	}

	if !r.chord.InSecondaryWindow(m.Data1) {
		return
	}
	sec := r.chord.Secondary
	degree := int(m.Data1-sec.StartNote) + 1
	root, ok := ChordRoot(degree, r.scale, sec.BaseOctave)
	if !ok {
		return
	}
	target := r.routeByID(sec.TargetChannel)
	if target == nil || !target.SingleNote {
		// Stale window target - ignored at dispatch, not an error
		return
	}
	r.emitNote(target.ID, root, m.Data2, midi.KindNoteOn)
	r.tracker.record(key, Sounding{Note: root, Channel: target.ID})
}

func (r *Router) routeNoteOff(m midi.Message) {
	key := inputKey{source: m.Source, channel: m.Channel, note: m.Data1}

	if released := r.tracker.release(key); len(released) > 0 {
		for _, s := range released {
			r.emitNote(s.Channel, s.Note, m.Data2, midi.KindNoteOff)
		}
		return
	}

	// Nothing tracked for this key (note-on predated us or was filtered).
	// Still emit through the transform chain so a sounding note is always
	// releasable: Snap applies (the note-on was snapped the same way) but
	// Block never drops a release.
	for _, rt := range r.routes {
		if !rt.accepts(m) || rt.ChordPad || rt.SingleNote {
			continue
		}
		note := int(m.Data1) + rt.OctaveTranspose*12
		if note < 0 || note > 127 {
			continue
		}
		out, vel, ok := applyZones(rt.Zones, uint8(note), m.Data2)
		if !ok {
			continue
		}
		n := int(out)
		if rt.ScaleFilter && rt.FilterMode == FilterSnap {
			n = Snap(n, r.scale)
		}
		r.emitNote(rt.ID, uint8(n), vel, midi.KindNoteOff)
	}
}

func (r *Router) emitNote(channel int, note, velocity uint8, kind midi.Kind) {
	if r.onChannel != nil {
		r.onChannel(ChannelEvent{Channel: channel, Note: note, Velocity: velocity, Kind: kind})
	}
}

func (r *Router) emitParam(target CCTarget, value float64) {
	switch target.Kind {
	case TargetChannelVolume, TargetChannelPan, TargetChannelMute:
		if r.routeByID(target.Channel) == nil {
			// Mapping outlived its channel - dropped, not fatal
			return
		}
	}
	if r.onParam != nil {
		r.onParam(ParameterChanged{Target: target, Value: value})
	}
}

func (r *Router) routeByID(id int) *ChannelRoute {
	for _, rt := range r.routes {
		if rt.ID == id {
			return rt
		}
	}
	return nil
}

// --- configuration (control-thread API; serialised with dispatch) ---

// AddRoute registers a channel and returns its assigned id.
func (r *Router) AddRoute(rt ChannelRoute) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt.ID = r.nextID
	r.nextID++
	r.routes = append(r.routes, &rt)
	return rt.ID
}

// RestoreRoute installs a route under its saved id so mapping targets that
// reference it stay bound. Later AddRoute ids are kept ahead of it.
func (r *Router) RestoreRoute(rt ChannelRoute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, &rt)
	if rt.ID >= r.nextID {
		r.nextID = rt.ID + 1
	}
}

// UpdateRoute replaces a route's configuration in place.
func (r *Router) UpdateRoute(rt ChannelRoute) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.routes {
		if r.routes[i].ID == rt.ID {
			r.routes[i] = &rt
			return true
		}
	}
	return false
}

// RemoveRoute releases the channel's sounding notes and drops the route.
func (r *Router) RemoveRoute(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.routes {
		if r.routes[i].ID == id {
			for _, s := range r.tracker.releaseChannel(id) {
				r.emitNote(s.Channel, s.Note, 0, midi.KindNoteOff)
			}
			r.routes = append(r.routes[:i], r.routes[i+1:]...)
			return true
		}
	}
	return false
}

// Routes returns a snapshot of the route configurations.
func (r *Router) Routes() []ChannelRoute {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ChannelRoute, len(r.routes))
	for i, rt := range r.routes {
		out[i] = *rt
	}
	return out
}

// SetScale replaces the active scale wholesale.
func (r *Router) SetScale(s Scale) {
	r.mu.Lock()
	r.scale = s
	r.mu.Unlock()
}

func (r *Router) Scale() Scale {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scale
}

// InsertCCMapping adds a fader mapping, replacing any prior entry with the
// same (cc, channel filter, source filter) key.
func (r *Router) InsertCCMapping(m CCMapping) {
	r.mu.Lock()
	r.ccMaps.insert(m)
	r.mu.Unlock()
}

func (r *Router) RemoveCCMapping(cc uint8, f Filter) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ccMaps.remove(CCMapping{CC: cc, Filter: f}.tableKey())
}

func (r *Router) CCMappings() []CCMapping {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ccMaps.snapshot()
}

// InsertTriggerMapping adds a preset trigger, replacing any prior entry
// with the same (type, data1, channel filter, source filter) key.
func (r *Router) InsertTriggerMapping(m TriggerMapping) {
	r.mu.Lock()
	r.trigs.insert(m)
	r.mu.Unlock()
}

func (r *Router) RemoveTriggerMapping(t TriggerType, data1 uint8, f Filter) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trigs.remove(TriggerMapping{Type: t, Data1: data1, Filter: f}.tableKey())
}

func (r *Router) TriggerMappings() []TriggerMapping {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trigs.snapshot()
}

// SetChordButton assigns a pad note to a scale degree. The button map is
// checked before the secondary window at dispatch, so an assignment over
// the window wins (last write wins).
func (r *Router) SetChordButton(note uint8, degree int) {
	r.mu.Lock()
	r.chord.Buttons[note] = degree
	r.mu.Unlock()
}

func (r *Router) ClearChordButton(note uint8) {
	r.mu.Lock()
	delete(r.chord.Buttons, note)
	r.mu.Unlock()
}

func (r *Router) SetChordBaseOctave(octave int) {
	r.mu.Lock()
	r.chord.BaseOctave = octave
	r.mu.Unlock()
}

// SetSecondaryZone installs (or clears, with nil) the 7-note single-note
// window, evicting any button assignments inside it.
func (r *Router) SetSecondaryZone(z *SecondaryZone) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chord.Secondary = z
	if z == nil {
		return
	}
	for note := range r.chord.Buttons {
		if note >= z.StartNote && note < z.StartNote+7 {
			delete(r.chord.Buttons, note)
		}
	}
}

// Chord returns a snapshot of the chord mapping.
func (r *Router) Chord() ChordMapping {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := ChordMapping{Buttons: make(map[uint8]int, len(r.chord.Buttons)), BaseOctave: r.chord.BaseOctave}
	for k, v := range r.chord.Buttons {
		out.Buttons[k] = v
	}
	if r.chord.Secondary != nil {
		sec := *r.chord.Secondary
		out.Secondary = &sec
	}
	return out
}

// BeginLearn arms a capture, silently replacing any armed one (the
// replaced capture's callback never fires).
func (r *Router) BeginLearn(t LearnTarget) {
	r.mu.Lock()
	r.learn = &t
	r.mu.Unlock()
	debug.Log("learn", "armed %s-learn", t.Kind)
}

// CancelLearn disarms without firing. This is the only exit besides a
// qualifying message; there is deliberately no timeout.
func (r *Router) CancelLearn() {
	r.mu.Lock()
	r.learn = nil
	r.mu.Unlock()
}

// Learning reports the armed capture, if any.
func (r *Router) Learning() (LearnTarget, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.learn == nil {
		return LearnTarget{}, false
	}
	return *r.learn, true
}

// ReleaseAllActiveNotes emits a note-off for every recorded output pair
// and clears the tracker. The preset-switch orchestrator calls this before
// applying new channel configuration so no note is left sounding under a
// configuration that no longer owns it.
func (r *Router) ReleaseAllActiveNotes() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.tracker.releaseAll() {
		r.emitNote(s.Channel, s.Note, 0, midi.KindNoteOff)
	}
}

// ActiveNotes returns the distinct notes this router currently has
// sounding on the destination. Tracking is the router's own bookkeeping,
// never a query of the downstream synth.
func (r *Router) ActiveNotes(channel int) []uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tracker.activeOn(channel)
}

// SetSpillover toggles the preset-transition policy: with spillover on,
// parameter changes apply without first silencing sounding notes.
func (r *Router) SetSpillover(enabled bool) {
	r.mu.Lock()
	r.spillover = enabled
	r.mu.Unlock()
}

func (r *Router) Spillover() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.spillover
}

// ApplyChannelState pushes volume/pan/mute for one channel. Without
// spillover the channel's sounding notes are released first; with it they
// ring on under the old parameters while new notes obey the new ones (any
// crossfading is the audio collaborator's job).
func (r *Router) ApplyChannelState(channel int, volume, pan float64, mute bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.routeByID(channel) == nil {
		return
	}
	if !r.spillover {
		for _, s := range r.tracker.releaseChannel(channel) {
			r.emitNote(s.Channel, s.Note, 0, midi.KindNoteOff)
		}
	}
	muteVal := 0.0
	if mute {
		muteVal = 1.0
	}
	r.emitParam(CCTarget{Kind: TargetChannelVolume, Channel: channel}, volume)
	r.emitParam(CCTarget{Kind: TargetChannelPan, Channel: channel}, pan)
	r.emitParam(CCTarget{Kind: TargetChannelMute, Channel: channel}, muteVal)
}

// MalformedCount returns how many unparseable packets were dropped.
func (r *Router) MalformedCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.malformed
}
