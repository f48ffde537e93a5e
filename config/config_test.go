package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"midirig/midi"
	"midirig/router"
)

func u8(v uint8) *uint8    { return &v }
func str(s string) *string { return &s }
func num(v int) *int       { return &v }

func TestApplySnapshotRoundTrip(t *testing.T) {
	cfg := &Config{
		ScaleRoot: 9,
		ScaleType: "minor",
		Spillover: true,
		Routes: []RouteConfig{
			{
				ID:          0,
				Name:        "keys",
				Source:      str("kb"),
				Channel:     u8(2),
				ScaleFilter: true,
				FilterMode:  "snap",
				Zones: []ZoneConfig{
					{Low: 0, High: 59, Transpose: -12, Curve: "soft", Enabled: true},
					{Low: 60, High: 127, Curve: "fixed", FixedVelocity: 100, Enabled: true},
				},
			},
			{ID: 1, Name: "pad", ChordPad: true},
			{ID: 2, Name: "bass", SingleNote: true},
		},
		CCMappings: []CCMappingConfig{
			{CC: 7, Source: str("nano"), Target: "volume", TargetChannel: 0},
			{CC: 10, Target: "master"},
		},
		Triggers: []TriggerConfig{
			{Type: "pc", Data1: 5, Channel: u8(3), Preset: 2},
			{Type: "note", Data1: 36, Min: u8(100), Max: u8(127), Preset: 1},
		},
		Chord: ChordConfig{
			Buttons:    map[uint8]int{60: 1, 62: 4},
			BaseOctave: num(2),
			Secondary:  &SecondaryConfig{StartNote: 48, TargetChannel: 2, BaseOctave: 1},
		},
	}

	r := router.New()
	cfg.Apply(r)

	got := Snapshot(r)
	require.Equal(t, 9, got.ScaleRoot)
	require.Equal(t, "minor", got.ScaleType)
	require.True(t, got.Spillover)

	require.Len(t, got.Routes, 3)
	keys := got.Routes[0]
	require.Equal(t, "keys", keys.Name)
	require.Equal(t, "kb", *keys.Source)
	require.Equal(t, uint8(2), *keys.Channel)
	require.True(t, keys.ScaleFilter)
	require.Equal(t, "snap", keys.FilterMode)
	require.Equal(t, cfg.Routes[0].Zones, keys.Zones)
	require.True(t, got.Routes[1].ChordPad)
	require.True(t, got.Routes[2].SingleNote)

	require.ElementsMatch(t, cfg.CCMappings, got.CCMappings)
	require.ElementsMatch(t, cfg.Triggers, got.Triggers)

	require.Equal(t, cfg.Chord.Buttons, got.Chord.Buttons)
	require.Equal(t, 2, *got.Chord.BaseOctave)
	require.Equal(t, cfg.Chord.Secondary, got.Chord.Secondary)
}

func TestRoundTripKeepsMappingTargetsBound(t *testing.T) {
	r := router.New()
	r.AddRoute(router.ChannelRoute{Name: "keys"})
	mid := r.AddRoute(router.ChannelRoute{Name: "scratch"})
	bass := r.AddRoute(router.ChannelRoute{Name: "bass", SingleNote: true})
	r.RemoveRoute(mid)

	r.InsertCCMapping(router.CCMapping{
		CC:     7,
		Target: router.CCTarget{Kind: router.TargetChannelVolume, Channel: bass},
	})
	r.SetSecondaryZone(&router.SecondaryZone{StartNote: 48, TargetChannel: bass, BaseOctave: 1})

	restored := router.New()
	Snapshot(r).Apply(restored)

	var params []router.ParameterChanged
	restored.SetOnParameterChanged(func(p router.ParameterChanged) { params = append(params, p) })

	restored.Handle(midi.Message{Kind: midi.KindControlChange, Data1: 7, Data2: 100, Source: "nano"})
	require.Len(t, params, 1)
	require.Equal(t, bass, params[0].Target.Channel)

	chord := restored.Chord()
	require.NotNil(t, chord.Secondary)
	require.Equal(t, bass, chord.Secondary.TargetChannel)

	// New routes added after the reload keep their ids clear of restored ones
	next := restored.AddRoute(router.ChannelRoute{Name: "new"})
	require.Greater(t, next, bass)
}

func TestRoundTripKeepsZeroBaseOctave(t *testing.T) {
	r := router.New()
	r.SetChordBaseOctave(0)

	restored := router.New()
	Snapshot(r).Apply(restored)

	require.Equal(t, 0, restored.Chord().BaseOctave)
}

func TestApplyDefaultsRouteFields(t *testing.T) {
	r := router.New()
	DefaultConfig().Apply(r)

	routes := r.Routes()
	require.Len(t, routes, 1)
	require.Equal(t, "Keys", routes[0].Name)
	require.Nil(t, routes[0].SourceFilter)
	require.Nil(t, routes[0].ChannelFilter)
	require.False(t, routes[0].ScaleFilter)

	require.Equal(t, router.Scale{Root: 0, Type: router.ScaleMajor}, r.Scale())
}

func TestApplyButtonsSurviveSecondaryWindow(t *testing.T) {
	// A saved button inside the saved window must win, so buttons are
	// applied after the window is installed.
	cfg := &Config{
		ScaleType: "major",
		Chord: ChordConfig{
			Buttons:   map[uint8]int{50: 3},
			Secondary: &SecondaryConfig{StartNote: 48, TargetChannel: 0, BaseOctave: 2},
		},
	}

	r := router.New()
	cfg.Apply(r)

	chord := r.Chord()
	require.Equal(t, 3, chord.Buttons[50])
	require.NotNil(t, chord.Secondary)
}

func TestParseScaleType(t *testing.T) {
	require.Equal(t, router.ScaleMajor, ParseScaleType("major"))
	require.Equal(t, router.ScaleDorian, ParseScaleType("dorian"))
	require.Equal(t, router.ScaleChromatic, ParseScaleType("chromatic"))
	require.Equal(t, router.ScaleMajor, ParseScaleType("klingon"))
	require.Equal(t, router.ScaleMajor, ParseScaleType(""))
}

func TestParseCurve(t *testing.T) {
	require.Equal(t, router.CurveSoft, ParseCurve("soft"))
	require.Equal(t, router.CurveHard, ParseCurve("hard"))
	require.Equal(t, router.CurveFixed, ParseCurve("fixed"))
	require.Equal(t, router.CurveLinear, ParseCurve("linear"))
	require.Equal(t, router.CurveLinear, ParseCurve("bogus"))
}
