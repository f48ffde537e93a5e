package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"midirig/router"
)

// ZoneConfig is a saved keyboard zone
type ZoneConfig struct {
	Low           uint8  `json:"low"`
	High          uint8  `json:"high"`
	Transpose     int    `json:"transpose,omitempty"`
	Curve         string `json:"curve,omitempty"` // linear/soft/hard/fixed
	FixedVelocity uint8  `json:"fixedVelocity,omitempty"`
	Enabled       bool   `json:"enabled"`
}

// RouteConfig is a saved channel route. The id is persisted so CC and
// secondary-window targets stay bound to the same route across a reload.
// Optional filters are pointers: absent means wildcard, the "none" source
// sentinel is stored literally.
type RouteConfig struct {
	ID              int          `json:"id"`
	Name            string       `json:"name"`
	Source          *string      `json:"source,omitempty"`
	Channel         *uint8       `json:"channel,omitempty"`
	ScaleFilter     bool         `json:"scaleFilter,omitempty"`
	FilterMode      string       `json:"filterMode,omitempty"` // block/snap
	ChordPad        bool         `json:"chordPad,omitempty"`
	SingleNote      bool         `json:"singleNote,omitempty"`
	OctaveTranspose int          `json:"octaveTranspose,omitempty"`
	Zones           []ZoneConfig `json:"zones,omitempty"`
}

// CCMappingConfig is a saved fader-control mapping
type CCMappingConfig struct {
	CC            uint8   `json:"cc"`
	Channel       *uint8  `json:"channel,omitempty"`
	Source        *string `json:"source,omitempty"`
	Target        string  `json:"target"` // volume/pan/mute/master/plugin
	TargetChannel int     `json:"targetChannel,omitempty"`
	Plugin        int     `json:"plugin,omitempty"`
	Param         int     `json:"param,omitempty"`
}

// TriggerConfig is a saved preset trigger mapping
type TriggerConfig struct {
	Type    string  `json:"type"` // pc/cc/note
	Data1   uint8   `json:"data1"`
	Channel *uint8  `json:"channel,omitempty"`
	Source  *string `json:"source,omitempty"`
	Min     *uint8  `json:"min,omitempty"` // data2 window, absent = default
	Max     *uint8  `json:"max,omitempty"`
	Preset  int     `json:"preset"`
}

// SecondaryConfig is the chord pad's saved single-note window
type SecondaryConfig struct {
	StartNote     uint8 `json:"startNote"`
	TargetChannel int   `json:"targetChannel"`
	BaseOctave    int   `json:"baseOctave"`
}

// ChordConfig is the saved chord pad mapping. BaseOctave is a pointer so
// octave 0 round-trips; absent keeps the engine default.
type ChordConfig struct {
	Buttons    map[uint8]int    `json:"buttons,omitempty"` // pad note -> degree
	BaseOctave *int             `json:"baseOctave,omitempty"`
	Secondary  *SecondaryConfig `json:"secondary,omitempty"`
}

// Config is the persisted session state
type Config struct {
	ScaleRoot  int               `json:"scaleRoot"`
	ScaleType  string            `json:"scaleType"`
	Spillover  bool              `json:"spillover,omitempty"`
	SyncPort   string            `json:"syncPort,omitempty"` // output for tempo/hardware sync
	Tempo      float64           `json:"tempo,omitempty"`
	Routes     []RouteConfig     `json:"routes,omitempty"`
	CCMappings []CCMappingConfig `json:"ccMappings,omitempty"`
	Triggers   []TriggerConfig   `json:"triggers,omitempty"`
	Chord      ChordConfig       `json:"chord,omitempty"`
}

// DefaultConfig returns a config with sensible defaults: one wide-open
// channel in C major.
func DefaultConfig() *Config {
	return &Config{
		ScaleType: router.ScaleMajor.String(),
		Tempo:     120,
		Routes: []RouteConfig{
			{Name: "Keys"},
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "midirig"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if
// not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path, or returns defaults
// if the file does not exist
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to an explicit path, creating parent dirs
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Apply loads the saved state into the engine.
func (c *Config) Apply(r *router.Router) {
	r.SetScale(router.Scale{Root: c.ScaleRoot, Type: ParseScaleType(c.ScaleType)})
	r.SetSpillover(c.Spillover)

	for _, rc := range c.Routes {
		r.RestoreRoute(rc.toRoute())
	}
	for _, mc := range c.CCMappings {
		r.InsertCCMapping(mc.toMapping())
	}
	for _, tc := range c.Triggers {
		r.InsertTriggerMapping(tc.toMapping())
	}

	if c.Chord.BaseOctave != nil {
		r.SetChordBaseOctave(*c.Chord.BaseOctave)
	}
	if c.Chord.Secondary != nil {
		r.SetSecondaryZone(&router.SecondaryZone{
			StartNote:     c.Chord.Secondary.StartNote,
			TargetChannel: c.Chord.Secondary.TargetChannel,
			BaseOctave:    c.Chord.Secondary.BaseOctave,
		})
	}
	// Buttons after the window so saved assignments win eviction
	for note, degree := range c.Chord.Buttons {
		r.SetChordButton(note, degree)
	}
}

// Snapshot captures the engine's current state into a saveable config.
func Snapshot(r *router.Router) *Config {
	scale := r.Scale()
	cfg := &Config{
		ScaleRoot: scale.Root,
		ScaleType: scale.Type.String(),
		Spillover: r.Spillover(),
	}

	for _, rt := range r.Routes() {
		cfg.Routes = append(cfg.Routes, fromRoute(rt))
	}
	for _, m := range r.CCMappings() {
		cfg.CCMappings = append(cfg.CCMappings, fromCCMapping(m))
	}
	for _, t := range r.TriggerMappings() {
		cfg.Triggers = append(cfg.Triggers, fromTrigger(t))
	}

	chord := r.Chord()
	octave := chord.BaseOctave
	cfg.Chord = ChordConfig{Buttons: chord.Buttons, BaseOctave: &octave}
	if chord.Secondary != nil {
		cfg.Chord.Secondary = &SecondaryConfig{
			StartNote:     chord.Secondary.StartNote,
			TargetChannel: chord.Secondary.TargetChannel,
			BaseOctave:    chord.Secondary.BaseOctave,
		}
	}
	return cfg
}

func (rc RouteConfig) toRoute() router.ChannelRoute {
	rt := router.ChannelRoute{
		ID:              rc.ID,
		Name:            rc.Name,
		SourceFilter:    rc.Source,
		ChannelFilter:   rc.Channel,
		ScaleFilter:     rc.ScaleFilter,
		ChordPad:        rc.ChordPad,
		SingleNote:      rc.SingleNote,
		OctaveTranspose: rc.OctaveTranspose,
	}
	if rc.FilterMode == "snap" {
		rt.FilterMode = router.FilterSnap
	}
	for _, zc := range rc.Zones {
		rt.Zones = append(rt.Zones, router.Zone{
			Low:           zc.Low,
			High:          zc.High,
			Transpose:     zc.Transpose,
			Curve:         ParseCurve(zc.Curve),
			FixedVelocity: zc.FixedVelocity,
			Enabled:       zc.Enabled,
		})
	}
	return rt
}

func fromRoute(rt router.ChannelRoute) RouteConfig {
	rc := RouteConfig{
		ID:              rt.ID,
		Name:            rt.Name,
		Source:          rt.SourceFilter,
		Channel:         rt.ChannelFilter,
		ScaleFilter:     rt.ScaleFilter,
		FilterMode:      rt.FilterMode.String(),
		ChordPad:        rt.ChordPad,
		SingleNote:      rt.SingleNote,
		OctaveTranspose: rt.OctaveTranspose,
	}
	for _, z := range rt.Zones {
		rc.Zones = append(rc.Zones, ZoneConfig{
			Low:           z.Low,
			High:          z.High,
			Transpose:     z.Transpose,
			Curve:         z.Curve.String(),
			FixedVelocity: z.FixedVelocity,
			Enabled:       z.Enabled,
		})
	}
	return rc
}

var targetNames = map[router.TargetKind]string{
	router.TargetChannelVolume:   "volume",
	router.TargetChannelPan:      "pan",
	router.TargetChannelMute:     "mute",
	router.TargetMasterVolume:    "master",
	router.TargetPluginParameter: "plugin",
}

func (mc CCMappingConfig) toMapping() router.CCMapping {
	target := router.CCTarget{Channel: mc.TargetChannel, Plugin: mc.Plugin, Param: mc.Param}
	for kind, name := range targetNames {
		if name == mc.Target {
			target.Kind = kind
		}
	}
	return router.CCMapping{
		CC:     mc.CC,
		Filter: router.Filter{Channel: mc.Channel, Source: mc.Source},
		Target: target,
	}
}

func fromCCMapping(m router.CCMapping) CCMappingConfig {
	return CCMappingConfig{
		CC:            m.CC,
		Channel:       m.Filter.Channel,
		Source:        m.Filter.Source,
		Target:        targetNames[m.Target.Kind],
		TargetChannel: m.Target.Channel,
		Plugin:        m.Target.Plugin,
		Param:         m.Target.Param,
	}
}

func (tc TriggerConfig) toMapping() router.TriggerMapping {
	m := router.TriggerMapping{
		Data1:  tc.Data1,
		Filter: router.Filter{Channel: tc.Channel, Source: tc.Source},
		Preset: tc.Preset,
	}
	switch tc.Type {
	case "cc":
		m.Type = router.TriggerControlChange
	case "note":
		m.Type = router.TriggerNoteOn
	default:
		m.Type = router.TriggerProgramChange
	}
	if tc.Min != nil && tc.Max != nil {
		m.Data2Range = &router.ValueRange{Min: *tc.Min, Max: *tc.Max}
	}
	return m
}

func fromTrigger(m router.TriggerMapping) TriggerConfig {
	tc := TriggerConfig{
		Type:    m.Type.String(),
		Data1:   m.Data1,
		Channel: m.Filter.Channel,
		Source:  m.Filter.Source,
		Preset:  m.Preset,
	}
	if m.Data2Range != nil {
		lo, hi := m.Data2Range.Min, m.Data2Range.Max
		tc.Min, tc.Max = &lo, &hi
	}
	return tc
}

// ParseScaleType maps a saved scale name back to its type; unknown names
// fall back to major.
func ParseScaleType(name string) router.ScaleType {
	for t := router.ScaleMajor; t <= router.ScaleChromatic; t++ {
		if t.String() == name {
			return t
		}
	}
	return router.ScaleMajor
}

// ParseCurve maps a saved curve name back; unknown names are linear.
func ParseCurve(name string) router.VelocityCurve {
	switch name {
	case "soft":
		return router.CurveSoft
	case "hard":
		return router.CurveHard
	case "fixed":
		return router.CurveFixed
	}
	return router.CurveLinear
}
