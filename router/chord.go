package router

var qualityIntervals = map[ChordQuality][]int{
	QualityMajor:      {0, 4, 7},
	QualityMinor:      {0, 3, 7},
	QualityDiminished: {0, 3, 6},
}

var qualitySuffix = map[ChordQuality]string{
	QualityMajor:      "",
	QualityMinor:      "m",
	QualityDiminished: "°",
}

var romanNumerals = [7]string{"I", "II", "III", "IV", "V", "VI", "VII"}

// GenerateChord expands a scale degree (1-7) into triad note numbers at the
// given base octave (baseOctave 4 puts degree 1 of C major at middle C).
// Out-of-range degrees yield nil: a caller error, not a crash.
func GenerateChord(degree int, s Scale, baseOctave int) []uint8 {
	def, quality, ok := degreeLookup(degree, s.Type)
	if !ok {
		return nil
	}

	chordRoot := (s.Root + def) % 12
	base := chordRoot + (baseOctave+1)*12

	notes := make([]uint8, 0, 3)
	for _, iv := range qualityIntervals[quality] {
		n := base + iv
		if n < 0 {
			n = 0
		}
		if n > 127 {
			n = 127
		}
		notes = append(notes, uint8(n))
	}
	return notes
}

// ChordRoot returns the single root note of the degree's chord, used for
// the single-note (bass) target.
func ChordRoot(degree int, s Scale, baseOctave int) (uint8, bool) {
	def, _, ok := degreeLookup(degree, s.Type)
	if !ok {
		return 0, false
	}
	n := (s.Root+def)%12 + (baseOctave+1)*12
	if n < 0 || n > 127 {
		return 0, false
	}
	return uint8(n), true
}

// ChordName renders e.g. "Dm" or "B°" for the degree's triad.
func ChordName(degree int, s Scale) string {
	def, quality, ok := degreeLookup(degree, s.Type)
	if !ok {
		return ""
	}
	return noteClassName((s.Root+def)%12) + qualitySuffix[quality]
}

// RomanNumeral renders the degree in conventional case: uppercase major,
// lowercase minor, lowercase with ° for diminished.
func RomanNumeral(degree int, t ScaleType) string {
	_, quality, ok := degreeLookup(degree, t)
	if !ok || degree > 7 {
		return ""
	}
	numeral := romanNumerals[degree-1]
	switch quality {
	case QualityMinor:
		return lower(numeral)
	case QualityDiminished:
		return lower(numeral) + "°"
	}
	return numeral
}

func degreeLookup(degree int, t ScaleType) (interval int, quality ChordQuality, ok bool) {
	def := scaleDefs[t]
	if degree < 1 || degree > 7 || degree > len(def.intervals) {
		return 0, 0, false
	}
	return def.intervals[degree-1], def.qualities[degree-1], true
}

var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func noteClassName(pc int) string {
	return pitchClassNames[pc]
}

func lower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// SecondaryZone is an optional 7-note window on the chord pad that plays
// single root notes on another channel (bass follows the pad).
type SecondaryZone struct {
	StartNote     uint8
	TargetChannel int
	BaseOctave    int
}

// ChordMapping assigns physical pad notes to scale degrees. A note lives in
// at most one of the primary button map and the secondary window; the
// engine's assignment operations enforce last-write-wins eviction.
type ChordMapping struct {
	Buttons    map[uint8]int // pad note -> degree 1-7
	BaseOctave int
	Secondary  *SecondaryZone
}

// InSecondaryWindow reports whether the note falls in the 7-note window.
func (m ChordMapping) InSecondaryWindow(note uint8) bool {
	if m.Secondary == nil {
		return false
	}
	start := m.Secondary.StartNote
	return note >= start && note < start+7
}
