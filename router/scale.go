package router

// ScaleType selects one of the fixed interval sets
type ScaleType int

const (
	ScaleMajor ScaleType = iota
	ScaleDorian
	ScalePhrygian
	ScaleLydian
	ScaleMixolydian
	ScaleMinor
	ScaleLocrian
	ScaleMajorPentatonic
	ScaleMinorPentatonic
	ScaleBlues
	ScaleChromatic
)

func (t ScaleType) String() string {
	names := [...]string{
		"major", "dorian", "phrygian", "lydian", "mixolydian", "minor",
		"locrian", "major-pentatonic", "minor-pentatonic", "blues", "chromatic",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// ChordQuality is the triad built on a scale degree
type ChordQuality int

const (
	QualityMajor ChordQuality = iota
	QualityMinor
	QualityDiminished
)

// scaleDef holds the interval set (ascending, starting at 0) and the triad
// quality for each degree. Snap relies on the ascending order for its
// tie-break, so the tables must stay sorted.
type scaleDef struct {
	intervals []int
	qualities []ChordQuality
}

var scaleDefs = map[ScaleType]scaleDef{
	ScaleMajor: {
		intervals: []int{0, 2, 4, 5, 7, 9, 11},
		qualities: []ChordQuality{QualityMajor, QualityMinor, QualityMinor, QualityMajor, QualityMajor, QualityMinor, QualityDiminished},
	},
	ScaleDorian: {
		intervals: []int{0, 2, 3, 5, 7, 9, 10},
		qualities: []ChordQuality{QualityMinor, QualityMinor, QualityMajor, QualityMajor, QualityMinor, QualityDiminished, QualityMajor},
	},
	ScalePhrygian: {
		intervals: []int{0, 1, 3, 5, 7, 8, 10},
		qualities: []ChordQuality{QualityMinor, QualityMajor, QualityMajor, QualityMinor, QualityDiminished, QualityMajor, QualityMinor},
	},
	ScaleLydian: {
		intervals: []int{0, 2, 4, 6, 7, 9, 11},
		qualities: []ChordQuality{QualityMajor, QualityMajor, QualityMinor, QualityDiminished, QualityMajor, QualityMinor, QualityMinor},
	},
	ScaleMixolydian: {
		intervals: []int{0, 2, 4, 5, 7, 9, 10},
		qualities: []ChordQuality{QualityMajor, QualityMinor, QualityDiminished, QualityMajor, QualityMinor, QualityMinor, QualityMajor},
	},
	ScaleMinor: {
		intervals: []int{0, 2, 3, 5, 7, 8, 10},
		qualities: []ChordQuality{QualityMinor, QualityDiminished, QualityMajor, QualityMinor, QualityMinor, QualityMajor, QualityMajor},
	},
	ScaleLocrian: {
		intervals: []int{0, 1, 3, 5, 6, 8, 10},
		qualities: []ChordQuality{QualityDiminished, QualityMajor, QualityMinor, QualityMinor, QualityMajor, QualityMajor, QualityMinor},
	},
	ScaleMajorPentatonic: {
		intervals: []int{0, 2, 4, 7, 9},
		qualities: []ChordQuality{QualityMajor, QualityMinor, QualityMinor, QualityMajor, QualityMinor},
	},
	ScaleMinorPentatonic: {
		intervals: []int{0, 3, 5, 7, 10},
		qualities: []ChordQuality{QualityMinor, QualityMajor, QualityMinor, QualityMinor, QualityMajor},
	},
	ScaleBlues: {
		intervals: []int{0, 3, 5, 6, 7, 10},
		qualities: []ChordQuality{QualityMinor, QualityMajor, QualityMinor, QualityDiminished, QualityMinor, QualityMajor},
	},
	ScaleChromatic: {
		intervals: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		qualities: []ChordQuality{QualityMajor, QualityMajor, QualityMajor, QualityMajor, QualityMajor, QualityMajor, QualityMajor, QualityMajor, QualityMajor, QualityMajor, QualityMajor, QualityMajor},
	},
}

// Scale is a root note paired with a scale type. Replaced wholesale on
// preset switch, never mutated in place.
type Scale struct {
	Root int // 0-11, 0 = C
	Type ScaleType
}

// InScale reports whether the note's pitch class belongs to the scale.
func InScale(note int, s Scale) bool {
	relative := (note%12 - s.Root + 12) % 12
	for _, iv := range scaleDefs[s.Type].intervals {
		if iv == relative {
			return true
		}
	}
	return false
}

// Snap rewrites the note to the nearest scale tone, measuring circular
// pitch-class distance. Ties go to the first interval in ascending order,
// so equal-distance snaps are reproducible. Output is clamped to 0-127.
func Snap(note int, s Scale) int {
	relative := (note%12 - s.Root + 12) % 12

	best := 0
	bestDist := 12
	for _, iv := range scaleDefs[s.Type].intervals {
		d := relative - iv
		if d < 0 {
			d = -d
		}
		if 12-d < d {
			d = 12 - d
		}
		if d < bestDist {
			bestDist = d
			best = iv
		}
	}

	snapped := note - relative + best
	if snapped < 0 {
		snapped = 0
	}
	if snapped > 127 {
		snapped = 127
	}
	return snapped
}

// DegreeCount returns how many degrees the scale has (7 for modes, fewer
// for pentatonics).
func DegreeCount(t ScaleType) int {
	return len(scaleDefs[t].intervals)
}
