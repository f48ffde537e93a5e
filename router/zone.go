package router

import "math"

// VelocityCurve remaps incoming velocity within a zone
type VelocityCurve int

const (
	CurveLinear VelocityCurve = iota
	CurveSoft                 // sqrt - lifts quiet playing
	CurveHard                 // square - tames quiet playing
	CurveFixed                // constant velocity
)

func (c VelocityCurve) String() string {
	switch c {
	case CurveSoft:
		return "soft"
	case CurveHard:
		return "hard"
	case CurveFixed:
		return "fixed"
	}
	return "linear"
}

// Zone is a note-range subdivision of one channel's input with its own
// transpose and velocity remap. Zones on a channel are checked in
// declaration order; the first whose range contains the note wins.
type Zone struct {
	Low           uint8
	High          uint8 // inclusive, Low <= High
	Transpose     int   // -48..48 semitones
	Curve         VelocityCurve
	FixedVelocity uint8 // used when Curve == CurveFixed
	Enabled       bool
}

// FullRangeZone is the implicit zone for channels with an empty zone list.
func FullRangeZone() Zone {
	return Zone{Low: 0, High: 127, Curve: CurveLinear, Enabled: true}
}

// Transform applies the zone to a note. ok=false when the note misses the
// range, the zone is disabled, or the transpose pushes the note off the
// keyboard - a rejected note produces no event rather than a wrong pitch.
func (z Zone) Transform(note, velocity uint8) (outNote, outVelocity uint8, ok bool) {
	if !z.Enabled || note < z.Low || note > z.High {
		return 0, 0, false
	}

	transposed := int(note) + z.Transpose
	if transposed < 0 || transposed > 127 {
		return 0, 0, false
	}

	v := velocity
	switch z.Curve {
	case CurveSoft:
		v = uint8(math.Round(math.Sqrt(float64(velocity)/127) * 127))
	case CurveHard:
		f := float64(velocity) / 127
		v = uint8(math.Round(f * f * 127))
	case CurveFixed:
		v = z.FixedVelocity
	}
	// Never emit velocity 0 on a note-on: that reads as note-off downstream
	if v < 1 {
		v = 1
	}
	if v > 127 {
		v = 127
	}
	return uint8(transposed), v, true
}

// applyZones runs the note through the channel's zone list, treating an
// empty list as one full-range linear zone. The first enabled zone whose
// range contains the note decides the outcome, even when its transpose
// then rejects the note.
func applyZones(zones []Zone, note, velocity uint8) (uint8, uint8, bool) {
	if len(zones) == 0 {
		return FullRangeZone().Transform(note, velocity)
	}
	for _, z := range zones {
		if !z.Enabled || note < z.Low || note > z.High {
			continue
		}
		return z.Transform(note, velocity)
	}
	return 0, 0, false
}
