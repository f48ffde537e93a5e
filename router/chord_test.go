package router

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateChord(t *testing.T) {
	cMajor := Scale{Root: 0, Type: ScaleMajor}

	// Degree 1 at base octave 4 is a C major triad at middle C
	require.Equal(t, []uint8{60, 64, 67}, GenerateChord(1, cMajor, 4))

	// Degree 2 is D minor
	require.Equal(t, []uint8{62, 65, 69}, GenerateChord(2, cMajor, 4))

	// Degree 7 is B diminished
	require.Equal(t, []uint8{71, 74, 77}, GenerateChord(7, cMajor, 4))

	// A minor: degree 1 is an A minor triad
	aMinor := Scale{Root: 9, Type: ScaleMinor}
	require.Equal(t, []uint8{69, 72, 76}, GenerateChord(1, aMinor, 4))
}

func TestGenerateChordRejectsBadDegrees(t *testing.T) {
	s := Scale{Root: 0, Type: ScaleMajor}
	require.Nil(t, GenerateChord(0, s, 4))
	require.Nil(t, GenerateChord(8, s, 4))
	require.Nil(t, GenerateChord(-1, s, 4))

	// Pentatonics only have five degrees
	pent := Scale{Root: 0, Type: ScaleMajorPentatonic}
	require.NotNil(t, GenerateChord(5, pent, 4))
	require.Nil(t, GenerateChord(6, pent, 4))
}

func TestGenerateChordClampsHighNotes(t *testing.T) {
	s := Scale{Root: 11, Type: ScaleMajor}
	notes := GenerateChord(7, s, 9)
	require.NotEmpty(t, notes)
	for _, n := range notes {
		require.LessOrEqual(t, n, uint8(127))
	}
}

func TestRomanNumeral(t *testing.T) {
	require.Equal(t, "I", RomanNumeral(1, ScaleMajor))
	require.Equal(t, "ii", RomanNumeral(2, ScaleMajor))
	require.Equal(t, "IV", RomanNumeral(4, ScaleMajor))
	require.Equal(t, "vii°", RomanNumeral(7, ScaleMajor))

	require.Equal(t, "i", RomanNumeral(1, ScaleMinor))
	require.Equal(t, "ii°", RomanNumeral(2, ScaleMinor))
	require.Equal(t, "III", RomanNumeral(3, ScaleMinor))

	require.Equal(t, "", RomanNumeral(0, ScaleMajor))
	require.Equal(t, "", RomanNumeral(8, ScaleMajor))
}

func TestChordName(t *testing.T) {
	cMajor := Scale{Root: 0, Type: ScaleMajor}
	require.Equal(t, "C", ChordName(1, cMajor))
	require.Equal(t, "Dm", ChordName(2, cMajor))
	require.Equal(t, "B°", ChordName(7, cMajor))

	gMajor := Scale{Root: 7, Type: ScaleMajor}
	require.Equal(t, "G", ChordName(1, gMajor))
	require.Equal(t, "Em", ChordName(6, gMajor))
}

func TestChordRoot(t *testing.T) {
	cMajor := Scale{Root: 0, Type: ScaleMajor}

	root, ok := ChordRoot(1, cMajor, 4)
	require.True(t, ok)
	require.Equal(t, uint8(60), root)

	root, ok = ChordRoot(5, cMajor, 2)
	require.True(t, ok)
	require.Equal(t, uint8(43), root) // G2

	_, ok = ChordRoot(9, cMajor, 4)
	require.False(t, ok)
}

func TestSecondaryWindow(t *testing.T) {
	m := ChordMapping{Secondary: &SecondaryZone{StartNote: 48, TargetChannel: 1, BaseOctave: 2}}
	require.False(t, m.InSecondaryWindow(47))
	require.True(t, m.InSecondaryWindow(48))
	require.True(t, m.InSecondaryWindow(54))
	require.False(t, m.InSecondaryWindow(55))

	require.False(t, ChordMapping{}.InSecondaryWindow(48))
}
