package router

import "testing"

func TestInScaleMatchesReferenceTables(t *testing.T) {
	// Reference pitch-class membership for major and natural minor
	ref := map[ScaleType][12]bool{
		ScaleMajor: {true, false, true, false, true, true, false, true, false, true, false, true},
		ScaleMinor: {true, false, true, true, false, true, false, true, true, false, true, false},
	}

	for scaleType, members := range ref {
		for root := 0; root < 12; root++ {
			s := Scale{Root: root, Type: scaleType}
			for note := 0; note < 128; note++ {
				relative := (note%12 - root + 12) % 12
				want := members[relative]
				if got := InScale(note, s); got != want {
					t.Fatalf("InScale(%d, root=%d, %s) = %v, want %v", note, root, scaleType, got, want)
				}
			}
		}
	}
}

func TestSnapIsIdempotent(t *testing.T) {
	for _, scaleType := range []ScaleType{ScaleMajor, ScaleMinor, ScaleMinorPentatonic, ScaleBlues} {
		for root := 0; root < 12; root++ {
			s := Scale{Root: root, Type: scaleType}
			for note := 0; note < 128; note++ {
				once := Snap(note, s)
				if twice := Snap(once, s); twice != once {
					t.Fatalf("Snap not idempotent: %s root=%d note=%d -> %d -> %d", scaleType, root, note, once, twice)
				}
			}
		}
	}
}

func TestSnapTieBreakPrefersAscendingInterval(t *testing.T) {
	s := Scale{Root: 0, Type: ScaleMajor}

	// C#4 is one semitone from both C (interval 0) and D (interval 2);
	// the tie goes to the first interval in ascending order.
	if got := Snap(61, s); got != 60 {
		t.Errorf("Snap(61) = %d, want 60", got)
	}

	// In-scale notes snap to themselves
	for _, note := range []int{60, 62, 64, 65, 67, 69, 71} {
		if got := Snap(note, s); got != note {
			t.Errorf("Snap(%d) = %d, want unchanged", note, got)
		}
	}
}

func TestSnapStaysInRange(t *testing.T) {
	for root := 0; root < 12; root++ {
		s := Scale{Root: root, Type: ScaleLocrian}
		for note := 0; note < 128; note++ {
			got := Snap(note, s)
			if got < 0 || got > 127 {
				t.Fatalf("Snap(%d, root=%d) = %d out of range", note, root, got)
			}
		}
	}
}

func TestDegreeCount(t *testing.T) {
	if got := DegreeCount(ScaleMajor); got != 7 {
		t.Errorf("major degrees = %d, want 7", got)
	}
	if got := DegreeCount(ScaleMajorPentatonic); got != 5 {
		t.Errorf("pentatonic degrees = %d, want 5", got)
	}
	if got := DegreeCount(ScaleChromatic); got != 12 {
		t.Errorf("chromatic degrees = %d, want 12", got)
	}
}
