package router

import "testing"

func TestZoneRangeAndTranspose(t *testing.T) {
	z := Zone{Low: 60, High: 72, Transpose: 12, Curve: CurveLinear, Enabled: true}

	note, vel, ok := z.Transform(60, 100)
	if !ok || note != 72 || vel != 100 {
		t.Errorf("Transform(60) = (%d, %d, %v), want (72, 100, true)", note, vel, ok)
	}

	if _, _, ok := z.Transform(59, 100); ok {
		t.Error("note below range should be rejected")
	}
	if _, _, ok := z.Transform(73, 100); ok {
		t.Error("note above range should be rejected")
	}
}

func TestZoneRejectsTransposeOffKeyboard(t *testing.T) {
	down := Zone{Low: 0, High: 127, Transpose: -48, Curve: CurveLinear, Enabled: true}
	if _, _, ok := down.Transform(30, 100); ok {
		t.Error("transpose below 0 should reject, not clamp")
	}

	up := Zone{Low: 0, High: 127, Transpose: 48, Curve: CurveLinear, Enabled: true}
	if _, _, ok := up.Transform(100, 100); ok {
		t.Error("transpose above 127 should reject, not clamp")
	}
}

func TestZoneDisabled(t *testing.T) {
	z := Zone{Low: 0, High: 127, Enabled: false}
	if _, _, ok := z.Transform(60, 100); ok {
		t.Error("disabled zone should reject")
	}
}

func TestVelocityCurves(t *testing.T) {
	tests := []struct {
		name  string
		curve VelocityCurve
		fixed uint8
		in    uint8
		want  uint8
	}{
		{"linear passes through", CurveLinear, 0, 100, 100},
		{"soft lifts quiet notes", CurveSoft, 0, 64, 90},
		{"soft full scale", CurveSoft, 0, 127, 127},
		{"hard tames quiet notes", CurveHard, 0, 64, 32},
		{"hard full scale", CurveHard, 0, 127, 127},
		{"fixed ignores input", CurveFixed, 80, 10, 80},
		{"minimum velocity is 1 not 0", CurveHard, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := Zone{Low: 0, High: 127, Curve: tt.curve, FixedVelocity: tt.fixed, Enabled: true}
			_, vel, ok := z.Transform(60, tt.in)
			if !ok {
				t.Fatal("transform rejected in-range note")
			}
			if vel != tt.want {
				t.Errorf("velocity = %d, want %d", vel, tt.want)
			}
		})
	}
}

func TestApplyZonesEmptyListIsFullRange(t *testing.T) {
	note, vel, ok := applyZones(nil, 0, 100)
	if !ok || note != 0 || vel != 100 {
		t.Errorf("empty zone list should behave as full range: (%d, %d, %v)", note, vel, ok)
	}
	if _, _, ok := applyZones(nil, 127, 1); !ok {
		t.Error("full range should accept 127")
	}
}

func TestApplyZonesFirstMatchWins(t *testing.T) {
	zones := []Zone{
		{Low: 0, High: 60, Transpose: -12, Curve: CurveLinear, Enabled: true},
		{Low: 48, High: 127, Transpose: 12, Curve: CurveLinear, Enabled: true},
	}

	// 50 is in both ranges; the first zone decides
	note, _, ok := applyZones(zones, 50, 100)
	if !ok || note != 38 {
		t.Errorf("overlap should use first zone: (%d, %v), want (38, true)", note, ok)
	}

	// Disabled zones don't capture; the note falls to the next zone
	zones[0].Enabled = false
	note, _, ok = applyZones(zones, 50, 100)
	if !ok || note != 62 {
		t.Errorf("disabled first zone should fall through: (%d, %v), want (62, true)", note, ok)
	}
}
