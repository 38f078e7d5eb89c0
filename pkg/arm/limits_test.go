package arm

import "testing"

func TestRange_Clamp(t *testing.T) {
	r := Range{Min: 30, Max: 150}

	tests := []struct {
		in       float64
		expected float64
	}{
		{90, 90},    // inside -> unchanged
		{30, 30},    // at min -> unchanged
		{150, 150},  // at max -> unchanged
		{10, 30},    // below -> min
		{200, 150},  // above -> max
		{-999, 30},  // far below -> min
		{1e9, 150},  // far above -> max
	}

	for _, tt := range tests {
		got := r.Clamp(tt.in)
		if got != tt.expected {
			t.Errorf("Clamp(%f) = %f, want %f", tt.in, got, tt.expected)
		}
	}
}

func TestLimits_Validate(t *testing.T) {
	good := DefaultLimits()
	if err := good.Validate(); err != nil {
		t.Errorf("default limits should validate, got %v", err)
	}

	inverted := DefaultLimits()
	inverted[Elbow] = Range{Min: 120, Max: 60}
	if err := inverted.Validate(); err == nil {
		t.Error("inverted range should fail validation")
	}

	outOfHardware := DefaultLimits()
	outOfHardware[Wrist] = Range{Min: 0, Max: 270}
	if err := outOfHardware.Validate(); err == nil {
		t.Error("range beyond 180 should fail validation")
	}
}

func TestLimits_ClampAll(t *testing.T) {
	l := DefaultLimits()
	l[Hand] = Range{Min: 10, Max: 170}

	got := l.ClampAll(Angles{-20, 90, 500, 0})

	want := Angles{0, 90, 180, 10}
	if got != want {
		t.Errorf("ClampAll = %v, want %v", got, want)
	}
}

func TestJoint_WireIndex(t *testing.T) {
	// The enum values are the servo indices the firmware expects.
	expected := map[Joint]int{Shoulder: 0, Elbow: 1, Wrist: 2, Hand: 3}
	for j, idx := range expected {
		if int(j) != idx {
			t.Errorf("%s wire index = %d, want %d", j, int(j), idx)
		}
	}

	if len(AllJoints()) != NumJoints {
		t.Fatalf("AllJoints returned %d joints, want %d", len(AllJoints()), NumJoints)
	}
	for i, j := range AllJoints() {
		if int(j) != i {
			t.Errorf("AllJoints()[%d] = %s, want wire index %d", i, j, i)
		}
	}
}
