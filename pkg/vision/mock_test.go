package vision

import (
	"errors"
	"testing"
)

func TestMockDetector_ReplaysScript(t *testing.T) {
	m := NewMockDetector()
	m.SetPoses(nil, OpenPalmPose(), FistPose())

	p1, err := m.Detect()
	if err != nil || p1 != nil {
		t.Fatalf("first detect = (%v, %v), want no hand", p1, err)
	}
	p2, _ := m.Detect()
	if p2 == nil {
		t.Fatal("second detect should see a hand")
	}
	p3, _ := m.Detect()
	p4, _ := m.Detect()
	if p3 == nil || p4 != p3 {
		t.Error("script should repeat its last pose")
	}
	if m.Calls() != 4 {
		t.Errorf("calls = %d, want 4", m.Calls())
	}
}

func TestMockDetector_Error(t *testing.T) {
	m := NewMockDetector()
	want := errors.New("camera unplugged")
	m.SetError(want)

	if _, err := m.Detect(); !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
}

func TestHandPose_Wellformed(t *testing.T) {
	if (*HandPose)(nil).Wellformed() {
		t.Error("nil pose should not be wellformed")
	}
	if !OpenPalmPose().Wellformed() {
		t.Error("fixture pose should be wellformed")
	}
}
