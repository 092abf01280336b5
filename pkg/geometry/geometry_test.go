package geometry

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 100, 50)

	cases := []struct {
		x, y ScreenSize
		want bool
	}{
		{10, 10, true},
		{110, 60, true},
		{60, 30, true},
		{9, 30, false},
		{60, 9, false},
		{111, 30, false},
		{60, 61, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.x, c.y); got != c.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestRectIsNearBottomRight(t *testing.T) {
	r := NewRect(0, 0, 200, 100)
	const threshold = 7

	if !r.IsNearBottomRight(200, 100, threshold) {
		t.Error("expected exact corner to be near bottom-right")
	}
	if !r.IsNearBottomRight(196, 96, threshold) {
		t.Error("expected point inside threshold of corner to be near bottom-right")
	}
	if r.IsNearBottomRight(200, 50, threshold) {
		t.Error("right edge away from bottom should not count as bottom-right corner")
	}
	if r.IsNearBottomRight(100, 100, threshold) {
		t.Error("bottom edge away from right should not count as bottom-right corner")
	}
	if r.IsNearBottomRight(100, 50, threshold) {
		t.Error("center of rect should not be near bottom-right corner")
	}
}

func TestRectIsNearRight(t *testing.T) {
	r := NewRect(0, 0, 200, 100)
	const threshold = 7

	if !r.IsNearRight(200, 50, threshold) {
		t.Error("expected point on right edge to be near right")
	}
	if !r.IsNearRight(194, 50, threshold) {
		t.Error("expected point within threshold of right edge to be near right")
	}
	if r.IsNearRight(180, 50, threshold) {
		t.Error("point well inside rect should not be near right edge")
	}
}

func TestRectIsNearBottom(t *testing.T) {
	r := NewRect(0, 0, 200, 100)
	const threshold = 7

	if !r.IsNearBottom(100, 100, threshold) {
		t.Error("expected point on bottom edge to be near bottom")
	}
	if r.IsNearBottom(100, 50, threshold) {
		t.Error("point well inside rect should not be near bottom edge")
	}
}

func TestRectIsNearTop(t *testing.T) {
	r := NewRect(0, 0, 200, 100)

	if !r.IsNearTop(50, 0, 30) {
		t.Error("expected point on top edge to be near top within title-bar threshold")
	}
	if !r.IsNearTop(50, 29, 30) {
		t.Error("expected point just inside title-bar threshold to be near top")
	}
	if r.IsNearTop(50, 40, 30) {
		t.Error("point below the title-bar band should not be near top")
	}
}

func TestMouseAddPosition(t *testing.T) {
	var m Mouse
	m.X, m.Y = 100, 100
	m.AddPosition(5, -3)

	if m.X != 105 || m.Y != 97 {
		t.Errorf("AddPosition: got (%d, %d), want (105, 97)", m.X, m.Y)
	}
	if m.RelX != 5 || m.RelY != -3 {
		t.Errorf("AddPosition relative: got (%d, %d), want (5, -3)", m.RelX, m.RelY)
	}
}

func TestMouseAddWheelDelta(t *testing.T) {
	var m Mouse
	m.AddWheelDelta(1.5, -2)
	m.AddWheelDelta(0.5, 1)

	if m.WheelDeltaX != 2 || m.WheelDeltaY != -1 {
		t.Errorf("wheel accumulation: got (%v, %v), want (2, -1)", m.WheelDeltaX, m.WheelDeltaY)
	}
}

func TestMouseSetButton(t *testing.T) {
	var m Mouse
	m.SetButton(MouseButtonLeft, true)
	m.SetButton(MouseButtonRight, true)
	m.SetButton(MouseButtonMiddle, false)

	if !m.ButtonLeft || !m.ButtonRight || m.ButtonMiddle {
		t.Errorf("unexpected button state: %+v", m)
	}

	m.SetButton(MouseButton(99), true)
	if m.ButtonLeft != true || m.ButtonRight != true || m.ButtonMiddle != false {
		t.Error("out-of-range button code should be ignored, not alter existing state")
	}
}
