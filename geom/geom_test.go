package geom

import "testing"

func TestDistance(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}
	if d := Distance(a, b); d != 5 {
		t.Errorf("expected distance 5, got %f", d)
	}
}

func TestRectangleContains(t *testing.T) {
	r := Rectangle{X: 10, Y: 10, Width: 20, Height: 20}
	cases := []struct {
		p    Point
		want bool
	}{
		{Point{X: 15, Y: 15}, true},
		{Point{X: 10, Y: 10}, true},
		{Point{X: 30, Y: 30}, true},
		{Point{X: 31, Y: 15}, false},
		{Point{X: 0, Y: 0}, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.p); got != c.want {
			t.Errorf("Contains(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestMaxSideOf(t *testing.T) {
	a := Rectangle{Width: 40, Height: 20}
	b := Rectangle{Width: 10, Height: 50}
	if got := MaxSideOf(a, b); got != 50 {
		t.Errorf("expected 50, got %f", got)
	}
}
