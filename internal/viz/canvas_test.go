package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.DotsWide() != 8 || c.DotsHigh() != 8 {
		t.Fatalf("unexpected dot size %dx%d", c.DotsWide(), c.DotsHigh())
	}

	c.Set(0, 0)
	c.Set(1, 3)
	if c.Grid[0][0] != rune(blank|0x1|0x80) {
		t.Errorf("unexpected cell %U", c.Grid[0][0])
	}
	if !c.Lit(1, 3) || c.Lit(1, 2) {
		t.Error("Lit disagrees with Set")
	}

	c.Set(-1, 0)
	c.Set(100, 100)

	c.Clear()
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				t.Fatalf("expected blank after Clear, got %U", r)
			}
		}
	}
}

func TestCanvasCircleSymmetric(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawCircle(20, 20, 6, "")

	for _, p := range [][2]int{{26, 20}, {14, 20}, {20, 26}, {20, 14}} {
		if !c.Lit(p[0], p[1]) {
			t.Errorf("expected dot at %v", p)
		}
	}
	if c.Lit(20, 20) {
		t.Error("outline should not light the center")
	}
}

func TestCanvasRect(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawRect(0, 0, 19, 19, "")
	for _, p := range [][2]int{{0, 0}, {19, 0}, {0, 19}, {19, 19}, {10, 0}, {0, 10}} {
		if !c.Lit(p[0], p[1]) {
			t.Errorf("expected dot at %v", p)
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if len([]rune(l)) != 3 {
			t.Errorf("expected 3 cells, got %q", l)
		}
	}
}
