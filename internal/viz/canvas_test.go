package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/dynamo"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)

	c.Set(0, 0)
	c.Set(1, 3)
	if c.Grid[0][0] != rune(brailleBlank|0x1|0x80) {
		t.Errorf("unexpected cell %U", c.Grid[0][0])
	}
	if !c.IsSet(1, 3) || c.IsSet(1, 2) {
		t.Error("IsSet disagrees with Set")
	}

	c.Unset(0, 0)
	if c.IsSet(0, 0) {
		t.Error("pixel still set after Unset")
	}

	// out of range is ignored
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)

	c.Clear()
	if got := c.String(); got != strings.Repeat(string(rune(brailleBlank)), 2)+"\n" {
		t.Errorf("expected blank row, got %q", got)
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7, "")

	for i := 0; i < 8; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal pixel %d not set", i)
		}
	}
}

func TestCanvasDisc(t *testing.T) {
	c := NewCanvas(8, 4)
	c.Disc(8, 8, 2, "#ff0000")

	if !c.IsSet(8, 8) || !c.IsSet(10, 8) || !c.IsSet(8, 6) {
		t.Error("disc missing pixels")
	}
	if c.IsSet(10, 10) {
		t.Error("corner should be outside the disc")
	}
	if c.Colors[2][4] != "#ff0000" {
		t.Errorf("expected colored cell, got %q", c.Colors[2][4])
	}
}

func TestCameraProject(t *testing.T) {
	bodies := dynamo.Bodies{
		{ID: 0, Mass: 1000, Radius: 2, Fixed: true},
		{ID: 1, Mass: 1, Radius: 1, Position: dynamo.Vec3{X: 10}},
	}
	cam := NewCamera(bodies)
	sw, sh := 128, 96

	x, y, _, ok := cam.Project(bodies[0].Position, sw, sh)
	if !ok || x != sw/2 || y != sh/2 {
		t.Errorf("anchor should project to the center, got (%d, %d) %v", x, y, ok)
	}

	x, _, _, ok = cam.Project(bodies[1].Position, sw, sh)
	if !ok || x <= sw/2 {
		t.Errorf("body on +X should be right of center and visible, got %d %v", x, ok)
	}

	if _, _, _, ok := cam.Project(dynamo.Vec3{X: 1000}, sw, sh); ok {
		t.Error("far point should be off screen")
	}
	if _, _, _, ok := cam.Project(dynamo.Vec3{X: math.NaN()}, sw, sh); ok {
		t.Error("NaN should not be visible")
	}

	// tilted fully, Y becomes vertical
	cam.TiltBy(math.Pi)
	if cam.Tilt != math.Pi/2 {
		t.Errorf("tilt should clamp at pi/2, got %f", cam.Tilt)
	}
	_, y, _, _ = cam.Project(dynamo.Vec3{Y: 5}, sw, sh)
	if y >= sh/2 {
		t.Errorf("positive Y should appear above center when tilted, got %d", y)
	}

	if r := cam.PixelRadius(0.001, sw, sh); r != 1 {
		t.Errorf("tiny radius should be 1 pixel, got %d", r)
	}
}

func TestFigureEightFillsThePlane(t *testing.T) {
	bodies := config.GetPreset("figure-eight").GetBodies()
	cam := NewCamera(bodies)

	rows := map[int]bool{}
	for _, b := range bodies {
		_, y, _, ok := cam.Project(b.Position, 128, 96)
		if !ok {
			t.Errorf("%s starts off screen", b.Name)
		}
		rows[y] = true
	}
	if len(rows) != len(bodies) {
		t.Errorf("expected %d distinct rows in the top-down view, got %d", len(bodies), len(rows))
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1}, 4); got != "▁█" {
		t.Errorf("unexpected sparkline %q", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("unexpected empty sparkline %q", got)
	}
	if got := []rune(Sparkline([]float64{1, 2, 3, 4, 5}, 3)); len(got) != 3 {
		t.Errorf("expected 3 runes, got %d", len(got))
	}
}

func TestNextThemeCycles(t *testing.T) {
	defer SetTheme(CurrentTheme.Name)

	seen := map[string]bool{}
	for range Themes {
		seen[NextTheme().Name] = true
	}
	if len(seen) != len(Themes) {
		t.Errorf("expected to visit %d themes, visited %d", len(Themes), len(seen))
	}
	if GetTheme("nope").Name != ThemeDeepSpace.Name {
		t.Error("unknown theme should fall back to the default")
	}
}
