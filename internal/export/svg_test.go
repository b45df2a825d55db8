package export

import (
	"strings"
	"testing"

	"github.com/san-kum/particlebox/internal/ensemble"
	"github.com/san-kum/particlebox/internal/particle"
	"github.com/san-kum/particlebox/internal/sim"
)

func frame(tick int, handles []ensemble.Handle, ps ...particle.Particle) sim.Frame {
	return sim.Frame{Tick: tick, Handles: handles, Particles: ps}
}

func TestFrameSVG(t *testing.T) {
	b := particle.DefaultBounds()
	f := frame(0, []ensemble.Handle{1, 2},
		particle.Particle{Pos: particle.Vec2{X: 100, Y: 200}, Vel: particle.Vec2{}, Radius: 12, Mass: 12},
		particle.Particle{Pos: particle.Vec2{X: 300, Y: 300}, Vel: particle.Vec2{X: 30, Y: 40}, Radius: 20, Mass: 20},
	)

	svg := FrameSVG(b, f, 20)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete svg document")
	}
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 circles:\n%s", svg)
	}
	if !strings.Contains(svg, `cx="100.00" cy="200.00" r="12.00" fill="#0000ff"`) {
		t.Errorf("resting particle should be blue:\n%s", svg)
	}
	if !strings.Contains(svg, `fill="#ff00ff"`) {
		t.Errorf("fast particle should saturate red:\n%s", svg)
	}
}

func TestTrajectorySVG(t *testing.T) {
	b := particle.DefaultBounds()
	p := func(x, y float64) particle.Particle {
		return particle.Particle{Pos: particle.Vec2{X: x, Y: y}, Radius: 12, Mass: 12}
	}
	frames := []sim.Frame{
		frame(0, []ensemble.Handle{3}, p(100, 100)),
		frame(1, []ensemble.Handle{3}, p(110, 100)),
		frame(2, nil),
		frame(3, []ensemble.Handle{4, 3}, p(0, 0), p(130, 100)),
	}

	svg := TrajectorySVG(b, frames, 3, "#00ff00")
	if !strings.Contains(svg, "M100.0,100.0 L110.0,100.0 M130.0,100.0") {
		t.Errorf("unexpected path:\n%s", svg)
	}
}
