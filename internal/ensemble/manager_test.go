package ensemble

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/particlebox/internal/collision"
	"github.com/san-kum/particlebox/internal/particle"
)

func newTestManager(t *testing.T, mutate func(*Config)) *Manager {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 42
	if mutate != nil {
		mutate(&cfg)
	}
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestAddScaleMapping(t *testing.T) {
	tests := []struct {
		speed, size, mass int
		vel               float64
		radius, massVal   float64
	}{
		{1, 1, 1, DefaultMinSpeed, DefaultMinRadius, DefaultMinMass},
		{5, 5, 5, DefaultMinSpeed + 8, DefaultMinRadius + 8, DefaultMinMass + 8},
		{3, 2, 4, DefaultMinSpeed + 4, DefaultMinRadius + 2, DefaultMinMass + 6},
	}

	for _, tt := range tests {
		m := newTestManager(t, nil)
		h, err := m.Add(tt.speed, tt.size, tt.mass)
		if err != nil {
			t.Fatalf("add(%d,%d,%d): %v", tt.speed, tt.size, tt.mass, err)
		}
		p, ok := m.Get(h)
		if !ok {
			t.Fatalf("handle %d not found", h)
		}
		if p.Vel != (particle.Vec2{X: tt.vel, Y: tt.vel}) {
			t.Errorf("velocity = %v, want (%v, %v)", p.Vel, tt.vel, tt.vel)
		}
		if p.Radius != tt.radius {
			t.Errorf("radius = %v, want %v", p.Radius, tt.radius)
		}
		if p.Mass != tt.massVal {
			t.Errorf("mass = %v, want %v", p.Mass, tt.massVal)
		}
		if p.Pos.X < DefaultMinPos || p.Pos.X > DefaultMaxPos || p.Pos.Y < DefaultMinPos || p.Pos.Y > DefaultMaxPos {
			t.Errorf("position %v outside safe interior", p.Pos)
		}
	}
}

func TestAddScaleOutOfRange(t *testing.T) {
	m := newTestManager(t, nil)
	for _, s := range [][3]int{{0, 1, 1}, {1, 6, 1}, {1, 1, -2}} {
		if _, err := m.Add(s[0], s[1], s[2]); !errors.Is(err, ErrScaleRange) {
			t.Errorf("add%v: expected ErrScaleRange, got %v", s, err)
		}
	}
	if m.Len() != 0 {
		t.Errorf("rejected adds mutated the ensemble: len=%d", m.Len())
	}
}

func TestAddCapacity(t *testing.T) {
	m := newTestManager(t, func(c *Config) { c.MaxParticles = 3 })

	for i := 0; i < 3; i++ {
		if _, err := m.Add(1, 1, 1); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	for i := 0; i < 5; i++ {
		h, err := m.Add(2, 2, 2)
		if !errors.Is(err, ErrCapacity) || h != NoHandle {
			t.Errorf("expected ErrCapacity and no handle, got %d, %v", h, err)
		}
	}
	if m.Len() != 3 {
		t.Errorf("len = %d, want 3", m.Len())
	}
}

func TestSimulateRanges(t *testing.T) {
	m := newTestManager(t, nil)
	hs := m.Simulate(200)
	if len(hs) != 200 || m.Len() != 200 {
		t.Fatalf("expected 200 particles, got handles=%d len=%d", len(hs), m.Len())
	}

	for _, p := range m.Particles() {
		if math.Abs(p.Vel.X) > DefaultMaxSpeed || math.Abs(p.Vel.Y) > DefaultMaxSpeed {
			t.Errorf("velocity %v exceeds max speed", p.Vel)
		}
		if p.Pos.X < DefaultMinPos || p.Pos.X > DefaultMaxPos || p.Pos.Y < DefaultMinPos || p.Pos.Y > DefaultMaxPos {
			t.Errorf("position %v outside safe interior", p.Pos)
		}
		if p.Radius < DefaultMinRadius || p.Radius > DefaultMaxRadius || p.Radius != math.Trunc(p.Radius) {
			t.Errorf("radius %v not an integer in range", p.Radius)
		}
		if p.Mass < DefaultMinMass || p.Mass > DefaultMaxMass || p.Mass != math.Trunc(p.Mass) {
			t.Errorf("mass %v not an integer in range", p.Mass)
		}
	}
}

func TestSimulateIgnoresCapacityByDefault(t *testing.T) {
	m := newTestManager(t, nil)
	m.Simulate(DefaultMaxParticles + 10)
	if m.Len() != DefaultMaxParticles+10 {
		t.Errorf("len = %d, want %d", m.Len(), DefaultMaxParticles+10)
	}
	if _, err := m.Add(1, 1, 1); !errors.Is(err, ErrCapacity) {
		t.Errorf("add over capacity: expected ErrCapacity, got %v", err)
	}
}

func TestSimulateCapBulk(t *testing.T) {
	m := newTestManager(t, func(c *Config) { c.CapBulk = true })
	m.Simulate(5)
	hs := m.Simulate(DefaultMaxParticles)
	if m.Len() != DefaultMaxParticles {
		t.Errorf("len = %d, want %d", m.Len(), DefaultMaxParticles)
	}
	if len(hs) != DefaultMaxParticles-5 {
		t.Errorf("second simulate created %d, want %d", len(hs), DefaultMaxParticles-5)
	}
}

func TestSimulateHugeCountCapBulk(t *testing.T) {
	m := newTestManager(t, func(c *Config) { c.CapBulk = true })
	m.Simulate(3)

	var hs []Handle
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Simulate(1<<62) panicked: %v", r)
			}
		}()
		hs = m.Simulate(1 << 62)
	}()
	if m.Len() != DefaultMaxParticles {
		t.Errorf("len = %d, want %d", m.Len(), DefaultMaxParticles)
	}
	if len(hs) != DefaultMaxParticles-3 {
		t.Errorf("created %d, want %d", len(hs), DefaultMaxParticles-3)
	}
	if hs := m.Simulate(1 << 62); len(hs) != 0 {
		t.Errorf("simulate on a full ensemble created %d", len(hs))
	}
}

func TestSimulateAppends(t *testing.T) {
	m := newTestManager(t, nil)
	m.Add(1, 1, 1)
	m.Simulate(4)
	m.Simulate(0)
	m.Simulate(-3)
	if m.Len() != 5 {
		t.Errorf("len = %d, want 5", m.Len())
	}
}

func TestRemoveIsStackPop(t *testing.T) {
	m := newTestManager(t, nil)
	h1, _ := m.Add(1, 1, 1)
	h2, _ := m.Add(2, 2, 2)
	h3, _ := m.Add(3, 3, 3)

	got, err := m.Remove()
	if err != nil || got != h3 {
		t.Fatalf("remove = %d, %v; want %d", got, err, h3)
	}
	got, _ = m.Remove()
	if got != h2 {
		t.Errorf("remove = %d, want %d", got, h2)
	}
	if hs := m.Handles(); len(hs) != 1 || hs[0] != h1 {
		t.Errorf("handles = %v, want [%d]", hs, h1)
	}
}

func TestRemoveAndClearOnEmpty(t *testing.T) {
	m := newTestManager(t, nil)
	if _, err := m.Remove(); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if n := m.Clear(); n != 0 {
		t.Errorf("clear removed %d", n)
	}
	if m.Len() != 0 {
		t.Errorf("len = %d", m.Len())
	}
}

func TestClear(t *testing.T) {
	m := newTestManager(t, nil)
	m.Simulate(7)
	if n := m.Clear(); n != 7 {
		t.Errorf("clear removed %d, want 7", n)
	}
	if m.Len() != 0 || len(m.Info()) != 0 {
		t.Error("ensemble not empty after clear")
	}
}

func TestHandlesAreStableAndNeverReused(t *testing.T) {
	m := newTestManager(t, nil)
	hs := m.Simulate(4)

	if err := m.Delete(hs[1]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := m.Get(hs[1]); ok {
		t.Error("deleted handle still resolves")
	}
	if err := m.Delete(hs[1]); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("second delete: expected ErrUnknownHandle, got %v", err)
	}

	h, _ := m.Add(1, 1, 1)
	for _, old := range hs {
		if h == old {
			t.Errorf("handle %d reused", h)
		}
	}

	want := []Handle{hs[0], hs[2], hs[3], h}
	got := m.Handles()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestUpdateMovesInOrder(t *testing.T) {
	m := newTestManager(t, nil)
	m.Add(1, 1, 1)
	m.Add(5, 5, 5)
	before := m.Particles()

	st := m.Update()
	after := m.Particles()

	for i := range before {
		want := before[i].Pos.Add(before[i].Vel)
		if st.WallHits() == 0 && after[i].Pos != want {
			t.Errorf("particle %d at %v, want %v", i, after[i].Pos, want)
		}
	}
}

func TestUpdateWallStats(t *testing.T) {
	m := newTestManager(t, nil)
	h, _ := m.Add(1, 1, 1)
	idx := m.index[h]
	m.slots[idx].p.Pos = particle.Vec2{X: 80, Y: 300}
	m.slots[idx].p.Vel = particle.Vec2{X: -3, Y: 0}

	st := m.Update()
	if st.Vertical != 1 || st.WallHits() != 1 {
		t.Errorf("stats = %+v, want one vertical hit", st)
	}
	p, _ := m.Get(h)
	if p.Pos != (particle.Vec2{X: 83, Y: 300}) {
		t.Errorf("position = %v, want (83, 300)", p.Pos)
	}
}

func TestUpdateWithResolver(t *testing.T) {
	m := newTestManager(t, nil)
	m.SetResolver(collision.Elastic{})
	a, _ := m.Add(1, 1, 1)
	b, _ := m.Add(1, 1, 1)
	m.slots[m.index[a]].p.Pos = particle.Vec2{X: 200, Y: 300}
	m.slots[m.index[a]].p.Vel = particle.Vec2{X: 2, Y: 0}
	m.slots[m.index[b]].p.Pos = particle.Vec2{X: 220, Y: 300}
	m.slots[m.index[b]].p.Vel = particle.Vec2{X: -2, Y: 0}

	st := m.Update()
	if st.Contacts != 1 {
		t.Fatalf("contacts = %d, want 1", st.Contacts)
	}
	pa, _ := m.Get(a)
	pb, _ := m.Get(b)
	if pa.Vel.X != -2 || pb.Vel.X != 2 {
		t.Errorf("velocities not exchanged: a=%v b=%v", pa.Vel, pb.Vel)
	}
	if pa.Pos.X != 198 || pb.Pos.X != 222 {
		t.Errorf("positions not advanced with resolved velocity: a=%v b=%v", pa.Pos, pb.Pos)
	}
}

func TestInfoColor(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		red   uint8
	}{
		{"at rest", 0, 0},
		{"3-4-5", 5, 100},
		{"just under clip", 12.73, 254},
		{"fast", 50, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := SpeedColor(tt.speed, DefaultColorScale)
			if c.R != tt.red || c.G != 0 || c.B != 255 {
				t.Errorf("color = %+v, want R=%d G=0 B=255", c, tt.red)
			}
		})
	}

	if c := SpeedColor(-4, DefaultColorScale); c.R != 0 {
		t.Errorf("negative input not clipped: %+v", c)
	}
}

func TestInfoMatchesState(t *testing.T) {
	m := newTestManager(t, nil)
	m.Simulate(6)
	m.Add(3, 4, 2)

	info := m.Info()
	ps := m.Particles()
	hs := m.Handles()
	if len(info) != m.Len() {
		t.Fatalf("len(info) = %d, want %d", len(info), m.Len())
	}
	for i := range info {
		if info[i].Pos != ps[i].Pos || info[i].Radius != int(ps[i].Radius) || info[i].Handle != hs[i] {
			t.Errorf("info %d = %+v does not match particle %+v", i, info[i], ps[i])
		}
		if info[i].Color != SpeedColor(ps[i].Speed(), DefaultColorScale) {
			t.Errorf("info %d color mismatch", i)
		}
	}
}

func TestSameSeedSameEnsemble(t *testing.T) {
	a := newTestManager(t, nil)
	b := newTestManager(t, nil)
	a.Simulate(10)
	b.Simulate(10)
	pa, pb := a.Particles(), b.Particles()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, pa[i], pb[i])
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative speed", func(c *Config) { c.MinSpeed = -1 }},
		{"inverted mass", func(c *Config) { c.MaxMass = c.MinMass - 1 }},
		{"zero radius", func(c *Config) { c.MinRadius = 0 }},
		{"inverted position", func(c *Config) { c.MinPos, c.MaxPos = 400, 100 }},
		{"negative capacity", func(c *Config) { c.MaxParticles = -1 }},
		{"empty container", func(c *Config) { c.XMax = c.XMin }},
		{"unknown corner", func(c *Config) { c.Corner = "diagonal" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}
