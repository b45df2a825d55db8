package ensemble

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/san-kum/particlebox/internal/collision"
	"github.com/san-kum/particlebox/internal/particle"
)

// Handle is a stable identifier issued when a particle is created.
// The zero Handle never names a particle.
type Handle uint64

const NoHandle Handle = 0

// Info is the drawing data for one particle.
type Info struct {
	Handle Handle
	Color  color.RGBA
	Pos    particle.Vec2
	Radius int
}

// Stats counts what happened during one Update.
type Stats struct {
	Vertical   int
	Horizontal int
	Corner     int
	Contacts   int
}

func (s Stats) WallHits() int { return s.Vertical + s.Horizontal + s.Corner }

type slot struct {
	p      particle.Particle
	handle Handle
}

// Manager owns the ensemble. Particles live in a slot arena; order keeps
// slot indices in insertion order and index maps handles to slots.
type Manager struct {
	cfg      Config
	bounds   particle.Bounds
	corner   particle.CornerPolicy
	rng      *rand.Rand
	resolver collision.Resolver

	slots []slot
	free  []int
	order []int
	index map[Handle]int
	next  Handle

	scratch []*particle.Particle
}

func New(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	corner, _ := particle.ParseCornerPolicy(cfg.Corner)

	m := &Manager{
		cfg:    cfg,
		bounds: cfg.Bounds(),
		corner: corner,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		slots:  make([]slot, 0, cfg.MaxParticles),
		order:  make([]int, 0, cfg.MaxParticles),
		index:  make(map[Handle]int, cfg.MaxParticles),
		next:   1,
	}
	if cfg.Pairwise {
		m.resolver = collision.Elastic{}
	}
	return m, nil
}

// SetResolver installs a pairwise resolver run between wall reflection and
// the position step. A nil resolver disables pairwise collisions.
func (m *Manager) SetResolver(r collision.Resolver) { m.resolver = r }

func (m *Manager) Config() Config          { return m.cfg }
func (m *Manager) Bounds() particle.Bounds { return m.bounds }
func (m *Manager) Len() int                { return len(m.order) }
func (m *Manager) Full() bool              { return len(m.order) >= m.cfg.MaxParticles }

// Simulate appends n particles with random velocity, position, radius and
// mass. Capacity is only enforced when Config.CapBulk is set.
func (m *Manager) Simulate(n int) []Handle {
	size := max(n, 0)
	if m.cfg.CapBulk {
		size = min(size, max(m.cfg.MaxParticles-m.Len(), 0))
	} else {
		size = min(size, m.cfg.MaxParticles)
	}
	handles := make([]Handle, 0, size)
	for i := 0; i < n; i++ {
		if m.cfg.CapBulk && m.Full() {
			break
		}
		speed := float64(m.cfg.MaxSpeed)
		vel := particle.Vec2{
			X: m.uniform(-speed, speed),
			Y: m.uniform(-speed, speed),
		}
		radius := m.randInt(m.cfg.MinRadius, m.cfg.MaxRadius)
		mass := m.randInt(m.cfg.MinMass, m.cfg.MaxMass)
		handles = append(handles, m.insert(particle.Particle{
			Pos:    m.randomPosition(),
			Vel:    vel,
			Radius: float64(radius),
			Mass:   float64(mass),
		}))
	}
	return handles
}

// Add appends one particle described by 1..5 scales. The velocity is
// diagonal, (v, v), where v is the mapped speed.
func (m *Manager) Add(speed, size, mass int) (Handle, error) {
	if m.Full() {
		return NoHandle, ErrCapacity
	}
	if !validScale(speed) || !validScale(size) || !validScale(mass) {
		return NoHandle, fmt.Errorf("%w: speed=%d size=%d mass=%d", ErrScaleRange, speed, size, mass)
	}

	v := float64(ScaleValue(m.cfg.MinSpeed, speed))
	return m.insert(particle.Particle{
		Pos:    m.randomPosition(),
		Vel:    particle.Vec2{X: v, Y: v},
		Radius: float64(ScaleValue(m.cfg.MinRadius, size)),
		Mass:   float64(ScaleValue(m.cfg.MinMass, mass)),
	}), nil
}

// Remove pops the most recently added particle.
func (m *Manager) Remove() (Handle, error) {
	if len(m.order) == 0 {
		return NoHandle, ErrEmpty
	}
	idx := m.order[len(m.order)-1]
	m.order = m.order[:len(m.order)-1]
	h := m.slots[idx].handle
	m.release(idx)
	return h, nil
}

// Delete removes the particle named by h, wherever it sits in the order.
func (m *Manager) Delete(h Handle) error {
	idx, ok := m.index[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	for i, o := range m.order {
		if o == idx {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.release(idx)
	return nil
}

// Clear drops every particle and returns how many were removed.
func (m *Manager) Clear() int {
	n := len(m.order)
	m.slots = m.slots[:0]
	m.free = m.free[:0]
	m.order = m.order[:0]
	clear(m.index)
	return n
}

// Get returns a copy of the particle named by h.
func (m *Manager) Get(h Handle) (particle.Particle, bool) {
	idx, ok := m.index[h]
	if !ok {
		return particle.Particle{}, false
	}
	return m.slots[idx].p, true
}

// Handles returns live handles in insertion order.
func (m *Manager) Handles() []Handle {
	hs := make([]Handle, len(m.order))
	for i, idx := range m.order {
		hs[i] = m.slots[idx].handle
	}
	return hs
}

// Particles returns copies of every particle in insertion order.
func (m *Manager) Particles() []particle.Particle {
	ps := make([]particle.Particle, len(m.order))
	for i, idx := range m.order {
		ps[i] = m.slots[idx].p
	}
	return ps
}

// Update advances every particle by one tick in insertion order. Wall
// reflections are resolved first, then the pairwise resolver if any, then
// every particle moves by its velocity.
func (m *Manager) Update() Stats {
	var st Stats

	if m.resolver == nil {
		for _, idx := range m.order {
			st.count(m.slots[idx].p.UpdatePosition(m.bounds, m.corner))
		}
		return st
	}

	m.scratch = m.scratch[:0]
	for _, idx := range m.order {
		p := &m.slots[idx].p
		st.count(p.CheckWallCollision(m.bounds, m.corner))
		m.scratch = append(m.scratch, p)
	}
	st.Contacts = m.resolver.Resolve(m.scratch)
	for _, p := range m.scratch {
		p.Advance()
	}
	return st
}

// Info returns drawing data for every particle in insertion order.
func (m *Manager) Info() []Info {
	out := make([]Info, len(m.order))
	for i, idx := range m.order {
		s := &m.slots[idx]
		out[i] = Info{
			Handle: s.handle,
			Color:  SpeedColor(s.p.Speed(), m.cfg.ColorScale),
			Pos:    s.p.Pos,
			Radius: int(math.Round(s.p.Radius)),
		}
	}
	return out
}

// SpeedColor ramps from blue to magenta as speed grows: red is
// clip(scale*speed, 0, 255), green 0, blue 255.
func SpeedColor(speed, scale float64) color.RGBA {
	r := math.Max(0, math.Min(255, scale*speed))
	return color.RGBA{R: uint8(r), G: 0, B: 255, A: 255}
}

func (s *Stats) count(w particle.Wall) {
	switch w {
	case particle.WallVertical:
		s.Vertical++
	case particle.WallHorizontal:
		s.Horizontal++
	case particle.WallCorner:
		s.Corner++
	}
}

func (m *Manager) insert(p particle.Particle) Handle {
	h := m.next
	m.next++

	var idx int
	if n := len(m.free); n > 0 {
		idx = m.free[n-1]
		m.free = m.free[:n-1]
		m.slots[idx] = slot{p: p, handle: h}
	} else {
		idx = len(m.slots)
		m.slots = append(m.slots, slot{p: p, handle: h})
	}
	m.order = append(m.order, idx)
	m.index[h] = idx
	return h
}

func (m *Manager) release(idx int) {
	delete(m.index, m.slots[idx].handle)
	m.slots[idx] = slot{}
	m.free = append(m.free, idx)
}

func (m *Manager) randomPosition() particle.Vec2 {
	return particle.Vec2{
		X: m.uniform(m.cfg.MinPos, m.cfg.MaxPos),
		Y: m.uniform(m.cfg.MinPos, m.cfg.MaxPos),
	}
}

func (m *Manager) uniform(lo, hi float64) float64 {
	return lo + m.rng.Float64()*(hi-lo)
}

func (m *Manager) randInt(lo, hi int) int {
	return lo + m.rng.Intn(hi-lo+1)
}
