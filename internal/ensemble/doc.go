// Package ensemble owns a bounded, ordered collection of particles.
//
// A [Manager] is created from an explicit [Config] and exposes the
// lifecycle operations driven by a render/input shell:
//
//   - [Manager.Simulate]: append n randomized particles
//   - [Manager.Add]: append one particle from 1..5 speed/size/mass scales
//   - [Manager.Remove]: pop the most recently added particle
//   - [Manager.Clear]: drop every particle
//   - [Manager.Update]: advance every particle by one tick
//   - [Manager.Info]: per-particle color, position and radius for drawing
//
// Every particle receives a stable [Handle] when it is created. Handles are
// never reused by the same Manager, so a shell can keep referring to a
// particle while others are added or removed around it.
//
// # No-op Outcomes
//
// Adding at capacity, removing from an empty ensemble and out-of-range
// scales leave the ensemble untouched. They are reported with the sentinel
// errors [ErrCapacity], [ErrEmpty] and [ErrScaleRange]; callers that want
// silent no-ops may ignore them.
//
// # Thread Safety
//
// Manager is NOT safe for concurrent use. Shells must serialize all calls
// onto one goroutine.
package ensemble
