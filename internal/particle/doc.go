// Package particle provides the kinematic state of a single circular body
// inside a rectangular container.
//
// A [Particle] advances with a fixed unit time step. Before each move it
// checks its clearance to the four container walls described by [Bounds]
// and reflects its velocity when a wall is touched:
//
//   - head-on impacts (no tangential component) negate the velocity
//   - angled impacts rotate it: (vx, vy) becomes (vy, -vx)
//
// # Corner Impacts
//
// With [CornerPrecedence] a particle tripping both a vertical and a
// horizontal wall in the same frame is only reflected off the vertical
// wall. [CornerPerAxis] applies both reflections in turn; this changes
// observable trajectories and is opt-in.
package particle
