// Package viz is the terminal shell for a live ensemble.
//
// [Model] is a Bubble Tea model that ticks the ensemble at a fixed rate and
// draws the container and every particle on a braille [Canvas], tinted with
// the particle's speed color.
//
// # Key Bindings
//
//	a     - Add a particle with the selected speed/size/mass scales
//	tab   - Select the next scale field
//	1-5   - Set the selected scale
//	x     - Remove the newest particle
//	c     - Clear the ensemble
//	n     - Spawn ten random particles
//	space - Pause/Resume
//	.     - Single step while paused
//	t     - Cycle themes
//	q     - Quit
package viz
