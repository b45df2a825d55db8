package ensemble

import "errors"

var (
	// ErrCapacity indicates the ensemble already holds MaxParticles.
	ErrCapacity = errors.New("ensemble: at capacity")

	// ErrEmpty indicates there is no particle to remove.
	ErrEmpty = errors.New("ensemble: no particles")

	// ErrScaleRange indicates a speed/size/mass scale outside 1..5.
	ErrScaleRange = errors.New("ensemble: scale out of range")

	// ErrUnknownHandle indicates the handle does not name a live particle.
	ErrUnknownHandle = errors.New("ensemble: unknown handle")

	// ErrInvalidConfig indicates a configuration that cannot produce valid particles.
	ErrInvalidConfig = errors.New("ensemble: invalid config")
)
