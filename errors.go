package gowavebank

import "errors"

var (
	// ErrInvalidParameter indicates a non-physical numeric input such as a
	// non-positive mass or an empty template range.
	ErrInvalidParameter = errors.New("gowavebank: invalid parameter")

	// ErrEmptyRange indicates a frequency range with f_high <= f_low.
	ErrEmptyRange = errors.New("gowavebank: empty frequency range")

	// ErrUnknownAlgorithm indicates a point-selection strategy name outside
	// the supported set.
	ErrUnknownAlgorithm = errors.New("gowavebank: unknown compression algorithm")

	// ErrUnknownInterpolation indicates an interpolation kind outside the
	// supported set.
	ErrUnknownInterpolation = errors.New("gowavebank: unknown interpolation kind")

	// ErrNonConvergent indicates that the refinement loop stalled before the
	// mismatch bound was met. The compressed waveform returned alongside it
	// holds the best mismatch achieved and is still usable.
	ErrNonConvergent = errors.New("gowavebank: compression did not converge")

	// ErrUpstreamGeneration indicates that the bank provider failed to
	// produce a waveform for a template.
	ErrUpstreamGeneration = errors.New("gowavebank: waveform generation failed")
)
