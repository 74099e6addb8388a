package policy

import "errors"

var (
	// ErrUnreachable indicates that no candidate satisfied any upwind
	// guard: neither one-sided drift points inward, and the steady
	// candidate is non-finite or carries a non-zero drift. This is
	// always a bug in the caller's candidate construction and is never
	// silently defaulted.
	ErrUnreachable = errors.New("policy: no admissible upwind candidate")

	// ErrBadCandidate indicates a malformed candidate: a Steady
	// direction inside a four-way adjustment candidate, or a non-finite
	// Hamiltonian.
	ErrBadCandidate = errors.New("policy: malformed candidate")
)
