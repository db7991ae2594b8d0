package domain

// SampleMode selects the discipline the sampling controller applies to the
// candidate stream.
type SampleMode string

const (
	// SampleRandom shuffles the identifier sequence and stops scanning as
	// soon as the target count is reached.
	SampleRandom SampleMode = "random"
	// SampleTop scans the whole bounded sequence, then keeps the most
	// popular candidates.
	SampleTop SampleMode = "top"
)

// Valid reports whether the mode is one of the known disciplines.
func (m SampleMode) Valid() bool {
	return m == SampleRandom || m == SampleTop
}

// UnboundedScan is the MaxCandidates sentinel that removes the soft cap on
// identifiers examined.
const UnboundedScan = -1

// FilterCriteria are the user-specified acceptance conditions.
// Nil fields impose no constraint.
type FilterCriteria struct {
	// MinYear rejects candidates released before this year, and candidates
	// whose release year cannot be determined.
	MinYear *int
	// TargetMainGenre matches the first genre exactly, except for the
	// "indie" label which matches anywhere in the genre list.
	TargetMainGenre *string
	// FreeOnly keeps only free games when true, only paid games when false.
	FreeOnly *bool
}

// SamplingConfig bounds one sampling run.
type SamplingConfig struct {
	// TargetN is the desired sample size. Always positive.
	TargetN int
	// Mode is the sampling discipline.
	Mode SampleMode
	// MaxCandidates is a soft cap on identifiers examined (not accepted).
	// UnboundedScan (-1) removes the cap.
	MaxCandidates int
}

// Bounded reports whether the scan has a soft cap on identifiers examined.
func (c SamplingConfig) Bounded() bool {
	return c.MaxCandidates != UnboundedScan
}
