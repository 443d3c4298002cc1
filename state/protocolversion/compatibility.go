package protocolversion

import (
	"sync"

	"github.com/driveabci/blockstate/model/platform"
)

// Status is the result class of a compatibility evaluation.
type Status int

const (
	Accepted Status = iota
	Unsupported
	Incompatible
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Unsupported:
		return "unsupported"
	case Incompatible:
		return "incompatible"
	default:
		return "unknown"
	}
}

// Outcome is the result of evaluating a proposed version. Only the fields
// belonging to its Status are set.
type Outcome struct {
	Status        Status
	Proposed      platform.Version
	LatestKnown   platform.Version
	MinCompatible platform.Version
}

// Accepted returns true if the proposed version may be tallied.
func (o Outcome) Accepted() bool {
	return o.Status == Accepted
}

// Err converts a rejection into its coded error. It returns nil for an
// accepted outcome.
func (o Outcome) Err() error {
	switch o.Status {
	case Unsupported:
		return &UnsupportedVersionError{Proposed: o.Proposed, LatestKnown: o.LatestKnown}
	case Incompatible:
		return &IncompatibleVersionError{Proposed: o.Proposed, MinCompatible: o.MinCompatible}
	default:
		return nil
	}
}

// Evaluate decides whether proposed is acceptable given the current system
// version. The compatibility entry of the higher of the two versions is
// compared against the lower one, so the check is symmetric: the same call
// validates a proposal against the current version and the current version
// against a proposal.
//
// Rejections are returned as an Outcome. A missing map entry for a version at
// or below latestKnown is a configuration defect and is returned as
// *CompatibilityUndefinedFailure.
func Evaluate(proposed, current, latestKnown platform.Version, compatibility platform.CompatibilityMap) (Outcome, error) {
	if proposed > latestKnown {
		return Outcome{Status: Unsupported, Proposed: proposed, LatestKnown: latestKnown}, nil
	}

	high, low := proposed, current
	if current > proposed {
		high, low = current, proposed
	}

	minCompatible, ok := compatibility.MinCompatible(high)
	if !ok {
		return Outcome{}, &CompatibilityUndefinedFailure{Version: high}
	}
	if low < minCompatible {
		return Outcome{Status: Incompatible, Proposed: proposed, MinCompatible: minCompatible}, nil
	}

	return Outcome{Status: Accepted, Proposed: proposed}, nil
}

// Policy binds Evaluate to the configured versions of this node. The current
// version moves when the network adopts an upgrade; everything else is fixed
// at construction.
type Policy struct {
	mu            sync.RWMutex
	current       platform.Version
	latestKnown   platform.Version
	compatibility platform.CompatibilityMap
}

// NewPolicy creates a policy. The map is copied.
func NewPolicy(current, latestKnown platform.Version, compatibility platform.CompatibilityMap) *Policy {
	return &Policy{
		current:       current,
		latestKnown:   latestKnown,
		compatibility: compatibility.Copy(),
	}
}

// Validate evaluates a proposed version against the current version.
func (p *Policy) Validate(proposed platform.Version) (Outcome, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Evaluate(proposed, p.current, p.latestKnown, p.compatibility)
}

// Current returns the version the network currently runs.
func (p *Policy) Current() platform.Version {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// LatestKnown returns the highest version this node can run.
func (p *Policy) LatestKnown() platform.Version {
	return p.latestKnown
}

// SetCurrent moves the current version after an upgrade was adopted.
func (p *Policy) SetCurrent(v platform.Version) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = v
}
