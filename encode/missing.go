package encode

import (
	"fmt"
)

// MissingPolicy governs how null cells are treated during fit and transform.
type MissingPolicy int

const (
	// MissingImpute treats null cells as the empty string, which can enter
	// the vocabulary like any other value. It is the default.
	MissingImpute MissingPolicy = iota
	// MissingError rejects frames that contain null cells in an encoded
	// variable.
	MissingError
	// MissingIgnore excludes null cells from vocabulary counting and emits
	// an all-null similarity row for them at transform time.
	MissingIgnore
)

// String returns the stable name of the policy. The name round-trips through
// ParseMissingPolicy and is used in persisted transformer state.
func (p MissingPolicy) String() string {
	switch p {
	case MissingImpute:
		return "impute"
	case MissingError:
		return "error"
	case MissingIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// ParseMissingPolicy returns the policy with the given name.
func ParseMissingPolicy(name string) (MissingPolicy, error) {
	switch name {
	case "impute":
		return MissingImpute, nil
	case "error":
		return MissingError, nil
	case "ignore":
		return MissingIgnore, nil
	default:
		return 0, fmt.Errorf("unknown missing-value policy: %q", name)
	}
}
