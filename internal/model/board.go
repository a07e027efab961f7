package model

import "fmt"

// DeletePolicy selects how task deletion is gated.
type DeletePolicy string

const (
	// DeletePolicyGated only allows deleting tasks that are Closed and have
	// empty details. This is the default.
	DeletePolicyGated DeletePolicy = "gated"
	// DeletePolicyConfirmOnly allows deleting any task; the only gate is the
	// user confirmation step.
	DeletePolicyConfirmOnly DeletePolicy = "confirm-only"
)

// BoardConfig is the static board configuration.
type BoardConfig struct {
	Assignees    []string
	DeletePolicy DeletePolicy
}

// DefaultBoardConfig returns the board configuration used when no
// configuration file is provided.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Assignees:    DefaultAssignees,
		DeletePolicy: DeletePolicyGated,
	}
}

// Validate validates the board configuration.
func (c *BoardConfig) Validate() error {
	if len(c.Assignees) == 0 {
		return fmt.Errorf("at least one assignee is required: %w", ErrNotValid)
	}

	seen := map[string]bool{}
	for _, a := range c.Assignees {
		if a == "" {
			return fmt.Errorf("assignee codes can't be empty: %w", ErrNotValid)
		}
		if a == ScopeAll {
			return fmt.Errorf("assignee code %q is reserved: %w", ScopeAll, ErrNotValid)
		}
		if seen[a] {
			return fmt.Errorf("assignee %q is duplicated: %w", a, ErrNotValid)
		}
		seen[a] = true
	}

	switch c.DeletePolicy {
	case DeletePolicyGated, DeletePolicyConfirmOnly:
	default:
		return fmt.Errorf("unknown delete policy %q: %w", c.DeletePolicy, ErrNotValid)
	}

	return nil
}
