package beg

import (
	"fmt"
	"strings"
)

// Strategy selects how a Switcher reorders the rows of a block.
type Strategy uint32

const (
	// StrategyFeatureSort clusters rows with similar genotype distributions.
	StrategyFeatureSort Strategy = iota

	// StrategyIdentity keeps rows in input order.
	StrategyIdentity
)

func (s Strategy) String() string {
	switch s {
	case StrategyFeatureSort:
		return "feature"
	case StrategyIdentity:
		return "identity"

	default:
		return "Illegal selection"
	}
}

// ParseStrategy returns the strategy named by s.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "feature", "feature-sort", "amdo":
		return StrategyFeatureSort, nil
	case "identity", "none":
		return StrategyIdentity, nil
	}
	return 0, fmt.Errorf("unknown switcher strategy %q", s)
}

// NewSwitcher returns the switcher implementing strategy. scored only
// applies to the feature strategy.
func NewSwitcher(strategy Strategy, scored bool) (Switcher, error) {
	switch strategy {
	case StrategyFeatureSort:
		return &FeatureSwitcher{Scored: scored}, nil
	case StrategyIdentity:
		return IdentitySwitcher{}, nil
	}
	return nil, fmt.Errorf("unknown switcher strategy %d", uint32(strategy))
}
