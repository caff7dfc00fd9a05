package catalog

import "strings"

// Strategy selects the assignment algorithm used by the matcher.
type Strategy string

const (
	StrategyGreedy  Strategy = "greedy"
	StrategyOptimal Strategy = "optimal"
)

// ParseStrategy validates a configured strategy name. Blank selects greedy.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case "":
		return StrategyGreedy, nil
	case StrategyGreedy, StrategyOptimal:
		return s, nil
	default:
		return "", NewConfigError("linkage.strategy", "must be greedy or optimal (got %q)", name)
	}
}
