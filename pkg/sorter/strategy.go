package sorter

import (
	"fmt"
	"strings"
)

// Strategy selects the total order applied to an import block
type Strategy int

const (
	FromFirst Strategy = iota
	ImportFirst
	Alphabetical
	Structural
)

// DefaultStrategy is used when no strategy is configured.
const DefaultStrategy = Structural

var strategyNames = map[Strategy]string{
	FromFirst:    "from-first",
	ImportFirst:  "import-first",
	Alphabetical: "alphabetical",
	Structural:   "structural",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Strategies returns the strategy names in declaration order.
func Strategies() []string {
	return []string{
		FromFirst.String(),
		ImportFirst.String(),
		Alphabetical.String(),
		Structural.String(),
	}
}

// ParseStrategy resolves a strategy by name. Underscores are accepted in
// place of dashes and case is ignored.
func ParseStrategy(name string) (Strategy, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for s, n := range strategyNames {
		if n == normalized {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q (want one of %s)", name, strings.Join(Strategies(), ", "))
}

// Grouped reports whether the strategy separates origin groups with blank
// lines.
func (s Strategy) Grouped() bool {
	return s == Structural
}
