package installer

import "fmt"

// CyclesError reports dependency cycles found while traversing a package's
// requirement closure. The traversal itself terminates and installs what it
// can; the cycles are surfaced afterwards.
type CyclesError struct {
	Chains [][]string
}

func (e CyclesError) Error() string {
	return fmt.Sprintf("dependency graph contains %d cycle(s)", len(e.Chains))
}
