package constraint

import (
	"strings"

	errs "github.com/matzehuels/gridstitch/pkg/errors"
)

// CycleResolver decides what to do about the edges left violated after a
// relaxation round. It returns the violations whose edges should be dropped
// before the next round, or an error to abort solving.
//
// Returning no violations and no error stops the retry loop and accepts the
// current distances.
type CycleResolver interface {
	Resolve(violations []Violation) ([]Violation, error)
}

// ResolverFunc adapts a plain function to [CycleResolver].
type ResolverFunc func(violations []Violation) ([]Violation, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(violations []Violation) ([]Violation, error) {
	return f(violations)
}

// DropFirst drops the first violated edge found, scanning vertices in
// insertion order. It only ever removes one edge per round.
type DropFirst struct{}

// Resolve implements [CycleResolver].
func (DropFirst) Resolve(violations []Violation) ([]Violation, error) {
	if len(violations) == 0 {
		return nil, nil
	}
	return violations[:1], nil
}

// Strict reports every violated relationship instead of dropping any.
type Strict struct{}

// Resolve implements [CycleResolver].
func (Strict) Resolve(violations []Violation) ([]Violation, error) {
	if len(violations) == 0 {
		return nil, nil
	}
	seen := make(map[string]bool, len(violations))
	var names []string
	for _, v := range violations {
		s := v.Describe()
		if !seen[s] {
			seen[s] = true
			names = append(names, s)
		}
	}
	return nil, errs.New(errs.ErrCodeNegativeCycle,
		"contradictory relationships: %s", strings.Join(names, "; "))
}

var (
	_ CycleResolver = DropFirst{}
	_ CycleResolver = Strict{}
	_ CycleResolver = ResolverFunc(nil)
)
