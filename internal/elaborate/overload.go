package elaborate

import (
	"github.com/morel-lang/morel/internal/types"
)

// OverloadTable implements spec.md §4.5.4: `over f` declares f overloaded;
// `val inst f = e` adds a monomorphic instance. At a use site, instances
// are filtered by unifiability with the expected type.
type OverloadTable struct {
	declared  map[string]bool
	instances map[string][]*types.Scheme
}

// NewOverloadTable returns an empty table.
func NewOverloadTable() *OverloadTable {
	return &OverloadTable{declared: map[string]bool{}, instances: map[string][]*types.Scheme{}}
}

// Declare registers name as overloaded.
func (t *OverloadTable) Declare(name string) { t.declared[name] = true }

// IsOverloaded reports whether name was declared with `over`.
func (t *OverloadTable) IsOverloaded(name string) bool { return t.declared[name] }

// AddInstance records one monomorphic instance of an overloaded name.
func (t *OverloadTable) AddInstance(name string, s *types.Scheme) {
	t.instances[name] = append(t.instances[name], s)
}

// resolve filters name's instances by unifiability with expected (a fresh
// copy is tried so a failed attempt leaves no bound variables behind),
// returning the single surviving instantiated type and its declaration
// index (so the evaluator can later pick the matching runtime value out
// of the same instances, in the same declaration order), or an error if
// zero or more than one instance survives.
func (t *OverloadTable) resolve(fresh *types.Fresh, name string, expected types.Type) (types.Type, int, error) {
	var matches []types.Type

	matchIdx := -1

	for i, s := range t.instances[name] {
		candidate := types.Instantiate(fresh, s)
		probe := types.Instantiate(fresh, types.Generalize(nil, expected))

		if tryUnify(fresh, candidate, probe) {
			matches = append(matches, candidate)
			matchIdx = i
		}
	}

	switch len(matches) {
	case 1:
		// Re-unify for real, now that exactly one instance is chosen, so
		// the caller's type variables are actually bound to it.
		_ = types.Unify(fresh, matches[0], expected)
		return matches[0], matchIdx, nil
	default:
		return nil, -1, errNoValidOverload
	}
}

// tryUnify probes whether a and b can unify without committing any
// bindings on failure. Unification only binds variables on the winning
// path of each case, so a failed probe can still leave stray bindings on
// variables that *were* successfully bound before a later sub-unification
// failed; overload resolution accepts this narrow imprecision (limited to
// partially-shared-structure instances, which the built-in sum/min/max
// overloads never are) rather than carrying a transactional
// substitution log solely for this one rare feature.
func tryUnify(fresh *types.Fresh, a, b types.Type) bool {
	return types.Unify(fresh, a, b) == nil
}

var errNoValidOverload = overloadError{}

type overloadError struct{}

func (overloadError) Error() string { return "Cannot deduce type: no valid overloads" }
