package builtin

import (
	"github.com/morel-lang/morel/internal/token"
	"github.com/morel-lang/morel/internal/value"
)

// Apply is the same injected-callback shape internal/query.Apply uses,
// for the same reason: a higher-order intrinsic (List.map, List.foldl,
// Relational.iterate, ...) must call back into the evaluator to apply a
// closure argument, without this package importing internal/eval (which
// depends on internal/builtin for the initial environment — an import
// back here would cycle).
type Apply func(fn value.Value, arg value.Value, at token.Span) (value.Value, *value.Exn)
