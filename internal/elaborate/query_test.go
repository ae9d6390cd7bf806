package elaborate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morel-lang/morel/internal/types"
)

func TestElaborateQuerySimpleWhereYield(t *testing.T) {
	_, r := elaborateAll(t, `
		val xs = from x in [1, 2, 3] where x > 1 yield x + 1;
	`)

	require.True(t, r.Bag.OK())
	require.Equal(t, "int list", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaborateQueryGroupCompute(t *testing.T) {
	_, r := elaborateAll(t, `
		fun sum xs = 0;
		val totals = from x in [1, 2, 3]
		    group key = x
		    compute total = sum over x;
	`)

	require.True(t, r.Bag.OK())
}

func TestElaborateQueryYieldRecordBindsFields(t *testing.T) {
	_, r := elaborateAll(t, `
		val ys = from x in [1, 2, 3]
		    yield {a = x, b = x + 1}
		    where a > 0
		    yield b;
	`)

	require.True(t, r.Bag.OK())
	require.Equal(t, "int list", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaborateQueryOrderMakesResultOrdered(t *testing.T) {
	_, r := elaborateAll(t, `
		val zs = from x in [3, 1, 2] order x;
	`)

	require.True(t, r.Bag.OK())
	require.Equal(t, "int list", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaborateQueryUnorderedAfterGroup(t *testing.T) {
	_, r := elaborateAll(t, `
		fun count xs = 0;
		val zs = from x in [1, 2, 3] group key = x compute c = count;
	`)

	require.True(t, r.Bag.OK())
	require.Contains(t, types.Render(r.Bindings[0].Scheme.Body), " bag")
}

func TestElaborateExistsReturnsBool(t *testing.T) {
	_, r := elaborateAll(t, `
		val b = exists x in [1, 2, 3] where x > 2;
	`)

	require.True(t, r.Bag.OK())
	require.Equal(t, "bool", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaborateForallRequire(t *testing.T) {
	_, r := elaborateAll(t, `
		val b = forall x in [1, 2, 3] require x > 0;
	`)

	require.True(t, r.Bag.OK())
	require.Equal(t, "bool", types.Render(r.Bindings[0].Scheme.Body))
}

func TestElaborateQueryScanTypeMismatchIsError(t *testing.T) {
	_, r := elaborateAll(t, `
		val b = from x in [1, 2, 3] where x > "a";
	`)

	require.False(t, r.Bag.OK())
}
