package session_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/morel-lang/morel/internal/session"
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

func TestExecuteBindingResult(t *testing.T) {
	s := session.New(nil)

	results := s.Execute("<test>", strings.NewReader(`val x = 1 + 2 * 3;`))

	require.Len(t, results, 1)
	require.Equal(t, session.ResultBinding, results[0].Kind)
	require.Equal(t, "x", results[0].Name)
	require.Equal(t, "val x = 7 : int", results[0].Text)
}

func TestExecuteBareExpressionBindsIt(t *testing.T) {
	s := session.New(nil)

	results := s.Execute("<test>", strings.NewReader(`1 + 1;`))

	require.Len(t, results, 1)
	require.Equal(t, "it", results[0].Name)
	require.Equal(t, "val it = 2 : int", results[0].Text)
}

func TestExecuteThreadsEnvironmentAcrossUnits(t *testing.T) {
	s := session.New(nil)

	results := s.Execute("<test>", strings.NewReader(`
		val x = 3;
		val y = x + 4;
	`))

	require.Len(t, results, 2)
	require.Equal(t, "val x = 3 : int", results[0].Text)
	require.Equal(t, "val y = 7 : int", results[1].Text)
}

func TestExecuteElaborationErrorLeavesEnvironmentUnchanged(t *testing.T) {
	s := session.New(nil)

	results := s.Execute("<test>", strings.NewReader(`
		val x = 1 + true;
		val y = x;
	`))

	require.Len(t, results, 2)
	require.Equal(t, session.ResultError, results[0].Kind)

	require.Equal(t, session.ResultError, results[1].Kind)
	require.Contains(t, results[1].Text, "Error")
}

func TestExecuteUncaughtExceptionReportsPositionAndLeavesEnvUnchanged(t *testing.T) {
	s := session.New(nil)

	results := s.Execute("<test>", strings.NewReader(`val x = raise Fail "boom";`))

	require.Len(t, results, 1)
	require.Equal(t, session.ResultError, results[0].Kind)
	require.Contains(t, results[0].Text, "uncaught exception Fail")
	require.Contains(t, results[0].Text, "raised at:")

	after := s.Execute("<test>", strings.NewReader(`val y = x;`))
	require.Equal(t, session.ResultError, after[0].Kind)
}

func TestSysClearEnvResetsBindings(t *testing.T) {
	s := session.New(nil)

	s.Execute("<test>", strings.NewReader(`val x = 42;`))
	s.Execute("<test>", strings.NewReader(`Sys.clearEnv ();`))

	results := s.Execute("<test>", strings.NewReader(`val y = x;`))
	require.Equal(t, session.ResultError, results[0].Kind)
}

func TestSysPlanReportsQuerySteps(t *testing.T) {
	s := session.New(nil)

	s.Execute("<test>", strings.NewReader(`val xs = from i in [1, 2, 3] where i > 1 yield i;`))

	results := s.Execute("<test>", strings.NewReader(`val p = Sys.plan ();`))
	require.Equal(t, session.ResultBinding, results[0].Kind)
}

func TestSetAndGetFixedProperty(t *testing.T) {
	s := session.New(nil)

	require.NoError(t, s.SetProperty("lineWidth", types.Int(), value.Int(40)))

	v, ok := s.GetProperty("lineWidth")
	require.True(t, ok)
	require.Equal(t, value.Int(40), v)
}

func TestSetUserPropertyRejectsTypeChange(t *testing.T) {
	s := session.New(nil)

	require.NoError(t, s.SetProperty("myFlag", types.Bool(), value.Bool(true)))
	require.Error(t, s.SetProperty("myFlag", types.Int(), value.Int(1)))
}

func TestSetOutputPropertySwitchesFormat(t *testing.T) {
	s := session.New(nil)

	require.NoError(t, s.SetProperty("output", types.String(), value.String("TABULAR")))

	v, ok := s.GetProperty("output")
	require.True(t, ok)
	require.Equal(t, value.String("TABULAR"), v)
}
