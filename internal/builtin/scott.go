package builtin

import (
	"github.com/morel-lang/morel/internal/types"
	"github.com/morel-lang/morel/internal/value"
)

// empType mirrors the classic `scott` schema's EMP table shape
// used by §8 S2/S6: empno/ename/job/mgr/sal/comm/deptno, with mgr and
// comm optional since not every employee has a manager or a commission.
func empType() types.Type {
	return types.NewRecord([]types.Field{
		{Label: "empno", Type: types.Int()},
		{Label: "ename", Type: types.String()},
		{Label: "job", Type: types.String()},
		{Label: "mgr", Type: types.Option(types.Int())},
		{Label: "sal", Type: types.Real()},
		{Label: "comm", Type: types.Option(types.Real())},
		{Label: "deptno", Type: types.Int()},
	})
}

func deptType() types.Type {
	return types.NewRecord([]types.Field{
		{Label: "deptno", Type: types.Int()},
		{Label: "dname", Type: types.String()},
		{Label: "loc", Type: types.String()},
	})
}

func bonusType() types.Type {
	return types.NewRecord([]types.Field{
		{Label: "ename", Type: types.String()},
		{Label: "job", Type: types.String()},
		{Label: "sal", Type: types.Real()},
		{Label: "comm", Type: types.Real()},
	})
}

func salgradeType() types.Type {
	return types.NewRecord([]types.Field{
		{Label: "grade", Type: types.Int()},
		{Label: "losal", Type: types.Real()},
		{Label: "hisal", Type: types.Real()},
	})
}

func emp(empno int64, ename, job string, mgr value.Value, sal float64, comm value.Value, deptno int64) value.Value {
	return value.NewRecord([]value.Field{
		{Label: "empno", Value: value.Int(empno)},
		{Label: "ename", Value: value.String(ename)},
		{Label: "job", Value: value.String(job)},
		{Label: "mgr", Value: mgr},
		{Label: "sal", Value: value.Real(sal)},
		{Label: "comm", Value: comm},
		{Label: "deptno", Value: value.Int(deptno)},
	})
}

func dept(deptno int64, dname, loc string) value.Value {
	return value.NewRecord([]value.Field{
		{Label: "deptno", Value: value.Int(deptno)},
		{Label: "dname", Value: value.String(dname)},
		{Label: "loc", Value: value.String(loc)},
	})
}

func none() value.Value { return &value.Con{Name: "NONE", Index: 0} }
func some(v value.Value) value.Value {
	return &value.Con{Name: "SOME", Index: 1, Payload: v}
}

// registerScott binds the Scott fixture (spec.md's Glossary entry for
// `scott`) as a Scott module of bag constants, the data §8's S2 and S6
// scenarios query against.
func registerScott(tenv *types.Env, venv *value.Env) (*types.Env, *value.Env) {
	emps := value.NewBag(
		emp(7369, "SMITH", "CLERK", some(value.Int(7902)), 800, none(), 20),
		emp(7499, "ALLEN", "SALESMAN", some(value.Int(7698)), 1600, some(value.Real(300)), 30),
		emp(7521, "WARD", "SALESMAN", some(value.Int(7698)), 1250, some(value.Real(500)), 30),
		emp(7566, "JONES", "MANAGER", some(value.Int(7839)), 2975, none(), 20),
		emp(7654, "MARTIN", "SALESMAN", some(value.Int(7698)), 1250, some(value.Real(1400)), 30),
		emp(7698, "BLAKE", "MANAGER", some(value.Int(7839)), 2850, none(), 30),
		emp(7782, "CLARK", "MANAGER", some(value.Int(7839)), 2450, none(), 10),
		emp(7788, "SCOTT", "ANALYST", some(value.Int(7566)), 3000, none(), 20),
		emp(7839, "KING", "PRESIDENT", none(), 5000, none(), 10),
		emp(7844, "TURNER", "SALESMAN", some(value.Int(7698)), 1500, some(value.Real(0)), 30),
		emp(7876, "ADAMS", "CLERK", some(value.Int(7788)), 1100, none(), 20),
		emp(7900, "JAMES", "CLERK", some(value.Int(7698)), 950, none(), 30),
		emp(7902, "FORD", "ANALYST", some(value.Int(7566)), 3000, none(), 20),
		emp(7934, "MILLER", "CLERK", some(value.Int(7782)), 1300, none(), 10),
	)

	depts := value.NewBag(
		dept(10, "ACCOUNTING", "NEW YORK"),
		dept(20, "RESEARCH", "DALLAS"),
		dept(30, "SALES", "CHICAGO"),
		dept(40, "OPERATIONS", "BOSTON"),
	)

	bonuses := value.NewBag()

	salgrades := value.NewBag(
		value.NewRecord([]value.Field{{Label: "grade", Value: value.Int(1)}, {Label: "losal", Value: value.Real(700)}, {Label: "hisal", Value: value.Real(1200)}}),
		value.NewRecord([]value.Field{{Label: "grade", Value: value.Int(2)}, {Label: "losal", Value: value.Real(1201)}, {Label: "hisal", Value: value.Real(1400)}}),
		value.NewRecord([]value.Field{{Label: "grade", Value: value.Int(3)}, {Label: "losal", Value: value.Real(1401)}, {Label: "hisal", Value: value.Real(2000)}}),
		value.NewRecord([]value.Field{{Label: "grade", Value: value.Int(4)}, {Label: "losal", Value: value.Real(2001)}, {Label: "hisal", Value: value.Real(3000)}}),
		value.NewRecord([]value.Field{{Label: "grade", Value: value.Int(5)}, {Label: "losal", Value: value.Real(3001)}, {Label: "hisal", Value: value.Real(9999)}}),
	)

	return buildModule(tenv, venv, "Scott", []member{
		constant("emps", types.Bag(empType()), emps),
		constant("depts", types.Bag(deptType()), depts),
		constant("bonuses", types.Bag(bonusType()), bonuses),
		constant("salgrades", types.Bag(salgradeType()), salgrades),
	})
}
