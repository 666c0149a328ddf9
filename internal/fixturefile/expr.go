package fixturefile

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/maxdeviant/thaumaturgy/value"
)

// sequenceEnv is the environment of sequence producer expressions.
type sequenceEnv struct {
	N int `expr:"n"`
}

// compileSequence compiles a producer and checks it yields a value for n = 1.
func compileSequence(src string) (func(n int) value.Value, error) {
	program, err := expr.Compile(src, expr.Env(sequenceEnv{}))
	if err != nil {
		return nil, err
	}

	produce := func(n int) (value.Value, error) {
		out, err := expr.Run(program, sequenceEnv{N: n})
		if err != nil {
			return nil, err
		}
		return value.FromGo(out)
	}

	if _, err := produce(1); err != nil {
		return nil, err
	}

	return func(n int) value.Value {
		v, err := produce(n)
		if err != nil {
			panic(fmt.Sprintf("fixturefile: sequence %q at n=%d: %v", src, n, err))
		}
		return v
	}, nil
}

// compileProjection compiles a reference projection. Fields of the
// referenced object are variables; missing ones evaluate to nil.
func compileProjection(src string) (func(value.Object) value.Value, error) {
	program, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}

	return func(obj value.Object) value.Value {
		v, err := project(program, obj)
		if err != nil {
			panic(fmt.Sprintf("fixturefile: projection %q: %v", src, err))
		}
		return v
	}, nil
}

func project(program *vm.Program, obj value.Object) (value.Value, error) {
	env, _ := value.ToGo(obj).(map[string]any)
	if env == nil {
		env = map[string]any{}
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, err
	}
	return value.FromGo(out)
}
