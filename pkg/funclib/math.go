// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package funclib

import (
	"chartfold.dev/chartfold/pkg/template"
)

func (l *Library) registerMath() {
	l.Register(Func{Name: "add", MinArgs: 2, MaxArgs: -1, Impl: func(args []interface{}) (interface{}, error) {
		var sum int64
		for i := range args {
			val, err := intArg("add", args, i)
			if err != nil {
				return nil, err
			}
			sum += val
		}
		return sum, nil
	}})

	l.Register(Func{Name: "sub", MinArgs: 2, MaxArgs: 2, Impl: intPair("sub", func(a, b int64) (int64, error) {
		return a - b, nil
	})})
	l.Register(Func{Name: "mul", MinArgs: 2, MaxArgs: 2, Impl: intPair("mul", func(a, b int64) (int64, error) {
		return a * b, nil
	})})
	l.Register(Func{Name: "div", MinArgs: 2, MaxArgs: 2, Impl: intPair("div", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, template.NewError(template.InvalidArgumentError, "div: division by zero")
		}
		return a / b, nil
	})})
	l.Register(Func{Name: "mod", MinArgs: 2, MaxArgs: 2, Impl: intPair("mod", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, template.NewError(template.InvalidArgumentError, "mod: division by zero")
		}
		return a % b, nil
	})})
}

func intPair(fnName string, op func(a, b int64) (int64, error)) func([]interface{}) (interface{}, error) {
	return func(args []interface{}) (interface{}, error) {
		a, err := intArg(fnName, args, 0)
		if err != nil {
			return nil, err
		}
		b, err := intArg(fnName, args, 1)
		if err != nil {
			return nil, err
		}
		result, err := op(a, b)
		if err != nil {
			return nil, err
		}
		return result, nil
	}
}
