// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package funclib

import (
	"strconv"
	"strings"

	"chartfold.dev/chartfold/pkg/template"
	"chartfold.dev/chartfold/pkg/values"
)

func (l *Library) registerGeneral() {
	l.Register(Func{Name: "default", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		fallback, val := args[0], args[1]
		if values.IsEmpty(val) {
			return fallback, nil
		}
		return val, nil
	}})

	// required aborts the whole render; its message is surfaced to the
	// user verbatim.
	l.Register(Func{Name: "required", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		msg, err := stringArg("required", args, 0)
		if err != nil {
			return nil, err
		}
		if values.IsEmpty(args[1]) {
			return nil, template.NewError(template.RequiredValueError, msg)
		}
		return args[1], nil
	}})

	l.Register(Func{Name: "fail", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		msg, err := stringArg("fail", args, 0)
		if err != nil {
			return nil, err
		}
		return nil, template.NewError(template.InvalidArgumentError, msg)
	}})

	l.Register(Func{Name: "empty", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		return values.IsEmpty(args[0]), nil
	}})

	l.Register(Func{Name: "coalesce", MinArgs: 1, MaxArgs: -1, Impl: func(args []interface{}) (interface{}, error) {
		for _, arg := range args {
			if !values.IsEmpty(arg) {
				return arg, nil
			}
		}
		return nil, nil
	}})

	// ternary ifTrue ifFalse cond; condition last so it pipes naturally
	l.Register(Func{Name: "ternary", MinArgs: 3, MaxArgs: 3, Impl: func(args []interface{}) (interface{}, error) {
		if values.Truthy(args[2]) {
			return args[0], nil
		}
		return args[1], nil
	}})

	l.Register(Func{Name: "kindOf", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		return values.KindOf(args[0]), nil
	}})

	l.Register(Func{Name: "toString", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		return values.Stringify(args[0]), nil
	}})

	l.Register(Func{Name: "int", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		switch typedVal := args[0].(type) {
		case int64:
			return typedVal, nil
		case int:
			return int64(typedVal), nil
		case float64:
			return int64(typedVal), nil
		case string:
			parsed, err := strconv.ParseInt(strings.TrimSpace(typedVal), 10, 64)
			if err != nil {
				return nil, template.NewErrorf(template.InvalidArgumentError, "int: cannot convert %q", typedVal)
			}
			return parsed, nil
		case bool:
			if typedVal {
				return int64(1), nil
			}
			return int64(0), nil
		}
		return nil, template.NewErrorf(template.InvalidArgumentError, "int: cannot convert %T", args[0])
	}})
}
