// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package funclib

import (
	"chartfold.dev/chartfold/pkg/orderedmap"
	"chartfold.dev/chartfold/pkg/template"
	"chartfold.dev/chartfold/pkg/values"
)

func (l *Library) registerCollections() {
	l.Register(Func{Name: "dict", MinArgs: 0, MaxArgs: -1, Impl: func(args []interface{}) (interface{}, error) {
		if len(args)%2 != 0 {
			return nil, template.NewErrorf(template.ArityError,
				"dict: expected an even number of key/value arguments, got %d", len(args))
		}
		result := orderedmap.NewMap()
		for i := 0; i < len(args); i += 2 {
			key, err := stringArg("dict", args, i)
			if err != nil {
				return nil, err
			}
			result.Set(key, args[i+1])
		}
		return result, nil
	}})

	l.Register(Func{Name: "list", MinArgs: 0, MaxArgs: -1, Impl: func(args []interface{}) (interface{}, error) {
		result := make([]interface{}, len(args))
		copy(result, args)
		return result, nil
	}})

	// merge dst src: src overrides on conflict, mappings merge
	// recursively, neither argument is mutated.
	l.Register(Func{Name: "merge", MinArgs: 2, MaxArgs: -1, Impl: func(args []interface{}) (interface{}, error) {
		result, err := mapArg("merge", args, 0)
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(args); i++ {
			src, err := mapArg("merge", args, i)
			if err != nil {
				return nil, err
			}
			result = values.MergeMaps(result, src)
		}
		return result, nil
	}})

	// hasKey tests existence only: an explicit null key still counts.
	l.Register(Func{Name: "hasKey", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		m, err := mapArg("hasKey", args, 0)
		if err != nil {
			return nil, err
		}
		key, err := stringArg("hasKey", args, 1)
		if err != nil {
			return nil, err
		}
		return m.Has(key), nil
	}})

	l.Register(Func{Name: "get", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		m, err := mapArg("get", args, 0)
		if err != nil {
			return nil, err
		}
		key, err := stringArg("get", args, 1)
		if err != nil {
			return nil, err
		}
		val, found := m.Get(key)
		if !found {
			return values.Missing, nil
		}
		return val, nil
	}})

	l.Register(Func{Name: "keys", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		m, err := mapArg("keys", args, 0)
		if err != nil {
			return nil, err
		}
		var result []interface{}
		for _, key := range m.Keys() {
			result = append(result, key)
		}
		return result, nil
	}})

	// pluck k m1 m2 ...: values at key k in argument order, skipping
	// mappings where the key is absent.
	l.Register(Func{Name: "pluck", MinArgs: 2, MaxArgs: -1, Impl: func(args []interface{}) (interface{}, error) {
		key, err := stringArg("pluck", args, 0)
		if err != nil {
			return nil, err
		}
		result := []interface{}{}
		for i := 1; i < len(args); i++ {
			m, err := mapArg("pluck", args, i)
			if err != nil {
				return nil, err
			}
			if val, found := m.Get(key); found {
				result = append(result, val)
			}
		}
		return result, nil
	}})

	l.Register(Func{Name: "has", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		seq, ok := args[1].([]interface{})
		if !ok {
			return nil, template.NewErrorf(template.InvalidArgumentError, "has: expected a sequence, was %s", values.KindOf(args[1]))
		}
		for _, item := range seq {
			if item == args[0] {
				return true, nil
			}
		}
		return false, nil
	}})

	l.Register(Func{Name: "first", MinArgs: 1, MaxArgs: 1,
		Impl: seqPicker("first", func(seq []interface{}) interface{} { return seq[0] })})
	l.Register(Func{Name: "last", MinArgs: 1, MaxArgs: 1,
		Impl: seqPicker("last", func(seq []interface{}) interface{} { return seq[len(seq)-1] })})

	l.Register(Func{Name: "len", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		switch typedVal := args[0].(type) {
		case string:
			return int64(len(typedVal)), nil
		case []interface{}:
			return int64(len(typedVal)), nil
		case *orderedmap.Map:
			return int64(typedVal.Len()), nil
		case nil:
			return int64(0), nil
		}
		if values.IsMissing(args[0]) {
			return int64(0), nil
		}
		return nil, template.NewErrorf(template.InvalidArgumentError, "len: cannot measure %s", values.KindOf(args[0]))
	}})
}

func seqPicker(fnName string, pick func([]interface{}) interface{}) func([]interface{}) (interface{}, error) {
	return func(args []interface{}) (interface{}, error) {
		seq, ok := args[0].([]interface{})
		if !ok {
			return nil, template.NewErrorf(template.InvalidArgumentError, "%s: expected a sequence, was %s", fnName, values.KindOf(args[0]))
		}
		if len(seq) == 0 {
			return values.Missing, nil
		}
		return pick(seq), nil
	}
}
