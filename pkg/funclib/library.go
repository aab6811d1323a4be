// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package funclib

import (
	"sort"

	"chartfold.dev/chartfold/pkg/orderedmap"
	"chartfold.dev/chartfold/pkg/template"
	"chartfold.dev/chartfold/pkg/values"
)

// Func describes one registered function. MaxArgs of -1 means variadic.
type Func struct {
	Name    string
	MinArgs int
	MaxArgs int
	Impl    func(args []interface{}) (interface{}, error)
}

// Library is safe for concurrent reads once built; renders share one
// instance and never mutate it.
type Library struct {
	funcs map[string]Func
}

func NewLibrary() *Library {
	l := &Library{funcs: map[string]Func{}}
	l.registerGeneral()
	l.registerStrings()
	l.registerEncoding()
	l.registerSerialization()
	l.registerCollections()
	l.registerMath()
	l.registerSemver()
	l.registerRegexp()
	return l
}

func (l *Library) Register(f Func) { l.funcs[f.Name] = f }

func (l *Library) Lookup(name string) (Func, bool) {
	f, found := l.funcs[name]
	return f, found
}

func (l *Library) Has(name string) bool {
	_, found := l.funcs[name]
	return found
}

func (l *Library) Names() []string {
	var names []string
	for name := range l.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call validates arity and invokes the named function. Every error
// returned is a *template.Error so callers can attach a source position.
func (l *Library) Call(name string, args []interface{}) (interface{}, error) {
	f, found := l.funcs[name]
	if !found {
		return nil, template.NewErrorf(template.ParseError, "unknown function %q", name)
	}
	if len(args) < f.MinArgs {
		return nil, template.NewErrorf(template.ArityError,
			"function %q expects at least %d argument(s), got %d", name, f.MinArgs, len(args))
	}
	if f.MaxArgs >= 0 && len(args) > f.MaxArgs {
		return nil, template.NewErrorf(template.ArityError,
			"function %q expects at most %d argument(s), got %d", name, f.MaxArgs, len(args))
	}
	return f.Impl(args)
}

// --- argument conversion helpers ---

func stringArg(fnName string, args []interface{}, i int) (string, error) {
	switch typedVal := args[i].(type) {
	case string:
		return typedVal, nil
	case nil:
		return "", nil
	case bool, int, int64, float64:
		return values.Stringify(typedVal), nil
	}
	if values.IsMissing(args[i]) {
		return "", nil
	}
	return "", template.NewErrorf(template.InvalidArgumentError,
		"%s: expected argument %d to be a string, was %s", fnName, i+1, values.KindOf(args[i]))
}

func intArg(fnName string, args []interface{}, i int) (int64, error) {
	switch typedVal := args[i].(type) {
	case int:
		return int64(typedVal), nil
	case int64:
		return typedVal, nil
	case float64:
		return int64(typedVal), nil
	}
	return 0, template.NewErrorf(template.InvalidArgumentError,
		"%s: expected argument %d to be a number, was %s", fnName, i+1, values.KindOf(args[i]))
}

func mapArg(fnName string, args []interface{}, i int) (*orderedmap.Map, error) {
	if m, ok := args[i].(*orderedmap.Map); ok {
		return m, nil
	}
	return nil, template.NewErrorf(template.InvalidArgumentError,
		"%s: expected argument %d to be a mapping, was %s", fnName, i+1, values.KindOf(args[i]))
}
