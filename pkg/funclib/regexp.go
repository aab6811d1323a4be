// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package funclib

import (
	"regexp"

	"chartfold.dev/chartfold/pkg/template"
)

func (l *Library) registerRegexp() {
	// Patterns compile lazily at first use; a bad pattern is a render
	// error, not a registration error.
	l.Register(Func{Name: "regexMatch", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		re, err := compilePattern("regexMatch", args)
		if err != nil {
			return nil, err
		}
		val, err := stringArg("regexMatch", args, 1)
		if err != nil {
			return nil, err
		}
		return re.MatchString(val), nil
	}})

	l.Register(Func{Name: "regexReplaceAll", MinArgs: 3, MaxArgs: 3, Impl: func(args []interface{}) (interface{}, error) {
		re, err := compilePattern("regexReplaceAll", args)
		if err != nil {
			return nil, err
		}
		repl, err := stringArg("regexReplaceAll", args, 1)
		if err != nil {
			return nil, err
		}
		val, err := stringArg("regexReplaceAll", args, 2)
		if err != nil {
			return nil, err
		}
		return re.ReplaceAllString(val, repl), nil
	}})
}

func compilePattern(fnName string, args []interface{}) (*regexp.Regexp, error) {
	pattern, err := stringArg(fnName, args, 0)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, template.NewErrorf(template.RegexCompileError, "%s: %s", fnName, err)
	}
	return re, nil
}
