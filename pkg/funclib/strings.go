// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package funclib

import (
	"fmt"
	"strconv"
	"strings"

	"chartfold.dev/chartfold/pkg/template"
	"chartfold.dev/chartfold/pkg/values"
)

func (l *Library) registerStrings() {
	l.Register(Func{Name: "quote", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		val, err := stringArg("quote", args, 0)
		if err != nil {
			return nil, err
		}
		return strconv.Quote(val), nil
	}})

	// Embedded single quotes are doubled, the way YAML escapes them.
	l.Register(Func{Name: "squote", MinArgs: 1, MaxArgs: 1, Impl: func(args []interface{}) (interface{}, error) {
		val, err := stringArg("squote", args, 0)
		if err != nil {
			return nil, err
		}
		return "'" + strings.ReplaceAll(val, "'", "''") + "'", nil
	}})

	l.Register(Func{Name: "repeat", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		val, err := stringArg("repeat", args, 0)
		if err != nil {
			return nil, err
		}
		count, err := intArg("repeat", args, 1)
		if err != nil {
			return nil, err
		}
		if count < 0 {
			return nil, template.NewErrorf(template.InvalidArgumentError, "repeat: count cannot be negative (%d)", count)
		}
		return strings.Repeat(val, int(count)), nil
	}})

	l.Register(Func{Name: "upper", MinArgs: 1, MaxArgs: 1, Impl: stringMapper("upper", strings.ToUpper)})
	l.Register(Func{Name: "lower", MinArgs: 1, MaxArgs: 1, Impl: stringMapper("lower", strings.ToLower)})
	l.Register(Func{Name: "trim", MinArgs: 1, MaxArgs: 1, Impl: stringMapper("trim", strings.TrimSpace)})

	l.Register(Func{Name: "trimPrefix", MinArgs: 2, MaxArgs: 2, Impl: stringPairMapper("trimPrefix", strings.TrimPrefix)})
	l.Register(Func{Name: "trimSuffix", MinArgs: 2, MaxArgs: 2, Impl: stringPairMapper("trimSuffix", strings.TrimSuffix)})
	l.Register(Func{Name: "hasPrefix", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		prefix, err := stringArg("hasPrefix", args, 0)
		if err != nil {
			return nil, err
		}
		val, err := stringArg("hasPrefix", args, 1)
		if err != nil {
			return nil, err
		}
		return strings.HasPrefix(val, prefix), nil
	}})
	l.Register(Func{Name: "contains", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		substr, err := stringArg("contains", args, 0)
		if err != nil {
			return nil, err
		}
		val, err := stringArg("contains", args, 1)
		if err != nil {
			return nil, err
		}
		return strings.Contains(val, substr), nil
	}})

	l.Register(Func{Name: "replace", MinArgs: 3, MaxArgs: 3, Impl: func(args []interface{}) (interface{}, error) {
		oldStr, err := stringArg("replace", args, 0)
		if err != nil {
			return nil, err
		}
		newStr, err := stringArg("replace", args, 1)
		if err != nil {
			return nil, err
		}
		val, err := stringArg("replace", args, 2)
		if err != nil {
			return nil, err
		}
		return strings.ReplaceAll(val, oldStr, newStr), nil
	}})

	l.Register(Func{Name: "trunc", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		count, err := intArg("trunc", args, 0)
		if err != nil {
			return nil, err
		}
		val, err := stringArg("trunc", args, 1)
		if err != nil {
			return nil, err
		}
		if count < 0 || int(count) >= len(val) {
			return val, nil
		}
		return val[:count], nil
	}})

	l.Register(Func{Name: "indent", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		return indentImpl("indent", args, false)
	}})
	// nindent prepends a newline so the spliced block starts on its own
	// line, which is what "{{ toYaml .x | nindent 4 }}" relies on.
	l.Register(Func{Name: "nindent", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		return indentImpl("nindent", args, true)
	}})

	l.Register(Func{Name: "join", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		sep, err := stringArg("join", args, 0)
		if err != nil {
			return nil, err
		}
		seq, ok := args[1].([]interface{})
		if !ok {
			return nil, template.NewErrorf(template.InvalidArgumentError, "join: expected a sequence, was %T", args[1])
		}
		pieces := make([]string, len(seq))
		for i, item := range seq {
			pieces[i] = values.Stringify(item)
		}
		return strings.Join(pieces, sep), nil
	}})

	l.Register(Func{Name: "split", MinArgs: 2, MaxArgs: 2, Impl: func(args []interface{}) (interface{}, error) {
		sep, err := stringArg("split", args, 0)
		if err != nil {
			return nil, err
		}
		val, err := stringArg("split", args, 1)
		if err != nil {
			return nil, err
		}
		pieces := strings.Split(val, sep)
		result := make([]interface{}, len(pieces))
		for i, piece := range pieces {
			result[i] = piece
		}
		return result, nil
	}})

	l.Register(Func{Name: "title", MinArgs: 1, MaxArgs: 1, Impl: stringMapper("title", titleCase)})

	l.Register(Func{Name: "printf", MinArgs: 1, MaxArgs: -1, Impl: func(args []interface{}) (interface{}, error) {
		format, err := stringArg("printf", args, 0)
		if err != nil {
			return nil, err
		}
		if want, got := printfVerbCount(format), len(args)-1; want != got {
			return nil, template.NewErrorf(template.InvalidArgumentError,
				"printf: format %q expects %d arguments, got %d", format, want, got)
		}
		return fmt.Sprintf(format, args[1:]...), nil
	}})
}

// printfVerbCount counts the arguments a format string consumes. "%%"
// consumes none; a "*" width or precision consumes one of its own.
func printfVerbCount(format string) int {
	count := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		if i >= len(format) {
			count++
			break
		}
		if format[i] == '%' {
			continue
		}
		for i < len(format) && strings.ContainsRune("+-# 0123456789.*", rune(format[i])) {
			if format[i] == '*' {
				count++
			}
			i++
		}
		count++
	}
	return count
}

func indentImpl(fnName string, args []interface{}, leadingNewline bool) (interface{}, error) {
	count, err := intArg(fnName, args, 0)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, template.NewErrorf(template.InvalidArgumentError, "%s: count cannot be negative (%d)", fnName, count)
	}
	val, err := stringArg(fnName, args, 1)
	if err != nil {
		return nil, err
	}
	pad := strings.Repeat(" ", int(count))
	result := pad + strings.ReplaceAll(val, "\n", "\n"+pad)
	if leadingNewline {
		result = "\n" + result
	}
	return result, nil
}

func stringMapper(fnName string, mapFunc func(string) string) func([]interface{}) (interface{}, error) {
	return func(args []interface{}) (interface{}, error) {
		val, err := stringArg(fnName, args, 0)
		if err != nil {
			return nil, err
		}
		return mapFunc(val), nil
	}
}

func stringPairMapper(fnName string, mapFunc func(string, string) string) func([]interface{}) (interface{}, error) {
	return func(args []interface{}) (interface{}, error) {
		first, err := stringArg(fnName, args, 0)
		if err != nil {
			return nil, err
		}
		second, err := stringArg(fnName, args, 1)
		if err != nil {
			return nil, err
		}
		// convention: the subject string is the last argument
		return mapFunc(second, first), nil
	}
}

func titleCase(val string) string {
	prevIsLetter := false
	return strings.Map(func(r rune) rune {
		wasLetter := prevIsLetter
		prevIsLetter = isWordRune(r)
		if !wasLetter && isWordRune(r) {
			return []rune(strings.ToUpper(string(r)))[0]
		}
		return r
	}, val)
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
