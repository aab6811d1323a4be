// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package funclib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartfold.dev/chartfold/pkg/funclib"
	"chartfold.dev/chartfold/pkg/orderedmap"
	"chartfold.dev/chartfold/pkg/template"
	"chartfold.dev/chartfold/pkg/values"
)

func call(t *testing.T, name string, args ...interface{}) interface{} {
	t.Helper()
	result, err := funclib.NewLibrary().Call(name, args)
	require.NoError(t, err)
	return result
}

func callErr(t *testing.T, name string, args ...interface{}) *template.Error {
	t.Helper()
	_, err := funclib.NewLibrary().Call(name, args)
	require.Error(t, err)
	return template.AsEngineErr(err, template.ParseError)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "fallback", call(t, "default", "fallback", values.Missing))
	assert.Equal(t, "fallback", call(t, "default", "fallback", nil))
	assert.Equal(t, "fallback", call(t, "default", "fallback", ""))
	assert.Equal(t, "fallback", call(t, "default", "fallback", int64(0)))
	assert.Equal(t, "set", call(t, "default", "fallback", "set"))
	assert.Equal(t, int64(3), call(t, "default", int64(7), int64(3)))
}

func TestRequired(t *testing.T) {
	assert.Equal(t, "val", call(t, "required", "a value is required", "val"))

	err := callErr(t, "required", "image.tag is required", values.Missing)
	assert.Equal(t, template.RequiredValueError, err.Kind)
	assert.Equal(t, "image.tag is required", err.Msg)
}

func TestFail(t *testing.T) {
	err := callErr(t, "fail", "unsupported platform")
	assert.Equal(t, template.InvalidArgumentError, err.Kind)
	assert.Equal(t, "unsupported platform", err.Msg)
}

func TestCoalesceAndTernary(t *testing.T) {
	assert.Equal(t, "b", call(t, "coalesce", nil, "", "b", "c"))
	assert.Nil(t, call(t, "coalesce", nil, ""))

	assert.Equal(t, "yes", call(t, "ternary", "yes", "no", true))
	assert.Equal(t, "no", call(t, "ternary", "yes", "no", values.Missing))
}

func TestIntConversion(t *testing.T) {
	assert.Equal(t, int64(42), call(t, "int", "42"))
	assert.Equal(t, int64(42), call(t, "int", " 42 "))
	assert.Equal(t, int64(3), call(t, "int", 3.9))
	assert.Equal(t, int64(1), call(t, "int", true))

	err := callErr(t, "int", "not-a-number")
	assert.Equal(t, template.InvalidArgumentError, err.Kind)
}

func TestQuoteAndSquote(t *testing.T) {
	assert.Equal(t, `"hi there"`, call(t, "quote", "hi there"))
	assert.Equal(t, `"say \"hi\""`, call(t, "quote", `say "hi"`))
	assert.Equal(t, `"80"`, call(t, "quote", int64(80)))

	assert.Equal(t, `'plain'`, call(t, "squote", "plain"))
	assert.Equal(t, `'it''s'`, call(t, "squote", "it's"))
}

func TestStringTransforms(t *testing.T) {
	assert.Equal(t, "ABC", call(t, "upper", "abc"))
	assert.Equal(t, "abc", call(t, "lower", "ABC"))
	assert.Equal(t, "x", call(t, "trim", "  x  "))
	assert.Equal(t, "ababab", call(t, "repeat", "ab", int64(3)))
	assert.Equal(t, "Hello World", call(t, "title", "hello world"))

	// subject is the last argument so values pipe into it
	assert.Equal(t, "chart", call(t, "trimPrefix", "my-", "my-chart"))
	assert.Equal(t, "my", call(t, "trimSuffix", "-chart", "my-chart"))
	assert.Equal(t, true, call(t, "hasPrefix", "my-", "my-chart"))
	assert.Equal(t, true, call(t, "contains", "y-c", "my-chart"))
	assert.Equal(t, "my_chart", call(t, "replace", "-", "_", "my-chart"))
	assert.Equal(t, "abc", call(t, "trunc", int64(3), "abcdef"))
	assert.Equal(t, "abc", call(t, "trunc", int64(99), "abc"))
}

func TestRepeatNegativeCount(t *testing.T) {
	err := callErr(t, "repeat", "ab", int64(-1))
	assert.Equal(t, template.InvalidArgumentError, err.Kind)
}

func TestIndentAndNindent(t *testing.T) {
	assert.Equal(t, "  a\n  b", call(t, "indent", int64(2), "a\nb"))
	assert.Equal(t, "\n    a\n    b", call(t, "nindent", int64(4), "a\nb"))
}

func TestJoinAndSplit(t *testing.T) {
	assert.Equal(t, "a,b,80", call(t, "join", ",", []interface{}{"a", "b", int64(80)}))
	assert.Equal(t, []interface{}{"a", "b"}, call(t, "split", ",", "a,b"))
}

func TestPrintf(t *testing.T) {
	assert.Equal(t, "app-7", call(t, "printf", "%s-%d", "app", int64(7)))
	assert.Equal(t, "100%", call(t, "printf", "%d%%", int64(100)))

	// arguments are free to contain formatting-looking text
	assert.Equal(t, "100%!important", call(t, "printf", "%s", "100%!important"))

	err := callErr(t, "printf", "%s-%d", "app")
	assert.Equal(t, template.InvalidArgumentError, err.Kind)
	assert.Equal(t, `printf: format "%s-%d" expects 2 arguments, got 1`, err.Msg)

	err = callErr(t, "printf", "%s", "a", "b")
	assert.Equal(t, template.InvalidArgumentError, err.Kind)
}

func TestEncoding(t *testing.T) {
	assert.Equal(t, "aGVsbG8=", call(t, "b64enc", "hello"))
	assert.Equal(t, "hello", call(t, "b64dec", "aGVsbG8="))
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		call(t, "sha256sum", "hello"))

	err := callErr(t, "b64dec", "!!! not base64 !!!")
	assert.Equal(t, template.DecodeError, err.Kind)
}

func TestToYaml(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("replicas", int64(2))
	nested := orderedmap.NewMap()
	nested.Set("tag", "v1")
	m.Set("image", nested)

	assert.Equal(t, "replicas: 2\nimage:\n  tag: v1", call(t, "toYaml", m))
}

func TestFromYaml(t *testing.T) {
	result := call(t, "fromYaml", "a: 1\nb:\n- x\n- y")

	m, ok := result.(*orderedmap.Map)
	require.True(t, ok)
	a, _ := m.Get("a")
	assert.Equal(t, int64(1), a)
	b, _ := m.Get("b")
	assert.Equal(t, []interface{}{"x", "y"}, b)

	err := callErr(t, "fromYaml", "{ unclosed")
	assert.Equal(t, template.DecodeError, err.Kind)
}

func TestJSONFuncs(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("b", int64(1))
	m.Set("a", "x")
	assert.Equal(t, `{"b":1,"a":"x"}`, call(t, "toJson", m))

	result := call(t, "fromJson", `{"k":7}`)
	decoded, ok := result.(*orderedmap.Map)
	require.True(t, ok)
	k, _ := decoded.Get("k")
	assert.Equal(t, int64(7), k)
}

func TestToToml(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("title", "demo")

	result := call(t, "toToml", m)
	assert.Contains(t, result.(string), `title = "demo"`)

	err := callErr(t, "toToml", []interface{}{"not", "a", "mapping"})
	assert.Equal(t, template.InvalidArgumentError, err.Kind)
}

func TestDictListAndKeys(t *testing.T) {
	result := call(t, "dict", "a", int64(1), "b", int64(2))
	m := result.(*orderedmap.Map)
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	err := callErr(t, "dict", "a")
	assert.Equal(t, template.ArityError, err.Kind)

	assert.Equal(t, []interface{}{int64(1), "x"}, call(t, "list", int64(1), "x"))
	assert.Equal(t, []interface{}{"a", "b"}, call(t, "keys", m))
}

func TestMergeOverrides(t *testing.T) {
	dst := orderedmap.NewMap()
	dst.Set("a", int64(1))
	dst.Set("b", int64(2))
	src := orderedmap.NewMap()
	src.Set("b", int64(3))

	result := call(t, "merge", dst, src).(*orderedmap.Map)
	b, _ := result.Get("b")
	assert.Equal(t, int64(3), b)

	// inputs untouched
	origB, _ := dst.Get("b")
	assert.Equal(t, int64(2), origB)
}

func TestHasKeyAndGet(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("present", nil)

	assert.Equal(t, true, call(t, "hasKey", m, "present"))
	assert.Equal(t, false, call(t, "hasKey", m, "absent"))

	assert.Nil(t, call(t, "get", m, "present"))
	assert.True(t, values.IsMissing(call(t, "get", m, "absent")))
}

func TestPluckSkipsAbsent(t *testing.T) {
	m1 := orderedmap.NewMap()
	m1.Set("port", int64(80))
	m2 := orderedmap.NewMap()
	m3 := orderedmap.NewMap()
	m3.Set("port", int64(443))

	assert.Equal(t, []interface{}{int64(80), int64(443)}, call(t, "pluck", "port", m1, m2, m3))
}

func TestSequenceFuncs(t *testing.T) {
	seq := []interface{}{"a", "b", "c"}
	assert.Equal(t, true, call(t, "has", "b", seq))
	assert.Equal(t, false, call(t, "has", "z", seq))
	assert.Equal(t, "a", call(t, "first", seq))
	assert.Equal(t, "c", call(t, "last", seq))
	assert.True(t, values.IsMissing(call(t, "first", []interface{}{})))
	assert.Equal(t, int64(3), call(t, "len", seq))
	assert.Equal(t, int64(0), call(t, "len", nil))
}

func TestMath(t *testing.T) {
	assert.Equal(t, int64(6), call(t, "add", int64(1), int64(2), int64(3)))
	assert.Equal(t, int64(4), call(t, "sub", int64(7), int64(3)))
	assert.Equal(t, int64(21), call(t, "mul", int64(7), int64(3)))
	assert.Equal(t, int64(2), call(t, "div", int64(7), int64(3)))
	assert.Equal(t, int64(1), call(t, "mod", int64(7), int64(3)))

	err := callErr(t, "div", int64(1), int64(0))
	assert.Equal(t, template.InvalidArgumentError, err.Kind)
}

func TestSemverCompare(t *testing.T) {
	assert.Equal(t, true, call(t, "semverCompare", ">= 1.20.0", "1.25.3"))
	assert.Equal(t, true, call(t, "semverCompare", ">= 1.20.0", "v1.25.3"))
	assert.Equal(t, false, call(t, "semverCompare", ">= 1.20.0", "1.19.0"))

	err := callErr(t, "semverCompare", ">= 1.20.0", "not-a-version")
	assert.Equal(t, template.VersionParseError, err.Kind)
}

func TestSemverParts(t *testing.T) {
	result := call(t, "semver", "1.22.3-beta.1").(*orderedmap.Map)

	major, _ := result.Get("Major")
	assert.Equal(t, int64(1), major)
	minor, _ := result.Get("Minor")
	assert.Equal(t, int64(22), minor)
	prerelease, _ := result.Get("Prerelease")
	assert.Equal(t, "beta.1", prerelease)
}

func TestRegexFuncs(t *testing.T) {
	assert.Equal(t, true, call(t, "regexMatch", `^v\d+$`, "v12"))
	assert.Equal(t, false, call(t, "regexMatch", `^v\d+$`, "va"))
	assert.Equal(t, "x-x-", call(t, "regexReplaceAll", `\d`, "-", "x1x2"))

	err := callErr(t, "regexMatch", "(", "x")
	assert.Equal(t, template.RegexCompileError, err.Kind)
}

func TestArityErrors(t *testing.T) {
	err := callErr(t, "quote")
	assert.Equal(t, template.ArityError, err.Kind)

	err = callErr(t, "quote", "a", "b")
	assert.Equal(t, template.ArityError, err.Kind)

	err = callErr(t, "nosuchfn", "a")
	assert.Equal(t, template.ParseError, err.Kind)
}
