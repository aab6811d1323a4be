// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package template_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartfold.dev/chartfold/pkg/template"
)

func TestParseTextAndActions(t *testing.T) {
	nodes, err := template.NewParser().Parse([]byte("name: {{ .Values.name }}\n"), "tpl.yaml")
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	text, ok := nodes[0].(*template.TextNode)
	require.True(t, ok, "expected leading text node")
	assert.Equal(t, "name: ", text.Text)

	action, ok := nodes[1].(*template.ActionNode)
	require.True(t, ok, "expected action node")
	require.Len(t, action.Pipe.Cmds, 1)

	field, ok := action.Pipe.Cmds[0].Args[0].(template.FieldArg)
	require.True(t, ok, "expected field operand")
	assert.Equal(t, []string{"Values", "name"}, field.Path)

	trailing, ok := nodes[2].(*template.TextNode)
	require.True(t, ok)
	assert.Equal(t, "\n", trailing.Text)
}

func TestParsePipelineStages(t *testing.T) {
	nodes, err := template.NewParser().Parse([]byte(`{{ .Values.tag | default "latest" | quote }}`), "tpl.yaml")
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	action := nodes[0].(*template.ActionNode)
	require.Len(t, action.Pipe.Cmds, 3)

	assert.Equal(t, "", action.Pipe.Cmds[0].Ident)
	assert.Equal(t, "default", action.Pipe.Cmds[1].Ident)
	assert.Equal(t, template.LiteralArg{Val: "latest"}, action.Pipe.Cmds[1].Args[0])
	assert.Equal(t, "quote", action.Pipe.Cmds[2].Ident)
	assert.Empty(t, action.Pipe.Cmds[2].Args)
}

func TestParseVariableDeclaration(t *testing.T) {
	nodes, err := template.NewParser().Parse([]byte(`{{ $name := .Values.name }}`), "tpl.yaml")
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	action := nodes[0].(*template.ActionNode)
	assert.Equal(t, []string{"name"}, action.Pipe.Vars)
	require.Len(t, action.Pipe.Cmds, 1)
}

func TestParseDollarRootReference(t *testing.T) {
	nodes, err := template.NewParser().Parse([]byte(`{{ $.Values.global }}`), "tpl.yaml")
	require.NoError(t, err)

	action := nodes[0].(*template.ActionNode)
	varArg, ok := action.Pipe.Cmds[0].Args[0].(template.VarArg)
	require.True(t, ok)
	assert.Equal(t, "$", varArg.Name)
	assert.Equal(t, []string{"Values", "global"}, varArg.Path)
}

func TestParseNestedBlocks(t *testing.T) {
	src := `{{ if .Values.enabled }}{{ range $k, $v := .Values.labels }}{{ $k }}={{ $v }}
{{ end }}{{ else }}disabled{{ end }}`

	nodes, err := template.NewParser().Parse([]byte(src), "tpl.yaml")
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	ifNode, ok := nodes[0].(*template.IfNode)
	require.True(t, ok)
	require.Len(t, ifNode.Then, 1)
	require.Len(t, ifNode.Else, 1)

	rangeNode, ok := ifNode.Then[0].(*template.RangeNode)
	require.True(t, ok)
	assert.Equal(t, "k", rangeNode.KeyVar)
	assert.Equal(t, "v", rangeNode.ValVar)
	require.Len(t, rangeNode.Body, 4)

	elseText, ok := ifNode.Else[0].(*template.TextNode)
	require.True(t, ok)
	assert.Equal(t, "disabled", elseText.Text)
}

func TestParseElseIfChain(t *testing.T) {
	src := `{{ if .A }}a{{ else if .B }}b{{ else }}c{{ end }}`

	nodes, err := template.NewParser().Parse([]byte(src), "tpl.yaml")
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	outer := nodes[0].(*template.IfNode)
	require.Len(t, outer.Else, 1, "else-if should nest as a single IfNode")

	inner, ok := outer.Else[0].(*template.IfNode)
	require.True(t, ok)
	require.Len(t, inner.Then, 1)
	require.Len(t, inner.Else, 1)
}

func TestParseDefineAndTemplate(t *testing.T) {
	src := `{{ define "app.name" }}{{ .Values.name }}{{ end }}{{ template "app.name" . }}`

	nodes, err := template.NewParser().Parse([]byte(src), "tpl.yaml")
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	define, ok := nodes[0].(*template.DefineNode)
	require.True(t, ok)
	assert.Equal(t, "app.name", define.Name)
	require.Len(t, define.Body, 1)

	tplNode, ok := nodes[1].(*template.TemplateNode)
	require.True(t, ok)
	assert.Equal(t, "app.name", tplNode.Name)
	require.NotNil(t, tplNode.Pipe)
}

func TestParseChompMarkers(t *testing.T) {
	examples := []struct {
		description string
		src         string
		textBefore  string
		textAfter   string
	}{
		{
			description: "leading chomp trims spaces and one newline",
			src:         "key:\n  {{- .Values.x }}\nnext",
			textBefore:  "key:",
			textAfter:   "\nnext",
		},
		{
			description: "trailing chomp trims spaces and one newline",
			src:         "a{{ .Values.x -}}  \nb",
			textBefore:  "a",
			textAfter:   "b",
		},
		{
			description: "only one newline is trimmed",
			src:         "a{{ .Values.x -}}\n\nb",
			textBefore:  "a",
			textAfter:   "\nb",
		},
	}

	for _, ex := range examples {
		t.Run(ex.description, func(t *testing.T) {
			nodes, err := template.NewParser().Parse([]byte(ex.src), "tpl.yaml")
			require.NoError(t, err)
			require.Len(t, nodes, 3)
			assert.Equal(t, ex.textBefore, nodes[0].(*template.TextNode).Text)
			assert.Equal(t, ex.textAfter, nodes[2].(*template.TextNode).Text)
		})
	}
}

func TestParseChompRequiresSpace(t *testing.T) {
	// "{{-3}}" is a negative number literal, not a chomp marker
	nodes, err := template.NewParser().Parse([]byte(`{{-3}}`), "tpl.yaml")
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	action := nodes[0].(*template.ActionNode)
	assert.Equal(t, template.LiteralArg{Val: int64(-3)}, action.Pipe.Cmds[0].Args[0])
}

func TestParseErrors(t *testing.T) {
	examples := []struct {
		description string
		src         string
		expectedErr string
	}{
		{"unclosed action", "a{{ .Values.x", "unclosed action"},
		{"unterminated if", "{{ if .Values.x }}body", "unclosed if block"},
		{"end without block", "{{ end }}", "unexpected {{end}}"},
		{"else without if", "{{ else }}", "unexpected else"},
		{"else after else", "{{ if .A }}{{ else }}{{ else }}{{ end }}", "second else"},
		{"empty action", "{{ }}", "missing content"},
		{"unterminated string", `{{ default "x }}`, "unclosed action"},
		{"else within range", "{{ range .Items }}{{ else }}{{ end }}", "does not support else"},
		{"declaration in if condition", "{{ if $x := 1 }}{{ end }}", ""},
	}

	for _, ex := range examples {
		t.Run(ex.description, func(t *testing.T) {
			_, err := template.NewParser().Parse([]byte(ex.src), "tpl.yaml")
			if ex.expectedErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)

			engineErr := template.AsEngineErr(err, template.ParseError)
			assert.Equal(t, template.ParseError, engineErr.Kind)
			assert.Contains(t, strings.ToLower(engineErr.Error()), ex.expectedErr)
		})
	}
}

func TestParsePositions(t *testing.T) {
	src := "line one\nname: {{ .Values.name }}\n"

	nodes, err := template.NewParser().Parse([]byte(src), "tpl.yaml")
	require.NoError(t, err)

	var action *template.ActionNode
	for _, node := range nodes {
		if a, ok := node.(*template.ActionNode); ok {
			action = a
		}
	}
	require.NotNil(t, action)
	assert.Equal(t, "tpl.yaml:2:7", action.Pos().AsCompactString())
}
