// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"chartfold.dev/chartfold/pkg/filepos"
)

// Node is one item of a parsed template: a literal text run, an action,
// or a control block with nested node sequences.
type Node interface {
	Pos() *filepos.Position
}

var _ = []Node{&TextNode{}, &ActionNode{}, &IfNode{}, &RangeNode{},
	&WithNode{}, &DefineNode{}, &TemplateNode{}}

// TextNode is literal output, with any chomp-marker trimming already
// applied at parse time.
type TextNode struct {
	Text     string
	Position *filepos.Position
}

// ActionNode is a {{ pipeline }} whose result is written to output, or,
// when the pipeline only declares variables, writes nothing.
type ActionNode struct {
	Pipe     *Pipeline
	Position *filepos.Position
}

type IfNode struct {
	Pipe     *Pipeline
	Then     []Node
	Else     []Node // nil when no else branch; else-if chains nest here
	Position *filepos.Position
}

type RangeNode struct {
	KeyVar   string // optional; "" when not declared
	ValVar   string // optional
	Pipe     *Pipeline
	Body     []Node
	Position *filepos.Position
}

type WithNode struct {
	Pipe     *Pipeline
	Body     []Node
	Position *filepos.Position
}

// DefineNode registers a named template. Its body is never evaluated in
// place; evaluating the node itself emits nothing.
type DefineNode struct {
	Name     string
	Body     []Node
	Position *filepos.Position
}

// TemplateNode is a {{ template "name" pipeline }} invocation: output is
// emitted directly and cannot be piped further (unlike the include
// function, which returns the output as a pipeline value).
type TemplateNode struct {
	Name     string
	Pipe     *Pipeline // optional context; nil means no argument
	Position *filepos.Position
}

func (n *TextNode) Pos() *filepos.Position     { return n.Position }
func (n *ActionNode) Pos() *filepos.Position   { return n.Position }
func (n *IfNode) Pos() *filepos.Position       { return n.Position }
func (n *RangeNode) Pos() *filepos.Position    { return n.Position }
func (n *WithNode) Pos() *filepos.Position     { return n.Position }
func (n *DefineNode) Pos() *filepos.Position   { return n.Position }
func (n *TemplateNode) Pos() *filepos.Position { return n.Position }

// Pipeline is an ordered sequence of commands; the value computed by each
// command is appended as the last argument of the next.
type Pipeline struct {
	Vars     []string // variable names declared via :=, without the $
	Cmds     []*Command
	Position *filepos.Position
}

// Command is a single pipeline stage: either a lone operand (Ident == "")
// or a function name with leading arguments.
type Command struct {
	Ident    string
	Args     []Arg
	Position *filepos.Position
}

// Arg is an operand within a command.
type Arg interface {
	argNode()
}

var _ = []Arg{FieldArg{}, VarArg{}, LiteralArg{}, SubPipelineArg{}}

// FieldArg is a dot-path reference resolved against the current dot;
// an empty Path means dot itself.
type FieldArg struct {
	Path []string
}

// VarArg references a declared variable, optionally descending into it.
// Name "$" refers to the root context of the current template invocation.
type VarArg struct {
	Name string
	Path []string
}

// LiteralArg holds a constant: string, int64, float64, bool or nil.
type LiteralArg struct {
	Val interface{}
}

// SubPipelineArg is a parenthesized pipeline evaluated as an operand.
type SubPipelineArg struct {
	Pipe *Pipeline
}

func (FieldArg) argNode()       {}
func (VarArg) argNode()         {}
func (LiteralArg) argNode()     {}
func (SubPipelineArg) argNode() {}
