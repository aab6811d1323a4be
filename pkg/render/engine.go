// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strings"

	"chartfold.dev/chartfold/pkg/cluster"
	"chartfold.dev/chartfold/pkg/funclib"
	"chartfold.dev/chartfold/pkg/spell"
	"chartfold.dev/chartfold/pkg/template"
	"chartfold.dev/chartfold/pkg/values"
)

// defaultMaxDepth bounds nested template invocations (include, template,
// tpl). A tpl string that re-renders itself hits this instead of
// exhausting the call stack.
const defaultMaxDepth = 50

// Source is one template text supplied to a render.
type Source struct {
	Name string
	Data string
}

// RenderedSource pairs a source with its rendered output.
type RenderedSource struct {
	Name   string
	Output string
}

// EngineOpts configures an Engine. Zero values pick the full function
// library, the offline resolver and the default recursion limit.
type EngineOpts struct {
	Funcs    *funclib.Library
	Resolver cluster.Resolver
	MaxDepth int
}

// Engine renders template sources against a value context. An Engine is
// stateless across renders and safe for concurrent use; all per-render
// state (scopes, registry, recursion depth) lives in the render itself.
type Engine struct {
	funcs    *funclib.Library
	resolver cluster.Resolver
	maxDepth int
	parser   *template.Parser
}

func NewEngine(opts EngineOpts) *Engine {
	if opts.Funcs == nil {
		opts.Funcs = funclib.NewLibrary()
	}
	if opts.Resolver == nil {
		opts.Resolver = cluster.NewNoopResolver()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	return &Engine{
		funcs:    opts.Funcs,
		resolver: opts.Resolver,
		maxDepth: opts.MaxDepth,
		parser:   template.NewParser(),
	}
}

// Render renders every source in order against ctx and returns the
// concatenated output. Failure at any point discards all output.
func (e *Engine) Render(srcs []Source, ctx *values.Context) (string, error) {
	rendered, err := e.RenderSources(srcs, ctx)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, r := range rendered {
		out.WriteString(r.Output)
	}
	return out.String(), nil
}

// RenderSources renders every source in order, returning per-source
// outputs. All sources are parsed and all defines registered before any
// evaluation begins, so a template may invoke one defined later in
// source order.
func (e *Engine) RenderSources(srcs []Source, ctx *values.Context) ([]RenderedSource, error) {
	type parsedSource struct {
		name  string
		nodes []template.Node
	}

	registry := NewRegistry()
	var parsed []parsedSource

	for _, src := range srcs {
		nodes, err := e.parser.Parse([]byte(src.Data), src.Name)
		if err != nil {
			return nil, err
		}
		if err := e.validate(nodes); err != nil {
			return nil, err
		}
		registry.CollectDefines(nodes)
		parsed = append(parsed, parsedSource{src.Name, nodes})
	}

	st := &evalState{engine: e, registry: registry, ctx: ctx}

	var result []RenderedSource
	for _, src := range parsed {
		var out strings.Builder
		root := ctx.RootForTemplate(src.name)
		if err := st.evalNodes(src.nodes, newScope(root), &out); err != nil {
			return nil, err
		}
		result = append(result, RenderedSource{Name: src.name, Output: out.String()})
	}
	return result, nil
}

// runtime functions are evaluator-coupled and therefore not part of the
// static function library
var runtimeFuncs = map[string]bool{
	"include": true,
	"tpl":     true,
	"lookup":  true,
}

// validate rejects pipelines whose function names cannot resolve, before
// evaluation begins. Anything the parser could not know statically (bad
// arity of variadic calls, argument types) still fails at evaluation.
func (e *Engine) validate(nodes []template.Node) error {
	for _, node := range nodes {
		var err error
		switch typedNode := node.(type) {
		case *template.ActionNode:
			err = e.validatePipeline(typedNode.Pipe)
		case *template.IfNode:
			err = firstErr(e.validatePipeline(typedNode.Pipe),
				e.validate(typedNode.Then), e.validate(typedNode.Else))
		case *template.RangeNode:
			err = firstErr(e.validatePipeline(typedNode.Pipe), e.validate(typedNode.Body))
		case *template.WithNode:
			err = firstErr(e.validatePipeline(typedNode.Pipe), e.validate(typedNode.Body))
		case *template.DefineNode:
			err = e.validate(typedNode.Body)
		case *template.TemplateNode:
			if typedNode.Pipe != nil {
				err = e.validatePipeline(typedNode.Pipe)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) validatePipeline(pipe *template.Pipeline) error {
	for i, cmd := range pipe.Cmds {
		if cmd.Ident == "" {
			if i > 0 {
				return template.NewError(template.ParseError,
					"every pipeline stage after the first must be a function").WithPosition(cmd.Position)
			}
		} else if !e.funcs.Has(cmd.Ident) && !runtimeFuncs[cmd.Ident] {
			if suggestion, found := spell.Nearest(cmd.Ident, e.funcs.Names()); found {
				return template.NewErrorf(template.ParseError,
					"unknown function %q (did you mean %q?)", cmd.Ident, suggestion).WithPosition(cmd.Position)
			}
			return template.NewErrorf(template.ParseError,
				"unknown function %q", cmd.Ident).WithPosition(cmd.Position)
		}
		for _, arg := range cmd.Args {
			if subPipe, ok := arg.(template.SubPipelineArg); ok {
				if err := e.validatePipeline(subPipe.Pipe); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
