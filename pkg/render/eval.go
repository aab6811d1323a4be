// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strings"

	"chartfold.dev/chartfold/pkg/experiments"
	"chartfold.dev/chartfold/pkg/filepos"
	"chartfold.dev/chartfold/pkg/orderedmap"
	"chartfold.dev/chartfold/pkg/template"
	"chartfold.dev/chartfold/pkg/values"
)

// evalState is the per-render evaluation context: the shared registry,
// the value context and the recursion depth across include/template/tpl
// invocations.
type evalState struct {
	engine   *Engine
	registry *Registry
	ctx      *values.Context
	depth    int
}

func (st *evalState) evalNodes(nodes []template.Node, sc *scope, out *strings.Builder) error {
	for _, node := range nodes {
		if err := st.evalNode(node, sc, out); err != nil {
			return err
		}
	}
	return nil
}

func (st *evalState) evalNode(node template.Node, sc *scope, out *strings.Builder) error {
	switch typedNode := node.(type) {
	case *template.TextNode:
		out.WriteString(typedNode.Text)
		return nil

	case *template.ActionNode:
		result, err := st.evalPipeline(typedNode.Pipe, sc)
		if err != nil {
			return err
		}
		if len(typedNode.Pipe.Vars) > 0 {
			// a declaring action binds and emits nothing
			for _, name := range typedNode.Pipe.Vars {
				sc.declare(name, result)
			}
			return nil
		}
		if values.IsMissing(result) && experiments.IsStrictAbsentEnabled() {
			return template.NewError(template.InvalidArgumentError,
				"action resolved to an absent value").WithPosition(typedNode.Position)
		}
		out.WriteString(values.Stringify(result))
		return nil

	case *template.IfNode:
		cond, err := st.evalPipeline(typedNode.Pipe, sc)
		if err != nil {
			return err
		}
		frame := sc.childSameDot()
		for _, name := range typedNode.Pipe.Vars {
			frame.declare(name, cond)
		}
		if values.Truthy(cond) {
			return st.evalNodes(typedNode.Then, frame, out)
		}
		return st.evalNodes(typedNode.Else, frame, out)

	case *template.RangeNode:
		return st.evalRange(typedNode, sc, out)

	case *template.WithNode:
		subject, err := st.evalPipeline(typedNode.Pipe, sc)
		if err != nil {
			return err
		}
		if values.IsEmpty(subject) {
			return nil
		}
		frame := sc.child(subject)
		for _, name := range typedNode.Pipe.Vars {
			frame.declare(name, subject)
		}
		return st.evalNodes(typedNode.Body, frame, out)

	case *template.DefineNode:
		// registered during the pre-pass; nothing to emit here
		return nil

	case *template.TemplateNode:
		data := interface{}(nil)
		if typedNode.Pipe != nil {
			var err error
			data, err = st.evalPipeline(typedNode.Pipe, sc)
			if err != nil {
				return err
			}
		}
		rendered, err := st.renderNamed(typedNode.Name, data, typedNode.Position)
		if err != nil {
			return err
		}
		out.WriteString(rendered)
		return nil
	}
	return template.NewErrorf(template.ParseError, "unknown node type %T", node)
}

func (st *evalState) evalRange(node *template.RangeNode, sc *scope, out *strings.Builder) error {
	collection, err := st.evalPipeline(node.Pipe, sc)
	if err != nil {
		return err
	}

	iterate := func(key interface{}, val interface{}) error {
		frame := sc.child(val)
		if node.KeyVar != "" {
			frame.declare(node.KeyVar, key)
		}
		if node.ValVar != "" {
			frame.declare(node.ValVar, val)
		}
		return st.evalNodes(node.Body, frame, out)
	}

	switch typedCollection := collection.(type) {
	case nil:
		return nil
	case []interface{}:
		for i, item := range typedCollection {
			if err := iterate(int64(i), item); err != nil {
				return err
			}
		}
		return nil
	case *orderedmap.Map:
		// mapping entries iterate in key insertion order; stable within
		// a render and across renders of the same inputs
		return typedCollection.IterateErr(func(k string, v interface{}) error {
			return iterate(k, v)
		})
	}
	if values.IsMissing(collection) {
		return nil
	}
	return template.NewErrorf(template.InvalidArgumentError,
		"range: cannot iterate over %s", values.KindOf(collection)).WithPosition(node.Position)
}

func (st *evalState) evalPipeline(pipe *template.Pipeline, sc *scope) (interface{}, error) {
	var accumulated interface{}

	for i, cmd := range pipe.Cmds {
		args := make([]interface{}, 0, len(cmd.Args)+1)
		for _, arg := range cmd.Args {
			val, err := st.evalArg(arg, sc, cmd.Position)
			if err != nil {
				return nil, err
			}
			args = append(args, val)
		}
		if i > 0 {
			args = append(args, accumulated)
		}

		if cmd.Ident == "" {
			accumulated = args[0]
			continue
		}

		result, err := st.callFunction(cmd.Ident, args, cmd.Position)
		if err != nil {
			return nil, template.AsEngineErr(err, template.InvalidArgumentError).WithPosition(cmd.Position)
		}
		accumulated = result
	}
	return accumulated, nil
}

func (st *evalState) evalArg(arg template.Arg, sc *scope, pos *filepos.Position) (interface{}, error) {
	switch typedArg := arg.(type) {
	case template.LiteralArg:
		return typedArg.Val, nil

	case template.FieldArg:
		if len(typedArg.Path) == 0 {
			return sc.dot, nil
		}
		val, _ := values.Resolve(sc.dot, typedArg.Path)
		return val, nil

	case template.VarArg:
		var base interface{}
		if typedArg.Name == "$" {
			base = sc.root
		} else {
			var found bool
			base, found = sc.lookup(typedArg.Name)
			if !found {
				return nil, template.NewErrorf(template.InvalidArgumentError,
					"undefined variable $%s", typedArg.Name).WithPosition(pos)
			}
		}
		if len(typedArg.Path) == 0 {
			return base, nil
		}
		val, _ := values.Resolve(base, typedArg.Path)
		return val, nil

	case template.SubPipelineArg:
		return st.evalPipeline(typedArg.Pipe, sc)
	}
	return nil, template.NewErrorf(template.ParseError, "unknown argument type %T", arg)
}

// callFunction dispatches either to the pure function library or to the
// evaluator-coupled runtime functions.
func (st *evalState) callFunction(name string, args []interface{}, pos *filepos.Position) (interface{}, error) {
	switch name {
	case "include":
		return st.callInclude(args, pos)
	case "tpl":
		return st.callTpl(args, pos)
	case "lookup":
		return st.callLookup(args, pos)
	}
	return st.engine.funcs.Call(name, args)
}

// include renders a named template and returns its output as a pipeline
// value, so it composes with required, indent and friends. That is the
// whole reason it exists alongside the template action.
func (st *evalState) callInclude(args []interface{}, pos *filepos.Position) (interface{}, error) {
	if len(args) != 2 {
		return nil, template.NewErrorf(template.ArityError,
			"function \"include\" expects 2 arguments (name, context), got %d", len(args))
	}
	name, ok := args[0].(string)
	if !ok {
		return nil, template.NewErrorf(template.InvalidArgumentError,
			"include: template name must be a string, was %s", values.KindOf(args[0]))
	}
	return st.renderNamed(name, args[1], pos)
}

// tpl re-enters the parser and evaluator on a string, letting values
// themselves carry template syntax resolved at render time.
func (st *evalState) callTpl(args []interface{}, pos *filepos.Position) (interface{}, error) {
	if len(args) != 2 {
		return nil, template.NewErrorf(template.ArityError,
			"function \"tpl\" expects 2 arguments (template, context), got %d", len(args))
	}
	text, ok := args[0].(string)
	if !ok {
		return nil, template.NewErrorf(template.InvalidArgumentError,
			"tpl: template must be a string, was %s", values.KindOf(args[0]))
	}

	if err := st.enter(pos); err != nil {
		return nil, err
	}
	defer st.leave()

	nodes, err := st.engine.parser.Parse([]byte(text), "tpl")
	if err != nil {
		return nil, err
	}
	if err := st.engine.validate(nodes); err != nil {
		return nil, err
	}
	st.registry.CollectDefines(nodes)

	var out strings.Builder
	if err := st.evalNodes(nodes, newScope(args[1]), &out); err != nil {
		return nil, err
	}
	return out.String(), nil
}

// lookup queries the injected resolver. A missing resource is the absent
// sentinel (falsy, navigable), never an error; only transport failures
// abort the render.
func (st *evalState) callLookup(args []interface{}, pos *filepos.Position) (interface{}, error) {
	if len(args) != 4 {
		return nil, template.NewErrorf(template.ArityError,
			"function \"lookup\" expects 4 arguments (apiVersion, kind, namespace, name), got %d", len(args))
	}
	strArgs := make([]string, 4)
	for i, arg := range args {
		str, ok := arg.(string)
		if !ok {
			return nil, template.NewErrorf(template.InvalidArgumentError,
				"lookup: argument %d must be a string, was %s", i+1, values.KindOf(arg))
		}
		strArgs[i] = str
	}

	resource, found, err := st.engine.resolver.Lookup(strArgs[0], strArgs[1], strArgs[2], strArgs[3])
	if err != nil {
		return nil, template.NewErrorf(template.LookupError, "lookup %s/%s %s/%s: %s",
			strArgs[0], strArgs[1], strArgs[2], strArgs[3], err).WithPosition(pos)
	}
	if !found {
		return values.Missing, nil
	}
	return resource, nil
}

// renderNamed evaluates a registered template with a fresh scope holding
// exactly the passed context.
func (st *evalState) renderNamed(name string, data interface{}, pos *filepos.Position) (string, error) {
	body, found := st.registry.Lookup(name)
	if !found {
		return "", template.NewErrorf(template.TemplateNotFoundError,
			"template %q not found", name).WithPosition(pos)
	}

	if err := st.enter(pos); err != nil {
		return "", err
	}
	defer st.leave()

	var out strings.Builder
	if err := st.evalNodes(body, newScope(data), &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (st *evalState) enter(pos *filepos.Position) error {
	st.depth++
	if st.depth > st.engine.maxDepth {
		return template.NewErrorf(template.RecursionLimitError,
			"exceeded maximum template recursion depth (%d)", st.engine.maxDepth).WithPosition(pos)
	}
	return nil
}

func (st *evalState) leave() { st.depth-- }
