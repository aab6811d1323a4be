// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"chartfold.dev/chartfold/pkg/template"
)

// Registry maps template names to their bodies. It is filled in a
// pre-pass over every source supplied to a render (so forward references
// resolve) and is read-only during evaluation, except for definitions
// introduced by tpl-rendered strings.
//
// A later define with an already-registered name overwrites the earlier
// one. That is deliberate: charts override library templates by
// redefining them.
type Registry struct {
	defs map[string][]template.Node
}

func NewRegistry() *Registry {
	return &Registry{defs: map[string][]template.Node{}}
}

func (r *Registry) Define(name string, body []template.Node) {
	r.defs[name] = body
}

func (r *Registry) Lookup(name string) ([]template.Node, bool) {
	body, found := r.defs[name]
	return body, found
}

// CollectDefines walks a node sequence and registers every define block,
// including ones nested inside control blocks.
func (r *Registry) CollectDefines(nodes []template.Node) {
	for _, node := range nodes {
		switch typedNode := node.(type) {
		case *template.DefineNode:
			r.Define(typedNode.Name, typedNode.Body)
			r.CollectDefines(typedNode.Body)
		case *template.IfNode:
			r.CollectDefines(typedNode.Then)
			r.CollectDefines(typedNode.Else)
		case *template.RangeNode:
			r.CollectDefines(typedNode.Body)
		case *template.WithNode:
			r.CollectDefines(typedNode.Body)
		}
	}
}
