// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package render

// scope is one frame of the evaluation stack. A frame is created on
// entering a block (or template invocation) and dropped on leaving it, so
// bindings can never leak into sibling blocks. Frames chain to their
// parent for variable lookup; dot and root are fixed per frame.
type scope struct {
	parent *scope
	dot    interface{}
	root   interface{} // what $ resolves to within this template invocation
	vars   map[string]interface{}
}

// newScope starts a fresh stack for one template invocation: dot and $
// both bind to data, and no outer variables are visible.
func newScope(data interface{}) *scope {
	return &scope{dot: data, root: data}
}

// child pushes a frame with dot rebound (range element, with subject).
func (s *scope) child(dot interface{}) *scope {
	return &scope{parent: s, dot: dot, root: s.root}
}

// childSameDot pushes a frame without rebinding dot (if branches), so
// variables declared inside stay local to the branch.
func (s *scope) childSameDot() *scope {
	return s.child(s.dot)
}

func (s *scope) declare(name string, val interface{}) {
	if s.vars == nil {
		s.vars = map[string]interface{}{}
	}
	s.vars[name] = val
}

func (s *scope) lookup(name string) (interface{}, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if val, found := cur.vars[name]; found {
			return val, true
		}
	}
	return nil, false
}
