// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package filepos

import (
	"fmt"
)

// Position points at a line (and optionally a column) within a named
// template source. Lines and columns are 1 based.
type Position struct {
	source  string
	lineNum int
	colNum  int
	known   bool
}

func NewPosition(lineNum int) *Position {
	if lineNum <= 0 {
		panic("Lines are 1 based")
	}
	return &Position{lineNum: lineNum, known: true}
}

// NewPositionInSource returns the Position of line "lineNum" within the
// template source "source".
func NewPositionInSource(lineNum int, source string) *Position {
	p := NewPosition(lineNum)
	p.source = source
	return p
}

// NewUnknownPosition is equivalent of zero value *Position
func NewUnknownPosition() *Position {
	return &Position{}
}

func (p *Position) SetCol(colNum int) *Position {
	p.colNum = colNum
	return p
}

func (p *Position) IsKnown() bool { return p != nil && p.known }

func (p *Position) LineNum() int {
	if !p.IsKnown() {
		panic("Position is unknown")
	}
	return p.lineNum
}

func (p *Position) ColNum() int { return p.colNum }

func (p *Position) Source() string { return p.source }

func (p *Position) AsString() string {
	return "line " + p.AsCompactString()
}

// AsCompactString renders as "source:line:col", dropping the pieces that
// are not known.
func (p *Position) AsCompactString() string {
	prefix := p.source
	if len(prefix) > 0 {
		prefix += ":"
	}
	if !p.IsKnown() {
		return prefix + "?"
	}
	if p.colNum > 0 {
		return fmt.Sprintf("%s%d:%d", prefix, p.lineNum, p.colNum)
	}
	return fmt.Sprintf("%s%d", prefix, p.lineNum)
}

func (p *Position) DeepCopy() *Position {
	if p == nil {
		return nil
	}
	newP := *p
	return &newP
}
