// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"strconv"
	"strings"

	"chartfold.dev/chartfold/pkg/filepos"
)

var blockKeywords = map[string]bool{
	"if": true, "else": true, "range": true, "with": true,
	"define": true, "end": true, "template": true,
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse consumes template text and produces its node sequence, or fails
// with a ParseError pointing at the offending line/column. Parsing is a
// pure function of the input: no registration or evaluation happens here.
func (p *Parser) Parse(data []byte, associatedName string) ([]Node, error) {
	r := &parseRun{
		src:    string(data),
		name:   associatedName,
		line:   1,
		frames: []*blockFrame{{kind: "root"}},
	}
	return r.parse()
}

type ifBranch struct {
	pipe *Pipeline
	body []Node
}

type blockFrame struct {
	kind     string // root, if, range, with, define
	pos      *filepos.Position
	name     string // define only
	keyVar   string // range only
	valVar   string // range only
	pipe     *Pipeline
	branches []*ifBranch // if only
	inElse   bool
	nodes    []Node // accumulation target for the currently open body
}

type parseRun struct {
	src    string
	name   string
	offset int
	line   int
	frames []*blockFrame

	// pendingChomp is set when the previous action carried a right chomp
	// marker, requesting the upcoming text run be trimmed on its left.
	pendingChomp bool
}

func (r *parseRun) parse() ([]Node, error) {
	for r.offset < len(r.src) {
		idx := strings.Index(r.src[r.offset:], "{{")
		if idx < 0 {
			r.emitText(r.src[r.offset:], false)
			r.offset = len(r.src)
			break
		}

		text := r.src[r.offset : r.offset+idx]
		actionStart := r.offset + idx
		actionLine := r.line + strings.Count(text, "\n")
		actionPos := filepos.NewPositionInSource(actionLine, r.name).SetCol(r.colOf(actionStart))

		innerStart := actionStart + 2
		leftChomp := false
		if innerStart < len(r.src) && r.src[innerStart] == '-' &&
			innerStart+1 < len(r.src) && isSpace(r.src[innerStart+1]) {
			leftChomp = true
			innerStart++
		}

		r.emitText(text, leftChomp)
		r.line = actionLine

		closeIdx := findActionEnd(r.src, innerStart)
		if closeIdx < 0 {
			return nil, NewError(ParseError, "unclosed action (missing \"}}\")").WithPosition(actionPos)
		}

		innerEnd := closeIdx
		rightChomp := false
		if innerEnd-1 >= innerStart && r.src[innerEnd-1] == '-' &&
			(innerEnd-1 == innerStart || isSpace(r.src[innerEnd-2])) {
			rightChomp = true
			innerEnd--
		}

		inner := r.src[innerStart:innerEnd]

		trimmed := strings.TrimSpace(inner)
		switch {
		case strings.HasPrefix(trimmed, "/*"):
			if !strings.HasSuffix(trimmed, "*/") || len(trimmed) < 4 {
				return nil, NewError(ParseError, "unclosed comment").WithPosition(actionPos)
			}
		default:
			toks, err := lexAction(inner, r.name, r.line, r.colOf(innerStart))
			if err != nil {
				return nil, err
			}
			if err := r.dispatch(toks, actionPos); err != nil {
				return nil, err
			}
		}

		r.line += strings.Count(r.src[innerStart:closeIdx], "\n")
		r.offset = closeIdx + 2
		r.pendingChomp = rightChomp
	}

	if len(r.frames) > 1 {
		top := r.frames[len(r.frames)-1]
		return nil, NewErrorf(ParseError, "unclosed %s block (missing {{end}})", top.kind).WithPosition(top.pos)
	}
	return r.frames[0].nodes, nil
}

func (r *parseRun) top() *blockFrame { return r.frames[len(r.frames)-1] }

func (r *parseRun) appendNode(node Node) {
	top := r.top()
	top.nodes = append(top.nodes, node)
}

func (r *parseRun) emitText(text string, trimTrailing bool) {
	pos := filepos.NewPositionInSource(r.line, r.name)
	if r.pendingChomp {
		text = chompLeading(text)
		r.pendingChomp = false
	}
	if trimTrailing {
		text = chompTrailing(text)
	}
	if len(text) > 0 {
		r.appendNode(&TextNode{Text: text, Position: pos})
	}
}

func (r *parseRun) colOf(offset int) int {
	lastNL := strings.LastIndexByte(r.src[:offset], '\n')
	return offset - lastNL
}

func (r *parseRun) dispatch(toks []token, pos *filepos.Position) error {
	if len(toks) == 0 {
		return NewError(ParseError, "missing content in action").WithPosition(pos)
	}

	first := toks[0]
	if first.typ != tokenIdent || !blockKeywords[first.val] {
		pipe, err := parseFullPipeline(toks, pos, true)
		if err != nil {
			return err
		}
		r.appendNode(&ActionNode{Pipe: pipe, Position: pos})
		return nil
	}

	switch first.val {
	case "if":
		pipe, err := parseFullPipeline(toks[1:], pos, true)
		if err != nil {
			return err
		}
		r.frames = append(r.frames, &blockFrame{
			kind: "if", pos: pos,
			branches: []*ifBranch{{pipe: pipe}},
		})
		return nil

	case "else":
		return r.dispatchElse(toks, pos)

	case "range":
		return r.dispatchRange(toks[1:], pos)

	case "with":
		pipe, err := parseFullPipeline(toks[1:], pos, true)
		if err != nil {
			return err
		}
		r.frames = append(r.frames, &blockFrame{kind: "with", pos: pos, pipe: pipe})
		return nil

	case "define":
		if len(toks) != 2 || toks[1].typ != tokenString {
			return NewError(ParseError, "define requires exactly one quoted template name").WithPosition(pos)
		}
		r.frames = append(r.frames, &blockFrame{kind: "define", pos: pos, name: toks[1].val})
		return nil

	case "template":
		if len(toks) < 2 || toks[1].typ != tokenString {
			return NewError(ParseError, "template requires a quoted template name").WithPosition(pos)
		}
		node := &TemplateNode{Name: toks[1].val, Position: pos}
		if len(toks) > 2 {
			pipe, err := parseFullPipeline(toks[2:], pos, false)
			if err != nil {
				return err
			}
			node.Pipe = pipe
		}
		r.appendNode(node)
		return nil

	case "end":
		if len(toks) != 1 {
			return NewError(ParseError, "unexpected tokens after end").WithPosition(pos)
		}
		return r.dispatchEnd(pos)
	}

	panic("unreachable block keyword")
}

func (r *parseRun) dispatchElse(toks []token, pos *filepos.Position) error {
	top := r.top()
	switch top.kind {
	case "if":
	case "range", "with":
		return NewErrorf(ParseError, "%s does not support else", top.kind).WithPosition(pos)
	default:
		return NewError(ParseError, "unexpected else outside of if block").WithPosition(pos)
	}
	if top.inElse {
		return NewError(ParseError, "unexpected second else within if block").WithPosition(pos)
	}

	// close the body of the branch parsed so far
	top.branches[len(top.branches)-1].body = top.nodes
	top.nodes = nil

	if len(toks) == 1 {
		top.inElse = true
		return nil
	}
	if toks[1].typ == tokenIdent && toks[1].val == "if" {
		pipe, err := parseFullPipeline(toks[2:], pos, true)
		if err != nil {
			return err
		}
		top.branches = append(top.branches, &ifBranch{pipe: pipe})
		return nil
	}
	return NewError(ParseError, "unexpected tokens after else").WithPosition(pos)
}

func (r *parseRun) dispatchRange(toks []token, pos *filepos.Position) error {
	s := newTokenStream(toks, pos)
	frame := &blockFrame{kind: "range", pos: pos}

	if s.peek().typ == tokenVariable {
		switch {
		case s.peekAt(1).typ == tokenDeclare:
			name, err := varDeclName(s.next())
			if err != nil {
				return err
			}
			s.next() // :=
			frame.valVar = name

		case s.peekAt(1).typ == tokenComma:
			keyName, err := varDeclName(s.next())
			if err != nil {
				return err
			}
			s.next() // comma
			if s.peek().typ != tokenVariable {
				return NewError(ParseError, "expected variable after comma in range declaration").WithPosition(pos)
			}
			valName, err := varDeclName(s.next())
			if err != nil {
				return err
			}
			if s.next().typ != tokenDeclare {
				return NewError(ParseError, "expected := in range declaration").WithPosition(pos)
			}
			frame.keyVar = keyName
			frame.valVar = valName
		}
	}

	pipe, err := parsePipeline(s, false)
	if err != nil {
		return err
	}
	if tok := s.peek(); tok.typ != tokenEOF {
		return NewErrorf(ParseError, "unexpected %q after range pipeline", tok.val).WithPosition(tok.pos)
	}
	frame.pipe = pipe
	r.frames = append(r.frames, frame)
	return nil
}

func (r *parseRun) dispatchEnd(pos *filepos.Position) error {
	top := r.top()
	if top.kind == "root" {
		return NewError(ParseError, "unexpected {{end}}").WithPosition(pos)
	}
	r.frames = r.frames[:len(r.frames)-1]

	switch top.kind {
	case "if":
		var elseNodes []Node
		if top.inElse {
			elseNodes = top.nodes
		} else {
			top.branches[len(top.branches)-1].body = top.nodes
		}
		for i := len(top.branches) - 1; i >= 0; i-- {
			br := top.branches[i]
			node := &IfNode{Pipe: br.pipe, Then: br.body, Else: elseNodes, Position: top.pos}
			elseNodes = []Node{node}
		}
		r.appendNode(elseNodes[0])

	case "range":
		r.appendNode(&RangeNode{
			KeyVar: top.keyVar, ValVar: top.valVar,
			Pipe: top.pipe, Body: top.nodes, Position: top.pos,
		})

	case "with":
		r.appendNode(&WithNode{Pipe: top.pipe, Body: top.nodes, Position: top.pos})

	case "define":
		r.appendNode(&DefineNode{Name: top.name, Body: top.nodes, Position: top.pos})
	}
	return nil
}

// findActionEnd locates the closing "}}" starting at offset "from",
// skipping over string literals which may themselves contain braces.
func findActionEnd(src string, from int) int {
	for i := from; i < len(src)-1; i++ {
		switch src[i] {
		case '"':
			for i++; i < len(src); i++ {
				if src[i] == '\\' {
					i++
				} else if src[i] == '"' || src[i] == '\n' {
					break
				}
			}
		case '`':
			for i++; i < len(src) && src[i] != '`'; i++ {
			}
		case '}':
			if src[i+1] == '}' {
				return i
			}
		}
	}
	return -1
}

// chompLeading trims spaces/tabs and then at most one newline from the
// start of text (the right-side effect of a "-}}" marker).
func chompLeading(text string) string {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i < len(text) && text[i] == '\r' {
		i++
	}
	if i < len(text) && text[i] == '\n' {
		i++
	}
	return text[i:]
}

// chompTrailing trims spaces/tabs and then at most one newline from the
// end of text (the left-side effect of a "{{-" marker).
func chompTrailing(text string) string {
	j := len(text)
	for j > 0 && (text[j-1] == ' ' || text[j-1] == '\t') {
		j--
	}
	if j > 0 && text[j-1] == '\n' {
		j--
		if j > 0 && text[j-1] == '\r' {
			j--
		}
	}
	return text[:j]
}

// --- pipeline grammar ---

type tokenStream struct {
	toks   []token
	i      int
	endPos *filepos.Position
}

func newTokenStream(toks []token, endPos *filepos.Position) *tokenStream {
	return &tokenStream{toks: toks, endPos: endPos}
}

func (s *tokenStream) peek() token { return s.peekAt(0) }

func (s *tokenStream) peekAt(n int) token {
	if s.i+n >= len(s.toks) {
		return token{typ: tokenEOF, pos: s.endPos}
	}
	return s.toks[s.i+n]
}

func (s *tokenStream) next() token {
	tok := s.peek()
	if s.i < len(s.toks) {
		s.i++
	}
	return tok
}

func parseFullPipeline(toks []token, pos *filepos.Position, allowDecl bool) (*Pipeline, error) {
	s := newTokenStream(toks, pos)
	pipe, err := parsePipeline(s, allowDecl)
	if err != nil {
		return nil, err
	}
	if tok := s.peek(); tok.typ != tokenEOF {
		return nil, NewErrorf(ParseError, "unexpected %q after pipeline", tok.val).WithPosition(tok.pos)
	}
	return pipe, nil
}

func parsePipeline(s *tokenStream, allowDecl bool) (*Pipeline, error) {
	pipe := &Pipeline{Position: s.peek().pos}

	if allowDecl && s.peek().typ == tokenVariable && s.peekAt(1).typ == tokenDeclare {
		name, err := varDeclName(s.next())
		if err != nil {
			return nil, err
		}
		s.next() // :=
		pipe.Vars = []string{name}
	}

	for {
		cmd, err := parseCommand(s)
		if err != nil {
			return nil, err
		}
		pipe.Cmds = append(pipe.Cmds, cmd)

		if s.peek().typ != tokenPipe {
			break
		}
		s.next()
	}
	return pipe, nil
}

func parseCommand(s *tokenStream) (*Command, error) {
	tok := s.peek()
	cmd := &Command{Position: tok.pos}

	if tok.typ == tokenIdent && !isLiteralIdent(tok.val) {
		if blockKeywords[tok.val] {
			return nil, NewErrorf(ParseError, "unexpected keyword %q in pipeline", tok.val).WithPosition(tok.pos)
		}
		s.next()
		cmd.Ident = tok.val
		for isOperandStart(s.peek()) {
			arg, err := parseOperand(s)
			if err != nil {
				return nil, err
			}
			cmd.Args = append(cmd.Args, arg)
		}
		return cmd, nil
	}

	arg, err := parseOperand(s)
	if err != nil {
		return nil, err
	}
	cmd.Args = []Arg{arg}
	if isOperandStart(s.peek()) {
		return nil, NewErrorf(ParseError,
			"unexpected %q after operand (only a function may take arguments)", s.peek().val).WithPosition(s.peek().pos)
	}
	return cmd, nil
}

func parseOperand(s *tokenStream) (Arg, error) {
	tok := s.next()
	switch tok.typ {
	case tokenField:
		path, err := splitFieldPath(tok)
		if err != nil {
			return nil, err
		}
		return FieldArg{Path: path}, nil

	case tokenVariable:
		name, path, err := splitVarPath(tok)
		if err != nil {
			return nil, err
		}
		return VarArg{Name: name, Path: path}, nil

	case tokenString:
		return LiteralArg{Val: tok.val}, nil

	case tokenNumber:
		if intVal, err := strconv.ParseInt(tok.val, 0, 64); err == nil {
			return LiteralArg{Val: intVal}, nil
		}
		if floatVal, err := strconv.ParseFloat(tok.val, 64); err == nil {
			return LiteralArg{Val: floatVal}, nil
		}
		return nil, NewErrorf(ParseError, "bad number literal %q", tok.val).WithPosition(tok.pos)

	case tokenIdent:
		switch tok.val {
		case "true":
			return LiteralArg{Val: true}, nil
		case "false":
			return LiteralArg{Val: false}, nil
		case "nil", "null":
			return LiteralArg{Val: nil}, nil
		}
		return nil, NewErrorf(ParseError,
			"unexpected identifier %q in operand position (parenthesize nested function calls)", tok.val).WithPosition(tok.pos)

	case tokenLeftParen:
		pipe, err := parsePipeline(s, false)
		if err != nil {
			return nil, err
		}
		if closing := s.next(); closing.typ != tokenRightParen {
			return nil, NewError(ParseError, "unclosed ( in pipeline").WithPosition(tok.pos)
		}
		return SubPipelineArg{Pipe: pipe}, nil

	case tokenEOF:
		return nil, NewError(ParseError, "missing operand").WithPosition(tok.pos)
	}
	return nil, NewErrorf(ParseError, "unexpected %q", tok.val).WithPosition(tok.pos)
}

func isOperandStart(tok token) bool {
	switch tok.typ {
	case tokenField, tokenVariable, tokenString, tokenNumber, tokenLeftParen:
		return true
	case tokenIdent:
		return isLiteralIdent(tok.val)
	}
	return false
}

func isLiteralIdent(val string) bool {
	switch val {
	case "true", "false", "nil", "null":
		return true
	}
	return false
}

func varDeclName(tok token) (string, error) {
	name := strings.TrimPrefix(tok.val, "$")
	if name == "" || strings.Contains(name, ".") {
		return "", NewErrorf(ParseError, "invalid variable name %q in declaration", tok.val).WithPosition(tok.pos)
	}
	return name, nil
}

func splitFieldPath(tok token) ([]string, error) {
	if tok.val == "." {
		return nil, nil
	}
	path := strings.Split(strings.TrimPrefix(tok.val, "."), ".")
	for _, segment := range path {
		if segment == "" {
			return nil, NewErrorf(ParseError, "bad field reference %q", tok.val).WithPosition(tok.pos)
		}
	}
	return path, nil
}

func splitVarPath(tok token) (string, []string, error) {
	rest := strings.TrimPrefix(tok.val, "$")
	if rest == "" {
		return "$", nil, nil
	}
	if strings.HasPrefix(rest, ".") {
		// $.Values.x descends from the root context
		path := strings.Split(rest[1:], ".")
		for _, segment := range path {
			if segment == "" {
				return "", nil, NewErrorf(ParseError, "bad variable reference %q", tok.val).WithPosition(tok.pos)
			}
		}
		return "$", path, nil
	}
	pieces := strings.Split(rest, ".")
	for _, segment := range pieces {
		if segment == "" {
			return "", nil, NewErrorf(ParseError, "bad variable reference %q", tok.val).WithPosition(tok.pos)
		}
	}
	return pieces[0], pieces[1:], nil
}
