// Copyright 2022 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parse

import (
	"strconv"

	"github.com/google/asptel/ast"
	"github.com/google/asptel/errs"
	"github.com/google/asptel/symbols"
)

// formulaParser is a precedence-climbing parser over a fixed token slice.
// headMode restricts the accepted operator vocabulary to symbols.HeadOperators.
type formulaParser struct {
	toks     []Token
	pos      int
	headMode bool
}

func (p *formulaParser) peek() Token { return p.toks[p.pos] }

func (p *formulaParser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *formulaParser) table() []symbols.OperatorDef {
	if p.headMode {
		return symbols.HeadOperators
	}
	return symbols.BodyOperators
}

func (p *formulaParser) infixPrec(op string) (symbols.OperatorDef, bool) {
	return symbols.Lookup(p.table(), op, symbols.Infix)
}

// ParseBodyFormula parses a flat token sequence (the operand sequence of an
// unparsed &tel/&del theory term) into a BodyFormula.
func ParseBodyFormula(toks []Token) (ast.BodyFormula, error) {
	toks = append(append([]Token{}, toks...), Token{Kind: TokEOF})
	p := &formulaParser{toks: toks}
	f, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != TokEOF {
		return nil, errs.Newf(errs.InvalidTemporalFormula, p.peek().Loc, "unexpected token %q after formula", p.peek().Text)
	}
	return f, nil
}

// ParseHeadFormula parses a flat token sequence into the restricted head formula language.
func ParseHeadFormula(toks []Token) (ast.HeadFormula, error) {
	toks = append(append([]Token{}, toks...), Token{Kind: TokEOF})
	p := &formulaParser{toks: toks, headMode: true}
	f, err := p.parseHeadExpr(0)
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != TokEOF {
		return nil, errs.Newf(errs.InvalidTemporalFormula, p.peek().Loc, "unexpected token %q after formula", p.peek().Text)
	}
	return f, nil
}

func (p *formulaParser) parseExpr(minPrec int) (ast.BodyFormula, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.Kind != TokOperator && !(t.Kind == TokPunct && t.Text == "|") {
			break
		}
		def, ok := p.infixPrec(t.Text)
		if !ok || def.Priority < minPrec {
			break
		}
		p.advance()
		next := def.Priority + 1
		if def.Assoc == symbols.RightAssoc {
			next = def.Priority
		}
		right, err := p.parseExpr(next)
		if err != nil {
			return nil, err
		}
		left, err = buildBinary(t.Text, left, right, t.Loc)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func buildBinary(op string, left, right ast.BodyFormula, loc ast.Location) (ast.BodyFormula, error) {
	switch op {
	case "&":
		return ast.BFBoolBinary{Op: ast.OpAnd, Left: left, Right: right}, nil
	case "|":
		return ast.BFBoolBinary{Op: ast.OpOr, Left: left, Right: right}, nil
	case "<-":
		return ast.BFBoolBinary{Op: ast.OpImpliedBy, Left: left, Right: right}, nil
	case "->":
		return ast.BFBoolBinary{Op: ast.OpImplies, Left: left, Right: right}, nil
	case "<>":
		return ast.BFBoolBinary{Op: ast.OpEquiv, Left: left, Right: right}, nil
	case ";>":
		return ast.BFUntil{Left: left, Right: right}, nil
	case ";>:":
		return ast.BFRelease{Left: left, Right: right}, nil
	case "<;":
		return ast.BFSince{Left: left, Right: right}, nil
	case "<:;":
		return ast.BFTrigger{Left: left, Right: right}, nil
	case ">", ">:":
		n, err := literalShift(left)
		if err != nil {
			return nil, err
		}
		return ast.BFNext{N: n, Arg: right, Weak: op == ">:"}, nil
	case "<*", "<?":
		return ast.BFSince{Left: left, Right: right}, nil
	case ">*", ">?":
		return ast.BFUntil{Left: left, Right: right}, nil
	default:
		return nil, errs.Newf(errs.InvalidOperator, loc, "operator %q not usable in binary position", op)
	}
}

func literalShift(f ast.BodyFormula) (int, error) {
	if lit, ok := f.(ast.BFAtom); ok && len(lit.Args) == 0 {
		if n, err := strconv.Atoi(lit.Name); err == nil {
			return n, nil
		}
	}
	return 0, errs.New(errs.InvalidOperator, nil, "expected a numeric shift count before shift operator")
}

func (p *formulaParser) parseUnary() (ast.BodyFormula, error) {
	t := p.peek()
	if t.Kind == TokOperator {
		if _, ok := symbols.Lookup(p.table(), t.Text, symbols.Prefix); ok {
			p.advance()
			arg, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return buildUnary(t.Text, arg, t.Loc)
		}
	}
	return p.parsePrimary()
}

func buildUnary(op string, arg ast.BodyFormula, loc ast.Location) (ast.BodyFormula, error) {
	switch op {
	case "&":
		return arg, nil
	case "-", "~":
		return ast.BFNegation{Arg: arg}, nil
	case "<":
		return ast.BFPrevious{N: 1, Arg: arg, Weak: false}, nil
	case "<:":
		return ast.BFPrevious{N: 1, Arg: arg, Weak: true}, nil
	case "<?":
		return ast.BFInitially{Arg: arg}, nil
	case "<*":
		return ast.BFSince{Left: nil, Right: arg}, nil
	case "<<":
		return ast.BFTrigger{Left: nil, Right: arg}, nil
	case ">":
		return ast.BFNext{N: 1, Arg: arg, Weak: false}, nil
	case ">:":
		return ast.BFNext{N: 1, Arg: arg, Weak: true}, nil
	case ">?":
		return ast.BFFinally{Arg: arg}, nil
	case ">*":
		return ast.BFUntil{Left: nil, Right: arg}, nil
	case ">>":
		return ast.BFRelease{Left: nil, Right: arg}, nil
	default:
		return nil, errs.Newf(errs.InvalidOperator, loc, "operator %q not usable in unary position", op)
	}
}

func (p *formulaParser) parsePrimary() (ast.BodyFormula, error) {
	t := p.peek()
	switch {
	case t.Kind == TokPunct && t.Text == "(":
		p.advance()
		f, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if p.peek().Text != ")" {
			return nil, errs.Newf(errs.InvalidTemporalFormula, p.peek().Loc, "expected ')'")
		}
		p.advance()
		return f, nil
	case t.Kind == TokNumber:
		p.advance()
		return ast.BFAtom{Name: t.Text}, nil
	case t.Kind == TokIdent && symbols.Keywords[t.Text]:
		p.advance()
		switch t.Text {
		case "true":
			return ast.BFBoolConst{Value: true}, nil
		case "false":
			return ast.BFBoolConst{Value: false}, nil
		case "initial":
			return ast.BFAtom{Name: "__initial"}, nil
		case "final":
			return ast.BFAtom{Name: "__final"}, nil
		default:
			return nil, errs.Newf(errs.InvalidSymbol, t.Loc, "keyword %q not usable as a formula here", t.Text)
		}
	case t.Kind == TokIdent:
		p.advance()
		args, err := p.parseArgsIfPresent()
		if err != nil {
			return nil, err
		}
		return ast.BFAtom{Sign: ast.Positive, Name: t.Text, Args: args}, nil
	default:
		return nil, errs.Newf(errs.InvalidTemporalFormula, t.Loc, "unexpected token %q", t.Text)
	}
}

func (p *formulaParser) parseArgsIfPresent() ([]ast.TheoryTerm, error) {
	if p.peek().Kind != TokPunct || p.peek().Text != "(" {
		return nil, nil
	}
	p.advance()
	var args []ast.TheoryTerm
	for {
		term, err := p.parseTheoryTerm()
		if err != nil {
			return nil, err
		}
		args = append(args, term)
		if p.peek().Kind == TokPunct && p.peek().Text == "," {
			p.advance()
			continue
		}
		break
	}
	if p.peek().Text != ")" {
		return nil, errs.Newf(errs.InvalidTemporalFormula, p.peek().Loc, "expected ')' in argument list")
	}
	p.advance()
	return args, nil
}

func (p *formulaParser) parseTheoryTerm() (ast.TheoryTerm, error) {
	t := p.peek()
	switch {
	case t.Kind == TokNumber:
		p.advance()
		return ast.TheoryNumber{Value: t.Value}, nil
	case t.Kind == TokString:
		p.advance()
		return ast.TheorySymbol{Symbol: t.Text, Quoted: true}, nil
	case t.Kind == TokVariable:
		p.advance()
		return ast.TheoryVariable{Symbol: t.Text}, nil
	case t.Kind == TokIdent:
		p.advance()
		if p.peek().Kind == TokPunct && p.peek().Text == "(" {
			p.advance()
			var args []ast.TheoryTerm
			for {
				a, err := p.parseTheoryTerm()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.peek().Kind == TokPunct && p.peek().Text == "," {
					p.advance()
					continue
				}
				break
			}
			if p.peek().Text != ")" {
				return nil, errs.Newf(errs.InvalidTemporalFormula, p.peek().Loc, "expected ')'")
			}
			p.advance()
			return ast.TheoryFunction{Name: t.Text, Args: args}, nil
		}
		return ast.TheorySymbol{Symbol: t.Text}, nil
	default:
		return nil, errs.Newf(errs.InvalidSymbol, t.Loc, "cannot parse theory term at %q", t.Text)
	}
}

// parseHeadExpr mirrors parseExpr, but restricted to the head operator
// table and producing ast.HeadFormula nodes: the type system, not a
// runtime check, is what keeps past operators and <>/->/<- out of a head.
func (p *formulaParser) parseHeadExpr(minPrec int) (ast.HeadFormula, error) {
	left, err := p.parseHeadUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.Kind != TokOperator && !(t.Kind == TokPunct && t.Text == "|") {
			break
		}
		def, ok := p.infixPrec(t.Text)
		if !ok || def.Priority < minPrec {
			break
		}
		p.advance()
		next := def.Priority + 1
		if def.Assoc == symbols.RightAssoc {
			next = def.Priority
		}
		right, err := p.parseHeadExpr(next)
		if err != nil {
			return nil, err
		}
		left, err = buildHeadBinary(t.Text, left, right, t.Loc)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func buildHeadBinary(op string, left, right ast.HeadFormula, loc ast.Location) (ast.HeadFormula, error) {
	switch op {
	case "&":
		return ast.HeadConjunction{Left: left, Right: right}, nil
	case "|":
		return ast.HeadDisjunction{Left: left, Right: right}, nil
	case ";>":
		return ast.HeadUntil{Left: left, Right: right}, nil
	case ";>:":
		return ast.HeadRelease{Left: left, Right: right}, nil
	case ">", ">:":
		n, err := literalShiftHead(left)
		if err != nil {
			return nil, err
		}
		return ast.HeadNext{N: n, Arg: right, Weak: op == ">:"}, nil
	case ">*", ">?":
		return ast.HeadUntil{Left: left, Right: right}, nil
	default:
		return nil, errs.Newf(errs.InvalidOperator, loc, "operator %q not legal in head position", op)
	}
}

func literalShiftHead(f ast.HeadFormula) (int, error) {
	if lit, ok := f.(ast.HeadAtom); ok && len(lit.Args) == 0 {
		if n, err := strconv.Atoi(lit.Name); err == nil {
			return n, nil
		}
	}
	return 0, errs.New(errs.InvalidOperator, nil, "expected a numeric shift count before shift operator")
}

func (p *formulaParser) parseHeadUnary() (ast.HeadFormula, error) {
	t := p.peek()
	if t.Kind == TokOperator {
		if _, ok := symbols.Lookup(p.table(), t.Text, symbols.Prefix); ok {
			p.advance()
			arg, err := p.parseHeadUnary()
			if err != nil {
				return nil, err
			}
			return buildHeadUnary(t.Text, arg, t.Loc)
		}
	}
	return p.parseHeadPrimary()
}

func buildHeadUnary(op string, arg ast.HeadFormula, loc ast.Location) (ast.HeadFormula, error) {
	switch op {
	case "&":
		return arg, nil
	case "-", "~":
		return ast.HeadNegation{Arg: arg}, nil
	case ">":
		return ast.HeadNext{N: 1, Arg: arg, Weak: false}, nil
	case ">:":
		return ast.HeadNext{N: 1, Arg: arg, Weak: true}, nil
	case ">*":
		return ast.HeadUntil{Left: nil, Right: arg}, nil
	case ">>":
		return ast.HeadRelease{Left: nil, Right: arg}, nil
	case ">?":
		return nil, errs.New(errs.InvalidTemporalFormula, loc, "finally (\">?\") is not legal in head position")
	default:
		return nil, errs.Newf(errs.InvalidOperator, loc, "operator %q not usable in head unary position", op)
	}
}

func (p *formulaParser) parseHeadPrimary() (ast.HeadFormula, error) {
	t := p.peek()
	switch {
	case t.Kind == TokPunct && t.Text == "(":
		p.advance()
		f, err := p.parseHeadExpr(0)
		if err != nil {
			return nil, err
		}
		if p.peek().Text != ")" {
			return nil, errs.Newf(errs.InvalidTemporalFormula, p.peek().Loc, "expected ')'")
		}
		p.advance()
		return f, nil
	case t.Kind == TokIdent && symbols.Keywords[t.Text]:
		p.advance()
		switch t.Text {
		case "true":
			return ast.HeadConstant{Value: true}, nil
		case "false":
			return ast.HeadConstant{Value: false}, nil
		default:
			return nil, errs.Newf(errs.InvalidSymbol, t.Loc, "keyword %q not usable in head position", t.Text)
		}
	case t.Kind == TokIdent:
		p.advance()
		args, err := p.parseArgsIfPresent()
		if err != nil {
			return nil, err
		}
		return ast.HeadAtom{Sign: ast.Positive, Name: t.Text, Args: args}, nil
	default:
		return nil, errs.Newf(errs.InvalidTemporalFormula, t.Loc, "unexpected token %q in head formula", t.Text)
	}
}
