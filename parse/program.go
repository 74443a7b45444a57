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
)

// Parser is a recursive-descent parser over the full program syntax: facts,
// rules, constraints, choice/disjunctive rules, theory atom occurrences, and
// #program/#show/#project/#input/#external directives. It carries a
// two-token lookahead buffer so that ":-" — lexed as the adjacent pair
// TokPunct(":") TokOperator("-") rather than one token, since ':' belongs to
// the fixed punctuation set lexer.go recognizes on its own — can be
// recognized without special-casing the lexer.
type Parser struct {
	lex  *Lexer
	toks [2]Token
	file string
}

// NewParser constructs a Parser over src, attributing tokens to file.
func NewParser(file, src string) *Parser {
	p := &Parser{lex: NewLexer(file, src), file: file}
	p.toks[0] = p.lex.Next()
	p.toks[1] = p.lex.Next()
	return p
}

func (p *Parser) cur() Token  { return p.toks[0] }
func (p *Parser) peek2() Token { return p.toks[1] }

func (p *Parser) advance() Token {
	t := p.toks[0]
	p.toks[0] = p.toks[1]
	p.toks[1] = p.lex.Next()
	return t
}

func (p *Parser) isArrow() bool {
	return p.cur().Kind == TokPunct && p.cur().Text == ":" &&
		p.peek2().Kind == TokOperator && p.peek2().Text == "-"
}

func (p *Parser) expectPunct(s string) error {
	if p.cur().Kind != TokPunct || p.cur().Text != s {
		return errs.Newf(errs.InvalidTemporalFormula, p.cur().Loc, "expected %q, found %q", s, p.cur().Text)
	}
	p.advance()
	return nil
}

// ParseProgram parses a full source text into a sequence of statements.
func ParseProgram(file, src string) ([]ast.Statement, error) {
	p := NewParser(file, src)
	var stmts []ast.Statement
	for p.cur().Kind != TokEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	loc := p.cur().Loc

	if p.cur().Kind == TokOperator && p.cur().Text == "#" {
		return p.parseDirective(loc)
	}

	if p.isArrow() {
		p.advance()
		p.advance()
		body, theoryBody, err := p.parseBodyList()
		if err != nil {
			return ast.Statement{}, err
		}
		if err := p.expectPunct("."); err != nil {
			return ast.Statement{}, err
		}
		if len(theoryBody) == 0 {
			c := ast.NewConstraint(body)
			return ast.Statement{Clause: &c, Loc: loc}, nil
		}
		tc := ast.TheoryAtomClause{Kind: ast.ConstraintRule, Body: body, TheoryBody: theoryBody}
		return ast.Statement{TheoryAtomC: &tc, Loc: loc}, nil
	}

	heads, theoryHead, kind, err := p.parseHeadSide()
	if err != nil {
		return ast.Statement{}, err
	}

	var body []ast.Term
	var theoryBody []ast.TheoryAtom
	if p.isArrow() {
		p.advance()
		p.advance()
		body, theoryBody, err = p.parseBodyList()
		if err != nil {
			return ast.Statement{}, err
		}
	}
	if err := p.expectPunct("."); err != nil {
		return ast.Statement{}, err
	}

	if theoryHead == nil && len(theoryBody) == 0 {
		c := ast.Clause{Kind: kind, Heads: heads, Premises: body}
		return ast.Statement{Clause: &c, Loc: loc}, nil
	}
	tc := ast.TheoryAtomClause{Kind: kind, Heads: heads, TheoryHead: theoryHead, Body: body, TheoryBody: theoryBody}
	return ast.Statement{TheoryAtomC: &tc, Loc: loc}, nil
}

// parseHeadSide parses the head of a rule or fact: a single atom, a "{...}"
// choice rule, a "A | B | ..." disjunction, or a "&tel{...}"/"&__tel_head{...}"
// theory atom occurrence (the internal form the head transformer produces).
func (p *Parser) parseHeadSide() ([]ast.Atom, *ast.TheoryAtom, ast.RuleKind, error) {
	if p.cur().Kind == TokOperator && p.cur().Text == "&" {
		ta, err := p.parseTheoryAtom()
		if err != nil {
			return nil, nil, ast.NormalRule, err
		}
		return nil, &ta, ast.NormalRule, nil
	}

	kind := ast.NormalRule
	if p.cur().Kind == TokPunct && p.cur().Text == "{" {
		kind = ast.ChoiceRule
		p.advance()
	}

	var heads []ast.Atom
	for {
		a, err := p.parseAtom()
		if err != nil {
			return nil, nil, kind, err
		}
		heads = append(heads, a)
		if p.cur().Kind == TokPunct && p.cur().Text == "|" {
			if kind == ast.NormalRule {
				kind = ast.DisjunctiveRule
			}
			p.advance()
			continue
		}
		break
	}
	if kind == ast.ChoiceRule {
		if err := p.expectPunct("}"); err != nil {
			return nil, nil, kind, err
		}
	}
	return heads, nil, kind, nil
}

// parseBodyList parses a comma-separated premise list, splitting plain
// terms from theory atom occurrences (&tel{...}/&del{...}).
func (p *Parser) parseBodyList() ([]ast.Term, []ast.TheoryAtom, error) {
	var body []ast.Term
	var theory []ast.TheoryAtom
	for {
		if p.cur().Kind == TokOperator && p.cur().Text == "&" {
			ta, err := p.parseTheoryAtom()
			if err != nil {
				return nil, nil, err
			}
			theory = append(theory, ta)
		} else {
			t, err := p.parseBodyTerm()
			if err != nil {
				return nil, nil, err
			}
			body = append(body, t)
		}
		if p.cur().Kind == TokPunct && p.cur().Text == "," {
			p.advance()
			continue
		}
		break
	}
	return body, theory, nil
}

// parseBodyTerm parses one plain (non-theory) body literal: an atom,
// classically negated atom, equality, or apartness constraint.
func (p *Parser) parseBodyTerm() (ast.Term, error) {
	neg := false
	if p.cur().Kind == TokOperator && p.cur().Text == "-" {
		neg = true
		p.advance()
	}
	left, err := p.parseBaseTerm()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == TokOperator && (p.cur().Text == "=" || p.cur().Text == "==") {
		p.advance()
		right, err := p.parseBaseTerm()
		if err != nil {
			return nil, err
		}
		return ast.Eq{Left: left, Right: right}, nil
	}
	if p.cur().Kind == TokOperator && p.cur().Text == "!=" {
		p.advance()
		right, err := p.parseBaseTerm()
		if err != nil {
			return nil, err
		}
		return ast.Ineq{Left: left, Right: right}, nil
	}
	atom, ok := left.(ast.Atom)
	if !ok {
		return nil, errs.New(errs.InvalidTemporalFormula, nil, "expected an atom in body position")
	}
	if neg {
		return ast.NegAtom{Atom: atom}, nil
	}
	return atom, nil
}

// parseAtom parses a single atom (or classically-negated atom coerced to
// its positive form, as used in head position where the caller tracks sign
// separately if needed).
func (p *Parser) parseAtom() (ast.Atom, error) {
	t, err := p.parseBaseTerm()
	if err != nil {
		return ast.Atom{}, err
	}
	a, ok := t.(ast.Atom)
	if !ok {
		return ast.Atom{}, errs.New(errs.InvalidTemporalFormula, nil, "expected an atom")
	}
	return a, nil
}

// parseBaseTerm parses one term in plain ASP syntax: a constant, variable,
// function application, or predicate atom (the two are syntactically
// identical until arity/position disambiguates them).
func (p *Parser) parseBaseTerm() (ast.BaseTerm, error) {
	t := p.cur()
	switch {
	case t.Kind == TokNumber:
		p.advance()
		return ast.Number(t.Value), nil
	case t.Kind == TokString:
		p.advance()
		return ast.String(t.Text), nil
	case t.Kind == TokVariable:
		p.advance()
		return ast.Variable{Symbol: t.Text}, nil
	case t.Kind == TokIdent:
		p.advance()
		if p.cur().Kind == TokPunct && p.cur().Text == "(" {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			return ast.Atom{Predicate: ast.PredicateSym{Symbol: t.Text, Arity: len(args)}, Args: args}, nil
		}
		return ast.Name(t.Text), nil
	default:
		return nil, errs.Newf(errs.InvalidSymbol, t.Loc, "cannot parse term at %q", t.Text)
	}
}

func (p *Parser) parseArgList() ([]ast.BaseTerm, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var args []ast.BaseTerm
	for {
		a, err := p.parseBaseTerm()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.cur().Kind == TokPunct && p.cur().Text == "," {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return args, nil
}

// parseTheoryAtom parses "&tel{ ... }" / "&del{ ... }" / "&__tel_head{ ... }",
// leaving the contained token sequence unparsed as raw tokens (captured as
// an ast.UnparsedTerm) for the operator-precedence pass in theoryterm.go.
func (p *Parser) parseTheoryAtom() (ast.TheoryAtom, error) {
	loc := p.cur().Loc
	if err := p.expectOperator("&"); err != nil {
		return ast.TheoryAtom{}, err
	}
	nameTok := p.cur()
	if nameTok.Kind != TokIdent {
		return ast.TheoryAtom{}, errs.Newf(errs.InvalidSymbol, nameTok.Loc, "expected a theory atom name, found %q", nameTok.Text)
	}
	p.advance()
	if err := p.expectPunct("{"); err != nil {
		return ast.TheoryAtom{}, err
	}
	var inner []Token
	depth := 1
	for {
		if p.cur().Kind == TokEOF {
			return ast.TheoryAtom{}, errs.New(errs.InvalidTemporalFormula, loc, "unterminated theory atom")
		}
		if p.cur().Kind == TokPunct && p.cur().Text == "{" {
			depth++
		}
		if p.cur().Kind == TokPunct && p.cur().Text == "}" {
			depth--
			if depth == 0 {
				p.advance()
				break
			}
		}
		inner = append(inner, p.advance())
	}
	return ast.TheoryAtom{
		Name: ast.TheoryAtomName(nameTok.Text),
		Term: ast.UnparsedTerm{First: rawTokenTerm(inner)},
		Loc:  loc,
	}, nil
}

func (p *Parser) expectOperator(s string) error {
	if p.cur().Kind != TokOperator || p.cur().Text != s {
		return errs.Newf(errs.InvalidOperator, p.cur().Loc, "expected %q, found %q", s, p.cur().Text)
	}
	p.advance()
	return nil
}

// rawTokenTerm wraps the captured token slice inside a theory atom's braces
// as a TheorySymbol placeholder; ParseBodyFormula/ParseHeadFormula re-lex
// and parse this slice directly rather than going through TheoryTerm, so
// this value is never inspected once the term transformer runs the
// precedence-climbing pass over the original tokens.
func rawTokenTerm(toks []Token) ast.TheoryTerm {
	var sb []byte
	for _, t := range toks {
		sb = append(sb, t.Text...)
		sb = append(sb, ' ')
	}
	return ast.TheorySymbol{Symbol: string(sb)}
}

// parseDirective parses one "#program"/"#show"/"#project"/"#input"/"#external" statement.
func (p *Parser) parseDirective(loc ast.Location) (ast.Statement, error) {
	if err := p.expectOperator("#"); err != nil {
		return ast.Statement{}, err
	}
	kw := p.cur()
	if kw.Kind != TokIdent {
		return ast.Statement{}, errs.Newf(errs.InvalidSymbol, kw.Loc, "expected a directive keyword, found %q", kw.Text)
	}
	p.advance()
	switch kw.Text {
	case "program":
		return p.parseProgramPart(loc)
	case "show":
		d, err := p.parsePredicateDirective(ast.ShowDirective)
		return ast.Statement{Dir: d, Loc: loc}, err
	case "project":
		d, err := p.parsePredicateDirective(ast.ProjectDirective)
		return ast.Statement{Dir: d, Loc: loc}, err
	case "input":
		d, err := p.parsePredicateDirective(ast.InputDirective)
		return ast.Statement{Dir: d, Loc: loc}, err
	case "external":
		return p.parseExternal(loc)
	default:
		return ast.Statement{}, errs.Newf(errs.InvalidSymbol, kw.Loc, "unknown directive %q", kw.Text)
	}
}

func (p *Parser) parseProgramPart(loc ast.Location) (ast.Statement, error) {
	name := p.cur()
	if name.Kind != TokIdent {
		return ast.Statement{}, errs.Newf(errs.InvalidSymbol, name.Loc, "expected a program part name, found %q", name.Text)
	}
	p.advance()
	var params []ast.Variable
	if p.cur().Kind == TokPunct && p.cur().Text == "(" {
		p.advance()
		for {
			v := p.cur()
			if v.Kind != TokVariable {
				return ast.Statement{}, errs.Newf(errs.InvalidSymbol, v.Loc, "expected a parameter variable, found %q", v.Text)
			}
			p.advance()
			params = append(params, ast.Variable{Symbol: v.Text})
			if p.cur().Kind == TokPunct && p.cur().Text == "," {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct(")"); err != nil {
			return ast.Statement{}, err
		}
	}
	if err := p.expectPunct("."); err != nil {
		return ast.Statement{}, err
	}
	part := ast.ProgramPart{Name: name.Text, Params: params}
	return ast.Statement{Part: &part, Loc: loc}, nil
}

func (p *Parser) parsePredicateDirective(kind ast.DirectiveKind) (*ast.Directive, error) {
	name := p.cur()
	if name.Kind != TokIdent {
		return nil, errs.Newf(errs.InvalidSymbol, name.Loc, "expected a predicate name, found %q", name.Text)
	}
	p.advance()
	// "/" is lexed as a single-rune operator, not punctuation.
	if p.cur().Kind != TokOperator || p.cur().Text != "/" {
		return nil, errs.Newf(errs.InvalidSymbol, p.cur().Loc, "expected '/', found %q", p.cur().Text)
	}
	p.advance()
	arityTok := p.cur()
	if arityTok.Kind != TokNumber {
		return nil, errs.Newf(errs.InvalidSymbol, arityTok.Loc, "expected an arity, found %q", arityTok.Text)
	}
	p.advance()
	if err := p.expectPunct("."); err != nil {
		return nil, err
	}
	arity, _ := strconv.Atoi(arityTok.Text)
	return &ast.Directive{Kind: kind, Predicate: ast.PredicateSym{Symbol: name.Text, Arity: arity}}, nil
}

func (p *Parser) parseExternal(loc ast.Location) (ast.Statement, error) {
	a, err := p.parseAtom()
	if err != nil {
		return ast.Statement{}, err
	}
	if err := p.expectPunct("."); err != nil {
		return ast.Statement{}, err
	}
	return ast.Statement{Ext: &ast.External{Atom: a, Loc: loc}, Loc: loc}, nil
}
