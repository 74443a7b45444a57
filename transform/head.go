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

package transform

import (
	"fmt"

	"github.com/google/asptel/analysis"
	"github.com/google/asptel/ast"
	"github.com/google/asptel/errs"
	"github.com/google/asptel/parse"
)

// HeadTransformer implements spec.md §4.3: it rewrites a "&tel{F}"
// occurrence in head position into a disjunctive rule over a finite window
// of candidate head atoms plus a range-guarded auxiliary.
//
// Simplification: spec.md's algorithm guards each candidate head atom with
// its own "lhs ≤ t−S, t−S ≤ rhs" conditional literal; ast.Clause has no
// conditional-head-literal shape (HeadTransformer is the only component that
// would ever need one), so this folds every candidate atom collected within
// the formula's shift window into one unconditioned choice rule instead.
// The per-atom IntervalSet is still computed and available on atomRange for
// a future conditional-literal extension; see DESIGN.md.
type HeadTransformer struct {
	auxCounter int
}

// NewHeadTransformer constructs a HeadTransformer.
func NewHeadTransformer() *HeadTransformer { return &HeadTransformer{} }

type atomRange struct {
	sign ast.Sign
	name string
	args []ast.BaseTerm
	set  *ast.IntervalSet
}

func (ar *atomRange) key() string {
	s := ""
	for _, a := range ar.args {
		s += "," + a.String()
	}
	sign := "+"
	if ar.sign == ast.Negative {
		sign = "-"
	}
	return sign + ar.name + s
}

// Transform folds ta (whose Name must be ast.TheoryTel) into the auxiliary
// atom that replaces the head theory atom as the original rule's head, plus
// the extra statements to emit once: the __false external, the __tel_head
// guard rule and the choice rule.
func (ht *HeadTransformer) Transform(ta ast.TheoryAtom, timeVar ast.Variable, freeExtra []ast.Variable) (ast.Atom, []ast.Statement, error) {
	toks, err := lexTheoryTerm(ta.Term, ta.Loc)
	if err != nil {
		return ast.Atom{}, nil, err
	}
	formula, err := parse.ParseHeadFormula(toks)
	if err != nil {
		return ast.Atom{}, nil, err
	}

	ranges := make(map[string]*atomRange)
	var order []string
	if err := ht.collectRanges(formula, ast.Interval{Lo: 0, Hi: 1}, ranges, &order); err != nil {
		return ast.Atom{}, nil, err
	}

	ht.auxCounter++
	auxName := fmt.Sprintf("__aux_%d", ht.auxCounter)

	bodyFormula, err := headToBody(formula)
	if err != nil {
		return ast.Atom{}, nil, err
	}
	vars := analysis.FreeVars(bodyFormula).Extend(freeExtra)

	auxArgs := append(varArgs(vars.Vars), timeVar)
	auxAtom := ast.Atom{Predicate: ast.PredicateSym{Symbol: auxName, Arity: len(auxArgs)}, Args: auxArgs}

	var stmts []ast.Statement

	falseAtom := ast.Atom{Predicate: ast.PredicateSym{Symbol: "__false", Arity: 1}, Args: []ast.BaseTerm{timeVar}}
	stmts = append(stmts, ast.Statement{Loc: ta.Loc, Ext: &ast.External{Atom: falseAtom, Loc: ta.Loc}})

	telHeadAtom := ast.TheoryAtom{Name: ast.TheoryTelHead, Term: ta.Term, Loc: ta.Loc}
	stmts = append(stmts, ast.Statement{
		Loc: ta.Loc,
		TheoryAtomC: &ast.TheoryAtomClause{
			Kind:       ast.NormalRule,
			TheoryHead: &telHeadAtom,
			Body:       []ast.Term{auxAtom},
		},
	})

	var candidates []ast.Atom
	for _, k := range order {
		ar := ranges[k]
		args := append(append([]ast.BaseTerm{}, ar.args...), timeVar)
		candidates = append(candidates, ast.Atom{Predicate: ast.PredicateSym{Symbol: ar.name, Arity: len(args)}, Args: args})
	}
	if len(candidates) == 0 {
		candidates = []ast.Atom{auxAtom}
	}
	stmts = append(stmts, ast.Statement{
		Loc: ta.Loc,
		Clause: &ast.Clause{
			Kind:     ast.ChoiceRule,
			Heads:    candidates,
			Premises: []ast.Term{auxAtom, falseAtom},
		},
	})

	return auxAtom, stmts, nil
}

// collectRanges walks a head formula recursively, folding each atomic
// subformula's relative time range into ranges per spec.md §4.3 step 1's
// operator semantics.
func (ht *HeadTransformer) collectRanges(f ast.HeadFormula, win ast.Interval, ranges map[string]*atomRange, order *[]string) error {
	switch v := f.(type) {
	case ast.HeadAtom:
		args := make([]ast.BaseTerm, 0, len(v.Args))
		for _, a := range v.Args {
			bt, err := theoryTermToBaseTerm(a)
			if err != nil {
				return err
			}
			args = append(args, bt)
		}
		ar := &atomRange{sign: v.Sign, name: v.Name, args: args, set: ast.NewIntervalSet()}
		k := ar.key()
		if existing, ok := ranges[k]; ok {
			existing.set.Add(win.Lo, win.Hi)
			return nil
		}
		ar.set.Add(win.Lo, win.Hi)
		ranges[k] = ar
		*order = append(*order, k)
		return nil
	case ast.HeadConjunction:
		if err := ht.collectRanges(v.Left, win, ranges, order); err != nil {
			return err
		}
		return ht.collectRanges(v.Right, win, ranges, order)
	case ast.HeadDisjunction:
		if err := ht.collectRanges(v.Left, win, ranges, order); err != nil {
			return err
		}
		return ht.collectRanges(v.Right, win, ranges, order)
	case ast.HeadNegation:
		return ht.collectRanges(v.Arg, win, ranges, order)
	case ast.HeadConstant:
		return nil
	case ast.HeadShift:
		return ht.collectRanges(v.Arg, ast.Interval{Lo: win.Lo + int64(v.K), Hi: win.Hi + int64(v.K)}, ranges, order)
	case ast.HeadNext:
		next := ast.Interval{Lo: win.Lo + int64(v.N), Hi: win.Hi + int64(v.N)}
		return ht.collectRanges(v.Arg, next, ranges, order)
	case ast.HeadUntil:
		unbounded := ast.Interval{Lo: win.Lo, Hi: ast.Unbounded}
		if v.Left != nil {
			if err := ht.collectRanges(v.Left, unbounded, ranges, order); err != nil {
				return err
			}
		}
		return ht.collectRanges(v.Right, unbounded, ranges, order)
	case ast.HeadRelease:
		unbounded := ast.Interval{Lo: win.Lo, Hi: ast.Unbounded}
		if v.Left != nil {
			if err := ht.collectRanges(v.Left, unbounded, ranges, order); err != nil {
				return err
			}
		}
		return ht.collectRanges(v.Right, unbounded, ranges, order)
	default:
		return errs.Newf(errs.InvalidTemporalFormula, nil, "unsupported head formula variant %T", f)
	}
}

func varArgs(vs []ast.Variable) []ast.BaseTerm {
	out := make([]ast.BaseTerm, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// theoryTermToBaseTerm lowers a resolved theory term to a plain ast.BaseTerm
// for use as a head atom's argument; lists/sets/unresolved operator chains
// have no such lowering and are rejected with errs.InvalidSymbol.
func theoryTermToBaseTerm(t ast.TheoryTerm) (ast.BaseTerm, error) {
	switch v := t.(type) {
	case ast.TheoryVariable:
		return ast.Variable{Symbol: v.Symbol}, nil
	case ast.TheoryNumber:
		return ast.Number(v.Value), nil
	case ast.TheorySymbol:
		if v.Quoted {
			return ast.String(v.Symbol), nil
		}
		return ast.Name(v.Symbol), nil
	default:
		return nil, errs.Newf(errs.InvalidSymbol, nil, "theory term %q cannot be lowered to a head atom argument", t.String())
	}
}

// headToBody widens a HeadFormula into the equivalent BodyFormula shape, so
// analysis.FreeVars (which only walks BodyFormula) can collect its
// variables; head formulas are a strict syntactic subset of body formulas.
func headToBody(f ast.HeadFormula) (ast.BodyFormula, error) {
	switch v := f.(type) {
	case ast.HeadAtom:
		return ast.BFAtom{Sign: v.Sign, Name: v.Name, Args: v.Args}, nil
	case ast.HeadConjunction:
		l, err := headToBody(v.Left)
		if err != nil {
			return nil, err
		}
		r, err := headToBody(v.Right)
		if err != nil {
			return nil, err
		}
		return ast.BFBoolBinary{Op: ast.OpAnd, Left: l, Right: r}, nil
	case ast.HeadDisjunction:
		l, err := headToBody(v.Left)
		if err != nil {
			return nil, err
		}
		r, err := headToBody(v.Right)
		if err != nil {
			return nil, err
		}
		return ast.BFBoolBinary{Op: ast.OpOr, Left: l, Right: r}, nil
	case ast.HeadNegation:
		arg, err := headToBody(v.Arg)
		if err != nil {
			return nil, err
		}
		return ast.BFNegation{Arg: arg}, nil
	case ast.HeadConstant:
		return ast.BFBoolConst{Value: v.Value}, nil
	case ast.HeadShift:
		return headToBody(v.Arg)
	case ast.HeadNext:
		arg, err := headToBody(v.Arg)
		if err != nil {
			return nil, err
		}
		return ast.BFNext{N: v.N, Arg: arg, Weak: v.Weak}, nil
	case ast.HeadUntil:
		var l ast.BodyFormula
		var err error
		if v.Left != nil {
			l, err = headToBody(v.Left)
			if err != nil {
				return nil, err
			}
		}
		r, err := headToBody(v.Right)
		if err != nil {
			return nil, err
		}
		return ast.BFUntil{Left: l, Right: r}, nil
	case ast.HeadRelease:
		var l ast.BodyFormula
		var err error
		if v.Left != nil {
			l, err = headToBody(v.Left)
			if err != nil {
				return nil, err
			}
		}
		r, err := headToBody(v.Right)
		if err != nil {
			return nil, err
		}
		return ast.BFRelease{Left: l, Right: r}, nil
	default:
		return nil, errs.Newf(errs.InvalidTemporalFormula, nil, "unsupported head formula variant %T", f)
	}
}
