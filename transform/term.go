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

// Package transform implements the three source-to-source passes that turn
// a parsed temporal program into a horizon-parametric ASP program: the Term
// Transformer (per-atom time-parameter and shift handling), the Program
// Transformer (rule classification and reground-window emission), and the
// Head Theory-Atom Transformer (disjunctive head-formula folding).
package transform

import (
	"strings"

	"github.com/google/asptel/ast"
	"github.com/google/asptel/errs"
)

// TermContext carries the flags the Term Transformer needs to decide how to
// rewrite one atom occurrence: whether it sits in head position (forbids a
// past shift) or inside a theory element condition (forbids a future
// shift), and the rule's own time variable.
type TermContext struct {
	Head        bool
	ElementCond bool
	TimeVar     ast.Variable
}

// TransformedAtom is one rewritten plain-ASP atom occurrence, plus the
// bookkeeping the Program Transformer needs to classify the enclosing rule:
// the net shift this occurrence carries, and whether it was rewritten to the
// "__future_" placeholder form (only non-constraint normal-rule heads with a
// positive shift get this treatment, per spec.md §4.2).
type TransformedAtom struct {
	Atom   ast.Atom
	Shift  int
	Future bool
}

// TermTransformer implements spec.md §4.2.
type TermTransformer struct{}

// NewTermTransformer constructs a TermTransformer. It holds no state of its
// own: every decision depends only on the atom and the context passed in.
func NewTermTransformer() *TermTransformer { return &TermTransformer{} }

// Transform rewrites one symbolic atom occurrence: it derives the shift from
// leading/trailing primes, recognizes "_p"/"p_" decorations, and appends the
// (possibly shifted) time argument. allowFutureRename should be true only
// for a non-constraint head atom of a normal rule (the caller decides this,
// since it also depends on the rule's Kind which Transform does not see).
func (tt *TermTransformer) Transform(a ast.Atom, ctx TermContext, allowFutureRename bool) (TransformedAtom, error) {
	core, shift, initially, finally, err := decomposeName(a.Predicate.Symbol)
	if err != nil {
		return TransformedAtom{}, err
	}
	if finally {
		return TransformedAtom{}, errs.New(errs.InvalidTemporalFormula, nil,
			`"p_" (finally-decorated atom) is not yet supported`)
	}
	if initially {
		if shift != 0 {
			return TransformedAtom{}, errs.New(errs.PrimeWithInitiallyOrFinally, nil,
				`"_p" cannot be combined with a prime shift`)
		}
		args := append(append([]ast.BaseTerm{}, a.Args...), ast.Number(0))
		return TransformedAtom{
			Atom: ast.Atom{Predicate: ast.PredicateSym{Symbol: core, Arity: len(args)}, Args: args},
		}, nil
	}
	if shift < 0 && ctx.Head {
		return TransformedAtom{}, errs.Newf(errs.PastNotAllowed, nil,
			"past atoms not supported: %q in head position", a.Predicate.Symbol)
	}
	if shift > 0 && ctx.ElementCond {
		return TransformedAtom{}, errs.Newf(errs.FutureNotAllowed, nil,
			"future atoms not supported: %q in a theory element condition", a.Predicate.Symbol)
	}

	if ctx.Head && shift > 0 && allowFutureRename {
		args := make([]ast.BaseTerm, 0, len(a.Args)+2)
		args = append(args, ast.Number(int64(shift)))
		args = append(args, a.Args...)
		args = append(args, ctx.TimeVar)
		name := "__future_" + core
		return TransformedAtom{
			Atom:   ast.Atom{Predicate: ast.PredicateSym{Symbol: name, Arity: len(args)}, Args: args},
			Shift:  shift,
			Future: true,
		}, nil
	}

	timeArg := shiftedTimeArg(ctx.TimeVar, shift)
	args := append(append([]ast.BaseTerm{}, a.Args...), timeArg)
	return TransformedAtom{
		Atom:  ast.Atom{Predicate: ast.PredicateSym{Symbol: core, Arity: len(args)}, Args: args},
		Shift: shift,
	}, nil
}

// shiftedTimeArg returns the rule's time variable unchanged for a zero
// shift, or an ast.ArithTerm ("T+2"/"T-1") otherwise.
func shiftedTimeArg(timeVar ast.Variable, shift int) ast.BaseTerm {
	switch {
	case shift == 0:
		return timeVar
	case shift > 0:
		return ast.ArithTerm{Op: "+", Left: timeVar, Right: ast.Number(int64(shift))}
	default:
		return ast.ArithTerm{Op: "-", Left: timeVar, Right: ast.Number(int64(-shift))}
	}
}

// decomposeName splits a predicate name into its temporal decorations: a
// leading "_" (initially, time parameter forced to 0), a trailing "_"
// (finally, not yet supported), and any leading/trailing primes (each
// trailing prime is +1 shift, each leading prime is -1 shift). The
// "__"-prefixed internal names synthesized by the transformers themselves
// are never decorated and pass through unchanged.
func decomposeName(name string) (core string, shift int, initially, finally bool, err error) {
	if strings.HasPrefix(name, ast.InternalPrefix) {
		return name, 0, false, false, nil
	}
	core = name
	if strings.HasPrefix(core, "_") {
		initially = true
		core = core[1:]
	}
	if strings.HasSuffix(core, "_") && core != "" {
		finally = true
		core = core[:len(core)-1]
	}
	if initially && finally {
		return "", 0, false, false, errs.New(errs.InvalidTemporalFormula, nil,
			`"_p_" combines initially and finally decorations, which is not allowed`)
	}
	leading := 0
	for len(core) > 0 && core[0] == '\'' {
		leading++
		core = core[1:]
	}
	trailing := 0
	for len(core) > 0 && core[len(core)-1] == '\'' {
		trailing++
		core = core[:len(core)-1]
	}
	if (leading > 0 || trailing > 0) && (initially || finally) {
		return "", 0, false, false, errs.New(errs.PrimeWithInitiallyOrFinally, nil,
			`"_..."/"..._" combined with a prime shift is not allowed`)
	}
	shift = trailing - leading
	return core, shift, initially, finally, nil
}
