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
	"strings"

	"bitbucket.org/creachadair/stringset"

	"github.com/google/asptel/analysis"
	"github.com/google/asptel/ast"
	"github.com/google/asptel/errs"
	"github.com/google/asptel/parse"
)

// RegroundPartEntry names one (root, part, [lo,hi)) window the incremental
// driver uses to decide which program parts to ground at a given step, per
// spec.md §4.5 step 1's "(root, name, range)" triples.
type RegroundPartEntry struct {
	Root   string
	Part   string
	Lo, Hi int64
}

// Emit receives one rewritten top-level statement. The caller (normally the
// driver, bridging to a host.ProgramBuilder) decides how to render it.
type Emit func(ast.Statement) error

// ProgramTransformer implements spec.md §4.1: it classifies every rule,
// appends the time parameter, folds head theory atoms through a
// HeadTransformer, and defers rules that reference the future beyond the
// current horizon into a reground window instead of emitting them directly.
type ProgramTransformer struct {
	tt *TermTransformer
	ht *HeadTransformer

	timeVar ast.Variable
	nextVar ast.Variable

	currentPart string // emitted part name: "initial"/"always"/"dynamic"/custom
	finalInject bool   // true while inside a part originally declared "#program final"

	// declaredParts is the set of renamed "#program" names the source
	// actually declared. Transform only offers the driver a default
	// "initial"/"always"/"dynamic" reground entry for a name present here,
	// so the driver never asks the host to ground a part nothing emitted to
	// it.
	declaredParts stringset.Set

	// futureSeen mirrors the keys of futureSigs as a string.Set, giving
	// recordFutureSignature's "have we already emitted this signature"
	// check an O(1) string membership test instead of a struct-keyed map
	// probe.
	futureSeen  stringset.Set
	futureSigs  map[futureSigKey]ast.FutureSignature
	futureOrder []futureSigKey

	reground      map[ast.RegroundKey][]ast.RegroundEntry
	regroundOrder []ast.RegroundKey
}

type futureSigKey struct {
	Name     string
	Arity    int
	Positive bool
	Shift    int
}

func (k futureSigKey) String() string {
	return fmt.Sprintf("%s/%d/%t/%d", k.Name, k.Arity, k.Positive, k.Shift)
}

// NewProgramTransformer constructs a ProgramTransformer, ready to visit one
// program's statements in source order.
func NewProgramTransformer() *ProgramTransformer {
	return &ProgramTransformer{
		tt:            NewTermTransformer(),
		ht:            NewHeadTransformer(),
		timeVar:       ast.Variable{Symbol: "__T"},
		nextVar:       ast.Variable{Symbol: "__U"},
		currentPart:   "initial",
		declaredParts: stringset.New(),
		futureSeen:    stringset.New(),
		futureSigs:    make(map[futureSigKey]ast.FutureSignature),
		reground:      make(map[ast.RegroundKey][]ast.RegroundEntry),
	}
}

// Transform rewrites every statement in stmts, invoking emit for each
// resulting statement in turn, then appends the future-predicate binding
// rules, the reground-window parts, and the fixed theory grammar
// definitions. It returns the accumulated future signatures and
// reground-window table the incremental driver needs (spec.md §4.5).
func (pt *ProgramTransformer) Transform(stmts []ast.Statement, emit Emit) ([]ast.FutureSignature, []RegroundPartEntry, error) {
	for _, st := range stmts {
		if err := pt.visitStatement(st, emit); err != nil {
			return nil, nil, err
		}
	}
	if err := pt.emitFutureBindings(emit); err != nil {
		return nil, nil, err
	}
	if err := pt.emitRegroundParts(emit); err != nil {
		return nil, nil, err
	}
	if err := emitTheoryDefinitions(emit); err != nil {
		return nil, nil, err
	}

	sigs := make([]ast.FutureSignature, 0, len(pt.futureOrder))
	for _, k := range pt.futureOrder {
		sigs = append(sigs, pt.futureSigs[k])
	}
	var parts []RegroundPartEntry
	for _, name := range []string{"always", "dynamic", "initial"} {
		if pt.declaredParts.Contains(name) {
			parts = append(parts, RegroundPartEntry{Root: name, Part: name, Lo: 0, Hi: 1})
		}
	}
	for _, key := range pt.regroundOrder {
		lo := fmt.Sprintf("%s_0_%d", key.Part, key.MaxShift-1)
		hi := fmt.Sprintf("%s_%d", key.Part, key.MaxShift)
		parts = append(parts,
			RegroundPartEntry{Root: key.Part, Part: lo, Lo: 0, Hi: int64(key.MaxShift)},
			RegroundPartEntry{Root: key.Part, Part: hi, Lo: int64(key.MaxShift), Hi: int64(key.MaxShift) + 1},
		)
	}
	return sigs, parts, nil
}

func (pt *ProgramTransformer) visitStatement(st ast.Statement, emit Emit) error {
	switch {
	case st.Part != nil:
		return pt.visitPart(st, emit)
	case st.Dir != nil:
		d := *st.Dir
		d.Predicate.Arity++
		return emit(ast.Statement{Loc: st.Loc, Dir: &d})
	case st.Ext != nil:
		return emit(st)
	case st.TheoryAtomC != nil:
		return pt.visitTheoryAtomClause(st, emit)
	case st.Clause != nil:
		return pt.visitClause(*st.Clause, st.Loc, emit)
	default:
		return emit(st)
	}
}

// visitPart renames "#program base"/"final" to "initial"/"always" (tracking
// the latter so every rule in the part gets "__final(t)" appended to its
// body) and appends the (t,u) time parameters every transformed part needs.
func (pt *ProgramTransformer) visitPart(st ast.Statement, emit Emit) error {
	name := st.Part.Name
	pt.finalInject = name == "final"
	switch name {
	case "base":
		name = "initial"
	case "final":
		name = "always"
	}
	pt.currentPart = name
	pt.declaredParts.Add(name)
	params := append(append([]ast.Variable{}, st.Part.Params...), pt.timeVar, pt.nextVar)
	return emit(ast.Statement{Loc: st.Loc, Part: &ast.ProgramPart{Name: name, Params: params}})
}

// visitClause rewrites a plain (non-theory) rule, per spec.md §4.1
// visit_Rule: head then body, tracking the maximum retained positive
// shift, and either emitting it directly or scheduling it into a reground
// window if that maximum exceeds zero outside a "final" part.
func (pt *ProgramTransformer) visitClause(c ast.Clause, loc ast.Location, emit Emit) error {
	rewritten, maxShift, err := pt.rewriteClause(c)
	if err != nil {
		return err
	}
	if err := analysis.CheckRuleShapes([]ast.Clause{rewritten}); err != nil {
		return err
	}
	if maxShift > 0 && !pt.finalInject {
		pt.scheduleReground(rewritten, maxShift)
		return nil
	}
	return emit(ast.Statement{Loc: loc, Clause: &rewritten})
}

func (pt *ProgramTransformer) rewriteClause(c ast.Clause) (ast.Clause, int, error) {
	maxShift := 0
	allowRename := c.Kind == ast.NormalRule
	heads := make([]ast.Atom, 0, len(c.Heads))
	for _, h := range c.Heads {
		ta, err := pt.tt.Transform(h, TermContext{Head: true, TimeVar: pt.timeVar}, allowRename)
		if err != nil {
			return ast.Clause{}, 0, err
		}
		heads = append(heads, ta.Atom)
		if ta.Shift > 0 && !ta.Future {
			maxShift = max(maxShift, ta.Shift)
		}
		if ta.Future {
			pt.recordFutureSignature(ta)
		}
	}
	premises := make([]ast.Term, 0, len(c.Premises))
	for _, p := range c.Premises {
		rp, shift, err := pt.rewriteBodyTerm(p)
		if err != nil {
			return ast.Clause{}, 0, err
		}
		premises = append(premises, rp)
		maxShift = max(maxShift, shift)
	}
	if pt.finalInject {
		premises = append(premises, pt.finalAtom(pt.timeVar))
	}
	return ast.Clause{Kind: c.Kind, Heads: heads, Premises: premises}, maxShift, nil
}

// rewriteBodyTerm dispatches a plain body premise through the term
// transformer; Eq/Ineq carry no predicate symbol and pass through
// unchanged.
func (pt *ProgramTransformer) rewriteBodyTerm(term ast.Term) (ast.Term, int, error) {
	switch v := term.(type) {
	case ast.Atom:
		ta, err := pt.tt.Transform(v, TermContext{TimeVar: pt.timeVar}, false)
		if err != nil {
			return nil, 0, err
		}
		shift := 0
		if ta.Shift > 0 {
			shift = ta.Shift
		}
		return ta.Atom, shift, nil
	case ast.NegAtom:
		ta, err := pt.tt.Transform(v.Atom, TermContext{TimeVar: pt.timeVar}, false)
		if err != nil {
			return nil, 0, err
		}
		shift := 0
		if ta.Shift > 0 {
			shift = ta.Shift
		}
		return ast.NegAtom{Atom: ta.Atom}, shift, nil
	default:
		return term, 0, nil
	}
}

func (pt *ProgramTransformer) finalAtom(arg ast.BaseTerm) ast.Atom {
	return ast.Atom{Predicate: ast.PredicateSym{Symbol: "__final", Arity: 1}, Args: []ast.BaseTerm{arg}}
}

// visitTheoryAtomClause handles a rule with a theory atom in head and/or
// body position, per spec.md §4.1 visit_TheoryAtom.
func (pt *ProgramTransformer) visitTheoryAtomClause(st ast.Statement, emit Emit) error {
	tc := *st.TheoryAtomC
	maxShift := 0

	premises := make([]ast.Term, 0, len(tc.Body))
	for _, p := range tc.Body {
		rp, shift, err := pt.rewriteBodyTerm(p)
		if err != nil {
			return err
		}
		premises = append(premises, rp)
		maxShift = max(maxShift, shift)
	}

	var theoryBody []ast.TheoryAtom
	for _, ta := range tc.TheoryBody {
		if ta.Name != ast.TheoryTel && ta.Name != ast.TheoryDel {
			return errs.Newf(errs.InvalidSymbol, ta.Loc, "unexpected theory atom &%s in body position", ta.Name)
		}
		if err := pt.validateTheoryBodyOccurrence(ta, tc.Kind == ast.ConstraintRule); err != nil {
			return err
		}
		var elems []ast.TheoryElement
		for _, el := range ta.Elements {
			cond := make([]ast.Term, 0, len(el.Condition))
			for _, c := range el.Condition {
				rc, _, err := pt.rewriteBodyTerm(c)
				if err != nil {
					return err
				}
				cond = append(cond, rc)
			}
			elems = append(elems, ast.TheoryElement{Tuple: el.Tuple, Condition: cond})
		}
		theoryBody = append(theoryBody, ast.TheoryAtom{Name: ta.Name, Term: ta.Term, Elements: elems, Loc: ta.Loc})
	}

	// A rule with a remaining body theory-atom occurrence is always emitted
	// directly: theory.Theory resolves its own deferred-horizon cases via
	// its todo queue, so it needs no program-transformer-level reground
	// window (see DESIGN.md).
	if len(theoryBody) > 0 {
		heads := make([]ast.Atom, 0, len(tc.Heads))
		for _, h := range tc.Heads {
			ta, err := pt.tt.Transform(h, TermContext{Head: true, TimeVar: pt.timeVar}, tc.Kind == ast.NormalRule)
			if err != nil {
				return err
			}
			heads = append(heads, ta.Atom)
			if ta.Future {
				pt.recordFutureSignature(ta)
			}
		}
		if pt.finalInject {
			premises = append(premises, pt.finalAtom(pt.timeVar))
		}
		rewritten := ast.TheoryAtomClause{Kind: tc.Kind, Heads: heads, Body: premises, TheoryBody: theoryBody}
		return emit(ast.Statement{Loc: st.Loc, TheoryAtomC: &rewritten})
	}

	kind := tc.Kind
	var heads []ast.Atom
	if tc.TheoryHead != nil {
		if tc.TheoryHead.Name != ast.TheoryTel {
			return errs.Newf(errs.InvalidTemporalFormula, tc.TheoryHead.Loc,
				"only &tel is allowed in head position, found &%s", tc.TheoryHead.Name)
		}
		auxAtom, extra, err := pt.ht.Transform(*tc.TheoryHead, pt.timeVar, nil)
		if err != nil {
			return err
		}
		for _, s := range extra {
			if err := emit(s); err != nil {
				return err
			}
		}
		heads = []ast.Atom{auxAtom}
		kind = ast.NormalRule
	} else {
		allowRename := tc.Kind == ast.NormalRule
		for _, h := range tc.Heads {
			ta, err := pt.tt.Transform(h, TermContext{Head: true, TimeVar: pt.timeVar}, allowRename)
			if err != nil {
				return err
			}
			heads = append(heads, ta.Atom)
			if ta.Shift > 0 && !ta.Future {
				maxShift = max(maxShift, ta.Shift)
			}
			if ta.Future {
				pt.recordFutureSignature(ta)
			}
		}
	}

	if pt.finalInject {
		premises = append(premises, pt.finalAtom(pt.timeVar))
	}
	rewritten := ast.Clause{Kind: kind, Heads: heads, Premises: premises}
	if err := analysis.CheckRuleShapes([]ast.Clause{rewritten}); err != nil {
		return err
	}
	if maxShift > 0 && !pt.finalInject {
		pt.scheduleReground(rewritten, maxShift)
		return nil
	}
	return emit(ast.Statement{Loc: st.Loc, Clause: &rewritten})
}

// validateTheoryBodyOccurrence parses ta's captured term just to check its
// top-level shape: a bare positive temporal atom in a non-constraint body
// can never become true through grounding alone (errs.TemporalInPositiveBody).
// The parsed formula is otherwise discarded; the ground occurrence is
// re-parsed from the host's reported term at translate time.
func (pt *ProgramTransformer) validateTheoryBodyOccurrence(ta ast.TheoryAtom, isConstraint bool) error {
	toks, err := lexTheoryTerm(ta.Term, ta.Loc)
	if err != nil {
		return err
	}
	f, err := parse.ParseBodyFormula(toks)
	if err != nil {
		return err
	}
	return analysis.CheckTemporalInPositiveBody(isConstraint, f, ta.Loc)
}

func (pt *ProgramTransformer) recordFutureSignature(ta TransformedAtom) {
	core := strings.TrimPrefix(ta.Atom.Predicate.Symbol, "__future_")
	arity := len(ta.Atom.Args) - 2 // strip the prepended shift and the trailing time argument
	key := futureSigKey{Name: core, Arity: arity, Positive: true, Shift: ta.Shift}
	if pt.futureSeen.Contains(key.String()) {
		return
	}
	pt.futureSeen.Add(key.String())
	pt.futureOrder = append(pt.futureOrder, key)
	pt.futureSigs[key] = ast.FutureSignature{Name: core, Arity: arity, Positive: true, Shift: ta.Shift}
}

// emitFutureBindings implements spec.md §4.1's "Auxiliary rules for future
// predicates": in the always part, bind every future-placeholder predicate
// back to its real-time counterpart.
func (pt *ProgramTransformer) emitFutureBindings(emit Emit) error {
	if len(pt.futureOrder) == 0 {
		return nil
	}
	if err := emit(ast.Statement{Part: &ast.ProgramPart{Name: "always", Params: []ast.Variable{pt.timeVar, pt.nextVar}}}); err != nil {
		return err
	}
	for _, key := range pt.futureOrder {
		sig := pt.futureSigs[key]
		vars := make([]ast.BaseTerm, sig.Arity)
		for i := range vars {
			vars[i] = ast.Variable{Symbol: fmt.Sprintf("__X%d", i)}
		}
		head := ast.Atom{
			Predicate: ast.PredicateSym{Symbol: sig.Name, Arity: sig.Arity + 1},
			Args:      append(append([]ast.BaseTerm{}, vars...), pt.timeVar),
		}
		bodyArgs := append([]ast.BaseTerm{ast.Number(int64(sig.Shift))}, vars...)
		bodyArgs = append(bodyArgs, pt.timeVar)
		body := ast.Atom{
			Predicate: ast.PredicateSym{Symbol: "__future_" + sig.Name, Arity: len(bodyArgs)},
			Args:      bodyArgs,
		}
		c := ast.Clause{Kind: ast.NormalRule, Heads: []ast.Atom{head}, Premises: []ast.Term{body}}
		if err := emit(ast.Statement{Clause: &c}); err != nil {
			return err
		}
	}
	return nil
}

func (pt *ProgramTransformer) scheduleReground(rewritten ast.Clause, maxShift int) {
	future := rewritten
	future.Premises = append(append([]ast.Term{}, rewritten.Premises...), pt.finalAtom(pt.nextVar))
	key := ast.RegroundKey{Part: pt.currentPart, MaxShift: maxShift}
	if _, ok := pt.reground[key]; !ok {
		pt.regroundOrder = append(pt.regroundOrder, key)
	}
	pt.reground[key] = append(pt.reground[key], ast.RegroundEntry{FutureForm: future, SteadyForm: rewritten})
}

// emitRegroundParts implements spec.md §4.1's "Reground part emission": for
// each (part, max_shift) bucket, two program parts are emitted back to
// back, one carrying the future form of every scheduled rule, one carrying
// the steady form.
func (pt *ProgramTransformer) emitRegroundParts(emit Emit) error {
	for _, key := range pt.regroundOrder {
		entries := pt.reground[key]
		futureName := fmt.Sprintf("%s_0_%d", key.Part, key.MaxShift-1)
		if err := emit(ast.Statement{Part: &ast.ProgramPart{Name: futureName, Params: []ast.Variable{pt.timeVar, pt.nextVar}}}); err != nil {
			return err
		}
		for _, e := range entries {
			fc := e.FutureForm
			if err := emit(ast.Statement{Clause: &fc}); err != nil {
				return err
			}
		}
		steadyName := fmt.Sprintf("%s_%d", key.Part, key.MaxShift)
		if err := emit(ast.Statement{Part: &ast.ProgramPart{Name: steadyName, Params: []ast.Variable{pt.timeVar, pt.nextVar}}}); err != nil {
			return err
		}
		for _, e := range entries {
			sc := e.SteadyForm
			if err := emit(ast.Statement{Clause: &sc}); err != nil {
				return err
			}
		}
	}
	return nil
}
