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

package theory

import (
	"fmt"

	"github.com/google/asptel/ast"
	"github.com/google/asptel/host"
)

// TranslateBody compiles formula f at the given horizon step into host
// clauses, returning its primary literal. It memoizes on (f.String(), step)
// so repeated occurrences of the same formula at the same step return the
// same literal without re-emitting clauses (spec.md §3 invariant 1,
// "canonical formula sharing").
func (t *Theory) TranslateBody(f ast.BodyFormula, step int) (host.Literal, error) {
	if t.backend == nil {
		var lit host.Literal
		err := t.withBackend(func() error {
			var err error
			lit, err = t.TranslateBody(f, step)
			return err
		})
		return lit, err
	}
	d := t.getOrCreate(f, step)
	if d.done {
		return d.primary, nil
	}
	lit, done, err := t.translateVariant(f, step, d)
	if err != nil {
		return 0, err
	}
	d.primary = lit
	d.done = done
	if done {
		if err := t.sealEquivalences(d); err != nil {
			return 0, err
		}
	}
	return lit, nil
}

func (t *Theory) translateVariant(f ast.BodyFormula, step int, d *stepData) (host.Literal, bool, error) {
	switch v := f.(type) {
	case ast.BFAtom:
		lit, err := t.translateAtom(v, step)
		return lit, true, err

	case ast.BFBoolConst:
		fl, err := t.falseLiteral()
		if err != nil {
			return 0, true, err
		}
		if v.Value {
			return fl.Negate(), true, nil
		}
		return fl, true, nil

	case ast.BFNegation:
		inner, err := t.TranslateBody(v.Arg, step)
		if err != nil {
			return 0, true, err
		}
		return inner.Negate(), true, nil

	case ast.BFBoolBinary:
		return t.translateBoolBinary(v, step)

	case ast.BFPrevious:
		return t.translatePrevious(v, step)

	case ast.BFInitially:
		lit, err := t.TranslateBody(v.Arg, 0)
		return lit, true, err

	case ast.BFNext:
		return t.translateNext(f, v.N, v.Arg, v.Weak, step, d)

	case ast.BFSince:
		return t.translateSinceTrigger(step, v.Left, v.Right, false)

	case ast.BFTrigger:
		return t.translateSinceTrigger(step, v.Left, v.Right, true)

	case ast.BFUntil:
		return t.translateUntilRelease(f, step, v.Left, v.Right, false, d)

	case ast.BFRelease:
		return t.translateUntilRelease(f, step, v.Left, v.Right, true, d)

	case ast.BFFinally:
		// Finally(a) unfolds to Release(None, (~__final) | a) per spec.md §4.4.
		unfolded := ast.BFRelease{Left: nil, Right: ast.BFBoolBinary{
			Op:    ast.OpOr,
			Left:  ast.BFNegation{Arg: ast.BFAtom{Name: "__final"}},
			Right: v.Arg,
		}}
		return t.translateUntilRelease(unfolded, step, nil, unfolded.Right, true, d)

	case ast.DFDiamond:
		lit, err := t.translatePath(v.Path, v.Arg, step, true)
		return lit, true, err

	case ast.DFBox:
		lit, err := t.translatePath(v.Path, v.Arg, step, false)
		return lit, true, err

	case ast.BFNumericLiteral:
		// Produced internally (head-theory-atom folding, Kleene-star
		// self-reference): the literal id IS the translation.
		return host.Literal(v.ID), true, nil

	default:
		return 0, true, fmt.Errorf("theory: unsupported body formula variant %T", f)
	}
}

// translateAtom looks up the host literal for a ground atom occurrence,
// per spec.md §4.4's "Atom(name,args,sign)" rule: Function(name,
// args++[step], sign) in the host's symbol table, or the false literal if
// absent.
func (t *Theory) translateAtom(a ast.BFAtom, step int) (host.Literal, error) {
	sym := host.Symbol{Name: a.Name, Args: theoryArgsToSymbols(a.Args, step)}
	for _, sa := range t.control.SymbolicAtoms() {
		if sa.Symbol.String() == sym.String() && sa.Sign == (a.Sign == ast.Positive) {
			return sa.Literal, nil
		}
	}
	fl, err := t.falseLiteral()
	if err != nil {
		return 0, err
	}
	if a.Sign == ast.Negative {
		return fl.Negate(), nil
	}
	return fl, nil
}

func theoryArgsToSymbols(args []ast.TheoryTerm, step int) []host.Symbol {
	out := make([]host.Symbol, 0, len(args)+1)
	for _, a := range args {
		out = append(out, theoryTermToSymbol(a))
	}
	out = append(out, host.Symbol{Name: fmt.Sprintf("%d", step)})
	return out
}

func theoryTermToSymbol(t ast.TheoryTerm) host.Symbol {
	switch v := t.(type) {
	case ast.TheoryNumber:
		return host.Symbol{Name: fmt.Sprintf("%d", v.Value)}
	case ast.TheorySymbol:
		return host.Symbol{Name: v.Symbol}
	case ast.TheoryVariable:
		return host.Symbol{Name: v.Symbol}
	case ast.TheoryFunction:
		args := make([]host.Symbol, len(v.Args))
		for i, a := range v.Args {
			args[i] = theoryTermToSymbol(a)
		}
		return host.Symbol{Name: v.Name, Args: args}
	default:
		return host.Symbol{Name: t.String()}
	}
}

// translateBoolBinary implements the five non-temporal connectives as a
// fresh representative literal related to the two operand literals by
// equivalence-style clauses, per spec.md §4.4.
func (t *Theory) translateBoolBinary(v ast.BFBoolBinary, step int) (host.Literal, bool, error) {
	ll, err := t.TranslateBody(v.Left, step)
	if err != nil {
		return 0, true, err
	}
	rr, err := t.TranslateBody(v.Right, step)
	if err != nil {
		return 0, true, err
	}
	lit, err := t.backend.AddAtom(host.Symbol{Name: "__and_or", Args: []host.Symbol{{Name: v.String()}, {Name: fmt.Sprintf("%d", step)}}})
	if err != nil {
		return 0, true, err
	}
	switch v.Op {
	case ast.OpAnd:
		err = t.equivAnd(lit, ll, rr)
	case ast.OpOr:
		err = t.equivOr(lit, ll, rr)
	case ast.OpImpliedBy: // lit <-> (ll | ~rr)
		err = t.equivOr(lit, ll, rr.Negate())
	case ast.OpImplies: // lit <-> (~ll | rr)
		err = t.equivOr(lit, ll.Negate(), rr)
	case ast.OpEquiv:
		err = t.equivIff(lit, ll, rr)
	}
	return lit, true, err
}

// equivOr emits clauses making lit <-> (a | b).
func (t *Theory) equivOr(lit, a, b host.Literal) error {
	if err := t.backend.AddRule([]host.Literal{lit}, []host.Literal{a}, false); err != nil {
		return err
	}
	if err := t.backend.AddRule([]host.Literal{lit}, []host.Literal{b}, false); err != nil {
		return err
	}
	return t.backend.AddRule([]host.Literal{a, b}, []host.Literal{lit}, false)
}

// equivAnd emits clauses making lit <-> (a & b).
func (t *Theory) equivAnd(lit, a, b host.Literal) error {
	if err := t.backend.AddRule([]host.Literal{lit}, []host.Literal{a, b}, false); err != nil {
		return err
	}
	if err := t.backend.AddRule([]host.Literal{a}, []host.Literal{lit}, false); err != nil {
		return err
	}
	return t.backend.AddRule([]host.Literal{b}, []host.Literal{lit}, false)
}

// equivIff emits the clauses enforcing lit <-> (a <-> b), built from two
// implication-direction representatives ANDed together.
func (t *Theory) equivIff(lit, a, b host.Literal) error {
	fwd, err := t.backend.AddAtom(host.Symbol{Name: "__iff_fwd"})
	if err != nil {
		return err
	}
	if err := t.equivOr(fwd, a.Negate(), b); err != nil {
		return err
	}
	bwd, err := t.backend.AddAtom(host.Symbol{Name: "__iff_bwd"})
	if err != nil {
		return err
	}
	if err := t.equivOr(bwd, b.Negate(), a); err != nil {
		return err
	}
	return t.equivAnd(lit, fwd, bwd)
}

// translatePrevious implements spec.md §4.4's Previous(n, a, weak) rule.
func (t *Theory) translatePrevious(v ast.BFPrevious, step int) (host.Literal, bool, error) {
	if step >= v.N {
		lit, err := t.TranslateBody(v.Arg, step-v.N)
		return lit, true, err
	}
	fl, err := t.falseLiteral()
	if err != nil {
		return 0, true, err
	}
	if v.Weak {
		return fl.Negate(), true, nil
	}
	return fl, true, nil
}

// translateNext implements spec.md §4.4's Next(n, a, weak) rule: resolves
// immediately if the horizon already reaches step+n, otherwise allocates a
// deferred external literal and queues (self, step) for a future retry.
func (t *Theory) translateNext(self ast.BodyFormula, n int, arg ast.BodyFormula, weak bool, step int, d *stepData) (host.Literal, bool, error) {
	if d.external {
		// Previously deferred: resolve against the already-allocated
		// external literal once the horizon reaches step+n, rather than
		// handing back a fresh, disconnected literal.
		if step+n > t.horizon {
			t.todo = append(t.todo, pendingNext{formula: self, step: step})
			return d.primary, false, nil
		}
		argLit, err := t.TranslateBody(arg, step+n)
		if err != nil {
			return 0, false, err
		}
		if err := t.equateLiterals(d.primary, argLit); err != nil {
			return 0, false, err
		}
		return d.primary, true, nil
	}
	if step+n <= t.horizon {
		lit, err := t.TranslateBody(arg, step+n)
		return lit, true, err
	}
	lit, err := t.backend.AddAtom(host.Symbol{Name: "__next_ext", Args: []host.Symbol{{Name: self.String()}, {Name: fmt.Sprintf("%d", step)}}})
	if err != nil {
		return 0, false, err
	}
	initial := host.FalseValue
	if weak {
		initial = host.TrueValue
	}
	if err := t.backend.AddExternal(lit, initial); err != nil {
		return 0, false, err
	}
	d.external = true
	d.weak = weak
	t.todo = append(t.todo, pendingNext{formula: self, step: step})
	return lit, false, nil
}

// translateSinceTrigger implements the inductive past operators: base case
// at step 0 is just the right operand; otherwise a representative literal
// relates to the right operand, the left operand, and the previous step's
// own literal (Since) or their duals (Trigger).
func (t *Theory) translateSinceTrigger(step int, left, right ast.BodyFormula, trigger bool) (host.Literal, bool, error) {
	rr, err := t.TranslateBody(right, step)
	if err != nil {
		return 0, true, err
	}
	if step == 0 {
		return rr, true, nil
	}
	var pre host.Literal
	if left == nil {
		// Unary "eventually/always-in-the-past": pre is this same formula one step back.
		var self ast.BodyFormula
		if trigger {
			self = ast.BFTrigger{Left: nil, Right: right}
		} else {
			self = ast.BFSince{Left: nil, Right: right}
		}
		pre, err = t.TranslateBody(self, step-1)
	} else {
		var self ast.BodyFormula
		if trigger {
			self = ast.BFTrigger{Left: left, Right: right}
		} else {
			self = ast.BFSince{Left: left, Right: right}
		}
		pre, err = t.TranslateBody(self, step-1)
	}
	if err != nil {
		return 0, true, err
	}
	var ll host.Literal
	if left != nil {
		ll, err = t.TranslateBody(left, step)
		if err != nil {
			return 0, true, err
		}
	}
	lit, err := t.backend.AddAtom(host.Symbol{Name: "__sincetrig", Args: []host.Symbol{{Name: fmt.Sprintf("%v", trigger)}, {Name: fmt.Sprintf("%v;%v", left, right)}, {Name: fmt.Sprintf("%d", step)}}})
	if err != nil {
		return 0, true, err
	}
	if !trigger {
		// lit <-> rr | (ll & pre) ; when left==nil, ll is absent: lit <-> rr | pre.
		if left == nil {
			err = t.equivOr(lit, rr, pre)
		} else {
			conj, cerr := t.backend.AddAtom(host.Symbol{Name: "__conj"})
			if cerr != nil {
				return 0, true, cerr
			}
			if err := t.equivAnd(conj, ll, pre); err != nil {
				return 0, true, err
			}
			err = t.equivOr(lit, rr, conj)
		}
	} else {
		// Trigger is the De Morgan dual: negate lit, rr, pre, ll.
		if left == nil {
			err = t.equivOr(lit.Negate(), rr.Negate(), pre.Negate())
		} else {
			disj, derr := t.backend.AddAtom(host.Symbol{Name: "__disj"})
			if derr != nil {
				return 0, true, derr
			}
			if err := t.equivOr(disj, ll.Negate(), pre.Negate()); err != nil {
				return 0, true, err
			}
			err = t.equivOr(lit.Negate(), rr.Negate(), disj)
		}
	}
	return lit, true, err
}

// translateUntilRelease implements the co-inductive future operators,
// driven by an attached Next(self,1,weak) auxiliary per spec.md §4.4. The
// auxiliary gets its own (formula,step) memoization slot, keyed by the
// wrapped BFNext's distinct String() form, so its deferral bookkeeping
// never collides with this Until/Release's own primary literal.
func (t *Theory) translateUntilRelease(self ast.BodyFormula, step int, left, right ast.BodyFormula, release bool, d *stepData) (host.Literal, bool, error) {
	rr, err := t.TranslateBody(right, step)
	if err != nil {
		return 0, true, err
	}
	nextFormula := ast.BFNext{N: 1, Arg: self, Weak: release}
	nextLit, err := t.TranslateBody(nextFormula, step)
	if err != nil {
		return 0, true, err
	}
	var ll host.Literal
	if left != nil {
		ll, err = t.TranslateBody(left, step)
		if err != nil {
			return 0, true, err
		}
	}
	lit, err := t.backend.AddAtom(host.Symbol{Name: "__untilrel", Args: []host.Symbol{{Name: self.String()}, {Name: fmt.Sprintf("%d", step)}}})
	if err != nil {
		return 0, true, err
	}
	if !release {
		if left == nil {
			err = t.equivOr(lit, rr, nextLit)
		} else {
			conj, cerr := t.backend.AddAtom(host.Symbol{Name: "__conj"})
			if cerr != nil {
				return 0, true, cerr
			}
			if err := t.equivAnd(conj, ll, nextLit); err != nil {
				return 0, true, err
			}
			err = t.equivOr(lit, rr, conj)
		}
	} else {
		if left == nil {
			err = t.equivOr(lit.Negate(), rr.Negate(), nextLit.Negate())
		} else {
			disj, derr := t.backend.AddAtom(host.Symbol{Name: "__disj"})
			if derr != nil {
				return 0, true, derr
			}
			if err := t.equivOr(disj, ll.Negate(), nextLit.Negate()); err != nil {
				return 0, true, err
			}
			err = t.equivOr(lit.Negate(), rr.Negate(), disj)
		}
	}
	return lit, true, err
}
