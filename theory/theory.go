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

// Package theory is the Body Formula Compiler: it translates, at each
// horizon step, every ground &tel/&del/&__tel_head occurrence into clauses
// on a host.Backend, hash-consing formulas by their canonical string so
// that every ground occurrence of the same formula at the same step shares
// one propagated literal.
package theory

import (
	"sort"

	"github.com/google/asptel/ast"
	"github.com/google/asptel/host"
	"github.com/google/asptel/unionfind"
)

// stepKey identifies one (formula, step) translation unit. Formula is the
// formula's canonical String(), which doubles as the hash-cons key exactly
// the way ast.Constant/ast.Atom's String() forms serve as implicit
// hash-cons keys elsewhere in asptel.
type stepKey struct {
	Formula string
	Step    int
}

// stepData is the per-(formula,step) state spec.md §4.4 names: a primary
// literal, a set of literals waiting to be proven equivalent to it, a
// pending equivalence queue, and a done flag (Next/Until/Release translation
// may leave a formula not-yet-done, to be revisited once the horizon grows).
type stepData struct {
	primary    host.Literal
	equivalent map[host.Literal]bool
	pending    []host.Literal
	done       bool
	external   bool // true if primary is a deferred external literal (weak/strong Next)
	weak       bool
}

// pendingNext is a deferred Next/Until/Release translation, re-visited once
// the horizon extends far enough to resolve it (spec.md §4.4, Next contract).
type pendingNext struct {
	formula ast.BodyFormula
	step    int
}

// Theory is the hash-consing registry and translation driver for one
// program run. It is not safe for concurrent use: the driver's loop is
// single-threaded, per spec.md §5 "Concurrency & resource model".
type Theory struct {
	control  host.Control
	backend  host.Backend
	steps    map[stepKey]*stepData
	uf       *unionfind.UnionFind[host.Literal]
	todo     []pendingNext
	falseLit host.Literal
	haveFalse bool
	horizon  int
	wired    map[host.Literal]bool
}

// New constructs an empty Theory registry bound to control.
func New(control host.Control) *Theory {
	return &Theory{
		control: control,
		steps:   make(map[stepKey]*stepData),
		uf:      unionfind.New(func(a, b host.Literal) bool { return a < b }),
		wired:   make(map[host.Literal]bool),
	}
}

// SetHorizon updates the current solving horizon; deferred Next/Until/Release
// translations in the todo queue are retried against the new horizon by the
// next call to Translate.
func (t *Theory) SetHorizon(h int) { t.horizon = h }

func (t *Theory) key(f ast.BodyFormula, step int) stepKey {
	return stepKey{Formula: f.String(), Step: step}
}

func (t *Theory) getOrCreate(f ast.BodyFormula, step int) *stepData {
	k := t.key(f, step)
	d, ok := t.steps[k]
	if !ok {
		d = &stepData{equivalent: make(map[host.Literal]bool)}
		t.steps[k] = d
	}
	return d
}

// falseLiteral returns the process-wide permanently-false literal, lazily
// allocating it on the backend the first time it's needed.
func (t *Theory) falseLiteral() (host.Literal, error) {
	if t.haveFalse {
		return t.falseLit, nil
	}
	lit, err := t.backend.AddAtom(host.Symbol{Name: "__false_lit"})
	if err != nil {
		return 0, err
	}
	if err := t.backend.AddRule(nil, []host.Literal{lit}, false); err != nil {
		return 0, err
	}
	t.falseLit = lit
	t.haveFalse = true
	return lit, nil
}

// withBackend runs fn with a freshly-acquired backend scope, closing it on
// every exit path, mirroring the teacher's "with control.backend()" usage.
func (t *Theory) withBackend(fn func() error) error {
	b, err := t.control.Backend()
	if err != nil {
		return err
	}
	t.backend = b
	defer func() {
		b.Close()
		t.backend = nil
	}()
	return fn()
}

// Translate compiles every newly-ground theory atom occurrence reported by
// the host for the given step, ties each occurrence's host-assigned literal
// to its compiled formula literal, and retries any deferred todo items whose
// horizon requirement the current horizon now satisfies. This is
// theory.translate(step, control) from spec.md §4.5 step 4.
func (t *Theory) Translate(step int, occurrences []TheoryOccurrence) error {
	return t.withBackend(func() error {
		for _, occ := range occurrences {
			if t.wired[occ.Literal] {
				continue
			}
			lit, err := t.TranslateBody(occ.Formula, occ.Step)
			if err != nil {
				return err
			}
			if err := t.equateLiterals(occ.Literal, lit); err != nil {
				return err
			}
			t.wired[occ.Literal] = true
		}
		return t.drainTodo()
	})
}

// TheoryOccurrence pairs a ground body formula with the step it occurs at
// and the host-assigned literal standing for it in whatever rule it
// appeared in (head or body position), as handed to Translate by the driver
// once the host's grounder reports new ground theory atoms for that step.
type TheoryOccurrence struct {
	Formula ast.BodyFormula
	Step    int
	Literal host.Literal
}

func (t *Theory) drainTodo() error {
	pending := t.todo
	t.todo = nil
	for _, item := range pending {
		if _, err := t.TranslateBody(item.formula, item.step); err != nil {
			return err
		}
	}
	return nil
}

// sealEquivalences emits "p <-> primary" clauses for every literal queued on
// d's pending list (spec.md §4.4, "Equivalence sealing"), then empties it.
func (t *Theory) sealEquivalences(d *stepData) error {
	for _, p := range d.pending {
		if err := t.equateLiterals(p, d.primary); err != nil {
			return err
		}
		d.equivalent[p] = true
		t.uf.Union(p, d.primary)
	}
	d.pending = nil
	return nil
}

// equateLiterals emits the two binary clauses making a and b logically
// equivalent: "-a | b" and "a | -b".
func (t *Theory) equateLiterals(a, b host.Literal) error {
	if err := t.backend.AddRule([]host.Literal{b}, []host.Literal{a}, false); err != nil {
		return err
	}
	return t.backend.AddRule([]host.Literal{a}, []host.Literal{b}, false)
}

// representative returns the union-find's chosen minimum-id representative
// for lit, honoring spec.md §5's "minimum literal by integer id" tie-break.
func (t *Theory) representative(lit host.Literal) host.Literal {
	return t.uf.Find(lit)
}

// SortedLiterals is a small helper used by tests asserting deterministic
// clause emission order.
func SortedLiterals(lits []host.Literal) []host.Literal {
	out := append([]host.Literal{}, lits...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
