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

package host

import (
	"context"
	"fmt"
	"sort"
)

// FakeControl is a minimal in-memory stand-in for a real Control
// implementation, used by driver- and theory-level tests. It does not
// ground or solve in any real sense: Ground records which parts were
// requested, AddAtom/AddRule record clauses into in-memory sets, and Solve
// evaluates the recorded rules against a naive fixpoint, enough to exercise
// the translation/driver plumbing without a real solver attached.
type FakeControl struct {
	parts     []string
	nextLit   Literal
	atomOf    map[string]Literal
	symOf     map[Literal]Symbol
	externals map[Literal]TruthValue
	rules     []fakeRule
	theoryOcc []TheoryAtomOccurrence
}

type fakeRule struct {
	head   []Literal
	body   []Literal
	choice bool
}

// NewFakeControl constructs an empty FakeControl.
func NewFakeControl() *FakeControl {
	return &FakeControl{
		nextLit:   1,
		atomOf:    make(map[string]Literal),
		symOf:     make(map[Literal]Symbol),
		externals: make(map[Literal]TruthValue),
	}
}

// Add records the program text block; FakeControl does not parse it (it has
// no grounder), but records the call so tests can assert on Parts().
func (c *FakeControl) Add(name string, params []string, body string) error {
	c.parts = append(c.parts, name)
	return nil
}

// Parts returns every part name registered via Add, in order.
func (c *FakeControl) Parts() []string { return c.parts }

// Ground is a no-op recording hook: a real grounder would instantiate rules
// here; FakeControl's "ground" state is populated directly by tests via
// AddTheoryOccurrence/AddAtom instead.
func (c *FakeControl) Ground(ctx context.Context, parts []PartRange) error { return nil }

// Solve applies the recorded rules repeatedly until none fires, and reports
// Satisfiable with the resulting model, treating assumed-negative literals
// as forced false and externals at their assigned truth value.
func (c *FakeControl) Solve(ctx context.Context, assumptions []Literal, onModel OnModel) (Result, error) {
	forced := make(map[Literal]bool)
	for _, a := range assumptions {
		if a < 0 {
			forced[-a] = false
		} else {
			forced[a] = true
		}
	}
	for lit, v := range c.externals {
		if v == TrueValue {
			forced[lit] = true
		} else if v == FalseValue {
			forced[lit] = false
		}
	}
	truth := make(map[Literal]bool)
	for k, v := range forced {
		truth[k] = v
	}
	changed := true
	for changed {
		changed = false
		for _, r := range c.rules {
			bodyHolds := true
			for _, b := range r.body {
				if b < 0 {
					if truth[-b] {
						bodyHolds = false
						break
					}
				} else if !truth[b] {
					bodyHolds = false
					break
				}
			}
			if !bodyHolds || len(r.head) == 0 {
				continue
			}
			any := false
			for _, h := range r.head {
				if truth[h] {
					any = true
				}
			}
			if !any {
				truth[r.head[0]] = true
				changed = true
			}
		}
	}
	m := &fakeModel{control: c, truth: truth}
	if onModel != nil {
		onModel(m)
	}
	return Result{Kind: Satisfiable}, nil
}

// AssignExternal sets lit's truth value, reserving a literal for atom first if needed.
func (c *FakeControl) AssignExternal(atom Symbol, value TruthValue) error {
	lit, err := c.internSymbol(atom)
	if err != nil {
		return err
	}
	c.externals[lit] = value
	return nil
}

// ReleaseExternal sets atom's external truth value to Free.
func (c *FakeControl) ReleaseExternal(atom Symbol) error {
	return c.AssignExternal(atom, FreeValue)
}

// Cleanup is a no-op: FakeControl holds no grounded-but-unreachable state to discard.
func (c *FakeControl) Cleanup() error { return nil }

// SymbolicAtoms returns every atom interned so far, sign always positive
// (FakeControl does not track classical negation separately).
func (c *FakeControl) SymbolicAtoms() []SymbolicAtom {
	var out []SymbolicAtom
	lits := make([]Literal, 0, len(c.symOf))
	for l := range c.symOf {
		lits = append(lits, l)
	}
	sort.Slice(lits, func(i, j int) bool { return lits[i] < lits[j] })
	for _, l := range lits {
		out = append(out, SymbolicAtom{Symbol: c.symOf[l], Literal: l, Sign: true})
	}
	return out
}

// TheoryAtoms returns every theory atom occurrence registered via AddTheoryOccurrence.
func (c *FakeControl) TheoryAtoms() []TheoryAtomOccurrence { return c.theoryOcc }

// AddTheoryOccurrence registers a ground theory atom occurrence for tests to
// drive theory.translate against, the way a real grounder would populate
// Control.TheoryAtoms() after Ground.
func (c *FakeControl) AddTheoryOccurrence(occ TheoryAtomOccurrence) {
	c.theoryOcc = append(c.theoryOcc, occ)
}

// Backend acquires a backend bound to this control.
func (c *FakeControl) Backend() (Backend, error) {
	return &fakeBackend{control: c}, nil
}

func (c *FakeControl) internSymbol(sym Symbol) (Literal, error) {
	key := sym.String()
	if lit, ok := c.atomOf[key]; ok {
		return lit, nil
	}
	lit := c.nextLit
	c.nextLit++
	c.atomOf[key] = lit
	c.symOf[lit] = sym
	return lit, nil
}

type fakeBackend struct {
	control *FakeControl
	closed  bool
}

func (b *fakeBackend) AddAtom(sym Symbol) (Literal, error) {
	if b.closed {
		return 0, fmt.Errorf("host: backend already closed")
	}
	return b.control.internSymbol(sym)
}

func (b *fakeBackend) AddRule(head, body []Literal, choice bool) error {
	if b.closed {
		return fmt.Errorf("host: backend already closed")
	}
	b.control.rules = append(b.control.rules, fakeRule{head: append([]Literal{}, head...), body: append([]Literal{}, body...), choice: choice})
	return nil
}

func (b *fakeBackend) AddExternal(lit Literal, value TruthValue) error {
	if b.closed {
		return fmt.Errorf("host: backend already closed")
	}
	b.control.externals[lit] = value
	return nil
}

func (b *fakeBackend) Close() error {
	b.closed = true
	return nil
}

type fakeModel struct {
	control *FakeControl
	truth   map[Literal]bool
}

func (m *fakeModel) Contains(atom Symbol) bool {
	lit, ok := m.control.atomOf[atom.String()]
	return ok && m.truth[lit]
}

func (m *fakeModel) Symbols() []Symbol {
	var out []Symbol
	for lit, v := range m.truth {
		if v {
			if sym, ok := m.control.symOf[lit]; ok {
				out = append(out, sym)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
