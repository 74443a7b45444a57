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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFakeControlInternSymbolIsStable(t *testing.T) {
	c := NewFakeControl()
	b, err := c.Backend()
	if err != nil {
		t.Fatalf("Backend: %v", err)
	}
	p := Symbol{Name: "p"}
	l1, err := b.AddAtom(p)
	if err != nil {
		t.Fatalf("AddAtom: %v", err)
	}
	l2, err := b.AddAtom(p)
	if err != nil {
		t.Fatalf("AddAtom: %v", err)
	}
	if l1 != l2 {
		t.Errorf("expected the same symbol to intern to the same literal, got %d and %d", l1, l2)
	}
}

func TestFakeControlSolveDerivesFromRules(t *testing.T) {
	c := NewFakeControl()
	b, err := c.Backend()
	if err != nil {
		t.Fatalf("Backend: %v", err)
	}
	p, err := b.AddAtom(Symbol{Name: "p"})
	if err != nil {
		t.Fatalf("AddAtom p: %v", err)
	}
	q, err := b.AddAtom(Symbol{Name: "q"})
	if err != nil {
		t.Fatalf("AddAtom q: %v", err)
	}
	if err := b.AddRule([]Literal{q}, []Literal{p}, false); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := c.AssignExternal(Symbol{Name: "p"}, TrueValue); err != nil {
		t.Fatalf("AssignExternal: %v", err)
	}

	var model Model
	result, err := c.Solve(context.Background(), nil, func(m Model) { model = m })
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if result.Kind != Satisfiable {
		t.Fatalf("expected Satisfiable, got %v", result.Kind)
	}
	if !model.Contains(Symbol{Name: "p"}) || !model.Contains(Symbol{Name: "q"}) {
		t.Errorf("expected both p and q to hold in the derived model")
	}
}

func TestFakeControlSolveRespectsNegativeAssumption(t *testing.T) {
	c := NewFakeControl()
	b, err := c.Backend()
	if err != nil {
		t.Fatalf("Backend: %v", err)
	}
	p, err := b.AddAtom(Symbol{Name: "p"})
	if err != nil {
		t.Fatalf("AddAtom: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var model Model
	_, err = c.Solve(context.Background(), []Literal{p.Negate()}, func(m Model) { model = m })
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if model.Contains(Symbol{Name: "p"}) {
		t.Errorf("expected p to be forced false by the negative assumption")
	}
}

func TestFakeControlAssignAndReleaseExternal(t *testing.T) {
	c := NewFakeControl()
	sym := Symbol{Name: "__final", Args: []Symbol{{Name: "0"}}}
	if err := c.AssignExternal(sym, TrueValue); err != nil {
		t.Fatalf("AssignExternal: %v", err)
	}
	if err := c.ReleaseExternal(sym); err != nil {
		t.Fatalf("ReleaseExternal: %v", err)
	}
	lit, err := c.internSymbol(sym)
	if err != nil {
		t.Fatalf("internSymbol: %v", err)
	}
	if v := c.externals[lit]; v != FreeValue {
		t.Errorf("expected external to be released back to FreeValue, got %v", v)
	}
}

func TestFakeControlBackendClosedRejectsFurtherWrites(t *testing.T) {
	c := NewFakeControl()
	b, err := c.Backend()
	if err != nil {
		t.Fatalf("Backend: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := b.AddAtom(Symbol{Name: "p"}); err == nil {
		t.Errorf("expected AddAtom after Close to fail")
	}
	if err := b.AddRule(nil, nil, false); err == nil {
		t.Errorf("expected AddRule after Close to fail")
	}
}

func TestFakeControlAddRecordsParts(t *testing.T) {
	c := NewFakeControl()
	if err := c.Add("initial", nil, "p."); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := c.Add("dynamic", []string{"t", "u"}, "q :- p."); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got := c.Parts()
	want := []string{"initial", "dynamic"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFakeControlSymbolicAtomsReflectsInterned(t *testing.T) {
	c := NewFakeControl()
	b, err := c.Backend()
	if err != nil {
		t.Fatalf("Backend: %v", err)
	}
	p, err := b.AddAtom(Symbol{Name: "p"})
	if err != nil {
		t.Fatalf("AddAtom p: %v", err)
	}
	q, err := b.AddAtom(Symbol{Name: "q"})
	if err != nil {
		t.Fatalf("AddAtom q: %v", err)
	}
	want := []SymbolicAtom{
		{Symbol: Symbol{Name: "p"}, Literal: p, Sign: true},
		{Symbol: Symbol{Name: "q"}, Literal: q, Sign: true},
	}
	if diff := cmp.Diff(want, c.SymbolicAtoms()); diff != "" {
		t.Errorf("SymbolicAtoms() mismatch (-want +got):\n%s", diff)
	}
}

func TestFakeControlTheoryAtomsRoundTrip(t *testing.T) {
	c := NewFakeControl()
	occ := TheoryAtomOccurrence{Name: "tel", Step: 2, Literal: 5}
	c.AddTheoryOccurrence(occ)
	want := []TheoryAtomOccurrence{occ}
	if diff := cmp.Diff(want, c.TheoryAtoms()); diff != "" {
		t.Errorf("TheoryAtoms() mismatch (-want +got):\n%s", diff)
	}
}
