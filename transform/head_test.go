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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/asptel/ast"
)

func theoryAtomFromSource(src string) ast.TheoryAtom {
	return ast.TheoryAtom{
		Name: ast.TheoryTel,
		Term: ast.UnparsedTerm{First: ast.TheorySymbol{Symbol: src}},
	}
}

func TestHeadTransformerPlainAtomBecomesAuxWithChoiceRule(t *testing.T) {
	ht := NewHeadTransformer()
	timeVar := ast.Variable{Symbol: "T"}

	ta := theoryAtomFromSource("p")
	auxAtom, stmts, err := ht.Transform(ta, timeVar, nil)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if auxAtom.Predicate.Symbol != "__aux_1" {
		t.Errorf("expected the first auxiliary to be named __aux_1, got %s", auxAtom.Predicate.Symbol)
	}
	if len(stmts) != 3 {
		t.Fatalf("expected 3 emitted statements (external, __tel_head guard, choice rule), got %d", len(stmts))
	}
	if stmts[0].Ext == nil {
		t.Errorf("expected the first statement to be the __false external declaration")
	}
	if stmts[1].TheoryAtomC == nil || stmts[1].TheoryAtomC.TheoryHead == nil {
		t.Errorf("expected the second statement to be the __tel_head guard rule")
	}
	choice := stmts[2].Clause
	if choice == nil || choice.Kind != ast.ChoiceRule {
		t.Fatalf("expected the third statement to be a choice rule, got %+v", stmts[2])
	}
	want := []ast.Atom{{Predicate: ast.PredicateSym{Symbol: "p", Arity: 1}, Args: []ast.BaseTerm{timeVar}}}
	if diff := cmp.Diff(want, choice.Heads); diff != "" {
		t.Errorf("choice rule head candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestHeadTransformerAuxCounterIncrementsAcrossCalls(t *testing.T) {
	ht := NewHeadTransformer()
	timeVar := ast.Variable{Symbol: "T"}

	a1, _, err := ht.Transform(theoryAtomFromSource("p"), timeVar, nil)
	if err != nil {
		t.Fatalf("first Transform: %v", err)
	}
	a2, _, err := ht.Transform(theoryAtomFromSource("q"), timeVar, nil)
	if err != nil {
		t.Fatalf("second Transform: %v", err)
	}
	if a1.Predicate.Symbol == a2.Predicate.Symbol {
		t.Errorf("expected distinct auxiliary names across calls, got %s twice", a1.Predicate.Symbol)
	}
}

func TestHeadTransformerNextShiftsCandidateWindow(t *testing.T) {
	ht := NewHeadTransformer()
	timeVar := ast.Variable{Symbol: "T"}

	// ">p" should still produce p as a single candidate, just shifted in
	// the (discarded, per the package doc's folding simplification)
	// interval bookkeeping rather than changing its name or arity.
	_, stmts, err := ht.Transform(theoryAtomFromSource(">p"), timeVar, nil)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	choice := stmts[len(stmts)-1].Clause
	want := []ast.Atom{{Predicate: ast.PredicateSym{Symbol: "p", Arity: 1}, Args: []ast.BaseTerm{timeVar}}}
	if diff := cmp.Diff(want, choice.Heads); diff != "" {
		t.Errorf("choice rule head candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestHeadTransformerDisjunctionCollectsBothAtoms(t *testing.T) {
	ht := NewHeadTransformer()
	timeVar := ast.Variable{Symbol: "T"}

	_, stmts, err := ht.Transform(theoryAtomFromSource("p | q"), timeVar, nil)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	choice := stmts[len(stmts)-1].Clause
	want := []ast.Atom{
		{Predicate: ast.PredicateSym{Symbol: "p", Arity: 1}, Args: []ast.BaseTerm{timeVar}},
		{Predicate: ast.PredicateSym{Symbol: "q", Arity: 1}, Args: []ast.BaseTerm{timeVar}},
	}
	if diff := cmp.Diff(want, choice.Heads); diff != "" {
		t.Errorf("choice rule head candidates mismatch (-want +got):\n%s", diff)
	}
}
