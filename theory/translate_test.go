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
	"testing"

	"github.com/google/asptel/ast"
	"github.com/google/asptel/host"
)

func TestTranslateBoolBinaryAnd(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "p", 0)
	internAtom(t, c, "q", 0)
	th := New(c)
	th.SetHorizon(0)

	f := ast.BFBoolBinary{Op: ast.OpAnd, Left: atom("p"), Right: atom("q")}
	lit, err := th.TranslateBody(f, 0)
	if err != nil {
		t.Fatalf("TranslateBody: %v", err)
	}
	if lit == 0 {
		t.Errorf("expected nonzero literal for conjunction")
	}

	// Solve with both p and q true, and with p false, to sanity check the
	// conjunction's clauses behave as an AND under the fixpoint evaluator.
	if err := c.AssignExternal(host.Symbol{Name: "p", Args: []host.Symbol{{Name: "0"}}}, host.TrueValue); err != nil {
		t.Fatalf("AssignExternal p: %v", err)
	}
	if err := c.AssignExternal(host.Symbol{Name: "q", Args: []host.Symbol{{Name: "0"}}}, host.TrueValue); err != nil {
		t.Fatalf("AssignExternal q: %v", err)
	}
	var modelSyms []host.Symbol
	if _, err := c.Solve(nil, nil, func(m host.Model) { modelSyms = m.Symbols() }); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	found := false
	for _, s := range modelSyms {
		if s.Name == "p" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected p to hold in the model, got %v", modelSyms)
	}
}

func TestTranslateNextDefersUntilHorizon(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "p", 1)
	th := New(c)
	th.SetHorizon(0)

	f := ast.BFNext{N: 1, Arg: atom("p"), Weak: false}
	lit0, err := th.TranslateBody(f, 0)
	if err != nil {
		t.Fatalf("TranslateBody at horizon 0: %v", err)
	}
	if lit0 == 0 {
		t.Errorf("expected a deferred external literal, got 0")
	}

	th.SetHorizon(1)
	occ := TheoryOccurrence{Formula: f, Step: 0, Literal: lit0}
	if err := th.Translate(1, []TheoryOccurrence{occ}); err != nil {
		t.Fatalf("Translate at horizon 1: %v", err)
	}
}

func TestTranslateInitially(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "p", 0)
	th := New(c)
	th.SetHorizon(3)

	lit, err := th.TranslateBody(ast.BFInitially{Arg: atom("p")}, 3)
	if err != nil {
		t.Fatalf("TranslateBody: %v", err)
	}
	litAtZero, err := th.TranslateBody(atom("p"), 0)
	if err != nil {
		t.Fatalf("TranslateBody(p,0): %v", err)
	}
	if lit != litAtZero {
		t.Errorf("Initially(p) at any step should resolve to p's literal at step 0: got %d want %d", lit, litAtZero)
	}
}

func TestTranslateSinceBaseCase(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "p", 0)
	th := New(c)
	th.SetHorizon(0)

	f := ast.BFSince{Left: nil, Right: atom("p")}
	lit, err := th.TranslateBody(f, 0)
	if err != nil {
		t.Fatalf("TranslateBody: %v", err)
	}
	pLit, err := th.TranslateBody(atom("p"), 0)
	if err != nil {
		t.Fatalf("TranslateBody(p): %v", err)
	}
	if lit != pLit {
		t.Errorf("Since(_,p) at step 0 should equal p's own literal: got %d want %d", lit, pLit)
	}
}

func TestTheoryTermToSymbolFunction(t *testing.T) {
	term := ast.TheoryFunction{Name: "f", Args: []ast.TheoryTerm{
		ast.TheoryNumber{Value: 1},
		ast.TheorySymbol{Symbol: "a"},
	}}
	sym := theoryTermToSymbol(term)
	if sym.Name != "f" || len(sym.Args) != 2 {
		t.Fatalf("unexpected symbol: %+v", sym)
	}
	if sym.Args[0].Name != "1" || sym.Args[1].Name != "a" {
		t.Errorf("unexpected args: %+v", sym.Args)
	}
}
