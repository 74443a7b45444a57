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

func atom(name string) ast.BFAtom { return ast.BFAtom{Sign: ast.Positive, Name: name} }

func internAtom(t *testing.T, c *host.FakeControl, name string, step int) host.Literal {
	t.Helper()
	b, err := c.Backend()
	if err != nil {
		t.Fatalf("Backend: %v", err)
	}
	lit, err := b.AddAtom(host.Symbol{Name: name, Args: []host.Symbol{{Name: itoa(step)}}})
	if err != nil {
		t.Fatalf("AddAtom: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return lit
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestTranslateBodyMemoizes(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "p", 0)
	th := New(c)
	th.SetHorizon(0)

	f := atom("p")
	lit1, err := th.TranslateBody(f, 0)
	if err != nil {
		t.Fatalf("TranslateBody: %v", err)
	}
	lit2, err := th.TranslateBody(f, 0)
	if err != nil {
		t.Fatalf("TranslateBody (second call): %v", err)
	}
	if lit1 != lit2 {
		t.Errorf("expected memoized literal, got %d then %d", lit1, lit2)
	}
}

func TestTranslateAtomMissingIsFalse(t *testing.T) {
	c := host.NewFakeControl()
	th := New(c)
	th.SetHorizon(0)

	lit, err := th.TranslateBody(atom("nope"), 0)
	if err != nil {
		t.Fatalf("TranslateBody: %v", err)
	}
	fl, err := th.falseLiteral()
	if err != nil {
		t.Fatalf("falseLiteral: %v", err)
	}
	if lit != fl {
		t.Errorf("expected the false literal for a missing atom, got %d want %d", lit, fl)
	}
}

func TestTranslateNegation(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "p", 0)
	th := New(c)
	th.SetHorizon(0)

	pos, err := th.TranslateBody(atom("p"), 0)
	if err != nil {
		t.Fatalf("TranslateBody: %v", err)
	}
	neg, err := th.TranslateBody(ast.BFNegation{Arg: atom("p")}, 0)
	if err != nil {
		t.Fatalf("TranslateBody (negation): %v", err)
	}
	if neg != pos.Negate() {
		t.Errorf("negation should be the atom's negated literal: got %d want %d", neg, pos.Negate())
	}
}

func TestTranslateBoolConst(t *testing.T) {
	c := host.NewFakeControl()
	th := New(c)
	th.SetHorizon(0)

	tl, err := th.TranslateBody(ast.BFBoolConst{Value: true}, 0)
	if err != nil {
		t.Fatalf("TranslateBody(true): %v", err)
	}
	fl, err := th.TranslateBody(ast.BFBoolConst{Value: false}, 0)
	if err != nil {
		t.Fatalf("TranslateBody(false): %v", err)
	}
	if tl != fl.Negate() {
		t.Errorf("true/false constants should be complementary literals: got %d and %d", tl, fl)
	}
}

func TestTranslatePreviousBeforeHorizonIsFalse(t *testing.T) {
	c := host.NewFakeControl()
	th := New(c)
	th.SetHorizon(0)

	strong, err := th.TranslateBody(ast.BFPrevious{N: 1, Arg: atom("p"), Weak: false}, 0)
	if err != nil {
		t.Fatalf("TranslateBody (strong previous): %v", err)
	}
	weak, err := th.TranslateBody(ast.BFPrevious{N: 1, Arg: atom("p"), Weak: true}, 0)
	if err != nil {
		t.Fatalf("TranslateBody (weak previous): %v", err)
	}
	if strong != weak.Negate() {
		t.Errorf("strong/weak previous before the horizon should be complementary: got %d and %d", strong, weak)
	}
}

func TestTranslateUntilReleaseAtStepZero(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "q", 0)
	th := New(c)
	th.SetHorizon(0)

	f := ast.BFUntil{Left: nil, Right: atom("q")}
	lit, err := th.TranslateBody(f, 0)
	if err != nil {
		t.Fatalf("TranslateBody(Until): %v", err)
	}
	if lit == 0 {
		t.Errorf("expected a nonzero literal for Until at step 0")
	}
}

func TestTranslateWiresOccurrenceLiteralViaTranslate(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "p", 0)
	b, err := c.Backend()
	if err != nil {
		t.Fatalf("Backend: %v", err)
	}
	occLit, err := b.AddAtom(host.Symbol{Name: "occurrence_marker"})
	if err != nil {
		t.Fatalf("AddAtom: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	th := New(c)
	th.SetHorizon(0)
	occ := TheoryOccurrence{Formula: atom("p"), Step: 0, Literal: occLit}
	if err := th.Translate(0, []TheoryOccurrence{occ}); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !th.wired[occLit] {
		t.Errorf("expected occurrence literal %d to be marked wired after Translate", occLit)
	}

	// Re-submitting the same occurrence must be a no-op, not a re-emission.
	partsBefore := len(c.Parts())
	if err := th.Translate(0, []TheoryOccurrence{occ}); err != nil {
		t.Fatalf("Translate (resubmit): %v", err)
	}
	if len(c.Parts()) != partsBefore {
		t.Errorf("resubmitting a wired occurrence should not register new parts")
	}
}

func TestTranslateFromDriverOccurrenceEndToEnd(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "p", 0)

	th := New(c)
	th.SetHorizon(0)
	occ := TheoryOccurrence{Formula: atom("p"), Step: 0, Literal: 999}
	// An occurrence literal that was never interned on the backend: equateLiterals
	// still emits clauses over it, exercising the general wiring path without
	// requiring the literal to already correspond to a symbol.
	if err := th.Translate(0, []TheoryOccurrence{occ}); err != nil {
		t.Fatalf("Translate: %v", err)
	}
}
