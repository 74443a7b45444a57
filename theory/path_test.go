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

func TestTranslatePathSkipIsNext(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "p", 1)
	th := New(c)
	th.SetHorizon(1)

	diamondLit, err := th.translatePath(ast.PFSkip{}, atom("p"), 0, true)
	if err != nil {
		t.Fatalf("translatePath(skip, diamond): %v", err)
	}
	nextLit, err := th.TranslateBody(ast.BFNext{N: 1, Arg: atom("p"), Weak: false}, 0)
	if err != nil {
		t.Fatalf("TranslateBody(next): %v", err)
	}
	if diamondLit != nextLit {
		t.Errorf("<skip>p should equal next(p,1,strong): got %d want %d", diamondLit, nextLit)
	}
}

func TestTranslatePathTestDiamondIsConjunction(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "psi", 0)
	internAtom(t, c, "p", 0)
	th := New(c)
	th.SetHorizon(0)

	lit, err := th.translatePath(ast.PFTest{Body: atom("psi")}, atom("p"), 0, true)
	if err != nil {
		t.Fatalf("translatePath(test, diamond): %v", err)
	}
	want, err := th.TranslateBody(ast.BFBoolBinary{Op: ast.OpAnd, Left: atom("psi"), Right: atom("p")}, 0)
	if err != nil {
		t.Fatalf("TranslateBody(and): %v", err)
	}
	if lit != want {
		t.Errorf("<psi?>p should equal psi & p: got %d want %d", lit, want)
	}
}

func TestTranslatePathChoiceDiamondIsDisjunction(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "p", 1)
	internAtom(t, c, "q", 1)
	th := New(c)
	th.SetHorizon(1)

	path := ast.PFChoice{Left: ast.PFSkip{}, Right: ast.PFSkip{}}
	var lit host.Literal
	err := th.withBackend(func() error {
		var err error
		lit, err = th.translatePath(path, atom("p"), 0, true)
		return err
	})
	if err != nil {
		t.Fatalf("translatePath(choice, diamond): %v", err)
	}
	if lit == 0 {
		t.Errorf("expected a nonzero literal for path choice")
	}
}

func TestTranslateKleeneStarAllocatesSelfReferentialLiteral(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "final", 0)
	internAtom(t, c, "p", 0)
	th := New(c)
	th.SetHorizon(0)

	var lit host.Literal
	err := th.withBackend(func() error {
		var err error
		lit, err = th.translateKleeneStar(ast.PFSkip{}, atom("p"), 0, true)
		return err
	})
	if err != nil {
		t.Fatalf("translateKleeneStar: %v", err)
	}
	if lit == 0 {
		t.Errorf("expected a nonzero self-referential literal")
	}
}

func TestTranslateDFDiamondAndBoxDispatch(t *testing.T) {
	c := host.NewFakeControl()
	internAtom(t, c, "p", 1)
	th := New(c)
	th.SetHorizon(1)

	dia, err := th.TranslateBody(ast.DFDiamond{Path: ast.PFSkip{}, Arg: atom("p")}, 0)
	if err != nil {
		t.Fatalf("TranslateBody(DFDiamond): %v", err)
	}
	box, err := th.TranslateBody(ast.DFBox{Path: ast.PFSkip{}, Arg: atom("p")}, 0)
	if err != nil {
		t.Fatalf("TranslateBody(DFBox): %v", err)
	}
	if dia == 0 || box == 0 {
		t.Errorf("expected nonzero literals for diamond/box, got %d %d", dia, box)
	}
}
