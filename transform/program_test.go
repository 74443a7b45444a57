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
	"github.com/google/asptel/parse"
)

func transformSource(t *testing.T, src string) ([]ast.Statement, []ast.FutureSignature, []RegroundPartEntry) {
	t.Helper()
	stmts, err := parse.ParseProgram("test.lp", src)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	var emitted []ast.Statement
	emit := func(s ast.Statement) error {
		emitted = append(emitted, s)
		return nil
	}
	sigs, parts, err := NewProgramTransformer().Transform(stmts, emit)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	return emitted, sigs, parts
}

func findPart(emitted []ast.Statement, name string) bool {
	for _, s := range emitted {
		if s.Part != nil && s.Part.Name == name {
			return true
		}
	}
	return false
}

func TestProgramTransformerRenamesBaseAndFinalParts(t *testing.T) {
	emitted, _, _ := transformSource(t, "#program base.\np.\n#program final.\nq.\n")
	if !findPart(emitted, "initial") {
		t.Errorf(`expected "#program base" to be renamed to "initial"`)
	}
	if !findPart(emitted, "always") {
		t.Errorf(`expected "#program final" to be renamed to "always"`)
	}
}

func TestProgramTransformerInjectsFinalAtomInFinalPart(t *testing.T) {
	emitted, _, _ := transformSource(t, "#program base.\np.\n#program final.\nq.\n")
	var found bool
	for _, s := range emitted {
		if s.Clause == nil || len(s.Clause.Heads) == 0 || s.Clause.Heads[0].Predicate.Symbol != "q" {
			continue
		}
		found = true
		if len(s.Clause.Premises) != 1 {
			t.Fatalf("expected __final(T) to be the sole injected premise, got %v", s.Clause.Premises)
		}
		premise, ok := s.Clause.Premises[0].(ast.Atom)
		if !ok || premise.Predicate.Symbol != "__final" {
			t.Errorf("expected the injected premise to be __final(T), got %v", s.Clause.Premises[0])
		}
	}
	if !found {
		t.Fatalf("expected to find the rewritten q rule among emitted statements")
	}
}

func TestProgramTransformerSchedulesFutureShiftedBodyIntoRegroundWindow(t *testing.T) {
	emitted, sigs, parts := transformSource(t, "#program base.\nq :- p'.\n")
	if len(sigs) != 0 {
		t.Errorf("expected no future signatures from a body-only shift, got %v", sigs)
	}
	if !findPart(emitted, "initial_0_0") || !findPart(emitted, "initial_1") {
		t.Errorf("expected the reground window parts to be emitted, got %v", emitted)
	}

	var gotLoHi, gotHiHi bool
	for _, p := range parts {
		switch p.Part {
		case "initial_0_0":
			gotLoHi = p.Root == "initial" && p.Lo == 0 && p.Hi == 1
		case "initial_1":
			gotHiHi = p.Root == "initial" && p.Lo == 1 && p.Hi == 2
		}
	}
	if !gotLoHi || !gotHiHi {
		t.Errorf("expected matching reground part table entries, got %+v", parts)
	}

	var steadyCount int
	for _, s := range emitted {
		if s.Clause != nil && len(s.Clause.Heads) > 0 && s.Clause.Heads[0].Predicate.Symbol == "q" {
			steadyCount++
		}
	}
	if steadyCount != 2 {
		t.Errorf("expected the scheduled rule to appear once per reground window (future form + steady form), got %d", steadyCount)
	}
}

func TestProgramTransformerRecordsFutureSignatureAndEmitsBindingRule(t *testing.T) {
	emitted, sigs, _ := transformSource(t, "#program base.\nq' :- p.\n")
	if len(sigs) != 1 {
		t.Fatalf("expected exactly one future signature, got %v", sigs)
	}
	want := ast.FutureSignature{Name: "q", Arity: 0, Positive: true, Shift: 1}
	if diff := cmp.Diff(want, sigs[0]); diff != "" {
		t.Errorf("future signature mismatch (-want +got):\n%s", diff)
	}

	var foundFutureHead, foundBinding bool
	for _, s := range emitted {
		if s.Clause == nil || len(s.Clause.Heads) == 0 {
			continue
		}
		switch s.Clause.Heads[0].Predicate.Symbol {
		case "__future_q":
			foundFutureHead = true
		case "q":
			foundBinding = true
			if len(s.Clause.Premises) != 1 {
				t.Fatalf("expected the binding rule to have a single __future_q premise, got %v", s.Clause.Premises)
			}
			premise, ok := s.Clause.Premises[0].(ast.Atom)
			if !ok || premise.Predicate.Symbol != "__future_q" {
				t.Errorf("expected the binding rule's premise to reference __future_q, got %v", s.Clause.Premises[0])
			}
		}
	}
	if !foundFutureHead {
		t.Errorf("expected the original rule's head to be rewritten to __future_q")
	}
	if !foundBinding {
		t.Errorf("expected a binding rule rebinding q from __future_q to be emitted")
	}
}

func TestProgramTransformerAppendsTimeParamsToPart(t *testing.T) {
	emitted, _, _ := transformSource(t, "#program base.\np.\n")
	for _, s := range emitted {
		if s.Part != nil && s.Part.Name == "initial" {
			if len(s.Part.Params) != 2 {
				t.Errorf("expected the renamed part to carry the (t,u) time parameters, got %v", s.Part.Params)
			}
			return
		}
	}
	t.Fatalf("expected to find the renamed initial part")
}
