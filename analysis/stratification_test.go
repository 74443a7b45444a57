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

package analysis

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/google/asptel/ast"
)

func pred(name string, arity int) ast.PredicateSym { return ast.PredicateSym{Symbol: name, Arity: arity} }

func v(symbol string) ast.Variable { return ast.Variable{Symbol: symbol} }

func atomOf(name string, args ...ast.BaseTerm) ast.Atom {
	return ast.Atom{Predicate: pred(name, len(args)), Args: args}
}

func rule(head ast.Atom, premises ...ast.Term) ast.Clause {
	return ast.NewRule(head, premises)
}

func toOrderMap(predToStratum map[ast.PredicateSym]int) map[int][]ast.PredicateSym {
	unsorted := make(map[int][]ast.PredicateSym)
	for sym, order := range predToStratum {
		unsorted[order] = append(unsorted[order], sym)
	}
	for _, slice := range unsorted {
		sort.Slice(slice, func(i, j int) bool { return slice[i].Symbol < slice[j].Symbol })
	}
	return unsorted
}

// idbEdb classifies predicates the way Program documents them: heads of
// rules with a body are intensional, every other predicate is extensional.
// It also returns the rules with a body, which is what Program.Rules holds.
func idbEdb(rules []ast.Clause) (map[ast.PredicateSym]struct{}, map[ast.PredicateSym]struct{}, []ast.Clause) {
	idb := make(map[ast.PredicateSym]struct{})
	var withBody []ast.Clause
	for _, r := range rules {
		if len(r.Premises) == 0 {
			continue
		}
		withBody = append(withBody, r)
		for _, h := range r.Heads {
			idb[h.Predicate] = struct{}{}
		}
	}
	edb := make(map[ast.PredicateSym]struct{})
	for _, r := range rules {
		for _, h := range r.Heads {
			if _, ok := idb[h.Predicate]; !ok {
				edb[h.Predicate] = struct{}{}
			}
		}
		for _, p := range r.Premises {
			switch a := p.(type) {
			case ast.Atom:
				if _, ok := idb[a.Predicate]; !ok {
					edb[a.Predicate] = struct{}{}
				}
			case ast.NegAtom:
				if _, ok := idb[a.Atom.Predicate]; !ok {
					edb[a.Atom.Predicate] = struct{}{}
				}
			}
		}
	}
	return idb, edb, withBody
}

func TestStratificationPositiveCyclesOK(t *testing.T) {
	x := v("X")
	y := v("Y")
	rules := []ast.Clause{
		rule(atomOf("num", ast.Name("/one"))),
		rule(atomOf("succ", ast.Name("/one"), ast.Name("/two"))),
		rule(atomOf("odd", x), atomOf("num", x), atomOf("succ", y, x), atomOf("even", y)),
		rule(atomOf("even", x), atomOf("num", x), atomOf("succ", x, y), atomOf("odd", x)),
	}
	idb, edb, withBody := idbEdb(rules)
	strata, predToStratum, err := Stratify(Program{EdbPredicates: edb, IdbPredicates: idb, Rules: withBody})
	if err != nil {
		t.Fatalf("Stratify() = %v, want success", err)
	}
	got := toOrderMap(predToStratum)
	want := map[int][]ast.PredicateSym{
		0: {pred("even", 1), pred("odd", 1)},
	}
	if diff := cmp.Diff(want, got, cmpopts.SortMaps(func(a, b int) bool { return a < b })); diff != "" {
		t.Errorf("Stratify() strata mismatch (-want +got):\n%s", diff)
	}
	if len(strata) != 1 {
		t.Errorf("len(strata) = %d, want 1", len(strata))
	}
}

func TestStratificationOrderedByDependency(t *testing.T) {
	x := v("X")
	rules := []ast.Clause{
		rule(atomOf("num", ast.Name("/one"))),
		rule(atomOf("d", x), atomOf("num", x)),
		rule(atomOf("c", x), atomOf("num", x), atomOf("d", x), atomOf("b", x)),
		rule(atomOf("b", x), atomOf("num", x), atomOf("c", x)),
		rule(atomOf("a", x), atomOf("num", x), atomOf("b", x)),
	}
	idb, edb, withBody := idbEdb(rules)
	_, predToStratum, err := Stratify(Program{EdbPredicates: edb, IdbPredicates: idb, Rules: withBody})
	if err != nil {
		t.Fatalf("Stratify() = %v, want success", err)
	}
	if predToStratum[pred("a", 1)] <= predToStratum[pred("b", 1)] {
		t.Errorf("want stratum(a) > stratum(b)")
	}
	if predToStratum[pred("b", 1)] <= predToStratum[pred("d", 1)] {
		t.Errorf("want stratum(b) > stratum(d)")
	}
}

func TestStratificationNegativeCycleFails(t *testing.T) {
	x := v("X")
	rules := []ast.Clause{
		rule(atomOf("bar", ast.Name("/baz"))),
		rule(atomOf("foo", x), ast.NegAtom{Atom: atomOf("sna", x)}, atomOf("bar", x)),
		rule(atomOf("sna", x), ast.NegAtom{Atom: atomOf("foo", x)}, atomOf("bar", x)),
	}
	idb, edb, withBody := idbEdb(rules)
	if _, _, err := Stratify(Program{EdbPredicates: edb, IdbPredicates: idb, Rules: withBody}); err == nil {
		t.Errorf("Stratify() = nil, want error for negative recursion")
	}
}
