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
	"fmt"

	"github.com/google/asptel/ast"
)

// edgeMap represents the dependencies, i.e. those IDB predicate symbols q
// that appear in the body of a rule p :- ... q ..., possibly negated. If
// there is both a positive and negated dependency, only the negated one is kept.
type edgeMap map[ast.PredicateSym]bool

// depGraph maps each predicate symbol p to its edge map.
type depGraph map[ast.PredicateSym]edgeMap

// Program represents a set of rules that may or may not be stratifiable.
type Program struct {
	// EdbPredicates are extensional: they never appear as the head of a rule with a body.
	EdbPredicates map[ast.PredicateSym]struct{}
	// IdbPredicates are intensional: they appear as the head of at least one rule with a body.
	IdbPredicates map[ast.PredicateSym]struct{}
	// Rules is every rule with a non-empty body.
	Rules []ast.Clause
}

func makeDepGraph(program Program) depGraph {
	dep := make(depGraph)
	for _, rule := range program.Rules {
		for _, head := range rule.Heads {
			s := head.Predicate
			dep.initNode(s)
			for _, premise := range rule.Premises {
				switch p := premise.(type) {
				case ast.Atom:
					if _, ok := program.EdbPredicates[p.Predicate]; !ok {
						dep.addEdge(s, p.Predicate, false)
					}
				case ast.NegAtom:
					if _, ok := program.EdbPredicates[p.Atom.Predicate]; !ok {
						dep.addEdge(s, p.Atom.Predicate, true)
					}
				}
			}
		}
	}
	return dep
}

// Stratify checks whether a program can be stratified with respect to
// negation: it returns the strongly-connected components (topologically
// sorted, lowest stratum first) and a map from predicate to stratum index,
// or an error if some predicate negatively depends on itself within a
// stratum (recursion through negation).
func Stratify(program Program) ([]Nodeset, map[ast.PredicateSym]int, error) {
	dep := makeDepGraph(program)
	strata := dep.sccs()
	predToStratum := make(map[ast.PredicateSym]int)
	for i, c := range strata {
		for sym := range c {
			predToStratum[sym] = i
		}
		for sym := range c {
			for dest, negated := range dep[sym] {
				if !negated {
					continue
				}
				if destStratum, ok := predToStratum[dest]; ok && destStratum == i {
					return nil, nil, fmt.Errorf("program cannot be stratified: negative cycle through %v", sym)
				}
			}
		}
	}
	strata, predToStratum = dep.sortResult(strata, predToStratum)
	return strata, predToStratum, nil
}

func (dep depGraph) initNode(src ast.PredicateSym) {
	if _, ok := dep[src]; !ok {
		dep[src] = make(edgeMap)
	}
}

func (dep depGraph) addEdge(src, dest ast.PredicateSym, negated bool) {
	edges := dep[src]
	if negated {
		edges[dest] = negated
		return
	}
	if wasNegated, ok := edges[dest]; !ok || !wasNegated {
		edges[dest] = false
	}
}

func (dep depGraph) transpose() depGraph {
	rev := make(depGraph)
	for src, edges := range dep {
		for dest, negated := range edges {
			rev.initNode(dest)
			rev.addEdge(dest, src, negated)
		}
	}
	return rev
}

type nodelist []ast.PredicateSym

// Nodeset represents a set of nodes in the dependency graph.
type Nodeset map[ast.PredicateSym]struct{}

func (dep depGraph) sccs() []Nodeset {
	S := make(nodelist, 0, len(dep))
	seen := make(Nodeset)
	var visit func(node ast.PredicateSym)
	visit = func(node ast.PredicateSym) {
		if _, ok := seen[node]; !ok {
			seen[node] = struct{}{}
			for e := range dep[node] {
				visit(e)
			}
			S = append(S, node)
		}
	}
	for node := range dep {
		visit(node)
	}

	rev := dep.transpose()
	var scc Nodeset
	seen = make(Nodeset)
	var rvisit func(node ast.PredicateSym)
	rvisit = func(node ast.PredicateSym) {
		if _, ok := seen[node]; !ok {
			seen[node] = struct{}{}
			scc[node] = struct{}{}
			for e := range rev[node] {
				rvisit(e)
			}
		}
	}
	var sccs []Nodeset
	for len(S) > 0 {
		top := S[len(S)-1]
		S = S[:len(S)-1]
		if _, ok := seen[top]; !ok {
			scc = make(Nodeset)
			rvisit(top)
			sccs = append(sccs, scc)
		}
	}
	return sccs
}

// sortResult sorts the strata topologically (ignoring residual cycles).
func (dep depGraph) sortResult(strata []Nodeset, predToStratumMap map[ast.PredicateSym]int) ([]Nodeset, map[ast.PredicateSym]int) {
	var sorted []int
	seen := make(map[int]struct{})
	var visitStratum func(index int)
	visitStratum = func(index int) {
		if _, ok := seen[index]; ok {
			return
		}
		seen[index] = struct{}{}
		for sym := range strata[index] {
			for d := range dep[sym] {
				visitStratum(predToStratumMap[d])
			}
		}
		sorted = append(sorted, index)
	}

	for i := 0; i < len(strata); i++ {
		visitStratum(i)
	}
	newstrata := make([]Nodeset, len(strata))
	oldToNew := make(map[int]int)
	for i := 0; i < len(strata); i++ {
		newstrata[i] = strata[sorted[i]]
		oldToNew[sorted[i]] = i
	}
	newPredToStratumMap := make(map[ast.PredicateSym]int, len(predToStratumMap))
	for sym := range predToStratumMap {
		newPredToStratumMap[sym] = oldToNew[predToStratumMap[sym]]
	}
	return newstrata, newPredToStratumMap
}
