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

import "github.com/google/asptel/ast"

// PredGraph is a plain predicate dependency graph (no negation tracking),
// reused by the program transformer to decide the emission order of
// reground parts: a part whose rules depend on another reground part's
// future-predicate bindings must be scheduled after it.
type PredGraph map[ast.PredicateSym]map[ast.PredicateSym]bool

// BuildPredGraph adds one edge head -> body for every non-builtin atom
// occurring in the body of every rule.
func BuildPredGraph(rules []ast.Clause) PredGraph {
	g := make(PredGraph)
	for _, r := range rules {
		for _, h := range r.Heads {
			if g[h.Predicate] == nil {
				g[h.Predicate] = make(map[ast.PredicateSym]bool)
			}
			for _, p := range r.Premises {
				switch a := p.(type) {
				case ast.Atom:
					g[h.Predicate][a.Predicate] = true
				case ast.NegAtom:
					g[h.Predicate][a.Atom.Predicate] = true
				}
			}
		}
	}
	return g
}

// SCCs computes the strongly connected components of g via Kosaraju's
// algorithm, returned in an arbitrary but deterministic-per-call order.
func (g PredGraph) SCCs() []map[ast.PredicateSym]bool {
	visited := make(map[ast.PredicateSym]bool)
	var finishOrder []ast.PredicateSym

	var dfs1 func(node ast.PredicateSym)
	dfs1 = func(node ast.PredicateSym) {
		if visited[node] {
			return
		}
		visited[node] = true
		for neighbor := range g[node] {
			dfs1(neighbor)
		}
		finishOrder = append(finishOrder, node)
	}
	for node := range g {
		dfs1(node)
	}

	reverse := make(PredGraph)
	for node := range g {
		if reverse[node] == nil {
			reverse[node] = make(map[ast.PredicateSym]bool)
		}
	}
	for src, edges := range g {
		for dest := range edges {
			if reverse[dest] == nil {
				reverse[dest] = make(map[ast.PredicateSym]bool)
			}
			reverse[dest][src] = true
		}
	}

	visited = make(map[ast.PredicateSym]bool)
	var sccs []map[ast.PredicateSym]bool
	var dfs2 func(node ast.PredicateSym, scc map[ast.PredicateSym]bool)
	dfs2 = func(node ast.PredicateSym, scc map[ast.PredicateSym]bool) {
		if visited[node] {
			return
		}
		visited[node] = true
		scc[node] = true
		for neighbor := range reverse[node] {
			dfs2(neighbor, scc)
		}
	}
	for i := len(finishOrder) - 1; i >= 0; i-- {
		node := finishOrder[i]
		if !visited[node] {
			scc := make(map[ast.PredicateSym]bool)
			dfs2(node, scc)
			sccs = append(sccs, scc)
		}
	}
	return sccs
}

// InSameSCC reports whether a and b fall in the same component of sccs.
func InSameSCC(a, b ast.PredicateSym, sccs []map[ast.PredicateSym]bool) bool {
	for _, scc := range sccs {
		if scc[a] && scc[b] {
			return true
		}
	}
	return false
}
