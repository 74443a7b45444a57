// Copyright 2023 Google LLC
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

	"github.com/google/asptel/ast"
)

// VarList is an ordered list of variables, used by the head theory-atom
// transformer to name the free variables of a temporal formula ("vars(F)"
// in the auxiliary atom __aux_k(vars(F), t)).
type VarList struct {
	Vars []ast.Variable
}

// NewVarList converts a set of variables to a VarList in a deterministic
// (symbol-sorted) order, so the same formula always yields the same
// auxiliary atom argument order across runs.
func NewVarList(m map[ast.Variable]bool) VarList {
	vars := make([]ast.Variable, 0, len(m))
	for v := range m {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Symbol < vars[j].Symbol })
	return VarList{vars}
}

// Extend returns a new VarList with appended list of variables.
func (vs VarList) Extend(vars []ast.Variable) VarList {
	return VarList{append(append([]ast.Variable{}, vs.Vars...), vars...)}
}

// Contains returns true if this VarList contains the given variable.
func (vs VarList) Contains(v ast.Variable) bool {
	return vs.Find(v) != -1
}

// Find returns the index of the given variable, or -1 if not found.
func (vs VarList) Find(v ast.Variable) int {
	for i, u := range vs.Vars {
		if u.Symbol == v.Symbol {
			return i
		}
	}
	return -1
}

// FreeVars collects the free variables of a body formula in a
// deterministic VarList, walking every temporal/path sub-formula.
func FreeVars(f ast.BodyFormula) VarList {
	m := make(map[ast.Variable]bool)
	collectBodyVars(f, m)
	return NewVarList(m)
}

func collectBodyVars(f ast.BodyFormula, m map[ast.Variable]bool) {
	switch t := f.(type) {
	case ast.BFAtom:
		for _, a := range t.Args {
			collectTheoryVars(a, m)
		}
	case ast.BFNegation:
		collectBodyVars(t.Arg, m)
	case ast.BFBoolConst:
	case ast.BFBoolBinary:
		collectBodyVars(t.Left, m)
		collectBodyVars(t.Right, m)
	case ast.BFPrevious:
		collectBodyVars(t.Arg, m)
	case ast.BFNext:
		collectBodyVars(t.Arg, m)
	case ast.BFInitially:
		collectBodyVars(t.Arg, m)
	case ast.BFFinally:
		collectBodyVars(t.Arg, m)
	case ast.BFSince:
		if t.Left != nil {
			collectBodyVars(t.Left, m)
		}
		collectBodyVars(t.Right, m)
	case ast.BFTrigger:
		if t.Left != nil {
			collectBodyVars(t.Left, m)
		}
		collectBodyVars(t.Right, m)
	case ast.BFUntil:
		if t.Left != nil {
			collectBodyVars(t.Left, m)
		}
		collectBodyVars(t.Right, m)
	case ast.BFRelease:
		if t.Left != nil {
			collectBodyVars(t.Left, m)
		}
		collectBodyVars(t.Right, m)
	case ast.DFDiamond:
		collectPathVars(t.Path, m)
		collectBodyVars(t.Arg, m)
	case ast.DFBox:
		collectPathVars(t.Path, m)
		collectBodyVars(t.Arg, m)
	}
}

func collectPathVars(p ast.PathFormula, m map[ast.Variable]bool) {
	switch t := p.(type) {
	case ast.PFSkip:
	case ast.PFTest:
		collectBodyVars(t.Body, m)
	case ast.PFChoice:
		collectPathVars(t.Left, m)
		collectPathVars(t.Right, m)
	case ast.PFSequence:
		collectPathVars(t.Left, m)
		collectPathVars(t.Right, m)
	case ast.PFKleeneStar:
		collectPathVars(t.Path, m)
	}
}

func collectTheoryVars(t ast.TheoryTerm, m map[ast.Variable]bool) {
	switch x := t.(type) {
	case ast.TheoryVariable:
		if x.Symbol != "_" {
			m[ast.Variable{Symbol: x.Symbol}] = true
		}
	case ast.TheoryFunction:
		for _, a := range x.Args {
			collectTheoryVars(a, m)
		}
	case ast.TheorySequence:
		for _, a := range x.Terms {
			collectTheoryVars(a, m)
		}
	case ast.UnparsedTerm:
		collectTheoryVars(x.First, m)
		for _, p := range x.Rest {
			collectTheoryVars(p.Operand, m)
		}
	}
}
