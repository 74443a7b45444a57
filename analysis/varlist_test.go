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
	"reflect"
	"testing"

	"github.com/google/asptel/ast"
)

func TestNewVarListIsSorted(t *testing.T) {
	m := map[ast.Variable]bool{v("Z"): true, v("A"): true, v("M"): true}
	got := NewVarList(m)
	want := []ast.Variable{v("A"), v("M"), v("Z")}
	if !reflect.DeepEqual(got.Vars, want) {
		t.Errorf("NewVarList(%v).Vars = %v, want %v", m, got.Vars, want)
	}
}

func TestVarListContainsAndFind(t *testing.T) {
	vs := VarList{Vars: []ast.Variable{v("X"), v("Y")}}
	if !vs.Contains(v("Y")) {
		t.Errorf("Contains(Y) = false, want true")
	}
	if vs.Contains(v("Z")) {
		t.Errorf("Contains(Z) = true, want false")
	}
	if got := vs.Find(v("X")); got != 0 {
		t.Errorf("Find(X) = %d, want 0", got)
	}
}

func TestFreeVarsCollectsAcrossTemporalOperators(t *testing.T) {
	f := ast.BFUntil{
		Left:  ast.BFAtom{Name: "p", Args: []ast.TheoryTerm{ast.TheoryVariable{Symbol: "X"}}},
		Right: ast.BFNext{N: 1, Arg: ast.BFAtom{Name: "q", Args: []ast.TheoryTerm{ast.TheoryVariable{Symbol: "Y"}}}},
	}
	got := FreeVars(f)
	want := []ast.Variable{v("X"), v("Y")}
	if !reflect.DeepEqual(got.Vars, want) {
		t.Errorf("FreeVars(%v) = %v, want %v", f, got.Vars, want)
	}
}
