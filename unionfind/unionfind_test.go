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

package unionfind

import "testing"

func intLess(a, b int) bool { return a < b }

func TestFindUnseenIsSingleton(t *testing.T) {
	uf := New(intLess)
	if got := uf.Find(5); got != 5 {
		t.Errorf("Find(5) = %d, want 5", got)
	}
}

func TestUnionPicksMinimumRepresentative(t *testing.T) {
	uf := New(intLess)
	rep := uf.Union(7, 3)
	if rep != 3 {
		t.Errorf("Union(7,3) = %d, want 3", rep)
	}
	if got := uf.Find(7); got != 3 {
		t.Errorf("Find(7) = %d, want 3", got)
	}
	rep2 := uf.Union(3, 1)
	if rep2 != 1 {
		t.Errorf("Union(3,1) = %d, want 1", rep2)
	}
	if got := uf.Find(7); got != 1 {
		t.Errorf("Find(7) = %d, want 1 after transitive merge", got)
	}
}

func TestConnected(t *testing.T) {
	uf := New(intLess)
	uf.Union(1, 2)
	uf.Union(2, 3)
	if !uf.Connected(1, 3) {
		t.Errorf("Connected(1,3) = false, want true")
	}
	if uf.Connected(1, 4) {
		t.Errorf("Connected(1,4) = true, want false")
	}
}

func TestClasses(t *testing.T) {
	uf := New(intLess)
	uf.Union(1, 2)
	uf.Union(3, 4)
	classes := uf.Classes()
	if len(classes) != 2 {
		t.Errorf("len(Classes()) = %d, want 2", len(classes))
	}
	if members, ok := classes[1]; !ok || len(members) != 2 {
		t.Errorf("Classes()[1] = %v, want 2 members", members)
	}
}
