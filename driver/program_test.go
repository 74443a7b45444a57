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

package driver

import (
	"testing"

	"github.com/google/asptel/host"
	"github.com/google/asptel/parse"
)

func TestLoadProgramRegistersPartsAndTheoryGrammar(t *testing.T) {
	src := "#program base.\np :- q.\n#program dynamic.\nr :- p.\n"
	stmts, err := parse.ParseProgram("test.lp", src)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	c := host.NewFakeControl()
	sigs, parts, err := LoadProgram(c, stmts)
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	if parts == nil {
		t.Fatalf("expected a non-nil reground parts list")
	}
	_ = sigs

	foundTheory := false
	for _, name := range c.Parts() {
		if name == "__theory" {
			foundTheory = true
		}
	}
	if !foundTheory {
		t.Errorf("expected the theory grammar to be registered as its own part, got %v", c.Parts())
	}
}
