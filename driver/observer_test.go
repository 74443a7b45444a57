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
	"bytes"
	"strings"
	"testing"

	"github.com/google/asptel/host"
)

type staticModel struct{ syms []host.Symbol }

func (m staticModel) Contains(host.Symbol) bool { return false }
func (m staticModel) Symbols() []host.Symbol    { return m.syms }

func TestObserverGroupsByTrailingTimeArgument(t *testing.T) {
	var buf bytes.Buffer
	o := NewObserver(&buf, false)
	o.OnModel(staticModel{syms: []host.Symbol{
		sym("p", sym("0")),
		sym("q", sym("1")),
		sym("r", sym("0")),
	}})
	out := buf.String()
	if !strings.Contains(out, "Answer: 1") {
		t.Errorf("expected an Answer header, got %q", out)
	}
	if !strings.Contains(out, "State 0:") || !strings.Contains(out, "State 1:") {
		t.Errorf("expected one line per distinct state, got %q", out)
	}
	idx0 := strings.Index(out, "State 0:")
	idx1 := strings.Index(out, "State 1:")
	if idx0 > idx1 {
		t.Errorf("expected states sorted ascending, got %q", out)
	}
}

func TestObserverIgnoresArglessSymbols(t *testing.T) {
	var buf bytes.Buffer
	o := NewObserver(&buf, false)
	o.OnModel(staticModel{syms: []host.Symbol{{Name: "flag"}}})
	out := buf.String()
	if strings.Contains(out, "State") {
		t.Errorf("expected no state line for an argless symbol, got %q", out)
	}
}

func TestObserverNumbersAnswersSequentially(t *testing.T) {
	var buf bytes.Buffer
	o := NewObserver(&buf, false)
	o.OnModel(staticModel{})
	o.OnModel(staticModel{})
	out := buf.String()
	if !strings.Contains(out, "Answer: 1") || !strings.Contains(out, "Answer: 2") {
		t.Errorf("expected sequential answer numbers, got %q", out)
	}
}

func TestTimingRunsFunction(t *testing.T) {
	o := NewObserver(&bytes.Buffer{}, false)
	ran := false
	if err := o.Timing("step", func() error { ran = true; return nil }); err != nil {
		t.Fatalf("Timing: %v", err)
	}
	if !ran {
		t.Errorf("expected the wrapped function to run")
	}
}
