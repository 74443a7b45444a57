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

package parse

import "testing"

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer("test.lp", src)
	var toks []Token
	for {
		tok := l.Next()
		if tok.Kind == TokEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

// assertRoundTrips checks that printing a parsed formula and re-parsing the
// printed text yields the same printed text again: parse(print(f)) == f,
// modulo the parser's own idempotent rendering (per spec.md §8's testable
// round-trip property).
func assertRoundTrips(t *testing.T, src string) {
	t.Helper()
	f, err := ParseBodyFormula(lexAll(t, src))
	if err != nil {
		t.Fatalf("ParseBodyFormula(%q): %v", src, err)
	}
	printed := f.String()
	f2, err := ParseBodyFormula(lexAll(t, printed))
	if err != nil {
		t.Fatalf("re-parsing printed form %q: %v", printed, err)
	}
	if got := f2.String(); got != printed {
		t.Errorf("round trip mismatch: parsed %q, printed %q, reparsed+printed %q", src, printed, got)
	}
}

func TestBodyFormulaRoundTripAtom(t *testing.T) {
	assertRoundTrips(t, "p")
}

func TestBodyFormulaRoundTripNegatedAtom(t *testing.T) {
	assertRoundTrips(t, "-p")
}

func TestBodyFormulaRoundTripConjunction(t *testing.T) {
	assertRoundTrips(t, "p & q")
}

func TestBodyFormulaRoundTripDisjunction(t *testing.T) {
	assertRoundTrips(t, "p | q")
}

func TestBodyFormulaRoundTripNegation(t *testing.T) {
	assertRoundTrips(t, "~p")
}

func TestBodyFormulaRoundTripPrevious(t *testing.T) {
	assertRoundTrips(t, "<p")
}

func TestBodyFormulaRoundTripWeakNext(t *testing.T) {
	assertRoundTrips(t, ">:p")
}

func TestBodyFormulaRoundTripImplication(t *testing.T) {
	assertRoundTrips(t, "p -> q")
}

func TestBodyFormulaRoundTripNestedTemporal(t *testing.T) {
	assertRoundTrips(t, "<(p & >q)")
}

func TestBodyFormulaRoundTripAtomWithArgs(t *testing.T) {
	assertRoundTrips(t, "p(x,y)")
}

func TestParseBodyFormulaRejectsUnknownOperator(t *testing.T) {
	if _, err := ParseBodyFormula(lexAll(t, "p @@ q")); err == nil {
		t.Errorf("expected an error parsing an unrecognized operator")
	}
}
