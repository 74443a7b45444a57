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

// TemporalWarning is a non-fatal diagnostic about a rule shape that is
// legal but may cause unbounded reground windows or non-termination.
type TemporalWarning struct {
	Predicate ast.PredicateSym
	Message   string
	Severity  WarningSeverity
}

// WarningSeverity indicates the severity of a warning.
type WarningSeverity int

const (
	// SeverityInfo is informational and may not indicate a problem.
	SeverityInfo WarningSeverity = iota
	// SeverityWarning may cause larger reground windows than intended.
	SeverityWarning
	// SeverityCritical is likely to cause non-termination of the horizon search.
	SeverityCritical
)

func (s WarningSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

func (w TemporalWarning) String() string {
	return fmt.Sprintf("[%s] %s: %s", w.Severity, w.Predicate.Symbol, w.Message)
}

// TheoryOccurrence pairs a rule's head predicate with a temporal formula
// found in one of that rule's theory atoms, as handed to
// CheckTemporalRecursion by the program transformer once it has classified
// every rule.
type TheoryOccurrence struct {
	Head    ast.PredicateSym
	Formula ast.BodyFormula
}

// CheckTemporalRecursion looks for two patterns that are legal but risky:
// a predicate whose own rules, through a body theory atom, refer to a
// future occurrence of a predicate in the same dependency cycle (risks an
// ever-growing reground window), and mutual recursion through temporal
// predicates generally (risks non-termination of the incremental search).
func CheckTemporalRecursion(rules []ast.Clause, occurrences []TheoryOccurrence) []TemporalWarning {
	if len(occurrences) == 0 {
		return nil
	}
	temporalPreds := make(map[ast.PredicateSym]bool)
	for _, occ := range occurrences {
		temporalPreds[occ.Head] = true
	}

	g := BuildPredGraph(rules)
	sccs := g.SCCs()

	var warnings []TemporalWarning
	for _, scc := range sccs {
		if len(scc) <= 1 {
			continue
		}
		hasTemporal := false
		var first ast.PredicateSym
		for pred := range scc {
			if temporalPreds[pred] {
				hasTemporal = true
			}
			first = pred
		}
		if hasTemporal {
			warnings = append(warnings, TemporalWarning{
				Predicate: first,
				Message:   fmt.Sprintf("mutual recursion through temporal predicates may cause non-termination; %d predicates in cycle", len(scc)),
				Severity:  SeverityCritical,
			})
		}
	}

	for _, occ := range occurrences {
		referredPreds := futureReferredPreds(occ.Formula)
		for _, rp := range referredPreds {
			if InSameSCC(occ.Head, rp, sccs) {
				warnings = append(warnings, TemporalWarning{
					Predicate: occ.Head,
					Message:   "future operator in recursive temporal rule may cause an unbounded reground window",
					Severity:  SeverityCritical,
				})
				break
			}
		}
	}
	return warnings
}

// futureReferredPreds collects the predicates named under a strictly
// positive-shift Next/Until/Release/diamond-box occurrence in f.
func futureReferredPreds(f ast.BodyFormula) []ast.PredicateSym {
	var out []ast.PredicateSym
	var walk func(f ast.BodyFormula, future bool)
	walk = func(f ast.BodyFormula, future bool) {
		switch t := f.(type) {
		case ast.BFAtom:
			if future {
				out = append(out, ast.PredicateSym{Symbol: t.Name, Arity: len(t.Args) + 1})
			}
		case ast.BFNegation:
			walk(t.Arg, future)
		case ast.BFBoolBinary:
			walk(t.Left, future)
			walk(t.Right, future)
		case ast.BFNext:
			walk(t.Arg, true)
		case ast.BFUntil:
			if t.Left != nil {
				walk(t.Left, future)
			}
			walk(t.Right, true)
		case ast.BFRelease:
			if t.Left != nil {
				walk(t.Left, future)
			}
			walk(t.Right, true)
		case ast.BFFinally:
			walk(t.Arg, true)
		case ast.DFDiamond:
			walk(t.Arg, true)
		case ast.DFBox:
			walk(t.Arg, true)
		}
	}
	walk(f, false)
	return out
}
