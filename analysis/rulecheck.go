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
	"go.uber.org/multierr"

	"github.com/google/asptel/ast"
	"github.com/google/asptel/errs"
)

// CheckRuleShapes validates every clause against the fixed set of legal rule
// shapes: a normal rule has exactly one head atom; a constraint has none; a
// disjunctive rule has two or more; a choice rule has at least one.
func CheckRuleShapes(rules []ast.Clause) error {
	var errOut error
	for _, r := range rules {
		switch r.Kind {
		case ast.NormalRule:
			if len(r.Heads) != 1 {
				errOut = multierr.Append(errOut, errs.Newf(errs.InvalidTemporalFormula, nil,
					"normal rule must have exactly one head atom, found %d", len(r.Heads)))
			}
		case ast.ConstraintRule:
			if len(r.Heads) != 0 {
				errOut = multierr.Append(errOut, errs.New(errs.InvalidTemporalFormula, nil,
					"constraint rule must have an empty head"))
			}
		case ast.DisjunctiveRule:
			if len(r.Heads) < 2 {
				errOut = multierr.Append(errOut, errs.New(errs.InvalidTemporalFormula, nil,
					"disjunctive rule must have at least two head atoms"))
			}
		case ast.ChoiceRule:
			if len(r.Heads) == 0 {
				errOut = multierr.Append(errOut, errs.New(errs.InvalidTemporalFormula, nil,
					"choice rule must have at least one head atom"))
			}
		}
	}
	return errOut
}

// CheckTemporalInPositiveBody flags a body theory atom occurrence that is a
// bare positive atom (not under negation, "initially"/"finally", or any
// other operator) in a rule whose head is not a constraint: such an
// occurrence can never become true through grounding alone and signals a
// formula the user meant to negate or wrap, per errs.TemporalInPositiveBody.
func CheckTemporalInPositiveBody(isConstraint bool, f ast.BodyFormula, loc ast.Location) error {
	a, ok := f.(ast.BFAtom)
	if ok && !isConstraint && a.Sign == ast.Positive {
		return errs.Newf(errs.TemporalInPositiveBody, loc,
			"bare temporal atom %q in a positive rule body; negate it or wrap it in a temporal operator", a.Name)
	}
	return nil
}
