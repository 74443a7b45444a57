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

package ast

// PathFormula is the dynamic-logic regular-path language: skip, a test on a
// body formula, choice, sequence, and Kleene star.
type PathFormula interface {
	isPathFormula()
	String() string
}

// PFSkip is the atomic path "skip": advance exactly one step.
type PFSkip struct{}

func (PFSkip) isPathFormula()   {}
func (PFSkip) String() string   { return "skip" }

// PFTest is "ψ?": stay in place, succeeding only when ψ holds.
type PFTest struct{ Body BodyFormula }

func (PFTest) isPathFormula()    {}
func (p PFTest) String() string { return p.Body.String() + "?" }

// PFChoice is "p+q": nondeterministic choice between two paths.
type PFChoice struct{ Left, Right PathFormula }

func (PFChoice) isPathFormula()    {}
func (p PFChoice) String() string { return "(" + p.Left.String() + "+" + p.Right.String() + ")" }

// PFSequence is "p;;q": p followed by q.
type PFSequence struct{ Left, Right PathFormula }

func (PFSequence) isPathFormula()    {}
func (p PFSequence) String() string { return "(" + p.Left.String() + ";;" + p.Right.String() + ")" }

// PFKleeneStar is "p*": zero or more repetitions of p.
type PFKleeneStar struct{ Path PathFormula }

func (PFKleeneStar) isPathFormula()    {}
func (p PFKleeneStar) String() string { return "(" + p.Path.String() + ")*" }

// DFDiamond is the dynamic-logic diamond modality "<p>F": there exists a
// path matching p after which F holds. It is itself a BodyFormula so it can
// occur wherever a &del{...} theory atom's body appears.
type DFDiamond struct {
	Path PathFormula
	Arg  BodyFormula
}

func (DFDiamond) isBodyFormula()    {}
func (f DFDiamond) String() string { return f.Path.String() + " .>? " + parenthesize(f.Arg) }

// DFBox is the dynamic-logic box modality "[p]F": for every path matching p,
// F holds afterward.
type DFBox struct {
	Path PathFormula
	Arg  BodyFormula
}

func (DFBox) isBodyFormula()    {}
func (f DFBox) String() string { return f.Path.String() + " .>* " + parenthesize(f.Arg) }
