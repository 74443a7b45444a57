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

import "strings"

// Sign distinguishes a positive atom occurrence from a classically negated one.
type Sign int

const (
	// Positive marks an ordinary atom occurrence.
	Positive Sign = iota
	// Negative marks a classically negated ("-p") atom occurrence.
	Negative
)

// BodyFormula is the temporal formula language accepted inside a body
// theory atom (&tel{...}, &del{...}). It is a plain immutable tree: the
// per-(formula,step) runtime state and the cyclic Next-attachment used by
// Until/Release live in the theory package's arena, not here.
type BodyFormula interface {
	isBodyFormula()
	String() string
}

// BFAtom is a temporal occurrence of a ground or symbolic atom.
type BFAtom struct {
	Sign Sign
	Name string
	Args []TheoryTerm
}

func (BFAtom) isBodyFormula() {}
func (f BFAtom) String() string {
	var sb strings.Builder
	if f.Sign == Negative {
		sb.WriteByte('-')
	}
	sb.WriteString(f.Name)
	if len(f.Args) > 0 {
		sb.WriteByte('(')
		for i, a := range f.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(a.String())
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// BFNegation is formula negation ("~F" or "not F" in the theory grammar).
type BFNegation struct{ Arg BodyFormula }

func (BFNegation) isBodyFormula()  {}
func (f BFNegation) String() string { return "~" + parenthesize(f.Arg) }

// BFBoolConst is the literal true/false keyword.
type BFBoolConst struct{ Value bool }

func (BFBoolConst) isBodyFormula() {}
func (f BFBoolConst) String() string {
	if f.Value {
		return "true"
	}
	return "false"
}

// BoolOp names the binary connective of a BFBoolBinary node.
type BoolOp int

const (
	// OpAnd is conjunction "&".
	OpAnd BoolOp = iota
	// OpOr is disjunction "|".
	OpOr
	// OpEquiv is temporal equivalence "<>".
	OpEquiv
	// OpImpliedBy is "<-" (right implies left).
	OpImpliedBy
	// OpImplies is "->" (left implies right).
	OpImplies
)

var boolOpSymbol = map[BoolOp]string{
	OpAnd: "&", OpOr: "|", OpEquiv: "<>", OpImpliedBy: "<-", OpImplies: "->",
}

// BFBoolBinary is a non-temporal Boolean connective over two sub-formulas.
type BFBoolBinary struct {
	Op          BoolOp
	Left, Right BodyFormula
}

func (BFBoolBinary) isBodyFormula() {}
func (f BFBoolBinary) String() string {
	return parenthesize(f.Left) + " " + boolOpSymbol[f.Op] + " " + parenthesize(f.Right)
}

// BFPrevious is the "<" (strong) / "<:" (weak) past-shift operator, N steps back.
type BFPrevious struct {
	N    int
	Arg  BodyFormula
	Weak bool
}

func (BFPrevious) isBodyFormula() {}
func (f BFPrevious) String() string {
	return shiftPrefix("<", f.N, f.Weak) + parenthesize(f.Arg)
}

// BFNext is the ">" (strong) / ">:" (weak) future-shift operator, N steps ahead.
type BFNext struct {
	N    int
	Arg  BodyFormula
	Weak bool
}

func (BFNext) isBodyFormula() {}
func (f BFNext) String() string {
	return shiftPrefix(">", f.N, f.Weak) + parenthesize(f.Arg)
}

// BFInitially is "<?" applied implicitly by the "_p" prefix: true only at step 0.
type BFInitially struct{ Arg BodyFormula }

func (BFInitially) isBodyFormula()  {}
func (f BFInitially) String() string { return "<?" + parenthesize(f.Arg) }

// BFFinally is "p_": true only at the final step. Unfolds during translation
// to Release(nil, (~__final) | a) plus its Next-auxiliary, per the head
// theory-atom / body-compiler translation contract.
type BFFinally struct{ Arg BodyFormula }

func (BFFinally) isBodyFormula()  {}
func (f BFFinally) String() string { return ">?" + parenthesize(f.Arg) }

// BFSince is the past binary "Left <; Right" operator. Left == nil encodes
// the unary "eventually-in-the-past" flavor ("<* Right", i.e. since(None, Right)).
type BFSince struct{ Left, Right BodyFormula }

func (BFSince) isBodyFormula() {}
func (f BFSince) String() string {
	if f.Left == nil {
		return "<*" + parenthesize(f.Right)
	}
	return parenthesize(f.Left) + " <; " + parenthesize(f.Right)
}

// BFTrigger is the past binary "Left <:; Right" operator (dual of Since).
// Left == nil encodes "always-in-the-past" ("<<" Right).
type BFTrigger struct{ Left, Right BodyFormula }

func (BFTrigger) isBodyFormula() {}
func (f BFTrigger) String() string {
	if f.Left == nil {
		return "<<" + parenthesize(f.Right)
	}
	return parenthesize(f.Left) + " <:; " + parenthesize(f.Right)
}

// BFUntil is the future binary "Left ;> Right" operator. Left == nil encodes
// "eventually" (">*" Right).
type BFUntil struct{ Left, Right BodyFormula }

func (BFUntil) isBodyFormula() {}
func (f BFUntil) String() string {
	if f.Left == nil {
		return ">*" + parenthesize(f.Right)
	}
	return parenthesize(f.Left) + " ;> " + parenthesize(f.Right)
}

// BFRelease is the future binary "Left ;>: Right" operator (dual of Until).
// Left == nil encodes "always" (">>" Right).
type BFRelease struct{ Left, Right BodyFormula }

func (BFRelease) isBodyFormula() {}
func (f BFRelease) String() string {
	if f.Left == nil {
		return ">>" + parenthesize(f.Right)
	}
	return parenthesize(f.Left) + " ;>: " + parenthesize(f.Right)
}

// BFNumericLiteral is a reference to a raw solver-assigned literal id,
// produced internally while folding head-theory-atom disjunctions; it never
// occurs in user source.
type BFNumericLiteral struct{ ID int }

func (BFNumericLiteral) isBodyFormula()  {}
func (f BFNumericLiteral) String() string { return "$lit" + itoa(int64(f.ID)) }

func shiftPrefix(op string, n int, weak bool) string {
	suffix := ""
	if weak {
		suffix = ":"
	}
	if n == 1 {
		return op + suffix
	}
	return op + itoa(int64(n)) + suffix
}

func parenthesize(f BodyFormula) string {
	switch f.(type) {
	case BFAtom, BFBoolConst, BFNumericLiteral:
		return f.String()
	default:
		return "(" + f.String() + ")"
	}
}
