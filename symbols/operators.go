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

// Package symbols holds the fixed operator and reserved-name tables that
// drive the theory-term parser and the term/program transformers. Nothing
// here is derived at runtime: every table is exactly the vocabulary the
// theory grammar defines.
package symbols

// Associativity names how a binary operator groups with itself.
type Associativity int

const (
	// LeftAssoc groups "a op b op c" as "(a op b) op c".
	LeftAssoc Associativity = iota
	// RightAssoc groups "a op b op c" as "a op (b op c)".
	RightAssoc
)

// Fixity distinguishes prefix (unary) from infix (binary) operator entries.
type Fixity int

const (
	// Prefix is a unary, left-of-operand operator.
	Prefix Fixity = iota
	// Infix is a binary operator.
	Infix
)

// OperatorDef is one entry of a precedence table: a theory operator symbol,
// its fixity, binding power, and associativity (infix only).
type OperatorDef struct {
	Symbol   string
	Fixity   Fixity
	Priority int
	Assoc    Associativity
}

// BodyOperators is the operator-precedence table for theory terms occurring
// in body position (&tel/&del), grouped by priority. Unary shift/temporal
// prefixes bind tightest (7), then arithmetic (6), then the binary
// temporal/boolean connectives down to <> (1); the binary until/release/
// since/trigger entries (5) are listed last, after priority 1.
var BodyOperators = []OperatorDef{
	{"&", Prefix, 7, LeftAssoc},
	{"-", Prefix, 7, LeftAssoc},
	{"~", Prefix, 7, LeftAssoc},
	{"<", Prefix, 7, LeftAssoc},
	{"<:", Prefix, 7, LeftAssoc},
	{"<?", Prefix, 7, LeftAssoc},
	{"<*", Prefix, 7, LeftAssoc},
	{"<<", Prefix, 7, LeftAssoc},
	{">", Prefix, 7, LeftAssoc},
	{">:", Prefix, 7, LeftAssoc},
	{">?", Prefix, 7, LeftAssoc},
	{">*", Prefix, 7, LeftAssoc},
	{">>", Prefix, 7, LeftAssoc},

	{"+", Infix, 6, LeftAssoc},
	{"-", Infix, 6, LeftAssoc},

	{">", Infix, 5, LeftAssoc},
	{">:", Infix, 5, LeftAssoc},
	{">*", Infix, 5, LeftAssoc},
	{">?", Infix, 5, LeftAssoc},
	{"<*", Infix, 5, LeftAssoc},
	{"<?", Infix, 5, LeftAssoc},

	{"&", Infix, 4, LeftAssoc},
	{"|", Infix, 3, LeftAssoc},

	{"<-", Infix, 2, LeftAssoc},
	{"->", Infix, 2, LeftAssoc},
	{"<>", Infix, 1, LeftAssoc},

	{";>", Infix, 5, RightAssoc},
	{";>:", Infix, 5, RightAssoc},
	{"<;", Infix, 5, LeftAssoc},
	{"<:;", Infix, 5, LeftAssoc},
}

// HeadOperators is the strict subset of BodyOperators legal in head
// position: no past operators, no temporal equivalence/implication.
var HeadOperators = []OperatorDef{
	{"&", Prefix, 7, LeftAssoc},
	{"-", Prefix, 7, LeftAssoc},
	{"~", Prefix, 7, LeftAssoc},
	{">", Prefix, 7, LeftAssoc},
	{">:", Prefix, 7, LeftAssoc},
	{">?", Prefix, 7, LeftAssoc},
	{">*", Prefix, 7, LeftAssoc},
	{">>", Prefix, 7, LeftAssoc},

	{"+", Infix, 6, LeftAssoc},
	{"-", Infix, 6, LeftAssoc},

	{">", Infix, 5, LeftAssoc},
	{">:", Infix, 5, LeftAssoc},
	{">*", Infix, 5, LeftAssoc},
	{">?", Infix, 5, LeftAssoc},

	{"&", Infix, 4, LeftAssoc},
	{"|", Infix, 3, LeftAssoc},

	{";>", Infix, 5, RightAssoc},
	{";>:", Infix, 5, RightAssoc},
}

// DynamicPathOperators is the operator table for path expressions inside &del{...}.
var DynamicPathOperators = []OperatorDef{
	{"?", Prefix, 7, LeftAssoc},
	{"*", Prefix, 7, LeftAssoc},
	{";;", Infix, 3, LeftAssoc},
	{"+", Infix, 2, LeftAssoc},
}

// DynamicFormulaOperators is the operator table joining a path to a formula.
var DynamicFormulaOperators = []OperatorDef{
	{".>?", Infix, 1, LeftAssoc},
	{".>*", Infix, 1, LeftAssoc},
}

// Keywords is the fixed set of bareword names with special meaning inside a "&" theory atom.
var Keywords = map[string]bool{
	"true":    true,
	"false":   true,
	"initial": true,
	"final":   true,
	"skip":    true,
}

// Lookup finds the operator definition matching symbol/fixity in table, or
// reports found=false if the combination isn't in the table (the caller
// should raise errs.InvalidOperator).
func Lookup(table []OperatorDef, symbol string, fixity Fixity) (OperatorDef, bool) {
	for _, def := range table {
		if def.Symbol == symbol && def.Fixity == fixity {
			return def, true
		}
	}
	return OperatorDef{}, false
}
