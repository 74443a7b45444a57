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

// SequenceKind distinguishes the three theory-term tuple shapes.
type SequenceKind int

const (
	// TupleSeq is a parenthesized, ordered tuple: (a, b, c).
	TupleSeq SequenceKind = iota
	// SetSeq is a brace-delimited set: {a, b, c}.
	SetSeq
	// ListSeq is a bracket-delimited list: [a, b, c].
	ListSeq
)

// TheoryTerm is the term language accepted inside an unparsed theory atom
// body (the argument of &tel{...} / &del{...}). It is deliberately distinct
// from ast.Term: theory terms may contain raw, as-yet-unresolved operator
// sequences that only the theory-term parser's operator-precedence pass
// turns into a shaped term.
type TheoryTerm interface {
	isTheoryTerm()
	String() string
}

// TheoryNumber is an integer theory term.
type TheoryNumber struct{ Value int64 }

func (TheoryNumber) isTheoryTerm()     {}
func (t TheoryNumber) String() string { return itoa(t.Value) }

// TheorySymbol is a bare-name or quoted-string theory term.
type TheorySymbol struct {
	Symbol string
	Quoted bool
}

func (TheorySymbol) isTheoryTerm() {}
func (t TheorySymbol) String() string {
	if t.Quoted {
		return `"` + t.Symbol + `"`
	}
	return t.Symbol
}

// TheoryVariable is a variable occurring inside a theory term.
type TheoryVariable struct{ Symbol string }

func (TheoryVariable) isTheoryTerm()    {}
func (t TheoryVariable) String() string { return t.Symbol }

// TheoryFunction is a named function applied to theory-term arguments, e.g. inc(x,1).
type TheoryFunction struct {
	Name string
	Args []TheoryTerm
}

func (TheoryFunction) isTheoryTerm() {}
func (t TheoryFunction) String() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	sb.WriteByte('(')
	for i, a := range t.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// TheorySequence is a tuple, set, or list of theory terms.
type TheorySequence struct {
	Kind  SequenceKind
	Terms []TheoryTerm
}

func (TheorySequence) isTheoryTerm() {}
func (t TheorySequence) String() string {
	open, close := "(", ")"
	switch t.Kind {
	case SetSeq:
		open, close = "{", "}"
	case ListSeq:
		open, close = "[", "]"
	}
	var sb strings.Builder
	sb.WriteString(open)
	for i, term := range t.Terms {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(term.String())
	}
	sb.WriteString(close)
	return sb.String()
}

// OperatorTermPair is one (operator, operand) link in an UnparsedTerm chain,
// exactly mirroring how the theory grammar hands raw token sequences to the
// operator-precedence pass before any shape is imposed.
type OperatorTermPair struct {
	Operator string
	Operand  TheoryTerm
}

// UnparsedTerm is a flat sequence of theory terms joined by theory
// operators, as the grammar hands it to the term transformer before
// operator-precedence parsing resolves it into a shaped TheoryFunction tree.
type UnparsedTerm struct {
	First TheoryTerm
	Rest  []OperatorTermPair
}

func (UnparsedTerm) isTheoryTerm() {}
func (t UnparsedTerm) String() string {
	var sb strings.Builder
	sb.WriteString(t.First.String())
	for _, p := range t.Rest {
		sb.WriteByte(' ')
		sb.WriteString(p.Operator)
		sb.WriteByte(' ')
		sb.WriteString(p.Operand.String())
	}
	return sb.String()
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
