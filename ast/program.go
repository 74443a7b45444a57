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

import (
	"fmt"
	"strings"
)

// Location is a source position, used by every error in the errs package
// and attached to every parsed statement for diagnostics.
type Location struct {
	File      string
	Line      int
	ColStart  int
	ColEnd    int
}

// String renders the location as "file:line:col" or "file:line:col1-col2"
// when the span covers more than one column.
func (l Location) String() string {
	if l.ColEnd == 0 || l.ColEnd == l.ColStart {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.ColStart)
	}
	return fmt.Sprintf("%s:%d:%d-%d", l.File, l.Line, l.ColStart, l.ColEnd)
}

// TheoryAtomName is the fixed vocabulary of theory atom names the program
// transformer recognizes by name, per the theory definitions appended to
// every transformed program (&tel, &del, &__tel_head).
type TheoryAtomName string

const (
	// TheoryTel names a body or head temporal formula, "&tel { F }".
	TheoryTel TheoryAtomName = "tel"
	// TheoryDel names a dynamic-logic formula, "&del { F }".
	TheoryDel TheoryAtomName = "del"
	// TheoryTelHead names the internal rewritten head guard atom, "&__tel_head".
	TheoryTelHead TheoryAtomName = "__tel_head"
)

// TheoryAtom is a source occurrence of &tel{...}/&del{...}/&__tel_head{...},
// still carrying its raw (unparsed) theory term before the operator-
// precedence pass resolves it.
type TheoryAtom struct {
	Name     TheoryAtomName
	Term     TheoryTerm
	Elements []TheoryElement
	Loc      Location
}

// TheoryElement is one "tuple : condition" entry of a theory atom's element set.
type TheoryElement struct {
	Tuple     []TheoryTerm
	Condition []Term
}

// String renders the theory atom in "&name{ term }" source syntax.
func (a TheoryAtom) String() string {
	return "&" + string(a.Name) + "{ " + a.Term.String() + " }"
}

// ProgramPart names a "#program name(params)." declaration.
type ProgramPart struct {
	Name   string
	Params []Variable
}

// String renders the part declaration in source syntax.
func (p ProgramPart) String() string {
	if len(p.Params) == 0 {
		return "#program " + p.Name + "."
	}
	s := "#program " + p.Name + "("
	for i, v := range p.Params {
		if i > 0 {
			s += ","
		}
		s += v.Symbol
	}
	return s + ")."
}

// Directive is a #show/#project/#input declaration naming a predicate signature.
type DirectiveKind int

const (
	// ShowDirective is "#show p/n.".
	ShowDirective DirectiveKind = iota
	// ProjectDirective is "#project p/n.".
	ProjectDirective
	// InputDirective is "#input p/n.".
	InputDirective
)

// Directive is a single #show/#project/#input entry.
type Directive struct {
	Kind      DirectiveKind
	Predicate PredicateSym
}

var directiveKeyword = map[DirectiveKind]string{
	ShowDirective:    "#show",
	ProjectDirective: "#project",
	InputDirective:   "#input",
}

// String renders the directive in source syntax.
func (d Directive) String() string {
	return fmt.Sprintf("%s %s.", directiveKeyword[d.Kind], d.Predicate)
}

// External declares a theory-visible external atom managed by the driver
// (e.g. __final(t)), whose truth value is assigned/released across steps
// rather than derived by a rule.
type External struct {
	Atom Atom
	Loc  Location
}

// String renders the external declaration in source syntax.
func (e External) String() string { return "#external " + e.Atom.String() + "." }

// Statement is one top-level element of a parsed or rewritten program:
// exactly one of the fields below is non-nil/non-zero.
type Statement struct {
	Clause      *Clause
	TheoryAtomC *TheoryAtomClause
	Part        *ProgramPart
	Dir         *Directive
	Ext         *External
	Loc         Location

	// Raw is verbatim source text passed straight to the host parser,
	// bypassing every other field. Used exactly once, for the fixed
	// &tel/&del/&__tel_head theory grammar definition the program
	// transformer appends to every rewritten program: that grammar's shape
	// is fixed and never varies with the input program, so there is no
	// value in modeling "#theory" declarations as structured AST.
	Raw string
}

// String renders whichever field is set in source syntax; a zero Statement
// (none set) renders as the empty string.
func (s Statement) String() string {
	switch {
	case s.Raw != "":
		return s.Raw
	case s.Clause != nil:
		return s.Clause.String()
	case s.TheoryAtomC != nil:
		return s.TheoryAtomC.String()
	case s.Part != nil:
		return s.Part.String()
	case s.Dir != nil:
		return s.Dir.String()
	case s.Ext != nil:
		return s.Ext.String()
	default:
		return ""
	}
}

// TheoryAtomClause is a rule in which a theory atom occurs in head or body
// position, kept distinct from Clause because theory atoms carry unparsed
// terms that the term transformer must still resolve. A plain head
// (Heads) and a body theory occurrence (TheoryBody) can coexist, e.g.
// "p(T) :- q(T), &tel{ <r }."; TheoryHead and Heads are mutually exclusive.
type TheoryAtomClause struct {
	Kind       RuleKind
	Heads      []Atom       // plain head atoms; empty when TheoryHead is set or this is a constraint
	TheoryHead *TheoryAtom  // non-nil when the theory atom occurs in head position
	Body       []Term       // plain (non-theory) body premises
	TheoryBody []TheoryAtom // theory atom occurrences in the body
}

// String renders the rule in source syntax.
func (c TheoryAtomClause) String() string {
	var head string
	switch {
	case c.TheoryHead != nil:
		head = c.TheoryHead.String()
	case len(c.Heads) > 0:
		parts := make([]string, len(c.Heads))
		for i, h := range c.Heads {
			parts[i] = h.String()
		}
		head = strings.Join(parts, " | ")
	}
	var premises []string
	for _, p := range c.Body {
		premises = append(premises, p.String())
	}
	for _, ta := range c.TheoryBody {
		premises = append(premises, ta.String())
	}
	if premises == nil {
		return head + "."
	}
	return fmt.Sprintf("%s :- %s.", head, strings.Join(premises, ", "))
}

// FutureSignature is a (name, arity, positive-sign, shift) tuple recording a
// predicate that occurs with a positive shift in some rule head; the
// incremental driver masks every ground atom of this shape whose last
// argument exceeds the current step.
type FutureSignature struct {
	Name     string
	Arity    int
	Positive bool
	Shift    int
}

// RegroundEntry is one (future-form, steady-form) rule pair scheduled for a
// given program part and maximum shift window.
type RegroundEntry struct {
	FutureForm Clause
	SteadyForm Clause
}

// RegroundKey names a reground-parts table bucket.
type RegroundKey struct {
	Part     string
	MaxShift int
}
