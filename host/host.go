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

// Package host models the external ASP engine asptel drives but never
// implements: a grounder/solver (clingo-like) reached through Control,
// Backend, and ProgramBuilder. Nothing in this package performs grounding
// or solving itself — asptel's job stops at rewriting programs and
// compiling theory atoms into clauses handed to a Backend.
package host

import "context"

// Literal is a signed propositional literal id assigned by the host's
// symbol/atom table. Negation is represented by sign, matching the
// convention every ASP solver backend (clingo, clasp) uses internally.
type Literal int

// Negate returns the complementary literal.
func (l Literal) Negate() Literal { return -l }

// TruthValue is the three-valued assignment an external atom can carry.
type TruthValue int

const (
	// FreeValue releases an external, letting the program decide its truth.
	FreeValue TruthValue = iota
	// TrueValue assigns an external permanently true for the current step.
	TrueValue
	// FalseValue assigns an external permanently false for the current step.
	FalseValue
)

// Symbol is a ground term as the host engine's symbol table represents it;
// asptel only ever needs its string form and arity for signature matching.
type Symbol struct {
	Name string
	Args []Symbol
}

func (s Symbol) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	out := s.Name + "("
	for i, a := range s.Args {
		if i > 0 {
			out += ","
		}
		out += a.String()
	}
	return out + ")"
}

// SymbolicAtom pairs a ground symbol with the literal the host assigned it
// and whether it is a classically negated occurrence.
type SymbolicAtom struct {
	Symbol  Symbol
	Literal Literal
	Sign    bool // true for a positive occurrence
}

// TheoryAtomOccurrence is one ground theory atom the host's grounder
// produced, ready for theory.translate to compile.
type TheoryAtomOccurrence struct {
	Name    string // "tel", "del", "__tel_head"
	Literal Literal
	Term    Symbol
	Step    int
}

// Model is one answer set delivered to an Observer/on_model callback.
type Model interface {
	// Contains reports whether atom is true in this model.
	Contains(atom Symbol) bool
	// Symbols returns every true atom in the model restricted to shown predicates.
	Symbols() []Symbol
}

// ResultKind classifies the outcome of a solve call.
type ResultKind int

const (
	// Unknown is returned when solving was interrupted or inconclusive.
	Unknown ResultKind = iota
	// Satisfiable is returned when at least one model was found.
	Satisfiable
	// Unsatisfiable is returned when the program has no model.
	Unsatisfiable
)

// Result is the outcome of one Control.Solve call.
type Result struct {
	Kind ResultKind
}

// Satisfiable reports whether r is Satisfiable.
func (r Result) Satisfiable() bool { return r.Kind == Satisfiable }

// Unsatisfiable reports whether r is Unsatisfiable.
func (r Result) Unsatisfiable() bool { return r.Kind == Unsatisfiable }

// PartRange names one "#program name(params)." instantiation to ground,
// e.g. ground("always", []Symbol{step, horizon}).
type PartRange struct {
	Name   string
	Params []Symbol
}

// OnModel is invoked once per accepted model during Solve.
type OnModel func(Model)

// Control is the subset of a clingo-like engine's control API asptel
// drives: adding program text, grounding named parts, assigning/releasing
// externals, and solving under assumptions.
type Control interface {
	// Add registers a "#program name(params) { body }" text block for later grounding.
	Add(name string, params []string, body string) error
	// Ground instantiates the named parts (with concrete parameter symbols).
	Ground(ctx context.Context, parts []PartRange) error
	// Solve runs the solver under the given assumed literals, invoking onModel per answer set.
	Solve(ctx context.Context, assumptions []Literal, onModel OnModel) (Result, error)
	// AssignExternal sets an external atom's truth value.
	AssignExternal(atom Symbol, value TruthValue) error
	// ReleaseExternal frees an external atom, equivalent to AssignExternal(atom, FreeValue).
	ReleaseExternal(atom Symbol) error
	// Cleanup discards grounded rules no longer reachable, e.g. after releasing an external.
	Cleanup() error
	// SymbolicAtoms returns every ground symbolic atom currently known to the grounder.
	SymbolicAtoms() []SymbolicAtom
	// TheoryAtoms returns every ground theory atom occurrence currently known to the grounder.
	TheoryAtoms() []TheoryAtomOccurrence
	// Backend acquires a scoped handle for appending clauses/externals directly;
	// the caller must call Backend.Close to release it (mirrors a Python
	// "with control.backend()" context manager).
	Backend() (Backend, error)
}

// Backend is a scoped handle for appending ground clauses directly to the
// host's solver, used by the Body Formula Compiler (package theory) to
// emit the clauses it derives from translating a formula.
type Backend interface {
	// AddAtom reserves a fresh literal for sym, or returns the existing one.
	AddAtom(sym Symbol) (Literal, error)
	// AddRule adds a disjunctive (or, if choice is true, choice) rule: head holds if every body literal holds.
	AddRule(head []Literal, body []Literal, choice bool) error
	// AddExternal declares lit as externally controlled with an initial truth value.
	AddExternal(lit Literal, value TruthValue) error
	// Close releases the backend scope.
	Close() error
}

// ProgramBuilder constructs textual "#program" blocks for Control.Add; it
// exists as its own interface (rather than plain string concatenation)
// because the program transformer and the reground-parts machinery both
// need to build up part bodies incrementally before handing them to Add.
type ProgramBuilder interface {
	// Part starts a new "#program name(params) { ... }" block.
	Part(name string, params []string)
	// Statement appends one already-rendered ASP statement (ending in ".") to the current part.
	Statement(text string)
	// String renders the accumulated program text.
	String() string
}
