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

// Package ast contains the term, atom, and clause model shared by every
// later pass (parsing, term/program transformation, theory translation). It
// also hosts the temporal/path/dynamic formula variants and the theory-term
// model that the rest of asptel is built around.
package ast

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// ConstantType describes the primitive shape of a constant.
type ConstantType int

const (
	// NameType is the type of name constants (bare identifiers, e.g. predicate arguments).
	NameType ConstantType = iota
	// StringType is the type of quoted string constants.
	StringType
	// NumberType is the type of integer constants, used pervasively as the time parameter.
	NumberType
)

// Constant represents a ground value: a name, a string, or a number.
type Constant struct {
	Type     ConstantType
	Symbol   string
	NumValue int64
}

// Name constructs a name constant.
func Name(symbol string) Constant {
	return Constant{Type: NameType, Symbol: symbol}
}

// String constructs a string constant from a raw (unquoted) value.
func String(s string) Constant {
	return Constant{Type: StringType, Symbol: s}
}

// Number constructs an integer constant.
func Number(n int64) Constant {
	return Constant{Type: NumberType, NumValue: n}
}

func (c Constant) isTerm()     {}
func (c Constant) isBaseTerm() {}

// NumberValue returns the integer value of a NumberType constant.
func (c Constant) NumberValue() (int64, error) {
	if c.Type != NumberType {
		return 0, fmt.Errorf("not a number constant: %v", c)
	}
	return c.NumValue, nil
}

// String returns the source-syntax representation of the constant.
func (c Constant) String() string {
	switch c.Type {
	case NameType:
		return c.Symbol
	case StringType:
		return strconv.Quote(c.Symbol)
	case NumberType:
		return strconv.FormatInt(c.NumValue, 10)
	default:
		return "?"
	}
}

// Equals reports whether u is the same constant.
func (c Constant) Equals(u Term) bool {
	o, ok := u.(Constant)
	if !ok {
		return false
	}
	return c.Type == o.Type && c.Symbol == o.Symbol && c.NumValue == o.NumValue
}

// Hash returns a hash code for the constant, used as a map/union-find key component.
func (c Constant) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte{byte(c.Type)})
	h.Write([]byte(c.Symbol))
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(c.NumValue >> (8 * i))
	}
	h.Write(buf[:])
	return h.Sum64()
}

// ApplySubst returns c unchanged: constants are substitution-invariant.
func (c Constant) ApplySubst(s Subst) Term { return c }

// ApplySubstBase returns c unchanged.
func (c Constant) ApplySubstBase(s Subst) BaseTerm { return c }

// Term is the common interface for constants, variables, atoms, negated
// atoms and (in)equalities. Atom is not comparable with ==, so String() is
// used as the canonical key wherever identity matters, e.g. hash-consing in
// the theory registry.
type Term interface {
	isTerm()
	String() string
	Equals(Term) bool
	ApplySubst(s Subst) Term
}

// BaseTerm is the subset of Term usable as an atom or function argument:
// constants, variables, and theory function applications.
type BaseTerm interface {
	Term
	isBaseTerm()
	Hash() uint64
	ApplySubstBase(s Subst) BaseTerm
}

// Subst maps variables to base terms.
type Subst interface {
	Get(Variable) BaseTerm
}

// SubstMap is a Subst backed by a map.
type SubstMap map[Variable]BaseTerm

// Get implements Subst.
func (m SubstMap) Get(v Variable) BaseTerm { return m[v] }

// Variable represents a variable, referred to by name. The wildcard "_" is
// represented as an ordinary Variable whose Symbol is "_".
type Variable struct {
	Symbol string
}

func (v Variable) isTerm()     {}
func (v Variable) isBaseTerm() {}

// String returns the variable's name.
func (v Variable) String() string { return v.Symbol }

// Equals provides syntactic equality for variables.
func (v Variable) Equals(u Term) bool {
	o, ok := u.(Variable)
	return ok && v.Symbol == o.Symbol
}

// Hash returns a hash code for the variable.
func (v Variable) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte("$var$"))
	h.Write([]byte(v.Symbol))
	return h.Sum64()
}

// ApplySubst returns the substitution result for v, or v itself if unbound.
func (v Variable) ApplySubst(s Subst) Term { return v.ApplySubstBase(s) }

// ApplySubstBase returns the substitution result for v, or v itself if unbound.
func (v Variable) ApplySubstBase(s Subst) BaseTerm {
	if s == nil {
		return v
	}
	if t := s.Get(v); t != nil {
		return t
	}
	return v
}

// IsWildcard reports whether v is the anonymous "_" variable.
func (v Variable) IsWildcard() bool { return v.Symbol == "_" }

// PredicateSym names a predicate together with its arity. For every
// predicate that appears under a temporal operator, the arity counts the
// trailing time argument added by the term transformer.
type PredicateSym struct {
	Symbol string
	Arity  int
}

func (p PredicateSym) String() string {
	return fmt.Sprintf("%s/%d", p.Symbol, p.Arity)
}

// InternalPrefix marks predicate names synthesized by the transformers
// (__future_, __aux_, __initial, __final) rather than written by the user.
const InternalPrefix = "__"

// IsInternal reports whether this predicate symbol was synthesized by a transformer.
func (p PredicateSym) IsInternal() bool {
	return strings.HasPrefix(p.Symbol, InternalPrefix)
}

// FunctionSym names a theory function symbol together with its arity (-1 for variadic).
type FunctionSym struct {
	Symbol string
	Arity  int
}

func (f FunctionSym) String() string { return f.Symbol }

// Atom is a predicate symbol applied to base-term arguments, e.g. p(X, 3, t).
type Atom struct {
	Predicate PredicateSym
	Args      []BaseTerm
}

func (a Atom) isTerm() {}

// NewAtom is a convenience constructor.
func NewAtom(name string, args ...BaseTerm) Atom {
	return Atom{PredicateSym{name, len(args)}, args}
}

// String returns the atom's source-syntax representation.
func (a Atom) String() string {
	if len(a.Args) == 0 {
		return a.Predicate.Symbol
	}
	var sb strings.Builder
	sb.WriteString(a.Predicate.Symbol)
	sb.WriteByte('(')
	for i, arg := range a.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Equals provides syntactic equality for atoms.
func (a Atom) Equals(u Term) bool {
	o, ok := u.(Atom)
	if !ok || a.Predicate != o.Predicate || len(a.Args) != len(o.Args) {
		return false
	}
	for i, arg := range a.Args {
		if !arg.Equals(o.Args[i]) {
			return false
		}
	}
	return true
}

// ApplySubst returns a new Atom with the substitution applied to every argument.
func (a Atom) ApplySubst(s Subst) Term {
	args := make([]BaseTerm, len(a.Args))
	for i, t := range a.Args {
		args[i] = t.ApplySubstBase(s)
	}
	return Atom{a.Predicate, args}
}

// IsGround reports whether every argument is a constant.
func (a Atom) IsGround() bool {
	for _, t := range a.Args {
		if _, ok := t.(Constant); !ok {
			return false
		}
	}
	return true
}

// LastArg returns the atom's final argument, which by convention is its time parameter.
func (a Atom) LastArg() BaseTerm {
	if len(a.Args) == 0 {
		return nil
	}
	return a.Args[len(a.Args)-1]
}

// NegAtom represents classical negation of an atom ("-p(X)" in ASP source).
type NegAtom struct {
	Atom Atom
}

func (a NegAtom) isTerm() {}

// String returns the atom's source-syntax representation.
func (a NegAtom) String() string { return "-" + a.Atom.String() }

// Equals provides syntactic equality for negated atoms.
func (a NegAtom) Equals(u Term) bool {
	o, ok := u.(NegAtom)
	return ok && a.Atom.Equals(o.Atom)
}

// ApplySubst returns a new NegAtom with the substitution applied.
func (a NegAtom) ApplySubst(s Subst) Term {
	return NegAtom{a.Atom.ApplySubst(s).(Atom)}
}

// ApplyFn is a theory function application, e.g. inc(X).
type ApplyFn struct {
	Function FunctionSym
	Args     []BaseTerm
}

func (a ApplyFn) isTerm()     {}
func (a ApplyFn) isBaseTerm() {}

// String returns the application's source-syntax representation.
func (a ApplyFn) String() string {
	var sb strings.Builder
	sb.WriteString(a.Function.Symbol)
	sb.WriteByte('(')
	for i, arg := range a.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Equals provides syntactic equality.
func (a ApplyFn) Equals(u Term) bool {
	o, ok := u.(ApplyFn)
	if !ok || a.Function != o.Function || len(a.Args) != len(o.Args) {
		return false
	}
	for i, arg := range a.Args {
		if !arg.Equals(o.Args[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash code for the application.
func (a ApplyFn) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(a.Function.Symbol))
	var buf [8]byte
	for _, arg := range a.Args {
		v := arg.Hash()
		for i := range buf {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}
	return h.Sum64()
}

// ApplySubst returns a new ApplyFn with the substitution applied to every argument.
func (a ApplyFn) ApplySubst(s Subst) Term {
	args := make([]BaseTerm, len(a.Args))
	for i, t := range a.Args {
		args[i] = t.ApplySubstBase(s)
	}
	return ApplyFn{a.Function, args}
}

// ApplySubstBase returns a new ApplyFn with the substitution applied.
func (a ApplyFn) ApplySubstBase(s Subst) BaseTerm { return a.ApplySubst(s).(BaseTerm) }

// ArithTerm is a two-operand arithmetic term, used exclusively by the term
// transformer to render a shifted time argument ("T+2", "T-1") the way the
// host's term grammar expects it, rather than inventing a function symbol.
type ArithTerm struct {
	Op          string // "+" or "-"
	Left, Right BaseTerm
}

func (a ArithTerm) isTerm()     {}
func (a ArithTerm) isBaseTerm() {}

// String renders the arithmetic term in infix form.
func (a ArithTerm) String() string {
	return a.Left.String() + a.Op + a.Right.String()
}

// Equals provides syntactic equality for arithmetic terms.
func (a ArithTerm) Equals(u Term) bool {
	o, ok := u.(ArithTerm)
	return ok && a.Op == o.Op && a.Left.Equals(o.Left) && a.Right.Equals(o.Right)
}

// Hash returns a hash code for the arithmetic term.
func (a ArithTerm) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(a.Op))
	lh, rh := a.Left.Hash(), a.Right.Hash()
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(lh >> (8 * i))
	}
	h.Write(buf[:])
	for i := range buf {
		buf[i] = byte(rh >> (8 * i))
	}
	h.Write(buf[:])
	return h.Sum64()
}

// ApplySubst returns a new ArithTerm with the substitution applied to both operands.
func (a ArithTerm) ApplySubst(s Subst) Term {
	return ArithTerm{a.Op, a.Left.ApplySubstBase(s), a.Right.ApplySubstBase(s)}
}

// ApplySubstBase returns a new ArithTerm with the substitution applied.
func (a ArithTerm) ApplySubstBase(s Subst) BaseTerm { return a.ApplySubst(s).(BaseTerm) }

// Eq represents an equality constraint X = Y.
type Eq struct{ Left, Right BaseTerm }

func (e Eq) isTerm()        {}
func (e Eq) String() string { return fmt.Sprintf("%s = %s", e.Left, e.Right) }

// Equals provides syntactic equality for Eq constraints.
func (e Eq) Equals(u Term) bool {
	o, ok := u.(Eq)
	return ok && e.Left.Equals(o.Left) && e.Right.Equals(o.Right)
}

// ApplySubst returns a new Eq with the substitution applied to both sides.
func (e Eq) ApplySubst(s Subst) Term {
	return Eq{e.Left.ApplySubstBase(s), e.Right.ApplySubstBase(s)}
}

// Ineq represents an apartness constraint X != Y.
type Ineq struct{ Left, Right BaseTerm }

func (e Ineq) isTerm()        {}
func (e Ineq) String() string { return fmt.Sprintf("%s != %s", e.Left, e.Right) }

// Equals provides syntactic equality for Ineq constraints.
func (e Ineq) Equals(u Term) bool {
	o, ok := u.(Ineq)
	return ok && e.Left.Equals(o.Left) && e.Right.Equals(o.Right)
}

// ApplySubst returns a new Ineq with the substitution applied to both sides.
func (e Ineq) ApplySubst(s Subst) Term {
	return Ineq{e.Left.ApplySubstBase(s), e.Right.ApplySubstBase(s)}
}

// RuleKind classifies a rule by its shape, per the rule-shape-purity invariant.
type RuleKind int

const (
	// NormalRule has exactly one head atom.
	NormalRule RuleKind = iota
	// ConstraintRule has an empty (false) head.
	ConstraintRule
	// DisjunctiveRule has more than one head atom ("|" disjunction).
	DisjunctiveRule
	// ChoiceRule wraps its head atom(s) in "{ ... }".
	ChoiceRule
)

// Clause is a rule "Head :- Premises." (or a fact, or a constraint with an
// empty head, or a choice/disjunctive rule with several head atoms).
type Clause struct {
	Kind     RuleKind
	Heads    []Atom
	Premises []Term
}

// NewFact constructs a fact (a rule with no body).
func NewFact(head Atom) Clause {
	return Clause{Kind: NormalRule, Heads: []Atom{head}}
}

// NewRule constructs a normal rule.
func NewRule(head Atom, premises []Term) Clause {
	return Clause{Kind: NormalRule, Heads: []Atom{head}, Premises: premises}
}

// NewConstraint constructs a constraint (empty head).
func NewConstraint(premises []Term) Clause {
	return Clause{Kind: ConstraintRule, Premises: premises}
}

// String returns the clause's source-syntax representation.
func (c Clause) String() string {
	var head strings.Builder
	if c.Kind == ChoiceRule {
		head.WriteByte('{')
	}
	for i, h := range c.Heads {
		if i > 0 {
			if c.Kind == DisjunctiveRule {
				head.WriteString(" | ")
			} else {
				head.WriteString("; ")
			}
		}
		head.WriteString(h.String())
	}
	if c.Kind == ChoiceRule {
		head.WriteByte('}')
	}
	if c.Premises == nil {
		return head.String() + "."
	}
	var body strings.Builder
	for i, p := range c.Premises {
		if i > 0 {
			body.WriteString(", ")
		}
		body.WriteString(p.String())
	}
	return fmt.Sprintf("%s :- %s.", head.String(), body.String())
}

// AddVars collects every variable occurring in term into m.
func AddVars(term Term, m map[Variable]bool) {
	switch t := term.(type) {
	case Constant:
	case Variable:
		m[t] = true
	case ApplyFn:
		for _, a := range t.Args {
			AddVars(a, m)
		}
	case Atom:
		for _, a := range t.Args {
			AddVars(a, m)
		}
	case NegAtom:
		AddVars(t.Atom, m)
	case Eq:
		AddVars(t.Left, m)
		AddVars(t.Right, m)
	case Ineq:
		AddVars(t.Left, m)
		AddVars(t.Right, m)
	}
}
