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

// Package errs defines the structured, location-carrying error taxonomy
// every transformer in asptel raises instead of panicking or returning a
// bare string. Every transformer short-circuits through a plain Go error
// return; there is no exception-style control flow anywhere in the module.
package errs

import "fmt"

// Kind names one of the seven fatal error categories a transformation pass can raise.
type Kind int

const (
	// PastNotAllowed is a past-shift atom in a context that forbids it.
	PastNotAllowed Kind = iota
	// FutureNotAllowed is a future-shift atom in a context that forbids it.
	FutureNotAllowed
	// InvalidTemporalFormula is a theory atom shape that violates the grammar.
	InvalidTemporalFormula
	// InvalidOperator is an operator/arity combination absent from the precedence table.
	InvalidOperator
	// InvalidSymbol is a theory term that cannot be lowered to a concrete symbol.
	InvalidSymbol
	// TemporalInPositiveBody is &tel/&del used outside a constraint or negation in a positive body.
	TemporalInPositiveBody
	// PrimeWithInitiallyOrFinally is a "_p'"/"p_'" combination.
	PrimeWithInitiallyOrFinally
)

func (k Kind) String() string {
	switch k {
	case PastNotAllowed:
		return "PastNotAllowed"
	case FutureNotAllowed:
		return "FutureNotAllowed"
	case InvalidTemporalFormula:
		return "InvalidTemporalFormula"
	case InvalidOperator:
		return "InvalidOperator"
	case InvalidSymbol:
		return "InvalidSymbol"
	case TemporalInPositiveBody:
		return "TemporalInPositiveBody"
	case PrimeWithInitiallyOrFinally:
		return "PrimeWithInitiallyOrFinally"
	default:
		return "UnknownError"
	}
}

// Locator is implemented by anything carrying a source location, so errs
// does not need to import the ast package and create a cycle; ast.Location
// satisfies this via its String method plus the fields accessed here.
type Locator interface {
	String() string
}

// Error is a structured, located transformation error. It is fatal to the
// enclosing transformation pass: nothing in asptel attempts partial recovery.
type Error struct {
	Kind Kind
	Loc  Locator
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Loc == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Loc.String(), e.Kind, e.Msg)
}

// New constructs an Error of the given kind at loc with message msg.
func New(kind Kind, loc Locator, msg string) *Error {
	return &Error{Kind: kind, Loc: loc, Msg: msg}
}

// Newf constructs an Error with a formatted message.
func Newf(kind Kind, loc Locator, format string, args ...interface{}) *Error {
	return New(kind, loc, fmt.Sprintf(format, args...))
}

// Is reports whether err is an *Error of the given kind, for use with errors.Is-style checks.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
