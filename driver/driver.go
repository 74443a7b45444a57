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

// Package driver implements the Incremental Driver (spec.md §4.5): the
// ground/translate/assign-external/assume/solve loop that turns a
// transformed program into a sequence of states.
package driver

import (
	"context"
	"fmt"

	"github.com/google/asptel/ast"
	"github.com/google/asptel/host"
	"github.com/google/asptel/theory"
	"github.com/google/asptel/transform"
)

// StopCriterion names when the incremental loop may stop early, mirroring
// spec.md §4.5's --istop values.
type StopCriterion string

const (
	StopSat     StopCriterion = "SAT"
	StopUnsat   StopCriterion = "UNSAT"
	StopUnknown StopCriterion = "UNKNOWN"
)

// Options bundles the incremental loop's iteration bounds, spec.md §4.5's
// imin/imax/istop, plus an optional Stats sink (SPEC_FULL.md §7, grounded on
// telingo's program_observer.py).
type Options struct {
	IMin  int
	IMax  *int // nil means unbounded
	IStop StopCriterion
	Stats Stats
}

// Stats receives per-step progress counters during Run, the way
// interpreter.Interpreter.evalProgram reports per-stratum timings through
// i.stats. Any or all methods may be left as no-ops by embedding NopStats.
type Stats interface {
	OnGround(step int, parts []host.PartRange)
	OnTranslate(step int, occurrences int)
	OnSolve(step int, result host.Result)
}

// NopStats implements Stats with no-ops, so callers that don't care about
// statistics can embed it instead of checking opts.Stats for nil everywhere.
type NopStats struct{}

func (NopStats) OnGround(int, []host.PartRange)  {}
func (NopStats) OnTranslate(int, int)            {}
func (NopStats) OnSolve(int, host.Result)        {}

// Session holds the state one incremental run threads across steps: the
// theory compiler (which memoizes literals across the whole run, per
// theory.Theory's hash-consing contract) and the current horizon. Run drives
// a Session to completion in one call; cmd/asptelsh drives one at a time
// from its "::step" command, the way interpreter.Interpreter.Loop evaluates
// one REPL command at a time instead of looping internally.
type Session struct {
	control    host.Control
	th         *theory.Theory
	futureSigs []ast.FutureSignature
	parts      []transform.RegroundPartEntry
	stats      Stats
	step       int
	last       *host.Result
}

// NewSession constructs a Session ready to Advance for the first time, at horizon 0.
func NewSession(control host.Control, futureSigs []ast.FutureSignature, parts []transform.RegroundPartEntry, opts Options) *Session {
	stats := opts.Stats
	if stats == nil {
		stats = NopStats{}
	}
	return &Session{
		control:    control,
		th:         theory.New(control),
		futureSigs: futureSigs,
		parts:      parts,
		stats:      stats,
	}
}

// Step returns the horizon the next call to Advance will ground and solve.
func (s *Session) Step() int { return s.step }

// LastResult returns the previous Advance's outcome, or nil if Advance has
// never been called.
func (s *Session) LastResult() *host.Result { return s.last }

// Advance runs exactly one iteration of spec.md §4.5's ground/translate/
// assign-external/assume/solve loop at the session's current horizon, then
// advances the horizon by one.
func (s *Session) Advance(ctx context.Context, onModel host.OnModel) (host.Result, error) {
	step := s.step
	groundParts := selectParts(s.parts, step)

	if step > 0 {
		if err := s.control.ReleaseExternal(finalSymbol(step - 1)); err != nil {
			return host.Result{}, fmt.Errorf("driver: releasing __final(%d): %w", step-1, err)
		}
		if err := s.control.Cleanup(); err != nil {
			return host.Result{}, fmt.Errorf("driver: cleanup at step %d: %w", step, err)
		}
	}

	if err := s.control.Ground(ctx, groundParts); err != nil {
		return host.Result{}, fmt.Errorf("driver: grounding at step %d: %w", step, err)
	}
	s.stats.OnGround(step, groundParts)

	s.th.SetHorizon(step)
	occs, err := theoryOccurrences(s.control)
	if err != nil {
		return host.Result{}, fmt.Errorf("driver: reading theory atoms at step %d: %w", step, err)
	}
	if err := s.th.Translate(step, occs); err != nil {
		return host.Result{}, fmt.Errorf("driver: translating theory atoms at step %d: %w", step, err)
	}
	s.stats.OnTranslate(step, len(occs))

	if err := s.control.AssignExternal(finalSymbol(step), host.TrueValue); err != nil {
		return host.Result{}, fmt.Errorf("driver: assigning __final(%d): %w", step, err)
	}

	assumptions := futureAssumptions(s.control, s.futureSigs, step)

	result, err := s.control.Solve(ctx, assumptions, onModel)
	if err != nil {
		return host.Result{}, fmt.Errorf("driver: solving at step %d: %w", step, err)
	}
	s.stats.OnSolve(step, result)
	s.last = &result
	s.step++
	return result, nil
}

// Run drives control through the incremental solving loop described by
// spec.md §4.5, grounding futureSigs/parts (as returned by
// transform.ProgramTransformer.Transform) one step at a time and delivering
// every accepted model to onModel. It returns the final step's Result,
// zero-valued (Unknown) if the loop never ran a single iteration.
func Run(ctx context.Context, control host.Control, futureSigs []ast.FutureSignature, parts []transform.RegroundPartEntry, onModel host.OnModel, opts Options) (host.Result, error) {
	sess := NewSession(control, futureSigs, parts, opts)
	for loopCondition(sess.step, sess.last, opts) {
		if _, err := sess.Advance(ctx, onModel); err != nil {
			return host.Result{}, err
		}
	}
	if sess.last == nil {
		return host.Result{Kind: host.Unknown}, nil
	}
	return *sess.last, nil
}

// loopCondition implements spec.md §4.5's imain while-condition: keep going
// while imax permits another iteration, and either we haven't reached imin
// yet or the chosen stop criterion hasn't fired against the previous result.
func loopCondition(step int, ret *host.Result, opts Options) bool {
	if opts.IMax != nil && step >= *opts.IMax {
		return false
	}
	if step == 0 || step < opts.IMin || ret == nil {
		return true
	}
	switch opts.IStop {
	case StopUnsat:
		return ret.Kind != host.Unsatisfiable
	case StopUnknown:
		return ret.Kind != host.Unknown
	default: // StopSat, and any unrecognized value, per spec.md's default.
		return ret.Kind != host.Satisfiable
	}
}

// selectParts builds the ground-parts list for one step from the
// (root, part, [lo,hi)) table the program transformer returned, per spec.md
// §4.5 step 1. A part whose root is "initial"/"dynamic" is gated to ground
// exactly at step 0 / only after step 0; every other root (including the
// plain "always" root and any custom #program name) grounds whenever its
// window index is still within range of the current step.
func selectParts(parts []transform.RegroundPartEntry, step int) []host.PartRange {
	var out []host.PartRange
	for _, p := range parts {
		for i := p.Lo; i < p.Hi; i++ {
			t := int64(step) - i
			if t < 0 {
				continue
			}
			switch p.Root {
			case "initial":
				if t != 0 {
					continue
				}
			case "dynamic":
				if t <= 0 {
					continue
				}
			}
			out = append(out, host.PartRange{Name: p.Part, Params: []host.Symbol{
				intSymbol(t), intSymbol(int64(step)),
			}})
		}
	}
	return out
}

func finalSymbol(step int) host.Symbol {
	return host.Symbol{Name: "__final", Args: []host.Symbol{intSymbol(int64(step))}}
}

func intSymbol(n int64) host.Symbol {
	return host.Symbol{Name: fmt.Sprintf("%d", n)}
}

// theoryOccurrences converts every ground theory atom the host currently
// knows about into the (formula, step, literal) triples theory.Translate
// consumes. Re-submitting an occurrence already wired is a no-op (see
// theory.Theory.Translate), so it is safe to pass the full current list on
// every call rather than tracking a "new since last step" delta ourselves.
func theoryOccurrences(control host.Control) ([]theory.TheoryOccurrence, error) {
	var occs []theory.TheoryOccurrence
	for _, occ := range control.TheoryAtoms() {
		f, err := symbolToFormula(occ.Term)
		if err != nil {
			return nil, fmt.Errorf("theory atom &%s at step %d: %w", occ.Name, occ.Step, err)
		}
		occs = append(occs, theory.TheoryOccurrence{Formula: f, Step: occ.Step, Literal: occ.Literal})
	}
	return occs, nil
}

// futureAssumptions implements spec.md §4.5 step 6: every ground atom of a
// future-placeholder predicate whose trailing time argument lies beyond the
// current step is assumed false for this solve call, so that a primed head
// atom's as-yet-unknown future value cannot leak into the current state.
func futureAssumptions(control host.Control, sigs []ast.FutureSignature, step int) []host.Literal {
	var out []host.Literal
	for _, sig := range sigs {
		name := "__future_" + sig.Name
		arity := sig.Arity + 2 // shift + original args + time
		for _, sa := range control.SymbolicAtoms() {
			if sa.Symbol.Name != name || len(sa.Symbol.Args) != arity {
				continue
			}
			last := sa.Symbol.Args[len(sa.Symbol.Args)-1]
			if n, err := parseStep(last.Name); err == nil && n > step {
				out = append(out, sa.Literal.Negate())
			}
		}
	}
	return out
}

func parseStep(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
