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

package driver

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	log "github.com/golang/glog"

	"github.com/google/asptel/host"
)

// Observer renders accepted models grouped by their trailing time argument,
// the way every shown atom's last argument names the state it belongs to.
// It is the supplemented ambient-stack counterpart of spec.md §1's explicit
// non-goal "model pretty-printing is out of scope for the compiler itself" —
// the compiler has no opinion on how a model prints, but a usable binary
// still needs one, so cmd/asptel wires this in rather than rolling its own.
type Observer struct {
	out     io.Writer
	verbose bool
	number  int
}

// NewObserver constructs an Observer writing to out. When verbose is set,
// every accepted model also logs a V(1) line with the number of states it
// shows, grounded on interpreter.Interpreter's i.stats reporting.
func NewObserver(out io.Writer, verbose bool) *Observer {
	return &Observer{out: out, verbose: verbose}
}

// OnModel satisfies host.OnModel: print one "Answer: N" block followed by
// one "State k:" line per distinct trailing time argument found among the
// model's shown symbols, sorted by state number.
func (o *Observer) OnModel(m host.Model) {
	o.number++
	byState := make(map[int64][]host.Symbol)
	var states []int64
	for _, sym := range m.Symbols() {
		if len(sym.Args) == 0 {
			continue
		}
		last := sym.Args[len(sym.Args)-1]
		step, err := strconv.ParseInt(last.Name, 10, 64)
		if err != nil {
			continue
		}
		if _, ok := byState[step]; !ok {
			states = append(states, step)
		}
		byState[step] = append(byState[step], host.Symbol{Name: sym.Name, Args: sym.Args[:len(sym.Args)-1]})
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })

	fmt.Fprintf(o.out, "Answer: %d\n", o.number)
	for _, step := range states {
		syms := byState[step]
		sort.Slice(syms, func(i, j int) bool { return syms[i].String() < syms[j].String() })
		fmt.Fprintf(o.out, "State %d:", step)
		for _, sym := range syms {
			fmt.Fprintf(o.out, " %s", sym)
		}
		fmt.Fprintln(o.out)
	}
	if o.verbose {
		log.V(1).Infof("model %d: %d states shown", o.number, len(states))
	}
}

// Timing wraps fn, logging its wall-clock duration at V(1) under label when
// the observer is verbose, so a caller can report the latency of one
// ground or solve call without threading a stopwatch through the driver loop.
func (o *Observer) Timing(label string, fn func() error) error {
	start := time.Now()
	err := fn()
	if o.verbose {
		log.V(1).Infof("%s took %s", label, time.Since(start))
	}
	return err
}

// StatsPrinter implements Stats by printing one "[step N ...]" line per
// event to out, mirroring interpreter.Interpreter.evalProgram's
// "[%s %s (stratum %d)]" stats line. Used by cmd/asptel's -stats flag.
type StatsPrinter struct {
	out io.Writer
}

// NewStatsPrinter constructs a StatsPrinter writing to out.
func NewStatsPrinter(out io.Writer) *StatsPrinter {
	return &StatsPrinter{out: out}
}

func (s *StatsPrinter) OnGround(step int, parts []host.PartRange) {
	fmt.Fprintf(s.out, "[step %d grounded %d part(s)]\n", step, len(parts))
}

func (s *StatsPrinter) OnTranslate(step int, occurrences int) {
	fmt.Fprintf(s.out, "[step %d translated %d theory occurrence(s)]\n", step, occurrences)
}

func (s *StatsPrinter) OnSolve(step int, result host.Result) {
	kind := "UNKNOWN"
	switch result.Kind {
	case host.Satisfiable:
		kind = "SAT"
	case host.Unsatisfiable:
		kind = "UNSAT"
	}
	fmt.Fprintf(s.out, "[step %d solved %s]\n", step, kind)
}

var _ Stats = (*StatsPrinter)(nil)
