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

// Binary asptel is a batch compiler/driver for temporal ASP programs: it
// parses and transforms the input, then runs the incremental solving loop
// (package driver) over the fake in-memory host, printing one state block
// per accepted model.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/golang/glog"

	"github.com/google/asptel/driver"
	"github.com/google/asptel/host"
	"github.com/google/asptel/parse"
)

var (
	imin    = flag.Int("imin", 0, "minimum number of incremental solving steps")
	imax    = flag.Int("imax", -1, "maximum number of incremental solving steps, or -1 for unbounded")
	istop   = flag.String("istop", "sat", "stop criterion once imin is reached: sat, unsat, or unknown")
	verbose = flag.Bool("verbose", false, "log each model's number of shown states at -v=1")
	stats   = flag.Bool("stats", false, "print per-step grounding/translation/solve counters")
	consts  stringList
)

func init() {
	flag.Var(&consts, "const", "name=value constant definition, forwarded to the program as #const; may be repeated")
}

// stringList implements flag.Value, accumulating one entry per occurrence of
// the flag, the repeatable-flag shape clingo's own "-c name=value" takes.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: asptel [flags] [file.lp...]\n\n")
		fmt.Fprintf(os.Stderr, "A compiler and incremental driver for temporal ASP programs.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	istopVal, err := parseStopCriterion(*istop)
	if err != nil {
		log.Exitf("invalid -istop value %q: %v", *istop, err)
	}

	src, err := readSources(flag.Args())
	if err != nil {
		log.Exitf("error reading input: %v", err)
	}
	for _, kv := range consts {
		src = fmt.Sprintf("#const %s.\n", kv) + src
	}

	stmts, err := parse.ParseProgram("asptel-input", src)
	if err != nil {
		log.Exitf("parse error: %v", err)
	}

	control := host.NewFakeControl()
	futureSigs, parts, err := driver.LoadProgram(control, stmts)
	if err != nil {
		log.Exitf("transform error: %v", err)
	}

	observer := driver.NewObserver(os.Stdout, *verbose)
	opts := driver.Options{IMin: *imin, IStop: istopVal}
	if *imax >= 0 {
		m := *imax
		opts.IMax = &m
	}
	if *stats {
		opts.Stats = driver.NewStatsPrinter(os.Stderr)
	}

	result, err := driver.Run(context.Background(), control, futureSigs, parts, observer.OnModel, opts)
	if err != nil {
		log.Exitf("driver error: %v", err)
	}
	os.Exit(exitCodeForResult(result))
}

// exitCodeForResult maps the final solve result to a process exit code,
// matching clingo/telingo convention (0 on success).
func exitCodeForResult(r host.Result) int {
	switch r.Kind {
	case host.Satisfiable:
		return 0
	case host.Unsatisfiable:
		return 1
	default:
		return 2
	}
}

func parseStopCriterion(s string) (driver.StopCriterion, error) {
	switch strings.ToLower(s) {
	case "sat":
		return driver.StopSat, nil
	case "unsat":
		return driver.StopUnsat, nil
	case "unknown":
		return driver.StopUnknown, nil
	default:
		return "", fmt.Errorf("must be one of sat, unsat, unknown")
	}
}

// readSources concatenates every named file's contents, or reads stdin if
// no file arguments were given, matching clingo's convention for taking a
// program on stdin when given no positional input.
func readSources(paths []string) (string, error) {
	if len(paths) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	var sb strings.Builder
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", p, err)
		}
		sb.Write(b)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
