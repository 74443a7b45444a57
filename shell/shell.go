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

// Package shell implements an interactive REPL around the incremental
// driver, in the shape of interpreter.Interpreter: a ::-prefixed command
// vocabulary backed by readline, driving one driver.Session step at a time
// instead of running it to completion in a single batch call.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"github.com/google/asptel/ast"
	"github.com/google/asptel/driver"
	"github.com/google/asptel/host"
	"github.com/google/asptel/parse"
)

const normalPrompt = "asptel> "

// Shell is an interactive driver session. Every ::load replaces the
// previously loaded program (there is no ::pop, since unlike mangle's
// fact store an incremental solving run cannot be rewound a step once
// grounded).
type Shell struct {
	out  io.Writer
	root string

	sess       *driver.Session
	futureSigs []ast.FutureSignature
	observer   *driver.Observer
}

// New returns a shell rooted at root: every ::load path is resolved
// relative to it, the way interpreter.Interpreter.root anchors ::load.
func New(out io.Writer, root string) *Shell {
	return &Shell{out: out, root: root, observer: driver.NewObserver(out, false)}
}

// Load parses and transforms the source file at path, priming a fresh
// driver.Session at horizon 0. A prior loaded program, if any, is
// discarded along with its host state.
func (s *Shell) Load(path string) error {
	b, err := os.ReadFile(filepath.Join(s.root, path))
	if err != nil {
		return err
	}
	stmts, err := parse.ParseProgram(path, string(b))
	if err != nil {
		return err
	}

	control := host.NewFakeControl()
	futureSigs, parts, err := driver.LoadProgram(control, stmts)
	if err != nil {
		return err
	}

	s.futureSigs = futureSigs
	s.sess = driver.NewSession(control, futureSigs, parts, driver.Options{})
	fmt.Fprintf(s.out, "loaded %s.\n", path)
	return nil
}

// Step advances the loaded session by exactly one incremental step,
// printing every accepted model the way cmd/asptel's batch loop does.
func (s *Shell) Step(ctx context.Context) error {
	if s.sess == nil {
		return fmt.Errorf("no program loaded, use ::load <path> first")
	}
	horizon := s.sess.Step()
	result, err := s.sess.Advance(ctx, s.observer.OnModel)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "step %d: %s\n", horizon, resultString(result))
	return nil
}

func resultString(r host.Result) string {
	switch r.Kind {
	case host.Satisfiable:
		return "SAT"
	case host.Unsatisfiable:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// Show prints every declared future signature whose name matches arg
// exactly, or every signature if arg is "all".
func (s *Shell) Show(arg string) error {
	if s.sess == nil {
		return fmt.Errorf("no program loaded, use ::load <path> first")
	}
	var matched []ast.FutureSignature
	for _, sig := range s.futureSigs {
		if arg == "all" || sig.Name == arg {
			matched = append(matched, sig)
		}
	}
	if len(matched) == 0 && arg != "all" {
		return fmt.Errorf("no future-shifted predicate named %s", arg)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].Shift < matched[j].Shift
	})
	for _, sig := range matched {
		sign := "+"
		if !sig.Positive {
			sign = "-"
		}
		fmt.Fprintf(s.out, "%s/%d shift=%s%d\n", sig.Name, sig.Arity, sign, sig.Shift)
	}
	return nil
}

// ShowHelp displays help text, in interpreter.Interpreter.ShowHelp's style.
func (s *Shell) ShowHelp() {
	fmt.Fprintln(s.out, `
::load <path>      parses and transforms <path>, starting a fresh run at step 0
::step             grounds, translates and solves the next step of the loaded program
::show <name>      shows the future-shift signature(s) declared for predicate <name>
::show all         shows every declared future-shift signature
::help             display this help text
<Ctrl-D>           quit`)
}

// Loop reads ::-commands from stdin until EOF.
func (s *Shell) Loop() error {
	s.ShowHelp()
	for {
		line, err := nextLine()
		if err != nil {
			return err
		}
		switch {
		case line == "":
			continue

		case line == "::help":
			s.ShowHelp()

		case strings.HasPrefix(line, "::load "):
			if err := s.Load(strings.TrimPrefix(line, "::load ")); err != nil {
				fmt.Fprintf(s.out, "load failed: %v\n", err)
			}

		case line == "::step":
			if err := s.Step(context.Background()); err != nil {
				fmt.Fprintf(s.out, "step failed: %v\n", err)
			}

		case strings.HasPrefix(line, "::show "):
			if err := s.Show(strings.TrimPrefix(line, "::show ")); err != nil {
				fmt.Fprintf(s.out, "show failed: %v\n", err)
			}

		default:
			fmt.Fprintf(s.out, "unrecognized command %q, try ::help\n", line)
		}
	}
}

func nextLine() (string, error) {
	return nextLineWithPrompt(normalPrompt)
}

func nextLineWithPrompt(prompt string) (string, error) {
	rl, err := readline.New(prompt)
	if err != nil {
		return "", err
	}
	line, err := rl.Readline()
	if err != nil {
		return "", err
	}
	readline.AddHistory(line)
	return strings.TrimSpace(line), nil
}
