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
	"strconv"

	"github.com/google/asptel/ast"
	"github.com/google/asptel/host"
)

// symbolToFormula rebuilds the ast.BodyFormula tree for one ground theory
// atom occurrence. The host hands back a ground theory term the same way a
// ground function symbol looks (operators become function names applied to
// their operands), mirroring how parse/theoryterm.go's buildBinary/
// buildUnary tables fold a token stream into the same node types — here the
// input is a symbol tree instead of a token stream.
func symbolToFormula(sym host.Symbol) (ast.BodyFormula, error) {
	switch len(sym.Args) {
	case 0:
		return atomicFormula(sym), nil
	case 1:
		arg, err := symbolToFormula(sym.Args[0])
		if err != nil {
			return nil, err
		}
		return unaryFormula(sym.Name, arg)
	case 2:
		return binaryFormula(sym)
	default:
		return nil, fmt.Errorf("driver: cannot reconstruct formula from ground term %q", sym.String())
	}
}

func atomicFormula(sym host.Symbol) ast.BodyFormula {
	switch sym.Name {
	case "true":
		return ast.BFBoolConst{Value: true}
	case "false":
		return ast.BFBoolConst{Value: false}
	case "initial":
		return ast.BFAtom{Name: "__initial"}
	case "final":
		return ast.BFAtom{Name: "__final"}
	default:
		return ast.BFAtom{Sign: ast.Positive, Name: sym.Name}
	}
}

func unaryFormula(op string, arg ast.BodyFormula) (ast.BodyFormula, error) {
	switch op {
	case "-", "~":
		return ast.BFNegation{Arg: arg}, nil
	case "<":
		return ast.BFPrevious{N: 1, Arg: arg, Weak: false}, nil
	case "<:":
		return ast.BFPrevious{N: 1, Arg: arg, Weak: true}, nil
	case "<?":
		return ast.BFInitially{Arg: arg}, nil
	case "<*":
		return ast.BFSince{Left: nil, Right: arg}, nil
	case "<<":
		return ast.BFTrigger{Left: nil, Right: arg}, nil
	case ">":
		return ast.BFNext{N: 1, Arg: arg, Weak: false}, nil
	case ">:":
		return ast.BFNext{N: 1, Arg: arg, Weak: true}, nil
	case ">?":
		return ast.BFFinally{Arg: arg}, nil
	case ">*":
		return ast.BFUntil{Left: nil, Right: arg}, nil
	case ">>":
		return ast.BFRelease{Left: nil, Right: arg}, nil
	default:
		return nil, fmt.Errorf("driver: operator %q not usable in unary position of a ground theory term", op)
	}
}

func binaryFormula(sym host.Symbol) (ast.BodyFormula, error) {
	// ">"/">:" pair a numeric shift count (still carried as a named,
	// zero-arity ground symbol) with the shifted sub-formula, exactly as
	// parse/theoryterm.go's literalShift expects of its left operand.
	if sym.Name == ">" || sym.Name == ">:" {
		n, err := strconv.Atoi(sym.Args[0].Name)
		if err != nil {
			return nil, fmt.Errorf("driver: expected a numeric shift count, got %q", sym.Args[0].String())
		}
		arg, err := symbolToFormula(sym.Args[1])
		if err != nil {
			return nil, err
		}
		return ast.BFNext{N: n, Arg: arg, Weak: sym.Name == ">:"}, nil
	}
	left, err := symbolToFormula(sym.Args[0])
	if err != nil {
		return nil, err
	}
	right, err := symbolToFormula(sym.Args[1])
	if err != nil {
		return nil, err
	}
	switch sym.Name {
	case "&":
		return ast.BFBoolBinary{Op: ast.OpAnd, Left: left, Right: right}, nil
	case "|":
		return ast.BFBoolBinary{Op: ast.OpOr, Left: left, Right: right}, nil
	case "<-":
		return ast.BFBoolBinary{Op: ast.OpImpliedBy, Left: left, Right: right}, nil
	case "->":
		return ast.BFBoolBinary{Op: ast.OpImplies, Left: left, Right: right}, nil
	case "<>":
		return ast.BFBoolBinary{Op: ast.OpEquiv, Left: left, Right: right}, nil
	case ";>":
		return ast.BFUntil{Left: left, Right: right}, nil
	case ";>:":
		return ast.BFRelease{Left: left, Right: right}, nil
	case "<;":
		return ast.BFSince{Left: left, Right: right}, nil
	case "<:;":
		return ast.BFTrigger{Left: left, Right: right}, nil
	case "<*", "<?":
		return ast.BFSince{Left: left, Right: right}, nil
	case ">*", ">?":
		return ast.BFUntil{Left: left, Right: right}, nil
	default:
		// Dynamic-logic path operators (".>?", ".>*", ";;" and the path
		// constructors they compose) have no ground-term reconstruction here:
		// nothing in package parse builds a PathFormula from a token stream
		// either, so there is no reference shape to mirror yet. &del
		// occurrences are compiled only when theory.TranslateBody is reached
		// through a path built directly in Go, e.g. by tests. See DESIGN.md.
		return nil, fmt.Errorf("driver: ground theory term operator %q not reconstructible (dynamic-logic path terms are not supported)", sym.Name)
	}
}
