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

package transform

import (
	"github.com/google/asptel/ast"
	"github.com/google/asptel/errs"
	"github.com/google/asptel/parse"
)

// lexTheoryTerm re-lexes the raw token text a theory atom's braces captured
// (parse.rawTokenTerm wraps it as an ast.UnparsedTerm{First: ast.TheorySymbol{...}})
// back into a token slice, the input ParseBodyFormula/ParseHeadFormula expect.
func lexTheoryTerm(term ast.TheoryTerm, loc ast.Location) ([]parse.Token, error) {
	u, ok := term.(ast.UnparsedTerm)
	if !ok || u.First == nil {
		return nil, errs.New(errs.InvalidTemporalFormula, loc, "theory atom term is not a captured token sequence")
	}
	sym, ok := u.First.(ast.TheorySymbol)
	if !ok {
		return nil, errs.New(errs.InvalidTemporalFormula, loc, "theory atom term is not a captured token sequence")
	}
	return lexString(loc.File, sym.Symbol)
}

// lexString runs src through the lexer to completion, collecting every
// token up to (but not including) the terminal TokEOF.
func lexString(file, src string) ([]parse.Token, error) {
	l := parse.NewLexer(file, src)
	var toks []parse.Token
	for {
		tok := l.Next()
		if tok.Kind == parse.TokEOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}
