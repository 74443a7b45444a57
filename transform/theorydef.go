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
	"github.com/google/asptel/theoryops"
)

// emitTheoryDefinitions appends the fixed theory grammar (theoryops.
// TheoryDefinitions, which tracks symbols.BodyOperators/HeadOperators/
// DynamicPathOperators/DynamicFormulaOperators exactly) as one verbatim
// statement, per spec.md §4.1 "Theory definitions": it teaches the host
// parser the operator syntax so the host grounder accepts
// &tel/&del/&__tel_head occurrences without choking on the operator symbols
// inside their braces.
func emitTheoryDefinitions(emit Emit) error {
	return emit(ast.Statement{Raw: theoryops.TheoryDefinitions})
}
