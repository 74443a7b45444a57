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

// Package theoryops holds the fixed theory-definition text the program
// transformer appends verbatim to every transformed program, so the host
// engine's own parser accepts &tel/&del/&__tel_head operator syntax. The
// vocabulary here must track symbols.BodyOperators/HeadOperators/
// DynamicPathOperators/DynamicFormulaOperators exactly: this is the form
// the host parser sees, those tables are the form the theory-term parser
// in package parse sees.
package theoryops

// TheoryDefinitions is the verbatim "#theory" block appended to every
// program the program transformer emits, giving the host engine's grammar
// the temporal and dynamic-logic operator vocabulary.
const TheoryDefinitions = `
#theory tel {
  formula {
    &  : 7, unary;
    - : 7, unary;
    ~ : 7, unary;
    <  : 7, unary;
    <: : 7, unary;
    <? : 7, unary;
    <* : 7, unary;
    << : 7, unary;
    >  : 7, unary;
    >: : 7, unary;
    >? : 7, unary;
    >* : 7, unary;
    >> : 7, unary;
    +  : 6, binary, left;
    -  : 6, binary, left;
    >  : 5, binary, left;
    >: : 5, binary, left;
    >* : 5, binary, left;
    >? : 5, binary, left;
    <* : 5, binary, left;
    <? : 5, binary, left;
    ;> : 5, binary, right;
    ;>: : 5, binary, right;
    <; : 5, binary, left;
    <:; : 5, binary, left;
    &  : 4, binary, left;
    |  : 3, binary, left;
    <- : 2, binary, left;
    -> : 2, binary, left;
    <> : 1, binary, left
  };
  &tel/0 : formula, body;
  &__tel_head/0 : formula, head
}.

#theory del {
  formula {
    ?  : 7, unary;
    *  : 7, unary;
    ;; : 3, binary, left;
    +  : 2, binary, left;
    .>? : 1, binary, left;
    .>* : 1, binary, left
  };
  &del/0 : formula, body
}.
`
