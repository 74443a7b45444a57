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

package symbols

import "strconv"

// InitialAtomName is the bareword "initial" rewritten to __initial(t).
const InitialAtomName = "__initial"

// FinalAtomName is the bareword "final" rewritten to __final(t).
const FinalAtomName = "__final"

// FalseGuardName is the per-head-formula external used to keep its
// disjunctive guard rule inactive until referenced ("__false(t)" in the spec).
const FalseGuardName = "__false"

// FuturePrefix names the stand-in predicate introduced when a head refers to a future step.
const FuturePrefix = "__future_"

// AuxPrefix names the auxiliary guard atoms emitted by the head theory-atom transformer.
const AuxPrefix = "__aux_"

// FutureName builds the stand-in predicate name for a shifted head atom.
func FutureName(name string) string {
	return FuturePrefix + name
}

// AuxName builds the k-th auxiliary guard predicate name.
func AuxName(k int) string {
	return AuxPrefix + strconv.Itoa(k)
}

// IsReservedPart reports whether name is one of the three canonical
// reground-free program parts every transformed program always carries.
func IsReservedPart(name string) bool {
	switch name {
	case "initial", "always", "dynamic":
		return true
	default:
		return false
	}
}

// BasePartName is the name "#program base" is renamed to: the latest
// variant of the transformer (and this implementation) maps it to initial,
// not always.
const BasePartName = "initial"

// FinalPartName is the #program part every "#program final" rule is folded into.
const FinalPartName = "always"
