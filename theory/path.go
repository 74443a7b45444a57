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

package theory

import (
	"fmt"

	"github.com/google/asptel/ast"
	"github.com/google/asptel/host"
)

// translatePath compiles a dynamic-logic diamond ("<p>arg", diamond==true) or
// box ("[p]arg", diamond==false) modality by path-structural recursion over
// p, per spec.md §4.4:
//
//	<p+q>F  <-> <p>F | <q>F     ;  [p+q]F  <-> [p]F & [q]F
//	<p;;q>F <-> <p><q>F         ;  [p;;q]F analogously
//	<psi?>F <-> psi & F         ;  [psi?]F <-> psi -> F
//	<p*>F   <-> (final->F) & (F | <p><p*>F)   ; box analogously with conjunction
//	<skip>F <-> next(F,1,strong)               ; [skip]F <-> next(F,1,weak)
func (t *Theory) translatePath(path ast.PathFormula, arg ast.BodyFormula, step int, diamond bool) (host.Literal, error) {
	switch p := path.(type) {
	case ast.PFSkip:
		return t.TranslateBody(ast.BFNext{N: 1, Arg: arg, Weak: !diamond}, step)

	case ast.PFTest:
		if diamond {
			return t.TranslateBody(ast.BFBoolBinary{Op: ast.OpAnd, Left: p.Body, Right: arg}, step)
		}
		return t.TranslateBody(ast.BFBoolBinary{Op: ast.OpImplies, Left: p.Body, Right: arg}, step)

	case ast.PFChoice:
		left, err := t.translatePath(p.Left, arg, step, diamond)
		if err != nil {
			return 0, err
		}
		right, err := t.translatePath(p.Right, arg, step, diamond)
		if err != nil {
			return 0, err
		}
		lit, err := t.backend.AddAtom(host.Symbol{Name: "__pathchoice", Args: []host.Symbol{
			{Name: path.String()}, {Name: arg.String()}, {Name: fmt.Sprintf("%d", step)},
		}})
		if err != nil {
			return 0, err
		}
		if diamond {
			err = t.equivOr(lit, left, right)
		} else {
			err = t.equivAnd(lit, left, right)
		}
		return lit, err

	case ast.PFSequence:
		// <p;;q>F <-> <p>(<q>F): translate the inner path first and feed its
		// literal back in as a numeric-literal stand-in for <q>F/[q]F.
		inner, err := t.translatePath(p.Right, arg, step, diamond)
		if err != nil {
			return 0, err
		}
		return t.translatePath(p.Left, ast.BFNumericLiteral{ID: int(inner)}, step, diamond)

	case ast.PFKleeneStar:
		return t.translateKleeneStar(p.Path, arg, step, diamond)

	default:
		return 0, fmt.Errorf("theory: unsupported path formula variant %T", path)
	}
}

// translateKleeneStar compiles "<p*>F" / "[p*]F" as the single fixpoint
// equation spec.md §4.4 gives, rather than unfolding p* without bound: the
// representative literal is allocated up front and fed back into the
// embedded "<p><p*>F" term as a numeric-literal stand-in, so the self
// reference closes via an equivalence clause instead of recursing forever.
func (t *Theory) translateKleeneStar(p ast.PathFormula, arg ast.BodyFormula, step int, diamond bool) (host.Literal, error) {
	self, err := t.backend.AddAtom(host.Symbol{Name: "__kleene", Args: []host.Symbol{
		{Name: p.String()}, {Name: arg.String()}, {Name: fmt.Sprintf("%d", step)}, {Name: fmt.Sprintf("%v", diamond)},
	}})
	if err != nil {
		return 0, err
	}

	base, err := t.TranslateBody(arg, step)
	if err != nil {
		return 0, err
	}
	final, err := t.TranslateBody(ast.BFAtom{Name: "__final"}, step)
	if err != nil {
		return 0, err
	}
	stepLit, err := t.translatePath(p, ast.BFNumericLiteral{ID: int(self)}, step, diamond)
	if err != nil {
		return 0, err
	}

	baseGuard, err := t.backend.AddAtom(host.Symbol{Name: "__kleene_guard"})
	if err != nil {
		return 0, err
	}
	if err := t.equivOr(baseGuard, final.Negate(), base); err != nil {
		return 0, err
	}

	rest, err := t.backend.AddAtom(host.Symbol{Name: "__kleene_rest"})
	if err != nil {
		return 0, err
	}
	if diamond {
		err = t.equivOr(rest, base, stepLit)
	} else {
		err = t.equivAnd(rest, base, stepLit)
	}
	if err != nil {
		return 0, err
	}

	if err := t.equivAnd(self, baseGuard, rest); err != nil {
		return 0, err
	}
	return self, nil
}
