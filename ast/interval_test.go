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

package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIntervalSetMergesOverlapping(t *testing.T) {
	s := NewIntervalSet(Interval{0, 3}, Interval{2, 5})
	want := []Interval{{0, 5}}
	if diff := cmp.Diff(want, s.Intervals()); diff != "" {
		t.Errorf("Intervals() mismatch (-want +got):\n%s", diff)
	}
}

func TestIntervalSetMergesTouching(t *testing.T) {
	s := NewIntervalSet(Interval{0, 2}, Interval{2, 4})
	want := []Interval{{0, 4}}
	if diff := cmp.Diff(want, s.Intervals()); diff != "" {
		t.Errorf("Intervals() mismatch (-want +got):\n%s", diff)
	}
}

func TestIntervalSetKeepsDisjointIntervalsSeparate(t *testing.T) {
	s := NewIntervalSet(Interval{0, 2}, Interval{5, 7})
	want := []Interval{{0, 2}, {5, 7}}
	if diff := cmp.Diff(want, s.Intervals()); diff != "" {
		t.Errorf("Intervals() mismatch (-want +got):\n%s", diff)
	}
}

func TestIntervalSetAddOutOfOrderBounds(t *testing.T) {
	s := &IntervalSet{}
	s.Add(5, 2) // lo > hi should be swapped, not rejected.
	if !s.Contains(3) {
		t.Errorf("expected [2,5) to contain 3")
	}
}

func TestIntervalSetContainsBoundary(t *testing.T) {
	s := NewIntervalSet(Interval{2, 5})
	if !s.Contains(2) {
		t.Errorf("expected the interval to contain its own Lo bound")
	}
	if s.Contains(5) {
		t.Errorf("did not expect the interval to contain its Hi bound (half-open)")
	}
	if s.Contains(1) || s.Contains(6) {
		t.Errorf("did not expect the interval to contain points outside it")
	}
}

func TestIntervalStringUnbounded(t *testing.T) {
	iv := Interval{Lo: 3, Hi: Unbounded}
	if got, want := iv.String(), "[3,#sup)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIntervalSetStringRendersAllIntervals(t *testing.T) {
	s := NewIntervalSet(Interval{0, 2}, Interval{5, 7})
	if got, want := s.String(), "{[0,2), [5,7)}"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
