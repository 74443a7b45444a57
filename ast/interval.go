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
	"fmt"
	"math"
	"sort"
	"strings"
)

// Unbounded marks an interval's open end as #sup: no upper bound.
const Unbounded = int64(math.MaxInt64)

// Interval is a half-open integer interval [Lo, Hi), used by the head
// theory-atom transformer to track, per atom, the set of relative-time
// offsets at which it may be required to hold.
type Interval struct {
	Lo, Hi int64
}

// String renders the interval in half-open bracket notation.
func (iv Interval) String() string {
	if iv.Hi == Unbounded {
		return fmt.Sprintf("[%d,#sup)", iv.Lo)
	}
	return fmt.Sprintf("[%d,%d)", iv.Lo, iv.Hi)
}

// overlapsOrTouches reports whether iv and other describe a contiguous or
// overlapping run, so merging them loses no information.
func (iv Interval) overlapsOrTouches(other Interval) bool {
	return iv.Lo <= other.Hi && other.Lo <= iv.Hi
}

// IntervalSet is a normalized union of half-open integer intervals: kept
// sorted by Lo and merged so that no two entries overlap or touch.
type IntervalSet struct {
	intervals []Interval
}

// NewIntervalSet builds an IntervalSet from zero or more (lo, hi) pairs,
// merging as it goes.
func NewIntervalSet(pairs ...Interval) *IntervalSet {
	s := &IntervalSet{}
	for _, p := range pairs {
		s.Add(p.Lo, p.Hi)
	}
	return s
}

// Add inserts [lo, hi) into the set, merging with any overlapping or
// touching interval already present.
func (s *IntervalSet) Add(lo, hi int64) {
	if lo > hi {
		lo, hi = hi, lo
	}
	next := Interval{lo, hi}
	merged := make([]Interval, 0, len(s.intervals)+1)
	inserted := false
	for _, iv := range s.intervals {
		if !inserted && next.overlapsOrTouches(iv) {
			next = unionPair(next, iv)
			continue
		}
		if !inserted && next.Hi < iv.Lo {
			merged = append(merged, next)
			inserted = true
		}
		merged = append(merged, iv)
	}
	if !inserted {
		merged = append(merged, next)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Lo < merged[j].Lo })
	s.intervals = mergeSorted(merged)
}

func unionPair(a, b Interval) Interval {
	lo := a.Lo
	if b.Lo < lo {
		lo = b.Lo
	}
	hi := a.Hi
	if b.Hi > hi {
		hi = b.Hi
	}
	return Interval{lo, hi}
}

// mergeSorted collapses a Lo-sorted slice of intervals into its normal form.
func mergeSorted(sorted []Interval) []Interval {
	if len(sorted) == 0 {
		return nil
	}
	out := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		if iv.Lo <= last.Hi {
			if iv.Hi > last.Hi {
				last.Hi = iv.Hi
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Intervals returns the normalized, sorted intervals in the set.
func (s *IntervalSet) Intervals() []Interval {
	out := make([]Interval, len(s.intervals))
	copy(out, s.intervals)
	return out
}

// Contains reports whether t falls inside some interval of the set.
func (s *IntervalSet) Contains(t int64) bool {
	for _, iv := range s.intervals {
		if iv.Lo <= t && t < iv.Hi {
			return true
		}
	}
	return false
}

// String renders the set as a brace-delimited list of intervals.
func (s *IntervalSet) String() string {
	parts := make([]string, len(s.intervals))
	for i, iv := range s.intervals {
		parts[i] = iv.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
