// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"sort"
	"sync"
)

// 📊 Outcome is what happened to a single file during a run
type Outcome int

const (
	OutcomeUnknown            Outcome = iota
	OutcomeChanged                    // Content differed after rewriting and was written back
	OutcomeUnchanged                  // No rule changed the content
	OutcomeSkippedUnreadable          // File could not be opened, read or written
	OutcomeSkippedUndecodable         // File is not valid UTF-8 text
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeChanged:
		return "changed"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeSkippedUnreadable:
		return "skipped-unreadable"
	case OutcomeSkippedUndecodable:
		return "skipped-undecodable"
	default:
		return "unknown"
	}
}

// Skipped reports whether the file was left alone because of an error
func (o Outcome) Skipped() bool {
	return o == OutcomeSkippedUnreadable || o == OutcomeSkippedUndecodable
}

// 📄 FileResult is the record kept for every file the rewriter looked at
type FileResult struct {
	Path         string         // Path relative to the walk root
	Outcome      Outcome        // What happened
	Replacements int            // Replacements made across all rules
	RuleCounts   map[string]int // Replacements per rule name
	Error        error          // Why the file was skipped, if it was
}

// 📋 Report collects file results in the order they were produced
type Report struct {
	mu    sync.Mutex
	files []FileResult
}

// 🏭 NewReport creates an empty report
func NewReport() *Report {
	return &Report{}
}

// Add records a file result
func (r *Report) Add(res FileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, res)
}

// Files returns a copy of every recorded result
func (r *Report) Files() []FileResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FileResult, len(r.files))
	copy(out, r.files)
	return out
}

// Changed returns the relative paths of changed files, in walk order
func (r *Report) Changed() []string {
	return r.pathsWhere(func(o Outcome) bool { return o == OutcomeChanged })
}

// Skipped returns the relative paths of files skipped because of an error
func (r *Report) Skipped() []string {
	return r.pathsWhere(Outcome.Skipped)
}

func (r *Report) pathsWhere(match func(Outcome) bool) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	paths := []string{}
	for _, f := range r.files {
		if match(f.Outcome) {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

// Counts returns how many files ended with each outcome
func (r *Report) Counts() map[Outcome]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[Outcome]int{}
	for _, f := range r.files {
		counts[f.Outcome]++
	}
	return counts
}

// RuleTotals sums replacements per rule across all changed files, sorted by rule name
func (r *Report) RuleTotals() []RuleTotal {
	r.mu.Lock()
	defer r.mu.Unlock()

	sums := map[string]int{}
	for _, f := range r.files {
		for name, n := range f.RuleCounts {
			sums[name] += n
		}
	}

	totals := make([]RuleTotal, 0, len(sums))
	for name, n := range sums {
		totals = append(totals, RuleTotal{Rule: name, Count: n})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Rule < totals[j].Rule })
	return totals
}

// RuleTotal is the number of replacements one rule made during a run
type RuleTotal struct {
	Rule  string
	Count int
}
