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

package text

import (
	"context"
	"io"
	"regexp"
	"strings"
)

// FileFilter reports whether a rule applies to a file, given its
// slash-separated path relative to the walk root.
type FileFilter func(relPath string) bool

// ReplacementRule defines a single pattern based replacement
type ReplacementRule struct {
	// Name identifies the rule in logs and listings
	Name string

	// Pattern is matched against the whole file content
	Pattern *regexp.Regexp

	// Template is expanded for each match using regexp.Expand syntax ($1, ${name})
	Template string

	// Func, when set, replaces Template. It receives the match followed by its submatches
	// and may return the match unchanged to leave it alone.
	Func func(groups []string) string

	// Filter limits the rule to some files. A nil filter matches every file.
	Filter FileFilter

	// Scope describes Filter for humans
	Scope string
}

// AppliesTo reports whether the rule should run against relPath
func (r ReplacementRule) AppliesTo(relPath string) bool {
	return r.Filter == nil || r.Filter(relPath)
}

// Apply runs the rule over s and returns the result together with the number of
// matches whose replacement differed from the matched text.
func (r ReplacementRule) Apply(s string) (string, int) {
	matches := r.Pattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, 0
	}

	var b strings.Builder
	b.Grow(len(s))

	count := 0
	last := 0
	for _, m := range matches {
		match := s[m[0]:m[1]]

		var repl string
		if r.Func != nil {
			groups := make([]string, len(m)/2)
			for i := range groups {
				if m[2*i] >= 0 {
					groups[i] = s[m[2*i]:m[2*i+1]]
				}
			}
			repl = r.Func(groups)
		} else {
			repl = string(r.Pattern.ExpandString(nil, r.Template, s, m))
		}

		if repl != match {
			count++
		}

		b.WriteString(s[last:m[0]])
		b.WriteString(repl)
		last = m[1]
	}
	b.WriteString(s[last:])

	return b.String(), count
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if the content changed
	WasModified bool

	// ReplacementCount is the number of replacements made across all rules
	ReplacementCount int

	// RuleCounts maps a rule name to the replacements it made
	RuleCounts map[string]int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies rules, in order, to the content of the file at relPath
	ReplaceText(ctx context.Context, content io.Reader, relPath string, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}

// EscapeTemplate escapes s so that it expands to itself in a rule template
func EscapeTemplate(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

// Literal builds a rule replacing every occurrence of from with to
func Literal(name, from, to string) ReplacementRule {
	return ReplacementRule{
		Name:     name,
		Pattern:  regexp.MustCompile(regexp.QuoteMeta(from)),
		Template: EscapeTemplate(to),
	}
}
