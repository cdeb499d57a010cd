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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// RegexpTextReplacer implements TextReplacer by running each rule's pattern over the
// whole content, in order, each rule seeing the output of the previous one.
type RegexpTextReplacer struct{}

// NewRegexpTextReplacer creates a new RegexpTextReplacer
func NewRegexpTextReplacer() *RegexpTextReplacer {
	return &RegexpTextReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *RegexpTextReplacer) ReplaceText(ctx context.Context, content io.Reader, relPath string, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
		RuleCounts:      map[string]int{},
	}

	logger := zerolog.Ctx(ctx)

	current := string(originalContent)
	for _, rule := range rules {
		if rule.Pattern == nil || !rule.AppliesTo(relPath) {
			continue
		}

		next, n := rule.Apply(current)
		if n > 0 {
			result.RuleCounts[rule.Name] += n
			result.ReplacementCount += n
			logger.Trace().Str("file", relPath).Str("rule", rule.Name).Int("count", n).Msg("rule matched")
		}

		current = next
	}

	// a rule can rewrite text to itself, so compare the bytes rather than trusting counts
	result.WasModified = current != string(originalContent)
	result.ModifiedContent = []byte(current)

	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *RegexpTextReplacer) ValidateRules(rules []ReplacementRule) error {
	seen := map[string]bool{}
	for i, rule := range rules {
		if rule.Name == "" {
			return errors.Errorf("rule %d: name is required", i)
		}
		if seen[rule.Name] {
			return errors.Errorf("rule %d: duplicate name %q", i, rule.Name)
		}
		seen[rule.Name] = true
		if rule.Pattern == nil {
			return errors.Errorf("rule %d (%s): pattern is required", i, rule.Name)
		}
		if rule.Pattern.String() == "" {
			return errors.Errorf("rule %d (%s): pattern must not be empty", i, rule.Name)
		}
	}
	return nil
}
