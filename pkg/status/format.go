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
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gitlab.com/tozd/go/errors"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	outcomeWidth = 20 // Width for outcome text
)

// WriteSummary writes the changed file report: a count line followed by one
// line per changed file. The format is stable and meant for scripts.
func WriteSummary(w io.Writer, r *Report) error {
	changed := r.Changed()

	if _, err := fmt.Fprintf(w, "Changed files: %d\n", len(changed)); err != nil {
		return errors.Errorf("writing summary: %w", err)
	}
	for _, path := range changed {
		if _, err := fmt.Fprintf(w, "- %s\n", path); err != nil {
			return errors.Errorf("writing summary: %w", err)
		}
	}
	return nil
}

// 🎯 FormatFileResult formats a single file result for verbose display
func FormatFileResult(res FileResult) string {
	var prefix string
	switch res.Outcome {
	case OutcomeChanged:
		prefix = color.YellowString("⟳")
	case OutcomeSkippedUnreadable, OutcomeSkippedUndecodable:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	detail := ""
	switch {
	case res.Error != nil:
		detail = res.Error.Error()
	case res.Replacements > 0:
		detail = fmt.Sprintf("%d replacements", res.Replacements)
	}

	return strings.TrimRight(fmt.Sprintf("%s%s %-*s %-*s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		nameWidth, res.Path,
		outcomeWidth, res.Outcome.String(),
		detail,
	), " ")
}
