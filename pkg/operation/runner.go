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

package operation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/relink/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🏃 OperationRunner executes operations and logs their outcome
type OperationRunner struct {
	logger *zerolog.Logger
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger) *OperationRunner {
	return &OperationRunner{
		logger: logger,
	}
}

// 🏃 Run executes an operation
func (r *OperationRunner) Run(ctx context.Context, op Operation) (*status.Report, error) {
	start := time.Now()

	report, err := op.Execute(ctx)
	if err != nil {
		return nil, errors.Errorf("executing operation: %w", err)
	}

	counts := report.Counts()
	ev := r.logger.Debug().
		Dur("took", time.Since(start)).
		Int("changed", counts[status.OutcomeChanged]).
		Int("unchanged", counts[status.OutcomeUnchanged]).
		Int("skipped", counts[status.OutcomeSkippedUnreadable]+counts[status.OutcomeSkippedUndecodable])
	for _, total := range report.RuleTotals() {
		ev = ev.Int("rule."+total.Rule, total.Count)
	}
	ev.Msg("operation complete")

	return report, nil
}
