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

package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/relink/cmd/relink/opts"
	"github.com/walteh/relink/pkg/log"
	"github.com/walteh/relink/pkg/operation"
	"github.com/walteh/relink/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewRewriteCmd creates a new rewrite command
func NewRewriteCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Rewrite preview links to the final site URL",
		Long: `Rewrite walks the root directory and replaces known preview deployment
links with the final site URL. It will:
1. Scan every file with a recognized extension
2. Apply the link rules in order
3. Write back files whose content changed
4. Print the changed files`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunRewrite(cmd.Context(), opts)
		},
	}

	return cmd
}

// RunRewrite runs the rewrite and prints the summary. It is also the root command's action.
func RunRewrite(ctx context.Context, opts *opts.RootOpts) error {
	ctx = zerolog.Ctx(ctx).With().Str("command", "rewrite").Logger().WithContext(ctx)
	logger := log.FromContext(ctx)

	if opts.Verbose {
		logger.Header("rewriting links under " + opts.Config.Root)
	}

	op, err := operation.NewRewriteOperation(ctx, operation.Options{
		Config: opts.Config,
		Logger: logger,
	})
	if err != nil {
		return errors.Errorf("creating operation: %w", err)
	}

	report, err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op)
	if err != nil {
		return errors.Errorf("rewriting links: %w", err)
	}

	if err := status.WriteSummary(opts.Stdout, report); err != nil {
		return err
	}

	if skipped := report.Skipped(); len(skipped) > 0 {
		logger.Warningf("%d files skipped", len(skipped))
	}

	if opts.Verbose {
		logger.Successf("rewrote %d of %d files", len(report.Changed()), len(report.Files()))
	}

	return nil
}
