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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/relink/cmd/relink/opts"
	"github.com/walteh/relink/pkg/log"
	"github.com/walteh/relink/pkg/operation"
	"github.com/walteh/relink/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates a new status command
func NewStatusCmd(opts *opts.RootOpts) *cobra.Command {
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which files a rewrite would change",
		Long: `Status runs the same rules as rewrite without writing anything.
It prints the files that would change in the same format as rewrite.
With --exit-code it exits with status 2 when any file would change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "status").Logger().WithContext(ctx)
			logger := log.FromContext(ctx)

			op, err := operation.NewStatusOperation(ctx, operation.Options{
				Config: opts.Config,
				Logger: logger,
			})
			if err != nil {
				return errors.Errorf("creating operation: %w", err)
			}

			report, err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op)
			if err != nil {
				return errors.Errorf("checking links: %w", err)
			}

			if err := status.WriteSummary(opts.Stdout, report); err != nil {
				return err
			}

			if opts.Verbose {
				logger.Infof("%d of %d files would change", len(report.Changed()), len(report.Files()))
			}

			if exitCode && len(report.Changed()) > 0 {
				return &ExitError{Code: 2}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with status 2 when files need rewriting")

	return cmd
}
