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
	"fmt"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/relink/cmd/relink/opts"
	"gitlab.com/tozd/go/errors"
)

// NewRulesCmd creates a new rules command
func NewRulesCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the link rules in the order they run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := opts.Config.Rules()
			if err != nil {
				return errors.Errorf("building rules: %w", err)
			}

			data := pterm.TableData{{"#", "Rule", "Pattern", "Scope"}}
			for i, r := range rules {
				scope := r.Scope
				if scope == "" {
					scope = "all"
				}
				data = append(data, []string{
					color.CyanString(fmt.Sprintf("%d", i+1)),
					r.Name,
					r.Pattern.String(),
					scope,
				})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering rules: %w", err)
			}

			fmt.Fprintln(opts.Stdout, table)
			return nil
		},
	}

	return cmd
}
