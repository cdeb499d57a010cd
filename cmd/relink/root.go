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

package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/relink/cmd/relink/commands"
	"github.com/walteh/relink/cmd/relink/opts"
	"github.com/walteh/relink/pkg/config"
	"github.com/walteh/relink/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the values of the shared flags
type rootFlags struct {
	configFile string
	root       string
	finalURL   string
	ignore     []string
	debug      bool
	verbose    bool
}

// newRootCmd builds the command tree. Running it without a subcommand rewrites.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "relink",
		Short: "Rewrite preview deployment links to the published site",
		Long: `relink walks a directory of documentation and web assets and rewrites
known preview deployment URLs to the final published site URL, in place.
Changed files are listed on standard output.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), stderr, flags.debug)
			ctx = log.NewContext(ctx, log.New(stderr, *zerolog.Ctx(ctx), flags.verbose))
			cmd.SetContext(ctx)

			return newRootOpts(ctx, flags, rootOpts, stdout)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunRewrite(cmd.Context(), rootOpts)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewRewriteCmd(rootOpts),
		commands.NewStatusCmd(rootOpts),
		commands.NewRulesCmd(rootOpts),
		newVersionCmd(stdout),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path (.yaml, .yml, .json or .hcl)")
	cmd.PersistentFlags().StringVar(&flags.root, "root", "", "directory to scan (default \".\")")
	cmd.PersistentFlags().StringVar(&flags.finalURL, "final-url", "", "final site URL preview links are rewritten to")
	cmd.PersistentFlags().StringSliceVar(&flags.ignore, "ignore", nil, "glob of paths to skip, relative to the root (repeatable)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "list every scanned file on stderr")
}

// newRootOpts loads the config file, applies flag overrides and fills rootOpts
func newRootOpts(ctx context.Context, flags *rootFlags, rootOpts *opts.RootOpts, stdout io.Writer) error {
	cfg := config.Default()
	if flags.configFile != "" {
		loaded, err := config.Load(ctx, flags.configFile)
		if err != nil {
			return errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if flags.root != "" {
		cfg.Root = flags.root
	}
	if flags.finalURL != "" {
		cfg.FinalURL = flags.finalURL
	}
	cfg.IgnorePatterns = append(cfg.IgnorePatterns, flags.ignore...)

	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating config: %w", err)
	}

	rootOpts.Config = cfg
	rootOpts.Stdout = stdout
	rootOpts.Verbose = flags.verbose

	return nil
}

// setupLogging configures zerolog based on flags and attaches it to ctx
func setupLogging(ctx context.Context, w io.Writer, debug bool) context.Context {
	level := zerolog.ErrorLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger.WithContext(ctx)
}
