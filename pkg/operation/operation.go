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

	"github.com/walteh/relink/pkg/config"
	"github.com/walteh/relink/pkg/log"
	"github.com/walteh/relink/pkg/status"
	"github.com/walteh/relink/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrRootNotAccessible is returned when the walk root is missing or unreadable.
// It is the only failure that stops a run.
var ErrRootNotAccessible = errors.Base("root directory is not accessible")

// 🎯 Operation is one pass over the configured directory tree
type Operation interface {
	// Execute walks the tree and returns a result for every candidate file
	Execute(ctx context.Context) (*status.Report, error)
}

// 🔧 Options contains configuration for an operation
type Options struct {
	// Config is the validated run configuration
	Config *config.Config
	// Replacer applies the rule list to file content, defaults to the regexp replacer
	Replacer text.TextReplacer
	// Logger echoes per-file results, defaults to the logger carried by the context
	Logger *log.Logger
	// DryRun computes changes without writing them
	DryRun bool
}

// 📦 BaseOperation holds what every operation needs
type BaseOperation struct {
	Config   *config.Config
	Replacer text.TextReplacer
	Logger   *log.Logger
	Rules    []text.ReplacementRule
	DryRun   bool
}

// 🏗️ NewBaseOperation validates options and builds the rule list
func NewBaseOperation(ctx context.Context, opts Options) (*BaseOperation, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	replacer := opts.Replacer
	if replacer == nil {
		replacer = text.NewRegexpTextReplacer()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.FromContext(ctx)
	}

	rules, err := opts.Config.Rules()
	if err != nil {
		return nil, errors.Errorf("building rules: %w", err)
	}
	if err := replacer.ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	return &BaseOperation{
		Config:   opts.Config,
		Replacer: replacer,
		Logger:   logger,
		Rules:    rules,
		DryRun:   opts.DryRun,
	}, nil
}
