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
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/relink/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// 📦 NewRewriteOperation creates the operation that rewrites preview links in place
func NewRewriteOperation(ctx context.Context, opts Options) (Operation, error) {
	base, err := NewBaseOperation(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &rewriteOperation{BaseOperation: base}, nil
}

// 📦 rewriteOperation implements the link rewrite
type rewriteOperation struct {
	*BaseOperation
}

// 🏃 Execute walks the root in lexical order, one file at a time
func (op *rewriteOperation) Execute(ctx context.Context) (*status.Report, error) {
	logger := zerolog.Ctx(ctx)
	root := op.Config.Root

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Errorf("%w: %s", ErrRootNotAccessible, err.Error())
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%w: %s is not a directory", ErrRootNotAccessible, root)
	}

	report := status.NewReport()

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if path == root {
				return errors.Errorf("%w: %s", ErrRootNotAccessible, walkErr.Error())
			}
			// unreadable subdirectory, its contents are skipped
			logger.Debug().Err(walkErr).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		slashRel := filepath.ToSlash(rel)

		if rel != "." && op.Config.Ignored(slashRel) {
			logger.Trace().Str("path", slashRel).Msg("ignored")
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !op.Config.HasExtension(d.Name()) {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err == nil && target.IsDir() {
				// directory links are not followed
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		res := op.processFile(ctx, path, slashRel)
		report.Add(res)
		op.Logger.LogFileResult(ctx, res)

		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}

	return report, nil
}

// 📄 processFile reads, rewrites and, when the content changed, writes back one file.
// Failures are recorded on the result rather than returned.
func (op *rewriteOperation) processFile(ctx context.Context, path, slashRel string) status.FileResult {
	res := status.FileResult{Path: slashRel}

	f, err := os.Open(path)
	if err != nil {
		res.Outcome = status.OutcomeSkippedUnreadable
		res.Error = errors.Errorf("opening file: %w", err)
		return res
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		res.Outcome = status.OutcomeSkippedUnreadable
		res.Error = errors.Errorf("stat file: %w", err)
		return res
	}

	replaced, err := op.Replacer.ReplaceText(ctx, transform.NewReader(f, encoding.UTF8Validator), slashRel, op.Rules)
	f.Close()
	if err != nil {
		res.Error = err
		if errors.Is(err, encoding.ErrInvalidUTF8) {
			res.Outcome = status.OutcomeSkippedUndecodable
		} else {
			res.Outcome = status.OutcomeSkippedUnreadable
		}
		return res
	}

	res.Replacements = replaced.ReplacementCount
	res.RuleCounts = replaced.RuleCounts

	if !replaced.WasModified {
		res.Outcome = status.OutcomeUnchanged
		return res
	}

	if !op.DryRun {
		if err := os.WriteFile(path, replaced.ModifiedContent, info.Mode().Perm()); err != nil {
			res.Outcome = status.OutcomeSkippedUnreadable
			res.Error = errors.Errorf("writing file: %w", err)
			return res
		}
	}

	res.Outcome = status.OutcomeChanged
	return res
}
