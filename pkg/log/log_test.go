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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/relink/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		verbose  bool
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("rewriting links under .")
			},
			wantLogs: []string{
				"relink • rewriting links under .",
			},
		},
		{
			name: "quiet_hides_unchanged_files",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileResult(context.Background(), status.FileResult{Path: "a.md", Outcome: status.OutcomeUnchanged})
				logger.LogFileResult(context.Background(), status.FileResult{Path: "b.md", Outcome: status.OutcomeSkippedUndecodable, Error: errors.New("invalid UTF-8")})
			},
			wantLogs: []string{
				"✗ b.md                                skipped-undecodable  invalid UTF-8",
			},
		},
		{
			name:    "verbose_shows_every_file",
			verbose: true,
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileResult(context.Background(), status.FileResult{Path: "a.md", Outcome: status.OutcomeUnchanged})
				logger.LogFileResult(context.Background(), status.FileResult{Path: "c.md", Outcome: status.OutcomeChanged, Replacements: 1})
			},
			wantLogs: []string{
				"- a.md                                unchanged",
				"⟳ c.md                                changed              1 replacements",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop(), tt.verbose)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerMirrorsToZerolog(t *testing.T) {
	var zbuf bytes.Buffer
	logger := New(io.Discard, zerolog.New(&zbuf).Level(zerolog.DebugLevel), false)

	logger.LogFileResult(context.Background(), status.FileResult{Path: "docs/index.html", Outcome: status.OutcomeChanged, Replacements: 2})
	logger.Warning("careful")

	out := zbuf.String()
	assert.Contains(t, out, `"file":"docs/index.html"`)
	assert.Contains(t, out, `"outcome":"changed"`)
	assert.Contains(t, out, `"replacements":2`)
	assert.Contains(t, out, `"level":"warn","message":"careful"`)
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop(), false)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	var zbuf bytes.Buffer
	zctx := zerolog.New(&zbuf).WithContext(context.Background())
	fallback := FromContext(zctx)
	require.NotNil(t, fallback, "missing logger should fall back")
	assert.NotPanics(t, func() { fallback.Success("done") })
	assert.Contains(t, zbuf.String(), `"message":"done"`, "fallback should mirror to the context zerolog logger")
}
