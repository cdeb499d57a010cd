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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/relink/pkg/config"
	"github.com/walteh/relink/pkg/status"
)

const final = "https://montagnikrea-source.github.io/SuslovPA"

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readTree(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func newConfig(t *testing.T, root string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Root = root
	require.NoError(t, cfg.Validate())
	return cfg
}

func run(t *testing.T, ctx context.Context, opts Options) *status.Report {
	t.Helper()
	op, err := NewRewriteOperation(ctx, opts)
	require.NoError(t, err)
	report, err := op.Execute(ctx)
	require.NoError(t, err)
	return report
}

func outcomes(report *status.Report) map[string]status.Outcome {
	out := map[string]status.Outcome{}
	for _, f := range report.Files() {
		out[filepath.ToSlash(f.Path)] = f.Outcome
	}
	return out
}

func TestRewrite(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"docs/index.html":  `<a href="https://pavell.vercel.app/noninput.html">`,
		"notes.txt":        "https://pavell-preview-42.vercel.app",
		"nested/deep/a.js": `fetch("https://suslvopa-chat-proxy.vercel.app/api/chat")`,
		"plain.md":         "# Nothing here\n\nhttps://example.com/\n",
		"style.css":        "a { background: url(https://pavell.vercel.app/bg.png) }",
		"docs/guide.md":    "see https://montagnikrea-source.github.io/other",
		"scripts/cfg.json": `{"url": "https://montagnikrea-source.github.io/other"}`,
	})

	ctx := testContext()
	report := run(t, ctx, Options{Config: newConfig(t, root)})

	assert.Equal(t, []string{
		filepath.FromSlash("docs/guide.md"),
		filepath.FromSlash("docs/index.html"),
		filepath.FromSlash("nested/deep/a.js"),
		"notes.txt",
	}, report.Changed(), "changed files are reported in lexical walk order")

	assert.Equal(t, `<a href="`+final+`/noninput.html">`, readTree(t, root, "docs/index.html"))
	assert.Equal(t, final, readTree(t, root, "notes.txt"))
	assert.Equal(t, `fetch("`+final+`/api/chat")`, readTree(t, root, "nested/deep/a.js"))
	assert.Equal(t, "see "+final+"/other", readTree(t, root, "docs/guide.md"))

	assert.Equal(t, "# Nothing here\n\nhttps://example.com/\n", readTree(t, root, "plain.md"), "untouched files stay byte identical")
	assert.Equal(t, `{"url": "https://montagnikrea-source.github.io/other"}`, readTree(t, root, "scripts/cfg.json"), "bare root rule only runs on docs")
	assert.Equal(t, "a { background: url(https://pavell.vercel.app/bg.png) }", readTree(t, root, "style.css"), "unrecognized extensions are never rewritten")

	got := outcomes(report)
	assert.Equal(t, status.OutcomeUnchanged, got["plain.md"])
	assert.Equal(t, status.OutcomeUnchanged, got["scripts/cfg.json"])
	_, seen := got["style.css"]
	assert.False(t, seen, "unrecognized extensions are not part of the report")
}

func TestRewriteIdempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":   `[a](https://pavell.vercel.app) [b](https://your-project.vercel.app/x) 'https://pavell.vercel.app',`,
		"public/a.js": `const api = "https://pavell-git-feature.vercel.app/api";`,
	})

	ctx := testContext()
	cfg := newConfig(t, root)

	first := run(t, ctx, Options{Config: cfg})
	require.Len(t, first.Changed(), 2)
	after := readTree(t, root, "README.md")

	second := run(t, ctx, Options{Config: cfg})
	assert.Empty(t, second.Changed())
	assert.Equal(t, after, readTree(t, root, "README.md"))
}

func TestRewriteSkipsUndecodable(t *testing.T) {
	root := t.TempDir()
	content := append([]byte{0xff, 0xfe, 0x00}, []byte("https://pavell.vercel.app")...)
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.txt"), content, 0644))
	writeTree(t, root, map[string]string{"ok.txt": "https://pavell.vercel.app"})

	report := run(t, testContext(), Options{Config: newConfig(t, root)})

	got := outcomes(report)
	assert.Equal(t, status.OutcomeSkippedUndecodable, got["blob.txt"])
	assert.Equal(t, status.OutcomeChanged, got["ok.txt"], "a bad file does not stop the run")
	assert.Equal(t, []string{"blob.txt"}, report.Skipped())

	data, err := os.ReadFile(filepath.Join(root, "blob.txt"))
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestRewriteSkipsUnreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"locked.md": "https://pavell.vercel.app",
		"open.md":   "https://pavell.vercel.app",
	})
	require.NoError(t, os.Chmod(filepath.Join(root, "locked.md"), 0000))
	t.Cleanup(func() { os.Chmod(filepath.Join(root, "locked.md"), 0644) })

	report := run(t, testContext(), Options{Config: newConfig(t, root)})

	got := outcomes(report)
	assert.Equal(t, status.OutcomeSkippedUnreadable, got["locked.md"])
	assert.Equal(t, status.OutcomeChanged, got["open.md"])
}

func TestRewriteRoot(t *testing.T) {
	t.Run("missing_root", func(t *testing.T) {
		cfg := config.Default()
		cfg.Root = filepath.Join(t.TempDir(), "does-not-exist")

		op, err := NewRewriteOperation(testContext(), Options{Config: cfg})
		require.NoError(t, err)

		_, err = op.Execute(testContext())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRootNotAccessible)
	})

	t.Run("root_is_a_file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.md")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
		cfg := config.Default()
		cfg.Root = file

		op, err := NewRewriteOperation(testContext(), Options{Config: cfg})
		require.NoError(t, err)

		_, err = op.Execute(testContext())
		assert.ErrorIs(t, err, ErrRootNotAccessible)
	})

	t.Run("empty_root", func(t *testing.T) {
		report := run(t, testContext(), Options{Config: newConfig(t, t.TempDir())})
		assert.Empty(t, report.Files())
		assert.Empty(t, report.Changed())
	})
}

func TestRewriteDryRun(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"docs/a.md": "https://pavell.vercel.app/"})

	ctx := testContext()
	op, err := NewStatusOperation(ctx, Options{Config: newConfig(t, root)})
	require.NoError(t, err)

	report, err := op.Execute(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.FromSlash("docs/a.md")}, report.Changed())
	assert.Equal(t, "https://pavell.vercel.app/", readTree(t, root, "docs/a.md"), "dry run never writes")
}

func TestRewriteIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"node_modules/pkg/index.js": "https://pavell.vercel.app",
		"public/app.min.js":         "https://pavell.vercel.app",
		"public/app.js":             "https://pavell.vercel.app",
	})

	cfg := newConfig(t, root)
	cfg.IgnorePatterns = []string{"node_modules", "**/*.min.js"}

	report := run(t, testContext(), Options{Config: cfg})

	assert.Equal(t, []string{filepath.FromSlash("public/app.js")}, report.Changed())
	assert.Equal(t, "https://pavell.vercel.app", readTree(t, root, "node_modules/pkg/index.js"))
	assert.Equal(t, "https://pavell.vercel.app", readTree(t, root, "public/app.min.js"))
}

func TestRewriteKeepsFileMode(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "deploy.sh")
	require.NoError(t, os.WriteFile(path, []byte("open https://pavell.vercel.app/\n"), 0755))

	report := run(t, testContext(), Options{Config: newConfig(t, root)})
	require.Equal(t, []string{"deploy.sh"}, report.Changed())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assert.Equal(t, "open "+final+"/\n", readTree(t, root, "deploy.sh"))
}

func TestRewriteSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeTree(t, outside, map[string]string{
		"target.md":     "https://pavell.vercel.app",
		"dir/nested.md": "https://pavell.vercel.app",
	})

	if err := os.Symlink(filepath.Join(outside, "target.md"), filepath.Join(root, "link.md")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(outside, "dir"), filepath.Join(root, "dir.md")))

	report := run(t, testContext(), Options{Config: newConfig(t, root)})

	assert.Equal(t, []string{"link.md"}, report.Changed())
	assert.Equal(t, final, readTree(t, outside, "target.md"), "file links are written through")
	assert.Equal(t, "https://pavell.vercel.app", readTree(t, outside, "dir/nested.md"), "directory links are not followed")
}

func TestRewriteCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": "https://pavell.vercel.app"})

	ctx, cancel := context.WithCancel(testContext())
	op, err := NewRewriteOperation(ctx, Options{Config: newConfig(t, root)})
	require.NoError(t, err)
	cancel()

	_, err = op.Execute(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "https://pavell.vercel.app", readTree(t, root, "a.md"))
}

func TestNewRewriteOperation(t *testing.T) {
	_, err := NewRewriteOperation(testContext(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")

	cfg := config.Default()
	cfg.FinalURL = "not a url"
	_, err = NewRewriteOperation(testContext(), Options{Config: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating config")
}

func TestRunner(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.md": "https://pavell.vercel.app",
		"b.md": "nothing",
	})

	ctx := testContext()
	op, err := NewRewriteOperation(ctx, Options{Config: newConfig(t, root)})
	require.NoError(t, err)

	logger := zerolog.Nop()
	report, err := NewRunner(&logger).Run(ctx, op)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md"}, report.Changed())

	cfg := config.Default()
	cfg.Root = filepath.Join(root, "missing")
	op, err = NewRewriteOperation(ctx, Options{Config: cfg})
	require.NoError(t, err)
	_, err = NewRunner(&logger).Run(ctx, op)
	assert.ErrorIs(t, err, ErrRootNotAccessible)
}
