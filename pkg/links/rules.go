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

package links

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/walteh/relink/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultFinalURL is where every known preview link ends up
	DefaultFinalURL = "https://montagnikrea-source.github.io/SuslovPA"

	previewBase = "https://pavell.vercel.app"

	// preview URLs end at whitespace, a closing paren or a quote
	pathGroup = `(/[^\s)"']*)?`
)

var ErrInvalidSite = errors.Base("invalid final site url")

// Site is the final published location, split so that bare host links can be
// pointed back under the project path.
type Site struct {
	URL     string // e.g. https://montagnikrea-source.github.io/SuslovPA
	Root    string // e.g. https://montagnikrea-source.github.io
	SubPath string // e.g. SuslovPA, empty when the site lives at the host root
}

// ParseSite validates finalURL and splits it into its host root and sub-path.
// Scheme and host are normalized to lower case so the rules match the links
// they produce.
func ParseSite(finalURL string) (Site, error) {
	u, err := url.Parse(finalURL)
	if err != nil {
		return Site{}, errors.Errorf("%w: %s", ErrInvalidSite, err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Site{}, errors.Errorf("%w: scheme must be http or https, got %q", ErrInvalidSite, u.Scheme)
	}
	if u.Host == "" {
		return Site{}, errors.Errorf("%w: host is required", ErrInvalidSite)
	}
	if u.User != nil {
		return Site{}, errors.Errorf("%w: user info is not allowed", ErrInvalidSite)
	}
	if u.RawQuery != "" || u.Fragment != "" || u.ForceQuery {
		return Site{}, errors.Errorf("%w: query and fragment are not allowed", ErrInvalidSite)
	}

	root := u.Scheme + "://" + strings.ToLower(u.Host)
	sub := strings.Trim(u.EscapedPath(), "/")

	site := Site{URL: root, Root: root, SubPath: sub}
	if sub != "" {
		site.URL = root + "/" + sub
	}
	return site, nil
}

// Rules returns the ordered rule sequence that rewrites preview links to site.
// Every rule sees the output of the one before it.
func Rules(site Site) []text.ReplacementRule {
	final := text.EscapeTemplate(site.URL)
	quotedFinal := regexp.QuoteMeta(site.URL)

	rules := []text.ReplacementRule{
		{
			Name:     "preview-noninput",
			Pattern:  regexp.MustCompile(regexp.QuoteMeta(previewBase + "/noninput.html")),
			Template: final + "/noninput.html",
		},
		{
			Name:     "preview-slash",
			Pattern:  regexp.MustCompile(regexp.QuoteMeta(previewBase + "/")),
			Template: final + "/",
		},
		{
			Name:     "preview-bare",
			Pattern:  regexp.MustCompile(regexp.QuoteMeta(previewBase)),
			Template: final,
		},
		previewRule("preview-branch", `https://pavell-[\w\-]+\.vercel\.app`, site),
		previewRule("chat-proxy", `https://suslvopa-chat-proxy\.vercel\.app`, site),
		previewRule("placeholder", `https://your-project\.vercel\.app`, site),
		{
			Name:     "stray-punctuation",
			Pattern:  regexp.MustCompile(`(` + quotedFinal + `)['"),]+`),
			Template: "${1}",
		},
	}

	if site.SubPath != "" {
		rules = append(rules, bareRootRule(site))
	}

	return rules
}

// previewRule rewrites host plus an optional path to the final URL. The path
// is rewritten by the same rule first, so a preview URL nested in it (a
// redirect parameter, say) is fixed in the same pass.
func previewRule(name, host string, site Site) text.ReplacementRule {
	rule := text.ReplacementRule{
		Name:    name,
		Pattern: regexp.MustCompile(host + pathGroup),
	}
	rule.Func = func(groups []string) string {
		nested, _ := rule.Apply(groups[1])
		return site.URL + nested
	}
	return rule
}

// bareRootRule points host-root links in documentation back under the project
// path. Links already under the project path are left alone.
func bareRootRule(site Site) text.ReplacementRule {
	// RE2 has no lookahead, so the optional group tells us whether the
	// sub-path was already there.
	pattern := regexp.MustCompile(regexp.QuoteMeta(site.Root+"/") + `(` + regexp.QuoteMeta(site.SubPath) + `)?`)

	return text.ReplacementRule{
		Name:    "bare-root",
		Pattern: pattern,
		Func: func(groups []string) string {
			if groups[1] != "" {
				return groups[0]
			}
			return site.URL + "/"
		},
		Filter: IsDocPath,
		Scope:  "docs",
	}
}

var docExtensions = map[string]bool{".md": true, ".txt": true, ".html": true}

// IsDocPath reports whether the slash-separated relative path is documentation:
// a markdown or html file anywhere, or a text file under docs/ or public/, or
// any text file with README in its name.
func IsDocPath(relPath string) bool {
	ext := strings.ToLower(path.Ext(relPath))
	if !docExtensions[ext] {
		return false
	}
	if ext == ".md" || ext == ".html" {
		return true
	}

	segments := strings.Split(relPath, "/")
	if segments[0] == "public" {
		return true
	}
	if strings.Contains(segments[len(segments)-1], "README") {
		return true
	}
	for _, s := range segments[:len(segments)-1] {
		if s == "docs" {
			return true
		}
	}
	return false
}
