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

package config

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/relink/pkg/links"
	"github.com/walteh/relink/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// DefaultExtensions are the file name suffixes scanned when none are configured
var DefaultExtensions = []string{".html", ".htm", ".md", ".txt", ".sh", ".js", ".json"}

// 🔄 Replacement is an extra user rule run after the built in link rules
type Replacement struct {
	Name  string  `json:"name,omitempty" yaml:"name,omitempty"`   // Rule name, defaults to extra-<index>
	Old   string  `json:"old" yaml:"old"`                         // Text or pattern to replace
	New   string  `json:"new" yaml:"new"`                         // Replacement, $1 style groups when Regex is set
	Regex bool    `json:"regex,omitempty" yaml:"regex,omitempty"` // Treat Old as a regular expression
	File  *string `json:"file,omitempty" yaml:"file,omitempty"`   // Optional doublestar glob limiting the rule
}

// 📚 Config holds the settings for one run. It is built once at startup and not
// modified after Validate.
type Config struct {
	Root           string        `json:"root,omitempty" yaml:"root,omitempty"`
	FinalURL       string        `json:"final_url,omitempty" yaml:"final_url,omitempty"`
	Extensions     []string      `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	IgnorePatterns []string      `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty"`
	Replacements   []Replacement `json:"replacements,omitempty" yaml:"replacements,omitempty"`
}

// 🏭 Default returns the configuration used when nothing else is given
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields
func (cfg *Config) ApplyDefaults() {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.FinalURL == "" {
		cfg.FinalURL = links.DefaultFinalURL
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = append([]string(nil), DefaultExtensions...)
	}
}

// 🎯 Load loads the configuration from a file. Missing fields get defaults.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		return errors.Errorf("root is required")
	}
	cfg.Root = filepath.Clean(cfg.Root)

	if _, err := links.ParseSite(cfg.FinalURL); err != nil {
		return errors.Errorf("final_url: %w", err)
	}

	if len(cfg.Extensions) == 0 {
		return errors.Errorf("at least one extension is required")
	}
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.Errorf("extension %q must start with a dot", ext)
		}
	}

	for _, pattern := range cfg.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("ignore pattern %q is not a valid glob", pattern)
		}
	}

	for i, r := range cfg.Replacements {
		if r.Old == "" {
			return errors.Errorf("replacement %d: old is required", i)
		}
		if r.Regex {
			if _, err := regexp.Compile(r.Old); err != nil {
				return errors.Errorf("replacement %d: compiling %q: %w", i, r.Old, err)
			}
		}
		if r.File != nil && !doublestar.ValidatePattern(*r.File) {
			return errors.Errorf("replacement %d: file %q is not a valid glob", i, *r.File)
		}
	}

	return nil
}

// Site returns the parsed final URL
func (cfg *Config) Site() (links.Site, error) {
	return links.ParseSite(cfg.FinalURL)
}

// HasExtension reports whether a file name ends with one of the configured extensions.
// Matching is case sensitive.
func (cfg *Config) HasExtension(name string) bool {
	for _, ext := range cfg.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Ignored reports whether the slash-separated relative path matches an ignore pattern
func (cfg *Config) Ignored(relPath string) bool {
	for _, pattern := range cfg.IgnorePatterns {
		if doublestar.MatchUnvalidated(pattern, relPath) {
			return true
		}
	}
	return false
}

// Rules returns the complete ordered rule list: the link rules for the final
// URL followed by any configured replacements.
func (cfg *Config) Rules() ([]text.ReplacementRule, error) {
	site, err := cfg.Site()
	if err != nil {
		return nil, errors.Errorf("parsing final url: %w", err)
	}

	rules := links.Rules(site)

	for i, r := range cfg.Replacements {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("extra-%d", i)
		}

		var rule text.ReplacementRule
		if r.Regex {
			re, err := regexp.Compile(r.Old)
			if err != nil {
				return nil, errors.Errorf("replacement %s: %w", name, err)
			}
			rule = text.ReplacementRule{Name: name, Pattern: re, Template: r.New}
		} else {
			rule = text.Literal(name, r.Old, r.New)
		}

		if r.File != nil {
			glob := *r.File
			rule.Filter = func(relPath string) bool {
				return doublestar.MatchUnvalidated(glob, relPath) || doublestar.MatchUnvalidated(glob, path.Base(relPath))
			}
			rule.Scope = glob
		}

		rules = append(rules, rule)
	}

	return rules, nil
}
