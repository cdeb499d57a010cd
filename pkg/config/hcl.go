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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
//
//	root      = "."
//	final_url = "https://example.github.io/project"
//
//	replacement "old-cdn" {
//	  old  = "https://cdn.example.com"
//	  new  = "https://static.example.com"
//	  file = "**/*.html"
//	}
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "relink.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"default_final_url": cty.StringVal(Default().FinalURL),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Root           string   `hcl:"root,optional"`
		FinalURL       string   `hcl:"final_url,optional"`
		Extensions     []string `hcl:"extensions,optional"`
		IgnorePatterns []string `hcl:"ignore_patterns,optional"`
		Replacements   []struct {
			Name  string  `hcl:"name,label"`
			Old   string  `hcl:"old"`
			New   string  `hcl:"new"`
			Regex bool    `hcl:"regex,optional"`
			File  *string `hcl:"file,optional"`
		} `hcl:"replacement,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Root:           hclCfg.Root,
		FinalURL:       hclCfg.FinalURL,
		Extensions:     hclCfg.Extensions,
		IgnorePatterns: hclCfg.IgnorePatterns,
	}

	for _, r := range hclCfg.Replacements {
		cfg.Replacements = append(cfg.Replacements, Replacement{
			Name:  r.Name,
			Old:   r.Old,
			New:   r.New,
			Regex: r.Regex,
			File:  r.File,
		})
	}

	return cfg, nil
}
