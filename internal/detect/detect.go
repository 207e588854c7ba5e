// Package detect decides whether a declared package is actually used in code.
// Detection rules pair file-name suffixes with literal code substrings; a
// single matching file is treated as sufficient evidence of use.
package detect

import (
	"strings"

	"github.com/stackgrade/stackgrade/internal/schema"
)

// Reason strings for undetected packages. These are part of the result
// contract and appear verbatim in reports.
const (
	ReasonNoPatterns = "No implementation patterns defined"
	ReasonNotFound   = "No implementation found"
)

// Rule is the detection rule for one package: which files to look at and
// which literal substrings indicate usage. Matching is case-sensitive.
type Rule struct {
	FilePatterns []string `yaml:"filePatterns" json:"filePatterns"`
	CodePatterns []string `yaml:"codePatterns" json:"codePatterns"`
}

// Registry resolves package names to detection rules through a two-layer
// lookup: a caller-supplied overlay checked first, then the built-in base
// table. Both layers are fixed at construction; a Registry is safe for
// concurrent use.
type Registry struct {
	overlay map[string]Rule
}

// NewRegistry builds a registry with the given overlay merged over the
// built-in rules. Overlay entries win on name collision. The overlay map is
// copied; later mutation by the caller has no effect.
func NewRegistry(overlay map[string]Rule) *Registry {
	cp := make(map[string]Rule, len(overlay))
	for name, rule := range overlay {
		cp[name] = rule
	}
	return &Registry{overlay: cp}
}

// Lookup returns the effective rule for pkg.
func (r *Registry) Lookup(pkg string) (Rule, bool) {
	if rule, ok := r.overlay[pkg]; ok {
		return rule, true
	}
	rule, ok := builtins[pkg]
	return rule, ok
}

// Detect scans files for evidence that pkg is used. Files are filtered by
// suffix, then checked in their given order; the first file containing any
// code pattern wins. File order is whatever the walker produced, so callers
// must not rely on which of several matching files is cited.
func (r *Registry) Detect(pkg string, files []schema.RepoFile) schema.ImplementationResult {
	rule, ok := r.Lookup(pkg)
	if !ok {
		return schema.ImplementationResult{Implemented: false, Reason: ReasonNoPatterns}
	}

	for _, f := range files {
		if !matchesSuffix(f.Path, rule.FilePatterns) {
			continue
		}
		for _, pattern := range rule.CodePatterns {
			if strings.Contains(f.Content, pattern) {
				return schema.ImplementationResult{
					Implemented: true,
					File:        f.Path,
					Content:     f.Content,
				}
			}
		}
	}

	return schema.ImplementationResult{Implemented: false, Reason: ReasonNotFound}
}

// matchesSuffix reports whether path ends with any of the suffixes.
func matchesSuffix(path string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

// builtins is the base rule table. Callers extend or override it through the
// registry overlay, never by mutating this map.
var builtins = map[string]Rule{
	"react": {
		FilePatterns: []string{".jsx", ".tsx", ".js", ".ts"},
		CodePatterns: []string{
			`from "react"`, `from 'react'`,
			`require("react")`, `require('react')`,
			"useState", "useEffect", "React.Component",
		},
	},
	"express": {
		FilePatterns: []string{".js", ".ts", ".mjs"},
		CodePatterns: []string{
			`require("express")`, `require('express')`,
			`from "express"`, `from 'express'`,
			"express()",
		},
	},
	"axios": {
		FilePatterns: []string{".js", ".ts", ".jsx", ".tsx"},
		CodePatterns: []string{
			`from "axios"`, `from 'axios'`,
			`require("axios")`, `require('axios')`,
			"axios.get", "axios.post",
		},
	},
	"mongoose": {
		FilePatterns: []string{".js", ".ts"},
		CodePatterns: []string{
			`require("mongoose")`, `require('mongoose')`,
			`from "mongoose"`, `from 'mongoose'`,
			"mongoose.connect", "mongoose.Schema",
		},
	},
	"vue": {
		FilePatterns: []string{".vue", ".js", ".ts"},
		CodePatterns: []string{
			`from "vue"`, `from 'vue'`,
			"createApp", "new Vue",
		},
	},
	"next": {
		FilePatterns: []string{".jsx", ".tsx", ".js", ".ts"},
		CodePatterns: []string{
			`from "next`, `from 'next`,
			"getServerSideProps", "getStaticProps",
		},
	},
	"jest": {
		FilePatterns: []string{".test.js", ".test.ts", ".spec.js", ".spec.ts", ".test.jsx", ".test.tsx"},
		CodePatterns: []string{"describe(", "it(", "test(", "expect("},
	},
	"tailwindcss": {
		FilePatterns: []string{".css", ".jsx", ".tsx", ".html", ".js", ".ts"},
		CodePatterns: []string{"@tailwind", "tailwind.config", "className="},
	},
	"lodash": {
		FilePatterns: []string{".js", ".ts", ".jsx", ".tsx"},
		CodePatterns: []string{
			`from "lodash"`, `from 'lodash'`,
			`require("lodash")`, `require('lodash')`,
			"_.map", "_.filter", "_.debounce",
		},
	},
	"typescript": {
		FilePatterns: []string{".ts", ".tsx"},
		CodePatterns: []string{"interface ", "type ", ": string", ": number"},
	},
}
