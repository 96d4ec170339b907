package sorter

import (
	"sort"
	"strings"

	"github.com/siyuan-infoblox/py-imports-sort/pkg/imports"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/std"
)

// Classifier assigns an origin to import statements
type Classifier struct {
	std   std.Set
	local []string // dotted module prefixes of the project's own packages
}

// NewClassifier creates a Classifier from a standard library reference set
// and the project's local module prefixes. A nil set falls back to
// std.StandardModules.
func NewClassifier(stdlib std.Set, local []string) *Classifier {
	if stdlib == nil {
		stdlib = std.StandardModules
	}
	seen := make(map[string]bool, len(local))
	var prefixes []string
	for _, l := range local {
		l = strings.Trim(strings.TrimSpace(l), ".")
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		prefixes = append(prefixes, l)
	}
	sort.Strings(prefixes)
	return &Classifier{std: stdlib, local: prefixes}
}

// Classify determines which origin group a statement belongs to
func (c *Classifier) Classify(s *imports.Statement) imports.Origin {
	// __future__ directives stay with the standard library whatever the set
	if s.IsFuture() {
		return imports.OriginSystem
	}

	// Relative imports always point into the project
	if s.Module.IsRelative() {
		return imports.OriginLocal
	}

	module := s.Module.String()
	if c.std.Contains(module) {
		return imports.OriginSystem
	}

	if c.isLocal(module) {
		return imports.OriginLocal
	}

	// Default to third-party
	return imports.OriginThirdParty
}

// isLocal checks if module is one of the local prefixes or lives under one
func (c *Classifier) isLocal(module string) bool {
	for _, prefix := range c.local {
		if module == prefix || strings.HasPrefix(module, prefix+".") {
			return true
		}
	}
	return false
}
