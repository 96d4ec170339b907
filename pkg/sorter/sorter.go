// Package sorter classifies import statements and orders them by strategy.
package sorter

import (
	"cmp"
	"slices"
	"sort"
	"strings"

	"github.com/siyuan-infoblox/py-imports-sort/pkg/imports"
)

// Result is a reordered import block
type Result struct {
	Statements []*imports.Statement
	Groups     [][]*imports.Statement // consecutive statements separated by a blank line
	Changed    bool                   // the block differs from the original
}

// Sort orders the statements of block by strategy. The block itself is not
// modified; Result holds copies with normalized name lists. classifier is
// only consulted by the structural strategy and may be nil otherwise.
func Sort(block *imports.Block, strategy Strategy, classifier *Classifier) Result {
	if block == nil || len(block.Statements) == 0 {
		return Result{}
	}
	if classifier == nil {
		classifier = NewClassifier(nil, nil)
	}

	changed := block.Expanded
	seen := make(map[string]bool, len(block.Statements))
	stmts := make([]*imports.Statement, 0, len(block.Statements))
	for _, s := range block.Statements {
		c := *s
		names, normalized := NormalizeNames(s.Names)
		c.Names = names
		if normalized {
			changed = true
		}
		if strategy.Grouped() {
			c.Origin = classifier.Classify(&c)
		}

		// Drop exact duplicates unless they carry comments
		key := c.Key()
		if seen[key] && c.Comment == "" && len(c.Leading) == 0 && !c.HasListComments() {
			changed = true
			continue
		}
		seen[key] = true
		stmts = append(stmts, &c)
	}

	sort.Slice(stmts, func(i, j int) bool {
		return compare(strategy, stmts[i], stmts[j]) < 0
	})

	groups := group(stmts, strategy)
	first := true
	for _, g := range groups {
		for i, s := range g {
			want := !first && i == 0
			if s.BlankBefore != want {
				changed = true
			}
			s.BlankBefore = want
			first = false
		}
	}
	for i := 1; i < len(stmts); i++ {
		if stmts[i].Index < stmts[i-1].Index {
			changed = true
			break
		}
	}

	return Result{Statements: stmts, Groups: groups, Changed: changed}
}

// compare is a total order over statements of one block: the original index
// is unique and is the final tie-break.
func compare(strategy Strategy, a, b *imports.Statement) int {
	// __future__ imports must stay first in a module
	if af, bf := a.IsFuture(), b.IsFuture(); af != bf {
		if af {
			return -1
		}
		return 1
	}

	switch strategy {
	case FromFirst:
		if c := cmp.Compare(kindRank(a.Kind, imports.KindFrom), kindRank(b.Kind, imports.KindFrom)); c != 0 {
			return c
		}
	case ImportFirst:
		if c := cmp.Compare(kindRank(a.Kind, imports.KindImport), kindRank(b.Kind, imports.KindImport)); c != 0 {
			return c
		}
	case Structural:
		if c := cmp.Compare(a.Origin, b.Origin); c != 0 {
			return c
		}
	}

	am, bm := a.Module.String(), b.Module.String()
	if c := strings.Compare(strings.ToLower(am), strings.ToLower(bm)); c != 0 {
		return c
	}
	if c := strings.Compare(am, bm); c != 0 {
		return c
	}
	return cmp.Compare(a.Index, b.Index)
}

func kindRank(k, first imports.Kind) int {
	if k == first {
		return 0
	}
	return 1
}

// group splits sorted statements into blank-line separated groups.
func group(stmts []*imports.Statement, strategy Strategy) [][]*imports.Statement {
	if len(stmts) == 0 {
		return nil
	}
	if !strategy.Grouped() {
		return [][]*imports.Statement{stmts}
	}
	var groups [][]*imports.Statement
	start := 0
	for i := 1; i <= len(stmts); i++ {
		if i == len(stmts) || stmts[i].Origin != stmts[start].Origin {
			groups = append(groups, stmts[start:i])
			start = i
		}
	}
	return groups
}

// NormalizeNames sorts a from-import name list case-insensitively and drops
// exact duplicates that carry no comments. A wildcard list is returned
// untouched. The second result reports whether the list changed.
func NormalizeNames(names []imports.Name) ([]imports.Name, bool) {
	if len(names) == 0 || (len(names) == 1 && names[0].Name == "*") {
		return names, false
	}
	out := make([]imports.Name, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		key := n.String()
		if seen[key] && !n.HasComments() {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return compareNames(out[i], out[j]) < 0
	})

	changed := len(out) != len(names)
	for i := range out {
		if changed || !sameName(out[i], names[i]) {
			changed = true
			break
		}
	}
	return out, changed
}

func sameName(a, b imports.Name) bool {
	return a.Name == b.Name && a.Alias == b.Alias && a.Comment == b.Comment && slices.Equal(a.Leading, b.Leading)
}

func compareNames(a, b imports.Name) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Alias, b.Alias)
}
