// Copyright 2020-2021 Dolthub, Inc.
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

// Package lineage implements the closed-world lineage tree: a DAG of
// lineage identifiers with alias resolution, multi-parent (recombinant)
// nodes, cycle detection at load time, and sublineage expansion under
// the three following modes.
package lineage

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/silogenomics/silo/storage/bidimap"
)

// FollowMode controls how far PhyloDescendantOf/LineageEquals's sublineage
// expansion travels across recombinant edges.
type FollowMode int

const (
	DoNotFollow FollowMode = iota
	FollowIfFullyContainedInClade
	AlwaysFollow
)

// definitionEntry mirrors one YAML record of the lineage definition
// file.
type definitionEntry struct {
	LineageName string   `yaml:"lineage_name"`
	Aliases     []string `yaml:"aliases"`
	Parents     []string `yaml:"parents"`
}

// CycleError reports a cycle found while loading a lineage tree, with one
// witness path rendered "a -> b -> ... -> a".
type CycleError struct {
	Witness []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("lineage tree contains a cycle: %s", strings.Join(e.Witness, " -> "))
}

// Tree is the frozen, acyclic lineage graph of one table's lineage
// column.
type Tree struct {
	lookup   *bidimap.Map
	parents  [][]uint32 // parents[child] = []parentID; len>1 means recombinant
	children [][]uint32
	aliasOf  map[uint32]uint32 // alias id -> canonical lineage id
}

// Load parses a lineage definition file (as raw YAML bytes) and builds
// the tree. Fails on an unknown parent, a duplicate lineage/alias, or a
// cycle.
func Load(yamlBytes []byte) (*Tree, error) {
	var entries []definitionEntry
	if err := yaml.Unmarshal(yamlBytes, &entries); err != nil {
		return nil, errors.Wrap(err, "lineage: parsing definition file")
	}
	return build(entries)
}

func build(entries []definitionEntry) (*Tree, error) {
	lookup := bidimap.New()
	for _, e := range entries {
		if _, ok := lookup.Lookup(e.LineageName); ok {
			return nil, errors.Errorf("lineage: duplicate lineage %q", e.LineageName)
		}
		lookup.GetOrInsert(e.LineageName)
	}

	aliasOf := make(map[uint32]uint32)
	for _, e := range entries {
		lineageID, _ := lookup.Lookup(e.LineageName)
		for _, alias := range e.Aliases {
			if _, ok := lookup.Lookup(alias); ok {
				return nil, errors.Errorf("lineage: alias %q for lineage %q collides with an existing lineage or alias", alias, e.LineageName)
			}
			aliasID := lookup.GetOrInsert(alias)
			aliasOf[aliasID] = lineageID
		}
	}

	n := lookup.Len()
	parents := make([][]uint32, n)
	children := make([][]uint32, n)
	var edges [][2]uint32
	for _, e := range entries {
		childID, _ := lookup.Lookup(e.LineageName)
		for _, parentName := range e.Parents {
			parentID, ok := lookup.Lookup(parentName)
			if !ok {
				return nil, errors.Errorf("lineage: lineage %q names undefined parent %q", e.LineageName, parentName)
			}
			if canon, ok := aliasOf[parentID]; ok {
				parentID = canon
			}
			edges = append(edges, [2]uint32{parentID, childID})
			parents[childID] = append(parents[childID], parentID)
			children[parentID] = append(children[parentID], childID)
		}
	}

	if witness := findCycle(n, edges); witness != nil {
		names := make([]string, len(witness))
		for i, id := range witness {
			names[i], _ = lookup.Value(id)
		}
		return nil, &CycleError{Witness: names}
	}

	return &Tree{lookup: lookup, parents: parents, children: children, aliasOf: aliasOf}, nil
}

// findCycle runs an iterative DFS carrying an on-stack flag per node;
// on detecting a back-edge the recursion stack is truncated to the
// cycle, which becomes the witness path.
func findCycle(n int, edges [][2]uint32) []uint32 {
	adjacency := make([][]uint32, n)
	for _, e := range edges {
		adjacency[e[0]] = append(adjacency[e[0]], e[1])
	}

	visited := make([]bool, n)
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		if witness := findCycleFrom(uint32(start), adjacency, visited); witness != nil {
			return witness
		}
	}
	return nil
}

func findCycleFrom(start uint32, adjacency [][]uint32, visited []bool) []uint32 {
	n := len(adjacency)
	inStack := make([]bool, n)
	var stack []uint32
	stack = append(stack, start)
	inStack[start] = true
	visited[start] = true

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		backtrack := true
		for _, next := range adjacency[current] {
			if inStack[next] {
				stack = append(stack, next)
				cycleStart := indexOf(stack, next)
				return append([]uint32(nil), stack[cycleStart:]...)
			}
			if !visited[next] {
				backtrack = false
				visited[next] = true
				inStack[next] = true
				stack = append(stack, next)
				break
			}
		}
		if backtrack {
			inStack[current] = false
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}

func indexOf(s []uint32, v uint32) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// Resolve maps a lineage name or alias to its canonical dictionary id.
func (t *Tree) Resolve(name string) (uint32, bool) {
	id, ok := t.lookup.Lookup(name)
	if !ok {
		return 0, false
	}
	if canon, ok := t.aliasOf[id]; ok {
		return canon, true
	}
	return id, true
}

// Name returns the canonical name for a lineage id.
func (t *Tree) Name(id uint32) (string, bool) {
	return t.lookup.Value(id)
}

// Ancestors returns every ancestor of id (not including id itself) under
// the given follow mode.
func (t *Tree) Ancestors(id uint32, mode FollowMode) []uint32 {
	visited := map[uint32]bool{id: true}
	var out []uint32
	var visit func(node uint32)
	visit = func(node uint32) {
		for _, parent := range t.parents[node] {
			if t.isRecombinant(node) && !t.crossesEdge(node, parent, mode) {
				continue
			}
			if visited[parent] {
				continue
			}
			visited[parent] = true
			out = append(out, parent)
			visit(parent)
		}
	}
	visit(id)
	return out
}

func (t *Tree) isRecombinant(node uint32) bool {
	return len(t.parents[node]) > 1
}

// crossesEdge decides whether the parent->node edge may be followed when
// node is a recombinant, per the chosen FollowMode.
func (t *Tree) crossesEdge(node, parent uint32, mode FollowMode) bool {
	switch mode {
	case AlwaysFollow:
		return true
	case DoNotFollow:
		return false
	case FollowIfFullyContainedInClade:
		// The edge is crossed only when every other parent of the
		// recombinant descends from the parent being visited, i.e. the
		// whole parent set lies inside the clade.
		return t.allParentsReachableThrough(node, parent)
	default:
		return false
	}
}

func (t *Tree) allParentsReachableThrough(node, throughParent uint32) bool {
	for _, p := range t.parents[node] {
		if p == throughParent {
			continue
		}
		if !t.isAncestorOrSelf(p, throughParent) {
			return false
		}
	}
	return true
}

func (t *Tree) isAncestorOrSelf(candidate, of uint32) bool {
	if candidate == of {
		return true
	}
	for _, ancestor := range t.Ancestors(of, AlwaysFollow) {
		if ancestor == candidate {
			return true
		}
	}
	return false
}

// Descendants returns every descendant of id (not including id) under
// the given follow mode: the inverse traversal used to expand "include
// sublineages" for LineageEquals.
func (t *Tree) Descendants(id uint32, mode FollowMode) []uint32 {
	visited := map[uint32]bool{id: true}
	var out []uint32
	var visit func(node uint32)
	visit = func(node uint32) {
		for _, child := range t.children[node] {
			if t.isRecombinant(child) && !t.crossesEdge(child, node, mode) {
				continue
			}
			if visited[child] {
				continue
			}
			visited[child] = true
			out = append(out, child)
			visit(child)
		}
	}
	visit(id)
	return out
}
