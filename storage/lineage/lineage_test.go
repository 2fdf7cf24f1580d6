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

package lineage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `
- lineage_name: B
- lineage_name: B.1
  parents: [B]
- lineage_name: B.1.1
  aliases: [BB]
  parents: [B.1]
- lineage_name: B.1.1.7
  parents: [B.1.1]
`

func TestLoadBuildsAncestorsAndDescendants(t *testing.T) {
	tree, err := Load([]byte(sample))
	require.NoError(t, err)

	b11, ok := tree.Resolve("B.1.1")
	require.True(t, ok)
	b, _ := tree.Resolve("B")
	b1, _ := tree.Resolve("B.1")

	ancestors := tree.Ancestors(b11, AlwaysFollow)
	require.ElementsMatch(t, []uint32{b, b1}, ancestors)

	b117, _ := tree.Resolve("B.1.1.7")
	descendants := tree.Descendants(b1, AlwaysFollow)
	require.ElementsMatch(t, []uint32{b11, b117}, descendants)
}

func TestAliasResolvesToCanonical(t *testing.T) {
	tree, err := Load([]byte(sample))
	require.NoError(t, err)

	viaAlias, ok := tree.Resolve("BB")
	require.True(t, ok)
	viaName, _ := tree.Resolve("B.1.1")
	require.Equal(t, viaName, viaAlias)
}

func TestDuplicateLineageFails(t *testing.T) {
	_, err := Load([]byte(`
- lineage_name: B
- lineage_name: B
`))
	require.Error(t, err)
}

func TestUndefinedParentFails(t *testing.T) {
	_, err := Load([]byte(`
- lineage_name: B.1
  parents: [B]
`))
	require.Error(t, err)
}

func TestAliasCollisionFails(t *testing.T) {
	_, err := Load([]byte(`
- lineage_name: B
- lineage_name: B.1
  aliases: [B]
  parents: [B]
`))
	require.Error(t, err)
}

func TestCycleDetectionReportsWitness(t *testing.T) {
	_, err := Load([]byte(`
- lineage_name: A
  parents: [C]
- lineage_name: B
  parents: [A]
- lineage_name: C
  parents: [B]
`))
	require.Error(t, err)
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	require.Len(t, cycleErr.Witness, 4) // a -> b -> c -> a
}

func TestRecombinantFollowModes(t *testing.T) {
	// X is a recombinant of A and B; A and B are both children of ROOT.
	tree, err := Load([]byte(`
- lineage_name: ROOT
- lineage_name: A
  parents: [ROOT]
- lineage_name: B
  parents: [ROOT]
- lineage_name: X
  parents: [A, B]
`))
	require.NoError(t, err)

	x, _ := tree.Resolve("X")
	root, _ := tree.Resolve("ROOT")

	require.Empty(t, tree.Ancestors(x, DoNotFollow))
	require.Contains(t, tree.Ancestors(x, AlwaysFollow), root)
	require.Contains(t, tree.Ancestors(x, FollowIfFullyContainedInClade), root)
}
