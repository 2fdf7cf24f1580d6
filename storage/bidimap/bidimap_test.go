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

package bidimap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetOrInsertIsStable(t *testing.T) {
	m := New()
	a := m.GetOrInsert("Switzerland")
	b := m.GetOrInsert("Germany")
	again := m.GetOrInsert("Switzerland")
	require.Equal(t, a, again)
	require.NotEqual(t, a, b)

	v, ok := m.Value(a)
	require.True(t, ok)
	require.Equal(t, "Switzerland", v)
}

func TestLookupMissing(t *testing.T) {
	m := New()
	m.GetOrInsert("a")
	_, ok := m.Lookup("b")
	require.False(t, ok)
}
