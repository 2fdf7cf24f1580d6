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

package bio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNucleotideRoundTrip(t *testing.T) {
	for _, c := range []byte("ACGT-RYSWKMBDHVN") {
		s, ok := Nucleotide.FromLetter(c)
		require.True(t, ok, "letter %c", c)
		require.Equal(t, c, Nucleotide.Letter(s))
	}
}

func TestAminoAcidRoundTrip(t *testing.T) {
	for _, c := range []byte("ACDEFGHIKLMNPQRSTVWY-*BZX") {
		s, ok := AminoAcid.FromLetter(c)
		require.True(t, ok, "letter %c", c)
		require.Equal(t, c, AminoAcid.Letter(s))
	}
}

func TestAmbiguityCodesFor(t *testing.T) {
	codes := Nucleotide.AmbiguityCodesFor(NucA)
	require.Contains(t, codes, NucR)
	require.Contains(t, codes, NucW)
	require.Contains(t, codes, NucM)
	require.Contains(t, codes, NucD)
	require.Contains(t, codes, NucH)
	require.Contains(t, codes, NucV)
	require.Contains(t, codes, NucN)
	require.NotContains(t, codes, NucY)
}

func TestAminoAcidAmbiguityX(t *testing.T) {
	codes := AminoAcid.AmbiguityCodesFor(AaD)
	require.Contains(t, codes, AaB)
	require.Contains(t, codes, AaX)
}

func TestIsAmbiguityCode(t *testing.T) {
	require.True(t, Nucleotide.IsAmbiguityCode(NucN))
	require.False(t, Nucleotide.IsAmbiguityCode(NucA))
}
