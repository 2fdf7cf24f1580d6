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

// Package bio declares the nucleotide and amino-acid alphabets and the
// IUPAC ambiguity expansion tables.
package bio

// Symbol is a dense index into a sequence column's per-position symbol
// bitmap array.
type Symbol uint8

// Nucleotide symbols, including the gap and every IUPAC ambiguity code.
const (
	NucA Symbol = iota
	NucC
	NucG
	NucT
	NucGap // '-'
	NucR
	NucY
	NucS
	NucW
	NucK
	NucM
	NucB
	NucD
	NucH
	NucV
	NucN
	nucCount
)

var nucleotideLetters = [nucCount]byte{
	NucA: 'A', NucC: 'C', NucG: 'G', NucT: 'T', NucGap: '-',
	NucR: 'R', NucY: 'Y', NucS: 'S', NucW: 'W', NucK: 'K', NucM: 'M',
	NucB: 'B', NucD: 'D', NucH: 'H', NucV: 'V', NucN: 'N',
}

var nucleotideFromLetter map[byte]Symbol

// Amino-acid symbols, including gap, stop, and the three ambiguity codes.
const (
	AaA Symbol = iota
	AaC
	AaD
	AaE
	AaF
	AaG
	AaH
	AaI
	AaK
	AaL
	AaM
	AaN
	AaP
	AaQ
	AaR
	AaS
	AaT
	AaV
	AaW
	AaY
	AaGap  // '-'
	AaStop // '*'
	AaB
	AaZ
	AaX
	aaCount
)

var aminoAcidLetters = [aaCount]byte{
	AaA: 'A', AaC: 'C', AaD: 'D', AaE: 'E', AaF: 'F', AaG: 'G', AaH: 'H',
	AaI: 'I', AaK: 'K', AaL: 'L', AaM: 'M', AaN: 'N', AaP: 'P', AaQ: 'Q',
	AaR: 'R', AaS: 'S', AaT: 'T', AaV: 'V', AaW: 'W', AaY: 'Y',
	AaGap: '-', AaStop: '*', AaB: 'B', AaZ: 'Z', AaX: 'X',
}

var aminoAcidFromLetter map[byte]Symbol

func init() {
	nucleotideFromLetter = make(map[byte]Symbol, nucCount)
	for s, c := range nucleotideLetters {
		nucleotideFromLetter[c] = Symbol(s)
	}
	nucleotideFromLetter['.'] = NucGap // placeholder, overridden per-position by reference lookup

	aminoAcidFromLetter = make(map[byte]Symbol, aaCount)
	for s, c := range aminoAcidLetters {
		aminoAcidFromLetter[c] = Symbol(s)
	}
}

// Alphabet distinguishes the two biological sequence domains the store
// supports.
type Alphabet int

const (
	Nucleotide Alphabet = iota
	AminoAcid
)

// Size returns the number of distinct symbols in the alphabet.
func (a Alphabet) Size() int {
	if a == Nucleotide {
		return int(nucCount)
	}
	return int(aaCount)
}

// Letter returns the one-character representation of a symbol.
func (a Alphabet) Letter(s Symbol) byte {
	if a == Nucleotide {
		return nucleotideLetters[s]
	}
	return aminoAcidLetters[s]
}

// FromLetter maps a one-character representation to a Symbol. ok is false
// for unrecognised characters.
func (a Alphabet) FromLetter(c byte) (Symbol, bool) {
	if a == Nucleotide {
		s, ok := nucleotideFromLetter[c]
		return s, ok
	}
	s, ok := aminoAcidFromLetter[c]
	return s, ok
}

// MissingSymbol returns the fully-ambiguous "unknown" symbol of the
// alphabet (N for nucleotides, X for amino acids) used by
// HasMutation's "reference or unknown" exclusion.
func (a Alphabet) MissingSymbol() Symbol {
	if a == Nucleotide {
		return NucN
	}
	return AaX
}

// GapSymbol returns the deletion symbol of the alphabet.
func (a Alphabet) GapSymbol() Symbol {
	if a == Nucleotide {
		return NucGap
	}
	return AaGap
}

// nucleotideAmbiguity maps every IUPAC ambiguity code to the set of base
// symbols it stands for.
var nucleotideAmbiguity = map[Symbol][]Symbol{
	NucR: {NucA, NucG},
	NucY: {NucC, NucT},
	NucS: {NucG, NucC},
	NucW: {NucA, NucT},
	NucK: {NucG, NucT},
	NucM: {NucA, NucC},
	NucB: {NucC, NucG, NucT},
	NucD: {NucA, NucG, NucT},
	NucH: {NucA, NucC, NucT},
	NucV: {NucA, NucC, NucG},
	NucN: {NucA, NucC, NucG, NucT},
}

var aminoAcidAmbiguity = map[Symbol][]Symbol{
	AaB: {AaD, AaN},
	AaZ: {AaQ, AaE},
	AaX: {AaA, AaC, AaD, AaE, AaF, AaG, AaH, AaI, AaK, AaL, AaM, AaN, AaP,
		AaQ, AaR, AaS, AaT, AaV, AaW, AaY},
}

// AmbiguityCodesFor returns every ambiguity code of the alphabet whose
// expansion includes s. Used to compile the UPPER_BOUND ambiguity mode
// : a query for symbol s additionally matches every
// code in this list.
func (a Alphabet) AmbiguityCodesFor(s Symbol) []Symbol {
	table := nucleotideAmbiguity
	if a == AminoAcid {
		table = aminoAcidAmbiguity
	}
	var codes []Symbol
	for code, expansion := range table {
		for _, base := range expansion {
			if base == s {
				codes = append(codes, code)
				break
			}
		}
	}
	return codes
}

// IsAmbiguityCode reports whether s is an ambiguity code (as opposed to a
// concrete base symbol) in the alphabet.
func (a Alphabet) IsAmbiguityCode(s Symbol) bool {
	table := nucleotideAmbiguity
	if a == AminoAcid {
		table = aminoAcidAmbiguity
	}
	_, ok := table[s]
	return ok
}
