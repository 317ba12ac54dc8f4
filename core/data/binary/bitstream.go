// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package binary

// Bits are packed in a least-significant-bit to most-significant-bit order,
// starting with the first word.
const wordBits = 64

// WordCount returns the number of 64 bit words needed to hold count bits.
func WordCount(count int) int {
	return (count + wordBits - 1) / wordBits
}

// PackBools packs v into words, one bit per element.
// Each word is assembled in a register before being stored.
func PackBools(v []bool) []uint64 {
	words := make([]uint64, WordCount(len(v)))
	for i := range words {
		chunk := v[i*wordBits:]
		if len(chunk) > wordBits {
			chunk = chunk[:wordBits]
		}
		word := uint64(0)
		for bit, b := range chunk {
			if b {
				word |= 1 << uint(bit)
			}
		}
		words[i] = word
	}
	return words
}

// UnpackBools is the inverse of PackBools, returning the first count bits of
// words as booleans.
func UnpackBools(words []uint64, count int) []bool {
	out := make([]bool, count)
	for i := range out {
		out[i] = (words[i/wordBits]>>(uint(i)%wordBits))&1 == 1
	}
	return out
}

// WriteBools bit packs v to w as whole little-endian words.
func WriteBools(w Writer, v []bool) {
	for _, word := range PackBools(v) {
		w.Uint64(word)
	}
}

// ReadBools reads count bit packed booleans written by WriteBools from r.
func ReadBools(r Reader, count int) []bool {
	words := make([]uint64, WordCount(count))
	for i := range words {
		words[i] = r.Uint64()
	}
	return UnpackBools(words, count)
}
