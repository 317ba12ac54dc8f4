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

package stream

import (
	"unicode/utf16"
	"unicode/utf8"

	pod "github.com/google/objgraph/core/data/binary"
	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/vle"
	"github.com/pkg/errors"
)

const (
	lowSurrogateStart = 0xDC00
	surrogateLead     = 0xED
)

// toUTF16 converts s to UTF-16 code units.
// Besides valid UTF-8, s may hold unpaired surrogate code points in their
// three byte form (WTF-8). A high surrogate directly followed by a low one
// has no WTF-8 form and is rejected, as is any other invalid byte.
func toUTF16(s string) ([]uint16, bool) {
	units := make([]uint16, 0, len(s))
	afterHigh := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			c, ok := surrogateAt(s, i)
			if !ok || (afterHigh && c >= lowSurrogateStart) {
				return nil, false
			}
			units = append(units, c)
			afterHigh = c < lowSurrogateStart
			i += 3
			continue
		}
		afterHigh = false
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			units = append(units, uint16(r1), uint16(r2))
		} else {
			units = append(units, uint16(r))
		}
		i += size
	}
	return units, true
}

func surrogateAt(s string, i int) (uint16, bool) {
	if i+3 > len(s) || s[i] != surrogateLead {
		return 0, false
	}
	b1, b2 := s[i+1], s[i+2]
	if b1 < 0xA0 || b1 > 0xBF || b2 < 0x80 || b2 > 0xBF {
		return 0, false
	}
	return 0xD000 | uint16(b1&0x3F)<<6 | uint16(b2&0x3F), true
}

// fromUTF16 is the inverse of toUTF16. Paired surrogates become a single code
// point and unpaired ones keep their three byte form.
func fromUTF16(units []uint16) string {
	b := make([]byte, 0, len(units))
	for i := 0; i < len(units); i++ {
		c := rune(units[i])
		if !utf16.IsSurrogate(c) {
			b = utf8.AppendRune(b, c)
			continue
		}
		if c < lowSurrogateStart && i+1 < len(units) {
			if r := utf16.DecodeRune(c, rune(units[i+1])); r != utf8.RuneError {
				b = utf8.AppendRune(b, r)
				i++
				continue
			}
		}
		b = append(b, surrogateLead, byte(0x80|(c>>6)&0x3F), byte(0x80|c&0x3F))
	}
	return string(b)
}

// writeStringBody writes s in full, without dedup.
func writeStringBody(w pod.Writer, s string) {
	if utf8.ValidString(s) {
		w.Uint8(uint8(binary.TagStringUtf8))
		vle.WriteInt(w, len(s))
		w.Data([]byte(s))
		return
	}
	units, ok := toUTF16(s)
	if !ok {
		w.SetError(errors.Wrapf(binary.ErrInvalidString, "%q", s))
		return
	}
	w.Uint8(uint8(binary.TagStringUtf16))
	vle.WriteInt(w, len(units))
	for _, u := range units {
		w.Uint16(u)
	}
}

// readStringBody reads the payload of a string written in full.
func readStringBody(r pod.Reader, tag binary.Tag) string {
	n := vle.ReadInt(r)
	if r.Error() != nil {
		return ""
	}
	if tag == binary.TagStringUtf8 {
		return string(readBytes(r, n))
	}
	units := make([]uint16, 0, capped(n))
	for i := 0; i < n && r.Error() == nil; i++ {
		units = append(units, r.Uint16())
	}
	return fromUTF16(units)
}

// chunkSize bounds allocations made ahead of reading from the stream, so that
// a corrupt length fails with an EOF rather than a huge allocation.
const chunkSize = 4096

// readBytes reads n bytes from r, growing the buffer as the bytes arrive.
func readBytes(r pod.Reader, n int) []byte {
	b := make([]byte, 0, capped(n))
	for len(b) < n && r.Error() == nil {
		chunk := n - len(b)
		if chunk > chunkSize {
			chunk = chunkSize
		}
		start := len(b)
		b = append(b, make([]byte, chunk)...)
		r.Data(b[start:])
	}
	return b
}

func capped(n int) int {
	if n > chunkSize {
		return chunkSize
	}
	return n
}

// refBits are the widths of the three back-reference forms.
var refBits = [3]int32{8, 16, 32}

// writeRef writes a back-reference to id using the narrowest of the three
// forms whose first tag is first.
func writeRef(w pod.Writer, first binary.Tag, id uint32) {
	width := 2
	switch {
	case id <= 0xff:
		width = 0
	case id <= 0xffff:
		width = 1
	}
	w.Uint8(uint8(first) + uint8(width))
	pod.WriteUint(w, refBits[width], uint64(id))
}

// readRef reads the id of a back-reference whose tag is first+width.
func readRef(r pod.Reader, first, tag binary.Tag) uint32 {
	width := int(tag - first)
	if width > 2 {
		width = 2
	}
	return uint32(pod.ReadUint(r, refBits[width]))
}

func isString(t binary.Tag) bool {
	switch t {
	case binary.TagStringUtf8, binary.TagStringUtf16,
		binary.TagStringRef1, binary.TagStringRef2, binary.TagStringRef4:
		return true
	}
	return false
}
