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

package vle

import (
	pod "github.com/google/objgraph/core/data/binary"
	"github.com/google/objgraph/core/fault"
	"github.com/google/objgraph/framework/binary"
	"github.com/pkg/errors"
)

// Max is the largest value that can be encoded.
const Max = 0x3FFFFFFF

const (
	max1 = 0x3F
	max2 = 0x3FFF

	prefix2 = 0x40
	prefix4 = 0x80
)

// ErrInvalidPrefix is set when a compressed integer starts with the reserved
// width prefix.
const ErrInvalidPrefix = fault.Const("Invalid compressed integer prefix")

// Size returns the number of bytes used to encode v.
func Size(v uint32) (int, error) {
	switch {
	case v <= max1:
		return 1, nil
	case v <= max2:
		return 2, nil
	case v <= Max:
		return 4, nil
	default:
		return 0, errors.Wrapf(binary.ErrTooLarge, "%d (0x%x)", v, v)
	}
}

// Write encodes v to w. If v is larger than Max the error is set on w and
// nothing is written.
func Write(w pod.Writer, v uint32) {
	size, err := Size(v)
	if err != nil {
		w.SetError(err)
		return
	}
	var tmp [4]byte
	switch size {
	case 1:
		tmp[0] = byte(v)
	case 2:
		tmp[0] = prefix2 | byte(v>>8)
		tmp[1] = byte(v)
	case 4:
		tmp[0] = prefix4 | byte(v>>24)
		tmp[1] = byte(v >> 16)
		tmp[2] = byte(v >> 8)
		tmp[3] = byte(v)
	}
	w.Data(tmp[:size])
}

// WriteInt encodes the non-negative int v to w.
func WriteInt(w pod.Writer, v int) {
	if v < 0 || v > Max {
		w.SetError(errors.Wrapf(binary.ErrTooLarge, "%d", v))
		return
	}
	Write(w, uint32(v))
}

// Read decodes a value written by Write from r.
func Read(r pod.Reader) uint32 {
	first := r.Uint8()
	switch first >> 6 {
	case 0:
		return uint32(first)
	case 1:
		return uint32(first&max1)<<8 | uint32(r.Uint8())
	case 2:
		var tmp [3]byte
		r.Data(tmp[:])
		return uint32(first&max1)<<24 | uint32(tmp[0])<<16 | uint32(tmp[1])<<8 | uint32(tmp[2])
	default:
		r.SetError(errors.Wrapf(ErrInvalidPrefix, "first byte 0x%.2x", first))
		return 0
	}
}

// ReadInt decodes a value written by Write from r as an int.
func ReadInt(r pod.Reader) int {
	return int(Read(r))
}
