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
	"reflect"
	"time"

	pod "github.com/google/objgraph/core/data/binary"
	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/variant"
	"github.com/google/objgraph/framework/binary/vle"
)

// elementTags maps the kind of a primitive element type to the tag that
// describes it in an array header.
var elementTags = map[variant.Kind]binary.Tag{
	variant.KindBool:     binary.TagBooleanType,
	variant.KindInt8:     binary.TagInt8,
	variant.KindUint8:    binary.TagUint8,
	variant.KindInt16:    binary.TagInt16,
	variant.KindUint16:   binary.TagUint16,
	variant.KindInt32:    binary.TagInt32,
	variant.KindUint32:   binary.TagUint32,
	variant.KindInt64:    binary.TagInt64,
	variant.KindUint64:   binary.TagUint64,
	variant.KindFloat32:  binary.TagFloat32,
	variant.KindFloat64:  binary.TagFloat64,
	variant.KindDecimal:  binary.TagDecimal,
	variant.KindDateTime: binary.TagDateTime,
	variant.KindChar:     binary.TagChar,
	variant.KindString:   binary.TagStringType,
}

// elementTypes is the Go element type a primitive array is read back as.
var elementTypes = map[binary.Tag]reflect.Type{
	binary.TagBooleanType: reflect.TypeOf(false),
	binary.TagInt8:        reflect.TypeOf(int8(0)),
	binary.TagUint8:       reflect.TypeOf(uint8(0)),
	binary.TagInt16:       reflect.TypeOf(int16(0)),
	binary.TagUint16:      reflect.TypeOf(uint16(0)),
	binary.TagInt32:       reflect.TypeOf(int32(0)),
	binary.TagUint32:      reflect.TypeOf(uint32(0)),
	binary.TagInt64:       reflect.TypeOf(int64(0)),
	binary.TagUint64:      reflect.TypeOf(uint64(0)),
	binary.TagFloat32:     reflect.TypeOf(float32(0)),
	binary.TagFloat64:     reflect.TypeOf(float64(0)),
	binary.TagDecimal:     reflect.TypeOf(binary.Decimal{}),
	binary.TagDateTime:    reflect.TypeOf(time.Time{}),
	binary.TagChar:        reflect.TypeOf(binary.Char(0)),
	binary.TagStringType:  reflect.TypeOf(""),
}

// isMultiDimensional returns true if t, or the element type of any array or
// slice nested in t, is a Go array of Go arrays.
func isMultiDimensional(t reflect.Type) bool {
	for t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		if t.Kind() == reflect.Array && t.Elem().Kind() == reflect.Array {
			return true
		}
		t = t.Elem()
	}
	return false
}

func writeArrayLength(w pod.Writer, n int) {
	if n <= 3 {
		w.Uint8(uint8(binary.TagArray0) + uint8(n))
		return
	}
	w.Uint8(uint8(binary.TagArray))
	vle.WriteInt(w, n)
}

func writeDecimal(w pod.Writer, d binary.Decimal) {
	if _, err := binary.DecimalFromBits(d.Lo, d.Hi, d.Flags()); err != nil {
		w.SetError(err)
		return
	}
	w.Uint64(d.Lo)
	w.Uint32(d.Hi)
	w.Uint32(d.Flags())
}

func readDecimal(r pod.Reader) binary.Decimal {
	lo, hi, flags := r.Uint64(), r.Uint32(), r.Uint32()
	d, err := binary.DecimalFromBits(lo, hi, flags)
	if err != nil {
		r.SetError(err)
	}
	return d
}

func writeDateTime(w pod.Writer, t time.Time) {
	w.Int64(t.Unix())
	w.Uint32(uint32(t.Nanosecond()))
}

func readDateTime(r pod.Reader) time.Time {
	sec, nsec := r.Int64(), r.Uint32()
	return time.Unix(sec, int64(nsec)).UTC()
}

// writePrimitiveElements writes the elements of the array or slice a without
// tags. Strings are the exception: each one is written as a string value so
// that it takes part in dedup.
func (w *Writer) writePrimitiveElements(a reflect.Value, tag binary.Tag) {
	n := a.Len()
	switch tag {
	case binary.TagUint8:
		if a.Kind() == reflect.Slice {
			w.w.Data(a.Bytes())
			return
		}
		b := make([]byte, n)
		reflect.Copy(reflect.ValueOf(b), a)
		w.w.Data(b)
		return
	case binary.TagBooleanType:
		bools := make([]bool, n)
		for i := range bools {
			bools[i] = a.Index(i).Bool()
		}
		pod.WriteBools(w.w, bools)
		return
	}
	for i := 0; i < n && w.w.Error() == nil; i++ {
		e := a.Index(i)
		switch tag {
		case binary.TagInt8:
			w.w.Int8(int8(e.Int()))
		case binary.TagInt16:
			w.w.Int16(int16(e.Int()))
		case binary.TagUint16, binary.TagChar:
			w.w.Uint16(uint16(e.Uint()))
		case binary.TagInt32:
			w.w.Int32(int32(e.Int()))
		case binary.TagUint32:
			w.w.Uint32(uint32(e.Uint()))
		case binary.TagInt64:
			w.w.Int64(e.Int())
		case binary.TagUint64:
			w.w.Uint64(e.Uint())
		case binary.TagFloat32:
			w.w.Float32(float32(e.Float()))
		case binary.TagFloat64:
			w.w.Float64(e.Float())
		case binary.TagDecimal:
			writeDecimal(w.w, e.Interface().(binary.Decimal))
		case binary.TagDateTime:
			writeDateTime(w.w, e.Interface().(time.Time))
		case binary.TagStringType:
			w.String(e.String())
		}
	}
}

// readPrimitiveElements reads n untagged elements described by tag.
func (r *Reader) readPrimitiveElements(tag binary.Tag, n int) (interface{}, error) {
	switch tag {
	case binary.TagUint8:
		return readBytes(r.r, n), r.r.Error()
	case binary.TagBooleanType:
		words := make([]uint64, 0, capped(pod.WordCount(n)))
		for i := 0; i < pod.WordCount(n) && r.r.Error() == nil; i++ {
			words = append(words, r.r.Uint64())
		}
		if err := r.r.Error(); err != nil {
			return nil, err
		}
		return pod.UnpackBools(words, n), nil
	case binary.TagStringType:
		out := make([]string, 0, capped(n))
		for i := 0; i < n && r.r.Error() == nil; i++ {
			s, err := r.readString()
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, r.r.Error()
	}
	elem, ok := elementTypes[tag]
	if !ok {
		return nil, binary.ErrUnexpectedTag{Tag: tag}
	}
	out := reflect.MakeSlice(reflect.SliceOf(elem), 0, capped(n))
	for i := 0; i < n && r.r.Error() == nil; i++ {
		var v interface{}
		switch tag {
		case binary.TagInt8:
			v = r.r.Int8()
		case binary.TagInt16:
			v = r.r.Int16()
		case binary.TagUint16:
			v = r.r.Uint16()
		case binary.TagChar:
			v = binary.Char(r.r.Uint16())
		case binary.TagInt32:
			v = r.r.Int32()
		case binary.TagUint32:
			v = r.r.Uint32()
		case binary.TagInt64:
			v = r.r.Int64()
		case binary.TagUint64:
			v = r.r.Uint64()
		case binary.TagFloat32:
			v = r.r.Float32()
		case binary.TagFloat64:
			v = r.r.Float64()
		case binary.TagDecimal:
			v = readDecimal(r.r)
		case binary.TagDateTime:
			v = readDateTime(r.r)
		}
		out = reflect.Append(out, reflect.ValueOf(v))
	}
	if err := r.r.Error(); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

// readType returns the type that values of type t read back as. Go arrays
// read back as slices, and int and uint as their 64 bit forms.
func readType(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Array, reflect.Slice:
		return reflect.SliceOf(readType(t.Elem()))
	}
	if tag, ok := elementTags[variant.PrimitiveKind(t)]; ok {
		return elementTypes[tag]
	}
	return t
}

// buildArray assembles the members of an array frame into a slice of elem.
func buildArray(elem reflect.Type, children []variant.Variant) (interface{}, error) {
	out := reflect.MakeSlice(reflect.SliceOf(elem), len(children), len(children))
	for i, c := range children {
		v := c.Value()
		if v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		if !rv.Type().AssignableTo(elem) {
			return nil, binary.ErrKindMismatch{
				Want: elem.String(),
				Got:  rv.Type().String(),
			}
		}
		out.Index(i).Set(rv)
	}
	return out.Interface(), nil
}
