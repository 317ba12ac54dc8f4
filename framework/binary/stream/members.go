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
	"context"
	"reflect"
	"time"

	"github.com/google/objgraph/core/fault"
	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/variant"
)

// members is the binary.Encoder handed to a WriteFunc. It collects the
// members of one object so their count is known before they are written.
type members struct {
	ctx  context.Context
	list []variant.Variant
	err  fault.One
}

var _ binary.Encoder = &members{}

func (m *members) add(v variant.Variant) {
	if !m.err.Failed() {
		m.list = append(m.list, v)
	}
}

func (m *members) Context() context.Context     { return m.ctx }
func (m *members) Bool(v bool)                  { m.add(variant.Bool(v)) }
func (m *members) Int8(v int8)                  { m.add(variant.Int8(v)) }
func (m *members) Uint8(v uint8)                { m.add(variant.Uint8(v)) }
func (m *members) Int16(v int16)                { m.add(variant.Int16(v)) }
func (m *members) Uint16(v uint16)              { m.add(variant.Uint16(v)) }
func (m *members) Int32(v int32)                { m.add(variant.Int32(v)) }
func (m *members) Uint32(v uint32)              { m.add(variant.Uint32(v)) }
func (m *members) Int64(v int64)                { m.add(variant.Int64(v)) }
func (m *members) Uint64(v uint64)              { m.add(variant.Uint64(v)) }
func (m *members) Float32(v float32)            { m.add(variant.Float32(v)) }
func (m *members) Float64(v float64)            { m.add(variant.Float64(v)) }
func (m *members) Decimal(v binary.Decimal)     { m.add(variant.Decimal(v)) }
func (m *members) Char(v binary.Char)           { m.add(variant.Char(v)) }
func (m *members) Time(v time.Time)             { m.add(variant.DateTime(v)) }
func (m *members) String(v string)              { m.add(variant.String(v)) }
func (m *members) Type(v reflect.Type)          { m.add(variant.Type(v)) }
func (m *members) Error() error                 { return m.err.First() }
func (m *members) SetError(err error)           { m.err.Collect(err) }

func (m *members) Value(v interface{}) {
	vv, err := variant.FromValue(v)
	if err != nil {
		m.SetError(err)
		return
	}
	m.add(vv)
}

// errorState is the sticky error store of a decoder.
type errorState interface {
	Error() error
	SetError(error)
}

type sticky struct{ fault.One }

func (s *sticky) Error() error       { return s.First() }
func (s *sticky) SetError(err error) { s.Collect(err) }

// values implements the typed accessors of binary.Decoder over a source of
// variants.
type values struct {
	ctx  context.Context
	errs errorState
	next func() (variant.Variant, bool)
}

func (d *values) take(want variant.Kind) (variant.Variant, bool) {
	if d.errs.Error() != nil {
		return variant.Variant{}, false
	}
	v, ok := d.next()
	if !ok {
		return variant.Variant{}, false
	}
	if v.Kind() != want {
		d.errs.SetError(binary.ErrKindMismatch{Want: want.String(), Got: v.Kind().String()})
		return variant.Variant{}, false
	}
	return v, true
}

func (d *values) Context() context.Context { return d.ctx }
func (d *values) Error() error             { return d.errs.Error() }
func (d *values) SetError(err error)       { d.errs.SetError(err) }

func (d *values) Bool() bool {
	v, ok := d.take(variant.KindBool)
	return ok && v.AsBool()
}

func (d *values) Int8() int8 {
	if v, ok := d.take(variant.KindInt8); ok {
		return v.AsInt8()
	}
	return 0
}

func (d *values) Uint8() uint8 {
	if v, ok := d.take(variant.KindUint8); ok {
		return v.AsUint8()
	}
	return 0
}

func (d *values) Int16() int16 {
	if v, ok := d.take(variant.KindInt16); ok {
		return v.AsInt16()
	}
	return 0
}

func (d *values) Uint16() uint16 {
	if v, ok := d.take(variant.KindUint16); ok {
		return v.AsUint16()
	}
	return 0
}

func (d *values) Int32() int32 {
	if v, ok := d.take(variant.KindInt32); ok {
		return v.AsInt32()
	}
	return 0
}

func (d *values) Uint32() uint32 {
	if v, ok := d.take(variant.KindUint32); ok {
		return v.AsUint32()
	}
	return 0
}

func (d *values) Int64() int64 {
	if v, ok := d.take(variant.KindInt64); ok {
		return v.AsInt64()
	}
	return 0
}

func (d *values) Uint64() uint64 {
	if v, ok := d.take(variant.KindUint64); ok {
		return v.AsUint64()
	}
	return 0
}

func (d *values) Float32() float32 {
	if v, ok := d.take(variant.KindFloat32); ok {
		return v.AsFloat32()
	}
	return 0
}

func (d *values) Float64() float64 {
	if v, ok := d.take(variant.KindFloat64); ok {
		return v.AsFloat64()
	}
	return 0
}

func (d *values) Decimal() binary.Decimal {
	if v, ok := d.take(variant.KindDecimal); ok {
		return v.AsDecimal()
	}
	return binary.Decimal{}
}

func (d *values) Char() binary.Char {
	if v, ok := d.take(variant.KindChar); ok {
		return v.AsChar()
	}
	return 0
}

func (d *values) Time() time.Time {
	if v, ok := d.take(variant.KindDateTime); ok {
		return v.AsDateTime()
	}
	return time.Time{}
}

func (d *values) String() string {
	if v, ok := d.take(variant.KindString); ok {
		return v.AsString()
	}
	return ""
}

// Type returns the next member as a type. A null member is a nil type.
func (d *values) Type() reflect.Type {
	v := d.Variant()
	switch v.Kind() {
	case variant.KindType:
		return v.AsType()
	case variant.KindNull, variant.KindNone:
	default:
		d.errs.SetError(binary.ErrKindMismatch{Want: variant.KindType.String(), Got: v.Kind().String()})
	}
	return nil
}

// Value returns the next member whatever its kind.
func (d *values) Value() interface{} {
	return d.Variant().Value()
}

// Variant returns the next member as a Variant. It returns a Variant of
// KindNone once an error has been set.
func (d *values) Variant() variant.Variant {
	if d.errs.Error() != nil {
		return variant.Variant{}
	}
	v, _ := d.next()
	return v
}

// memberDecoder is the binary.Decoder handed to a ReadFunc.
type memberDecoder struct {
	values
	list  []variant.Variant
	pos   int
	reads int
}

var _ binary.Decoder = &memberDecoder{}

func newMemberDecoder(ctx context.Context, list []variant.Variant) *memberDecoder {
	d := &memberDecoder{list: list}
	d.values = values{ctx: ctx, errs: &sticky{}, next: d.pop}
	return d
}

func (d *memberDecoder) pop() (variant.Variant, bool) {
	d.reads++
	if d.pos >= len(d.list) {
		return variant.Variant{}, false
	}
	v := d.list[d.pos]
	d.pos++
	return v, true
}

func (d *memberDecoder) Count() int { return len(d.list) }
