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

// Package variant holds the tagged union used to move values between the
// stream writer and reader and the objects they encode.
package variant

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/objgraph/framework/binary"
)

// Kind is the discriminant of a Variant.
type Kind uint8

const (
	KindNone Kind = iota
	KindNull
	KindBool
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindDecimal
	KindChar
	KindString
	KindDateTime
	KindType
	KindArray
	KindObject
	KindEnum
)

var kindNames = [...]string{
	KindNone:     "None",
	KindNull:     "Null",
	KindBool:     "Bool",
	KindInt8:     "Int8",
	KindUint8:    "Uint8",
	KindInt16:    "Int16",
	KindUint16:   "Uint16",
	KindInt32:    "Int32",
	KindUint32:   "Uint32",
	KindInt64:    "Int64",
	KindUint64:   "Uint64",
	KindFloat32:  "Float32",
	KindFloat64:  "Float64",
	KindDecimal:  "Decimal",
	KindChar:     "Char",
	KindString:   "String",
	KindDateTime: "DateTime",
	KindType:     "Type",
	KindArray:    "Array",
	KindObject:   "Object",
	KindEnum:     "Enum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Variant is a single serializable value. Scalars are held in bits and hi
// without boxing; strings, types, arrays, objects and enums are held in ref.
//
// The zero Variant has KindNone.
type Variant struct {
	kind Kind
	bits uint64
	hi   uint64
	ref  interface{}
}

func Null() Variant             { return Variant{kind: KindNull} }
func Int8(v int8) Variant       { return Variant{kind: KindInt8, bits: uint64(v)} }
func Uint8(v uint8) Variant     { return Variant{kind: KindUint8, bits: uint64(v)} }
func Int16(v int16) Variant     { return Variant{kind: KindInt16, bits: uint64(v)} }
func Uint16(v uint16) Variant   { return Variant{kind: KindUint16, bits: uint64(v)} }
func Int32(v int32) Variant     { return Variant{kind: KindInt32, bits: uint64(v)} }
func Uint32(v uint32) Variant   { return Variant{kind: KindUint32, bits: uint64(v)} }
func Int64(v int64) Variant     { return Variant{kind: KindInt64, bits: uint64(v)} }
func Uint64(v uint64) Variant   { return Variant{kind: KindUint64, bits: v} }
func Float32(v float32) Variant { return Variant{kind: KindFloat32, bits: uint64(math.Float32bits(v))} }
func Float64(v float64) Variant { return Variant{kind: KindFloat64, bits: math.Float64bits(v)} }
func Char(v binary.Char) Variant {
	return Variant{kind: KindChar, bits: uint64(v)}
}
func String(v string) Variant { return Variant{kind: KindString, ref: v} }

func Bool(v bool) Variant {
	if v {
		return Variant{kind: KindBool, bits: 1}
	}
	return Variant{kind: KindBool}
}

func Decimal(v binary.Decimal) Variant {
	return Variant{kind: KindDecimal, bits: v.Lo, hi: uint64(v.Hi)<<32 | uint64(v.Flags())}
}

// DateTime holds t to nanosecond precision. The location is not kept.
func DateTime(t time.Time) Variant {
	return Variant{kind: KindDateTime, bits: uint64(t.Unix()), hi: uint64(t.Nanosecond())}
}

// Type holds a type. A nil type is held as null.
func Type(t reflect.Type) Variant {
	if t == nil {
		return Null()
	}
	return Variant{kind: KindType, ref: t}
}

// Array holds a slice or rank-1 Go array.
func Array(v interface{}) Variant { return Variant{kind: KindArray, ref: v} }

// Object holds a value that is written by a binder.
func Object(v interface{}) Variant { return Variant{kind: KindObject, ref: v} }

// Enum holds a value of a named integer type.
func Enum(v interface{}) Variant {
	r := reflect.ValueOf(v)
	bits := uint64(0)
	switch r.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bits = uint64(r.Int())
	default:
		bits = r.Uint()
	}
	return Variant{kind: KindEnum, bits: bits, ref: v}
}

// Kind returns the discriminant of v.
func (v Variant) Kind() Kind { return v.kind }

// IsNull returns true if v holds null.
func (v Variant) IsNull() bool { return v.kind == KindNull }

func (v Variant) check(k Kind) {
	if v.kind != k {
		panic(binary.ErrKindMismatch{Want: k.String(), Got: v.kind.String()})
	}
}

func (v Variant) AsBool() bool       { v.check(KindBool); return v.bits != 0 }
func (v Variant) AsInt8() int8       { v.check(KindInt8); return int8(v.bits) }
func (v Variant) AsUint8() uint8     { v.check(KindUint8); return uint8(v.bits) }
func (v Variant) AsInt16() int16     { v.check(KindInt16); return int16(v.bits) }
func (v Variant) AsUint16() uint16   { v.check(KindUint16); return uint16(v.bits) }
func (v Variant) AsInt32() int32     { v.check(KindInt32); return int32(v.bits) }
func (v Variant) AsUint32() uint32   { v.check(KindUint32); return uint32(v.bits) }
func (v Variant) AsInt64() int64     { v.check(KindInt64); return int64(v.bits) }
func (v Variant) AsUint64() uint64   { v.check(KindUint64); return v.bits }
func (v Variant) AsFloat32() float32 { v.check(KindFloat32); return math.Float32frombits(uint32(v.bits)) }
func (v Variant) AsFloat64() float64 { v.check(KindFloat64); return math.Float64frombits(v.bits) }
func (v Variant) AsChar() binary.Char {
	v.check(KindChar)
	return binary.Char(v.bits)
}
func (v Variant) AsString() string { v.check(KindString); return v.ref.(string) }

func (v Variant) AsDecimal() binary.Decimal {
	v.check(KindDecimal)
	flags := uint32(v.hi)
	return binary.Decimal{
		Lo:       v.bits,
		Hi:       uint32(v.hi >> 32),
		Scale:    uint8(flags >> 16),
		Negative: flags&(1<<31) != 0,
	}
}

// AsDateTime returns the held time in UTC.
func (v Variant) AsDateTime() time.Time {
	v.check(KindDateTime)
	return time.Unix(int64(v.bits), int64(v.hi)).UTC()
}

func (v Variant) AsType() reflect.Type  { v.check(KindType); return v.ref.(reflect.Type) }
func (v Variant) AsArray() interface{}  { v.check(KindArray); return v.ref }
func (v Variant) AsObject() interface{} { v.check(KindObject); return v.ref }
func (v Variant) AsEnum() interface{}   { v.check(KindEnum); return v.ref }

// EnumBits returns the integer value of an enum, sign extended for signed
// types.
func (v Variant) EnumBits() uint64 { v.check(KindEnum); return v.bits }

func (v Variant) String() string {
	switch v.kind {
	case KindNone, KindNull:
		return v.kind.String()
	default:
		return fmt.Sprintf("%v(%v)", v.kind, v.Value())
	}
}
