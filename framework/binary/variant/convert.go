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

package variant

import (
	"reflect"
	"sync"
	"time"

	"github.com/google/objgraph/framework/binary"
)

var (
	tyDecimal = reflect.TypeOf(binary.Decimal{})
	tyChar    = reflect.TypeOf(binary.Char(0))
	tyTime    = reflect.TypeOf(time.Time{})

	primitives = map[reflect.Type]Kind{
		reflect.TypeOf(false):      KindBool,
		reflect.TypeOf(int8(0)):    KindInt8,
		reflect.TypeOf(uint8(0)):   KindUint8,
		reflect.TypeOf(int16(0)):   KindInt16,
		reflect.TypeOf(uint16(0)):  KindUint16,
		reflect.TypeOf(int32(0)):   KindInt32,
		reflect.TypeOf(uint32(0)):  KindUint32,
		reflect.TypeOf(int64(0)):   KindInt64,
		reflect.TypeOf(uint64(0)):  KindUint64,
		reflect.TypeOf(int(0)):     KindInt64,
		reflect.TypeOf(uint(0)):    KindUint64,
		reflect.TypeOf(float32(0)): KindFloat32,
		reflect.TypeOf(float64(0)): KindFloat64,
		reflect.TypeOf(""):         KindString,
		tyDecimal:                  KindDecimal,
		tyChar:                     KindChar,
		tyTime:                     KindDateTime,
	}

	// classes caches the kind of every non-primitive type seen by FromValue.
	classes sync.Map
)

// PrimitiveKind returns the kind used for values of exactly type t, or
// KindNone if t is not a primitive type.
func PrimitiveKind(t reflect.Type) Kind {
	return primitives[t]
}

// IsPointerShaped returns true if values of type t have identity.
func IsPointerShaped(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}
	return false
}

// FromValue returns the Variant holding v.
// Nil interfaces, pointers, maps, slices, channels and functions are held as
// null. Types that do not map to a built-in kind are held as objects, and it
// is up to the writer to find a binder that can write them. Complex numbers
// and named non-integer scalars fail with binary.ErrNotSerializable.
func FromValue(v interface{}) (Variant, error) {
	switch v := v.(type) {
	case nil:
		return Null(), nil
	case int32:
		return Int32(v), nil
	case int:
		return Int64(int64(v)), nil
	case float64:
		return Float64(v), nil
	case bool:
		return Bool(v), nil
	case binary.Char:
		return Char(v), nil
	case string:
		return String(v), nil
	case int64:
		return Int64(v), nil
	case uint32:
		return Uint32(v), nil
	case uint8:
		return Uint8(v), nil
	case int8:
		return Int8(v), nil
	case int16:
		return Int16(v), nil
	case uint16:
		return Uint16(v), nil
	case uint64:
		return Uint64(v), nil
	case uint:
		return Uint64(uint64(v)), nil
	case float32:
		return Float32(v), nil
	case binary.Decimal:
		return Decimal(v), nil
	case time.Time:
		return DateTime(v), nil
	case reflect.Type:
		return Type(v), nil
	case Variant:
		return v, nil
	}
	return fromReflect(v)
}

func classOf(t reflect.Type) Kind {
	if k, ok := classes.Load(t); ok {
		return k.(Kind)
	}
	k := KindNone
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		k = KindEnum
	case reflect.Slice, reflect.Array:
		k = KindArray
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Struct:
		k = KindObject
	}
	classes.Store(t, k)
	return k
}

func fromReflect(v interface{}) (Variant, error) {
	r := reflect.ValueOf(v)
	switch r.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		if r.IsNil() {
			return Null(), nil
		}
	}
	switch classOf(r.Type()) {
	case KindEnum:
		return Enum(v), nil
	case KindArray:
		return Array(v), nil
	case KindObject:
		return Object(v), nil
	default:
		return Variant{}, binary.ErrNotSerializable{Type: r.Type()}
	}
}

// Value returns the held value as an interface{}. It is the inverse of
// FromValue except that int and uint are returned as int64 and uint64, and
// times are returned in UTC. KindNone and KindNull return nil.
func (v Variant) Value() interface{} {
	switch v.kind {
	case KindBool:
		return v.AsBool()
	case KindInt8:
		return v.AsInt8()
	case KindUint8:
		return v.AsUint8()
	case KindInt16:
		return v.AsInt16()
	case KindUint16:
		return v.AsUint16()
	case KindInt32:
		return v.AsInt32()
	case KindUint32:
		return v.AsUint32()
	case KindInt64:
		return v.AsInt64()
	case KindUint64:
		return v.AsUint64()
	case KindFloat32:
		return v.AsFloat32()
	case KindFloat64:
		return v.AsFloat64()
	case KindDecimal:
		return v.AsDecimal()
	case KindChar:
		return v.AsChar()
	case KindString:
		return v.AsString()
	case KindDateTime:
		return v.AsDateTime()
	case KindType, KindArray, KindObject, KindEnum:
		return v.ref
	default:
		return nil
	}
}

// EnumOf builds the value of the named integer type t holding bits.
func EnumOf(t reflect.Type, bits uint64) (Variant, error) {
	if classOf(t) != KindEnum {
		return Variant{}, binary.ErrNotSerializable{Type: t}
	}
	r := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		r.SetInt(int64(bits))
	default:
		r.SetUint(bits)
	}
	return Enum(r.Interface()), nil
}
