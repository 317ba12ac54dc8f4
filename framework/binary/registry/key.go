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

// Package registry provides the Binder implementations used to map Go types
// to and from the TypeKeys written in a stream.
package registry

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/objgraph/framework/binary"
)

// KeyOf returns the TypeKey for t.
// Named types are identified by package path and name. Pointers, slices and
// arrays of a type use the package path of the element with the name
// decorated by the Go type syntax. Other unnamed types use their Go type
// string.
func KeyOf(t reflect.Type) binary.TypeKey {
	if t.Name() != "" {
		return binary.TypeKey{Assembly: t.PkgPath(), Name: t.Name()}
	}
	switch t.Kind() {
	case reflect.Ptr:
		k := KeyOf(t.Elem())
		return binary.TypeKey{Assembly: k.Assembly, Name: "*" + k.Name}
	case reflect.Slice:
		k := KeyOf(t.Elem())
		return binary.TypeKey{Assembly: k.Assembly, Name: "[]" + k.Name}
	case reflect.Array:
		k := KeyOf(t.Elem())
		return binary.TypeKey{Assembly: k.Assembly, Name: fmt.Sprintf("[%d]%s", t.Len(), k.Name)}
	}
	return binary.TypeKey{Name: t.String()}
}

// builtins are the types every binder knows without them being recorded.
var builtins = []reflect.Type{
	reflect.TypeOf(false),
	reflect.TypeOf(int8(0)),
	reflect.TypeOf(uint8(0)),
	reflect.TypeOf(int16(0)),
	reflect.TypeOf(uint16(0)),
	reflect.TypeOf(int32(0)),
	reflect.TypeOf(uint32(0)),
	reflect.TypeOf(int64(0)),
	reflect.TypeOf(uint64(0)),
	reflect.TypeOf(int(0)),
	reflect.TypeOf(uint(0)),
	reflect.TypeOf(float32(0)),
	reflect.TypeOf(float64(0)),
	reflect.TypeOf(""),
	reflect.TypeOf((*interface{})(nil)).Elem(),
	reflect.TypeOf((*reflect.Type)(nil)).Elem(),
	reflect.TypeOf(binary.Decimal{}),
	reflect.TypeOf(binary.Char(0)),
	reflect.TypeOf(time.Time{}),
}

// compose builds pointer, slice and array types from the key of their
// element, using lookup to resolve the element.
func compose(k binary.TypeKey, lookup func(binary.TypeKey) (reflect.Type, bool)) (reflect.Type, bool) {
	name := k.Name
	switch {
	case strings.HasPrefix(name, "*"):
		if elem, ok := lookup(binary.TypeKey{Assembly: k.Assembly, Name: name[1:]}); ok {
			return reflect.PtrTo(elem), true
		}
	case strings.HasPrefix(name, "[]"):
		if elem, ok := lookup(binary.TypeKey{Assembly: k.Assembly, Name: name[2:]}); ok {
			return reflect.SliceOf(elem), true
		}
	case strings.HasPrefix(name, "["):
		end := strings.IndexByte(name, ']')
		if end < 0 {
			return nil, false
		}
		n, err := strconv.Atoi(name[1:end])
		if err != nil || n < 0 {
			return nil, false
		}
		if elem, ok := lookup(binary.TypeKey{Assembly: k.Assembly, Name: name[end+1:]}); ok {
			return reflect.ArrayOf(n, elem), true
		}
	}
	return nil, false
}

// readerOf returns the ReadFunc of t if it is Readable.
func readerOf(t reflect.Type) binary.ReadFunc {
	if t.Kind() == reflect.Interface || !t.Implements(readable) {
		return nil
	}
	return reflect.Zero(t).Interface().(binary.Readable).Constructor()
}

var readable = reflect.TypeOf((*binary.Readable)(nil)).Elem()

func writeWritable(e binary.Encoder, v interface{}) {
	v.(binary.Writable).Encode(e)
}

// Register records the types of the prototypes with b, so that a reader
// using b can rebuild them before any value of the type has been written.
func Register(b binary.Binder, prototypes ...interface{}) {
	for _, p := range prototypes {
		b.RecordValue(p)
	}
}
