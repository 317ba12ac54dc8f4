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

import (
	"context"
	"reflect"
	"time"
)

// Encoder is passed to Writable.Encode to write the members of an object.
// Each call appends one member.
//
// Encoder follows the sticky error convention: once an error is set all
// further calls are ignored.
type Encoder interface {
	// Context returns the context of the write.
	Context() context.Context
	Bool(bool)
	Int8(int8)
	Uint8(uint8)
	Int16(int16)
	Uint16(uint16)
	Int32(int32)
	Uint32(uint32)
	Int64(int64)
	Uint64(uint64)
	Float32(float32)
	Float64(float64)
	Decimal(Decimal)
	Char(Char)
	Time(time.Time)
	String(string)
	// Type writes a type as a member.
	Type(reflect.Type)
	// Value writes any serializable value, including nil, arrays and objects.
	Value(interface{})
	// Error returns the error that stopped encoding, or nil.
	Error() error
	// SetError sets the error state if it is not already set.
	SetError(error)
}
