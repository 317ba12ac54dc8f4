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

// Decoder is passed to a ReadFunc to consume the members of an object in the
// order they were written. Reading a member with the wrong accessor sets an
// ErrKindMismatch, and reading past the last member is reported as an
// ErrMemberCount once the ReadFunc returns.
type Decoder interface {
	// Context returns the context of the read.
	Context() context.Context
	Bool() bool
	Int8() int8
	Uint8() uint8
	Int16() int16
	Uint16() uint16
	Int32() int32
	Uint32() uint32
	Int64() int64
	Uint64() uint64
	Float32() float32
	Float64() float64
	Decimal() Decimal
	Char() Char
	Time() time.Time
	String() string
	Type() reflect.Type
	// Value returns the next member whatever its kind.
	Value() interface{}
	// Count returns the number of members written for the object.
	Count() int
	Error() error
	SetError(error)
}
