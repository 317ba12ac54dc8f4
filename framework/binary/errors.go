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
	"fmt"
	"reflect"

	"github.com/google/objgraph/core/fault"
)

const (
	ErrNoBinder         = fault.Const("Stream holds a type but no binder was supplied")
	ErrTooLarge         = fault.Const("Value is too large for a compressed integer")
	ErrMultiDimensional = fault.Const("Multi-dimensional arrays are not supported")
	ErrInvalidString    = fault.Const("String is not valid UTF-8 or WTF-8")
	ErrVersion          = fault.Const("Unsupported stream version")
	ErrPendingReference = fault.Const("Reference to an object that is still being read")
)

// ErrUnexpectedTag is returned when a stream holds a tag that is invalid at
// the current position.
type ErrUnexpectedTag struct {
	Tag Tag
}

func (e ErrUnexpectedTag) Error() string {
	return fmt.Sprintf("Unexpected tag %v (0x%.2x)", e.Tag, uint8(e.Tag))
}

// ErrNotSerializable is returned when a value has a type the format cannot
// hold and the binder has no writer for.
type ErrNotSerializable struct {
	Type reflect.Type
}

func (e ErrNotSerializable) Error() string {
	return fmt.Sprintf("Type %v is not serializable", e.Type)
}

// ErrUnknownType is returned when the binder cannot resolve a TypeKey read
// from the stream.
type ErrUnknownType struct {
	Key TypeKey
}

func (e ErrUnknownType) Error() string {
	return fmt.Sprintf("Unknown type %v", e.Key)
}

// ErrNoReader is returned when the binder has no ReadFunc for an object type.
type ErrNoReader struct {
	Type reflect.Type
}

func (e ErrNoReader) Error() string {
	return fmt.Sprintf("Cannot deserialize type %v: no reader registered", e.Type)
}

// ErrMemberCount is returned when a ReadFunc consumes a different number of
// members than were written for the object.
type ErrMemberCount struct {
	Type     reflect.Type
	Expected int
	Actual   int
}

func (e ErrMemberCount) Error() string {
	return fmt.Sprintf("Reader for %v read %d values, expected %d", e.Type, e.Actual, e.Expected)
}

// ErrKindMismatch is returned by a Decoder when the next member is not of the
// requested kind.
type ErrKindMismatch struct {
	Want string
	Got  string
}

func (e ErrKindMismatch) Error() string {
	return fmt.Sprintf("Expected member of kind %s, got %s", e.Want, e.Got)
}

// ErrReferenceRange is returned for a back-reference to an id that has not
// been assigned.
type ErrReferenceRange struct {
	Table string
	ID    int
	Len   int
}

func (e ErrReferenceRange) Error() string {
	return fmt.Sprintf("%s reference %d out of range [0, %d)", e.Table, e.ID, e.Len)
}
