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

import "fmt"

// Version is the marker written at the start of every stream.
const Version = uint16(0x000A)

// Tag is the leading byte of an encoded value.
type Tag uint8

const (
	TagNull Tag = iota
	TagTrue
	TagFalse
	TagInt8
	TagUint8
	TagInt16
	TagUint16
	TagInt32
	TagInt32B1
	TagInt32B2
	TagInt32Small // TagInt32Small+n holds the value n for n in [0, SmallMax]
	_
	_
	_
	_
	_
	_
	_
	_
	_
	_
	TagUint32
	TagUint32B1
	TagUint32B2
	TagUint32Small // TagUint32Small+n holds the value n for n in [0, SmallMax]
	_
	_
	_
	_
	_
	_
	_
	_
	_
	_
	TagInt64
	TagUint64
	TagFloat32
	TagFloat64
	TagDecimal
	TagDateTime
	TagChar
	TagStringUtf8
	TagStringUtf16
	TagStringRef1
	TagStringRef2
	TagStringRef4
	TagType
	TagTypeRef1
	TagTypeRef2
	TagTypeRef4
	TagArray
	TagArray0
	TagArray1
	TagArray2
	TagArray3
	TagObject
	TagObjectRef1
	TagObjectRef2
	TagObjectRef4
	TagEnum
	TagBooleanType
	TagStringType
)

// SmallMax is the largest 32 bit value folded into its tag.
const SmallMax = 10

var tagNames = map[Tag]string{
	TagNull:        "Null",
	TagTrue:        "True",
	TagFalse:       "False",
	TagInt8:        "Int8",
	TagUint8:       "Uint8",
	TagInt16:       "Int16",
	TagUint16:      "Uint16",
	TagInt32:       "Int32",
	TagInt32B1:     "Int32B1",
	TagInt32B2:     "Int32B2",
	TagUint32:      "Uint32",
	TagUint32B1:    "Uint32B1",
	TagUint32B2:    "Uint32B2",
	TagInt64:       "Int64",
	TagUint64:      "Uint64",
	TagFloat32:     "Float32",
	TagFloat64:     "Float64",
	TagDecimal:     "Decimal",
	TagDateTime:    "DateTime",
	TagChar:        "Char",
	TagStringUtf8:  "StringUtf8",
	TagStringUtf16: "StringUtf16",
	TagStringRef1:  "StringRef1",
	TagStringRef2:  "StringRef2",
	TagStringRef4:  "StringRef4",
	TagType:        "Type",
	TagTypeRef1:    "TypeRef1",
	TagTypeRef2:    "TypeRef2",
	TagTypeRef4:    "TypeRef4",
	TagArray:       "Array",
	TagArray0:      "Array0",
	TagArray1:      "Array1",
	TagArray2:      "Array2",
	TagArray3:      "Array3",
	TagObject:      "Object",
	TagObjectRef1:  "ObjectRef1",
	TagObjectRef2:  "ObjectRef2",
	TagObjectRef4:  "ObjectRef4",
	TagEnum:        "Enum",
	TagBooleanType: "BooleanType",
	TagStringType:  "StringType",
}

// Valid returns true if t is a tag the format defines.
func (t Tag) Valid() bool {
	if t.IsSmallInt32() || t.IsSmallUint32() {
		return true
	}
	_, ok := tagNames[t]
	return ok
}

// IsSmallInt32 returns true if t folds an int32 value into the tag.
func (t Tag) IsSmallInt32() bool {
	return t >= TagInt32Small && t <= TagInt32Small+SmallMax
}

// IsSmallUint32 returns true if t folds a uint32 value into the tag.
func (t Tag) IsSmallUint32() bool {
	return t >= TagUint32Small && t <= TagUint32Small+SmallMax
}

// SmallValue returns the value folded into a small integer tag.
func (t Tag) SmallValue() uint32 {
	switch {
	case t.IsSmallInt32():
		return uint32(t - TagInt32Small)
	case t.IsSmallUint32():
		return uint32(t - TagUint32Small)
	default:
		return 0
	}
}

// IsElementType returns true if t may describe the element type of a
// primitive array.
func (t Tag) IsElementType() bool {
	switch t {
	case TagInt8, TagUint8, TagInt16, TagUint16, TagInt32, TagUint32,
		TagInt64, TagUint64, TagFloat32, TagFloat64, TagDecimal, TagDateTime,
		TagChar, TagBooleanType, TagStringType:
		return true
	}
	return false
}

func (t Tag) String() string {
	switch {
	case t.IsSmallInt32():
		return fmt.Sprintf("Int32_%d", t.SmallValue())
	case t.IsSmallUint32():
		return fmt.Sprintf("Uint32_%d", t.SmallValue())
	}
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(0x%.2x)", uint8(t))
}
