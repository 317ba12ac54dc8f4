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
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	pod "github.com/google/objgraph/core/data/binary"
	"github.com/google/objgraph/core/data/endian"
	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/vle"
	"github.com/pkg/errors"
)

// Entry describes one encoded value found by Walk.
type Entry struct {
	// Offset is the position of the tag byte in the stream.
	Offset int64
	// Depth is the number of objects, arrays and enums enclosing the value.
	Depth int
	Tag   binary.Tag
	// Detail is a human readable description of the payload.
	Detail string
}

// maxListed is the number of elements of a primitive array shown in a
// Detail.
const maxListed = 8

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type walker struct {
	in      *countingReader
	r       pod.Reader
	strings []string
	types   []string
	objects int
}

// Walk calls visit for every encoded value in the stream read from in, in
// stream order. No binder is needed: object member counts and array lengths
// make the stream self-delimiting. Only the base table options are used, so
// that back-references into base tables can be shown.
func Walk(in io.Reader, visit func(Entry) error, opts ...Option) error {
	if err := endian.Check(); err != nil {
		return err
	}
	c := configure(opts)
	w := &walker{in: &countingReader{r: in}}
	w.r = endian.Reader(w.in)
	for _, s := range c.BaseStrings.Values() {
		w.strings = append(w.strings, fmt.Sprint(s))
	}
	for _, t := range c.BaseTypes.Values() {
		w.types = append(w.types, fmt.Sprint(t))
	}
	w.objects = c.BaseObjects.Len()

	if version := w.r.Uint16(); w.r.Error() == nil && version != binary.Version {
		return errors.Wrapf(binary.ErrVersion, "got 0x%.4x, expected 0x%.4x", version, binary.Version)
	}
	if err := w.r.Error(); err != nil {
		return errors.Wrap(err, "reading stream version")
	}

	open := []int{} // members still to be read, per enclosing value
	for {
		offset := w.in.n
		tag := binary.Tag(w.r.Uint8())
		if err := w.r.Error(); err != nil {
			if len(open) == 0 && w.in.n == offset && errors.Cause(err) == io.ErrUnexpectedEOF {
				return nil
			}
			return err
		}
		detail, members, err := w.entry(tag)
		if err == nil {
			err = w.r.Error()
		}
		if err != nil {
			return errors.Wrapf(err, "at offset %d", offset)
		}
		if err := visit(Entry{Offset: offset, Depth: len(open), Tag: tag, Detail: detail}); err != nil {
			return err
		}
		if members > 0 {
			open = append(open, members)
			continue
		}
		for len(open) > 0 {
			open[len(open)-1]--
			if open[len(open)-1] > 0 {
				break
			}
			open = open[:len(open)-1]
		}
	}
}

// entry reads the payload of a value, returning its description and the
// number of encoded values that follow as its members.
func (w *walker) entry(tag binary.Tag) (string, int, error) {
	r := w.r
	switch {
	case tag.IsSmallInt32() || tag.IsSmallUint32():
		return fmt.Sprint(tag.SmallValue()), 0, nil
	case isString(tag):
		s, err := w.stringBody(tag)
		return s, 0, err
	}
	switch tag {
	case binary.TagNull, binary.TagTrue, binary.TagFalse:
		return "", 0, nil
	case binary.TagInt8:
		return fmt.Sprint(r.Int8()), 0, nil
	case binary.TagUint8, binary.TagInt32B1, binary.TagUint32B1:
		return fmt.Sprint(r.Uint8()), 0, nil
	case binary.TagInt16:
		return fmt.Sprint(r.Int16()), 0, nil
	case binary.TagUint16, binary.TagInt32B2, binary.TagUint32B2:
		return fmt.Sprint(r.Uint16()), 0, nil
	case binary.TagInt32:
		return fmt.Sprint(r.Int32()), 0, nil
	case binary.TagUint32:
		return fmt.Sprint(r.Uint32()), 0, nil
	case binary.TagInt64:
		return fmt.Sprint(r.Int64()), 0, nil
	case binary.TagUint64:
		return fmt.Sprint(r.Uint64()), 0, nil
	case binary.TagFloat32:
		return fmt.Sprint(r.Float32()), 0, nil
	case binary.TagFloat64:
		return fmt.Sprint(r.Float64()), 0, nil
	case binary.TagDecimal:
		return readDecimal(r).String(), 0, nil
	case binary.TagDateTime:
		return readDateTime(r).Format(time.RFC3339Nano), 0, nil
	case binary.TagChar:
		return fmt.Sprintf("%q", rune(r.Uint16())), 0, nil
	case binary.TagType, binary.TagTypeRef1, binary.TagTypeRef2, binary.TagTypeRef4:
		s, err := w.typeBody(tag)
		return s, 0, err
	case binary.TagObjectRef1, binary.TagObjectRef2, binary.TagObjectRef4:
		return fmt.Sprintf("#%d", readRef(r, binary.TagObjectRef1, tag)), 0, nil
	case binary.TagObject:
		t, err := w.typeBody(binary.Tag(r.Uint8()))
		if err != nil {
			return "", 0, err
		}
		n := vle.ReadInt(r)
		id := w.objects
		w.objects++
		return fmt.Sprintf("#%d %s members=%d", id, t, n), n, nil
	case binary.TagEnum:
		t, err := w.typeBody(binary.Tag(r.Uint8()))
		return t, 1, err
	case binary.TagArray, binary.TagArray0, binary.TagArray1, binary.TagArray2, binary.TagArray3:
		return w.array(tag)
	}
	return "", 0, binary.ErrUnexpectedTag{Tag: tag}
}

func (w *walker) array(tag binary.Tag) (string, int, error) {
	n := int(tag - binary.TagArray0)
	if tag == binary.TagArray {
		n = vle.ReadInt(w.r)
	}
	elemTag := binary.Tag(w.r.Uint8())
	switch {
	case elemTag == binary.TagStringType:
		return fmt.Sprintf("len=%d elem=string", n), n, nil
	case elemTag.IsElementType():
		rd := &Reader{r: w.r}
		a, err := rd.readPrimitiveElements(elemTag, n)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("len=%d elem=%v %s", n, elementTypes[elemTag], list(a)), 0, nil
	}
	t, err := w.typeBody(elemTag)
	return fmt.Sprintf("len=%d elem=%s", n, t), n, err
}

func list(a interface{}) string {
	v := reflect.ValueOf(a)
	if v.Len() <= maxListed {
		return fmt.Sprint(a)
	}
	return strings.TrimSuffix(fmt.Sprint(v.Slice(0, maxListed).Interface()), "]") + " ...]"
}

func (w *walker) stringBody(tag binary.Tag) (string, error) {
	switch tag {
	case binary.TagStringRef1, binary.TagStringRef2, binary.TagStringRef4:
		id := readRef(w.r, binary.TagStringRef1, tag)
		if int(id) >= len(w.strings) {
			return "", binary.ErrReferenceRange{Table: "string", ID: int(id), Len: len(w.strings)}
		}
		return fmt.Sprintf("#%d %q", id, w.strings[id]), nil
	}
	s := readStringBody(w.r, tag)
	w.strings = append(w.strings, s)
	return fmt.Sprintf("#%d %q", len(w.strings)-1, s), nil
}

func (w *walker) typeBody(tag binary.Tag) (string, error) {
	switch tag {
	case binary.TagNull:
		return "null", nil
	case binary.TagTypeRef1, binary.TagTypeRef2, binary.TagTypeRef4:
		id := readRef(w.r, binary.TagTypeRef1, tag)
		if int(id) >= len(w.types) {
			return "", binary.ErrReferenceRange{Table: "type", ID: int(id), Len: len(w.types)}
		}
		return fmt.Sprintf("type#%d %s", id, w.types[id]), nil
	case binary.TagType:
	default:
		return "", binary.ErrUnexpectedTag{Tag: tag}
	}
	var parts [2]string
	for i := range parts {
		tag := binary.Tag(w.r.Uint8())
		if !isString(tag) {
			return "", binary.ErrUnexpectedTag{Tag: tag}
		}
		s, err := w.rawString(tag)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	k := binary.TypeKey{Assembly: parts[0], Name: parts[1]}.String()
	w.types = append(w.types, k)
	return fmt.Sprintf("type#%d %s", len(w.types)-1, k), nil
}

// rawString reads a string value and returns it without decoration.
func (w *walker) rawString(tag binary.Tag) (string, error) {
	switch tag {
	case binary.TagStringRef1, binary.TagStringRef2, binary.TagStringRef4:
		id := readRef(w.r, binary.TagStringRef1, tag)
		if int(id) >= len(w.strings) {
			return "", binary.ErrReferenceRange{Table: "string", ID: int(id), Len: len(w.strings)}
		}
		return w.strings[id], nil
	}
	s := readStringBody(w.r, tag)
	w.strings = append(w.strings, s)
	return s, nil
}

// Dump writes one line per encoded value in the stream read from in to out,
// indented by depth.
func Dump(in io.Reader, out io.Writer, opts ...Option) error {
	return Walk(in, func(e Entry) error {
		_, err := fmt.Fprintf(out, "%8d %s%v %s\n", e.Offset, strings.Repeat("  ", e.Depth), e.Tag, e.Detail)
		return err
	}, opts...)
}

// Stats summarizes a stream.
type Stats struct {
	Bytes  int64
	Values int
	Tags   map[binary.Tag]int
}

// CollectStats counts the encoded values in the stream read from in by tag.
func CollectStats(in io.Reader, opts ...Option) (Stats, error) {
	c := &countingReader{r: in}
	s := Stats{Tags: map[binary.Tag]int{}}
	err := Walk(c, func(e Entry) error {
		s.Values++
		s.Tags[e.Tag]++
		return nil
	}, opts...)
	s.Bytes = c.n
	return s, err
}
