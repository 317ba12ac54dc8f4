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
	"io"
	"reflect"

	pod "github.com/google/objgraph/core/data/binary"
	"github.com/google/objgraph/core/data/endian"
	"github.com/google/objgraph/core/fault"
	"github.com/google/objgraph/core/log"
	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/refs"
	"github.com/google/objgraph/framework/binary/variant"
	"github.com/google/objgraph/framework/binary/vle"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// Reader decodes values from a stream written by a Writer. Each call reads
// one encoded value. The typed accessors fail with binary.ErrKindMismatch if
// the next value is of a different kind.
// A Reader is not safe for concurrent use.
type Reader struct {
	values
	r       pod.Reader
	binder  binary.Binder
	cache   *lru.Cache
	strings *refs.Table
	types   *refs.Table
	objects *refs.Table
	frames  []frame
	stack   []variant.Variant
}

// frame is an object or array whose members are still being read.
type frame struct {
	start int // index of the first member on the value stack
	count int
	// objects
	id   uint32
	typ  reflect.Type
	read binary.ReadFunc
	// arrays
	elem reflect.Type
}

// NewReader returns a Reader that reads from in, and checks the stream
// version marker. It fails if the host is not little-endian.
//
// ctx is checked for cancellation before each object is read.
func NewReader(ctx context.Context, in io.Reader, opts ...Option) (*Reader, error) {
	if err := endian.Check(); err != nil {
		return nil, err
	}
	c := configure(opts)
	r := &Reader{
		r:       endian.Reader(in),
		binder:  c.Binder,
		cache:   c.StringCache,
		strings: refs.NewTable("string", c.BaseStrings),
		types:   refs.NewTable("type", c.BaseTypes),
		objects: refs.NewTable("object", c.BaseObjects),
	}
	r.values = values{ctx: ctx, errs: r.r, next: r.next}
	version := r.r.Uint16()
	if err := r.r.Error(); err != nil {
		r.Close()
		return nil, errors.Wrap(err, "reading stream version")
	}
	if version != binary.Version {
		r.Close()
		return nil, errors.Wrapf(binary.ErrVersion, "got 0x%.4x, expected 0x%.4x", version, binary.Version)
	}
	return r, nil
}

// Close releases the tables of the Reader and returns its error state.
// The Reader must not be used after Close.
func (r *Reader) Close() error {
	r.strings.Release()
	r.types.Release()
	r.objects.Release()
	return r.Error()
}

func (r *Reader) next() (variant.Variant, bool) {
	if r.r.Error() != nil {
		return variant.Variant{}, false
	}
	v, err := r.read()
	if err == nil {
		err = r.r.Error()
	}
	if err != nil {
		if fault.Cancelled(err) {
			log.I(r.ctx, "Stream read cancelled")
		} else {
			log.D(r.ctx, "Stream read failed: %v", err)
		}
		r.r.SetError(err)
		return variant.Variant{}, false
	}
	return v, true
}

// read decodes one complete value. Objects and arrays are decoded without
// recursion: a frame is pushed for each one and its members collect on the
// value stack until the frame is complete.
func (r *Reader) read() (variant.Variant, error) {
	base, bottom := len(r.frames), len(r.stack)
	defer func() {
		r.frames = r.frames[:base]
		r.stack = r.stack[:bottom]
	}()
	for {
		v, pushed, err := r.step()
		if err != nil {
			return variant.Variant{}, err
		}
		if !pushed {
			r.stack = append(r.stack, v)
		}
		for len(r.frames) > base {
			f := r.frames[len(r.frames)-1]
			if len(r.stack)-f.start < f.count {
				break
			}
			done, err := r.finish(f, r.stack[f.start:])
			if err != nil {
				return variant.Variant{}, err
			}
			r.frames = r.frames[:len(r.frames)-1]
			r.stack = append(r.stack[:f.start], done)
		}
		if len(r.frames) == base {
			return r.stack[len(r.stack)-1], nil
		}
	}
}

// step reads one tag. Values without members are returned directly. For an
// object or array with members read later a frame is pushed instead and
// pushed is true.
func (r *Reader) step() (v variant.Variant, pushed bool, err error) {
	tag := binary.Tag(r.r.Uint8())
	if err := r.r.Error(); err != nil {
		return variant.Variant{}, false, err
	}
	switch {
	case tag.IsSmallInt32():
		return variant.Int32(int32(tag.SmallValue())), false, nil
	case tag.IsSmallUint32():
		return variant.Uint32(tag.SmallValue()), false, nil
	case isString(tag):
		s, err := r.stringBody(tag)
		return variant.String(s), false, err
	}
	switch tag {
	case binary.TagNull:
		return variant.Null(), false, nil
	case binary.TagTrue:
		return variant.Bool(true), false, nil
	case binary.TagFalse:
		return variant.Bool(false), false, nil
	case binary.TagInt8:
		return variant.Int8(r.r.Int8()), false, nil
	case binary.TagUint8:
		return variant.Uint8(r.r.Uint8()), false, nil
	case binary.TagInt16:
		return variant.Int16(r.r.Int16()), false, nil
	case binary.TagUint16:
		return variant.Uint16(r.r.Uint16()), false, nil
	case binary.TagInt32:
		return variant.Int32(r.r.Int32()), false, nil
	case binary.TagInt32B1:
		return variant.Int32(int32(r.r.Uint8())), false, nil
	case binary.TagInt32B2:
		return variant.Int32(int32(r.r.Uint16())), false, nil
	case binary.TagUint32:
		return variant.Uint32(r.r.Uint32()), false, nil
	case binary.TagUint32B1:
		return variant.Uint32(uint32(r.r.Uint8())), false, nil
	case binary.TagUint32B2:
		return variant.Uint32(uint32(r.r.Uint16())), false, nil
	case binary.TagInt64:
		return variant.Int64(r.r.Int64()), false, nil
	case binary.TagUint64:
		return variant.Uint64(r.r.Uint64()), false, nil
	case binary.TagFloat32:
		return variant.Float32(r.r.Float32()), false, nil
	case binary.TagFloat64:
		return variant.Float64(r.r.Float64()), false, nil
	case binary.TagDecimal:
		return variant.Decimal(readDecimal(r.r)), false, nil
	case binary.TagDateTime:
		return variant.DateTime(readDateTime(r.r)), false, nil
	case binary.TagChar:
		return variant.Char(binary.Char(r.r.Uint16())), false, nil
	case binary.TagType, binary.TagTypeRef1, binary.TagTypeRef2, binary.TagTypeRef4:
		t, err := r.typeBody(tag)
		return variant.Type(t), false, err
	case binary.TagArray, binary.TagArray0, binary.TagArray1, binary.TagArray2, binary.TagArray3:
		return r.arrayHeader(tag)
	case binary.TagObject:
		return r.objectHeader()
	case binary.TagObjectRef1, binary.TagObjectRef2, binary.TagObjectRef4:
		id := readRef(r.r, binary.TagObjectRef1, tag)
		o, err := r.objects.Get(id)
		if err != nil {
			return variant.Variant{}, false, err
		}
		return variant.Object(o), false, nil
	case binary.TagEnum:
		v, err := r.enum()
		return v, false, err
	}
	return variant.Variant{}, false, binary.ErrUnexpectedTag{Tag: tag}
}

func (r *Reader) arrayHeader(tag binary.Tag) (variant.Variant, bool, error) {
	n := int(tag - binary.TagArray0)
	if tag == binary.TagArray {
		n = vle.ReadInt(r.r)
	}
	elemTag := binary.Tag(r.r.Uint8())
	if err := r.r.Error(); err != nil {
		return variant.Variant{}, false, err
	}
	if elemTag.IsElementType() {
		a, err := r.readPrimitiveElements(elemTag, n)
		return variant.Array(a), false, err
	}
	elem, err := r.typeBody(elemTag)
	if err != nil {
		return variant.Variant{}, false, errors.Wrap(err, "reading array element type")
	}
	if elem == nil {
		return variant.Variant{}, false, binary.ErrUnexpectedTag{Tag: elemTag}
	}
	r.frames = append(r.frames, frame{start: len(r.stack), count: n, elem: readType(elem)})
	return variant.Variant{}, true, nil
}

func (r *Reader) objectHeader() (variant.Variant, bool, error) {
	if err := r.ctx.Err(); err != nil {
		return variant.Variant{}, false, err
	}
	t, err := r.typeBody(binary.Tag(r.r.Uint8()))
	if err != nil {
		return variant.Variant{}, false, errors.Wrap(err, "reading object type")
	}
	if t == nil {
		return variant.Variant{}, false, errors.New("Object has a null type")
	}
	n := vle.ReadInt(r.r)
	if err := r.r.Error(); err != nil {
		return variant.Variant{}, false, err
	}
	if r.binder == nil {
		return variant.Variant{}, false, binary.ErrNoBinder
	}
	read, ok := r.binder.Reader(t)
	if !ok {
		return variant.Variant{}, false, binary.ErrNoReader{Type: t}
	}
	id := r.objects.Reserve()
	r.frames = append(r.frames, frame{start: len(r.stack), count: n, id: id, typ: t, read: read})
	return variant.Variant{}, true, nil
}

// finish builds the value of a frame from its members.
func (r *Reader) finish(f frame, children []variant.Variant) (variant.Variant, error) {
	if f.read == nil {
		a, err := buildArray(f.elem, children)
		if err != nil {
			return variant.Variant{}, errors.Wrapf(err, "building []%v", f.elem)
		}
		return variant.Array(a), nil
	}
	d := newMemberDecoder(r.ctx, children)
	o, err := f.read(d)
	if err == nil {
		err = d.Error()
	}
	if err != nil {
		return variant.Variant{}, errors.Wrapf(err, "reading %v", f.typ)
	}
	if d.reads != f.count {
		return variant.Variant{}, binary.ErrMemberCount{Type: f.typ, Expected: f.count, Actual: d.reads}
	}
	if err := r.objects.Set(f.id, o); err != nil {
		return variant.Variant{}, err
	}
	objectsRead.Inc()
	if o == nil {
		return variant.Null(), nil
	}
	return variant.Object(o), nil
}

func (r *Reader) enum() (variant.Variant, error) {
	t, err := r.typeBody(binary.Tag(r.r.Uint8()))
	if err != nil {
		return variant.Variant{}, errors.Wrap(err, "reading enum type")
	}
	if t == nil {
		return variant.Variant{}, errors.New("Enum has a null type")
	}
	v, _, err := r.step()
	if err != nil {
		return variant.Variant{}, err
	}
	var bits uint64
	switch v.Kind() {
	case variant.KindInt8:
		bits = uint64(v.AsInt8())
	case variant.KindUint8:
		bits = uint64(v.AsUint8())
	case variant.KindInt16:
		bits = uint64(v.AsInt16())
	case variant.KindUint16:
		bits = uint64(v.AsUint16())
	case variant.KindInt32:
		bits = uint64(v.AsInt32())
	case variant.KindUint32:
		bits = uint64(v.AsUint32())
	case variant.KindInt64:
		bits = uint64(v.AsInt64())
	case variant.KindUint64:
		bits = v.AsUint64()
	default:
		return variant.Variant{}, binary.ErrKindMismatch{Want: "integer", Got: v.Kind().String()}
	}
	return variant.EnumOf(t, bits)
}

// typeBody reads the rest of a type value that starts with tag.
// A null tag reads as a nil type.
func (r *Reader) typeBody(tag binary.Tag) (reflect.Type, error) {
	if err := r.r.Error(); err != nil {
		return nil, err
	}
	switch tag {
	case binary.TagNull:
		return nil, nil
	case binary.TagTypeRef1, binary.TagTypeRef2, binary.TagTypeRef4:
		t, err := r.types.Get(readRef(r.r, binary.TagTypeRef1, tag))
		if err != nil {
			return nil, err
		}
		return t.(reflect.Type), nil
	case binary.TagType:
	default:
		return nil, binary.ErrUnexpectedTag{Tag: tag}
	}
	if r.binder == nil {
		return nil, binary.ErrNoBinder
	}
	assembly, err := r.readString()
	if err != nil {
		return nil, err
	}
	name, err := r.readString()
	if err != nil {
		return nil, err
	}
	k := binary.TypeKey{Assembly: assembly, Name: name}
	t, ok := r.binder.Type(k)
	if !ok {
		return nil, binary.ErrUnknownType{Key: k}
	}
	r.types.Add(t)
	return t, nil
}

// readString reads a complete string value.
func (r *Reader) readString() (string, error) {
	tag := binary.Tag(r.r.Uint8())
	if err := r.r.Error(); err != nil {
		return "", err
	}
	if !isString(tag) {
		return "", binary.ErrUnexpectedTag{Tag: tag}
	}
	return r.stringBody(tag)
}

func (r *Reader) stringBody(tag binary.Tag) (string, error) {
	switch tag {
	case binary.TagStringRef1, binary.TagStringRef2, binary.TagStringRef4:
		s, err := r.strings.Get(readRef(r.r, binary.TagStringRef1, tag))
		if err != nil {
			return "", err
		}
		return s.(string), nil
	}
	s := readStringBody(r.r, tag)
	if err := r.r.Error(); err != nil {
		return "", err
	}
	if r.cache != nil && tag == binary.TagStringUtf8 {
		if cached, ok := r.cache.Get(s); ok {
			s = cached.(string)
		} else {
			r.cache.Add(s, s)
		}
	}
	r.strings.Add(s)
	return s, nil
}
