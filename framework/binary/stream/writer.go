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
	"time"

	pod "github.com/google/objgraph/core/data/binary"
	"github.com/google/objgraph/core/data/endian"
	"github.com/google/objgraph/core/event/task"
	"github.com/google/objgraph/core/log"
	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/refs"
	"github.com/google/objgraph/framework/binary/variant"
	"github.com/google/objgraph/framework/binary/vle"
	"github.com/pkg/errors"
)

// Writer encodes values to a stream. Each call writes one encoded value.
// A Writer is not safe for concurrent use.
//
// Writer follows the sticky error convention: once an error is set every
// further call is ignored and Error returns the first error. A Writer that has
// failed leaves the stream in an unusable state.
type Writer struct {
	ctx      context.Context
	w        pod.Writer
	binder   binary.Binder
	executor task.Executor
	maxDepth int
	depth    int
	strings  *refs.Map
	types    *refs.Map
	objects  *refs.Map
}

var _ binary.Encoder = &Writer{}

// NewWriter returns a Writer that writes to out, and writes the stream
// version marker. It fails if the host is not little-endian.
//
// ctx is checked for cancellation before each object is written.
func NewWriter(ctx context.Context, out io.Writer, opts ...Option) (*Writer, error) {
	if err := endian.Check(); err != nil {
		return nil, err
	}
	c := configure(opts)
	w := &Writer{
		ctx:      ctx,
		w:        endian.Writer(out),
		binder:   c.Binder,
		executor: c.Executor,
		maxDepth: c.MaxDepth,
		strings:  refs.NewMap(c.BaseStrings),
		types:    refs.NewMap(c.BaseTypes),
		objects:  refs.NewMap(c.BaseObjects),
	}
	w.w.Uint16(binary.Version)
	if err := w.w.Error(); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the tables of the Writer and returns its error state.
// The Writer must not be used after Close.
func (w *Writer) Close() error {
	w.strings.Release()
	w.types.Release()
	w.objects.Release()
	return w.Error()
}

func (w *Writer) Context() context.Context { return w.ctx }
func (w *Writer) Error() error             { return w.w.Error() }
func (w *Writer) SetError(err error)       { w.w.SetError(err) }

func (w *Writer) failed() bool { return w.w.Error() != nil }

func (w *Writer) tag(t binary.Tag) { w.w.Uint8(uint8(t)) }

// Bool writes a boolean value.
func (w *Writer) Bool(v bool) {
	if v {
		w.tag(binary.TagTrue)
	} else {
		w.tag(binary.TagFalse)
	}
}

func (w *Writer) Int8(v int8)   { w.tag(binary.TagInt8); w.w.Int8(v) }
func (w *Writer) Uint8(v uint8) { w.tag(binary.TagUint8); w.w.Uint8(v) }

func (w *Writer) Int16(v int16)   { w.tag(binary.TagInt16); w.w.Int16(v) }
func (w *Writer) Uint16(v uint16) { w.tag(binary.TagUint16); w.w.Uint16(v) }

// Int32 writes an int32 using the smallest of its forms.
func (w *Writer) Int32(v int32) {
	switch {
	case v >= 0 && v <= binary.SmallMax:
		w.tag(binary.TagInt32Small + binary.Tag(v))
	case v >= 0 && v <= 0xff:
		w.tag(binary.TagInt32B1)
		w.w.Uint8(uint8(v))
	case v >= 0 && v <= 0xffff:
		w.tag(binary.TagInt32B2)
		w.w.Uint16(uint16(v))
	default:
		w.tag(binary.TagInt32)
		w.w.Int32(v)
	}
}

// Uint32 writes a uint32 using the smallest of its forms.
func (w *Writer) Uint32(v uint32) {
	switch {
	case v <= binary.SmallMax:
		w.tag(binary.TagUint32Small + binary.Tag(v))
	case v <= 0xff:
		w.tag(binary.TagUint32B1)
		w.w.Uint8(uint8(v))
	case v <= 0xffff:
		w.tag(binary.TagUint32B2)
		w.w.Uint16(uint16(v))
	default:
		w.tag(binary.TagUint32)
		w.w.Uint32(v)
	}
}

func (w *Writer) Int64(v int64)            { w.tag(binary.TagInt64); w.w.Int64(v) }
func (w *Writer) Uint64(v uint64)          { w.tag(binary.TagUint64); w.w.Uint64(v) }
func (w *Writer) Float32(v float32)        { w.tag(binary.TagFloat32); w.w.Float32(v) }
func (w *Writer) Float64(v float64)        { w.tag(binary.TagFloat64); w.w.Float64(v) }
func (w *Writer) Decimal(v binary.Decimal) { w.tag(binary.TagDecimal); writeDecimal(w.w, v) }
func (w *Writer) Char(v binary.Char)       { w.tag(binary.TagChar); w.w.Uint16(uint16(v)) }
func (w *Writer) Time(v time.Time)         { w.tag(binary.TagDateTime); writeDateTime(w.w, v) }

// String writes s, or a back-reference if an equal string has already been
// written.
func (w *Writer) String(s string) {
	if w.failed() {
		return
	}
	if id, ok := w.strings.Lookup(s); ok {
		writeRef(w.w, binary.TagStringRef1, id)
		return
	}
	writeStringBody(w.w, s)
	w.strings.Add(s)
}

// Type writes t, or a back-reference if t has already been written.
// A nil type is written as null.
func (w *Writer) Type(t reflect.Type) {
	if w.failed() {
		return
	}
	if t == nil {
		w.tag(binary.TagNull)
		return
	}
	if id, ok := w.types.Lookup(t); ok {
		writeRef(w.w, binary.TagTypeRef1, id)
		return
	}
	if w.binder == nil {
		w.SetError(errors.Wrapf(binary.ErrNoBinder, "writing type %v", t))
		return
	}
	k, ok := w.binder.TypeKey(t)
	if !ok {
		w.SetError(binary.ErrNotSerializable{Type: t})
		return
	}
	w.tag(binary.TagType)
	w.String(k.Assembly)
	w.String(k.Name)
	w.types.Add(t)
}

// Value writes any serializable value.
func (w *Writer) Value(v interface{}) {
	if w.failed() {
		return
	}
	vv, err := variant.FromValue(v)
	if err != nil {
		w.SetError(err)
		return
	}
	w.Variant(vv)
}

// Variant writes the value held by v.
func (w *Writer) Variant(v variant.Variant) {
	if w.failed() {
		return
	}
	switch v.Kind() {
	case variant.KindNone, variant.KindNull:
		w.tag(binary.TagNull)
	case variant.KindInt32:
		w.Int32(v.AsInt32())
	case variant.KindFloat64:
		w.Float64(v.AsFloat64())
	case variant.KindBool:
		w.Bool(v.AsBool())
	case variant.KindChar:
		w.Char(v.AsChar())
	case variant.KindString:
		w.String(v.AsString())
	case variant.KindObject:
		w.object(v.AsObject())
	case variant.KindInt64:
		w.Int64(v.AsInt64())
	case variant.KindUint32:
		w.Uint32(v.AsUint32())
	case variant.KindInt8:
		w.Int8(v.AsInt8())
	case variant.KindUint8:
		w.Uint8(v.AsUint8())
	case variant.KindInt16:
		w.Int16(v.AsInt16())
	case variant.KindUint16:
		w.Uint16(v.AsUint16())
	case variant.KindUint64:
		w.Uint64(v.AsUint64())
	case variant.KindFloat32:
		w.Float32(v.AsFloat32())
	case variant.KindDecimal:
		w.Decimal(v.AsDecimal())
	case variant.KindDateTime:
		w.Time(v.AsDateTime())
	case variant.KindType:
		w.Type(v.AsType())
	case variant.KindArray:
		w.array(v.AsArray())
	case variant.KindEnum:
		w.enum(v)
	default:
		w.SetError(errors.Errorf("Cannot write variant of kind %v", v.Kind()))
	}
}

// object writes v in full, or as a back-reference if v has identity and has
// already been written.
func (w *Writer) object(v interface{}) {
	if err := w.ctx.Err(); err != nil {
		w.SetError(err)
		return
	}
	key := refs.Key(v)
	if id, ok := w.objects.Lookup(key); ok {
		writeRef(w.w, binary.TagObjectRef1, id)
		return
	}
	t := reflect.TypeOf(v)
	if w.binder == nil {
		w.SetError(errors.Wrapf(binary.ErrNoBinder, "writing object of type %v", t))
		return
	}
	write, ok := w.binder.Writer(v)
	if !ok {
		w.SetError(binary.ErrNotSerializable{Type: t})
		return
	}
	m := &members{ctx: w.ctx}
	write(m, v)
	if err := m.Error(); err != nil {
		w.SetError(errors.Wrapf(err, "encoding %v", t))
		return
	}
	w.objects.Add(key)
	w.tag(binary.TagObject)
	w.Type(t)
	vle.WriteInt(w.w, len(m.list))
	objectsWritten.Inc()
	w.nest(func() {
		for _, c := range m.list {
			w.Variant(c)
		}
	})
}

// array writes a slice or rank-1 Go array.
func (w *Writer) array(v interface{}) {
	a := reflect.ValueOf(v)
	t := a.Type()
	if isMultiDimensional(t) {
		w.SetError(errors.Wrapf(binary.ErrMultiDimensional, "writing %v", t))
		return
	}
	writeArrayLength(w.w, a.Len())
	if tag, ok := elementTags[variant.PrimitiveKind(t.Elem())]; ok {
		w.tag(tag)
		w.writePrimitiveElements(a, tag)
		return
	}
	w.Type(t.Elem())
	w.nest(func() {
		for i, n := 0, a.Len(); i < n && !w.failed(); i++ {
			w.Value(a.Index(i).Interface())
		}
	})
}

// enum writes a value of a named integer type as its type followed by the
// integer in the form of the underlying kind.
func (w *Writer) enum(v variant.Variant) {
	e := reflect.ValueOf(v.AsEnum())
	w.tag(binary.TagEnum)
	w.Type(e.Type())
	switch e.Kind() {
	case reflect.Int8:
		w.Int8(int8(e.Int()))
	case reflect.Int16:
		w.Int16(int16(e.Int()))
	case reflect.Int32:
		w.Int32(int32(e.Int()))
	case reflect.Int, reflect.Int64:
		w.Int64(e.Int())
	case reflect.Uint8:
		w.Uint8(uint8(e.Uint()))
	case reflect.Uint16:
		w.Uint16(uint16(e.Uint()))
	case reflect.Uint32:
		w.Uint32(uint32(e.Uint()))
	default:
		w.Uint64(e.Uint())
	}
}

// nest runs f one level deeper. Every maxDepth levels f is run by the
// executor and the writer waits for it to finish, so that the rest of the
// subtree is written on a fresh stack. The bytes are still written in order
// as the writer does nothing else while it waits.
func (w *Writer) nest(f func()) {
	w.depth++
	defer func() { w.depth-- }()
	if w.maxDepth <= 0 || w.depth%w.maxDepth != 0 {
		f()
		return
	}
	handoffs.Inc()
	log.D(w.ctx, "Continuing write at depth %d on another goroutine", w.depth)
	err := w.executor(w.ctx, func(context.Context) error {
		f()
		return nil
	}).Join()
	if err != nil {
		w.SetError(err)
	}
}
