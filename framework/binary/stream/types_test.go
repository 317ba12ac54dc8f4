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

package stream_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/registry"
	"github.com/google/objgraph/framework/binary/stream"
	"github.com/stretchr/testify/require"
)

const pkg = "github.com/google/objgraph/framework/binary/stream_test"

type record struct {
	ID   int32
	Name string
	Tags []string
}

func (r *record) Encode(e binary.Encoder) {
	e.Int32(r.ID)
	e.String(r.Name)
	e.Value(r.Tags)
}

func (*record) Constructor() binary.ReadFunc {
	return func(d binary.Decoder) (interface{}, error) {
		r := &record{ID: d.Int32(), Name: d.String()}
		r.Tags, _ = d.Value().([]string)
		return r, nil
	}
}

type node struct {
	Value int32
	Next  *node
}

func (n *node) Encode(e binary.Encoder) {
	e.Int32(n.Value)
	e.Value(n.Next)
}

func (*node) Constructor() binary.ReadFunc {
	return func(d binary.Decoder) (interface{}, error) {
		n := &node{Value: d.Int32()}
		n.Next, _ = d.Value().(*node)
		return n, nil
	}
}

type pair struct{ A, B *node }

func (p *pair) Encode(e binary.Encoder) {
	e.Value(p.A)
	e.Value(p.B)
}

func (*pair) Constructor() binary.ReadFunc {
	return func(d binary.Decoder) (interface{}, error) {
		p := &pair{}
		p.A, _ = d.Value().(*node)
		p.B, _ = d.Value().(*node)
		return p, nil
	}
}

// coord has no identity: every occurrence is written in full.
type coord struct{ X, Y int32 }

func (c coord) Encode(e binary.Encoder) {
	e.Int32(c.X)
	e.Int32(c.Y)
}

func (coord) Constructor() binary.ReadFunc {
	return func(d binary.Decoder) (interface{}, error) {
		return coord{X: d.Int32(), Y: d.Int32()}, nil
	}
}

// label can be written but not read.
type label struct{ text string }

func (l label) Encode(e binary.Encoder) { e.String(l.text) }

// miscount writes two members but its reader consumes want of them.
type miscount struct{ want int }

func (m *miscount) Encode(e binary.Encoder) {
	e.Int32(int32(m.want))
	e.Int32(0)
}

func (*miscount) Constructor() binary.ReadFunc {
	return func(d binary.Decoder) (interface{}, error) {
		want := int(d.Int32())
		for i := 1; i < want; i++ {
			d.Int32()
		}
		return &miscount{want: want}, nil
	}
}

type weekday uint8

type temperature int16

// everything carries a member of each primitive kind.
type everything struct {
	B   bool
	I8  int8
	U8  uint8
	I16 int16
	U16 uint16
	I32 int32
	U32 uint32
	I64 int64
	U64 uint64
	F32 float32
	F64 float64
	D   binary.Decimal
	C   binary.Char
	T   time.Time
	S   string
}

func (v *everything) Encode(e binary.Encoder) {
	e.Bool(v.B)
	e.Int8(v.I8)
	e.Uint8(v.U8)
	e.Int16(v.I16)
	e.Uint16(v.U16)
	e.Int32(v.I32)
	e.Uint32(v.U32)
	e.Int64(v.I64)
	e.Uint64(v.U64)
	e.Float32(v.F32)
	e.Float64(v.F64)
	e.Decimal(v.D)
	e.Char(v.C)
	e.Time(v.T)
	e.String(v.S)
}

func (*everything) Constructor() binary.ReadFunc {
	return func(d binary.Decoder) (interface{}, error) {
		return &everything{
			B:   d.Bool(),
			I8:  d.Int8(),
			U8:  d.Uint8(),
			I16: d.Int16(),
			U16: d.Uint16(),
			I32: d.Int32(),
			U32: d.Uint32(),
			I64: d.Int64(),
			U64: d.Uint64(),
			F32: d.Float32(),
			F64: d.Float64(),
			D:   d.Decimal(),
			C:   d.Char(),
			T:   d.Time(),
			S:   d.String(),
		}, nil
	}
}

func newBinder() *registry.Recording {
	b := registry.NewRecording()
	registry.Register(b, &record{}, &node{}, &pair{}, coord{}, &miscount{}, &everything{}, weekday(0), temperature(0))
	return b
}

func roundTrip(ctx context.Context, t *testing.T, v interface{}, opts ...stream.Option) interface{} {
	data, err := stream.Encode(ctx, v, opts...)
	require.NoError(t, err, "encoding %v", v)
	got, err := stream.Decode(ctx, data, opts...)
	require.NoError(t, err, "decoding %v", v)
	return got
}
