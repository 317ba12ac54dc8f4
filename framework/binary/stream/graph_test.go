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
	"bytes"
	"context"
	"io"
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/google/objgraph/core/event/task"
	"github.com/google/objgraph/core/log"
	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/refs"
	"github.com/google/objgraph/framework/binary/registry"
	"github.com/google/objgraph/framework/binary/stream"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLayout(t *testing.T) {
	ctx := log.Testing(t)
	r := &record{ID: 42, Name: "abc", Tags: []string{"abc", "abc"}}
	data, err := stream.Encode(ctx, r, stream.WithBinder(newBinder()))
	require.NoError(t, err)

	expected := []byte{0x0a, 0x00, byte(binary.TagObject), byte(binary.TagType)}
	expected = append(expected, byte(binary.TagStringUtf8), byte(len(pkg)))
	expected = append(expected, pkg...)
	expected = append(expected, byte(binary.TagStringUtf8), 7)
	expected = append(expected, "*record"...)
	expected = append(expected,
		3, // members
		byte(binary.TagInt32B1), 42,
		byte(binary.TagStringUtf8), 3, 'a', 'b', 'c',
		byte(binary.TagArray2), byte(binary.TagStringType),
		byte(binary.TagStringRef1), 2,
		byte(binary.TagStringRef1), 2,
	)
	assert.Equal(t, expected, data)

	got, err := stream.Decode(ctx, data, stream.WithBinder(newBinder()))
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestAllMemberKinds(t *testing.T) {
	ctx := log.Testing(t)
	d, err := binary.NewDecimal(big.NewInt(-12345), 3)
	require.NoError(t, err)
	v := &everything{
		B: true, I8: -8, U8: 8, I16: -16, U16: 16, I32: -32, U32: 32,
		I64: -64, U64: 64, F32: 0.25, F64: -0.5, D: d, C: 'c',
		T: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), S: "s",
	}
	got := roundTrip(ctx, t, v, stream.WithBinder(newBinder())).(*everything)
	assert.True(t, v.T.Equal(got.T))
	got.T = v.T
	assert.Equal(t, v, got)
}

func TestStringDeduplication(t *testing.T) {
	ctx := log.Testing(t)
	buf := &bytes.Buffer{}
	w, err := stream.NewWriter(ctx, buf)
	require.NoError(t, err)
	w.String("a fairly long string")
	first := buf.Len()
	w.String("a fairly long string")
	assert.Equal(t, 2, buf.Len()-first, "second write should be a back-reference")
	require.NoError(t, w.Close())

	r, err := stream.NewReader(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, "a fairly long string", r.String())
	assert.Equal(t, "a fairly long string", r.String())
	assert.NoError(t, r.Close())
}

func TestReferenceWidths(t *testing.T) {
	ctx := log.Testing(t)
	buf := &bytes.Buffer{}
	w, err := stream.NewWriter(ctx, buf)
	require.NoError(t, err)
	strs := make([]string, 70000)
	for i := range strs {
		strs[i] = string(rune(0x10000 + i))
		w.String(strs[i])
	}
	mark := buf.Len()
	w.String(strs[255])
	w.String(strs[256])
	w.String(strs[65536])
	require.NoError(t, w.Close())
	tail := buf.Bytes()[mark:]
	assert.Equal(t, []byte{
		byte(binary.TagStringRef1), 0xff,
		byte(binary.TagStringRef2), 0x00, 0x01,
		byte(binary.TagStringRef4), 0x00, 0x00, 0x01, 0x00,
	}, tail)

	r, err := stream.NewReader(ctx, buf)
	require.NoError(t, err)
	for _, s := range strs {
		require.Equal(t, s, r.String())
	}
	assert.Equal(t, strs[255], r.String())
	assert.Equal(t, strs[256], r.String())
	assert.Equal(t, strs[65536], r.String())
	assert.NoError(t, r.Close())
}

func TestIdentity(t *testing.T) {
	ctx := log.Testing(t)
	shared := &node{Value: 7}
	got := roundTrip(ctx, t, &pair{A: shared, B: shared}, stream.WithBinder(newBinder())).(*pair)
	assert.Equal(t, int32(7), got.A.Value)
	assert.True(t, got.A == got.B, "shared node should be read back once")

	got = roundTrip(ctx, t, &pair{A: &node{Value: 7}, B: &node{Value: 7}}, stream.WithBinder(newBinder())).(*pair)
	assert.Equal(t, got.A, got.B)
	assert.True(t, got.A != got.B, "equal nodes should stay distinct")
}

func TestValueObjectsAreNotShared(t *testing.T) {
	ctx := log.Testing(t)
	b := newBinder()
	shared := &node{Value: 1}
	in := []interface{}{coord{1, 2}, coord{1, 2}, shared, shared}
	data, err := stream.Encode(ctx, in, stream.WithBinder(b))
	require.NoError(t, err)
	out, err := stream.Decode(ctx, data, stream.WithBinder(b))
	require.NoError(t, err)
	got := out.([]interface{})
	require.Len(t, got, 4)
	assert.Equal(t, coord{1, 2}, got[0])
	assert.Equal(t, coord{1, 2}, got[1])
	assert.True(t, got[2].(*node) == got[3].(*node))
	// Object ids 0 and 1 are used by the coords, so the node is object 2.
	assert.Equal(t, []byte{byte(binary.TagObjectRef1), 2}, data[len(data)-2:])
}

func TestMemberCount(t *testing.T) {
	ctx := log.Testing(t)
	b := newBinder()
	ty := reflect.TypeOf(&miscount{})
	for _, want := range []int{1, 3} {
		data, err := stream.Encode(ctx, &miscount{want: want}, stream.WithBinder(b))
		require.NoError(t, err)
		_, err = stream.Decode(ctx, data, stream.WithBinder(b))
		assert.Equal(t, binary.ErrMemberCount{Type: ty, Expected: 2, Actual: want}, errors.Cause(err))
	}
	got := roundTrip(ctx, t, &miscount{want: 2}, stream.WithBinder(b))
	assert.Equal(t, &miscount{want: 2}, got)
}

func TestSharedBaseTables(t *testing.T) {
	ctx := log.Testing(t)
	strs, err := refs.NewShared("alpha", "beta")
	require.NoError(t, err)
	types, err := refs.NewShared(reflect.TypeOf(&record{}))
	require.NoError(t, err)
	opts := []stream.Option{
		stream.WithBinder(newBinder()),
		stream.WithBaseStrings(strs),
		stream.WithBaseTypes(types),
	}
	r := &record{ID: 1, Name: "beta", Tags: []string{"gamma", "alpha"}}

	first, err := stream.Encode(ctx, r, opts...)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x0a, 0x00,
		byte(binary.TagObject), byte(binary.TagTypeRef1), 0,
		3,
		byte(binary.TagInt32Small + 1),
		byte(binary.TagStringRef1), 1,
		byte(binary.TagArray2), byte(binary.TagStringType),
		byte(binary.TagStringUtf8), 5, 'g', 'a', 'm', 'm', 'a',
		byte(binary.TagStringRef1), 0,
	}, first)

	// The base tables are shared, not extended, so a second session is
	// encoded the same way.
	second, err := stream.Encode(ctx, r, opts...)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, strs.Len())

	for i := 0; i < 2; i++ {
		got, err := stream.Decode(ctx, first, opts...)
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err = stream.Decode(ctx, first, stream.WithBinder(newBinder()))
	assert.Error(t, err, "decoding without the base tables")
}

func TestSharedBaseObjects(t *testing.T) {
	ctx := log.Testing(t)
	root := &node{Value: 99}
	objects, err := refs.NewShared(root)
	require.NoError(t, err)
	opts := []stream.Option{stream.WithBinder(newBinder()), stream.WithBaseObjects(objects)}
	got := roundTrip(ctx, t, &pair{A: root, B: &node{Value: 1}}, opts...).(*pair)
	assert.True(t, got.A == root)
	assert.Equal(t, int32(1), got.B.Value)
}

func chain(n int) *node {
	var head *node
	for i := n - 1; i >= 0; i-- {
		head = &node{Value: int32(i), Next: head}
	}
	return head
}

func checkChain(t *testing.T, head *node, n int) {
	count := 0
	for ; head != nil; head = head.Next {
		require.Equal(t, int32(count), head.Value)
		count++
	}
	assert.Equal(t, n, count)
}

func TestDeepChain(t *testing.T) {
	ctx := log.Testing(t)
	const n = 10000
	for _, opts := range [][]stream.Option{
		{stream.WithBinder(newBinder())},
		{stream.WithBinder(newBinder()), stream.WithMaxDepth(3)},
		{stream.WithBinder(newBinder()), stream.WithMaxDepth(0)},
		{stream.WithBinder(newBinder()), stream.WithExecutor(task.Direct)},
	} {
		got := roundTrip(ctx, t, chain(n), opts...).(*node)
		checkChain(t, got, n)
	}
}

func TestDeepChainEncodingIsIndependentOfDepth(t *testing.T) {
	ctx := log.Testing(t)
	head := chain(500)
	a, err := stream.Encode(ctx, head, stream.WithBinder(newBinder()), stream.WithMaxDepth(0))
	require.NoError(t, err)
	b, err := stream.Encode(ctx, head, stream.WithBinder(newBinder()), stream.WithMaxDepth(2))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCycle(t *testing.T) {
	ctx := log.Testing(t)
	a := &node{Value: 1}
	a.Next = &node{Value: 2, Next: a}
	data, err := stream.Encode(ctx, a, stream.WithBinder(newBinder()))
	require.NoError(t, err)
	_, err = stream.Decode(ctx, data, stream.WithBinder(newBinder()))
	assert.Equal(t, binary.ErrPendingReference, errors.Cause(err))
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(log.Testing(t))
	cancel()
	_, err := stream.Encode(ctx, chain(3), stream.WithBinder(newBinder()))
	assert.Equal(t, context.Canceled, errors.Cause(err))

	data, err := stream.Encode(log.Testing(t), chain(3), stream.WithBinder(newBinder()))
	require.NoError(t, err)
	_, err = stream.Decode(ctx, data, stream.WithBinder(newBinder()))
	assert.Equal(t, context.Canceled, errors.Cause(err))
}

func TestNoBinder(t *testing.T) {
	ctx := log.Testing(t)
	_, err := stream.Encode(ctx, &node{})
	assert.Equal(t, binary.ErrNoBinder, errors.Cause(err))

	data, err := stream.Encode(ctx, &node{}, stream.WithBinder(newBinder()))
	require.NoError(t, err)
	_, err = stream.Decode(ctx, data)
	assert.Equal(t, binary.ErrNoBinder, errors.Cause(err))
}

func TestNotSerializable(t *testing.T) {
	ctx := log.Testing(t)
	_, err := stream.Encode(ctx, complex(1, 2))
	assert.IsType(t, binary.ErrNotSerializable{}, errors.Cause(err))
	_, err = stream.Encode(ctx, struct{ X int }{1}, stream.WithBinder(newBinder()))
	assert.IsType(t, binary.ErrNotSerializable{}, errors.Cause(err))
}

func TestUnknownType(t *testing.T) {
	ctx := log.Testing(t)
	data, err := stream.Encode(ctx, &node{}, stream.WithBinder(newBinder()))
	require.NoError(t, err)
	_, err = stream.Decode(ctx, data, stream.WithBinder(registry.NewSimple()))
	assert.Equal(t, binary.ErrUnknownType{Key: binary.TypeKey{Assembly: pkg, Name: "*node"}}, errors.Cause(err))
}

func TestNoReader(t *testing.T) {
	ctx := log.Testing(t)
	b := registry.NewRecording()
	data, err := stream.Encode(ctx, label{"x"}, stream.WithBinder(b))
	require.NoError(t, err)
	_, err = stream.Decode(ctx, data, stream.WithBinder(b))
	assert.Equal(t, binary.ErrNoReader{Type: reflect.TypeOf(label{})}, errors.Cause(err))
}

func TestMalformedStreams(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name  string
		data  []byte
		cause error
	}{
		{"empty", nil, io.ErrUnexpectedEOF},
		{"bad version", []byte{0x0b, 0x00, 0x00}, binary.ErrVersion},
		{"no value", []byte{0x0a, 0x00}, io.ErrUnexpectedEOF},
		{"unknown tag", []byte{0x0a, 0x00, 0xff}, binary.ErrUnexpectedTag{Tag: 0xff}},
		{"string ref", []byte{0x0a, 0x00, byte(binary.TagStringRef1), 5},
			binary.ErrReferenceRange{Table: "string", ID: 5, Len: 0}},
		{"object ref", []byte{0x0a, 0x00, byte(binary.TagObjectRef2), 1, 0},
			binary.ErrReferenceRange{Table: "object", ID: 1, Len: 0}},
		{"truncated string", []byte{0x0a, 0x00, byte(binary.TagStringUtf8), 4, 'a'}, io.ErrUnexpectedEOF},
		{"truncated array", []byte{0x0a, 0x00, byte(binary.TagArray), 9, byte(binary.TagInt64)}, io.ErrUnexpectedEOF},
		{"bad vle", []byte{0x0a, 0x00, byte(binary.TagStringUtf8), 0xc0}, nil},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := stream.Decode(log.SubTest(ctx, t), test.data, stream.WithBinder(newBinder()))
			if assert.Error(t, err) && test.cause != nil {
				assert.Equal(t, test.cause, errors.Cause(err))
			}
		})
	}
}

func TestStickyReaderError(t *testing.T) {
	ctx := log.Testing(t)
	data, err := stream.Encode(ctx, int32(5))
	require.NoError(t, err)
	r, err := stream.NewReader(ctx, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "", r.String())
	assert.IsType(t, binary.ErrKindMismatch{}, errors.Cause(r.Error()))
	assert.Equal(t, int32(0), r.Int32())
	assert.IsType(t, binary.ErrKindMismatch{}, errors.Cause(r.Close()))
}

func TestStringCache(t *testing.T) {
	ctx := log.Testing(t)
	cache, err := lru.New(8)
	require.NoError(t, err)
	data, err := stream.Encode(ctx, []string{"x", "y", "x"})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		got, err := stream.Decode(ctx, data, stream.WithStringCache(cache))
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y", "x"}, got)
	}
	assert.Equal(t, 2, cache.Len())
	assert.True(t, cache.Contains("x"))
}

func TestConcurrentSessions(t *testing.T) {
	ctx := log.Testing(t)
	b := newBinder()
	done := make(chan error)
	for i := 0; i < 8; i++ {
		go func(i int) {
			r := &record{ID: int32(i), Name: "session", Tags: []string{"t"}}
			data, err := stream.Encode(ctx, r, stream.WithBinder(b))
			if err == nil {
				var got interface{}
				got, err = stream.Decode(ctx, data, stream.WithBinder(b))
				if err == nil && !reflect.DeepEqual(r, got) {
					err = errors.Errorf("session %d read back %+v", i, got)
				}
			}
			done <- err
		}(i)
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-done)
	}
}
