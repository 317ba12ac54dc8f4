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
	"testing"

	"github.com/google/objgraph/core/log"
	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/stream"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayLengths(t *testing.T) {
	ctx := log.Testing(t)
	for n, header := range [][]byte{
		{byte(binary.TagArray0), byte(binary.TagInt32)},
		{byte(binary.TagArray1), byte(binary.TagInt32)},
		{byte(binary.TagArray2), byte(binary.TagInt32)},
		{byte(binary.TagArray3), byte(binary.TagInt32)},
		{byte(binary.TagArray), 4, byte(binary.TagInt32)},
	} {
		a := make([]int32, n)
		for i := range a {
			a[i] = int32(i) - 1
		}
		data, err := stream.Encode(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, header, data[2:2+len(header)], "length %d", n)
		assert.Len(t, data, 2+len(header)+4*n, "length %d", n)
		assert.Equal(t, a, roundTrip(ctx, t, a), "length %d", n)
	}
}

func TestPrimitiveArrays(t *testing.T) {
	ctx := log.Testing(t)
	bools := make([]bool, 70)
	bools[0], bools[63], bools[69] = true, true, true
	for _, test := range []struct {
		value    interface{}
		expected interface{}
	}{
		{[]byte{1, 2, 0xff}, nil},
		{bools, nil},
		{[]int8{-1, 2}, nil},
		{[]int16{-300}, nil},
		{[]uint16{0, 0xffff}, nil},
		{[]uint32{7, 0xffffffff}, nil},
		{[]int64{-1 << 40}, nil},
		{[]uint64{1 << 63}, nil},
		{[]float32{0.5, -1}, nil},
		{[]float64{3.25}, nil},
		{[]binary.Char{'a', 0xd800}, nil},
		{[]string{"a", "", "a"}, nil},
		{[]int{1, -2}, []int64{1, -2}},
		{[3]int32{4, 5, 6}, []int32{4, 5, 6}},
		{[]int32{}, nil},
	} {
		expected := test.expected
		if expected == nil {
			expected = test.value
		}
		assert.Equal(t, expected, roundTrip(ctx, t, test.value), "%T", test.value)
	}
	assert.Nil(t, roundTrip(ctx, t, []int32(nil)))
}

func TestBoolArrayIsPacked(t *testing.T) {
	data, err := stream.Encode(log.Testing(t), []bool{true, false, false, true})
	require.NoError(t, err)
	expected := []byte{byte(binary.TagArray), 4, byte(binary.TagBooleanType), 0x09, 0, 0, 0, 0, 0, 0, 0}
	assert.Equal(t, expected, data[2:])
}

func TestStringArrayUsesReferences(t *testing.T) {
	data, err := stream.Encode(log.Testing(t), []string{"abc", "abc"})
	require.NoError(t, err)
	expected := []byte{
		byte(binary.TagArray2), byte(binary.TagStringType),
		byte(binary.TagStringUtf8), 3, 'a', 'b', 'c',
		byte(binary.TagStringRef1), 0,
	}
	assert.Equal(t, expected, data[2:])
}

func TestJaggedArrays(t *testing.T) {
	ctx := log.Testing(t)
	opt := stream.WithBinder(newBinder())
	jagged := [][]int32{{1}, nil, {2, 3, 4, 5, 6}}
	assert.Equal(t, jagged, roundTrip(ctx, t, jagged, opt))

	mixed := []interface{}{int32(1), "two", nil, []string{"three"}}
	assert.Equal(t, mixed, roundTrip(ctx, t, mixed, opt))

	rows := [][2]int32{{1, 2}, {3, 4}}
	assert.Equal(t, [][]int32{{1, 2}, {3, 4}}, roundTrip(ctx, t, rows, opt))

	ints := [][]int{{1, 2}, {}}
	assert.Equal(t, [][]int64{{1, 2}, {}}, roundTrip(ctx, t, ints, opt))
}

func TestMultiDimensionalArrays(t *testing.T) {
	ctx := log.Testing(t)
	for _, v := range []interface{}{
		[2][2]int32{},
		[][3][1]string{},
	} {
		buf := &bytes.Buffer{}
		w, err := stream.NewWriter(ctx, buf, stream.WithBinder(newBinder()))
		require.NoError(t, err)
		w.Value(v)
		assert.Equal(t, binary.ErrMultiDimensional, errors.Cause(w.Close()), "%T", v)
		assert.Equal(t, 2, buf.Len(), "%T: bytes written after the version", v)
	}
}

func TestArrayOfObjects(t *testing.T) {
	ctx := log.Testing(t)
	shared := &node{Value: 1}
	nodes := []*node{shared, nil, shared, {Value: 2}}
	got := roundTrip(ctx, t, nodes, stream.WithBinder(newBinder())).([]*node)
	require.Len(t, got, 4)
	assert.Equal(t, int32(1), got[0].Value)
	assert.Nil(t, got[1])
	assert.True(t, got[0] == got[2])
	assert.Equal(t, int32(2), got[3].Value)
}

func TestArrayElementMismatch(t *testing.T) {
	ctx := log.Testing(t)
	b := newBinder()
	data, err := stream.Encode(ctx, [][]int32{{1}}, stream.WithBinder(b))
	require.NoError(t, err)
	// Replace the inner array with a string.
	inner := []byte{byte(binary.TagArray1), byte(binary.TagInt32), 1, 0, 0, 0}
	require.True(t, bytes.HasSuffix(data, inner))
	data = append(data[:len(data)-len(inner):len(data)-len(inner)], byte(binary.TagStringUtf8), 1, 'x')
	_, err = stream.Decode(ctx, data, stream.WithBinder(b))
	assert.IsType(t, binary.ErrKindMismatch{}, errors.Cause(err))
}
