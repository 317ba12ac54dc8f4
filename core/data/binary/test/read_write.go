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

// Package test holds a table driven harness for checking implementations of
// binary.Reader and binary.Writer against expected byte sequences.
package test

import (
	"bytes"
	"io"
	"reflect"
	"testing"

	"github.com/google/objgraph/core/data/binary"
	"github.com/google/objgraph/core/fault"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// ReadWriteTests is a single table entry. Name is the name of the Reader and
// Writer method under test, Values a slice of values to pass to it and Data
// the bytes the values are expected to encode to.
type ReadWriteTests struct {
	Name   string
	Values interface{}
	Data   []byte
}

// Factory builds the Reader and Writer under test.
type Factory func(io.Reader, io.Writer) (binary.Reader, binary.Writer)

const (
	ReadError   = fault.Const("ReadError")
	WriteError  = fault.Const("WriteError")
	SecondError = fault.Const("SecondError")
)

// ReadWrite writes every value of every test, checks the bytes produced and
// then reads the values back.
func ReadWrite(t *testing.T, tests []ReadWriteTests, factory Factory) {
	for _, e := range tests {
		b := &bytes.Buffer{}
		reader, writer := factory(b, b)
		r := reflect.ValueOf(reader).MethodByName(e.Name)
		w := reflect.ValueOf(writer).MethodByName(e.Name)
		s := reflect.ValueOf(e.Values)
		for i := 0; i < s.Len(); i++ {
			w.Call([]reflect.Value{s.Index(i)})
		}
		assert.NoError(t, writer.Error(), e.Name)
		assert.Equal(t, e.Data, b.Bytes(), e.Name)
		for i := 0; i < s.Len(); i++ {
			got := r.Call(nil)[0]
			assert.NoError(t, reader.Error(), "%s[%d]", e.Name, i)
			assert.Equal(t, s.Index(i).Interface(), got.Interface(), "%s[%d]", e.Name, i)
		}
	}
}

// ReadWriteErrors checks that an error set on a Reader or Writer is sticky:
// subsequent calls are no-ops and the first error is kept.
func ReadWriteErrors(t *testing.T, tests []ReadWriteTests, factory Factory) {
	for _, e := range tests {
		b := &bytes.Buffer{}
		reader, writer := factory(b, b)
		r := reflect.ValueOf(reader).MethodByName(e.Name)
		w := reflect.ValueOf(writer).MethodByName(e.Name)
		s := reflect.ValueOf(e.Values)
		writer.SetError(WriteError)
		w.Call([]reflect.Value{s.Index(0)})
		assert.Equal(t, error(WriteError), writer.Error(), e.Name)
		assert.Zero(t, b.Len(), "%s: bytes written after error", e.Name)
		writer.SetError(SecondError)
		assert.Equal(t, error(WriteError), writer.Error(), e.Name)
		b.Write(e.Data)
		reader.SetError(ReadError)
		got := r.Call(nil)[0]
		assert.Equal(t, error(ReadError), reader.Error(), e.Name)
		assert.True(t, got.IsZero(), "%s: value read after error", e.Name)
		reader.SetError(SecondError)
		assert.Equal(t, error(ReadError), reader.Error(), e.Name)
	}
}

// ReadWriteIOErrors checks that failures of the underlying streams are
// reported.
func ReadWriteIOErrors(t *testing.T, tests []ReadWriteTests, factory Factory) {
	for _, e := range tests {
		reader, writer := factory(&bytes.Buffer{}, failingWriter{})
		r := reflect.ValueOf(reader).MethodByName(e.Name)
		w := reflect.ValueOf(writer).MethodByName(e.Name)
		s := reflect.ValueOf(e.Values)
		w.Call([]reflect.Value{s.Index(0)})
		assert.Equal(t, error(WriteError), errors.Cause(writer.Error()), e.Name)
		r.Call(nil)
		assert.Equal(t, io.ErrUnexpectedEOF, errors.Cause(reader.Error()), e.Name)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, WriteError }
