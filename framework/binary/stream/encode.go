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
	"bytes"
	"context"
)

// Encode returns the stream holding the single value v.
func Encode(ctx context.Context, v interface{}, opts ...Option) ([]byte, error) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(ctx, buf, opts...)
	if err != nil {
		return nil, err
	}
	w.Value(v)
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode returns the first value held in data.
func Decode(ctx context.Context, data []byte, opts ...Option) (interface{}, error) {
	r, err := NewReader(ctx, bytes.NewReader(data), opts...)
	if err != nil {
		return nil, err
	}
	v := r.Value()
	if err := r.Close(); err != nil {
		return nil, err
	}
	return v, nil
}
