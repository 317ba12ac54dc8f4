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

// Package vle implements the compressed unsigned integer used for lengths,
// counts and reference ids.
//
// Values of up to 30 bits are encoded into 1, 2 or 4 bytes. The top two bits
// of the first byte give the width, and the value is stored big-endian in the
// remaining bits:
//
//   00xxxxxx                            values up to 0x3F
//   01xxxxxx xxxxxxxx                   values up to 0x3FFF
//   10xxxxxx xxxxxxxx xxxxxxxx xxxxxxxx values up to 0x3FFFFFFF
//
// The prefix 11 is never written. Larger values cannot be encoded and fail
// with binary.ErrTooLarge.
package vle
