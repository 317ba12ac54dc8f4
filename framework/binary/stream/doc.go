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

// Package stream implements the Writer and Reader of encoded object graphs.
//
// A Writer emits one encoded value per call, replacing strings, types and
// objects it has already written with back-references. Nested objects are
// written recursively; every MaxDepth levels the remaining work for a subtree
// is moved onto a fresh goroutine so that deep graphs cannot exhaust the
// stack.
//
// A Reader never recurses. Objects and arrays whose members are still to be
// read are held as frames on an explicit stack, and decoded values collect on
// a value stack until their frame has all of its members.
//
// Cyclic graphs are not supported. An object that refers back to an object
// that encloses it fails to read with binary.ErrPendingReference.
package stream
