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

// Package binary holds the contracts shared by the object graph encoder and
// decoder.
//
// A stream is a two byte version marker followed by a sequence of encoded
// values. Every encoded value starts with a single Tag byte that identifies
// the kind of value and the shape of the payload that follows it.
//
// Strings, types and objects are written in full the first time they are seen
// and are assigned the next id in their table. Every later occurrence is
// written as a back-reference to that id, using the narrowest of the 1, 2 or 4
// byte reference tags that can hold it. Strings are matched by value, types and
// objects by identity.
//
// Types that are not built into the format take part through the Writable
// contract: Encode writes the members of the value as a sequence of further
// encoded values, and the ReadFunc returned by Readable.Constructor builds a
// new value from exactly the same sequence. A Binder maps between Go types and
// the TypeKey that identifies them on the wire, and supplies those functions
// to the stream.
//
// The concrete Binder implementations live in the registry package, and the
// stream package holds the Writer and Reader.
package binary
