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

// Package refs holds the tables that assign ids to strings, types and objects
// as they are written and read.
//
// A Map is used by a writer to find the id of a value it has already written.
// A Table is used by a reader to find the value for an id. Both may sit on top
// of a Shared base table holding ids agreed before the stream starts. Local ids
// follow on from the base ids, and a value held by the base is never added
// locally. A Shared table has no base of its own, so tables are at most two
// levels deep.
//
// The storage behind Maps and Tables is pooled. Call Release once a session
// is done with a table.
package refs
