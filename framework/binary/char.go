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

package binary

import "unicode/utf16"

// Char is a single UTF-16 code unit.
type Char uint16

// IsSurrogate returns true if c is half of a surrogate pair.
func (c Char) IsSurrogate() bool { return utf16.IsSurrogate(rune(c)) }

func (c Char) String() string { return string(rune(c)) }
