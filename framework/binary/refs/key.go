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

package refs

import (
	"reflect"

	"github.com/google/objgraph/framework/binary/variant"
)

type identity struct {
	t reflect.Type
	p uintptr
}

// Key returns the key v is deduplicated by, or nil if v cannot be
// deduplicated. Strings are keyed by value, types by the type itself and
// pointer shaped values by their type and address.
func Key(v interface{}) interface{} {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		return v
	case reflect.Type:
		return v
	}
	r := reflect.ValueOf(v)
	if variant.IsPointerShaped(r.Type()) && !r.IsNil() {
		return identity{r.Type(), r.Pointer()}
	}
	return nil
}
