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

import "github.com/spaolacci/murmur3"

// TypeKey identifies a type across a stream boundary.
// Assembly is the package path of the type and Name the name of the type
// within that package.
type TypeKey struct {
	Assembly string `yaml:"Assembly"`
	Name     string `yaml:"Name"`
}

func (k TypeKey) String() string {
	if k.Assembly == "" {
		return k.Name
	}
	return k.Assembly + "." + k.Name
}

// Hash combines the hashes of both parts of the key.
func (k TypeKey) Hash() uint32 {
	a := murmur3.Sum32([]byte(k.Assembly))
	n := murmur3.Sum32([]byte(k.Name))
	return a*31 + n
}
