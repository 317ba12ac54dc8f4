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

// Package preset loads base tables shared by the writers and readers of a
// family of streams from YAML files.
//
// A preset file looks like:
//
//	Name: scene
//	Strings:
//	  - position
//	  - color
//	Types:
//	  - Assembly: github.com/example/scene
//	    Name: "*Node"
package preset

import (
	"os"

	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/refs"
	"github.com/google/objgraph/framework/binary/stream"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Preset is the contents of a preset file. The order of the entries is the
// order of the ids they are given, so it must not change once streams have
// been written with the preset.
type Preset struct {
	Name    string           `yaml:"Name"`
	Strings []string         `yaml:"Strings"`
	Types   []binary.TypeKey `yaml:"Types"`
}

// Tables holds the base tables built from a Preset.
type Tables struct {
	Strings *refs.Shared
	Types   *refs.Shared
}

// Parse decodes and validates a preset.
func Parse(data []byte) (Preset, error) {
	p := Preset{}
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return Preset{}, errors.Wrap(err, "failed to unmarshal preset YAML")
	}
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

// LoadFile loads the preset at path.
func LoadFile(path string) (Preset, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Preset{}, errors.Errorf("preset '%s' doesn't exist", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, errors.Wrap(err, "unable to read preset")
	}
	p, err := Parse(data)
	if err != nil {
		return Preset{}, errors.Wrapf(err, "preset '%s'", path)
	}
	return p, nil
}

// Validate checks that no entry is listed twice and that every type has a
// name.
func (p Preset) Validate() error {
	strs := make(map[string]bool, len(p.Strings))
	for _, s := range p.Strings {
		if strs[s] {
			return errors.Errorf("string %q is listed twice", s)
		}
		strs[s] = true
	}
	types := make(map[binary.TypeKey]bool, len(p.Types))
	for i, k := range p.Types {
		if k.Name == "" {
			return errors.Errorf("type %d has no name", i)
		}
		if types[k] {
			return errors.Errorf("type %v is listed twice", k)
		}
		types[k] = true
	}
	return nil
}

// Resolve builds the base tables of the preset, looking up each type with b.
// Every type must already be known to b.
func (p Preset) Resolve(b binary.Binder) (Tables, error) {
	types := make([]interface{}, len(p.Types))
	for i, k := range p.Types {
		t, ok := b.Type(k)
		if !ok {
			return Tables{}, errors.Wrapf(binary.ErrUnknownType{Key: k}, "resolving preset %s", p.Name)
		}
		types[i] = t
	}
	return newTables(p.strings(), types)
}

func newTables(strs, types []interface{}) (Tables, error) {
	s, err := refs.NewShared(strs...)
	if err != nil {
		return Tables{}, errors.Wrap(err, "building string table")
	}
	ty, err := refs.NewShared(types...)
	if err != nil {
		return Tables{}, errors.Wrap(err, "building type table")
	}
	return Tables{Strings: s, Types: ty}, nil
}

// Names builds tables that hold each type as its key string in place of the
// type itself. They need no binder and are only useful to stream.Walk and
// stream.Dump, which never resolve types.
func (p Preset) Names() (Tables, error) {
	names := make([]interface{}, len(p.Types))
	for i, k := range p.Types {
		names[i] = k.String()
	}
	return newTables(p.strings(), names)
}

func (p Preset) strings() []interface{} {
	strs := make([]interface{}, len(p.Strings))
	for i, s := range p.Strings {
		strs[i] = s
	}
	return strs
}

// Options returns the stream options that use the tables as bases.
func (t Tables) Options() []stream.Option {
	return []stream.Option{
		stream.WithBaseStrings(t.Strings),
		stream.WithBaseTypes(t.Types),
	}
}
