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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/objgraph/core/log"
	"github.com/google/objgraph/framework/binary/refs"
	"github.com/google/objgraph/framework/binary/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func run(t *testing.T, args ...string) (string, error) {
	cli.OsExiter = func(int) {}
	cli.ErrWriter = &bytes.Buffer{}
	out := &bytes.Buffer{}
	app := newApp()
	app.Writer = out
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run(append([]string{"objdump"}, args...))
	return out.String(), err
}

func write(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestDump(t *testing.T) {
	data, err := stream.Encode(log.Testing(t), []string{"left", "right", "left"})
	require.NoError(t, err)
	out, err := run(t, "dump", write(t, "strings.bin", data))
	require.NoError(t, err)
	assert.Contains(t, out, "Array3 len=3 elem=string")
	assert.Contains(t, out, `StringUtf8 #1 "right"`)
	assert.Contains(t, out, `StringRef1 #0 "left"`)
}

func TestDumpWithPreset(t *testing.T) {
	strs, err := refs.NewShared("left")
	require.NoError(t, err)
	data, err := stream.Encode(log.Testing(t), "left", stream.WithBaseStrings(strs))
	require.NoError(t, err)
	file := write(t, "ref.bin", data)

	_, err = run(t, "dump", file)
	assert.Error(t, err)

	yaml := write(t, "preset.yml", []byte("Name: sides\nStrings: [left]\n"))
	out, err := run(t, "--verbose", "dump", "--preset", yaml, file)
	require.NoError(t, err)
	assert.Contains(t, out, `StringRef1 #0 "left"`)
}

func TestStats(t *testing.T) {
	data, err := stream.Encode(log.Testing(t), []int32{1, 2})
	require.NoError(t, err)
	out, err := run(t, "stats", write(t, "ints.bin", data))
	require.NoError(t, err)
	assert.Contains(t, out, "bytes:  12\n")
	assert.Contains(t, out, "values: 1\n")
	assert.Contains(t, out, "Array2")
}

func TestPreset(t *testing.T) {
	yaml := write(t, "preset.yml", []byte("Name: p\nStrings: [a, b]\nTypes:\n  - Name: int32\n"))
	out, err := run(t, "preset", yaml)
	require.NoError(t, err)
	assert.Equal(t, "name:    p\nstrings: 2\ntypes:   1\n", out)

	bad := write(t, "bad.yml", []byte("Strings: [a, a]\n"))
	_, err = run(t, "preset", bad)
	assert.Error(t, err)
}

func TestMissingArguments(t *testing.T) {
	for _, cmd := range []string{"dump", "stats", "preset"} {
		_, err := run(t, cmd)
		assert.Error(t, err, cmd)
	}
	_, err := run(t, "dump", filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	for _, arg := range []string{"-v", "--version"} {
		out, err := run(t, arg)
		require.NoError(t, err, arg)
		assert.Equal(t, "objdump version dev\n", out, arg)
	}
}
