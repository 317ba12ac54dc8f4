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

package fault

// One collects only the first error it is given.
// It is the backing store for the sticky Error/SetError pairs used by the
// readers and writers.
type One struct{ err error }

// First returns the first error collected, or nil.
func (o *One) First() error {
	return o.err
}

// Collect stores err if no error has been collected yet.
// Nil errors are ignored.
func (o *One) Collect(err error) {
	if o.err != nil || err == nil {
		return
	}
	o.err = err
}

// Failed returns true once an error has been collected.
func (o *One) Failed() bool {
	return o.err != nil
}
