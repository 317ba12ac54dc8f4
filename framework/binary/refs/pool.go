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
	"sync"

	"go.uber.org/atomic"
)

// MaxPooled is the largest number of entries a table may hold and still have
// its storage returned to the pool.
const MaxPooled = 1024

var (
	mapPool = sync.Pool{New: func() interface{} {
		allocated.Inc()
		return make(map[interface{}]uint32)
	}}
	slicePool = sync.Pool{New: func() interface{} {
		allocated.Inc()
		return make([]interface{}, 0, 16)
	}}

	allocated = atomic.NewUint64(0)
	returned  = atomic.NewUint64(0)
	discarded = atomic.NewUint64(0)
)

// PoolStats counts the storage handled by the table pools since the process
// started.
type PoolStats struct {
	// Allocated is the number of backing maps and slices created.
	Allocated uint64
	// Returned is the number put back into a pool for reuse.
	Returned uint64
	// Discarded is the number dropped for being larger than MaxPooled.
	Discarded uint64
}

// Stats returns the current pool counters.
func Stats() PoolStats {
	return PoolStats{
		Allocated: allocated.Load(),
		Returned:  returned.Load(),
		Discarded: discarded.Load(),
	}
}

func getMap() map[interface{}]uint32 {
	return mapPool.Get().(map[interface{}]uint32)
}

func putMap(m map[interface{}]uint32) {
	if len(m) > MaxPooled {
		discarded.Inc()
		poolDiscarded.WithLabelValues("map").Inc()
		return
	}
	for k := range m {
		delete(m, k)
	}
	returned.Inc()
	poolReturned.WithLabelValues("map").Inc()
	mapPool.Put(m)
}

func getSlice() []interface{} {
	return slicePool.Get().([]interface{})
}

func putSlice(s []interface{}) {
	if len(s) > MaxPooled {
		discarded.Inc()
		poolDiscarded.WithLabelValues("slice").Inc()
		return
	}
	for i := range s {
		s[i] = nil
	}
	returned.Inc()
	poolReturned.WithLabelValues("slice").Inc()
	slicePool.Put(s[:0])
}
