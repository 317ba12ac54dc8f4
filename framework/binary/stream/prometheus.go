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

package stream

import "github.com/prometheus/client_golang/prometheus"

// Metrics used in monitoring stream encoding.
var (
	objectsWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of objects written in full",
			Name:      "objects_written_total",
			Namespace: "objgraph",
		},
	)

	objectsRead = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of objects rebuilt by readers",
			Name:      "objects_read_total",
			Namespace: "objgraph",
		},
	)

	handoffs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of deep writes continued on another goroutine",
			Name:      "write_handoffs_total",
			Namespace: "objgraph",
		},
	)
)

func init() {
	prometheus.MustRegister(
		objectsWritten,
		objectsRead,
		handoffs,
	)
}
