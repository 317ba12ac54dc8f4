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

import "github.com/prometheus/client_golang/prometheus"

// Metrics used in monitoring table pooling.
var (
	poolReturned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of table backing stores returned to the pool",
			Name:      "table_pool_returned_total",
			Namespace: "objgraph",
		},
		[]string{"store"},
	)

	poolDiscarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of oversized table backing stores dropped instead of pooled",
			Name:      "table_pool_discarded_total",
			Namespace: "objgraph",
		},
		[]string{"store"},
	)
)

func init() {
	prometheus.MustRegister(
		poolReturned,
		poolDiscarded,
	)
}
