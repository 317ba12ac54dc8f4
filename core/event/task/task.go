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

// Package task provides the minimal run-and-await machinery used to move a
// piece of work onto another goroutine and block until it has finished.
package task

import "context"

// Task is the unit of work used in the task system.
type Task func(context.Context) error

// Runner is the type for a task that has been prepared to run by an executor.
// Invoking the runner will execute the underlying task, and trigger the signal
// when it completes.
type Runner func()

// Prepare is used to build a new Handle,Runner pair for a Task.
// The Handle's signal will be closed when the task completes.
// The returned runner must be executed exactly once.
// A panic raised by the task is recovered and becomes the task's error, so a
// failure on a worker goroutine is reported to whoever waits on the handle
// instead of taking down the process.
func Prepare(ctx context.Context, task Task) (Handle, Runner) {
	var result error
	signal, fire := NewSignal()
	runner := func() {
		defer fire()
		defer func() {
			if r := recover(); r != nil {
				result = recovered(r)
			}
		}()
		if Stopped(ctx) {
			result = StopReason(ctx)
		} else {
			result = task(ctx)
		}
	}
	return Handle{signal, &result}, runner
}
