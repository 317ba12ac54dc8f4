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

package task_test

import (
	"context"
	"testing"

	"github.com/google/objgraph/core/event/task"
	"github.com/google/objgraph/core/fault"
	"github.com/google/objgraph/core/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const errTask = fault.Const("task failed")

type testTask struct {
	ran     bool
	release chan struct{}
}

func (t *testTask) run(context.Context) error {
	if t.release != nil {
		<-t.release
	}
	t.ran = true
	return nil
}

func TestPrepare(t *testing.T) {
	ctx := log.Testing(t)
	assert := assert.New(t)
	tester := testTask{}
	handle, runner := task.Prepare(ctx, tester.run)
	assert.False(tester.ran, "Ran before run")
	assert.False(handle.Fired(), "Handle before run")
	runner()
	assert.True(tester.ran, "Ran after run")
	assert.True(handle.Fired(), "Handle after run")
	assert.NoError(handle.Result(ctx))

	child, cancel := context.WithCancel(ctx)
	cancel()
	handle, runner = task.Prepare(child, tester.run)
	runner()
	assert.Equal(context.Canceled, handle.Result(ctx))
}

func TestPreparePanic(t *testing.T) {
	ctx := log.Testing(t)
	handle, runner := task.Prepare(ctx, func(context.Context) error { panic(errTask) })
	runner()
	err := handle.Join()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task failed")
}

func TestDirect(t *testing.T) {
	ctx := log.Testing(t)
	tester := testTask{}
	handle := task.Direct(ctx, tester.run)
	assert.True(t, tester.ran)
	assert.True(t, handle.Fired())
	assert.Equal(t, errTask, task.Direct(ctx, func(context.Context) error { return errTask }).Join())
}

func TestGo(t *testing.T) {
	ctx := log.Testing(t)
	assert := assert.New(t)
	tester := testTask{release: make(chan struct{})}
	handle := task.Go(ctx, tester.run)
	assert.False(handle.Fired(), "Go must not block on the task")
	close(tester.release)
	assert.NoError(handle.Join())
	assert.True(tester.ran)
}

func TestResultCancelled(t *testing.T) {
	ctx := log.Testing(t)
	tester := testTask{release: make(chan struct{})}
	handle := task.Go(ctx, tester.run)
	child, cancel := context.WithCancel(ctx)
	cancel()
	assert.Equal(t, context.Canceled, handle.Result(child))
	close(tester.release)
	assert.NoError(t, handle.Join())
}

func TestSignal(t *testing.T) {
	ctx := log.Testing(t)
	signal, fire := task.NewSignal()
	assert.False(t, signal.Fired())
	fire()
	fire()
	assert.True(t, signal.Fired())
	assert.True(t, signal.Wait(ctx))

	pending, _ := task.NewSignal()
	child, cancel := context.WithCancel(ctx)
	cancel()
	assert.False(t, pending.Wait(child))
	assert.True(t, task.Stopped(child))
	assert.Equal(t, context.Canceled, task.StopReason(child))
}
