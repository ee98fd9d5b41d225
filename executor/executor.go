/*
 *
 * Copyright 2026 kafkametrics authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package executor provides a scheduled executor that runs recurring tasks at
// a fixed rate on a single dedicated goroutine.
package executor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/stepio/kafkametrics/internal/logging"
)

var logger = logging.Component("executor")

// ErrShutdown is returned when scheduling on an executor that has been shut
// down.
var ErrShutdown = errors.New("executor: shut down")

// Task is a handle to a scheduled recurring task.
type Task interface {
	// Cancel stops future runs of the task. Once Cancel returns, no new run
	// starts; a run in progress is waited for. Cancel is idempotent and must
	// not be called from within the task itself.
	Cancel()
}

// ScheduledExecutor runs recurring tasks.
type ScheduledExecutor interface {
	// ScheduleAtFixedRate runs task first after initialDelay and then every
	// period, measured from the first run's scheduled time. Runs never
	// overlap. If a run panics, the panic is logged and all subsequent runs
	// of the task are suppressed.
	ScheduleAtFixedRate(task func(), initialDelay, period time.Duration) (Task, error)
	// Shutdown cancels every scheduled task and stops the executor. It is
	// idempotent and must not be called from within a task.
	Shutdown()
}

// singleThreadExecutor runs all of its tasks on one worker goroutine. Each
// task has its own timer goroutine that enqueues it when it is due.
type singleThreadExecutor struct {
	mu       sync.Mutex
	cond     *sync.Cond
	runq     *queue.Queue // of *fixedRateTask
	tasks    map[*fixedRateTask]struct{}
	shutdown bool

	done chan struct{}
}

// NewSingleThreadScheduledExecutor returns a ScheduledExecutor backed by one
// worker goroutine. The caller owns it and must call Shutdown.
func NewSingleThreadScheduledExecutor() ScheduledExecutor {
	e := &singleThreadExecutor{
		runq:  queue.New(),
		tasks: make(map[*fixedRateTask]struct{}),
		done:  make(chan struct{}),
	}
	e.cond = sync.NewCond(&e.mu)
	go e.run()
	return e
}

func (e *singleThreadExecutor) ScheduleAtFixedRate(task func(), initialDelay, period time.Duration) (Task, error) {
	if task == nil {
		return nil, errors.New("executor: nil task")
	}
	if period <= 0 {
		return nil, fmt.Errorf("executor: period must be positive, got %v", period)
	}
	if initialDelay < 0 {
		initialDelay = 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shutdown {
		return nil, ErrShutdown
	}
	t := &fixedRateTask{
		exec:      e,
		fn:        task,
		stop:      make(chan struct{}),
		timerDone: make(chan struct{}),
	}
	e.tasks[t] = struct{}{}
	go t.tick(initialDelay, period)
	return t, nil
}

func (e *singleThreadExecutor) Shutdown() {
	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		<-e.done
		return
	}
	e.shutdown = true
	tasks := make([]*fixedRateTask, 0, len(e.tasks))
	for t := range e.tasks {
		tasks = append(tasks, t)
	}
	e.cond.Broadcast()
	e.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}
	<-e.done
}

// enqueue queues t for a run unless a run of t is already queued.
func (e *singleThreadExecutor) enqueue(t *fixedRateTask) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shutdown || t.queued {
		return
	}
	t.queued = true
	e.runq.Add(t)
	e.cond.Signal()
}

func (e *singleThreadExecutor) forget(t *fixedRateTask) {
	e.mu.Lock()
	delete(e.tasks, t)
	e.mu.Unlock()
}

func (e *singleThreadExecutor) run() {
	defer close(e.done)
	for {
		e.mu.Lock()
		for e.runq.Length() == 0 && !e.shutdown {
			e.cond.Wait()
		}
		if e.shutdown {
			e.mu.Unlock()
			return
		}
		t := e.runq.Remove().(*fixedRateTask)
		t.queued = false
		e.mu.Unlock()

		t.execute()
	}
}

type fixedRateTask struct {
	exec *singleThreadExecutor
	fn   func()

	// queued is guarded by exec.mu.
	queued bool

	// mu is held for the duration of each run, so Cancel can wait for an
	// in-flight run.
	mu        sync.Mutex
	cancelled bool

	stopOnce  sync.Once
	stop      chan struct{}
	timerDone chan struct{}
}

func (t *fixedRateTask) tick(initialDelay, period time.Duration) {
	defer close(t.timerDone)

	timer := time.NewTimer(initialDelay)
	select {
	case <-t.stop:
		timer.Stop()
		return
	case <-timer.C:
	}
	t.exec.enqueue(t)

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.exec.enqueue(t)
		}
	}
}

func (t *fixedRateTask) execute() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Recurring task panicked, suppressing subsequent runs: %v", r)
			t.cancelled = true
			t.stopTimer()
		}
	}()
	t.fn()
}

func (t *fixedRateTask) stopTimer() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *fixedRateTask) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
	t.stopTimer()
	<-t.timerDone
	t.exec.forget(t)
}
