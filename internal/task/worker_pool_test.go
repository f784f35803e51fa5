package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockTaskQueue implements TaskQueueReader for testing
type mockTaskQueue struct {
	ch chan Task
}

func newMockTaskQueue() *mockTaskQueue {
	return &mockTaskQueue{
		ch: make(chan Task, 10),
	}
}

func (m *mockTaskQueue) GetChannel() <-chan Task {
	return m.ch
}

func TestNewWorkerPool(t *testing.T) {
	logger := setupTestLogger()
	taskQueue := newMockTaskQueue()

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 5}, logger)
	assert.Equal(t, 5, pool.workerCount)
	assert.Equal(t, taskQueue, pool.taskQueue)
	assert.Nil(t, pool.errorHandler)

	tests := []int{0, -5}
	for _, count := range tests {
		pool = NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: count}, logger)
		assert.Equal(t, 1, pool.workerCount)
	}

	assert.Equal(t, 2, DefaultWorkerPoolConfig().WorkerCount)
}

func TestWorkerPool_StartStopIdempotent(t *testing.T) {
	pool := NewWorkerPool(newMockTaskQueue(), DefaultWorkerPoolConfig(), setupTestLogger())

	pool.Start()
	pool.Start()
	pool.Stop()
	pool.Stop()
}

func TestWorkerPool_ProcessTask_Success(t *testing.T) {
	taskQueue := newMockTaskQueue()
	completed := make(chan struct{})

	task := newMockTask()
	task.execFn = func(ctx context.Context) error {
		close(completed)
		return nil
	}

	var handlerCalls atomic.Int32
	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
	pool.SetErrorHandler(func(Task, error) { handlerCalls.Add(1) })
	pool.Start()
	defer pool.Stop()

	taskQueue.ch <- task

	select {
	case <-completed:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for task to complete")
	}
	assert.Equal(t, int32(0), handlerCalls.Load())
}

func TestWorkerPool_ProcessTask_Error(t *testing.T) {
	taskQueue := newMockTaskQueue()
	errorHandled := make(chan error, 1)

	expectedErr := errors.New("test error")
	task := newMockTask()
	task.execFn = func(ctx context.Context) error {
		return expectedErr
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
	pool.SetErrorHandler(func(failed Task, err error) {
		assert.Equal(t, task.ID(), failed.ID())
		errorHandled <- err
	})
	pool.Start()
	defer pool.Stop()

	taskQueue.ch <- task

	select {
	case err := <-errorHandled:
		assert.Equal(t, expectedErr, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for error handler")
	}
}

func TestWorkerPool_ProcessTask_Panic(t *testing.T) {
	taskQueue := newMockTaskQueue()
	errorHandled := make(chan error, 1)

	panicking := newMockTask()
	panicking.execFn = func(ctx context.Context) error {
		panic("test panic")
	}
	after := make(chan struct{})
	next := newMockTask()
	next.execFn = func(ctx context.Context) error {
		close(after)
		return nil
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
	pool.SetErrorHandler(func(task Task, err error) {
		errorHandled <- err
	})
	pool.Start()
	defer pool.Stop()

	taskQueue.ch <- panicking
	taskQueue.ch <- next

	select {
	case err := <-errorHandled:
		assert.Contains(t, err.Error(), "panic")
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for error handler after panic")
	}

	// The worker survives the panic and keeps consuming
	select {
	case <-after:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("worker did not process the task after a panic")
	}
}

func TestWorkerPool_StopCancelsRunningTask(t *testing.T) {
	taskQueue := newMockTaskQueue()
	taskStarted := make(chan struct{})
	taskCancelled := make(chan struct{})

	task := newMockTask()
	task.execFn = func(ctx context.Context) error {
		close(taskStarted)
		<-ctx.Done()
		close(taskCancelled)
		return ctx.Err()
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
	pool.Start()

	taskQueue.ch <- task

	select {
	case <-taskStarted:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for task to start")
	}

	stopDone := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopDone)
	}()

	select {
	case <-taskCancelled:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for task to be canceled")
	}

	select {
	case <-stopDone:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for worker pool to stop")
	}
}

func TestWorkerPool_ClosedQueueStopsWorkers(t *testing.T) {
	queue := NewTaskQueue(4, setupTestLogger())
	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		task := newMockTask()
		task.execFn = func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}
		assert.NoError(t, queue.Enqueue(task))
	}
	queue.Close()

	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 2}, setupTestLogger())
	pool.Start()

	// Workers drain the buffered tasks, then exit on the closed channel.
	done := make(chan struct{})
	go func() {
		pool.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not exit after queue close")
	}
	assert.Equal(t, int32(3), ran.Load())
	pool.Stop()
}
