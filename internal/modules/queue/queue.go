package queue

import (
	"context"
	"errors"
)

var ErrQueueFull = errors.New("task queue is full")

type Task interface {
	Execute(ctx context.Context)
}

type TaskQueue chan Task

func NewTaskQueue(size int) TaskQueue {
	return make(TaskQueue, size)
}

// Push never blocks, a full queue is reported to the caller instead.
func (q TaskQueue) Push(task Task) error {
	select {
	case q <- task:
		return nil
	default:
		return ErrQueueFull
	}
}
