package queue

import (
	"context"
	"sync"

	"github.com/reusedev/koi/internal/modules/logs"
)

var JobQueue = NewTaskQueue(100)

// Run starts every task pushed to q in its own goroutine until ctx is done.
// Tasks still waiting in q at that point are dropped, running ones are waited for through wg.
func (q TaskQueue) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case task := <-q:
			wg.Add(1)
			go func() {
				defer wg.Done()
				task.Execute(ctx)
			}()
		case <-ctx.Done():
			logs.Logger.Info().Int("pending", len(q)).Msg("job queue stopped")
			return
		}
	}
}

func InitJobQueue(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go JobQueue.Run(ctx, wg)
}
