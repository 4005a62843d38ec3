package job

import (
	"context"
	"errors"
	"time"

	"github.com/reusedev/koi/internal/consts"
)

type QueryFunc func(ctx context.Context) (consts.JobStatus, error)

// Poller repeats a status query until the backend reports a terminal status.
// MaxAttempts and Timeout of zero mean no limit.
type Poller struct {
	RequestInterval time.Duration
	MaxAttempts     int
	Timeout         time.Duration
}

func NewPoller(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{
		RequestInterval: interval,
	}
}

func (p *Poller) WithLimits(maxAttempts int, timeout time.Duration) *Poller {
	p.MaxAttempts = maxAttempts
	p.Timeout = timeout
	return p
}

// Poll returns the terminal status and the number of queries issued. onAttempt,
// if set, sees every non-terminal status.
func (p *Poller) Poll(ctx context.Context, query QueryFunc, onAttempt func(attempt int, status consts.JobStatus)) (consts.JobStatus, int, error) {
	pollCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	attempts := 0
	for {
		attempts++
		status, err := query(pollCtx)
		if err != nil {
			if ctx.Err() == nil && errors.Is(pollCtx.Err(), context.DeadlineExceeded) {
				return "", attempts, ErrPollTimeout
			}
			return "", attempts, err
		}
		if status.Terminal() {
			return status, attempts, nil
		}
		if onAttempt != nil {
			onAttempt(attempts, status)
		}
		if p.MaxAttempts > 0 && attempts >= p.MaxAttempts {
			return status, attempts, ErrPollTimeout
		}

		select {
		case <-time.After(p.RequestInterval):
		case <-pollCtx.Done():
			if ctx.Err() == nil {
				return status, attempts, ErrPollTimeout
			}
			return status, attempts, ctx.Err()
		}
	}
}
