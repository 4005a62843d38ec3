package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reusedev/koi/internal/consts"
	"github.com/reusedev/koi/internal/modules/logs"
	"github.com/reusedev/koi/internal/modules/observer"
)

// Backend is the remote half of a job. *Client implements it.
type Backend interface {
	Upload(ctx context.Context, jobID string, image []byte) (string, error)
	Enqueue(ctx context.Context, jobID string, request *Request, filename string) error
	Status(ctx context.Context, jobID string) (consts.JobStatus, error)
	FetchImage(ctx context.Context, jobID string) ([]byte, error)
}

// Job drives one Request through upload, enqueue, poll and fetch. Its outcome
// is delivered once on the done channel.
type Job struct {
	ID        string
	Request   Request
	backend   Backend
	poller    *Poller
	observers observer.Observers
	done      chan<- Outcome

	submittedAt time.Time
	polls       int
}

func NewJob(request Request, backend Backend, poller *Poller, done chan<- Outcome, observers ...observer.Observer) *Job {
	return &Job{
		ID:          uuid.NewString(),
		Request:     request,
		backend:     backend,
		poller:      poller,
		observers:   observers,
		done:        done,
		submittedAt: time.Now(),
	}
}

// Execute runs the job and hands the outcome to whoever waits on done.
func (j *Job) Execute(ctx context.Context) {
	outcome := j.Run(ctx)
	if c, ok := j.backend.(interface{ Close() }); ok {
		c.Close()
	}
	if j.done == nil {
		return
	}
	select {
	case j.done <- outcome:
	case <-ctx.Done():
		logs.ForJob(j.ID).Warn().Str("status", outcome.Status.String()).
			Msg("job outcome dropped, panel is shutting down")
	}
}

// Announce publishes the job as submitted. Call it before the job is queued so
// the id is known to observers as soon as it is handed out.
func (j *Job) Announce() {
	logs.ForJob(j.ID).Info().Str("prompt", j.Request.Prompt).
		Int64("seed", j.Request.Seed).Int("width", j.Request.Width).Int("height", j.Request.Height).
		Msg("job submitted")
	j.notify(consts.EventJobSubmitted, j.snapshot(consts.JobStatusSubmitted, ""))
}

// Abort ends an announced job that never ran.
func (j *Job) Abort(err error) Outcome {
	return j.fail(consts.PhaseQueue, err)
}

// Run performs the four phases in order and never returns without a terminal outcome.
func (j *Job) Run(ctx context.Context) Outcome {
	filename, err := j.backend.Upload(ctx, j.ID, j.Request.Image)
	if err != nil {
		return j.fail(consts.PhaseUpload, err)
	}
	err = j.backend.Enqueue(ctx, j.ID, &j.Request, filename)
	if err != nil {
		return j.fail(consts.PhaseEnqueue, err)
	}

	status, polls, err := j.poller.Poll(ctx,
		func(ctx context.Context) (consts.JobStatus, error) {
			return j.backend.Status(ctx, j.ID)
		},
		func(attempt int, status consts.JobStatus) {
			j.polls = attempt
			j.notify(consts.EventJobPolling, j.snapshot(consts.JobStatusPolling, consts.PhasePoll))
		},
	)
	j.polls = polls
	if err != nil {
		return j.fail(consts.PhasePoll, err)
	}
	if status == consts.JobStatusFailed {
		return j.fail(consts.PhasePoll, ErrJobFailed)
	}

	image, err := j.backend.FetchImage(ctx, j.ID)
	if err != nil {
		return j.fail(consts.PhaseFetch, err)
	}

	outcome := Outcome{
		JobID:  j.ID,
		Status: consts.JobStatusComplete,
		Phase:  consts.PhaseFetch,
		Result: &Result{
			Image:     image,
			Prompt:    j.Request.Prompt,
			X:         j.Request.X,
			Y:         j.Request.Y,
			Width:     j.Request.Width,
			Height:    j.Request.Height,
			Rescaling: j.Request.Rescaling,
		},
	}
	logs.ForJob(j.ID).Info().Int("polls", j.polls).
		Dur("job_consume_ms", time.Since(j.submittedAt)).Msg("job complete")
	j.notify(consts.EventJobEnd, j.snapshot(consts.JobStatusComplete, consts.PhaseFetch))
	return outcome
}

func (j *Job) Polls() int {
	return j.polls
}

func (j *Job) fail(phase consts.JobPhase, err error) Outcome {
	err = fmt.Errorf("%s: %w", phase, err)
	logs.ForJob(j.ID).Warn().Err(err).Str("phase", phase.String()).
		Int("polls", j.polls).Msg("job failed")
	snap := j.snapshot(consts.JobStatusFailed, phase)
	snap.Reason = err.Error()
	j.notify(consts.EventJobEnd, snap)
	return Outcome{
		JobID:  j.ID,
		Status: consts.JobStatusFailed,
		Phase:  phase,
		Err:    err,
	}
}

func (j *Job) notify(event string, snap Snapshot) {
	j.observers.Notify(event, snap)
}

func (j *Job) snapshot(status consts.JobStatus, phase consts.JobPhase) Snapshot {
	return Snapshot{
		JobID:             j.ID,
		Status:            status,
		Phase:             phase,
		Polls:             j.polls,
		Prompt:            j.Request.Prompt,
		Seed:              j.Request.Seed,
		Steps:             j.Request.Steps,
		Scale:             j.Request.Scale,
		DenoisingStrength: j.Request.DenoisingStrength,
		Width:             j.Request.Width,
		Height:            j.Request.Height,
		Rescaling:         j.Request.Rescaling,
		SubmittedAt:       j.submittedAt,
		UpdatedAt:         time.Now(),
	}
}
