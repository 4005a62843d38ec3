// Package panel is the dock of the plugin: it owns the generation parameters,
// turns the current selection into jobs and applies finished jobs as layers.
package panel

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/reusedev/koi/config"
	"github.com/reusedev/koi/internal/consts"
	"github.com/reusedev/koi/internal/modules/host"
	"github.com/reusedev/koi/internal/modules/job"
	"github.com/reusedev/koi/internal/modules/logs"
	"github.com/reusedev/koi/internal/modules/observer"
	"github.com/reusedev/koi/internal/modules/queue"
	"github.com/reusedev/koi/tools"
)

type Pusher interface {
	Push(task queue.Task) error
}

type Options struct {
	BaseURL         string
	RequestTimeout  time.Duration
	PollInterval    time.Duration
	PollMaxAttempts int
	PollTimeout     time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:         cfg.Backend.BaseURL,
		RequestTimeout:  cfg.Backend.RequestTimeout(),
		PollInterval:    cfg.Poll.IntervalDuration(),
		PollMaxAttempts: cfg.Poll.MaxAttempts,
		PollTimeout:     cfg.Poll.TimeoutDuration(),
	}
}

// Controller serializes everything that touches the document or the
// parameters on the goroutine running Run.
type Controller struct {
	doc       host.Document
	params    Params
	options   Options
	pusher    Pusher
	observers observer.Observers
	rnd       *rand.Rand

	layerSeq int
	layers   []host.Layer

	outcomes chan job.Outcome
	calls    chan func()
}

func NewController(doc host.Document, params Params, options Options, pusher Pusher, observers ...observer.Observer) *Controller {
	return &Controller{
		doc:       doc,
		params:    params,
		options:   options,
		pusher:    pusher,
		observers: observers,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		outcomes:  make(chan job.Outcome, 16),
		calls:     make(chan func()),
	}
}

// Run is the event loop. It returns when ctx is done.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case fn := <-c.calls:
			fn()
		case outcome := <-c.outcomes:
			c.OnJobFinished(outcome)
		case <-ctx.Done():
			return
		}
	}
}

// Do runs fn on the event loop and waits until it returned.
func (c *Controller) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case c.calls <- func() {
		fn()
		close(done)
	}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) Params(ctx context.Context) (Params, error) {
	var p Params
	err := c.Do(ctx, func() { p = c.params })
	return p, err
}

// EditParams applies edit to a copy of the parameters and keeps the result only if it validates.
func (c *Controller) EditParams(ctx context.Context, edit func(p *Params)) (Params, error) {
	var result Params
	var editErr error
	err := c.Do(ctx, func() {
		next := c.params
		edit(&next)
		editErr = next.Validate()
		if editErr == nil {
			c.params = next
		}
		result = c.params
	})
	if err != nil {
		return Params{}, err
	}
	return result, editErr
}

func (c *Controller) Layers(ctx context.Context) ([]host.Layer, error) {
	var layers []host.Layer
	err := c.Do(ctx, func() { layers = append([]host.Layer{}, c.layers...) })
	return layers, err
}

// Submit is the submit button: it starts a job from the current selection and parameters.
func (c *Controller) Submit(ctx context.Context) (string, error) {
	var jobID string
	var submitErr error
	err := c.Do(ctx, func() { jobID, submitErr = c.submit() })
	if err != nil {
		return "", err
	}
	return jobID, submitErr
}

func (c *Controller) submit() (string, error) {
	err := c.params.Validate()
	if err != nil {
		return "", err
	}
	buffer, err := LayerToBuffer(c.doc, c.params.Rescaling)
	if err != nil {
		return "", err
	}
	seed := c.params.NextSeed(c.rnd)
	p := c.params

	request := job.Request{
		Prompt:            p.PromptText(),
		Scale:             p.PromptScale,
		DenoisingStrength: p.DenoisingStrength(),
		Steps:             p.Steps,
		Seed:              seed,
		Rescaling:         p.Rescaling,
		Cropping:          consts.CropCenter,
		Image:             buffer.Image,
		X:                 buffer.X,
		Y:                 buffer.Y,
		Width:             buffer.Width,
		Height:            buffer.Height,
	}
	client, err := job.NewClient(c.options.BaseURL, p.WorkerID, p.SessionToken, c.options.RequestTimeout)
	if err != nil {
		return "", err
	}
	poller := job.NewPoller(c.options.PollInterval).WithLimits(c.options.PollMaxAttempts, c.options.PollTimeout)
	j := job.NewJob(request, client, poller, c.outcomes, c.observers...)
	j.Announce()
	err = c.pusher.Push(j)
	if err != nil {
		client.Close()
		err = fmt.Errorf("push job: %w", err)
		j.Abort(err)
		return "", err
	}
	return j.ID, nil
}

// OnJobFinished must run on the event loop. A failed outcome leaves the document untouched.
func (c *Controller) OnJobFinished(outcome job.Outcome) {
	if !outcome.Succeed() {
		logs.ForJob(outcome.JobID).Warn().Str("phase", outcome.Phase.String()).
			Str("reason", outcome.Reason()).Msg("no layer created")
		return
	}
	snap := job.Snapshot{
		JobID:     outcome.JobID,
		Status:    consts.JobStatusComplete,
		Phase:     consts.PhaseApply,
		UpdatedAt: time.Now(),
	}
	layer, err := c.apply(outcome.Result)
	if err != nil {
		logs.ForJob(outcome.JobID).Warn().Err(err).Msg("apply job result")
		snap.Status = consts.JobStatusFailed
		snap.Reason = err.Error()
		c.observers.Notify(consts.EventLayerFailed, snap)
		return
	}
	snap.Layer = layer.Name
	logs.ForJob(outcome.JobID).Info().Str("layer", layer.Name).
		Int("width", layer.Width).Int("height", layer.Height).Msg("layer created")
	err = c.doc.RefreshProjection()
	if err != nil {
		logs.ForJob(outcome.JobID).Warn().Err(err).Str("layer", layer.Name).Msg("refresh projection")
	}
	c.observers.Notify(consts.EventLayerCreated, snap)
}

func (c *Controller) apply(result *job.Result) (host.Layer, error) {
	img, err := tools.DecodeImage(result.Image)
	if err != nil {
		return host.Layer{}, err
	}
	multiplier := Multiplier(result.Rescaling)
	width := int(float64(result.Width) / multiplier)
	height := int(float64(result.Height) / multiplier)
	scaled := tools.ScaleExact(img, width, height)

	c.layerSeq++
	layer := host.Layer{
		Name:   fmt.Sprintf("%s-%d", SafeLayerName(result.Prompt), c.layerSeq),
		X:      result.X,
		Y:      result.Y,
		Width:  width,
		Height: height,
	}
	err = c.doc.CreatePaintLayer(layer.Name, scaled.Pix, layer.X, layer.Y, layer.Width, layer.Height)
	if err != nil {
		return host.Layer{}, fmt.Errorf("create paint layer: %w", err)
	}
	c.layers = append(c.layers, layer)
	return layer, nil
}
