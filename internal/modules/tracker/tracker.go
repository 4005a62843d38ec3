// Package tracker keeps the latest known state of every recent job in the
// in-memory cache so it can be served without touching the panel.
package tracker

import (
	"github.com/reusedev/koi/internal/consts"
	"github.com/reusedev/koi/internal/modules/cache"
	"github.com/reusedev/koi/internal/modules/job"
	"github.com/reusedev/koi/internal/modules/logs"
)

type Tracker struct {
	manager *cache.Manager[string]
}

func New(manager *cache.Manager[string]) *Tracker {
	return &Tracker{manager: manager}
}

func NewDefault() *Tracker {
	return New(cache.JobCacheManager())
}

func (t *Tracker) Update(event string, data interface{}) {
	snap, ok := data.(job.Snapshot)
	if !ok {
		return
	}
	switch event {
	case consts.EventLayerCreated, consts.EventLayerFailed:
		// the layer events only carry what changed on the panel side
		prev, err := t.Get(snap.JobID)
		if err == nil {
			prev.Layer = snap.Layer
			prev.Phase = snap.Phase
			prev.UpdatedAt = snap.UpdatedAt
			if snap.Status != "" {
				prev.Status = snap.Status
			}
			if snap.Reason != "" {
				prev.Reason = snap.Reason
			}
			snap = *prev
		}
	}
	t.save(snap)
}

func (t *Tracker) save(snap job.Snapshot) {
	value, err := snap.Marsh()
	if err != nil {
		logs.ForJob(snap.JobID).Err(err).Msg("marsh job snapshot")
		return
	}
	err = t.manager.SetWithExpiration(snap.JobID, value, cache.JobStatusTTL)
	if err != nil {
		logs.ForJob(snap.JobID).Err(err).Msg("cache job snapshot")
	}
}

func (t *Tracker) Get(jobID string) (*job.Snapshot, error) {
	value, err := t.manager.GetValue(jobID)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, job.ErrJobNotFound
	}
	return job.UnmarshalSnapshot(value)
}
