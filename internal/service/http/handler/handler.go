package handler

import (
	"github.com/reusedev/koi/internal/modules/job"
	"github.com/reusedev/koi/internal/modules/panel"
	"github.com/reusedev/koi/internal/modules/tracker"
)

var (
	controller *panel.Controller
	jobTracker *tracker.Tracker
	jobHistory func(jobID string) (*job.Snapshot, error)
)

func Init(c *panel.Controller, t *tracker.Tracker) {
	controller = c
	jobTracker = t
}

// InitHistory lets job queries fall back to the job history once the cache entry expired.
func InitHistory(lookup func(jobID string) (*job.Snapshot, error)) {
	jobHistory = lookup
}
