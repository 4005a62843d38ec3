// Package history persists every job transition to MySQL.
package history

import (
	"errors"

	"github.com/reusedev/koi/internal/components/mysql"
	"github.com/reusedev/koi/internal/consts"
	"github.com/reusedev/koi/internal/modules/dao"
	"github.com/reusedev/koi/internal/modules/job"
	"github.com/reusedev/koi/internal/modules/logs"
	"github.com/reusedev/koi/internal/modules/model"
	"gorm.io/gorm"
)

// Lookup reads a job back from history, for jobs that already left the status cache.
func Lookup(jobID string) (*job.Snapshot, error) {
	return lookup(jobID, dao.JobByJobId)
}

func lookup(jobID string, find func(string) (model.Job, error)) (*job.Snapshot, error) {
	record, err := find(jobID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, job.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	snap := record.Snapshot()
	return &snap, nil
}

type Recorder struct {
	create func(*model.Job) error
	update func(*model.Job) error
}

func NewRecorder() *Recorder {
	return &Recorder{create: dao.CreateJob, update: dao.UpdateJob}
}

// Migrate creates or alters the job table. mysql.InitMySQL must have run.
func Migrate() error {
	return mysql.DB.AutoMigrate(&model.Job{})
}

func (r *Recorder) Update(event string, data interface{}) {
	snap, ok := data.(job.Snapshot)
	if !ok {
		return
	}
	record := model.JobFromSnapshot(snap)
	var err error
	if event == consts.EventJobSubmitted {
		err = r.create(&record)
	} else {
		err = r.update(&record)
	}
	if err != nil {
		logs.ForJob(snap.JobID).Err(err).Str("event", event).Msg("record job history")
	}
}
