package model

import (
	"time"
	"unicode/utf8"

	"github.com/reusedev/koi/internal/consts"
	"github.com/reusedev/koi/internal/modules/job"
)

type Job struct {
	Id                int       `json:"id" gorm:"primaryKey"`
	JobId             string    `json:"job_id" gorm:"column:job_id;type:varchar(36);uniqueIndex"`
	Status            string    `json:"status" gorm:"column:status;type:enum('submitted', 'polling', 'complete', 'failed')"`
	Phase             string    `json:"phase" gorm:"column:phase;type:varchar(20)"`
	FailedReason      string    `json:"failed_reason" gorm:"column:failed_reason;type:varchar(1000)"`
	Polls             int       `json:"polls" gorm:"column:polls;type:int;default:0"`
	Layer             string    `json:"layer" gorm:"column:layer;type:varchar(255)"`
	Prompt            string    `json:"prompt" gorm:"column:prompt;type:varchar(5000)"`
	Seed              int64     `json:"seed" gorm:"column:seed;type:bigint"`
	Steps             int       `json:"steps" gorm:"column:steps;type:int"`
	Scale             float64   `json:"scale" gorm:"column:scale;type:double"`
	DenoisingStrength float64   `json:"denoising_strength" gorm:"column:denoising_strength;type:double"`
	Width             int       `json:"width" gorm:"column:width;type:int"`
	Height            int       `json:"height" gorm:"column:height;type:int"`
	Rescaling         int       `json:"rescaling" gorm:"column:rescaling;type:int"`
	CreatedAt         time.Time `json:"created_at" gorm:"column:created_at;type:datetime;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"column:updated_at;type:datetime;not null;default:CURRENT_TIMESTAMP"`
}

func (Job) TableName() string {
	return "job"
}

const (
	promptLimit       = 5000
	failedReasonLimit = 1000
)

// truncate keeps at most limit characters, varchar(n) counts characters not bytes.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func JobFromSnapshot(snap job.Snapshot) Job {
	return Job{
		JobId:             snap.JobID,
		Status:            snap.Status.String(),
		Phase:             snap.Phase.String(),
		FailedReason:      truncate(snap.Reason, failedReasonLimit),
		Polls:             snap.Polls,
		Layer:             snap.Layer,
		Prompt:            truncate(snap.Prompt, promptLimit),
		Seed:              snap.Seed,
		Steps:             snap.Steps,
		Scale:             snap.Scale,
		DenoisingStrength: snap.DenoisingStrength,
		Width:             snap.Width,
		Height:            snap.Height,
		Rescaling:         snap.Rescaling,
		CreatedAt:         snap.SubmittedAt,
		UpdatedAt:         snap.UpdatedAt,
	}
}

func (j *Job) Snapshot() job.Snapshot {
	return job.Snapshot{
		JobID:             j.JobId,
		Status:            consts.JobStatus(j.Status),
		Phase:             consts.JobPhase(j.Phase),
		Reason:            j.FailedReason,
		Polls:             j.Polls,
		Layer:             j.Layer,
		Prompt:            j.Prompt,
		Seed:              j.Seed,
		Steps:             j.Steps,
		Scale:             j.Scale,
		DenoisingStrength: j.DenoisingStrength,
		Width:             j.Width,
		Height:            j.Height,
		Rescaling:         j.Rescaling,
		SubmittedAt:       j.CreatedAt,
		UpdatedAt:         j.UpdatedAt,
	}
}
