package request

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/reusedev/koi/internal/modules/panel"
)

// UpdatePanel is a partial update, absent fields keep their current value.
type UpdatePanel struct {
	Prompt        *string  `json:"prompt"`
	PromptScale   *float64 `json:"prompt_scale"`
	ImageStrength *float64 `json:"image_strength"`
	Rescaling     *int     `json:"rescaling"`
	Steps         *int     `json:"steps"`
	Seed          *int64   `json:"seed"`
	RandomSeed    *bool    `json:"random_seed"`
	WorkerID      *string  `json:"worker_id"`
	SessionToken  *string  `json:"session_token"`
}

func (u *UpdatePanel) Apply(p *panel.Params) {
	if u.Prompt != nil {
		p.Prompt = *u.Prompt
	}
	if u.PromptScale != nil {
		p.PromptScale = *u.PromptScale
	}
	if u.ImageStrength != nil {
		p.ImageStrength = *u.ImageStrength
	}
	if u.Rescaling != nil {
		p.Rescaling = *u.Rescaling
	}
	if u.Steps != nil {
		p.Steps = *u.Steps
	}
	if u.Seed != nil {
		p.Seed = *u.Seed
	}
	if u.RandomSeed != nil {
		p.RandomSeed = *u.RandomSeed
	}
	if u.WorkerID != nil {
		p.WorkerID = *u.WorkerID
	}
	if u.SessionToken != nil {
		p.SessionToken = *u.SessionToken
	}
}

type JobQuery struct {
	ID string `uri:"id"`
}

func (j *JobQuery) Valid() error {
	if _, err := uuid.Parse(j.ID); err != nil {
		return fmt.Errorf("invalid job id: %s", j.ID)
	}
	return nil
}
