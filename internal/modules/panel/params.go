package panel

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/reusedev/koi/config"
)

const (
	MinPromptScale = 0
	MaxPromptScale = 25
	MinSteps       = 1
	MaxSteps       = 100
	MinRescaling   = -4
	MaxRescaling   = 4
	MaxSeed        = 999999999
)

var ErrInvalidParams = errors.New("invalid panel parameters")

// Params mirrors the dock widgets. It is only read and written on the controller's event loop.
type Params struct {
	Prompt        string  `json:"prompt"`
	PromptScale   float64 `json:"prompt_scale"`
	ImageStrength float64 `json:"image_strength"`
	Rescaling     int     `json:"rescaling"`
	Steps         int     `json:"steps"`
	Seed          int64   `json:"seed"`
	RandomSeed    bool    `json:"random_seed"`
	WorkerID      string  `json:"worker_id"`
	SessionToken  string  `json:"session_token,omitempty"`
}

func DefaultParams(cfg *config.Config) Params {
	return Params{
		Prompt:        cfg.Panel.Prompt,
		PromptScale:   cfg.Panel.PromptScale,
		ImageStrength: cfg.Panel.ImageStrength,
		Rescaling:     cfg.Panel.Rescaling,
		Steps:         cfg.Panel.Steps,
		Seed:          cfg.Panel.Seed,
		RandomSeed:    cfg.Panel.RandomSeed,
		WorkerID:      cfg.Backend.WorkerID,
		SessionToken:  cfg.Backend.SessionToken,
	}
}

func (p Params) Validate() error {
	switch {
	case p.PromptScale < MinPromptScale || p.PromptScale > MaxPromptScale:
		return fmt.Errorf("%w: prompt_scale %v not in [%d, %d]", ErrInvalidParams, p.PromptScale, MinPromptScale, MaxPromptScale)
	case p.ImageStrength < 0 || p.ImageStrength > 1:
		return fmt.Errorf("%w: image_strength %v not in [0, 1]", ErrInvalidParams, p.ImageStrength)
	case p.Steps < MinSteps || p.Steps > MaxSteps:
		return fmt.Errorf("%w: steps %d not in [%d, %d]", ErrInvalidParams, p.Steps, MinSteps, MaxSteps)
	case p.Rescaling < MinRescaling || p.Rescaling > MaxRescaling:
		return fmt.Errorf("%w: rescaling %d not in [%d, %d]", ErrInvalidParams, p.Rescaling, MinRescaling, MaxRescaling)
	case p.Seed < 0 || p.Seed > MaxSeed:
		return fmt.Errorf("%w: seed %d not in [0, %d]", ErrInvalidParams, p.Seed, MaxSeed)
	}
	return nil
}

func (p Params) DenoisingStrength() float64 {
	return 1 - p.ImageStrength
}

// PromptText is the prompt as it is sent, on a single line.
func (p Params) PromptText() string {
	return strings.ReplaceAll(p.Prompt, "\n", " ")
}

// NextSeed returns the seed for the next job. With RandomSeed set a fresh one is
// drawn and stored, so the panel shows the seed that was actually used.
func (p *Params) NextSeed(rnd *rand.Rand) int64 {
	if p.RandomSeed {
		p.Seed = rnd.Int63n(MaxSeed + 1)
	}
	return p.Seed
}
