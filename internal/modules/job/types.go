package job

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/reusedev/koi/internal/consts"
)

// Request is the snapshot taken when the user presses submit. It is never
// modified after NewJob.
type Request struct {
	Prompt            string
	Scale             float64
	DenoisingStrength float64
	Steps             int
	Seed              int64
	Rescaling         int
	Cropping          consts.CropPolicy
	Image             []byte
	X                 int
	Y                 int
	Width             int
	Height            int
}

// Parameters is the wire form of a Request inside jobs_data.
type Parameters struct {
	Prompt            string  `json:"prompt"`
	Scale             float64 `json:"scale"`
	DdimSteps         int     `json:"ddim_steps"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	Seed              int64   `json:"seed"`
	InitImage         string  `json:"init_image"`
	DenoisingStrength float64 `json:"denoising_strength"`
	Cropping          string  `json:"cropping"`
}

type Descriptor struct {
	ID         string     `json:"id"`
	Worker     int        `json:"worker"`
	Parameters Parameters `json:"parameters"`
}

func (r *Request) Parameters(initImage string) Parameters {
	return Parameters{
		Prompt:            r.Prompt,
		Scale:             r.Scale,
		DdimSteps:         r.Steps,
		Width:             r.Width,
		Height:            r.Height,
		Seed:              r.Seed,
		InitImage:         initImage,
		DenoisingStrength: r.DenoisingStrength,
		Cropping:          r.Cropping.String(),
	}
}

// Result is what a complete job hands back: the image and where it belongs.
type Result struct {
	Image     []byte
	Prompt    string
	X         int
	Y         int
	Width     int
	Height    int
	Rescaling int
}

type Outcome struct {
	JobID  string
	Status consts.JobStatus
	Phase  consts.JobPhase
	Err    error
	Result *Result
}

func (o Outcome) Succeed() bool {
	return o.Status == consts.JobStatusComplete && o.Result != nil
}

func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Snapshot is the observable state of a job, published to observers on every transition.
type Snapshot struct {
	JobID             string           `json:"job_id"`
	Status            consts.JobStatus `json:"status"`
	Phase             consts.JobPhase  `json:"phase,omitempty"`
	Reason            string           `json:"reason,omitempty"`
	Polls             int              `json:"polls"`
	Layer             string           `json:"layer,omitempty"`
	Prompt            string           `json:"prompt"`
	Seed              int64            `json:"seed"`
	Steps             int              `json:"steps"`
	Scale             float64          `json:"scale"`
	DenoisingStrength float64          `json:"denoising_strength"`
	Width             int              `json:"width"`
	Height            int              `json:"height"`
	Rescaling         int              `json:"rescaling"`
	SubmittedAt       time.Time        `json:"submitted_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func (s *Snapshot) Marsh() (string, error) {
	return jsoniter.MarshalToString(s)
}

func UnmarshalSnapshot(data string) (*Snapshot, error) {
	var result Snapshot
	err := jsoniter.UnmarshalFromString(data, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
