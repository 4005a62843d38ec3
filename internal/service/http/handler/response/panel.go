package response

import "github.com/reusedev/koi/internal/modules/panel"

type Panel struct {
	panel.Params
	SessionTokenSet   bool    `json:"session_token_set"`
	DenoisingStrength float64 `json:"denoising_strength"`
}

// NewPanel hides the session token, only whether one is set is reported.
func NewPanel(p panel.Params) Panel {
	ret := Panel{
		Params:            p,
		SessionTokenSet:   p.SessionToken != "",
		DenoisingStrength: p.DenoisingStrength(),
	}
	ret.SessionToken = ""
	return ret
}

type Submit struct {
	JobID string `json:"job_id"`
}
