package model

type CreateSessionResponse struct {
	ID string `json:"id"`
}

type TriggerRequestBody struct {
	Input string `json:"input"`
}

type TriggerResponse struct {
	Mapped  bool   `json:"mapped"`
	Note    *Note  `json:"note,omitempty"`
	Matched bool   `json:"matched"`
	History []Note `json:"history"`
}

type VolumeRequestBody struct {
	Level float64 `json:"level"`
}

type VolumeResponse struct {
	// NOTE: nil means silence, since JSON has no -Inf
	Db *float64 `json:"db"`
}

type VisibilityResponse struct {
	Visible bool `json:"visible"`
}

type SessionState struct {
	ID      string   `json:"id"`
	History []Note   `json:"history"`
	Visible bool     `json:"visible"`
	Db      *float64 `json:"db"`
	Matches int      `json:"matches"`
	Started string   `json:"started"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
