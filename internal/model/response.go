package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ToggleJobResponse struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
}

type KillProcessResponse struct {
	Success bool   `json:"success"`
	PID     int    `json:"pid"`
	Signal  string `json:"signal"`
}
