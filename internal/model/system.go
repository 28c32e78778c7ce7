package model

type Process struct {
	PID     string `json:"pid"`
	CPU     string `json:"cpu"`
	Mem     string `json:"mem"`
	Time    string `json:"time"`
	Command string `json:"cmd"`
}

// Usage values are GiB rounded to one decimal.
type Usage struct {
	Used    float64 `json:"used"`
	Total   float64 `json:"total"`
	Percent float64 `json:"percent"`
}

type SystemStats struct {
	CPU    float64 `json:"cpu"`
	RAM    Usage   `json:"ram"`
	Disk   Usage   `json:"disk"`
	Uptime float64 `json:"uptime"`
}

type ActivityData struct {
	Lines     []string `json:"lines"`
	Timestamp string   `json:"timestamp"`
}

type LogsData struct {
	Logs      []string `json:"logs"`
	Source    string   `json:"source"`
	Timestamp string   `json:"timestamp"`
}
