package gateway

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go-workspace-dashboard/pkg/apierror"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Signals is the allow-list for KillProcess.
var Signals = []string{"TERM", "KILL", "INT", "HUP"}

const (
	DefaultSignal   = "TERM"
	DefaultLogLimit = 150
	MaxLogLimit     = 500
)

const (
	LogSourceJournal = "journal"
	LogSourceFile    = "file"
	LogSourceAll     = "all"
)

// ValidateJobID rejects anything that is not a UUID.
func ValidateJobID(id string) error {
	if !uuidPattern.MatchString(id) {
		return apierror.InvalidInput("Invalid job id", "")
	}
	return nil
}

// ParsePID accepts a JSON number or a decimal string holding a positive
// integer.
func ParsePID(raw any) (int, error) {
	var text string
	switch v := raw.(type) {
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
	case int:
		text = strconv.Itoa(v)
	default:
		return 0, apierror.InvalidInput("Invalid PID", "")
	}

	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, apierror.InvalidInput("Invalid PID", "")
		}
	}

	pid, err := strconv.Atoi(text)
	if err != nil || pid <= 0 {
		return 0, apierror.InvalidInput("Invalid PID", "")
	}

	return pid, nil
}

// NormalizeSignal uppercases sig, strips a SIG prefix and checks it against
// Signals. An empty value means TERM.
func NormalizeSignal(sig string) (string, error) {
	sig = strings.ToUpper(strings.TrimSpace(sig))
	sig = strings.TrimPrefix(sig, "SIG")
	if sig == "" {
		return DefaultSignal, nil
	}

	for _, allowed := range Signals {
		if sig == allowed {
			return sig, nil
		}
	}

	return "", apierror.InvalidInput("Invalid signal", fmt.Sprintf("allowed: %s", strings.Join(Signals, ", ")))
}

// ClampLogLimit maps non-positive values to the default and caps at MaxLogLimit.
func ClampLogLimit(limit int) int {
	if limit <= 0 {
		return DefaultLogLimit
	}
	return min(limit, MaxLogLimit)
}

func ValidateLogSource(source string) (string, error) {
	switch source {
	case "":
		return LogSourceJournal, nil
	case LogSourceJournal, LogSourceFile, LogSourceAll:
		return source, nil
	}
	return "", apierror.InvalidInput("Invalid log source", "allowed: journal, file, all")
}
