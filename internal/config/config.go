package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultClawdRoot = "/home/clawdbot/clawd"

type WorkspaceEntry struct {
	ID   string
	Name string
	Path string
}

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	CORSOrigins             []string
	RateLimitRPM            int
	ControlRateLimitRPM     int

	ClawdRoot         string
	Workspaces        []WorkspaceEntry
	DefaultWorkspace  string
	MemoryDir         string
	AllowedExtensions []string
	ResolveSymlinks   bool
	AllowedTables     []string

	CLIBinary         string
	ServiceUser       string
	GatewayUnit       string
	CriticalProcesses []string
	CommandTimeout    time.Duration

	LogFormat            string
	LogLevel             string
	MetricsEnabled       bool
	LogStreamMaxDuration time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "3000"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 0),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 600),
		ControlRateLimitRPM:     getInt("CONTROL_RATE_LIMIT_RPM", 30),

		ClawdRoot:         getEnv("CLAWD_ROOT", defaultClawdRoot),
		DefaultWorkspace:  getEnv("DEFAULT_WORKSPACE", ""),
		MemoryDir:         getEnv("MEMORY_DIR", "memory"),
		AllowedExtensions: normalizeExtensions(splitCSV(os.Getenv("ALLOWED_FILE_EXTENSIONS"))),
		ResolveSymlinks:   getBool("RESOLVE_SYMLINKS", true),
		AllowedTables:     splitCSV(os.Getenv("ALLOWED_TABLES")),

		CLIBinary:         getEnv("CLI_BINARY", "clawdbot"),
		ServiceUser:       getEnv("SERVICE_USER", "clawdbot"),
		GatewayUnit:       getEnv("GATEWAY_UNIT", "clawdbot-gateway"),
		CriticalProcesses: splitCSV(getEnv("CRITICAL_PROCESSES", "clawdbot-gateway,systemd,sshd,dbus")),
		CommandTimeout:    getDuration("COMMAND_TIMEOUT", 15*time.Second),

		LogFormat:            strings.ToLower(getEnv("LOG_FORMAT", "pretty")),
		LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", "info")),
		MetricsEnabled:       getBool("METRICS_ENABLED", true),
		LogStreamMaxDuration: getDuration("LOG_STREAM_MAX_DURATION", 30*time.Minute),
	}

	workspaces, err := parseWorkspaces(os.Getenv("WORKSPACES"))
	if err != nil {
		return nil, err
	}
	cfg.Workspaces = workspaces

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if strings.TrimSpace(c.ClawdRoot) == "" {
		return fmt.Errorf("CLAWD_ROOT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.LogStreamMaxDuration <= 0 {
		return fmt.Errorf("LOG_STREAM_MAX_DURATION must be positive")
	}

	if c.CommandTimeout <= 0 {
		return fmt.Errorf("COMMAND_TIMEOUT must be positive")
	}

	if strings.TrimSpace(c.MemoryDir) == "" || strings.Contains(c.MemoryDir, "..") {
		return fmt.Errorf("MEMORY_DIR must be a relative directory name")
	}

	if strings.TrimSpace(c.ServiceUser) == "" {
		return fmt.Errorf("SERVICE_USER cannot be empty")
	}

	switch c.LogFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be pretty or json")
	}

	seen := map[string]struct{}{}
	for _, ws := range c.Workspaces {
		if _, dup := seen[ws.ID]; dup {
			return fmt.Errorf("WORKSPACES: duplicate id %q", ws.ID)
		}
		seen[ws.ID] = struct{}{}
	}

	return nil
}

// parseWorkspaces reads "id:Name:/abs/path" entries separated by commas.
func parseWorkspaces(raw string) ([]WorkspaceEntry, error) {
	entries := splitCSV(raw)
	out := make([]WorkspaceEntry, 0, len(entries))
	for _, entry := range entries {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("WORKSPACES: entry %q must be id:name:path", entry)
		}

		id := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])
		path := strings.TrimSpace(parts[2])
		if id == "" || path == "" {
			return nil, fmt.Errorf("WORKSPACES: entry %q has an empty id or path", entry)
		}
		if !filepath.IsAbs(path) {
			return nil, fmt.Errorf("WORKSPACES: path for %q must be absolute", id)
		}
		if name == "" {
			name = id
		}

		out = append(out, WorkspaceEntry{ID: id, Name: name, Path: filepath.Clean(path)})
	}

	return out, nil
}

func normalizeExtensions(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, ext := range raw {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}

	return out
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
