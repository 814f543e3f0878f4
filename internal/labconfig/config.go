// Package labconfig loads the process-wide configuration from environment
// variables, matching the teacher's internal/config convention of small,
// typed, default-carrying structs rather than a framework.
package labconfig

import (
	"os"
	"strconv"
	"time"
)

// Config is the one configuration value block this service needs at
// startup. Everything else is derived from the data directory.
type Config struct {
	// LLMAPIKey configures the oracle. Empty (or the fixed placeholder)
	// disables the oracle but does not disable execution or grading.
	LLMAPIKey string

	// DataDir holds problems.json, sessions.json, error_dictionary.json and
	// lab_manual_index.json.
	DataDir string

	// WorkspaceRoot is where per-job sandbox directories are created.
	WorkspaceRoot string

	// ContainerImage is the pre-built image bundling every language
	// toolchain (gcc, g++, python3, openjdk, bash).
	ContainerImage string

	// Resource caps enforced on every container invocation.
	MemoryLimitMiB int
	CPUShare       float64
	WallClock      time.Duration

	// AllowPriority1OverrideRuntime resolves spec.md's Open Question: may a
	// Priority-1 pattern upgrade a coarse RUNTIME_ERROR, not just
	// LOGIC_ERROR? Defaults to false; the spec explicitly says "do not
	// guess" here.
	AllowPriority1OverrideRuntime bool
}

const llmPlaceholder = "dummy"

// Load reads configuration from the environment, applying the spec's
// defaults for anything unset.
func Load() Config {
	cfg := Config{
		LLMAPIKey:      getenv("LLM_API_KEY", llmPlaceholder),
		DataDir:        getenv("LABTA_DATA_DIR", "data"),
		WorkspaceRoot:  getenv("LABTA_WORKSPACE_ROOT", os.TempDir()),
		ContainerImage: getenv("LABTA_CONTAINER_IMAGE", "labta-sandbox:latest"),
		MemoryLimitMiB: getenvInt("LABTA_MEMORY_LIMIT_MIB", 256),
		CPUShare:       getenvFloat("LABTA_CPU_SHARE", 0.5),
		WallClock:      getenvDuration("LABTA_WALL_CLOCK", 5*time.Second),
		AllowPriority1OverrideRuntime: getenvBool(
			"LABTA_ALLOW_PRIORITY1_OVERRIDE_RUNTIME", false),
	}
	return cfg
}

// OracleEnabled reports whether the LLM oracle has real credentials.
func (c Config) OracleEnabled() bool {
	return c.LLMAPIKey != "" && c.LLMAPIKey != llmPlaceholder
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
