package config

import (
	"os"
	"path/filepath"

	"github.com/leefowlercu/graphiti-claude-integration/internal/manifest"
)

// EnvPrefix is prepended to every environment override, e.g. GRAPHITI_CLAUDE_ROOT_DIR
const EnvPrefix = "GRAPHITI_CLAUDE"

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	RootDir:   "", // Empty = current working directory
	SourceDir: "", // Empty = parent of the executable's directory
	CoreDir:   "", // Empty = resolve claude-hooks-core from the source directory
	Logging: LoggingConfig{
		Level:   "info",
		Format:  "text",
		LogFile: "", // Empty = structured logs discarded
	},
	Output: OutputConfig{
		Color: "auto",
	},
}

// GetDefaultConfigDir returns the default configuration directory
func GetDefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".agent-hooks", manifest.PackageName)
	}
	return filepath.Join(home, ".agent-hooks", manifest.PackageName)
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return filepath.Join(GetDefaultConfigDir(), "config.yaml")
}
