// Package config handles runner configuration (config.yaml plus environment
// overrides).
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/core"
)

// Config represents the runner configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Vision VisionConfig `yaml:"vision"`
	Device DeviceConfig `yaml:"device"`
	Agent  AgentConfig  `yaml:"agent"`

	// Output is the directory for reports, screenshots and logs.
	Output string `yaml:"output"`

	// Env variables made available to test-case interpolation.
	Env map[string]string `yaml:"env"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// VisionConfig configures the vision API client.
type VisionConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseUrl"`
}

// DeviceConfig configures the Android device connection.
type DeviceConfig struct {
	Serial    string `yaml:"serial"`
	LocalPort int    `yaml:"localPort"`
}

// AgentConfig configures execution behavior.
type AgentConfig struct {
	Intelligent       *bool `yaml:"intelligent"`
	MaxLocateAttempts int   `yaml:"maxLocateAttempts"`
	StepPauseMs       int   `yaml:"stepPauseMs"`
	SettleMs          int   `yaml:"settleMs"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8000"},
		Device: DeviceConfig{LocalPort: 6790},
		Agent: AgentConfig{
			MaxLocateAttempts: 3,
			StepPauseMs:       500,
			SettleMs:          1000,
		},
		Output: "output",
	}
}

// Load loads configuration from a file, applying defaults and environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
// Missing files are not an error; defaults plus environment apply.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := Default()
	cfg.applyEnv()
	return cfg, nil
}

// Intelligent reports whether intelligent mode is enabled (default true).
func (c *Config) Intelligent() bool {
	if c.Agent.Intelligent == nil {
		return true
	}
	return *c.Agent.Intelligent
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.Vision.APIKey == "" {
		return core.ErrMissingAPIKey
	}
	return nil
}

// applyEnv overrides settings from environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("MOONDREAM_API_KEY"); v != "" {
		c.Vision.APIKey = v
	}
	if v := os.Getenv("VISION_BASE_URL"); v != "" {
		c.Vision.BaseURL = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DEVICE_SERIAL"); v != "" {
		c.Device.Serial = v
	}
	if v := os.Getenv("INTELLIGENT_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Agent.Intelligent = &b
		}
	}
}
