package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root  string   `yaml:"root"`
		Files []string `yaml:"files"`
	} `yaml:"project"`
	Output struct {
		Dir     string `yaml:"dir"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"output"`
}

// Default returns the configuration used when no config file is given:
// document the current directory into docs/ with site-root links.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	// 3. Override with Environment Variables if present
	cfg.applyEnv()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Project.Root == "" {
		c.Project.Root = "."
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "docs"
	}
	if c.Output.BaseURL == "" {
		c.Output.BaseURL = "/"
	}
}

func (c *Config) applyEnv() {
	if root := os.Getenv("LCAT_ROOT"); root != "" {
		c.Project.Root = root
	}
	if dir := os.Getenv("LCAT_OUT"); dir != "" {
		c.Output.Dir = dir
	}
	if baseURL := os.Getenv("LCAT_BASE_URL"); baseURL != "" {
		c.Output.BaseURL = baseURL
	}
}
