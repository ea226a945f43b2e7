package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config file location.
const EnvConfigPath = "ACLSEC_CONFIG"

type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
}

type ServerConfig struct {
	Listen      string `yaml:"listen"`
	UploadDir   string `yaml:"upload_dir"`
	ReportDir   string `yaml:"report_dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type Config struct {
	SelectedProvider string                    `yaml:"selected_provider"`
	SelectedModel    string                    `yaml:"selected_model"`
	Providers        map[string]ProviderConfig `yaml:"providers"`

	OutputDir    string       `yaml:"output_dir"`
	Format       string       `yaml:"format"`
	PolicyPath   string       `yaml:"policy_path"`
	TemplatesDir string       `yaml:"templates_dir"`
	Server       ServerConfig `yaml:"server"`

	path string
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		SelectedProvider: "gemini",
		SelectedModel:    "gemini-1.5-flash",
		Providers:        make(map[string]ProviderConfig),
		OutputDir:        "./reports",
		Format:           "all",
		Server: ServerConfig{
			Listen:      "127.0.0.1:5000",
			UploadDir:   "./uploads",
			ReportDir:   "./reports",
			MaxUploadMB: 16,
		},
	}
}

// GetConfigPath returns $ACLSEC_CONFIG or ~/.aclsec/config.yaml.
func GetConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".aclsec", "config.yaml"), nil
}

func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom reads path. A missing file yields Default. Keys absent
// from the file keep their default values.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	return cfg, nil
}

// Path is the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

func SaveConfig(cfg *Config) error {
	path := cfg.path
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// 0600 permissions for security (api keys)
	return os.WriteFile(path, data, 0600)
}

func (c *Config) SetAPIKey(provider, key string) {
	p := c.Providers[provider]
	p.APIKey = key
	c.Providers[provider] = p
}

// GetAPIKey falls back to the provider's usual environment variable.
func (c *Config) GetAPIKey(provider string) string {
	if key := c.Providers[provider].APIKey; key != "" {
		return key
	}
	switch provider {
	case "gemini":
		return os.Getenv("GOOGLE_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	}
	return ""
}

// MaxUploadBytes converts Server.MaxUploadMB, defaulting to 16 MiB.
func (c *Config) MaxUploadBytes() int64 {
	if c.Server.MaxUploadMB <= 0 {
		return 16 << 20
	}
	return c.Server.MaxUploadMB << 20
}
