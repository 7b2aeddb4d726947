package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Port       string `json:"port" yaml:"port"`
	UploadsDir string `json:"uploads_dir" yaml:"uploads_dir"`
	LogLevel   string `json:"log_level" yaml:"log_level"`
	LogFile    string `json:"log_file,omitempty" yaml:"log_file,omitempty"`

	SessionDriver     string `json:"session_driver" yaml:"session_driver"`
	SessionTTLMinutes int    `json:"session_ttl_minutes" yaml:"session_ttl_minutes"`
	SQLitePath        string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
	RedisURL          string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`

	GoogleCloudProject    string `json:"google_cloud_project" yaml:"google_cloud_project"`
	GoogleCloudLocation   string `json:"google_cloud_location" yaml:"google_cloud_location"`
	GoogleCredentialsPath string `json:"google_credentials_path" yaml:"google_credentials_path"`
	VertexModel           string `json:"vertex_model" yaml:"vertex_model"`
	AssistantEnabled      bool   `json:"assistant_enabled" yaml:"assistant_enabled"`

	GmailCredentialsPath string `json:"gmail_credentials_path" yaml:"gmail_credentials_path"`
	GmailTokenPath       string `json:"gmail_token_path" yaml:"gmail_token_path"`

	SMTPHost     string `json:"smtp_host,omitempty" yaml:"smtp_host,omitempty"`
	SMTPPort     int    `json:"smtp_port,omitempty" yaml:"smtp_port,omitempty"`
	SMTPUsername string `json:"smtp_username,omitempty" yaml:"smtp_username,omitempty"`
	SMTPPassword string `json:"smtp_password,omitempty" yaml:"smtp_password,omitempty"`
	SMTPFrom     string `json:"smtp_from,omitempty" yaml:"smtp_from,omitempty"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		Port:                 "8080",
		UploadsDir:           "uploads",
		LogLevel:             "info",
		SessionDriver:        "memory",
		SessionTTLMinutes:    120,
		SQLitePath:           "sessions.db",
		GoogleCloudLocation:  "us-central1",
		VertexModel:          "gemini-1.5-flash",
		GmailCredentialsPath: "credentials.json",
		GmailTokenPath:       "token.json",
		SMTPPort:             587,
	}
}

// GetConfigPath returns the path to the configuration file
// On Windows: %APPDATA%/HRAutomation/config.json
// On Unix: ~/.config/HRAutomation/config.json
func GetConfigPath() (string, error) {
	var configDir string

	if os.Getenv("APPDATA") != "" {
		// Windows
		configDir = filepath.Join(os.Getenv("APPDATA"), "HRAutomation")
	} else {
		// Unix-like systems
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "HRAutomation")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Load loads configuration from the default config path
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadFrom(configPath)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadFrom loads configuration from a specific path. Files ending in .yaml or
// .yml are parsed as YAML, everything else as JSON.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the default config path
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveTo(configPath)
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv reads the given .env files (default ".env") when they exist, then
// applies environment overrides.
func (c *Config) LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	return c.applyEnvOverrides()
}

func (c *Config) applyEnvOverrides() error {
	strs := map[string]*string{
		"HR_PORT":                        &c.Port,
		"HR_UPLOADS_DIR":                 &c.UploadsDir,
		"HR_LOG_LEVEL":                   &c.LogLevel,
		"HR_LOG_FILE":                    &c.LogFile,
		"HR_SESSION_DRIVER":              &c.SessionDriver,
		"HR_SQLITE_PATH":                 &c.SQLitePath,
		"HR_REDIS_URL":                   &c.RedisURL,
		"GOOGLE_CLOUD_PROJECT":           &c.GoogleCloudProject,
		"GOOGLE_CLOUD_LOCATION":          &c.GoogleCloudLocation,
		"GOOGLE_APPLICATION_CREDENTIALS": &c.GoogleCredentialsPath,
		"HR_VERTEX_MODEL":                &c.VertexModel,
		"HR_GMAIL_CREDENTIALS":           &c.GmailCredentialsPath,
		"HR_GMAIL_TOKEN":                 &c.GmailTokenPath,
		"HR_SMTP_HOST":                   &c.SMTPHost,
		"HR_SMTP_USERNAME":               &c.SMTPUsername,
		"HR_SMTP_PASSWORD":               &c.SMTPPassword,
		"HR_SMTP_FROM":                   &c.SMTPFrom,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"HR_SESSION_TTL_MINUTES": &c.SessionTTLMinutes,
		"HR_SMTP_PORT":           &c.SMTPPort,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := os.LookupEnv("HR_ASSISTANT_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid HR_ASSISTANT_ENABLED: %w", err)
		}
		c.AssistantEnabled = b
	}

	return nil
}

// SessionTTL returns the session lifetime
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// SMTPConfigured reports whether interview e-mails can be sent
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535, got %q", c.Port)
	}

	if c.UploadsDir == "" {
		return fmt.Errorf("uploads_dir is required")
	}

	if c.SessionTTLMinutes < 0 {
		return fmt.Errorf("session_ttl_minutes cannot be negative")
	}

	switch c.SessionDriver {
	case "memory", "sqlite":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("redis_url is required for the redis session driver")
		}
	default:
		return fmt.Errorf("unknown session_driver %q", c.SessionDriver)
	}

	if c.AssistantEnabled {
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("google_cloud_project is required")
		}
		if c.GoogleCloudLocation == "" {
			return fmt.Errorf("google_cloud_location is required")
		}
	}

	if c.GoogleCredentialsPath != "" {
		if _, err := os.Stat(c.GoogleCredentialsPath); err != nil {
			return fmt.Errorf("google credentials file not found: %w", err)
		}
	}

	if c.SMTPHost != "" && (c.SMTPPort < 1 || c.SMTPPort > 65535) {
		return fmt.Errorf("smtp_port must be between 1 and 65535")
	}

	return nil
}

// ApplyToEnv applies configuration values to environment variables
func (c *Config) ApplyToEnv() {
	if c.GoogleCloudProject != "" {
		os.Setenv("GOOGLE_CLOUD_PROJECT", c.GoogleCloudProject)
	}
	if c.GoogleCloudLocation != "" {
		os.Setenv("GOOGLE_CLOUD_LOCATION", c.GoogleCloudLocation)
	}
	if c.GoogleCredentialsPath != "" {
		os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", c.GoogleCredentialsPath)
	}
}
