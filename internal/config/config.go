package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aleister1102/ticketwatch/internal/common"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// GlobalConfig is built once at startup and treated as read-only afterwards.
type GlobalConfig struct {
	TargetConfig  TargetConfig  `json:"target_config,omitempty" yaml:"target_config,omitempty"`
	MonitorConfig MonitorConfig `json:"monitor_config,omitempty" yaml:"monitor_config,omitempty"`
	HTTPConfig    HTTPConfig    `json:"http_config,omitempty" yaml:"http_config,omitempty"`
	EmailConfig   EmailConfig   `json:"email_config,omitempty" yaml:"email_config,omitempty"`
	LogConfig     LogConfig     `json:"log_config,omitempty" yaml:"log_config,omitempty"`
}

func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		TargetConfig:  NewDefaultTargetConfig(),
		MonitorConfig: NewDefaultMonitorConfig(),
		HTTPConfig:    NewDefaultHTTPConfig(),
		EmailConfig:   NewDefaultEmailConfig(),
		LogConfig:     NewDefaultLogConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// Values missing from the file keep their defaults. YAML is used for .yaml/.yml
// files, JSON otherwise. Environment overrides are applied last.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		logger.Debug().Msg("No config file found, using built-in defaults")
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	if !fileExists(filePath) {
		return nil, common.NewValidationError("config_file", filePath, "config file does not exist")
	}

	data, err := loadConfigFileContent(filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	applyEnvOverrides(cfg)
	logger.Debug().Str("path", filePath).Msg("Configuration file loaded")
	return cfg, nil
}

func loadConfigFileContent(filePath string) ([]byte, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxConfigFileSize {
		return nil, common.NewValidationError("config_file", info.Size(), "config file too large")
	}
	return os.ReadFile(filePath)
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if isYAMLFile(ext) {
		return parseYAMLConfig(data, filePath, cfg)
	}
	return parseJSONConfig(data, filePath, cfg)
}

func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

func parseYAMLConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
	}
	return nil
}

func parseJSONConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}

// applyEnvOverrides lets the SMTP secret live outside the config file
func applyEnvOverrides(cfg *GlobalConfig) {
	if pw := os.Getenv(EnvSMTPPassword); pw != "" {
		cfg.EmailConfig.Password = pw
	}
}
