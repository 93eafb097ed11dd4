/*
Package config manages the TOML config for bufcomplete.

Missing files are created with defaults, broken files are parsed section by
section so that one bad value does not throw away the rest.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/bufcomplete/internal/utils"
	"github.com/bastiangx/bufcomplete/pkg/suggest"
	"github.com/charmbracelet/log"
)

// FileName is the config file name inside the config dir
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// EngineConfig has the completion thresholds.
type EngineConfig struct {
	MinGain      int `toml:"min_gain"`
	ShortWordMax int `toml:"short_word_max"`
	MinChunk     int `toml:"min_chunk"`
	Limit        int `toml:"limit"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxLimit  int  `toml:"max_limit"`
	MaxPrefix int  `toml:"max_prefix"`
	Dedupe    bool `toml:"dedupe"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	ShowRanges   bool `toml:"show_ranges"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/bufcomplete
// 2. ~/Library/Application Support/bufcomplete (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "bufcomplete")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "bufcomplete")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/bufcomplete/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MinGain:      suggest.DefaultMinGain,
			ShortWordMax: suggest.DefaultShortWordMax,
			MinChunk:     suggest.DefaultMinChunk,
			Limit:        0,
		},
		Server: ServerConfig{
			MaxLimit:  64,
			MaxPrefix: 60,
			Dedupe:    true,
		},
		CLI: CliConfig{
			DefaultLimit: 24,
			ShowRanges:   true,
		},
	}
}

// EngineOptions converts the engine section into suggest.Options
func (c *Config) EngineOptions() suggest.Options {
	return suggest.Options{
		MinGain:      c.Engine.MinGain,
		ShortWordMax: c.Engine.ShortWordMax,
		MinChunk:     c.Engine.MinChunk,
		Limit:        c.Engine.Limit,
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every section and key that still decodes
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt(data, "min_gain"); ok {
		engine.MinGain = val
	}
	if val, ok := utils.ExtractInt(data, "short_word_max"); ok {
		engine.ShortWordMax = val
	}
	if val, ok := utils.ExtractInt(data, "min_chunk"); ok {
		engine.MinChunk = val
	}
	if val, ok := utils.ExtractInt(data, "limit"); ok {
		engine.Limit = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractBool(data, "dedupe"); ok {
		server.Dedupe = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_ranges"); ok {
		cli.ShowRanges = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server values and saves to file
func (c *Config) Update(configPath string, maxLimit, maxPrefix *int, dedupe *bool) error {
	if maxLimit != nil {
		c.Server.MaxLimit = *maxLimit
	}
	if maxPrefix != nil {
		c.Server.MaxPrefix = *maxPrefix
	}
	if dedupe != nil {
		c.Server.Dedupe = *dedupe
	}
	return SaveConfig(c, configPath)
}
