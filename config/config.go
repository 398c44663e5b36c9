package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type BackendConfig struct {
	URL                   string `toml:"url"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

type UploadConfig struct {
	MaxSizeMiB int64 `toml:"max_size_mib"`
}

type UIConfig struct {
	Theme string `toml:"theme"`
}

type UserConfig struct {
	Backend BackendConfig `toml:"backend"`
	Upload  UploadConfig  `toml:"upload"`
	UI      UIConfig      `toml:"ui"`
}

type Config struct {
	DataDirectory  string
	BackendURL     string
	RequestTimeout time.Duration
	MaxUploadBytes int64
	Theme          string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("EQLENS_BACKEND_URL"); url != "" {
		c.BackendURL = url
	}
	if dataDir := os.Getenv("EQLENS_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if theme := os.Getenv("EQLENS_THEME"); theme != "" {
		c.Theme = theme
	}
}

func CheckDebug() bool {
	debug := os.Getenv("EQLENS_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - diagnostics may include file paths and backend responses
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (EQLENS_DEBUG=%s) ===", os.Getenv("EQLENS_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func HasAllEnvVars() bool {
	return os.Getenv("EQLENS_BACKEND_URL") != "" &&
		os.Getenv("EQLENS_DATA_DIR") != ""
}

func HasAnyEnvVar() bool {
	return os.Getenv("EQLENS_BACKEND_URL") != "" ||
		os.Getenv("EQLENS_DATA_DIR") != ""
}

func GetMissingEnvVar() string {
	if os.Getenv("EQLENS_BACKEND_URL") == "" {
		return "EQLENS_BACKEND_URL"
	}
	if os.Getenv("EQLENS_DATA_DIR") == "" {
		return "EQLENS_DATA_DIR"
	}
	return ""
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	settingsPath := GetSettingsFilePath()
	settingsExist := FileExists(settingsPath)

	if settingsExist {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory

		userCfg, err := LoadUserConfig(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		cfg.applyUserConfig(userCfg)
	} else if HasAllEnvVars() {
		cfg.applyEnvOverrides()
	} else {
		// No settings file and no env vars: fall back to defaults and
		// materialize the config files so the next run finds them.
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory

		userCfg, err := LoadUserConfig(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("failed to create user config: %w", err)
		}
		cfg.applyUserConfig(userCfg)
	}

	// Env vars always win over file settings when present
	cfg.applyEnvOverrides()

	if err := EnsureDir(cfg.DataDir()); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyUserConfig(userCfg *UserConfig) {
	if userCfg == nil {
		return
	}
	if userCfg.Backend.URL != "" {
		c.BackendURL = userCfg.Backend.URL
	}
	if userCfg.Backend.RequestTimeoutSeconds > 0 {
		c.RequestTimeout = time.Duration(userCfg.Backend.RequestTimeoutSeconds) * time.Second
	}
	if userCfg.Upload.MaxSizeMiB > 0 {
		c.MaxUploadBytes = userCfg.Upload.MaxSizeMiB * 1024 * 1024
	}
	if userCfg.UI.Theme != "" {
		c.Theme = userCfg.UI.Theme
	}
}
