package config

import "time"

const (
	DefaultBackendURL     = "http://localhost:8000"
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxUploadMiB   = 5
	DefaultTheme          = "dark"
)

func defaultConfig() *Config {
	return &Config{
		DataDirectory:  "~/.local/share/eqlens",
		BackendURL:     DefaultBackendURL,
		RequestTimeout: DefaultRequestTimeout,
		MaxUploadBytes: DefaultMaxUploadMiB * 1024 * 1024,
		Theme:          DefaultTheme,
	}
}

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/eqlens",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Backend: BackendConfig{
			URL:                   DefaultBackendURL,
			RequestTimeoutSeconds: 60,
		},
		Upload: UploadConfig{
			MaxSizeMiB: DefaultMaxUploadMiB,
		},
		UI: UIConfig{
			Theme: DefaultTheme,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# EQLens System Configuration
# Location: ~/.config/eqlens/settings.toml
# This file uses TOML format: https://toml.io

# Directory where sessions, history and user config are stored
data_directory = "~/.local/share/eqlens"
`
}

func GenerateUserConfigTemplate() string {
	return `# EQLens User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[backend]
# Equation tutoring backend base URL
url = "http://localhost:8000"

# Per-request timeout in seconds (predict and solve calls)
request_timeout_seconds = 60

[upload]
# Upload size ceiling in MiB; the backend rejects anything larger
max_size_mib = 5

[ui]
# Color theme: "dark" or "light" (Ctrl+T toggles at runtime)
theme = "dark"
`
}
