package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds all user-configurable application settings organized by category.
type Settings struct {
	Server  ServerSettings  `json:"server" mapstructure:"server"`
	Polling PollingSettings `json:"polling" mapstructure:"polling"`
	General GeneralSettings `json:"general" mapstructure:"general"`
}

// ServerSettings describes how to reach the clf web server.
type ServerSettings struct {
	BaseURL   string        `json:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
	UserAgent string        `json:"user_agent" mapstructure:"user_agent"`
	ProxyURL  string        `json:"proxy_url" mapstructure:"proxy_url"` // http(s):// or socks5://; empty uses the environment
}

// PollingSettings controls the progress poller.
type PollingSettings struct {
	Interval     time.Duration `json:"interval" mapstructure:"interval"`
	TriggerDelay time.Duration `json:"trigger_delay" mapstructure:"trigger_delay"`
}

// GeneralSettings contains application behavior settings.
type GeneralSettings struct {
	Theme         int  `json:"theme" mapstructure:"theme"`
	RecordHistory bool `json:"record_history" mapstructure:"record_history"`
	DebugLog      bool `json:"debug_log" mapstructure:"debug_log"`
}

const (
	ThemeAdaptive = 0
	ThemeLight    = 1
	ThemeDark     = 2
)

const (
	DefaultBaseURL      = "http://127.0.0.1:5000"
	DefaultTimeout      = 10 * time.Second
	DefaultInterval     = 1000 * time.Millisecond
	DefaultTriggerDelay = 1000 * time.Millisecond
)

// SettingMeta provides metadata for a single setting (for `clf config show`).
type SettingMeta struct {
	Key         string // dotted key, also the viper key
	Label       string // Human-readable label
	Description string // Help text
	Type        string // "string", "int", "bool", "duration"
}

// GetSettingsMetadata returns metadata for all settings organized by category.
func GetSettingsMetadata() map[string][]SettingMeta {
	return map[string][]SettingMeta{
		"Server": {
			{Key: "server.base_url", Label: "Server URL", Description: "Base URL of the clf web server.", Type: "string"},
			{Key: "server.timeout", Label: "Request Timeout", Description: "Timeout for a single HTTP request (e.g., 10s).", Type: "duration"},
			{Key: "server.user_agent", Label: "User Agent", Description: "Custom User-Agent product. Leave empty for default.", Type: "string"},
			{Key: "server.proxy_url", Label: "Proxy", Description: "HTTP or SOCKS5 proxy URL. Leave empty to use HTTP_PROXY.", Type: "string"},
		},
		"Polling": {
			{Key: "polling.interval", Label: "Poll Interval", Description: "Delay between two progress polls (e.g., 1s).", Type: "duration"},
			{Key: "polling.trigger_delay", Label: "Trigger Delay", Description: "Wait after starting a download before polling resumes.", Type: "duration"},
		},
		"General": {
			{Key: "general.theme", Label: "App Theme", Description: "UI Theme (0 System, 1 Light, 2 Dark).", Type: "int"},
			{Key: "general.record_history", Label: "Record History", Description: "Remember downloads once they leave the progress list.", Type: "bool"},
			{Key: "general.debug_log", Label: "Debug Log", Description: "Write a debug log to the logs directory.", Type: "bool"},
		},
	}
}

// CategoryOrder returns the order of categories for display.
func CategoryOrder() []string {
	return []string{"Server", "Polling", "General"}
}

// DefaultSettings returns a new Settings instance with sensible defaults.
func DefaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Polling: PollingSettings{
			Interval:     DefaultInterval,
			TriggerDelay: DefaultTriggerDelay,
		},
		General: GeneralSettings{
			Theme:         ThemeAdaptive,
			RecordHistory: true,
		},
	}
}

// GetSettingsPath returns the path to the settings JSON file.
func GetSettingsPath() string {
	return filepath.Join(GetCLFDir(), "settings.json")
}

// LoadSettings loads settings from disk and CLF_* environment variables.
// Returns defaults if the file doesn't exist.
func LoadSettings() (*Settings, error) {
	return LoadSettingsWith(viper.New(), GetSettingsPath())
}

// LoadSettingsWith layers defaults, the settings file at path, CLF_* environment
// variables and any flags already bound on v, then decodes the result.
func LoadSettingsWith(v *viper.Viper, path string) (*Settings, error) {
	registerDefaults(v, DefaultSettings())

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading settings file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func registerDefaults(v *viper.Viper, d *Settings) {
	v.SetDefault("server.base_url", d.Server.BaseURL)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("server.user_agent", d.Server.UserAgent)
	v.SetDefault("server.proxy_url", d.Server.ProxyURL)
	v.SetDefault("polling.interval", d.Polling.Interval)
	v.SetDefault("polling.trigger_delay", d.Polling.TriggerDelay)
	v.SetDefault("general.theme", d.General.Theme)
	v.SetDefault("general.record_history", d.General.RecordHistory)
	v.SetDefault("general.debug_log", d.General.DebugLog)
}

// Validate rejects settings the poller cannot run with.
func (s *Settings) Validate() error {
	u, err := url.Parse(s.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", s.Server.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported server url scheme %q (use http or https)", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("invalid server url: missing host")
	}
	if s.Server.ProxyURL != "" {
		p, err := url.Parse(s.Server.ProxyURL)
		if err != nil {
			return fmt.Errorf("invalid proxy url %q: %w", s.Server.ProxyURL, err)
		}
		switch p.Scheme {
		case "http", "https", "socks5", "socks5h":
		default:
			return fmt.Errorf("unsupported proxy scheme %q", p.Scheme)
		}
	}
	if s.Polling.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", s.Polling.Interval)
	}
	if s.Polling.TriggerDelay < 0 {
		return fmt.Errorf("trigger delay must not be negative, got %s", s.Polling.TriggerDelay)
	}
	if s.Server.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", s.Server.Timeout)
	}
	if s.General.Theme < ThemeAdaptive || s.General.Theme > ThemeDark {
		return fmt.Errorf("unknown theme %d", s.General.Theme)
	}
	return nil
}

// MarshalJSON writes the timeout as a duration string ("10s") so the file
// stays editable by hand. Both strings and nanosecond numbers load back.
func (s ServerSettings) MarshalJSON() ([]byte, error) {
	type plain ServerSettings
	return json.Marshal(struct {
		plain
		Timeout string `json:"timeout"`
	}{plain: plain(s), Timeout: s.Timeout.String()})
}

// MarshalJSON writes the durations as strings ("1s").
func (p PollingSettings) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Interval     string `json:"interval"`
		TriggerDelay string `json:"trigger_delay"`
	}{Interval: p.Interval.String(), TriggerDelay: p.TriggerDelay.String()})
}

// SaveSettings saves settings to disk atomically.
func SaveSettings(s *Settings) error {
	return SaveSettingsTo(s, GetSettingsPath())
}

// SaveSettingsTo writes settings to path via a temp file and rename.
func SaveSettingsTo(s *Settings, path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tempPath, path)
}

// Values flattens the settings into dotted keys, formatted for display.
func (s *Settings) Values() map[string]string {
	return map[string]string{
		"server.base_url":        s.Server.BaseURL,
		"server.timeout":         s.Server.Timeout.String(),
		"server.user_agent":      s.Server.UserAgent,
		"server.proxy_url":       s.Server.ProxyURL,
		"polling.interval":       s.Polling.Interval.String(),
		"polling.trigger_delay":  s.Polling.TriggerDelay.String(),
		"general.theme":          fmt.Sprintf("%d", s.General.Theme),
		"general.record_history": fmt.Sprintf("%t", s.General.RecordHistory),
		"general.debug_log":      fmt.Sprintf("%t", s.General.DebugLog),
	}
}
