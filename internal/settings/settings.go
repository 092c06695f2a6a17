// Package settings persists the dashboard's local key-value settings.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/110782829/moomoo-chatgpt-trader/internal/models"
)

const settingsFile = ".mmtrader/settings.json"

// Settings is everything the dashboard remembers between runs.
type Settings struct {
	APIBaseURL string          `json:"api_base_url,omitempty"`
	Host       string          `json:"host,omitempty"`
	Port       int             `json:"port,omitempty"`
	AccountID  string          `json:"account_id,omitempty"`
	TradeEnv   models.TradeEnv `json:"trd_env,omitempty"`
	Theme      string          `json:"theme,omitempty"`
	LogFile    string          `json:"log_file,omitempty"`
}

// Defaults are applied for fields missing from disk and environment.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 11111
)

// Load reads settings from disk under baseDir. A missing file yields
// defaults rather than an error.
func Load(baseDir string) (*Settings, error) {
	path := filepath.Join(baseDir, settingsFile)

	s := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	s.fillDefaults()
	return s, nil
}

// Save writes settings to disk under baseDir.
func Save(baseDir string, s *Settings) error {
	path := filepath.Join(baseDir, settingsFile)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays environment variables, loading a .env file from the
// working directory first when present. The bot's own variable names are
// honored so one .env serves both processes.
func (s *Settings) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("MOOMOO_API_URL"); v != "" {
		s.APIBaseURL = v
	}
	if v := os.Getenv("MOOMOO_HOST"); v != "" {
		s.Host = v
	}
	if v := os.Getenv("MOOMOO_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			s.Port = port
		}
	}
}

func defaults() *Settings {
	return &Settings{
		APIBaseURL: "http://127.0.0.1:8000",
		Host:       DefaultHost,
		Port:       DefaultPort,
		TradeEnv:   models.EnvSimulate,
	}
}

// fillDefaults backfills zero-valued fields after a partial file load.
func (s *Settings) fillDefaults() {
	d := defaults()
	if s.APIBaseURL == "" {
		s.APIBaseURL = d.APIBaseURL
	}
	if s.Host == "" {
		s.Host = d.Host
	}
	if s.Port == 0 {
		s.Port = d.Port
	}
	if !s.TradeEnv.Valid() {
		s.TradeEnv = d.TradeEnv
	}
}
