package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/lunarjournal/internal/flagx"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals
// are given in whole seconds. Absent fields leave the current Config
// values untouched.
type jsonConfig struct {
	BackendURL          string `json:"backend_url"`
	AppID               string `json:"app_id"`
	TokenFile           string `json:"token_file"`
	OnlineCheckInterval int    `json:"online_check_interval"`
	LogLevel            string `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when neither is given, nothing is
// loaded. Read or unmarshal errors panic, matching the contract that a
// broken explicit config should stop startup.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc jsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BackendURL != "" {
		cfg.BackendURL = jc.BackendURL
	}
	if jc.AppID != "" {
		cfg.AppID = jc.AppID
	}
	if jc.TokenFile != "" {
		cfg.TokenFile = jc.TokenFile
	}
	if jc.OnlineCheckInterval > 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval) * time.Second
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
