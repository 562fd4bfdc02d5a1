package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/kodbank/kodbank/internal/flagx"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Timeouts and intervals are given in seconds.
type JsonConfig struct {
	ServerURL                  string `json:"server_url"`
	RequestTimeoutSeconds      int    `json:"request_timeout_seconds"`
	OnlineCheckIntervalSeconds int    `json:"online_check_interval_seconds"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. Absent keys leave the
// corresponding Config fields untouched.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.ServerURL != "" {
		config.ServerURL = c.ServerURL
	}
	if c.RequestTimeoutSeconds > 0 {
		config.RequestTimeout = time.Duration(c.RequestTimeoutSeconds) * time.Second
	}
	if c.OnlineCheckIntervalSeconds > 0 {
		config.OnlineCheckInterval = time.Duration(c.OnlineCheckIntervalSeconds) * time.Second
	}
}
