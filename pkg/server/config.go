package server

import (
	"encoding/json"
	"os"
)

type ConfigData struct {
	Port             int    `json:"port"`
	StreamsDir       string `json:"streams_dir"`
	FavoritesFile    string `json:"favorites_file"`
	LogFile          string `json:"log_file,omitempty"`
	Timeout          int    `json:"default_timeout,omitempty"`
	SettleDelayMs    int    `json:"settle_delay_ms,omitempty"`
	SearchDebounceMs int    `json:"search_debounce_ms,omitempty"`
}

type Config struct {
	path string
	data ConfigData
}

func defaultConfigData() ConfigData {
	return ConfigData{
		Port:             8080,
		StreamsDir:       "iptv/streams",
		FavoritesFile:    "favorites.json",
		Timeout:          5,
		SettleDelayMs:    80,
		SearchDebounceMs: 120,
	}
}

// NewConfig loads the configuration at path, writing a default one when the
// file does not exist yet.
func NewConfig(path string) *Config {
	c := &Config{
		path: path,
	}

	if err := c.Load(path); err != nil {
		if os.IsNotExist(err) {
			c.data = defaultConfigData()
			if err := c.Save(); err != nil {
				panic(err)
			}
		} else {
			panic(err)
		}
	}
	return c
}

func (c *Config) Load(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	data := defaultConfigData()
	if err := json.Unmarshal(content, &data); err != nil {
		return err
	}
	c.path = path
	c.data = data
	return nil
}

func (c *Config) Save() error {
	content, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, content, 0644)
}

func (c *Config) Data() ConfigData {
	return c.data
}
