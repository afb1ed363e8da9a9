package parser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Columns maps each logical column to its header text in the game sheet.
type Columns struct {
	ODK       string `yaml:"odk"`
	Down      string `yaml:"down"`
	Distance  string `yaml:"distance"`
	Formation string `yaml:"formation"`
	Backfield string `yaml:"backfield"`
	PlayCall  string `yaml:"play_call"`
	PlayType  string `yaml:"play_type"`
	Routes    string `yaml:"routes"`
}

// Config controls how game sheets are read and cleaned.
type Config struct {
	Sheet         string  `yaml:"sheet"`
	OffenseMarker string  `yaml:"offense_marker"`
	Columns       Columns `yaml:"columns"`
}

// DefaultConfig matches the Hudl-style breakdown export.
func DefaultConfig() Config {
	return Config{
		Sheet:         "Sheet1",
		OffenseMarker: "O",
		Columns: Columns{
			ODK:       "ODK",
			Down:      "DN",
			Distance:  "DIST",
			Formation: "OFF FORM",
			Backfield: "BACKFIELD",
			PlayCall:  "OFF PLAY",
			PlayType:  "PLAY TYPE",
			Routes:    "ROUTES",
		},
	}
}

// LoadConfig reads a YAML config file. Keys left out keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
