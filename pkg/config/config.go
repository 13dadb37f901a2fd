package config

import (
	"fmt"
	"os"

	"github.com/courtside/games-backend/pkg/game"
	"github.com/courtside/games-backend/pkg/game/tennis"
	"gopkg.in/yaml.v2"
)

type RawYamlConfig struct {
	Games []string `yaml:"games"`
}

type Config struct {
	Games map[string]game.GameService
}

// catalog holds every game this backend knows how to run.
var catalog = map[string]game.GameService{
	"tennis": tennis.Service(),
}

// ParseConfig reads the yaml config at path and resolves the enabled game
// names against the catalog.
func ParseConfig(path string) (*Config, error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	var rawConfig RawYamlConfig
	err = yaml.Unmarshal(configFile, &rawConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to parse yaml config: %w", err)
	}

	games := make(map[string]game.GameService)
	for _, name := range rawConfig.Games {
		service, ok := catalog[name]
		if !ok {
			return nil, fmt.Errorf("unknown game %q in config", name)
		}
		games[name] = service
	}
	return &Config{Games: games}, nil
}
