package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_DEBUG_JSON allows dumping decoded broadcast frames as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// E2E_SETTLE bounds every wait on the asynchronous broadcast pipeline
	Settle time.Duration `envconfig:"E2E_SETTLE" default:"5s"`
	// E2E_CENSORED_WORDS seeds the moderation dictionary for the suite
	CensoredWords string `envconfig:"E2E_CENSORED_WORDS" default:"ambush"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
