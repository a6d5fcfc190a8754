// Package settings loads the user-facing plugin settings file.
package settings

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// MinRefreshIntervalSec is the lowest accepted refresh interval.
// Smaller configured values are clamped at load time.
const MinRefreshIntervalSec = 10

// DefaultRefreshIntervalSec is used when the settings file does not set
// an interval.
const DefaultRefreshIntervalSec = 60

// Settings holds the recognized configuration options. Client
// credentials and behavior flags are owned by this file; the OAuth
// session triple deliberately lives elsewhere so it survives settings
// export/import.
type Settings struct {
	// GoogleClientID and GoogleClientSecret identify the OAuth client.
	GoogleClientID     string `mapstructure:"googleClientId"`
	GoogleClientSecret string `mapstructure:"googleClientSecret"`

	// GoogleAPIToken is the API key appended to write calls on
	// deployments that require it.
	GoogleAPIToken string `mapstructure:"googleApiToken"`

	// GoogleRefreshToken is a manual fallback for devices where the
	// interactive login flow cannot run.
	GoogleRefreshToken string `mapstructure:"googleRefreshToken"`

	// AskConfirmation requests confirmation before deleting a task.
	AskConfirmation bool `mapstructure:"askConfirmation"`

	// RefreshIntervalSec is the background resync period in seconds.
	RefreshIntervalSec int `mapstructure:"refreshInterval"`

	// ShowNotice enables user-visible notifications.
	ShowNotice bool `mapstructure:"showNotice"`

	// ShowHidden includes hidden tasks in list fetches.
	ShowHidden bool `mapstructure:"showHidden"`
}

// Complete reports whether the client credentials needed for any remote
// call are configured.
func (s *Settings) Complete() bool {
	return s.GoogleClientID != "" && s.GoogleClientSecret != "" && s.GoogleAPIToken != ""
}

func defaults() *Settings {
	return &Settings{
		AskConfirmation:    true,
		RefreshIntervalSec: DefaultRefreshIntervalSec,
		ShowNotice:         true,
	}
}

// Load reads settings from the given YAML file path using Viper.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("askConfirmation", true)
	v.SetDefault("refreshInterval", DefaultRefreshIntervalSec)
	v.SetDefault("showNotice", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults(), nil
		}
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}

	cfg := defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	if cfg.RefreshIntervalSec < MinRefreshIntervalSec {
		cfg.RefreshIntervalSec = MinRefreshIntervalSec
	}

	return cfg, nil
}
