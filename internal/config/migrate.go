package config

import (
	"fmt"
	"os"

	"github.com/zbiljic/vconfig-go"
)

// loadCreateMigrate loads existing config or creates new one, handling migrations
func loadCreateMigrate() (*Config, error) {
	configPath, err := FindFile()
	if err != nil {
		if os.IsNotExist(err) {
			// no config file found, return default configuration
			config := NewDefault()
			return config, nil
		}
		return nil, fmt.Errorf("error searching for config file: %w", err)
	}

	version, err := vconfig.GetVersion(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// fallback create new config
			config := NewDefault()
			return config, nil
		}
		return nil, err
	}

	switch version {
	case configVersionV0:
		config, err := vconfig.LoadConfig[configV0](configPath)
		if err != nil {
			return nil, errLoadVersion(version, err)
		}
		return migrateV0ToV1(config), nil
	case configVersionV1:
		config, err := vconfig.LoadConfig[configV1](configPath)
		if err != nil {
			return nil, errLoadVersion(version, err)
		}
		if err := config.validateV1(); err != nil {
			return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
		}
		return config, nil
	default:
		return nil, errUnknownVersion(version)
	}
}

// migrateV0ToV1 carries the pre-versioned flat key map into the v1 shape.
func migrateV0ToV1(old *configV0) *configV1 {
	config := newConfigV1()

	if old.Provider != "" {
		if _, ok := config.Providers[old.Provider]; ok {
			config.Provider = old.Provider
		}
	}
	for name, key := range old.APIKeys {
		if p, ok := config.Providers[name]; ok {
			p.APIKey = key
			config.Providers[name] = p
		}
	}

	return config
}
