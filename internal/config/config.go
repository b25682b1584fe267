// Package config loads the engine's startup configuration with
// github.com/spf13/viper, following the teacher's fiat/internal/config
// pattern of an env-file-plus-environment-variables config struct.
package config

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

// Config is everything cmd/engine needs to wire the region path, the
// additional symbols, the metrics address, and the optional
// durability/broadcast side channels. Ring capacities are fixed constants
// in internal/mmapregion, not configuration.
type Config struct {
	RegionPath       string
	RestingStoreDir  string
	DurableResting   bool
	KafkaBrokers     []string
	KafkaTopic       string
	KafkaEnabled     bool
	MetricsAddr      string
	AdditionalSymbols []string
}

// Load reads configuration from a .env file (if present) and the
// environment, applying defaults for any key neither of them sets.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("REGION_PATH", "./data/region.dat")
	v.SetDefault("RESTING_STORE_DIR", "./data/resting")
	v.SetDefault("DURABLE_RESTING", false)
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_TOPIC", "matching-engine.trades")
	v.SetDefault("METRICS_ADDR", ":9090")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return &Config{
		RegionPath:        v.GetString("REGION_PATH"),
		RestingStoreDir:   v.GetString("RESTING_STORE_DIR"),
		DurableResting:    v.GetBool("DURABLE_RESTING"),
		KafkaBrokers:      v.GetStringSlice("KAFKA_BROKERS"),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
		KafkaEnabled:      v.GetBool("KAFKA_ENABLED"),
		MetricsAddr:       v.GetString("METRICS_ADDR"),
		AdditionalSymbols: v.GetStringSlice("ADDITIONAL_SYMBOLS"),
	}, nil
}
