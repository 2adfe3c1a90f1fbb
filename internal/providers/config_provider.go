package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"treats/internal/structures"

	"github.com/spf13/viper"
)

const AppName = "TreatsDaemon"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config
	v := viper.New()

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("auth.bcryptCost", 10)
	v.SetDefault("cache.ttl", 60)
	v.SetDefault("logger.mode", 0644)

	v.BindEnv("logger.level", "TREATS_LOG_LEVEL")
	v.BindEnv("persistence.dsn", "TREATS_PERSISTENCE_DSN")
	v.BindEnv("auth.secret", "TREATS_AUTH_SECRET")
	v.BindEnv("cache.enabled", "TREATS_CACHE_ENABLED")
	v.BindEnv("cache.size", "TREATS_CACHE_SIZE")
	v.BindEnv("metrics.enabled", "TREATS_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
