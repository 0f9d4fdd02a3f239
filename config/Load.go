package config

import (
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/utils"
)

// Load reads configuration from an optional yaml file plus REVIEWHUB_*
// environment overrides and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("REVIEWHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}
	if config.Scheduler.InstanceId == "" {
		config.Scheduler.InstanceId = uuid.New().String()
	}
	if err := utils.ValidateObject(config); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "reviewhub")
	v.SetDefault("database.username", "reviewhub")
	v.SetDefault("server.listenAddress", ":8090")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.tickSchedule", "@every 5m")
	v.SetDefault("scheduler.reminderDays", []int{7, 3, 1})
	v.SetDefault("scheduler.lockLeaseSeconds", 120)
	v.SetDefault("graph.baseUrl", "https://graph.microsoft.com/v1.0")
	v.SetDefault("graph.timeoutSeconds", 30)
	v.SetDefault("logging.level", "info")
}
