package config

import "github.com/spf13/viper"

type ServerConfig struct {
	Port        int `mapstructure:"port"`
	MetricsPort int `mapstructure:"metrics_port"`
}

func (config ServerConfig) bindEnvironmentVariables() error {

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.metrics_port", 8080)

	if err := viper.BindEnv("server.port", "PORT"); err != nil {
		return err
	}

	return viper.BindEnv("server.metrics_port", "METRICS_PORT")
}
