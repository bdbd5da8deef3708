package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Database struct {
		DSN string
	}
	JWT struct {
		Secret string
	}
	Game struct {
		Scorer string
	}
	Lobby struct {
		TTLSeconds int
	}
}

var Cfg Config

func Load() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("game.scorer", "ranksum")
	viper.SetDefault("lobby.ttlseconds", 600)

	if err := viper.ReadInConfig(); err != nil {
		// config file is optional, defaults cover the rest
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return viper.Unmarshal(&Cfg)
}
