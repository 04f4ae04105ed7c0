package config

import (
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type SessionConfig struct {
	// Store selects the session backend: "memory" or "redis".
	Store string
	// TTL bounds a redis session's lifetime. Zero means no expiry, which is
	// also how the in-memory store behaves.
	TTL time.Duration
}

func LoadServerConfig() *ServerConfig {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.idle_timeout", 60*time.Second)
	viper.SetDefault("server.shutdown_timeout", 30*time.Second)

	return &ServerConfig{
		Port:            viper.GetString("server.port"),
		ReadTimeout:     viper.GetDuration("server.read_timeout"),
		WriteTimeout:    viper.GetDuration("server.write_timeout"),
		IdleTimeout:     viper.GetDuration("server.idle_timeout"),
		ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
	}
}

func LoadSessionConfig() *SessionConfig {
	viper.SetDefault("session.store", "memory")
	viper.SetDefault("session.ttl", time.Duration(0))

	return &SessionConfig{
		Store: viper.GetString("session.store"),
		TTL:   viper.GetDuration("session.ttl"),
	}
}
