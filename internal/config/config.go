package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL"`
	JWT         JWT    `envPrefix:"JWT_"`
	Notify      Notify `envPrefix:"NOTIFY_"`
	Cache       Cache  `envPrefix:"CACHE_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type JWT struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

type Notify struct {
	GatewayURL string `env:"GATEWAY_URL"` // empty disables the HTTP gateway, falls back to log-only
	Token      string `env:"TOKEN"`
}

type Cache struct {
	ForecastTTL time.Duration `env:"FORECAST_TTL" envDefault:"15m"`
}
