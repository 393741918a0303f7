package store

import (
	"fmt"
	"net/url"

	"github.com/kelseyhightower/envconfig"
)

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

type Config struct {
	DatabaseName string `envconfig:"HEALTHCARE_DB_NAME" default:"healthcare"`
	Host         string `envconfig:"HEALTHCARE_DB_HOST" default:"localhost"`
	Port         uint16 `envconfig:"HEALTHCARE_DB_PORT" default:"5432"`
	User         string `envconfig:"HEALTHCARE_DB_USERNAME" default:"postgres"`
	Password     string `envconfig:"HEALTHCARE_DB_PASSWORD"`
	SslMode      string `envconfig:"HEALTHCARE_DB_SSL_MODE" default:"disable"`
}

func (c *Config) GetConnectionString() (string, error) {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.DatabaseName,
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}
	if c.SslMode != "" {
		q := url.Values{}
		q.Set("sslmode", c.SslMode)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func GetConnectionString(cfg *Config) (string, error) {
	return cfg.GetConnectionString()
}
