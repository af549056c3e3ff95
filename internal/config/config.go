package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	POAP     POAPConfig     `yaml:"poap"`
	ENS      ENSConfig      `yaml:"ens"`
	Feed     FeedConfig     `yaml:"feed"`
	LogLevel string         `yaml:"log_level"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type CacheConfig struct {
	Driver string        `yaml:"driver"` // "postgres" or "memory"
	Table  string        `yaml:"table"`
	TTL    time.Duration `yaml:"ttl"`
}

type POAPConfig struct {
	BaseURL      string        `yaml:"base_url"`
	AuthURL      string        `yaml:"auth_url"`
	Audience     string        `yaml:"audience"`
	APIKey       string        `yaml:"api_key"`
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	TokenMargin  time.Duration `yaml:"token_margin"`
	Timeout      time.Duration `yaml:"timeout"`
}

type ENSConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type FeedConfig struct {
	RecentClaimsLimit        int `yaml:"recent_claims_limit"`
	InactivityThresholdWeeks int `yaml:"inactivity_threshold_weeks"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 25 * time.Second
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.Table == "" {
		c.Cache.Table = "feed_cache"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 15 * time.Minute
	}
	if c.POAP.BaseURL == "" {
		c.POAP.BaseURL = "https://api.poap.tech"
	}
	if c.POAP.AuthURL == "" {
		c.POAP.AuthURL = "https://auth.accounts.poap.xyz/oauth/token"
	}
	if c.POAP.Audience == "" {
		c.POAP.Audience = "https://api.poap.tech"
	}
	if c.POAP.TokenMargin == 0 {
		c.POAP.TokenMargin = 60 * time.Second
	}
	if c.POAP.Timeout == 0 {
		c.POAP.Timeout = 10 * time.Second
	}
	if c.ENS.BaseURL == "" {
		c.ENS.BaseURL = "https://api.ensideas.com"
	}
	if c.ENS.Timeout == 0 {
		c.ENS.Timeout = 5 * time.Second
	}
	if c.Feed.RecentClaimsLimit == 0 {
		c.Feed.RecentClaimsLimit = 20
	}
	if c.Feed.InactivityThresholdWeeks == 0 {
		c.Feed.InactivityThresholdWeeks = 4
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
