package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Push     PushConfig     `mapstructure:"push"`
	Log      LogConfig      `mapstructure:"log"`
}

type SupabaseConfig struct {
	ProjectURL string        `mapstructure:"project_url"`
	AnonKey    string        `mapstructure:"anon_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type CacheConfig struct {
	// Path is the sqlite DSN; tests use "file::memory:?cache=shared".
	Path string `mapstructure:"path"`
}

type SyncConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

type PushConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("supabase.timeout", 30*time.Second)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("cache.path", "quickbite.db")
	v.SetDefault("sync.interval", 15*time.Minute)
	v.SetDefault("sync.probe_timeout", 5*time.Second)
	v.SetDefault("push.host", "127.0.0.1")
	v.SetDefault("push.port", 8089)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Supabase.ProjectURL == "" {
		return nil, fmt.Errorf("supabase.project_url is required")
	}
	if config.Supabase.AnonKey == "" {
		return nil, fmt.Errorf("supabase.anon_key is required")
	}

	return &config, nil
}

func (p *PushConfig) Addr() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}
