package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger         `mapstructure:"logger"`
	DB        Database       `mapstructure:"database"`
	API       API            `mapstructure:"api"`
	Scheduler Scheduler      `mapstructure:"scheduler"`
	Executor  Executor       `mapstructure:"executor"`
	Telegram  TelegramConfig `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type Scheduler struct {
	DefaultTimezone   string        `mapstructure:"default_timezone"`
	MonitorDelay      time.Duration `mapstructure:"monitor_delay"`
	SweepInterval     time.Duration `mapstructure:"sweep_interval"`
	CleanupRetention  time.Duration `mapstructure:"cleanup_retention"`
	MaxConcurrency    int           `mapstructure:"max_concurrency"`
	ExecutionCacheTTL time.Duration `mapstructure:"execution_cache_ttl"`
}

type Executor struct {
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	BatchURLLimit  int           `mapstructure:"batch_url_limit"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type TelegramConfig struct {
	BotToken            string        `mapstructure:"bot_token"`
	ChatID              int64         `mapstructure:"chat_id"`
	MaxRequestPerSecond int           `mapstructure:"max_request_per_second"`
	TimeoutDuration     time.Duration `mapstructure:"timeout_duration"`
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, env vars and defaults cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("scheduler.default_timezone", "UTC")
	viper.SetDefault("scheduler.monitor_delay", 5*time.Second)
	viper.SetDefault("scheduler.sweep_interval", time.Minute)
	viper.SetDefault("scheduler.cleanup_retention", 30*24*time.Hour)
	viper.SetDefault("scheduler.max_concurrency", 10)
	viper.SetDefault("scheduler.execution_cache_ttl", 24*time.Hour)
	viper.SetDefault("executor.default_timeout", 60*time.Second)
	viper.SetDefault("executor.http_timeout", 30*time.Second)
	viper.SetDefault("executor.batch_url_limit", 5)
	viper.SetDefault("telegram.max_request_per_second", 30)
	viper.SetDefault("telegram.timeout_duration", 10*time.Second)
}
