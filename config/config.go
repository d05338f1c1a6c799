package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string `mapstructure:"HTTP_PORT"`
	GRPCPort string `mapstructure:"GRPC_PORT"`
	LogMode  string `mapstructure:"LOG_MODE"`

	// sqlite, postgres or redis
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	SQLitePath    string `mapstructure:"SQLITE_PATH"`
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        string `mapstructure:"DB_PORT"`
	DBUser        string `mapstructure:"DB_USER"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	DBName        string `mapstructure:"DB_NAME"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`

	AccessSecret   string   `mapstructure:"JWT_ACCESS_SECRET"`
	AdminKeyHash   string   `mapstructure:"ADMIN_KEY_HASH"`
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`

	KafkaEnabled bool     `mapstructure:"KAFKA_ENABLED"`
	KafkaBrokers []string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string   `mapstructure:"KAFKA_TOPIC"`

	CourseID           string        `mapstructure:"COURSE_ID"`
	CourseLabel        string        `mapstructure:"COURSE_LABEL"`
	SessionIdleTimeout time.Duration `mapstructure:"SESSION_IDLE_TIMEOUT"`
	SweepInterval      time.Duration `mapstructure:"SWEEP_INTERVAL"`
	HealthInterval     time.Duration `mapstructure:"HEALTH_INTERVAL"`
}

var defaults = map[string]any{
	"HTTP_PORT":            ":8080",
	"GRPC_PORT":            ":9090",
	"LOG_MODE":             "production",
	"STORAGE_DRIVER":       "sqlite",
	"SQLITE_PATH":          "progress.db",
	"DB_PORT":              "5432",
	"KAFKA_ENABLED":        false,
	"KAFKA_TOPIC":          "piano.progress",
	"COURSE_ID":            "intermediate",
	"COURSE_LABEL":         "Intermediate Piano Course",
	"SESSION_IDLE_TIMEOUT": 30 * time.Minute,
	"SWEEP_INTERVAL":       time.Minute,
	"HEALTH_INTERVAL":      10 * time.Second,
}

var bound = []string{
	"DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "REDIS_ADDR",
	"JWT_ACCESS_SECRET", "ADMIN_KEY_HASH", "ALLOWED_ORIGINS", "KAFKA_BROKERS",
}

func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.AutomaticEnv()

	// explicit bindings so Unmarshal sees env-only keys without a file
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range bound {
		if err = v.BindEnv(key); err != nil {
			return
		}
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	err = config.Validate()
	return
}

func (c Config) Validate() error {
	if c.AccessSecret == "" {
		return errors.New("JWT_ACCESS_SECRET is required")
	}
	switch c.StorageDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.DBHost == "" || c.DBName == "" {
			return errors.New("DB_HOST and DB_NAME are required for the postgres driver")
		}
	case "redis":
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	return nil
}

// PostgresDSN builds the connection string the way the gorm postgres driver expects it.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
