package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Viya       ViyaConfig
	Database   DatabaseConfig
	Kubernetes KubernetesConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// ViyaConfig holds the SAS Viya endpoint and the credentials used to log on.
// Version overrides platform detection when set ("3.5" or "4").
type ViyaConfig struct {
	URL          string
	Username     string
	Password     string
	ClientID     string
	ClientSecret string
	Version      string
	VerifyTLS    bool
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// KubernetesConfig points at a Secret holding the Viya credentials.
type KubernetesConfig struct {
	Enabled        bool
	InCluster      bool
	KubeConfigPath string
	Namespace      string
	SecretName     string
}

type LoggerConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first; variables already set in the environment win.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("VIYA_URL", "")
	v.SetDefault("VIYA_USERNAME", "")
	v.SetDefault("VIYA_PASSWORD", "")
	v.SetDefault("VIYA_CLIENT_ID", "")
	v.SetDefault("VIYA_CLIENT_SECRET", "")
	v.SetDefault("VIYA_VERSION", "")
	v.SetDefault("VIYA_VERIFY_TLS", true)
	v.SetDefault("VIYA_TIMEOUT", "60s")
	v.SetDefault("VIYA_RETRY_MAX", 3)
	v.SetDefault("VIYA_RETRY_WAIT_MIN", "1s")
	v.SetDefault("VIYA_RETRY_WAIT_MAX", "30s")
	v.SetDefault("DATABASE_ENABLED", false)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_NAME", "model_manager")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("KUBERNETES_ENABLED", false)
	v.SetDefault("KUBERNETES_IN_CLUSTER", false)
	v.SetDefault("KUBERNETES_KUBECONFIG", "")
	v.SetDefault("KUBERNETES_NAMESPACE", "default")
	v.SetDefault("KUBERNETES_SECRET_NAME", "viya-credentials")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Viya: ViyaConfig{
			URL:          v.GetString("VIYA_URL"),
			Username:     v.GetString("VIYA_USERNAME"),
			Password:     v.GetString("VIYA_PASSWORD"),
			ClientID:     v.GetString("VIYA_CLIENT_ID"),
			ClientSecret: v.GetString("VIYA_CLIENT_SECRET"),
			Version:      v.GetString("VIYA_VERSION"),
			VerifyTLS:    v.GetBool("VIYA_VERIFY_TLS"),
			Timeout:      duration(v, "VIYA_TIMEOUT", 60*time.Second),
			RetryMax:     v.GetInt("VIYA_RETRY_MAX"),
			RetryWaitMin: duration(v, "VIYA_RETRY_WAIT_MIN", time.Second),
			RetryWaitMax: duration(v, "VIYA_RETRY_WAIT_MAX", 30*time.Second),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DATABASE_ENABLED"),
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: duration(v, "DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Kubernetes: KubernetesConfig{
			Enabled:        v.GetBool("KUBERNETES_ENABLED"),
			InCluster:      v.GetBool("KUBERNETES_IN_CLUSTER"),
			KubeConfigPath: v.GetString("KUBERNETES_KUBECONFIG"),
			Namespace:      v.GetString("KUBERNETES_NAMESPACE"),
			SecretName:     v.GetString("KUBERNETES_SECRET_NAME"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}

// InitLogger applies the configured level and formatter to the logrus
// standard logger.
func InitLogger(cfg LoggerConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
