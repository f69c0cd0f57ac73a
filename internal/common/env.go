package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds process configuration, sourced from environment variables.
type Config struct {
	AppEnv        string
	DBHost        string
	DBPort        int
	DBUser        string
	DBPassword    string
	DBName        string
	RedisAddr     string
	RedisPassword string
	LogPath       string
	KeyPath       string
	CertPath      string
	JWTKey        string
	WebhookSecret string

	// WorkerConcurrency bounds the number of workflow runs executing in
	// parallel inside one worker process.
	WorkerConcurrency int

	// NodeTimeout bounds a single action handler call so one stalled
	// external API cannot hold a worker slot forever.
	NodeTimeout time.Duration
}

var config Config

func GetConfig() Config {
	return config
}

func InitConf() {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "3306"))
	concurrency, _ := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "50"))
	nodeTimeout, err := time.ParseDuration(getEnv("NODE_TIMEOUT", "30s"))
	if err != nil {
		nodeTimeout = 30 * time.Second
	}

	config = Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            dbPort,
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", "flowline"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		LogPath:           getEnv("LOG_PATH", "./logs/app.log"),
		KeyPath:           getEnv("KEY_PATH", ""),
		CertPath:          getEnv("CERT_PATH", ""),
		JWTKey:            getEnv("JWT_KEY", "flowline_dev_key"),
		WebhookSecret:     getEnv("WEBHOOK_SECRET", "shared_secret"),
		WorkerConcurrency: concurrency,
		NodeTimeout:       nodeTimeout,
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
