package cmd

import (
	"fmt"
	"time"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RedisAddr selects the Redis channel broker when set; the in-process hub otherwise.
	RedisAddr          string
	RedisChannelPrefix string

	// KafkaHost is a comma separated broker list. Order events are streamed only when set.
	KafkaHost             string
	KafkaOrderEventsTopic string

	TrackingTickInterval time.Duration
	LogLevel             string
}

// DSN returns the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
