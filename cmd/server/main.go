package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/soundlab/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
	usage        string
}

var (
	secret = configVar[string]{
		envKey:       "SERVER_SECRET",
		flagKey:      "secret",
		defaultValue: "",
		usage:        "Secret used to verify auth tokens",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
		usage:        "Server port",
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
		usage:        "Server host",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
		usage:        "Logging level",
	}
	corsOrigin = configVar[string]{
		envKey:       "SERVER_CORS_ORIGIN",
		flagKey:      "cors-origin",
		defaultValue: "*",
		usage:        "Allowed CORS origin",
	}
	queueLimit = configVar[int]{
		envKey:       "SERVER_QUEUE_LIMIT",
		flagKey:      "queue-limit",
		defaultValue: 25,
		usage:        "Maximum number of videos in a room queue",
	}
	queueStore = configVar[string]{
		envKey:       "SERVER_QUEUE_STORE",
		flagKey:      "queue-store",
		defaultValue: app.QueueStoreRedis,
		usage:        "Queue entry store: redis or sqlite",
	}
	queueTTL = configVar[time.Duration]{
		envKey:       "SERVER_QUEUE_TTL",
		flagKey:      "queue-ttl",
		defaultValue: 14 * 24 * time.Hour,
		usage:        "How long queue entries are kept in redis",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
		usage:        "Redis port",
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
		usage:        "Redis host",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
		usage:        "Redis password",
	}
	sqlitePath = configVar[string]{
		envKey:       "SQLITE_PATH",
		flagKey:      "sqlite-path",
		defaultValue: "soundlab.db",
		usage:        "SQLite database file",
	}
	youtubeAPIKey = configVar[string]{
		envKey:       "YOUTUBE_API_KEY",
		flagKey:      "youtube-api-key",
		defaultValue: "",
		usage:        "YouTube Data API key, enables video durations",
	}
)

func bind[T any](v configVar[T]) {
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func loadAppConfig() *app.AppConfig {
	pflag.String(secret.flagKey, secret.defaultValue, secret.usage)
	pflag.Int(port.flagKey, port.defaultValue, port.usage)
	pflag.String(host.flagKey, host.defaultValue, host.usage)
	pflag.String(logLevel.flagKey, logLevel.defaultValue, logLevel.usage)
	pflag.String(corsOrigin.flagKey, corsOrigin.defaultValue, corsOrigin.usage)
	pflag.Int(queueLimit.flagKey, queueLimit.defaultValue, queueLimit.usage)
	pflag.String(queueStore.flagKey, queueStore.defaultValue, queueStore.usage)
	pflag.Duration(queueTTL.flagKey, queueTTL.defaultValue, queueTTL.usage)
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, redisPort.usage)
	pflag.String(redisHost.flagKey, redisHost.defaultValue, redisHost.usage)
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, redisPassword.usage)
	pflag.String(sqlitePath.flagKey, sqlitePath.defaultValue, sqlitePath.usage)
	pflag.String(youtubeAPIKey.flagKey, youtubeAPIKey.defaultValue, youtubeAPIKey.usage)
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	bind(secret)
	bind(port)
	bind(host)
	bind(logLevel)
	bind(corsOrigin)
	bind(queueLimit)
	bind(queueStore)
	bind(queueTTL)
	bind(redisPort)
	bind(redisHost)
	bind(redisPassword)
	bind(sqlitePath)
	bind(youtubeAPIKey)

	return &app.AppConfig{
		Secret:        viper.GetString(secret.flagKey),
		Host:          viper.GetString(host.flagKey),
		Port:          viper.GetInt(port.flagKey),
		LogLevel:      viper.GetString(logLevel.flagKey),
		CORSOrigin:    viper.GetString(corsOrigin.flagKey),
		QueueLimit:    viper.GetInt(queueLimit.flagKey),
		QueueStore:    viper.GetString(queueStore.flagKey),
		QueueTTL:      viper.GetDuration(queueTTL.flagKey),
		RedisPort:     viper.GetInt(redisPort.flagKey),
		RedisHost:     viper.GetString(redisHost.flagKey),
		RedisPassword: viper.GetString(redisPassword.flagKey),
		SQLitePath:    viper.GetString(sqlitePath.flagKey),
		YouTubeAPIKey: viper.GetString(youtubeAPIKey.flagKey),
	}
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
