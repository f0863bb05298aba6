// Package config loads process configuration from the environment via
// sethvargo/go-envconfig struct tags. Each process (orchestrator, worker,
// api) embeds the shared sections it needs.
package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

type DatabaseConfig struct {
	DSN string `env:"DATABASE_DSN,required"`
}

type BusConfig struct {
	URL string `env:"RABBITMQ_URL,required"`
}

type ProgressConfig struct {
	RedisAddr string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisDB   int    `env:"REDIS_DB,default=0"`
}

type ObjectStoreConfig struct {
	Bucket       string `env:"OBJECTSTORE_BUCKET,required"`
	Region       string `env:"OBJECTSTORE_REGION,default=us-east-1"`
	Endpoint     string `env:"OBJECTSTORE_ENDPOINT"`
	AccessKey    string `env:"OBJECTSTORE_ACCESS_KEY"`
	SecretKey    string `env:"OBJECTSTORE_SECRET_KEY"`
	UsePathStyle bool   `env:"OBJECTSTORE_USE_PATH_STYLE,default=false"`
}

type LogConfig struct {
	Mode string `env:"LOG_MODE,default=production"`
}

// OrchestratorConfig is the process config for cmd/orchestrator.
type OrchestratorConfig struct {
	Database DatabaseConfig
	Bus      BusConfig
	Progress ProgressConfig
	Log      LogConfig
}

// WorkerConfig is the process config for cmd/worker. Stage names the one
// pipeline stage this process instance serves.
type WorkerConfig struct {
	Stage       string `env:"WORKER_STAGE,required"`
	Database    DatabaseConfig
	Bus         BusConfig
	ObjectStore ObjectStoreConfig
	Log         LogConfig
}

// APIConfig is the process config for cmd/api.
type APIConfig struct {
	Addr           string   `env:"API_ADDR,default=:8080"`
	AllowedOrigins []string `env:"API_ALLOWED_ORIGINS,default=*"`
	Database       DatabaseConfig
	Bus            BusConfig
	Progress       ProgressConfig
	Log            LogConfig
}

// YoutubeConfig is the process config for cmd/youtube, the post-pipeline
// upload hook consumer. It needs no database access.
type YoutubeConfig struct {
	Bus BusConfig
	Log LogConfig
}

func LoadYoutube(ctx context.Context) (YoutubeConfig, error) {
	var cfg YoutubeConfig
	err := envconfig.Process(ctx, &cfg)
	return cfg, err
}

func LoadOrchestrator(ctx context.Context) (OrchestratorConfig, error) {
	var cfg OrchestratorConfig
	err := envconfig.Process(ctx, &cfg)
	return cfg, err
}

func LoadWorker(ctx context.Context) (WorkerConfig, error) {
	var cfg WorkerConfig
	err := envconfig.Process(ctx, &cfg)
	return cfg, err
}

func LoadAPI(ctx context.Context) (APIConfig, error) {
	var cfg APIConfig
	err := envconfig.Process(ctx, &cfg)
	return cfg, err
}
