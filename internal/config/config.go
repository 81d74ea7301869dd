// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds configuration knobs for the HTTP server, the event workers
// and the option views.
type Config struct {
	HTTPAddr                string        `validate:"required"`
	ShutdownTimeout         time.Duration `validate:"gt=0"`
	InitialWorkerCount      int           `validate:"gte=1"`
	WorkerMin               int           `validate:"gte=1"`
	WorkerMax               int           `validate:"gtefield=WorkerMin"`
	ScaleInterval           time.Duration `validate:"gt=0"`
	ScaleUpBacklogPerWorker int           `validate:"gte=1"`
	ScaleDownIdleTicks      int           `validate:"gte=1"`
	QueueHighWatermark      int           `validate:"gte=0"`
	MatrixMaxCombinations   int           `validate:"gte=0"` // 0 disables the matrix bound
	CatalogSeedPath         string
	LogLevel                string `validate:"oneof=debug info warn error"`
}

var validate = validator.New()

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	minWorkers := atoienv("WORKER_MIN", 2)
	maxWorkers := atoienv("WORKER_MAX", 6)
	initialWorkers := atoienv("WORKER_COUNT", minWorkers)
	return Config{
		HTTPAddr:                getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:         durenvs("SHUTDOWN_TIMEOUT", 15),
		InitialWorkerCount:      initialWorkers,
		WorkerMin:               minWorkers,
		WorkerMax:               maxWorkers,
		ScaleInterval:           durenvms("SCALE_INTERVAL_MS", 500),
		ScaleUpBacklogPerWorker: atoienv("SCALE_UP_BACKLOG_PER_WORKER", 100),
		ScaleDownIdleTicks:      atoienv("SCALE_DOWN_IDLE_TICKS", 6),
		QueueHighWatermark:      atoienv("QUEUE_HIGH_WATERMARK", 5000),
		MatrixMaxCombinations:   atoienv("MATRIX_MAX_COMBINATIONS", 10000),
		CatalogSeedPath:         getenv("CATALOG_SEED_PATH", ""),
		LogLevel:                strings.ToLower(getenv("LOG_LEVEL", "info")),
	}
}

// Validate rejects configurations the service cannot run with.
func (c Config) Validate() error {
	return validate.Struct(c)
}
