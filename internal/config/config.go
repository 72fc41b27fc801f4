package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataDir             string `validate:"required"`
	OutputDir           string `validate:"required"`
	SeasonalReportFile  string `validate:"required"`
	RangeReportFile     string `validate:"required"`
	StabilityReportFile string `validate:"required"`

	LoadWorkers   int           `validate:"min=1,max=64"`
	RunInterval   time.Duration `validate:"min=0"`
	FileCacheSize int           `validate:"min=1"`

	HTTPAddr        string `validate:"required"`
	LogLevel        string `validate:"oneof=debug info warn warning error"`
	LogFormat       string `validate:"oneof=json text"`
	ShutdownTimeout time.Duration

	// Kafka report publishing.
	KafkaBrokers     []string
	KafkaEnabled     bool
	KafkaReportTopic string `validate:"required_if=KafkaEnabled true"`

	// Optional renderings; empty disables them.
	WorkbookFile string
	ChartFile    string
}

// envNames maps struct fields to the environment variable that sets them.
var envNames = map[string]string{
	"DataDir":             "DATA_DIR",
	"OutputDir":           "OUTPUT_DIR",
	"SeasonalReportFile":  "SEASONAL_REPORT_FILE",
	"RangeReportFile":     "RANGE_REPORT_FILE",
	"StabilityReportFile": "STABILITY_REPORT_FILE",
	"LoadWorkers":         "LOAD_WORKERS",
	"RunInterval":         "RUN_INTERVAL",
	"FileCacheSize":       "FILE_CACHE_SIZE",
	"HTTPAddr":            "HTTP_ADDR",
	"LogLevel":            "LOG_LEVEL",
	"LogFormat":           "LOG_FORMAT",
	"KafkaReportTopic":    "KAFKA_REPORT_TOPIC",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	runInterval, err := parseDuration("RUN_INTERVAL", "0s")
	if err != nil {
		return nil, err
	}

	loadWorkers, err := parseInt("LOAD_WORKERS", 4)
	if err != nil {
		return nil, err
	}

	fileCacheSize, err := parseInt("FILE_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		DataDir:             sharedcfg.EnvOrDefault("DATA_DIR", "temperatures"),
		OutputDir:           sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),
		SeasonalReportFile:  sharedcfg.EnvOrDefault("SEASONAL_REPORT_FILE", "average_temp.txt"),
		RangeReportFile:     sharedcfg.EnvOrDefault("RANGE_REPORT_FILE", "largest_temp_range_station.txt"),
		StabilityReportFile: sharedcfg.EnvOrDefault("STABILITY_REPORT_FILE", "temperature_stability_stations.txt"),
		LoadWorkers:         loadWorkers,
		RunInterval:         runInterval,
		FileCacheSize:       fileCacheSize,
		HTTPAddr:            sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,

		KafkaBrokers:     brokers,
		KafkaEnabled:     kafkaEnabled,
		KafkaReportTopic: sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "climate-reports"),

		WorkbookFile: os.Getenv("WORKBOOK_FILE"),
		ChartFile:    os.Getenv("CHART_FILE"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// ServiceMode reports whether the pipeline should keep running on an interval.
func (c *Config) ServiceMode() bool {
	return c.RunInterval > 0
}

// validateConfig checks struct constraints and names the offending variable on failure.
func validateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}
	fe := verrs[0]
	name, ok := envNames[fe.StructField()]
	if !ok {
		name = fe.StructField()
	}
	return fmt.Errorf("invalid %s: %q fails %q constraint", name, fmt.Sprint(fe.Value()), fe.Tag())
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
