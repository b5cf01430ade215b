package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

type StorageConfig struct {
	Backend       string        `mapstructure:"backend"` // "memory", "file", "redis", "postgres", "s3"
	Dir           string        `mapstructure:"dir"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	PostgresURL   string        `mapstructure:"postgres_url"`
	S3Bucket      string        `mapstructure:"s3_bucket"`
	S3Region      string        `mapstructure:"s3_region"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type PointConfig struct {
	ID   string  `mapstructure:"id"`
	Name string  `mapstructure:"name"`
	Lat  float64 `mapstructure:"lat"`
	Lon  float64 `mapstructure:"lon"`
}

func (p PointConfig) Tracked(role LocationRole) TrackedLocation {
	id := p.ID
	if id == "" {
		id = string(role)
	}
	return TrackedLocation{
		ID:          id,
		Name:        p.Name,
		Role:        role,
		Coordinates: Location{Lat: p.Lat, Lon: p.Lon},
	}
}

type TrackingConfig struct {
	Steps        int           `mapstructure:"steps"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
	TotalBudget  time.Duration `mapstructure:"total_budget"` // estimated trip duration at step 0
	Jitter       float64       `mapstructure:"jitter"`       // max per-axis perturbation in degrees
	Seed         int64         `mapstructure:"seed"`
	Pickup       PointConfig   `mapstructure:"pickup"`
	Dropoff      PointConfig   `mapstructure:"dropoff"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type OutputConfig struct {
	Format          string             `mapstructure:"format"` // "console", "json", "csv", "parquet", "kafka"
	Path            string             `mapstructure:"path"`
	Folder          string             `mapstructure:"folder"`
	Destination     string             `mapstructure:"destination"` // "local" or "cloud" for parquet
	KafkaBrokerList string             `mapstructure:"kafka_broker_list"`
	CloudStorage    CloudStorageConfig `mapstructure:"cloud_storage"`
}

type CheckoutConfig struct {
	TaxRate               float64 `mapstructure:"tax_rate"`
	StandardDeliveryFee   float64 `mapstructure:"standard_delivery_fee"`
	ExpressDeliveryFee    float64 `mapstructure:"express_delivery_fee"`
	FreeDeliveryThreshold float64 `mapstructure:"free_delivery_threshold"`
	SmallOrderThreshold   float64 `mapstructure:"small_order_threshold"`
	SmallOrderFee         float64 `mapstructure:"small_order_fee"`
}

type GeocoderConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Retries   int           `mapstructure:"retries"`
}

type CatalogConfig struct {
	Seed   int64 `mapstructure:"seed"`
	Enrich bool  `mapstructure:"enrich"`
}

type Config struct {
	LogLevel  string         `mapstructure:"log_level"`
	LogFormat string         `mapstructure:"log_format"`
	Server    ServerConfig   `mapstructure:"server"`
	Storage   StorageConfig  `mapstructure:"storage"`
	Tracking  TrackingConfig `mapstructure:"tracking"`
	Output    OutputConfig   `mapstructure:"output"`
	Checkout  CheckoutConfig `mapstructure:"checkout"`
	Geocoder  GeocoderConfig `mapstructure:"geocoder"`
	Catalog   CatalogConfig  `mapstructure:"catalog"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetDefault("server.listen", ":8080")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", "~/.greengrocer")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.key_prefix", "greengrocer:")
	v.SetDefault("storage.s3_region", "eu-west-2")
	v.SetDefault("storage.timeout", "2s")

	v.SetDefault("tracking.steps", 50)
	v.SetDefault("tracking.tick_interval", "1s")
	v.SetDefault("tracking.total_budget", "25m")
	v.SetDefault("tracking.jitter", 0.0005)
	v.SetDefault("tracking.seed", 42)
	v.SetDefault("tracking.pickup.id", "farm-store")
	v.SetDefault("tracking.pickup.name", "Green Valley Farm Store")
	v.SetDefault("tracking.pickup.lat", 51.5155)
	v.SetDefault("tracking.pickup.lon", -0.0922)
	v.SetDefault("tracking.dropoff.id", "customer")
	v.SetDefault("tracking.dropoff.name", "Customer address")
	v.SetDefault("tracking.dropoff.lat", 51.5033)
	v.SetDefault("tracking.dropoff.lon", -0.1195)

	v.SetDefault("output.format", "console")
	v.SetDefault("output.path", "output")
	v.SetDefault("output.folder", "events")
	v.SetDefault("output.destination", "local")
	v.SetDefault("output.kafka_broker_list", "localhost:9092")

	v.SetDefault("checkout.tax_rate", 0.0)
	v.SetDefault("checkout.standard_delivery_fee", 3.99)
	v.SetDefault("checkout.express_delivery_fee", 6.99)
	v.SetDefault("checkout.free_delivery_threshold", 40.0)
	v.SetDefault("checkout.small_order_threshold", 10.0)
	v.SetDefault("checkout.small_order_fee", 1.5)

	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "greengrocer/1.0")
	v.SetDefault("geocoder.timeout", "5s")
	v.SetDefault("geocoder.retries", 2)

	v.SetDefault("catalog.seed", 7)
	v.SetDefault("catalog.enrich", true)
}

// LoadConfig initializes and reads the configuration using Viper. A missing
// config file is not an error; defaults and environment still apply.
func LoadConfig(cfgFile string) (*Config, error) {
	return LoadConfigFrom(viper.GetViper(), cfgFile)
}

// LoadConfigFrom is LoadConfig against an explicit viper instance.
func LoadConfigFrom(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".greengrocer")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("GREENGROCER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings the services cannot run with.
func (cfg *Config) Validate() error {
	if cfg.Tracking.Steps <= 0 {
		return fmt.Errorf("tracking.steps must be positive, got %d", cfg.Tracking.Steps)
	}
	if cfg.Tracking.TickInterval <= 0 {
		return fmt.Errorf("tracking.tick_interval must be positive, got %s", cfg.Tracking.TickInterval)
	}
	if cfg.Tracking.TotalBudget < 0 {
		return fmt.Errorf("tracking.total_budget must not be negative, got %s", cfg.Tracking.TotalBudget)
	}
	if cfg.Tracking.Jitter < 0 {
		return fmt.Errorf("tracking.jitter must not be negative, got %v", cfg.Tracking.Jitter)
	}
	switch cfg.Storage.Backend {
	case "memory", "file", "redis", "postgres", "s3":
	default:
		return fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
	return nil
}
