package config

import (
	"fmt"
	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
	"log/slog"
	"time"
)

const (
	EnvProduction = "production"

	productionOrigin  = "https://imagetools.toolworks.dev"
	developmentOrigin = "http://localhost:3000"
)

type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"Image tools"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	Port     string `env:"PORT" envDefault:"3355"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"debug"`

	StaticDir   string `env:"STATIC_DIR" envDefault:"./build"`
	SwaggerFile string `env:"SWAGGER_FILE" envDefault:"./docs/swagger.json"`
	CORSOrigin  string `env:"CORS_ORIGIN"`

	RateLimitMaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`
	RateLimitDuration    time.Duration `env:"RATE_LIMIT_DURATION" envDefault:"5s"`
	RequestTimeout       time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	Conversion Conversion
	Cache      Cache
	Mongo      Mongo
}

type Conversion struct {
	CodecBackend      string `env:"CODEC_BACKEND" envDefault:"vips"`
	MaxUploadSizeMB   int    `env:"MAX_UPLOAD_SIZE_MB" envDefault:"50"`
	OutputJpegQuality int    `env:"OUTPUT_JPEG_QUALITY" envDefault:"90"`
	OutputWebpQuality int    `env:"OUTPUT_WEBP_QUALITY" envDefault:"90"`
}

// MaxUploadBytes is the largest image the pipeline accepts.
func (c Conversion) MaxUploadBytes() int {
	return c.MaxUploadSizeMB * 1024 * 1024
}

type Cache struct {
	Backend string        `env:"CACHE_BACKEND" envDefault:"none"`
	TTL     time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	Dragonfly Dragonfly
	S3        S3
}

type Dragonfly struct {
	Host     string `env:"DRAGONFLY_HOST" envDefault:"localhost"`
	Port     int    `env:"DRAGONFLY_PORT" envDefault:"6379"`
	DB       int    `env:"DRAGONFLY_DB" envDefault:"0"`
	Password string `env:"DRAGONFLY_PASSWORD"`
}

type S3 struct {
	Region    string `env:"S3_REGION"`
	Bucket    string `env:"S3_BUCKET"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	Endpoint  string `env:"S3_ENDPOINT"`
	Prefix    string `env:"S3_PREFIX" envDefault:"conversions/"`
}

type Mongo struct {
	URI        string `env:"MONGO_URI"`
	Database   string `env:"MONGO_DATABASE" envDefault:"imagetools"`
	Collection string `env:"MONGO_COLLECTION" envDefault:"conversions"`
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found")
	}

	conf, err := Parse()
	if err != nil {
		slog.Error(err.Error())

		panic("Failed to parse config")
	}

	return conf
}

func Parse() (*Config, error) {
	conf := &Config{}

	if err := env.Parse(conf); err != nil {
		return nil, err
	}

	if conf.Conversion.MaxUploadSizeMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE_MB must be positive, got %d", conf.Conversion.MaxUploadSizeMB)
	}

	return conf, nil
}

// AllowedOrigin is the single CORS origin for the deployment environment.
func (c *Config) AllowedOrigin() string {
	if c.CORSOrigin != "" {
		return c.CORSOrigin
	}
	if c.Env == EnvProduction {
		return productionOrigin
	}
	return developmentOrigin
}
