// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Notify   NotifyConfig
	Storage  StorageConfig
	Engine   EngineConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	InsightsTTLSeconds int
}

// NotifyConfig configures the margin-guard alert channel. When Enabled is
// false alerts are written to the log instead of published to redis.
type NotifyConfig struct {
	Enabled bool
	Channel string
}

// StorageConfig points the ingest service at the S3-compatible bucket that
// receives the daily sales export CSVs.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// EngineConfig carries overrides for the analytics policy thresholds. Zero
// values mean "use the documented default" (see engine.DefaultPolicy).
type EngineConfig struct {
	LookbackDays       int
	MinMarginPercent   float64
	CatalogCap         int
	InsightWorkerLimit int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "distops")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_INSIGHTS_TTL_SECONDS", 60)
		viper.SetDefault("NOTIFY_ENABLED", false)
		viper.SetDefault("NOTIFY_CHANNEL", "distops:margin_alerts")
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "sales-exports")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("ENGINE_LOOKBACK_DAYS", 60)
		viper.SetDefault("ENGINE_MIN_MARGIN_PERCENT", 10.0)
		viper.SetDefault("ENGINE_CATALOG_CAP", 100)
		viper.SetDefault("ENGINE_INSIGHT_WORKER_LIMIT", 8)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				InsightsTTLSeconds: viper.GetInt("CACHE_INSIGHTS_TTL_SECONDS"),
			},
			Notify: NotifyConfig{
				Enabled: viper.GetBool("NOTIFY_ENABLED"),
				Channel: viper.GetString("NOTIFY_CHANNEL"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Engine: EngineConfig{
				LookbackDays:       viper.GetInt("ENGINE_LOOKBACK_DAYS"),
				MinMarginPercent:   viper.GetFloat64("ENGINE_MIN_MARGIN_PERCENT"),
				CatalogCap:         viper.GetInt("ENGINE_CATALOG_CAP"),
				InsightWorkerLimit: viper.GetInt("ENGINE_INSIGHT_WORKER_LIMIT"),
			},
		}
	})

	return instance
}
