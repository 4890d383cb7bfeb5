package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Geo       GeoConfig
	RateLimit RateLimitConfig
	Demo      DemoConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// GeoConfig points at the external geocoding and routing services.
type GeoConfig struct {
	NominatimBaseURL string
	OSRMBaseURL      string
	UserAgent        string
	RequestTimeout   time.Duration
	DefaultRadiusKm  float64
	MaxRadiusKm      float64
}

// RateLimitConfig bounds requests per client on the directory endpoint.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	UseRedis    bool
}

// DemoConfig controls placeholder-user synthesis. Off by default: an empty
// search result stays empty unless demo mode is asked for explicitly.
type DemoConfig struct {
	Enabled          bool
	PlaceholderUsers int
	DefaultCenterLat float64
	DefaultCenterLon float64
}

type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("OSRM_BASE_URL", "https://router.project-osrm.org")
	viper.SetDefault("GEO_USER_AGENT", "GlobalConnectApp/1.0")
	viper.SetDefault("GEO_REQUEST_TIMEOUT_SEC", 10)
	viper.SetDefault("GEO_DEFAULT_RADIUS_KM", 50.0)
	viper.SetDefault("GEO_MAX_RADIUS_KM", 100.0)
	viper.SetDefault("RATE_LIMIT_MAX_REQUESTS", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SEC", 60)
	viper.SetDefault("DEMO_PLACEHOLDER_USERS", 10)
	viper.SetDefault("DEMO_DEFAULT_CENTER_LAT", 51.5074)
	viper.SetDefault("DEMO_DEFAULT_CENTER_LON", -0.1278)
	viper.SetDefault("LOG_LEVEL", "info")

	config := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			Env:          viper.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Geo: GeoConfig{
			NominatimBaseURL: viper.GetString("NOMINATIM_BASE_URL"),
			OSRMBaseURL:      viper.GetString("OSRM_BASE_URL"),
			UserAgent:        viper.GetString("GEO_USER_AGENT"),
			RequestTimeout:   time.Duration(viper.GetInt("GEO_REQUEST_TIMEOUT_SEC")) * time.Second,
			DefaultRadiusKm:  viper.GetFloat64("GEO_DEFAULT_RADIUS_KM"),
			MaxRadiusKm:      viper.GetFloat64("GEO_MAX_RADIUS_KM"),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: viper.GetInt("RATE_LIMIT_MAX_REQUESTS"),
			Window:      time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SEC")) * time.Second,
			UseRedis:    viper.GetBool("RATE_LIMIT_USE_REDIS"),
		},
		Demo: DemoConfig{
			Enabled:          viper.GetBool("DEMO_MODE"),
			PlaceholderUsers: viper.GetInt("DEMO_PLACEHOLDER_USERS"),
			DefaultCenterLat: viper.GetFloat64("DEMO_DEFAULT_CENTER_LAT"),
			DefaultCenterLon: viper.GetFloat64("DEMO_DEFAULT_CENTER_LON"),
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Geo.NominatimBaseURL == "" {
		return fmt.Errorf("nominatim base URL is required")
	}
	if c.Geo.OSRMBaseURL == "" {
		return fmt.Errorf("OSRM base URL is required")
	}
	if c.Geo.UserAgent == "" {
		return fmt.Errorf("geo user agent is required")
	}
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("rate limit max requests must be positive")
	}
	if c.RateLimit.UseRedis && c.Redis.Host == "" {
		return fmt.Errorf("redis host is required when redis rate limiting is enabled")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
