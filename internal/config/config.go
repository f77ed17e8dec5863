package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `json:"server"`
	Logging    LoggingConfig    `json:"logging"`
	Registry   RegistryConfig   `json:"registry"`
	Wallet     WalletConfig     `json:"wallet"`
	Cache      CacheConfig      `json:"cache"`
	Cloudinary CloudinaryConfig `json:"cloudinary"`
	Security   SecurityConfig   `json:"security"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `json:"port"`
	Host            string        `json:"host"`
	Environment     string        `json:"environment"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	GracefulTimeout time.Duration `json:"graceful_timeout"`
	MaxHeaderBytes  int           `json:"max_header_bytes"`
	ServerName      string        `json:"server_name"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json, console
}

// RegistryConfig controls the badge registry.
type RegistryConfig struct {
	SeedFile    string        `json:"seed_file"`
	CreateDelay time.Duration `json:"create_delay"`
	AwardDelay  time.Duration `json:"award_delay"`
	StrictAward bool          `json:"strict_award"`
}

// WalletConfig controls the wallet bridge connection. An empty BridgeURL
// means no wallet provider is available.
type WalletConfig struct {
	BridgeURL        string        `json:"bridge_url"`
	DialTimeout      time.Duration `json:"dial_timeout"`
	RequestTimeout   time.Duration `json:"request_timeout"`
	MaxDialRetries   int           `json:"max_dial_retries"`
	ReconcileTimeout time.Duration `json:"reconcile_timeout"`
	ProfileCacheTTL  time.Duration `json:"profile_cache_ttl"`
}

// CacheConfig selects and tunes the profile cache.
type CacheConfig struct {
	Provider        string        `json:"provider"` // memory, redis
	TTL             time.Duration `json:"ttl"`
	MaxKeys         int           `json:"max_keys"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
	RedisURL        string        `json:"redis_url"`
	RedisDB         int           `json:"redis_db"`
	RedisPassword   string        `json:"-"`
	PoolSize        int           `json:"pool_size"`
}

// CloudinaryConfig holds Cloudinary configuration
type CloudinaryConfig struct {
	CloudName      string   `json:"cloud_name"`
	APIKey         string   `json:"-"`
	APISecret      string   `json:"-"`
	Folder         string   `json:"folder"`
	MaxFileSize    int64    `json:"max_file_size"`
	MaxRetries     int      `json:"max_retries"`
	AllowedFormats []string `json:"allowed_formats"`
}

// Enabled reports whether credentials are configured.
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// SecurityConfig holds CORS settings
type SecurityConfig struct {
	CORSAllowedOrigins []string      `json:"cors_allowed_origins"`
	CORSAllowedMethods []string      `json:"cors_allowed_methods"`
	CORSAllowedHeaders []string      `json:"cors_allowed_headers"`
	CORSMaxAge         time.Duration `json:"cors_max_age"`
	WSAllowedOrigins   []string      `json:"ws_allowed_origins"`
}

// Load reads configuration from the environment, after loading
// .env.<GO_ENV> (or .env) outside production.
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load()
		}
	}

	config := &Config{
		Server:     loadServerConfig(env),
		Logging:    loadLoggingConfig(env),
		Registry:   loadRegistryConfig(),
		Wallet:     loadWalletConfig(),
		Cache:      loadCacheConfig(),
		Cloudinary: loadCloudinaryConfig(),
		Security:   loadSecurityConfig(env),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadServerConfig(env string) ServerConfig {
	config := ServerConfig{
		Port:            getEnv("PORT", "9000"),
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Environment:     env,
		ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 75*time.Second),
		IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		GracefulTimeout: getDurationEnv("GRACEFUL_TIMEOUT", 30*time.Second),
		MaxHeaderBytes:  getIntEnv("MAX_HEADER_BYTES", 1<<20),
		ServerName:      getEnv("SERVER_NAME", "BadgeHub"),
	}

	if env != "production" && os.Getenv("GRACEFUL_TIMEOUT") == "" {
		config.GracefulTimeout = 10 * time.Second
	}
	return config
}

func loadLoggingConfig(env string) LoggingConfig {
	return LoggingConfig{
		Level:  getEnv("LOG_LEVEL", getDefaultLogLevel(env)),
		Format: getEnv("LOG_FORMAT", getDefaultLogFormat(env)),
	}
}

func loadRegistryConfig() RegistryConfig {
	return RegistryConfig{
		SeedFile:    getEnv("REGISTRY_SEED_FILE", ""),
		CreateDelay: getDurationEnv("REGISTRY_CREATE_DELAY", 2*time.Second),
		AwardDelay:  getDurationEnv("REGISTRY_AWARD_DELAY", 1500*time.Millisecond),
		StrictAward: getBoolEnv("REGISTRY_STRICT_AWARD", false),
	}
}

func loadWalletConfig() WalletConfig {
	return WalletConfig{
		BridgeURL:        getEnv("WALLET_BRIDGE_URL", ""),
		DialTimeout:      getDurationEnv("WALLET_DIAL_TIMEOUT", 10*time.Second),
		RequestTimeout:   getDurationEnv("WALLET_REQUEST_TIMEOUT", 60*time.Second),
		MaxDialRetries:   getIntEnv("WALLET_MAX_DIAL_RETRIES", 3),
		ReconcileTimeout: getDurationEnv("WALLET_RECONCILE_TIMEOUT", 15*time.Second),
		ProfileCacheTTL:  getDurationEnv("PROFILE_CACHE_TTL", 10*time.Minute),
	}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Provider:        getEnv("CACHE_PROVIDER", "memory"),
		TTL:             getDurationEnv("CACHE_TTL", 15*time.Minute),
		MaxKeys:         getIntEnv("CACHE_MAX_KEYS", 10000),
		CleanupInterval: getDurationEnv("CACHE_CLEANUP_INTERVAL", 5*time.Minute),
		RedisURL:        getEnv("REDIS_URL", ""),
		RedisDB:         getIntEnv("REDIS_DB", 0),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		PoolSize:        getIntEnv("REDIS_POOL_SIZE", 10),
	}
}

func loadCloudinaryConfig() CloudinaryConfig {
	return CloudinaryConfig{
		CloudName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:         getEnv("CLOUDINARY_API_KEY", ""),
		APISecret:      getEnv("CLOUDINARY_API_SECRET", ""),
		Folder:         getEnv("CLOUDINARY_FOLDER", "badgehub/badges"),
		MaxFileSize:    getInt64Env("CLOUDINARY_MAX_FILE_SIZE", 5<<20),
		MaxRetries:     getIntEnv("CLOUDINARY_MAX_RETRIES", 3),
		AllowedFormats: getListEnv("CLOUDINARY_ALLOWED_FORMATS", "jpg,jpeg,png,webp,gif"),
	}
}

func loadSecurityConfig(env string) SecurityConfig {
	defaultOrigins := "*"
	if env == "production" {
		defaultOrigins = ""
	}
	return SecurityConfig{
		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", defaultOrigins),
		CORSAllowedMethods: getListEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
		CORSAllowedHeaders: getListEnv("CORS_ALLOWED_HEADERS", "Content-Type,X-Request-ID"),
		CORSMaxAge:         getDurationEnv("CORS_MAX_AGE", 12*time.Hour),
		WSAllowedOrigins:   getListEnv("WS_ALLOWED_ORIGINS", defaultOrigins),
	}
}

// ===============================
// VALIDATION
// ===============================

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Wallet.Validate(); err != nil {
		return fmt.Errorf("wallet config: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}
	// Connect holds its request open while the wallet awaits approval.
	if c.Wallet.BridgeURL != "" && c.Server.WriteTimeout <= c.Wallet.RequestTimeout {
		return fmt.Errorf("server config: SERVER_WRITE_TIMEOUT (%s) must exceed WALLET_REQUEST_TIMEOUT (%s)",
			c.Server.WriteTimeout, c.Wallet.RequestTimeout)
	}
	if c.Registry.CreateDelay < 0 || c.Registry.AwardDelay < 0 {
		return fmt.Errorf("registry config: delays must not be negative")
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := strconv.Atoi(s.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", s.Port)
	}
	if s.ReadTimeout <= 0 {
		return fmt.Errorf("ReadTimeout must be positive")
	}
	if s.WriteTimeout <= 0 {
		return fmt.Errorf("WriteTimeout must be positive")
	}
	return nil
}

func (w *WalletConfig) Validate() error {
	if w.BridgeURL == "" {
		return nil
	}
	u, err := url.Parse(w.BridgeURL)
	if err != nil {
		return fmt.Errorf("invalid WALLET_BRIDGE_URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("WALLET_BRIDGE_URL must use ws or wss, got %q", u.Scheme)
	}
	if w.RequestTimeout <= 0 {
		return fmt.Errorf("WALLET_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func (c *CacheConfig) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "", "memory":
		return nil
	case "redis":
		if c.RedisURL != "" {
			if _, err := url.Parse(c.RedisURL); err != nil {
				return fmt.Errorf("invalid REDIS_URL: %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported CACHE_PROVIDER %q", c.Provider)
	}
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// ===============================
// ENV HELPERS
// ===============================

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated value, dropping empty entries.
func getListEnv(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getDefaultLogLevel(env string) string {
	switch env {
	case "production":
		return "info"
	default:
		return "debug"
	}
}

func getDefaultLogFormat(env string) string {
	switch env {
	case "production":
		return "json"
	default:
		return "console"
	}
}
