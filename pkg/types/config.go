package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServiceName     string `envconfig:"SERVICE_NAME" default:"DevOps with Hilltop"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"5000"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBSchema    string `envconfig:"DB_SCHEMA" default:"public"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`
	SeedOnStart bool   `envconfig:"SEED_ON_START" default:"true"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"` // json or text

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`

	// Comma separated origins allowed to call the API from a browser. Empty
	// disables CORS.
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	// Prebuilt front end, served for every non-API GET
	StaticDir string `envconfig:"STATIC_DIR" default:"dist/public"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
