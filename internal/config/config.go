package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Auth      AuthConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Ticket    TicketConfig
	Static    StaticConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres"
	Driver     string
	SQLitePath string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	// LogLevel is one of silent, error, warn, info
	LogLevel string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

// AuthConfig describes the seeded operator account and the session cookie
type AuthConfig struct {
	AdminUsername string
	AdminPassword string
	CookieName    string
	CookieSecure  bool
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type PrinterConfig struct {
	// Type is "usb", "network" or "none"
	Type      string
	USBPath   string
	Address   string
	CharWidth int
}

type TicketConfig struct {
	// Format is the default download format, "pdf" or "txt"
	Format string
	// PDFEngine is "fpdf" or "chrome"
	PDFEngine  string
	ChromePath string
	Timeout    time.Duration
}

type StaticConfig struct {
	// Dir holds the built single page app. Empty disables static serving.
	Dir string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "sistema-nota")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "5000")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_SQLITE_PATH", "sistema_nota.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "sistema_nota")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("DB_LOG_LEVEL", "warn")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("ADMIN_USERNAME", "agronorte")
	viper.SetDefault("ADMIN_PASSWORD", "agronorte123")
	viper.SetDefault("SESSION_COOKIE_NAME", "session")
	viper.SetDefault("SESSION_COOKIE_SECURE", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 32)
	viper.SetDefault("TICKET_FORMAT", "pdf")
	viper.SetDefault("TICKET_PDF_ENGINE", "fpdf")
	viper.SetDefault("TICKET_CHROME_PATH", "")
	viper.SetDefault("TICKET_TIMEOUT_SECONDS", 30)
	viper.SetDefault("STATIC_DIR", "./static")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(viper.GetString("DB_DRIVER")),
			SQLitePath: viper.GetString("DB_SQLITE_PATH"),
			Host:       viper.GetString("DB_HOST"),
			Port:       viper.GetString("DB_PORT"),
			Name:       viper.GetString("DB_NAME"),
			User:       viper.GetString("DB_USER"),
			Password:   viper.GetString("DB_PASSWORD"),
			SSLMode:    viper.GetString("DB_SSL_MODE"),
			Timezone:   viper.GetString("DB_TIMEZONE"),
			LogLevel:   strings.ToLower(viper.GetString("DB_LOG_LEVEL")),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Auth: AuthConfig{
			AdminUsername: viper.GetString("ADMIN_USERNAME"),
			AdminPassword: viper.GetString("ADMIN_PASSWORD"),
			CookieName:    viper.GetString("SESSION_COOKIE_NAME"),
			CookieSecure:  viper.GetBool("SESSION_COOKIE_SECURE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:      strings.ToLower(viper.GetString("PRINTER_TYPE")),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
		},
		Ticket: TicketConfig{
			Format:     strings.ToLower(viper.GetString("TICKET_FORMAT")),
			PDFEngine:  strings.ToLower(viper.GetString("TICKET_PDF_ENGINE")),
			ChromePath: viper.GetString("TICKET_CHROME_PATH"),
			Timeout:    time.Duration(viper.GetInt("TICKET_TIMEOUT_SECONDS")) * time.Second,
		},
		Static: StaticConfig{
			Dir: viper.GetString("STATIC_DIR"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
