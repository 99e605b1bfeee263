package configs

import (
	"os"
	"strconv"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Email     EmailConfig
	Risk      RiskConfig
	Benchmark BenchmarkConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	MigrationsDir string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	TTL    int // in hours
}

// EmailConfig holds email configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
}

// RiskConfig holds remote risk scorer configuration. When URL is empty the
// rule-based assessor is used.
type RiskConfig struct {
	URL            string
	TimeoutSeconds int
}

// BenchmarkConfig holds the central bank benchmark rate feed configuration,
// used for FLOATING loans created without an explicit base rate.
type BenchmarkConfig struct {
	APIURL      string
	DefaultRate string // annual %, applied when the feed is unreachable
	Margin      string // annual %, added on top of the benchmark
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, err
	}

	jwtTTL, err := strconv.Atoi(getEnv("JWT_TTL", "24"))
	if err != nil {
		return nil, err
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, err
	}

	riskTimeout, err := strconv.Atoi(getEnv("RISK_SERVICE_TIMEOUT", "5"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port: port,
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          dbPort,
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "loan_service"),
			MigrationsDir: getEnv("DB_MIGRATIONS_DIR", "migrations"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "super_secret_key"),
			TTL:    jwtTTL,
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", "smtp.example.com"),
			SMTPPort:     smtpPort,
			SMTPUser:     getEnv("SMTP_USER", "user"),
			SMTPPassword: getEnv("SMTP_PASSWORD", "password"),
			SenderEmail:  getEnv("SENDER_EMAIL", "no-reply@loan-service.com"),
		},
		Risk: RiskConfig{
			URL:            getEnv("RISK_SERVICE_URL", ""),
			TimeoutSeconds: riskTimeout,
		},
		Benchmark: BenchmarkConfig{
			APIURL:      getEnv("BENCHMARK_API_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
			DefaultRate: getEnv("BENCHMARK_DEFAULT_RATE", "7.0"),
			Margin:      getEnv("BENCHMARK_MARGIN", "5.0"),
		},
	}, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
