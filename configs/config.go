package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort int

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBNameTest string

	RedisHost     string
	RedisPort     int
	RedisPassword string
	CategoryTTL   time.Duration

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int
	EncryptionKey   string

	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPassword     string
	DefaultFromEmail string

	// ReminderSchedule adalah ekspresi cron untuk job reminder.
	ReminderSchedule string
	TimeZone         string

	UploadDir string
	LogDir    string

	// AdminEmail dan AdminPassword, jika keduanya diisi, membuat akun admin saat start.
	AdminEmail    string
	AdminPassword string
}

func LoadConfig() Config {
	// Muat file .env
	if err := godotenv.Load(); err != nil {
		// Hanya log jika tidak dalam mode test
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	return Config{
		AppPort: getEnvInt("APP_PORT", 3004),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 10501),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBNameTest: os.Getenv("DB_NAME_TEST"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvInt("REDIS_PORT", 6379),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CategoryTTL:   getEnvDuration("CATEGORY_CACHE_TTL", time.Hour),

		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 5*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 24*time.Hour),
		BcryptCost:      getEnvInt("BCRYPT_COST", 10),
		EncryptionKey:   getEnv("ENCRYPTION_KEY", "MySecretEncryptionKey!"),

		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		DefaultFromEmail: getEnv("DEFAULT_FROM_EMAIL", "webmaster@localhost"),

		ReminderSchedule: getEnv("REMINDER_SCHEDULE", "@hourly"),
		TimeZone:         getEnv("TIME_ZONE", "Local"),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		LogDir:    getEnv("LOG_DIR", "logs"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

// Location resolves TimeZone, falling back to the server's local zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
