package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Telegram TelegramConfig
	Delivery DeliveryConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type TelegramConfig struct {
	Token             string
	AdminID           int64
	OrderChannelID    int64  // primary review channel (Kosmonavt)
	DerezlikChannelID int64  // Derezlik branch review channel
	AdminPasswordHash string // bcrypt hash for the /admin gate
	WebAppURL         string
}

// DeliveryConfig holds the fee policy constants. All amounts are integer
// so'm, no fractional units.
type DeliveryConfig struct {
	Policy                string // "computed" or "reminder"
	BaseDeliveryFee       int64
	DistanceFeePerKm      int64
	FreeDeliveryThreshold int64
	FreeDeliveryRadiusKm  float64
	MaxDeliveryDistanceKm float64
	MinOrderAmount        int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	policy := getEnv("FEE_POLICY", "computed")
	if policy != "computed" && policy != "reminder" {
		return nil, fmt.Errorf("FEE_POLICY must be 'computed' or 'reminder', got %q", policy)
	}

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "popays"),
		},
		Telegram: TelegramConfig{
			Token:             getEnv("BOT_TOKEN", ""),
			AdminID:           getEnvInt64("ADMIN_ID", 0),
			OrderChannelID:    getEnvInt64("ORDER_CHANNEL_ID", 0),
			DerezlikChannelID: getEnvInt64("DEREZLIK_CHANNEL_ID", 0),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			WebAppURL:         getEnv("WEBAPP_URL", "https://my-popays.vercel.app/"),
		},
		Delivery: DeliveryConfig{
			Policy:                policy,
			BaseDeliveryFee:       getEnvInt64("BASE_DELIVERY_FEE", 10000),
			DistanceFeePerKm:      getEnvInt64("DISTANCE_FEE_PER_KM", 5000),
			FreeDeliveryThreshold: getEnvInt64("FREE_DELIVERY_THRESHOLD", 150000),
			FreeDeliveryRadiusKm:  getEnvFloat("FREE_DELIVERY_RADIUS", 3.0),
			MaxDeliveryDistanceKm: getEnvFloat("MAX_DELIVERY_DISTANCE", 20.0),
			MinOrderAmount:        getEnvInt64("MIN_ORDER_AMOUNT", 50000),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
