package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	StorageDir   string
	SerialDevice string
	SerialBaud   int
	SerialMode   string
	PrinterDots  int
	FontPath     string
	FontSize     int
	LogoPath     string
	RedisURL     string
	RedisChannel string
}

func Load() *Config {
	// Load .env file if exists
	godotenv.Load()

	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		StorageDir:   getEnv("STORAGE_DIR", "./storage"),
		SerialDevice: getEnv("SERIAL_DEVICE", "/dev/ttyUSB-atomprinter"),
		SerialBaud:   getEnvAsInt("SERIAL_BAUD", 115200),
		SerialMode:   getEnv("SERIAL_MODE", "stream"),
		PrinterDots:  getEnvAsInt("PRINTER_DOTS", 384),
		FontPath:     getEnv("FONT_PATH", "./assets/receipt.ttf"),
		FontSize:     getEnvAsInt("FONT_SIZE", 22),
		LogoPath:     getEnv("LOGO_PATH", "./storage/logo.png"),
		RedisURL:     getEnv("REDIS_URL", ""),
		RedisChannel: getEnv("REDIS_CHANNEL", "kiosk.events"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
