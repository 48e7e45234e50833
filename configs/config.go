package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

func configInt(key string, fallback int) int {
	raw := Config(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: %s=%q is not an integer, using default %d", key, raw, fallback)
		return fallback
	}
	return v
}

func configFloat(key string, fallback float64) float64 {
	raw := Config(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using default %v", key, raw, fallback)
		return fallback
	}
	return v
}

// GraceMinutes is the tolerance around the scheduled window within which a
// session may be started and its video call joined.
func GraceMinutes() int {
	return configInt("SESSION_GRACE_MINUTES", 15)
}

// PlatformFeeRate is the fraction of every payment kept by the platform.
func PlatformFeeRate() float64 {
	return configFloat("PLATFORM_COMMISSION_RATE", 0.10)
}

// MaxLeadDays bounds how far in advance a session may be booked.
func MaxLeadDays() int {
	return configInt("BOOKING_MAX_LEAD_DAYS", 90)
}

// MinNoticeMinutes is the minimum advance notice required before a
// session's scheduled start.
func MinNoticeMinutes() int {
	return configInt("BOOKING_MIN_NOTICE_MINUTES", 0)
}

// VideoProvider names the video-call provider rooms are created against.
func VideoProvider() string {
	if p := Config("VIDEO_PROVIDER"); p != "" {
		return p
	}
	return "mux"
}
