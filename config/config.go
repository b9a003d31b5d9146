package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Booking BookingConfig
	Video   VideoConfig
	Payment PaymentConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

// BookingConfig carries the scheduling-engine knobs. PendingTTL is how long a
// scheduled booking may wait for a payment result before the reconciler cancels
// it and frees the slot. NoShowGrace is how long after the appointment time a
// confirmed appointment may stay untouched before it is marked no-show.
type BookingConfig struct {
	SlotMinutes       int
	MinSymptomsLength int
	PendingTTL        time.Duration
	NoShowGrace       time.Duration
	SweepInterval     time.Duration
}

// VideoConfig bounds the admission window around the appointment time and caps
// how long a session may stay active.
type VideoConfig struct {
	JoinBefore  time.Duration
	JoinAfter   time.Duration
	MaxDuration time.Duration
}

type PaymentConfig struct {
	GatewayURL         string
	GatewayAPIKey      string
	MaxConfirmAttempts int
	RetryBackoff       time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		Booking: BookingConfig{
			SlotMinutes:       30,
			MinSymptomsLength: 10,
			PendingTTL:        durationOrDefault("BOOKING_PENDING_TTL", 10*time.Minute),
			NoShowGrace:       durationOrDefault("BOOKING_NOSHOW_GRACE", 30*time.Minute),
			SweepInterval:     durationOrDefault("BOOKING_SWEEP_INTERVAL", time.Minute),
		},
		Video: VideoConfig{
			JoinBefore:  durationOrDefault("VIDEO_JOIN_BEFORE", 10*time.Minute),
			JoinAfter:   durationOrDefault("VIDEO_JOIN_AFTER", 30*time.Minute),
			MaxDuration: durationOrDefault("VIDEO_MAX_DURATION", 2*time.Hour),
		},
		Payment: PaymentConfig{
			GatewayURL:         viper.GetString("PAYMENT_GATEWAY_URL"),
			GatewayAPIKey:      viper.GetString("PAYMENT_GATEWAY_API_KEY"),
			MaxConfirmAttempts: intOrDefault("PAYMENT_MAX_CONFIRM_ATTEMPTS", 3),
			RetryBackoff:       durationOrDefault("PAYMENT_RETRY_BACKOFF", 500*time.Millisecond),
		},
	}

	return config, nil
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}

func intOrDefault(key string, fallback int) int {
	if v := viper.GetInt(key); v > 0 {
		return v
	}
	return fallback
}
