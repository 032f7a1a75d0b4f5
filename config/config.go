package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE" default:"UTC"`
		CORS struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
		Desk   struct {
			IdleMinutes int `envconfig:"IDLE_MINUTES" default:"60"`
		} `envconfig:"DESK"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret string `envconfig:"ACCESS_SECRET"`
		Issuer       string `envconfig:"ISSUER"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string `envconfig:"MIGRATION_TABLE"`
			Host           string `envconfig:"HOST"`
			Port           string `envconfig:"PORT"`
			Username       string `envconfig:"USER"`
			Password       string `envconfig:"PASSWORD"`
			Name           string `envconfig:"NAME"`
			SSLMode        string `envconfig:"SSL_MODE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	// Backend is the hostel REST API the desk orchestrates. Endpoint values are
	// path templates relative to BaseURL; {id}, {code} and {hostel_id} are
	// substituted per request.
	Backend struct {
		BaseURL        string `envconfig:"BASE_URL"`
		TimeoutSeconds int    `envconfig:"TIMEOUT_SECONDS" default:"15"`
		PageLimit      int    `envconfig:"PAGE_LIMIT"      default:"20"`
		Endpoints      struct {
			Bookings        string `envconfig:"BOOKINGS"         default:"/bookings"`
			BookingDetail   string `envconfig:"BOOKING_DETAIL"   default:"/bookings/{id}"`
			BookingPayments string `envconfig:"BOOKING_PAYMENTS" default:"/bookings/{id}/payments"`
			MobileInitiate  string `envconfig:"MOBILE_INITIATE"  default:"/bookings/{id}/payments/mobile-initiate"`
			Verify          string `envconfig:"VERIFY"           default:"/bookings/verify/{code}"`
			CheckIn         string `envconfig:"CHECK_IN"         default:"/bookings/{id}/check-in"`
			LegacyCheckIn   string `envconfig:"LEGACY_CHECK_IN"  default:"/bookings/check-in"`
			Semesters       string `envconfig:"SEMESTERS"        default:"/semesters/hostel/{hostel_id}"`
			RoomAvailable   string `envconfig:"ROOM_AVAILABLE"   default:"/rooms/available"`
		} `envconfig:"ENDPOINTS"`
	} `envconfig:"BACKEND"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	}
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Warn().Err(err).Msg("Configuration initialized without .env file")
		}
	}

	return &conf
}
