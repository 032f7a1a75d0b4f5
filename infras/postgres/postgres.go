package postgres

//nolint:revive
import (
	"fmt"
	"hostel/config"
	"net"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 5
	postgresMaxOpenConnection = 10
)

// DSN returns the connection string of the journal database.
func DSN(config *config.Config) string {
	pg := config.DB.Postgres

	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		pg.Username,
		pg.Password,
		net.JoinHostPort(pg.Host, pg.Port),
		pg.Name,
		pg.SSLMode,
	)
}

// New connects to the journal database, retrying MaxRetry times.
func New(config *config.Config) *sqlx.DB {
	pg := config.DB.Postgres
	descriptor := DSN(config)

	for retry := range max(pg.MaxRetry, 1) {
		sqlDB, err := sqlx.Connect("postgres", descriptor)
		if err == nil {
			log.
				Info().
				Str("host", pg.Host).
				Str("port", pg.Port).
				Str("dbName", pg.Name).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)

			return sqlDB
		}

		log.
			Error().
			Err(err).
			Str("host", pg.Host).
			Str("port", pg.Port).
			Str("dbName", pg.Name).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
	}

	log.Fatal().Str("dbName", pg.Name).Msg("Could not connect to database")

	return nil
}
