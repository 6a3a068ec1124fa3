package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"homefix/config"
	"net"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationsSource = "file://migrations/postgres"

func getDBName(config *config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// connectionString escapes credentials, which often carry characters that break a raw DSN.
func connectionString(config *config.Config) string {
	write := config.DB.Postgres.Write

	query := url.Values{}
	query.Set("sslmode", write.SSLMode)

	if config.DB.Postgres.MigrationTable != "" {
		query.Set("x-migrations-table", config.DB.Postgres.MigrationTable)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(write.Username, write.Password),
		Host:     net.JoinHostPort(write.Host, write.Port),
		Path:     "/" + getDBName(config, write.Name),
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(migrationsSource, connectionString(config))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func run(config *config.Config, done string, step func(mig *migrate.Migrate) error) error {
	mig, err := getConnection(config)
	if err != nil {
		return err
	}

	defer mig.Close()

	if err := step(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations: %w", err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Uint("version", version).Bool("dirty", dirty).Msg(done)

	return nil
}

func Up(config *config.Config) error {
	return run(config, "Database migrations completed successfully", (*migrate.Migrate).Up)
}

func StepUp(config *config.Config) error {
	return run(config, "Database migrations completed successfully", func(mig *migrate.Migrate) error {
		return mig.Steps(1)
	})
}

func Down(config *config.Config) error {
	return run(config, "Database migrations rolled back successfully", func(mig *migrate.Migrate) error {
		return mig.Steps(-1)
	})
}

func Drop(config *config.Config) error {
	return run(config, "Database migrations rolled back successfully", (*migrate.Migrate).Down)
}

// Force marks version as applied without running it, to recover from a dirty migration.
func Force(config *config.Config, version int) error {
	return run(config, "Database migration version forced", func(mig *migrate.Migrate) error {
		return mig.Force(version)
	})
}

func Version(config *config.Config) error {
	return run(config, "Database migration version", func(*migrate.Migrate) error {
		return nil
	})
}
