package postgres

import (
	"context"
	"fmt"
	"time"

	_ "embed"

	"github.com/jmoiron/sqlx"
	"github.com/mitchellh/mapstructure"

	"github.com/ecomlab/seller_insights/internal/logger"
	"github.com/ecomlab/seller_insights/internal/logger/field"
	"github.com/ecomlab/seller_insights/internal/services/storage"
	"github.com/ecomlab/seller_insights/internal/services/storage/model"
)

//go:embed schema.sql
var schemaDDL string

type (
	storagePostgres struct {
		logger *logger.Logger

		cfg       storage.Config
		pgOptions postgresConfig

		pureSqlxDB *sqlx.DB

		shops     storage.Shops
		products  storage.Products
		snapshots storage.Snapshots
	}

	postgresConfig struct {
		MaxLifeTime int `yaml:"max_life_time"` // in seconds
		MaxIdleConn int `yaml:"max_idle_conn"`
		MaxOpenConn int `yaml:"max_open_conn"`
	}
)

// New create new storagePostgres which impl. storage.Storage.
func New(config storage.Config, logger *logger.Logger) (storage.Storage, error) {
	s := &storagePostgres{
		logger: logger,
	}

	connectDuration, err := time.ParseDuration(config.TimeoutTryConnect)
	if err != nil {
		return nil, fmt.Errorf("err time.ParseDuration(config.TimeoutTryConnect): %w", err)
	}

	// TODO can use backoff mechanism  (google backoff)
	for attempt := 0; attempt < config.MaxTryConnect; attempt++ {
		if err = s.Connect(config); err == nil {
			return s, nil
		}

		time.Sleep(connectDuration)
	}

	return nil, err
}

// Config - config
func (s *storagePostgres) Config() storage.Config {
	return s.cfg
}

// Connect - connect stuff
func (s *storagePostgres) Connect(cfg storage.Config) error {
	s.cfg = cfg

	s.pgOptions = postgresConfig{}
	err := mapstructure.Decode(s.cfg.Options, &s.pgOptions)
	if err != nil {
		return fmt.Errorf("could not parse Custom Options for Storage: %w", err)
	}

	s.pureSqlxDB, err = s.createMasterConn()
	if err != nil {
		return fmt.Errorf("can't create master db conn: %w", err)
	}

	s.logger.Info("Successfully connect to Master db",
		field.String("host", s.cfg.Host), field.Int("port", s.cfg.Port))

	placeholder := s.cfg.PlaceholderFormat()

	s.shops = &shopsRepo{db: s.pureSqlxDB, ph: placeholder}
	s.products = &productsRepo{db: s.pureSqlxDB, ph: placeholder}
	s.snapshots = &snapshotsRepo{db: s.pureSqlxDB, ph: placeholder}

	return nil
}

// createMasterConn - create dsn for master db
func (s *storagePostgres) createMasterConn() (*sqlx.DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		s.cfg.Username,
		s.cfg.Password,
		s.cfg.Host,
		s.cfg.Port,
		s.cfg.Database,
	)

	return s.createConn(dsn)
}

// createConn - create sqlx DB connection
func (s *storagePostgres) createConn(dsn string) (*sqlx.DB, error) {
	dbConn, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Connect: %w", err)
	}

	dbConn.SetConnMaxLifetime(time.Second * time.Duration(s.pgOptions.MaxLifeTime))
	dbConn.SetMaxIdleConns(s.pgOptions.MaxIdleConn)
	dbConn.SetMaxOpenConns(s.pgOptions.MaxOpenConn)

	return dbConn, nil
}

// Shops - shops repository.
func (s *storagePostgres) Shops() storage.Shops {
	return s.shops
}

// Products - products repository.
func (s *storagePostgres) Products() storage.Products {
	return s.products
}

// Snapshots - snapshots repository.
func (s *storagePostgres) Snapshots() storage.Snapshots {
	return s.snapshots
}

// PureSqlxDB - return pure sqlx DB obj
func (s *storagePostgres) PureSqlxDB() *sqlx.DB {
	return s.pureSqlxDB
}

// Migrate - apply the schema DDL (idempotent, IF NOT EXISTS all the way down).
func (s *storagePostgres) Migrate(ctx context.Context) error {
	s.logger.Info("Apply schema DDL")

	if _, err := s.pureSqlxDB.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}

// Close connection to all DBs
func (s *storagePostgres) Close() {
	s.logger.Warn("Close connection for Storage Postgres")

	err := s.pureSqlxDB.Close()
	logger.LogIfError(s.logger, "Err while close master connection", err)
}

// Refresh - for dev db, refresh tables of db (truncate under the hood).
func (s *storagePostgres) Refresh(ctx context.Context, tables []model.Table) error {
	s.logger.Sugar().Info("Refresh DB. Truncate tables: ", tables, " Set seq to 1;")

	for _, tableName := range tables {
		_, err := s.pureSqlxDB.ExecContext(ctx,
			fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE;", tableName))
		if err != nil {
			return fmt.Errorf("s.db.ExecContext: %w", err)
		}
	}

	return nil
}
