package postgres

import (
	"context"
	"fmt"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	pgxslog "github.com/mcosta74/pgx-slog"
)

const (
	DefaultMaxConns        = 16
	DefaultMinConns        = 0
	DefaultLogLevel        = tracelog.LogLevelError
	DefaultApplicationName = "omniverse-transformer"
)

type Config struct {
	Host     string `env:"HOST" mapstructure:"host"`         // Default is 127.0.0.1
	Port     string `env:"PORT" mapstructure:"port"`         // Default is 5432
	User     string `env:"USER" mapstructure:"user"`         // Default is empty
	Password string `env:"PASSWORD" mapstructure:"password"` // Default is empty
	DBName   string `env:"DBNAME" mapstructure:"dbname"`     // Default is postgres
	SSLMode  string `env:"SSLMODE" mapstructure:"sslmode"`   // Default is prefer
	URL      string `env:"URL" mapstructure:"url"`           // If URL is provided, other fields are ignored

	MaxConns int32 `env:"MAX_CONNS" mapstructure:"maxconns"` // Default is 16
	MinConns int32 `env:"MIN_CONNS" mapstructure:"minconns"` // Default is 0

	// ApplicationName shows up in pg_stat_activity, set it per replica to tell transformers apart.
	ApplicationName string `env:"APPLICATION_NAME" mapstructure:"applicationname"` // Default is omniverse-transformer

	Debug bool `env:"DEBUG" mapstructure:"debug"`
}

// PoolConfig parses conf into a pool configuration without connecting.
func PoolConfig(conf Config) (*pgxpool.Config, error) {
	connConfig, err := pgxpool.ParseConfig(conf.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse config to create a new connection pool")
	}
	connConfig.MaxConns = utils.Default(conf.MaxConns, DefaultMaxConns)
	connConfig.MinConns = utils.Default(conf.MinConns, DefaultMinConns)
	connConfig.ConnConfig.RuntimeParams["application_name"] = utils.Default(conf.ApplicationName, DefaultApplicationName)
	connConfig.ConnConfig.Tracer = conf.QueryTracer()
	return connConfig, nil
}

// NewPool creates a new connection pool to the database
func NewPool(ctx context.Context, conf Config) (*pgxpool.Pool, error) {
	connConfig, err := PoolConfig(conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	connPool, err := pgxpool.NewWithConfig(ctx, connConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create a new connection pool")
	}

	if err := connPool.Ping(ctx); err != nil {
		connPool.Close()
		return nil, errors.Wrap(err, "failed to connect to the database")
	}

	logger.InfoContext(ctx, "Connected to postgres",
		logger.ModuleKey, "postgres",
		"application_name", connConfig.ConnConfig.RuntimeParams["application_name"],
		"max_conns", connConfig.MaxConns,
	)
	return connPool, nil
}

// String returns the connection string (DSN format or URL format)
func (conf Config) String() string {
	if conf.URL != "" {
		return conf.URL
	}

	connString := fmt.Sprintf("host=%s dbname=%s port=%s sslmode=%s",
		utils.Default(conf.Host, "127.0.0.1"),
		utils.Default(conf.DBName, "postgres"),
		utils.Default(conf.Port, "5432"),
		utils.Default(conf.SSLMode, "prefer"),
	)
	if conf.User != "" {
		connString = fmt.Sprintf("%s user=%s", connString, conf.User)
	}
	if conf.Password != "" {
		connString = fmt.Sprintf("%s password=%s", connString, conf.Password)
	}
	return connString
}

// QueryTracer logs failed queries, or every query when Debug is set.
func (conf Config) QueryTracer() pgx.QueryTracer {
	loglevel := DefaultLogLevel
	if conf.Debug {
		loglevel = tracelog.LogLevelTrace
	}
	return &tracelog.TraceLog{
		Logger:   pgxslog.NewLogger(logger.With(logger.ModuleKey, "postgres")),
		LogLevel: loglevel,
	}
}
