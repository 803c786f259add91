package gorm

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB struct
type DB struct {
	Postgres *gorm.DB
}

// Options struct - connection settings for PostgreSQL
type Options struct {
	Host     string
	Port     string
	Username string
	Password string
	DbName   string
	SSLMode  bool
	// Debug logs every statement
	Debug bool
	// MaxOpenConns caps the pool; zero keeps the database/sql default
	MaxOpenConns int
}

// DSN returns the libpq connection string for the options
func (o Options) DSN() string {
	sslmode := "disable"
	if o.SSLMode {
		sslmode = "require"
	}
	return fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v sslmode=%v connect_timeout=0",
		o.Host, o.Username, o.Password, o.DbName, o.Port, sslmode)
}

// ConnectToPostgreSQL func
func ConnectToPostgreSQL(opts Options) (*DB, error) {
	if opts.Host == "" && opts.Port == "" && opts.DbName == "" {
		return nil, errors.New("cannot estabished the connection")
	}

	logLevel := logger.Error
	if opts.Debug {
		logLevel = logger.Info
	}
	pg, err := gorm.Open(postgres.Open(opts.DSN()), &gorm.Config{
		DryRun: false,
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		logrus.Error(err)
		return nil, err
	}

	sqlDB, err := pg.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(2 * time.Hour)

	logrus.Infof("Connected to postgres %s:%s/%s", opts.Host, opts.Port, opts.DbName)
	return &DB{Postgres: pg}, nil
}

// DisconnectPostgres func
func DisconnectPostgres(db *gorm.DB) {
	sqlDb, err := db.DB()
	if err != nil {
		logrus.Error(err)
		return
	}
	err = sqlDb.Close()
	if err != nil {
		logrus.Error(err)
	}
	logrus.Println("Connected with postgres has closed")
}
