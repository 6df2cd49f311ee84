package persistence

import (
	"github.com/glebarez/sqlite"
	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBProvider owns the shared database handle for all stores
type DBProvider struct {
	db *gorm.DB
}

// NewDBProvider opens the database selected by config key db.type:
// "sqlite" reads db.sqlite.path, "postgres" reads db.postgres.dsn.
// The schema is migrated on open.
func NewDBProvider() (*DBProvider, error) {
	dbType := cmdapp.Config.GetString("db.type")
	if dbType == "" {
		dbType = "sqlite"
	}
	var dial gorm.Dialector
	switch dbType {
	case "sqlite":
		path := cmdapp.Config.GetString("db.sqlite.path")
		if path == "" {
			return nil, errs.NewConfiguration("db.sqlite.path")
		}
		dial = sqlite.Open(path)
	case "postgres":
		dsn := cmdapp.Config.GetString("db.postgres.dsn")
		if dsn == "" {
			return nil, errs.NewConfiguration("db.postgres.dsn")
		}
		dial = postgres.Open(dsn)
	default:
		return nil, errs.NewConfiguration("db.type")
	}
	cmdapp.Log.Infof("Opening %s database", dbType)
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, errors.Wrap(err, "Can't open database")
	}
	return NewDBProviderFor(db)
}

// NewDBProviderFor wraps an already-open handle and migrates the schema
func NewDBProviderFor(db *gorm.DB) (*DBProvider, error) {
	err := db.AutoMigrate(&model.Workspace{}, &model.Meeting{}, &model.ProcessingTask{},
		&model.Transcript{}, &model.Summary{}, &model.ActionItem{})
	if err != nil {
		return nil, errors.Wrap(err, "Can't migrate schema")
	}
	return &DBProvider{db: db}, nil
}

// Healthy returns error if the database does not respond
func (p *DBProvider) Healthy() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close the underlying connection
func (p *DBProvider) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
