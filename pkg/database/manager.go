// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"fmt"
	"time"

	"github.com/go-arcade/guestline/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// IDatabase is what repositories depend on.
type IDatabase interface {
	Database() *gorm.DB
}

// Manager owns the MySQL pool for the process lifetime.
type Manager interface {
	IDatabase
	Close() error
}

type manager struct {
	db *gorm.DB
}

func (m *manager) Database() *gorm.DB {
	return m.db
}

func (m *manager) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get MySQL handle: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close MySQL: %w", err)
	}
	return nil
}

// NewManager opens the pool, pings it and migrates registered models when enabled.
func NewManager(cfg Database) (Manager, error) {
	db, err := open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect MySQL: %w", err)
	}
	log.Infow("MySQL connected", "host", cfg.MySQL.Host, "resolver", cfg.MySQL.resolving())

	if cfg.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate MySQL schema: %w", err)
		}
		log.Infow("MySQL schema migrated", "models", len(GetRegisteredModels()))
	}
	return &manager{db: db}, nil
}

func gormConfig(cfg Database) *gorm.Config {
	level := gormlogger.Warn
	if cfg.OutPut {
		level = gormlogger.Info
	}
	return &gorm.Config{
		Logger: NewGormLoggerAdapter(gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		}, level),
		// unique index violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   tablePrefix,
			SingularTable: true,
		},
	}
}

func open(cfg Database) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	if cfg.MySQL.resolving() {
		if err := useResolver(db, cfg); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime())
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime())

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}
	return db, nil
}

func useResolver(db *gorm.DB, cfg Database) error {
	sources, err := dialectors(cfg.MySQL.Primary)
	if err != nil {
		return fmt.Errorf("primary: %w", err)
	}
	replicas, err := dialectors(cfg.MySQL.Replicas)
	if err != nil {
		return fmt.Errorf("replicas: %w", err)
	}

	resolver := dbresolver.Register(dbresolver.Config{
		Sources:           sources,
		Replicas:          replicas,
		TraceResolverMode: cfg.OutPut,
	}).
		SetConnMaxIdleTime(cfg.ConnMaxIdleTime()).
		SetConnMaxLifetime(cfg.ConnMaxLifetime()).
		SetMaxIdleConns(cfg.MaxIdleConns).
		SetMaxOpenConns(cfg.MaxOpenConns)
	if err := db.Use(resolver); err != nil {
		return fmt.Errorf("failed to register DBResolver plugin: %w", err)
	}
	return nil
}
