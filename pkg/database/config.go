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
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const tablePrefix = "t_"

// Source is one MySQL endpoint. Port defaults to 3306.
type Source struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// DSN renders the go-sql-driver connection string.
func (s Source) DSN() string {
	port := s.Port
	if port == "" {
		port = "3306"
	}
	params := url.Values{}
	params.Set("charset", "utf8mb4")
	params.Set("parseTime", "True")
	params.Set("loc", "Local")
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", s.User, s.Password, s.Host, port, s.DBName, params.Encode())
}

func (s Source) validate() error {
	if s.Host == "" || s.User == "" || s.DBName == "" {
		return fmt.Errorf("incomplete mysql source %q: host, user and dbname are required", s.Host)
	}
	return nil
}

// MySQLConfig is the default source plus optional dbresolver pools.
// Writes go to Primary when set, reads to Replicas when set.
type MySQLConfig struct {
	Source   `mapstructure:",squash"`
	Primary  []Source `mapstructure:"primary"`
	Replicas []Source `mapstructure:"replicas"`
}

func (c MySQLConfig) resolving() bool {
	return len(c.Primary) > 0 || len(c.Replicas) > 0
}

// Database is the [database] section.
type Database struct {
	OutPut       bool        `mapstructure:"output"`
	AutoMigrate  bool        `mapstructure:"autoMigrate"`
	MaxOpenConns int         `mapstructure:"maxOpenConns"`
	MaxIdleConns int         `mapstructure:"maxIdleConns"`
	MaxLifetime  int         `mapstructure:"maxLifeTime"`
	MaxIdleTime  int         `mapstructure:"maxIdleTime"`
	MySQL        MySQLConfig `mapstructure:"mysql"`
}

// ConnMaxLifetime is MaxLifetime in seconds, 300s when unset.
func (d Database) ConnMaxLifetime() time.Duration {
	return secondsOr(d.MaxLifetime, 300)
}

// ConnMaxIdleTime is MaxIdleTime in seconds, 60s when unset.
func (d Database) ConnMaxIdleTime() time.Duration {
	return secondsOr(d.MaxIdleTime, 60)
}

func secondsOr(v, def int) time.Duration {
	if v > 0 {
		return time.Duration(v) * time.Second
	}
	return time.Duration(def) * time.Second
}

func dialectors(sources []Source) ([]gorm.Dialector, error) {
	out := make([]gorm.Dialector, 0, len(sources))
	for _, s := range sources {
		if err := s.validate(); err != nil {
			return nil, err
		}
		out = append(out, mysql.Open(s.DSN()))
	}
	return out, nil
}
