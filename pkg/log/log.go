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

package log

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	OutputStdout = "stdout"
	OutputFile   = "file"
	OutputBoth   = "both"

	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	mu     sync.RWMutex
	once   sync.Once
	logger *zap.Logger
	sugar  *zap.SugaredLogger
)

var ProviderSet = wire.NewSet(ProvideLogger)

// ProvideLogger installs the global logger from conf and hands back a handle to it.
func ProvideLogger(conf *Conf) (*Logger, error) {
	zl, err := NewLog(conf)
	if err != nil {
		return nil, err
	}
	return &Logger{Log: zl.Sugar()}, nil
}

// Conf is the [log] section.
type Conf struct {
	Output     string `mapstructure:"output"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	Level      string `mapstructure:"level"`
	KeepDays   int    `mapstructure:"keepDays"`
	RotateSize int    `mapstructure:"rotateSize"` // MB
	RotateNum  int    `mapstructure:"rotateNum"`
}

func SetDefaults() *Conf {
	return &Conf{
		Output:     OutputStdout,
		Format:     FormatConsole,
		Path:       "./logs",
		Filename:   defaultFilename,
		Level:      "INFO",
		KeepDays:   7,
		RotateSize: 100,
		RotateNum:  10,
	}
}

func (c *Conf) writesFile() bool {
	return c.Output == OutputFile || c.Output == OutputBoth
}

// Validate rejects a file output without a path and fills rotation gaps.
func (c *Conf) Validate() error {
	switch c.Format {
	case "", FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	if !c.writesFile() {
		return nil
	}
	if c.Path == "" {
		return fmt.Errorf("log path is required when output is %q", c.Output)
	}
	if c.RotateSize <= 0 {
		c.RotateSize = 100
	}
	if c.RotateNum <= 0 {
		c.RotateNum = 10
	}
	if c.KeepDays <= 0 {
		c.KeepDays = 7
	}
	return nil
}

type Logger struct {
	Log *zap.SugaredLogger
}

// NewLog builds a zap logger from conf and installs it as the global one.
func NewLog(conf *Conf) (*zap.Logger, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}

	var sinks []zapcore.WriteSyncer
	if conf.Output != OutputFile {
		sinks = append(sinks, zapcore.AddSync(os.Stdout))
	}
	if conf.writesFile() {
		sinks = append(sinks, newFileWriter(conf))
	}

	core := zapcore.NewCore(newEncoder(conf.Format), zapcore.NewMultiWriteSyncer(sinks...), parseLogLevel(conf.Level))
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))

	mu.Lock()
	logger = zl
	sugar = zl.Sugar()
	mu.Unlock()

	sugar.Debugw("log initialized", "output", conf.Output, "format", conf.Format, "level", conf.Level)
	return zl, nil
}

func Init(conf *Conf) error {
	_, err := NewLog(conf)
	return err
}

func MustInit(conf *Conf) {
	if err := Init(conf); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

// GetLogger returns the global logger, initializing it with defaults on first use.
func GetLogger() *zap.SugaredLogger {
	return getSugar()
}

// Named returns a child of the global logger tagged with name.
func Named(name string) *zap.SugaredLogger {
	return getSugar().Named(name)
}

func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return nil
	}
	// stdout cannot be fsynced
	if err := logger.Sync(); err != nil && !strings.Contains(err.Error(), "/dev/stdout") {
		return err
	}
	return nil
}

func getSugar() *zap.SugaredLogger {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	if s != nil {
		return s
	}
	once.Do(func() {
		mu.RLock()
		ready := sugar != nil
		mu.RUnlock()
		if !ready {
			_ = Init(SetDefaults())
		}
	})
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func newEncoder(format string) zapcore.Encoder {
	if format == FormatJSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "time"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeDuration = zapcore.MillisDurationEncoder
		return zapcore.NewJSONEncoder(cfg)
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(time.DateTime))
	}
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// parseLogLevel is case-insensitive and falls back to INFO.
func parseLogLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
