package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/guestline/internal/pkg/notify"
	"github.com/go-arcade/guestline/pkg/cache"
	"github.com/go-arcade/guestline/pkg/database"
	"github.com/go-arcade/guestline/pkg/http"
	"github.com/go-arcade/guestline/pkg/log"
	"github.com/go-arcade/guestline/pkg/metrics"
	"github.com/spf13/viper"
)

// GuestPolicy holds the provisioning and verification policy constants
type GuestPolicy struct {
	MaxVerificationAttempts  int           `mapstructure:"maxVerificationAttempts"`
	CodeExpiry               time.Duration `mapstructure:"codeExpiry"`
	CodeLength               int           `mapstructure:"codeLength"`
	DefaultLicenseType       string        `mapstructure:"defaultLicenseType"`
	RequireEmailVerification bool          `mapstructure:"requireEmailVerification"`
	PasswordMinLength        int           `mapstructure:"passwordMinLength"`
	SendRetries              int           `mapstructure:"sendRetries"`
	SendBackoff              time.Duration `mapstructure:"sendBackoff"`
	ResendInterval           time.Duration `mapstructure:"resendInterval"`
	InvitationExpiry         time.Duration `mapstructure:"invitationExpiry"`
	GroupCacheTTL            time.Duration `mapstructure:"groupCacheTTL"`
}

// SetDefaults fills unset policy values
func (p *GuestPolicy) SetDefaults() {
	if p.MaxVerificationAttempts <= 0 {
		p.MaxVerificationAttempts = 5
	}
	if p.CodeExpiry <= 0 {
		p.CodeExpiry = 15 * time.Minute
	}
	if p.CodeLength <= 0 {
		p.CodeLength = 6
	}
	if p.DefaultLicenseType == "" {
		p.DefaultLicenseType = "guest"
	}
	if p.PasswordMinLength <= 0 {
		p.PasswordMinLength = 8
	}
	if p.SendRetries <= 0 {
		p.SendRetries = 3
	}
	if p.SendBackoff <= 0 {
		p.SendBackoff = 500 * time.Millisecond
	}
	if p.ResendInterval <= 0 {
		p.ResendInterval = time.Minute
	}
	if p.InvitationExpiry <= 0 {
		p.InvitationExpiry = 7 * 24 * time.Hour
	}
	if p.GroupCacheTTL <= 0 {
		p.GroupCacheTTL = time.Minute
	}
}

// DefaultGuestPolicy returns the policy with every default applied
func DefaultGuestPolicy() GuestPolicy {
	p := GuestPolicy{RequireEmailVerification: true}
	p.SetDefaults()
	return p
}

type AppConfig struct {
	Log      log.Conf
	Http     http.Http
	Database database.Database
	Redis    cache.Redis
	Metrics  metrics.MetricsConfig
	Guest    GuestPolicy
	Email    notify.EmailConfig
}

var (
	mu   sync.RWMutex
	cfg  AppConfig
	once sync.Once
)

func NewConf(confDir string) AppConfig {
	once.Do(func() {
		loaded, err := LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
		mu.Lock()
		cfg = loaded
		mu.Unlock()
	})
	return Current()
}

// Current returns the last successfully loaded configuration
func Current() AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// LoadConfigFile load config file and keeps watching it for changes.
// Connection settings are only read at startup; a reload refreshes Current().
func LoadConfigFile(confDir string) (AppConfig, error) {
	config := viper.New()
	config.SetConfigFile(confDir) //文件名
	config.SetDefault("guest.requireEmailVerification", true)
	if err := config.ReadInConfig(); err != nil {
		return AppConfig{}, fmt.Errorf("failed to read configuration file: %w", err)
	}

	loaded, err := decode(config)
	if err != nil {
		return AppConfig{}, err
	}

	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("The configuration changes, re -analyze the configuration file: %s", e.Name)
		reloaded, err := decode(config)
		if err != nil {
			log.Errorw("failed to reload configuration, keeping the previous one", "error", err)
			return
		}
		mu.Lock()
		cfg = reloaded
		mu.Unlock()
	})
	config.WatchConfig()

	log.Infow("config file loaded",
		"path", confDir,
	)
	return loaded, nil
}

func decode(v *viper.Viper) (AppConfig, error) {
	var c AppConfig
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	c.Guest.SetDefaults()
	c.Http.SetDefaults()
	if c.Guest.CodeLength > 12 {
		return c, fmt.Errorf("guest.codeLength must be at most 12, got %d", c.Guest.CodeLength)
	}
	return c, nil
}
