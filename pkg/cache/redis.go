package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/go-arcade/guestline/pkg/log"
	"github.com/redis/go-redis/v9"
)

const (
	ModeSingle   = "single"
	ModeSentinel = "sentinel"
	ModeCluster  = "cluster"
)

// Redis is the [redis] section. Timeouts are in seconds.
type Redis struct {
	Mode             string `mapstructure:"mode"`
	Address          string `mapstructure:"address"` // comma separated for sentinel and cluster
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	DB               int    `mapstructure:"db"`
	PoolSize         int    `mapstructure:"poolSize"`
	UseTLS           bool   `mapstructure:"useTLS"`
	MasterName       string `mapstructure:"masterName"`
	SentinelUsername string `mapstructure:"sentinelUsername"`
	SentinelPassword string `mapstructure:"sentinelPassword"`
	DialTimeout      int    `mapstructure:"dialTimeout"`
	ReadTimeout      int    `mapstructure:"readTimeout"`
	WriteTimeout     int    `mapstructure:"writeTimeout"`
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Options maps the config onto go-redis universal options.
func (r Redis) Options() (*redis.UniversalOptions, error) {
	addrs := strings.Split(r.Address, ",")
	for i := range addrs {
		addrs[i] = strings.TrimSpace(addrs[i])
	}
	opts := &redis.UniversalOptions{
		Addrs:        addrs,
		Username:     r.Username,
		Password:     r.Password,
		PoolSize:     r.PoolSize,
		DialTimeout:  seconds(r.DialTimeout),
		ReadTimeout:  seconds(r.ReadTimeout),
		WriteTimeout: seconds(r.WriteTimeout),
	}
	if r.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	switch r.Mode {
	case ModeSingle, "":
		if len(addrs) != 1 {
			return nil, fmt.Errorf("single mode takes one address, got %d", len(addrs))
		}
		opts.DB = r.DB
	case ModeSentinel:
		if r.MasterName == "" {
			return nil, fmt.Errorf("sentinel mode requires masterName")
		}
		opts.MasterName = r.MasterName
		opts.SentinelUsername = r.SentinelUsername
		opts.SentinelPassword = r.SentinelPassword
		opts.DB = r.DB
	case ModeCluster:
		opts.IsClusterMode = true
	default:
		return nil, fmt.Errorf("unsupported redis mode: %s", r.Mode)
	}
	return opts, nil
}

// NewRedis connects and pings.
func NewRedis(cfg Redis) (redis.UniversalClient, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	client := redis.NewUniversalClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), seconds(max(cfg.DialTimeout, 1)))
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Errorw("failed to connect redis", "mode", cfg.Mode, "address", cfg.Address, "error", err)
		return nil, err
	}
	log.Infow("redis connected", "mode", cfg.Mode, "address", cfg.Address)
	return client, nil
}
