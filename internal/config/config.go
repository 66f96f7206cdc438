// Package config loads the YAML configuration consumed by integration
// tests and any future caller: the data directory, the storage backend,
// and the buffer pool capacity and replacement strategy. Modeled on the
// teacher's internal.LoadConfig (viper + mapstructure), generalized from
// its storage/server sections to this repo's storage/buffer-pool
// sections.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/ajoshi/pagestore/internal/bufferpool"
	"github.com/ajoshi/pagestore/internal/pagefile"
)

// Config is the root configuration document.
type Config struct {
	Storage struct {
		DataDir  string `mapstructure:"data_dir"`
		PageSize int    `mapstructure:"page_size"`
		Direct   bool   `mapstructure:"direct"`
	} `mapstructure:"storage"`
	BufferPool struct {
		Capacity int    `mapstructure:"capacity"`
		Strategy string `mapstructure:"strategy"`
	} `mapstructure:"buffer_pool"`
}

// Load reads and validates a YAML config file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	if cfg.Storage.PageSize == 0 {
		cfg.Storage.PageSize = pagefile.PageSize
	}
	if cfg.Storage.PageSize != pagefile.PageSize {
		return nil, fmt.Errorf("config: storage.page_size %d must equal %d; the on-disk layout formulas are derived for a single page size", cfg.Storage.PageSize, pagefile.PageSize)
	}
	if cfg.BufferPool.Capacity <= 0 {
		return nil, fmt.Errorf("config: buffer_pool.capacity must be > 0, got %d", cfg.BufferPool.Capacity)
	}

	return &cfg, nil
}

// Strategy parses the configured buffer pool strategy name, defaulting to
// FIFO when unset.
func (c *Config) Strategy() bufferpool.Strategy {
	switch c.BufferPool.Strategy {
	case "LRU":
		return bufferpool.LRU
	case "CLOCK":
		return bufferpool.CLOCK
	case "LFU":
		return bufferpool.LFU
	case "LRUK":
		return bufferpool.LRUK
	default:
		return bufferpool.FIFO
	}
}

// OpenPool opens a buffer pool over pageFileName using this config's
// strategy and, when storage.direct is set, the O_DIRECT backend instead
// of the default buffered one.
func (c *Config) OpenPool(pageFileName string) (*bufferpool.Pool, error) {
	if c.Storage.Direct {
		return bufferpool.NewPoolDirect(pageFileName, c.BufferPool.Capacity, c.Strategy())
	}
	return bufferpool.NewPool(pageFileName, c.BufferPool.Capacity, c.Strategy())
}
