package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// LimitsConfig carries the rate-limit tunables operators can adjust at
// runtime without restarting the service.
type LimitsConfig struct {
	WriteRatePerSec float64 `mapstructure:"writeRatePerSec"`
	WriteBurst      int     `mapstructure:"writeBurst"`
}

func DefaultLimitsConfig() LimitsConfig {
	return LimitsConfig{
		WriteRatePerSec: 50,
		WriteBurst:      100,
	}
}

type LimitsConfigHolder struct {
	current atomic.Value // holds LimitsConfig
}

func NewLimitsConfigHolder() (*LimitsConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("limits")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/faktur/config") // Volume-mounted config
	v.AddConfigPath("/etc/faktur")            // System config
	v.AddConfigPath(".")                      // Current directory (dev mode)

	// env hanya untuk path override (optional)
	v.SetEnvPrefix("FAKTUR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// if config file not found, use defaults
		defaults := DefaultLimitsConfig()
		v.SetDefault("limits.writeRatePerSec", defaults.WriteRatePerSec)
		v.SetDefault("limits.writeBurst", defaults.WriteBurst)
	}

	var cfg LimitsConfig
	if err := v.UnmarshalKey("limits", &cfg); err != nil {
		return nil, err
	}
	if err := validateLimitsConfig(cfg); err != nil {
		return nil, err
	}

	holder := &LimitsConfigHolder{}
	holder.current.Store(cfg)

	// 🔥 HOT RELOAD
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated LimitsConfig
		if err := v.UnmarshalKey("limits", &updated); err != nil {
			log.Printf("[limits-config] reload failed: %v", err)
			return
		}
		if err := validateLimitsConfig(updated); err != nil {
			log.Printf("[limits-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[limits-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *LimitsConfigHolder) Get() LimitsConfig {
	return h.current.Load().(LimitsConfig)
}

func validateLimitsConfig(cfg LimitsConfig) error {
	if cfg.WriteRatePerSec <= 0 {
		return errors.New("limits.writeRatePerSec must be positive")
	}
	if cfg.WriteBurst <= 0 {
		return errors.New("limits.writeBurst must be positive")
	}
	return nil
}
