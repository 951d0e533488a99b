package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BillingConfig is the letterhead printed on bill documents.
type BillingConfig struct {
	ClinicName     string
	Address        string
	Phone          string
	CurrencySymbol string
	Footer         string
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		ClinicName:     "PharmaBill Clinic",
		Address:        "",
		Phone:          "",
		CurrencySymbol: "$",
		Footer:         "Thank you for your visit.",
	}
}

type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

// NewStaticBillingConfigHolder returns a holder that never reloads.
func NewStaticBillingConfigHolder(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewBillingConfigHolder(log *zap.Logger) (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/pharmabill")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PHARMABILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, found, err := LoadBillingConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticBillingConfigHolder(cfg)
	if !found {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated := readBillingConfig(v)
		if err := validateBillingConfig(updated); err != nil {
			log.Warn("invalid billing config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("billing config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// LoadBillingConfig reads the billing section from v, falling back to
// defaults for anything unset. found reports whether a config file was read.
func LoadBillingConfig(v *viper.Viper) (BillingConfig, bool, error) {
	defaults := DefaultBillingConfig()
	v.SetDefault("billing.clinic_name", defaults.ClinicName)
	v.SetDefault("billing.address", defaults.Address)
	v.SetDefault("billing.phone", defaults.Phone)
	v.SetDefault("billing.currency_symbol", defaults.CurrencySymbol)
	v.SetDefault("billing.footer", defaults.Footer)

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return BillingConfig{}, false, err
		}
		found = false
	}

	cfg := readBillingConfig(v)
	if err := validateBillingConfig(cfg); err != nil {
		return BillingConfig{}, false, err
	}
	return cfg, found, nil
}

func readBillingConfig(v *viper.Viper) BillingConfig {
	return BillingConfig{
		ClinicName:     strings.TrimSpace(v.GetString("billing.clinic_name")),
		Address:        strings.TrimSpace(v.GetString("billing.address")),
		Phone:          strings.TrimSpace(v.GetString("billing.phone")),
		CurrencySymbol: strings.TrimSpace(v.GetString("billing.currency_symbol")),
		Footer:         strings.TrimSpace(v.GetString("billing.footer")),
	}
}

func (h *BillingConfigHolder) Get() BillingConfig {
	return h.current.Load().(BillingConfig)
}

func validateBillingConfig(cfg BillingConfig) error {
	if strings.TrimSpace(cfg.ClinicName) == "" {
		return errors.New("billing.clinic_name cannot be empty")
	}
	if strings.TrimSpace(cfg.CurrencySymbol) == "" {
		return errors.New("billing.currency_symbol cannot be empty")
	}
	return nil
}
