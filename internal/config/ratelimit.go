package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// RouteLimit caps requests per client for one public route group.
type RouteLimit struct {
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
}

// RateLimitPolicy is the set of limits applied to unauthenticated endpoints.
type RateLimitPolicy struct {
	Certificate RouteLimit `mapstructure:"certificate"`
	QRCode      RouteLimit `mapstructure:"qrcode"`
	Login       RouteLimit `mapstructure:"login"`
}

func DefaultRateLimitPolicy() RateLimitPolicy {
	return RateLimitPolicy{
		Certificate: RouteLimit{Rate: 1, Burst: 30},
		QRCode:      RouteLimit{Rate: 1, Burst: 30},
		Login:       RouteLimit{Rate: 0.2, Burst: 5},
	}
}

type RateLimitPolicyHolder struct {
	current atomic.Value // holds RateLimitPolicy
}

// NewStaticRateLimitPolicyHolder returns a holder that never reloads.
func NewStaticRateLimitPolicyHolder(policy RateLimitPolicy) *RateLimitPolicyHolder {
	holder := &RateLimitPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func NewRateLimitPolicyHolder(log *zap.Logger) (*RateLimitPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("ratelimit")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/agridirect")
	v.AddConfigPath(".")

	v.SetEnvPrefix("AGRIDIRECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultRateLimitPolicy()
	v.SetDefault("ratelimit.certificate.rate", defaults.Certificate.Rate)
	v.SetDefault("ratelimit.certificate.burst", defaults.Certificate.Burst)
	v.SetDefault("ratelimit.qrcode.rate", defaults.QRCode.Rate)
	v.SetDefault("ratelimit.qrcode.burst", defaults.QRCode.Burst)
	v.SetDefault("ratelimit.login.rate", defaults.Login.Rate)
	v.SetDefault("ratelimit.login.burst", defaults.Login.Burst)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var policy RateLimitPolicy
	if err := v.UnmarshalKey("ratelimit", &policy); err != nil {
		return nil, err
	}
	if err := validateRateLimitPolicy(policy); err != nil {
		return nil, err
	}

	holder := NewStaticRateLimitPolicyHolder(policy)
	if !fileFound {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated RateLimitPolicy
		if err := v.UnmarshalKey("ratelimit", &updated); err != nil {
			log.Warn("rate limit policy reload failed", zap.Error(err))
			return
		}
		if err := validateRateLimitPolicy(updated); err != nil {
			log.Warn("invalid rate limit policy ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("rate limit policy reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *RateLimitPolicyHolder) Get() RateLimitPolicy {
	return h.current.Load().(RateLimitPolicy)
}

func validateRateLimitPolicy(p RateLimitPolicy) error {
	for _, limit := range []RouteLimit{p.Certificate, p.QRCode, p.Login} {
		if limit.Rate <= 0 {
			return errors.New("ratelimit rate must be positive")
		}
		if limit.Burst <= 0 {
			return errors.New("ratelimit burst must be positive")
		}
	}
	return nil
}
