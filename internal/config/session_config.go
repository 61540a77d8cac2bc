package config

import (
	"fmt"
	"time"
)

const (
	// StateCookieMaxAge bounds how long a login attempt can sit between the
	// redirect to the provider and the callback.
	StateCookieMaxAge = time.Minute

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	defaultSessionTTL        = 24 * time.Hour
	defaultSessionCookieName = "meet_session"
)

type SessionConfig struct {
	Store         string      `yaml:"store" json:"store"`
	TTL           string      `yaml:"ttl" json:"ttl"`
	CookieName    string      `yaml:"cookieName" json:"cookieName"`
	SecureCookies bool        `yaml:"secureCookies" json:"secureCookies"`
	Redis         RedisConfig `yaml:"redis" json:"redis"`

	ttl time.Duration
}

type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
}

func (s *SessionConfig) validateAndInitialize() error {
	if s.Store == "" {
		s.Store = SessionStoreMemory
	}
	if s.Store != SessionStoreMemory && s.Store != SessionStoreRedis {
		return fmt.Errorf("unsupported store '%s', must be one of [%s, %s]",
			s.Store, SessionStoreMemory, SessionStoreRedis)
	}
	if s.Store == SessionStoreRedis && s.Redis.Addr == "" {
		return fmt.Errorf("redis.addr must be set when store is %s", SessionStoreRedis)
	}

	s.ttl = defaultSessionTTL
	if s.TTL != "" {
		d, err := time.ParseDuration(s.TTL)
		if err != nil {
			return fmt.Errorf("failed to parse ttl '%s': %w", s.TTL, err)
		}
		if d <= 0 {
			return fmt.Errorf("ttl must be positive, got '%s'", s.TTL)
		}
		s.ttl = d
	}

	if s.CookieName == "" {
		s.CookieName = defaultSessionCookieName
	}

	return nil
}

func (s *SessionConfig) TTLDuration() time.Duration {
	if s.ttl == 0 {
		return defaultSessionTTL
	}
	return s.ttl
}
