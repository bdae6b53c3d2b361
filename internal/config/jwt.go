package config

import (
	"os"
	"strconv"
	"sync"
	"time"
)

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

var (
	jwtConfig *JWTConfig
	jwtOnce   sync.Once
)

func LoadJWTConfig() *JWTConfig {
	jwtOnce.Do(func() {
		ttlHours := 24
		if v := os.Getenv("JWT_TTL_HOURS"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				ttlHours = parsed
			}
		}
		jwtConfig = &JWTConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			TokenTTL: time.Duration(ttlHours) * time.Hour,
		}
	})
	return jwtConfig
}
