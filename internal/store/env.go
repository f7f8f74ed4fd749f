package store

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvConfigPath = "NEWSGEN_CONFIG"
	EnvOutputDir  = "NEWSGEN_OUTPUT_DIR"
	EnvSeed       = "NEWSGEN_SEED"
)

// PathFromEnv returns the value of key, or def when it is unset.
func PathFromEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ResolveSeed picks the run seed: NEWSGEN_SEED, then the configured SEED, then the clock.
func ResolveSeed(configured uint64) (uint64, error) {
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s '%s': %w", EnvSeed, v, err)
		}
		return seed, nil
	}
	if configured != 0 {
		return configured, nil
	}
	return uint64(time.Now().UnixNano()), nil
}
