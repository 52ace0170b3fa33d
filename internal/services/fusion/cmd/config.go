package main

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	RecomputeMs int
	ShutdownMs  int
}

func getenv(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func loadConfig() Config {
	return Config{
		Port:        getenv("PORT", "8090"),
		RecomputeMs: getenvInt("RECOMPUTE_MS", 250),
		ShutdownMs:  getenvInt("SHUTDOWN_GRACE_MS", 3000),
	}
}

func (c Config) RecomputeTick() time.Duration {
	return time.Duration(c.RecomputeMs) * time.Millisecond
}
