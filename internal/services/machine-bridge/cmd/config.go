package main

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BrokerHost      string
	BrokerPort      int
	MQTTUser        string
	MQTTPassword    string
	ClientID        string
	Topic           string
	FusionURL       string
	HTTPTimeoutMs   int
	BreakerFailures int
	BreakerOpenSec  int
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
		BrokerHost:      getenv("MQTT_HOST", "localhost"),
		BrokerPort:      getenvInt("MQTT_PORT", 1883),
		MQTTUser:        getenv("MQTT_USER", ""),
		MQTTPassword:    getenv("MQTT_PASSWORD", ""),
		ClientID:        getenv("MQTT_CLIENT_ID", "machineBridge1"),
		Topic:           getenv("TELEMETRY_TOPIC", "machine/telemetry/#"),
		FusionURL:       getenv("FUSION_URL", "http://localhost:8090"),
		HTTPTimeoutMs:   getenvInt("HTTP_TIMEOUT_MS", 1500),
		BreakerFailures: getenvInt("BREAKER_FAILURES", 3),
		BreakerOpenSec:  getenvInt("BREAKER_OPEN_SEC", 10),
	}
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMs) * time.Millisecond
}

func (c Config) BreakerOpenFor() time.Duration {
	return time.Duration(c.BreakerOpenSec) * time.Second
}
