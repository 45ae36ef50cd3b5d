// Package config loads the demo server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config is the server configuration.
type Config struct {
	Addr            string
	LogFormat       string
	LogLevel        string
	ShutdownTimeout time.Duration
	TLSCert         string
	TLSKey          string
	OTLPEndpoint    string
}

// Environment variables read by Load.
const (
	EnvAddr            = "ROUTECHAIN_ADDR"
	EnvLogFormat       = "ROUTECHAIN_LOG_FORMAT"
	EnvLogLevel        = "ROUTECHAIN_LOG_LEVEL"
	EnvShutdownTimeout = "ROUTECHAIN_SHUTDOWN_TIMEOUT"
	EnvTLSCert         = "ROUTECHAIN_TLS_CERT"
	EnvTLSKey          = "ROUTECHAIN_TLS_KEY"
	EnvOTLPEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:            ":8080",
		LogFormat:       "tint",
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup reads the configuration through lookup, which has the
// signature of os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvAddr, &cfg.Addr)
	str(EnvLogFormat, &cfg.LogFormat)
	str(EnvLogLevel, &cfg.LogLevel)
	str(EnvTLSCert, &cfg.TLSCert)
	str(EnvTLSKey, &cfg.TLSKey)
	str(EnvOTLPEndpoint, &cfg.OTLPEndpoint)

	if v, ok := lookup(EnvShutdownTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvShutdownTimeout, err)
		}
		cfg.ShutdownTimeout = d
	}

	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return Config{}, errors.New("config: " + EnvTLSCert + " and " + EnvTLSKey + " must be set together")
	}
	return cfg, nil
}

// HTTP3 reports whether a TLS key pair is configured, which enables HTTP/3.
func (c Config) HTTP3() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// Telemetry reports whether an OTLP endpoint is configured.
func (c Config) Telemetry() bool {
	return c.OTLPEndpoint != ""
}
