// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientConfig is the configuration view used by the terminal client.
type ClientConfig struct {
	// App contains identity-token settings.
	App App
	// Adapter contains discovery API settings.
	Adapter Adapter
	// Storage contains both the metadata store and the local snapshot
	// database settings.
	Storage Storage
	// Workers contains background job settings.
	Workers Workers
	// Log contains log file settings.
	Log Log
}

// ServerConfig is the configuration view used by the metadata gateway.
type ServerConfig struct {
	App     App
	Storage DB
	Server  Server
	Log     Log
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newClientConfig(cfg)
}

// GetServerConfig builds and validates a gateway-specific config view from
// the merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newServerConfig(cfg)
}

func newClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		App:     cfg.App,
		Adapter: cfg.Adapter,
		Storage: cfg.Storage,
		Workers: cfg.Workers,
		Log:     cfg.Log,
	}

	return clientCfg, clientCfg.validate()
}

func newServerConfig(cfg *StructuredConfig) (*ServerConfig, error) {
	serverCfg := &ServerConfig{
		App:     cfg.App,
		Storage: cfg.Storage.DB,
		Server:  cfg.Server,
		Log:     cfg.Log,
	}

	return serverCfg, serverCfg.validate()
}

// RequestTimeoutOrDefault returns d or fallback when d is not positive.
func RequestTimeoutOrDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
