// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses all configuration flags from args.
//
// Flags:
//
//	-a gateway address in format [host]:[port]
//	-d metadata store DSN ("memory" for the in-process store)
//	-l local snapshot database path
//	-discovery-url discovery API base URL
//	-c/-config json file path with configs
//	-token-sign-key identity token verification key
//	-token-issuer expected identity token issuer
//	-request-timeout gateway request timeout (e.g., "30s", "1m")
//	-adapter-timeout discovery request timeout
//	-reconcile-interval comment counter reconcile interval
//	-tx-max-attempts metadata transaction attempts
//	-log-file client log file path
//	-log-level minimal log level
func parseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	var databaseDSN, localDSN string
	var discoveryURL string
	var jsonConfigPath string
	var tokenSignKey, tokenIssuer string
	var requestTimeout, adapterTimeout, reconcileInterval time.Duration
	var txMaxAttempts int
	var logFile, logLevel string

	fs := flag.NewFlagSet("go-quote-keeper", flag.ContinueOnError)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Metadata store DSN")
	fs.StringVar(&localDSN, "l", "", "Local snapshot database path")
	fs.StringVar(&discoveryURL, "discovery-url", "", "Discovery API base URL")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Identity token verification key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Identity token issuer")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&adapterTimeout, "adapter-timeout", 0, "Discovery request timeout (e.g., 10s)")
	fs.DurationVar(&reconcileInterval, "reconcile-interval", 0, "Comment counter reconcile interval (e.g., 5m)")
	fs.IntVar(&txMaxAttempts, "tx-max-attempts", 0, "Metadata transaction attempts")
	fs.StringVar(&logFile, "log-file", "", "Client log file path")
	fs.StringVar(&logLevel, "log-level", "", "Minimal log level")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey: tokenSignKey,
			TokenIssuer:  tokenIssuer,
		},
		Storage: Storage{
			DB: DB{
				DSN:           databaseDSN,
				TxMaxAttempts: txMaxAttempts,
			},
			Local: Local{
				DSN: localDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			DiscoveryURL:   discoveryURL,
			RequestTimeout: adapterTimeout,
		},
		Workers: Workers{
			ReconcileInterval: reconcileInterval,
		},
		Log: Log{
			File:  logFile,
			Level: logLevel,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
