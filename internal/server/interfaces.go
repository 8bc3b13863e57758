// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

// Server defines the lifecycle contract of the gateway.
//
// RunServer blocks until SIGTERM, SIGINT or SIGQUIT is received and then
// shuts down gracefully.
type Server interface {
	RunServer()
	Shutdown()
}
