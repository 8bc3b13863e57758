// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the metadata gateway: startup, signal handling and
// graceful shutdown of the HTTP listener.
package server
