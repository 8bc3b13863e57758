// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the metadata gateway: a chi router exposing quote
// metadata reads, like and save toggles, comments and a websocket stream of
// metadata snapshots.
//
// Tracing, access logging and bearer-token authentication are handled by
// middleware before requests reach the metadata repository.
package http
