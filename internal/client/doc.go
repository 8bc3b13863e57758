// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client ties the terminal UI, the client services and the comment
// reconcile job into a single process lifecycle.
package client
