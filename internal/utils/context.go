// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helpers used across the
// application: typed context keys, HTTP response writing, HTTP client
// initialization, identity token handling and id generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-quote-keeper/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserCtxKey is the key the authenticated [models.User] is stored under.
// Use WithUser and GetUserFromContext instead of accessing it directly.
var UserCtxKey = contextKey("user")

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, UserCtxKey, user)
}

// GetUserFromContext retrieves the authenticated user from the context.
//
// ok is false when the value is missing, has an unexpected type or carries
// an empty user id (a guest).
func GetUserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(models.User)
	if !ok || user.ID == "" {
		return models.User{}, false
	}
	return user, true
}

// GetUserIDFromContext retrieves the authenticated user's id from the
// context. It returns "" and false for guests.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	user, ok := GetUserFromContext(ctx)
	return user.ID, ok
}
