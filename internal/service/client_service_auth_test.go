// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/utils"
	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSignKey = "test-sign-key"
	testIssuer  = "test-issuer"
)

func testAppConfig() config.App {
	return config.App{TokenSignKey: testSignKey, TokenIssuer: testIssuer}
}

func signedToken(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateJWTToken(testIssuer, user, time.Hour, testSignKey)
	require.NoError(t, err)
	return token.String()
}

func TestClientAuthService_GuestByDefault(t *testing.T) {
	svc := NewClientAuthService(testAppConfig(), logger.Nop())

	_, ok := svc.CurrentUser()
	assert.False(t, ok)
}

func TestClientAuthService_SignInAndOut(t *testing.T) {
	ctx := testContext()
	svc := NewClientAuthService(testAppConfig(), logger.Nop())
	want := models.User{ID: "u1", Username: "Alice"}

	got, err := svc.SignIn(ctx, "  "+signedToken(t, want)+"\n")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	current, ok := svc.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, want, current)

	svc.SignOut(ctx)
	_, ok = svc.CurrentUser()
	assert.False(t, ok)
}

func TestClientAuthService_SignInRejected(t *testing.T) {
	ctx := testContext()
	svc := NewClientAuthService(testAppConfig(), logger.Nop())
	_, err := svc.SignIn(ctx, signedToken(t, models.User{ID: "u1"}))
	require.NoError(t, err)

	foreign, err := utils.GenerateJWTToken("other-issuer", models.User{ID: "u2"}, time.Hour, testSignKey)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong issuer": foreign.String(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SignIn(ctx, token)
			require.ErrorIs(t, err, ErrInvalidToken)

			current, ok := svc.CurrentUser()
			require.True(t, ok)
			assert.Equal(t, "u1", current.ID)
		})
	}
}

func TestAuthService_ParseToken(t *testing.T) {
	svc := NewAuthService(testAppConfig(), logger.Nop())

	user, err := svc.ParseToken(testContext(), signedToken(t, models.User{ID: "u7", Username: "Bob"}))
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "u7", Username: "Bob"}, user)

	_, err = svc.ParseToken(testContext(), "x.y.z")
	require.ErrorIs(t, err, ErrInvalidToken)
}
