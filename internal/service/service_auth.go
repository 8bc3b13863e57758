// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// authService is the concrete implementation of AuthService.
// Tokens are issued by the external authentication provider; the gateway
// only verifies them.
type authService struct {
	// tokenSignKey is the HMAC secret shared with the provider.
	tokenSignKey string

	// tokenIssuer is the expected "iss" claim. Tokens whose issuer does not
	// match are rejected.
	tokenIssuer string

	logger *logger.Logger
}

// NewAuthService constructs an AuthService from the token settings in cfg.
// The returned service is safe for concurrent use.
func NewAuthService(cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		tokenSignKey: cfg.TokenSignKey,
		tokenIssuer:  cfg.TokenIssuer,
		logger:       logger,
	}
}

// ParseToken validates tokenString and returns the user it identifies.
//
// Returns an error wrapping ErrInvalidToken when the signature, issuer,
// expiry or subject is invalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.User, error) {
	user, err := parseIdentityToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).
			Str("func", "authService.ParseToken").
			Msg("identity token rejected")
		return models.User{}, err
	}
	return user, nil
}
