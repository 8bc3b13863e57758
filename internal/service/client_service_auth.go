// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/utils"
	"github.com/MKhiriev/go-quote-keeper/models"
)

type clientAuthService struct {
	tokenSignKey string
	tokenIssuer  string

	mu   sync.RWMutex
	user *models.User

	logger *logger.Logger
}

// NewClientAuthService returns a guest session that accepts identity tokens
// signed with cfg.TokenSignKey and issued by cfg.TokenIssuer.
func NewClientAuthService(cfg config.App, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		tokenSignKey: cfg.TokenSignKey,
		tokenIssuer:  cfg.TokenIssuer,
		logger:       logger,
	}
}

// SignIn implements ClientAuthService. On failure the session keeps its
// previous user.
func (a *clientAuthService) SignIn(ctx context.Context, idToken string) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := parseIdentityToken(idToken, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Err(err).Str("func", "clientAuthService.SignIn").Msg("sign in rejected")
		return models.User{}, err
	}

	a.mu.Lock()
	a.user = &user
	a.mu.Unlock()

	log.Info().Str("func", "clientAuthService.SignIn").
		Str("user_id", user.ID).
		Msg("signed in")
	return user, nil
}

// SignOut implements ClientAuthService.
func (a *clientAuthService) SignOut(ctx context.Context) {
	a.mu.Lock()
	a.user = nil
	a.mu.Unlock()

	logger.FromContext(ctx).Info().Str("func", "clientAuthService.SignOut").Msg("signed out")
}

// CurrentUser implements ClientAuthService.
func (a *clientAuthService) CurrentUser() (models.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.user == nil {
		return models.User{}, false
	}
	return *a.user, true
}

func parseIdentityToken(idToken, signKey, issuer string) (models.User, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return models.User{}, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	token, err := utils.ValidateAndParseJWTToken(idToken, signKey, issuer)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	user, err := token.User()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return user, nil
}
