// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is the claim set of an identity token issued by the
// authentication provider.
type IdentityClaims struct {
	jwt.RegisteredClaims

	// Name is the user's display name.
	Name string `json:"name,omitempty"`
}

// Token wraps a parsed identity token.
//
// SignedString holds the compact serialized form (header.payload.signature)
// as received from the provider.
type Token struct {
	*jwt.Token `json:"-"`

	IdentityClaims

	SignedString string `json:"-"`
}

// User extracts the identity carried by the token. The subject claim must be
// present and non-empty.
func (t *Token) User() (User, error) {
	subject, err := t.GetSubject()
	if err != nil {
		return User{}, fmt.Errorf("error extracting user id from token: %w", err)
	}
	if subject == "" {
		return User{}, fmt.Errorf("error extracting user id from token: empty subject")
	}

	return User{ID: subject, Username: t.Name}, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
