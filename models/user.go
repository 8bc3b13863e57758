// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// User is the identity yielded by the external authentication provider.
//
// ID is opaque and never empty for a signed-in user. A nil *User stands for
// a guest session.
type User struct {
	// ID is the provider's stable user identifier ("sub" claim).
	ID string `json:"id"`

	// Username is the display name snapshotted into comments.
	Username string `json:"username"`
}
