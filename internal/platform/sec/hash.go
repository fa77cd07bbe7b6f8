// Copyright (c) 2026 Warden. All rights reserved.

// Package sec provides the cryptographic primitives of the authentication core.
//
// # Architecture
//
// This package isolates security-sensitive code (credential digests, token
// generation, the authenticated principal) from the domain logic. It is an
// Infrastructure service injected into the application layer via constructors.
package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Hasher computes deterministic credential digests.
//
// The same transform derives the password digest at registration, recomputes
// it at login for comparison, and derives session tokens from (salt, userID).
// Determinism is therefore part of the contract: a keyed but randomized
// algorithm (bcrypt, argon2) cannot be substituted here.
type Hasher struct {
	appKey string
}

// NewHasher constructs a [Hasher] bound to the application-wide key.
//
// # Security
//
// The key is a single point of compromise for every stored digest. It must
// come from configuration, never from a source literal, and rotation is not
// supported: changing it invalidates every stored credential and session.
func NewHasher(appKey string) *Hasher {
	return &Hasher{appKey: appKey}
}

// Digest computes the hex-encoded digest of (salt, secret).
//
// # Construction
//
// HMAC-SHA256 keyed with "salt/secret", over the application key as message.
// Empty inputs still produce a deterministic (if low-security) output rather
// than failing; callers are expected to validate inputs upstream.
func (h *Hasher) Digest(salt, secret string) string {
	mac := hmac.New(sha256.New, []byte(salt+"/"+secret))
	mac.Write([]byte(h.appKey))
	return hex.EncodeToString(mac.Sum(nil))
}
