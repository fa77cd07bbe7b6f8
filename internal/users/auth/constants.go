// Copyright (c) 2026 Warden. All rights reserved.

package auth

import "time"

// # Session Policy

const (
	// SessionTTL is the fixed lifetime of a session from the moment of login.
	// Absolute, not sliding: activity does not extend it.
	SessionTTL = 48 * time.Hour
)

// # Metadata Enrichment

const (
	// GeoCacheTTL is how long a resolved geolocation stays cached per IP.
	GeoCacheTTL = 24 * time.Hour
)
