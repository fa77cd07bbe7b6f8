// Copyright (c) 2026 Warden. All rights reserved.

package auth

import (
	"context"
	"net"

	"golang.org/x/text/language"
)

// # Geolocation

// GeoResolver resolves a client IP to a coarse location label for the
// registration metadata. Resolution failures are non-fatal: registration
// proceeds with an empty geo field.
type GeoResolver interface {
	Lookup(ctx context.Context, ip string) (string, error)
}

// StaticResolver is a database-free [GeoResolver].
//
// It classifies loopback and RFC 1918 addresses as "local" and leaves
// everything else unresolved. A deployment with a real geolocation database
// swaps this out behind the same interface.
type StaticResolver struct{}

// NewStaticResolver constructs the default resolver.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{}
}

// Lookup implements [GeoResolver].
func (r *StaticResolver) Lookup(_ context.Context, ip string) (string, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", nil
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() {
		return "local", nil
	}
	return "", nil
}

// # Language Canonicalization

// canonicalLanguage reduces a raw Accept-Language header to the best single
// canonical tag (e.g. "en-US"). The raw value is kept when parsing fails, so
// the captured metadata is never silently dropped.
func canonicalLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return ""
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return acceptLanguage
	}

	return tags[0].String()
}
