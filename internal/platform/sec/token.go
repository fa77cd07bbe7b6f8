// Copyright (c) 2026 Warden. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenEntropyBytes is the number of random bytes drawn per token before encoding.
const TokenEntropyBytes = 128

// NextToken returns a fresh high-entropy random value encoded as a printable string.
//
// It backs both the per-user password salt and the session-token salt. The
// value is opaque: nothing parses it, so the encoding only needs to be stable
// and cookie-safe.
func NextToken() (string, error) {
	buffer := make([]byte, TokenEntropyBytes)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read entropy: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buffer), nil
}
