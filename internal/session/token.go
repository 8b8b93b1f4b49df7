// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import "github.com/google/uuid"

// Token is the opaque per-activation identifier sent with every remote call
// so the service can correlate the upload and convert requests.
type Token string

// NewToken returns a fresh random token. Call it once per client activation
// and pass the value to the orchestrator.
func NewToken() Token {
	return Token(uuid.NewString())
}

// String returns the token as a plain string.
func (t Token) String() string { return string(t) }
