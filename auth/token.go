package auth

import (
	// Local Packages
	errors "pay-broker/errors"
)

// HeaderName is the request header carrying the referrer token.
const HeaderName = "auth_token"

var (
	errNoToken           = errors.E(errors.Unauthenticated, "no token", nil)
	errUnauthorizedToken = errors.E(errors.Unauthenticated, "unauthorized token", nil)
)

// Authenticator resolves a referrer from its shared secret. The token set is
// fixed at construction.
type Authenticator struct {
	referrers map[string]string // token -> referrer
}

// NewAuthenticator indexes tokens (referrer -> token) by token.
func NewAuthenticator(tokens map[string]string) *Authenticator {
	referrers := make(map[string]string, len(tokens))
	for referrer, token := range tokens {
		referrers[token] = referrer
	}
	return &Authenticator{referrers: referrers}
}

// Authenticate returns the referrer owning credential. present is false when
// the header was missing altogether; a present header with an unknown (or
// empty) value is an unauthorized token.
//
// The comparison is a plain map lookup, not constant time.
func (a *Authenticator) Authenticate(credential string, present bool) (string, error) {
	if !present {
		return "", errNoToken
	}
	referrer, ok := a.referrers[credential]
	if !ok {
		return "", errUnauthorizedToken
	}
	return referrer, nil
}
