package jwx

import (
	"time"

	"github.com/google/uuid"
)

// TokenPair holds an access/refresh token response in the usual OAuth2
// JSON shape. The tokens are stored as raw JSON string values, so
// encoding a pair never re-escapes them.
//
// Example JSON output:
//
//	{
//	  "access_token": "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9...",
//	  "refresh_token": "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."
//	}
type TokenPair struct {
	AccessToken  RawMessage `json:"access_token,omitempty"`
	RefreshToken RawMessage `json:"refresh_token,omitempty"`
}

// NewTokenPair wraps two already signed tokens into a TokenPair.
// Either token may be empty; it is then omitted from the JSON output.
func NewTokenPair(accessToken, refreshToken string) TokenPair {
	return TokenPair{
		AccessToken:  quoteToken(accessToken),
		RefreshToken: quoteToken(refreshToken),
	}
}

// quoteToken wraps a compact token in double quotes to form a JSON
// string value.
func quoteToken(token string) RawMessage {
	if token == "" {
		return nil
	}

	dst := make([]byte, len(token)+2)
	dst[0] = '"'
	copy(dst[1:], token)
	dst[len(dst)-1] = '"'
	return dst
}

// SignTokenPair issues a fresh access/refresh token pair under the
// given key. Both tokens share one generated "jti" claim, so revoking
// that id through a Blocklist cuts off the whole pair at once.
//
// Example Code:
//
//	pair, err := jwx.SignTokenPair(key, accessClaims, refreshClaims,
//	    15*time.Minute, 30*24*time.Hour)
//	...
//	json.NewEncoder(w).Encode(pair)
func SignTokenPair(key *Jwk, accessClaims, refreshClaims any, accessMaxAge, refreshMaxAge time.Duration) (TokenPair, error) {
	id := uuid.NewString()

	accessToken, err := Sign(key, accessClaims, MaxAge(accessMaxAge), WithClaims(Claims{ID: id}))
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := Sign(key, refreshClaims, MaxAge(refreshMaxAge), WithClaims(Claims{ID: id}))
	if err != nil {
		return TokenPair{}, err
	}

	return NewTokenPair(accessToken, refreshToken), nil
}

// ReissueAccessToken exchanges a still valid refresh token for a new
// access token under the same key. The refresh token is verified and
// validated first; extra validators, e.g. a Blocklist, run after the
// standard checks. The new access token inherits the refresh token's
// "jti" claim, so a pair-wide revocation keeps covering it.
func ReissueAccessToken(key *Jwk, refreshToken string, accessClaims any, accessMaxAge time.Duration, validators ...TokenValidator) (string, error) {
	refresh, err := Verify[Claims](refreshToken, key, validators...)
	if err != nil {
		return "", err
	}

	opts := []SignOption{MaxAge(accessMaxAge)}
	if id := refresh.Payload.ID; id != "" {
		opts = append(opts, WithClaims(Claims{ID: id}))
	} else {
		opts = append(opts, WithGeneratedID())
	}

	return Sign(key, accessClaims, opts...)
}
