package jwx

// Enrich creates a new token that carries the claims of an existing
// one merged with extra claims, signed under the given key. A payload
// cannot change under an existing signature, so the result is a
// completely new token; on duplicate claim names the extra claims win.
//
// The original token is only decoded here, not verified. Verify it
// first when it comes from the outside.
//
// Example Code:
//
//	enriched, err := jwx.Enrich(key, accessToken, jwx.Map{
//	    "role":        "admin",
//	    "permissions": []string{"read", "write"},
//	}, jwx.MaxAge(2*time.Hour))
func Enrich(key *Jwk, token string, extraClaims any, opts ...SignOption) (string, error) {
	decoded, err := Decode[Map](token)
	if err != nil {
		return "", err
	}

	merged := Merge(decoded.Payload, extraClaims)
	if merged == nil {
		return "", ErrEncodeSegment
	}

	return Sign(key, merged, opts...)
}
