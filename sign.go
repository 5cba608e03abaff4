package jwx

import (
	"time"

	"github.com/google/uuid"
)

// Sign signs claims with the given key and returns the compact
// serialization. The header is derived from the key: its algorithm,
// "JWT" as the type and the key id when one is set. The claims may be
// any JSON-serializable value, usually a struct or a Map.
//
// SignOptions stamp standard claims into the payload before signing:
//
//	token, err := jwx.Sign(key, jwx.Map{"foo": "bar"},
//	    jwx.MaxAge(15*time.Minute),
//	    jwx.WithGeneratedID(),
//	)
func Sign(key *Jwk, claims any, opts ...SignOption) (string, error) {
	if len(opts) > 0 {
		var standardClaims Claims
		for _, opt := range opts {
			opt(&standardClaims)
		}

		if maxAge := standardClaims.MaxAge; maxAge > time.Second {
			now := Clock()
			standardClaims.Expiry = now.Add(maxAge).Unix()
			standardClaims.IssuedAt = now.Unix()
		}

		merged := Merge(claims, standardClaims)
		if merged == nil {
			return "", ErrEncodeSegment
		}
		claims = merged
	}

	return New(claims).Sign(key)
}

// Sign completes the token: it serializes the header and the payload,
// signs the dot-joined segments and stores the resulting header and
// signature segment on the receiver. It returns the compact
// serialization.
//
// Signing is deterministic. The same payload under the same key
// produces byte-identical tokens, also across restarts.
func (j *Jwt[T]) Sign(key *Jwk) (string, error) {
	header := Header{Alg: key.Algorithm(), Typ: "JWT", Kid: key.Kid}

	headerJSON, err := Marshal(header)
	if err != nil {
		return "", ErrEncodeSegment
	}

	payloadJSON, err := Marshal(j.Payload)
	if err != nil {
		return "", ErrEncodeSegment
	}

	// header.payload
	signingInput := append(Base64Encode(headerJSON), '.')
	signingInput = append(signingInput, Base64Encode(payloadJSON)...)

	signature, err := key.Sign(signingInput)
	if err != nil {
		return "", err
	}

	signatureSeg := Base64Encode(signature)

	token := append(signingInput, '.')
	token = append(token, signatureSeg...)

	j.Header = header
	j.Signature = BytesToString(signatureSeg)

	return BytesToString(token), nil
}

// SignOption stamps standard claims at the Sign function.
type SignOption func(c *Claims)

// WithClaims is a SignOption to set multiple standard claims
// (e.g. id, issuer, subject) at once, simply by passing the Claims
// struct. Zero fields are left untouched.
//
// See MaxAge too.
func WithClaims(standardClaims Claims) SignOption {
	return func(c *Claims) {
		if v := standardClaims.NotBefore; v > 0 {
			c.NotBefore = v
		}

		if v := standardClaims.IssuedAt; v > 0 {
			c.IssuedAt = v
		}

		if v := standardClaims.Expiry; v > 0 {
			c.Expiry = v
		}

		if v := standardClaims.ID; v != "" {
			c.ID = v
		}

		if v := standardClaims.Issuer; v != "" {
			c.Issuer = v
		}

		if v := standardClaims.Subject; v != "" {
			c.Subject = v
		}

		if v := standardClaims.Audience; len(v) > 0 {
			c.Audience = v
		}

		if v := standardClaims.MaxAge; v > 0 {
			c.MaxAge = v
		}
	}
}

// WithGeneratedID is a SignOption that stamps a fresh random UUID as
// the token's "jti" claim, so the token can later be revoked through a
// Blocklist without keeping the full serialization around.
func WithGeneratedID() SignOption {
	return func(c *Claims) {
		c.ID = uuid.NewString()
	}
}

// MaxAge is a SignOption to set the "exp" and "iat" standard claims
// in one move. Values of a second or less are ignored.
//
// See the Clock package-level variable to modify the current time
// function.
func MaxAge(maxAge time.Duration) SignOption {
	return func(c *Claims) {
		if maxAge <= time.Second {
			return
		}
		now := Clock()
		c.Expiry = now.Add(maxAge).Unix()
		c.IssuedAt = now.Unix()
	}
}

// MaxAgeMap is a helper to set the "exp" and "iat" claims on map
// claims that are built by hand.
//
// Usage:
//
//	claims := jwx.Map{"foo": "bar"}
//	jwx.MaxAgeMap(15*time.Minute, claims)
//	jwx.Sign(key, claims)
func MaxAgeMap(maxAge time.Duration, claims Map) {
	if claims == nil {
		return
	}

	now := Clock()
	if claims["exp"] == nil {
		claims["exp"] = now.Add(maxAge).Unix()
		claims["iat"] = now.Unix()
	}
}
