package jwx

import (
	"bytes"
	"time"
)

// Clock is the source of time for the whole package: claim validation
// reads it and MaxAge stamps "exp" and "iat" from it. Override it to
// freeze time in tests:
//
//	jwx.Clock = func() time.Time { return time.Unix(1516239022, 0) }
var Clock = time.Now

// Audience is the "aud" claim. On the wire it is either a single
// string or an array of strings; both forms unmarshal into the slice.
type Audience []string

// UnmarshalJSON accepts a JSON string as well as a JSON array of
// strings.
func (a *Audience) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	if data[0] == '"' {
		var single string
		if err := Unmarshal(data, &single); err != nil {
			return err
		}
		*a = Audience{single}
		return nil
	}

	var many []string
	if err := Unmarshal(data, &many); err != nil {
		return err
	}
	*a = many
	return nil
}

// Claims holds the standard JWT claims (payload fields).
type Claims struct {
	// NotBefore is the "nbf" claim: seconds since epoch before which
	// the token must not be accepted.
	NotBefore int64 `json:"nbf,omitempty"`
	// IssuedAt is the "iat" claim: seconds since epoch at which the
	// token was issued. A value ahead of the clock rejects the token.
	IssuedAt int64 `json:"iat,omitempty"`
	// Expiry is the "exp" claim: seconds since epoch from which the
	// token is rejected. The bound is exclusive, so a token is still
	// accepted at the exact expiry second.
	Expiry int64 `json:"exp,omitempty"`
	// ID is the "jti" claim, a unique identifier for the token used
	// to tell otherwise identical tokens apart, e.g. for replay
	// protection. Blocklist revokes by it when present.
	ID string `json:"jti,omitempty"`
	// Issuer is the "iss" claim, identifying the party that issued
	// the token.
	Issuer string `json:"iss,omitempty"`
	// Subject is the "sub" claim, identifying the party the token
	// carries information about.
	Subject string `json:"sub,omitempty"`
	// Audience is the "aud" claim, identifying the intended
	// recipients.
	Audience Audience `json:"aud,omitempty"`

	// MaxAge is not part of any JSON result. When set, Sign derives
	// the "exp" and "iat" claims from it.
	//
	// See the Clock package-level variable to modify the current time
	// function.
	MaxAge time.Duration `json:"-"`
}

// Validate checks the standard time claims against the given moment,
// rounded to a second. Zero claims always pass.
func (c Claims) Validate(t time.Time) error {
	now := t.Round(time.Second).Unix()

	if c.NotBefore > 0 {
		if now < c.NotBefore {
			return ErrNotValidYet
		}
	}

	if c.IssuedAt > 0 {
		if now < c.IssuedAt {
			return ErrIssuedInTheFuture
		}
	}

	if c.Expiry > 0 {
		if now > c.Expiry {
			return ErrExpired
		}
	}

	return nil
}

var emptyJSONObject = []byte("{}")

// Merge joins two JSON object values into one raw JSON object. Sign
// uses it to stamp standard claims next to custom ones. A value that
// is not an object, or marshals to an empty one, is dropped in favor
// of the other; nil is returned when either value fails to marshal.
func Merge(claims any, other any) RawMessage {
	claimsJSON, err := Marshal(claims)
	if err != nil {
		return nil
	}

	otherJSON, err := Marshal(other)
	if err != nil {
		return nil
	}

	if len(otherJSON) < 2 || otherJSON[0] != '{' || bytes.Equal(otherJSON, emptyJSONObject) {
		return claimsJSON
	}

	if len(claimsJSON) < 2 || claimsJSON[0] != '{' || bytes.Equal(claimsJSON, emptyJSONObject) {
		return otherJSON
	}

	claimsJSON = claimsJSON[:len(claimsJSON)-1] // drop the last '}'
	otherJSON = otherJSON[1:]                   // drop the first '{'

	raw := append(claimsJSON, ',')
	raw = append(raw, otherJSON...)
	return raw
}
