package jwx

import (
	"errors"
	"time"
)

// Leeway returns a TokenValidator that rejects tokens expiring within
// the given duration, even when they are technically still valid. It
// guards against a token expiring between validation and use, e.g.
// while a slow downstream call is in flight.
//
// Tokens without an "exp" claim are unaffected.
//
// Example Code:
//
//	// Reject tokens that expire within the next 30 seconds.
//	claims, err := jwx.Verify[jwx.Map](token, key, jwx.Leeway(30*time.Second))
func Leeway(leeway time.Duration) TokenValidatorFunc {
	return func(_ []byte, standardClaims Claims, err error) error {
		if err == nil {
			if standardClaims.Expiry > 0 {
				if Clock().Add(leeway).Round(time.Second).Unix() > standardClaims.Expiry {
					return ErrExpired
				}
			}
		}

		return err
	}
}

// Future returns a TokenValidator that tolerates clock skew on the
// "iat" claim: a token issued up to dur ahead of the local clock is
// accepted instead of failing with ErrIssuedInTheFuture. Tokens
// further ahead still fail.
func Future(dur time.Duration) TokenValidatorFunc {
	return func(_ []byte, standardClaims Claims, err error) error {
		if errors.Is(err, ErrIssuedInTheFuture) {
			if Clock().Add(dur).Round(time.Second).Unix() < standardClaims.IssuedAt {
				return ErrIssuedInTheFuture
			}

			return nil
		}

		return err
	}
}
