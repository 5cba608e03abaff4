package jwx

import "fmt"

// Expected is a TokenValidator that exact-matches standard claims.
// Only non-zero fields take part, so partial validation is possible.
//
// Example Code:
//
//	expected := jwx.Expected{
//	    Issuer:   "my-auth-service",
//	    Audience: jwx.Audience{"api", "web"},
//	}
//
//	claims, err := jwx.Verify[jwx.Map](token, key, expected)
//	if errors.Is(err, jwx.ErrExpected) {
//	    ...
//	}
type Expected Claims // Separate type for conceptual clarity, same structure as Claims.

var _ TokenValidator = Expected{}

// ValidateToken completes the TokenValidator interface. A verdict
// raised before this validator is returned unchanged; otherwise every
// non-zero expectation is compared and the first mismatch fails with
// ErrExpected, annotated with the claim name.
func (e Expected) ValidateToken(token []byte, c Claims, err error) error {
	if err != nil {
		return err
	}

	if v := e.NotBefore; v > 0 {
		if v != c.NotBefore {
			return fmt.Errorf("%w: nbf", ErrExpected)
		}
	}

	if v := e.IssuedAt; v > 0 {
		if v != c.IssuedAt {
			return fmt.Errorf("%w: iat", ErrExpected)
		}
	}

	if v := e.Expiry; v > 0 {
		if v != c.Expiry {
			return fmt.Errorf("%w: exp", ErrExpected)
		}
	}

	if v := e.ID; v != "" {
		if v != c.ID {
			return fmt.Errorf("%w: jti", ErrExpected)
		}
	}

	if v := e.Issuer; v != "" {
		if v != c.Issuer {
			return fmt.Errorf("%w: iss", ErrExpected)
		}
	}

	if v := e.Subject; v != "" {
		if v != c.Subject {
			return fmt.Errorf("%w: sub", ErrExpected)
		}
	}

	if n := len(e.Audience); n > 0 {
		if n != len(c.Audience) {
			return fmt.Errorf("%w: aud (length)", ErrExpected)
		}

		for i := range c.Audience {
			if v := e.Audience[i]; v != c.Audience[i] {
				return fmt.Errorf("%w: aud (%q)", ErrExpected, v)
			}
		}
	}

	return nil
}
