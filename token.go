package jwx

import "strings"

// Header is the JOSE header of a compact token. The struct field order
// is the serialization order, so signing equal headers yields equal
// bytes.
type Header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ,omitempty"`
	Kid string `json:"kid,omitempty"`
	Enc string `json:"enc,omitempty"`
	Cty string `json:"cty,omitempty"`
}

// Jwt is a token with a payload bound to T. After a parse it carries
// the decoded header, the typed payload and the base64url signature
// segment as received. A token built with New holds only the payload
// until Sign fills in the rest.
//
// Example Code:
//
//	type UserClaims struct {
//	    Sub  string `json:"sub"`
//	    Name string `json:"name"`
//	}
//
//	token, err := jwx.From[UserClaims](compact).
//	    WithVerificationKey(key).
//	    Parse()
type Jwt[T any] struct {
	Header    Header
	Payload   T
	Signature string
}

// New starts an unsigned token around the given payload.
func New[T any](payload T) *Jwt[T] {
	return &Jwt[T]{Payload: payload}
}

// splitToken slices a compact serialization into its three segments
// without copying. Anything but exactly two dots fails with
// ErrTokenForm.
func splitToken(token string) (header, payload, signature string, err error) {
	h, rest, ok := strings.Cut(token, ".")
	if !ok {
		return "", "", "", ErrTokenForm
	}

	p, s, ok := strings.Cut(rest, ".")
	if !ok || strings.ContainsRune(s, '.') {
		return "", "", "", ErrTokenForm
	}

	return h, p, s, nil
}

// Decode parses a compact token without verifying its signature and
// without evaluating claims. Use it for inspection only; nothing about
// the result is trustworthy until verified.
func Decode[T any](token string) (*Jwt[T], error) {
	return From[T](token).Parse()
}

// Verify parses a compact token, verifies its signature with the given
// key and validates the standard time claims against Clock. Additional
// validators run after the built-in checks and may veto the token or
// clear the error. The key must not be nil.
//
// Example Code:
//
//	claims, err := jwx.Verify[jwx.Map](token, key)
//	if err != nil {
//	    ...
//	}
func Verify[T any](token string, key *Jwk, validators ...TokenValidator) (*Jwt[T], error) {
	return From[T](token).
		WithVerificationKey(key).
		WithValidation(validators...).
		Parse()
}
