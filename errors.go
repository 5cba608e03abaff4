package jwx

import "errors"

// Kind classifies every error this package returns.
// The set is closed: callers switch on it to decide retry and
// reporting policy, so new kinds are a breaking change.
type Kind uint8

const (
	// KindInvalid reports malformed input: wrong segment count,
	// non-base64url bytes, bad JSON shape or signing with a
	// verify-only key.
	KindInvalid Kind = iota + 1
	// KindExpired reports a token used after its "exp" claim.
	KindExpired
	// KindEarly reports a token used before its "nbf" claim,
	// or one issued in the future.
	KindEarly
	// KindCertificate reports a signature that did not verify
	// against the key.
	KindCertificate
	// KindKey reports a key id with no match in a key set.
	KindKey
	// KindConnection reports a failed remote key set fetch.
	KindConnection
	// KindHeader reports a structurally valid but semantically
	// wrong header, such as an algorithm mismatch.
	KindHeader
	// KindPayload reports a structurally valid but semantically
	// wrong payload, such as a claim expectation mismatch.
	KindPayload
	// KindSignature is reserved for structurally malformed
	// signature segments; those currently surface as KindInvalid.
	KindSignature
	// KindInternal reports an unexpected failure from an
	// underlying primitive.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "Invalid"
	case KindExpired:
		return "Expired"
	case KindEarly:
		return "Early"
	case KindCertificate:
		return "Certificate"
	case KindKey:
		return "Key"
	case KindConnection:
		return "Connection"
	case KindHeader:
		return "Header"
	case KindPayload:
		return "Payload"
	case KindSignature:
		return "Signature"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the error type of every token and key operation: a kind
// plus a short, stable, developer-facing message. Two errors are equal
// when both fields are equal; underlying codec, JSON and crypto causes
// are normalized away rather than wrapped.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Msg
}

// Is matches another *Error by kind and message. A target with an
// empty message matches any error of the same kind, so
// errors.Is(err, &Error{Kind: KindInvalid}) tests the kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Msg == "" || e.Msg == t.Msg)
}

// KindOf extracts the Kind carried by err, unwrapping as needed.
// It returns 0 when err carries no *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

var (
	// ErrTokenForm indicates that the compact string does not split
	// into exactly three segments.
	ErrTokenForm = &Error{KindInvalid, "JWT does not have 3 segments"}
	// ErrDecodeHeader indicates that the header segment is not
	// base64url or not a JSON header.
	ErrDecodeHeader = &Error{KindInvalid, "Failed to decode header"}
	// ErrDecodePayload indicates that the payload segment is not
	// base64url or does not fit the caller's claim shape.
	ErrDecodePayload = &Error{KindInvalid, "Failed to decode payload"}
	// ErrDecodeSegment indicates an undecodable segment or key
	// document outside the header/payload positions.
	ErrDecodeSegment = &Error{KindInvalid, "Failed to decode segment"}
	// ErrEncodeSegment indicates that a header or payload could not
	// be JSON-serialized while signing.
	ErrEncodeSegment = &Error{KindInvalid, "Failed to encode segment"}
	// ErrSignatureMismatch indicates that the signature did not
	// verify under the key's public component.
	ErrSignatureMismatch = &Error{KindCertificate, "Signature does not match certificate"}
	// ErrNotSigner fires when Sign is called on a public-only key.
	ErrNotSigner = &Error{KindInvalid, "Key doesn't support signing"}
	// ErrSignFailure indicates an unexpected RSA primitive failure.
	ErrSignFailure = &Error{KindInternal, "Sign message"}

	// ErrTokenAlg indicates that the token's declared algorithm does
	// not match the verification key's.
	ErrTokenAlg = &Error{KindHeader, "Unexpected token algorithm"}
	// ErrUnsecured rejects tokens declaring the "none" algorithm.
	ErrUnsecured = &Error{KindHeader, "Unsecured token is not allowed"}

	// ErrExpired indicates a token used after the time of its "exp" claim.
	ErrExpired = &Error{KindExpired, "Token expired"}
	// ErrNotValidYet indicates a token used before the time of its "nbf" claim.
	ErrNotValidYet = &Error{KindEarly, "Token not valid yet"}
	// ErrIssuedInTheFuture indicates an "iat" claim ahead of the clock.
	ErrIssuedInTheFuture = &Error{KindEarly, "Token issued in the future"}
	// ErrExpected indicates a standard claim that did not match an
	// expected value.
	ErrExpected = &Error{KindPayload, "Unexpected claim value"}
	// ErrMissingField indicates a payload lacking a field marked as
	// required on the destination struct.
	ErrMissingField = &Error{KindPayload, "Token is missing a required field"}
	// ErrBlocked indicates a revoked token.
	ErrBlocked = &Error{KindPayload, "Token is blocked"}

	// ErrUnknownKid fires when a key set holds no key for the
	// requested key id.
	ErrUnknownKid = &Error{KindKey, "Unknown kid"}
	// ErrKeysFetch indicates a failed remote key set fetch.
	ErrKeysFetch = &Error{KindConnection, "Failed to fetch keys"}
)
