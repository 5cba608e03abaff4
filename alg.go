package jwx

// Algorithm names recognized in the JOSE header. The package signs and
// verifies RS256 only; "none" is known solely so it can be rejected.
const (
	AlgRS256 = "RS256"

	algNone = "none"
)

// Verifier checks a signature over a signing input. *Jwk implements it
// for both public and private keys.
type Verifier interface {
	// Verify reports whether signature is valid for message.
	// A mismatch yields ErrSignatureMismatch.
	Verify(message, signature []byte) error
}

// Signer produces a signature over a signing input. *Jwk implements it,
// but public-only keys fail with ErrNotSigner.
type Signer interface {
	// Sign returns the raw, unencoded signature for message.
	Sign(message []byte) ([]byte, error)
}

// keyMaterial is the decoded cryptographic half of a Jwk. Implementations
// are immutable after construction and safe for concurrent use.
type keyMaterial interface {
	algorithm() string
	verify(message, signature []byte) error
	sign(message []byte) ([]byte, error)
}
