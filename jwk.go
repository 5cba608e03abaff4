package jwx

import "crypto/rsa"

// Jwk is a JSON Web Key of the RSA family, public or private.
// The variant is carried by the "d" parameter: keys with a non-empty
// private exponent sign and verify, keys without one only verify.
//
// A Jwk usually enters the program through ParseKey, ParseKeySet or one
// of the constructors. Literal values work too; the cryptographic
// material is then decoded on first use:
//
//	key, err := jwx.ParseKey(document)
//	if err != nil {
//	    ...
//	}
//	token, err := jwx.Sign(key, jwx.Map{"sub": "1234567890"})
type Jwk struct {
	Kty     string   `json:"kty"`
	Kid     string   `json:"kid,omitempty"`
	KeyOps  []string `json:"key_ops,omitempty"`
	Alg     string   `json:"alg,omitempty"`
	X5u     string   `json:"x5u,omitempty"`
	X5c     string   `json:"x5c,omitempty"`
	X5t     string   `json:"x5t,omitempty"`
	X5tS256 string   `json:"x5t#S256,omitempty"`

	// RSA parameters, unpadded base64url over big-endian bytes.
	// N and E are always present. D, P and Q mark and complete a
	// private key; Dp, Dq and Qi are optional CRT hints that are
	// re-derived rather than trusted.
	N  string `json:"n,omitempty"`
	E  string `json:"e,omitempty"`
	D  string `json:"d,omitempty"`
	P  string `json:"p,omitempty"`
	Q  string `json:"q,omitempty"`
	Dp string `json:"dp,omitempty"`
	Dq string `json:"dq,omitempty"`
	Qi string `json:"qi,omitempty"`

	material keyMaterial
}

var (
	_ Verifier = (*Jwk)(nil)
	_ Signer   = (*Jwk)(nil)
)

// ParseKey parses a single JWK document. The key material is decoded
// eagerly, so a returned *Jwk is ready to sign or verify without
// further validation. Unknown JSON members are ignored.
//
// Malformed JSON, an unsupported "kty" or a missing or undecodable
// RSA parameter fail with ErrDecodeSegment.
func ParseKey(data []byte) (*Jwk, error) {
	k := new(Jwk)
	if err := Unmarshal(data, k); err != nil {
		return nil, ErrDecodeSegment
	}

	material, err := k.buildMaterial()
	if err != nil {
		return nil, err
	}

	k.material = material
	return k, nil
}

func (k *Jwk) buildMaterial() (keyMaterial, error) {
	if k.Kty != "RSA" {
		return nil, ErrDecodeSegment
	}

	if k.D != "" {
		return rsaPrivateFromParams(k.N, k.E, k.D, k.P, k.Q)
	}

	return rsaPublicFromParams(k.N, k.E)
}

// load returns the decoded material, building it transiently for keys
// constructed as struct literals. It never mutates k, so concurrent
// use of a shared key is safe.
func (k *Jwk) load() (keyMaterial, error) {
	if k.material != nil {
		return k.material, nil
	}
	return k.buildMaterial()
}

// Algorithm returns the key's "alg" parameter, or the algorithm
// implied by the key material when the parameter is absent.
func (k *Jwk) Algorithm() string {
	if k.Alg != "" {
		return k.Alg
	}

	m, err := k.load()
	if err != nil {
		// The material cannot decide for a malformed key; RS256 is
		// the only family this package carries.
		return AlgRS256
	}

	return m.algorithm()
}

// IsPrivate reports whether the key carries a private exponent.
func (k *Jwk) IsPrivate() bool {
	return k.D != ""
}

// Public returns the verify-only projection of the key: the same
// parameters with the private half stripped. Public keys return
// themselves.
func (k *Jwk) Public() *Jwk {
	if !k.IsPrivate() {
		return k
	}

	pub := *k
	pub.D, pub.P, pub.Q, pub.Dp, pub.Dq, pub.Qi = "", "", "", "", "", ""
	pub.material = nil
	if m, ok := k.material.(rsaPrivate); ok {
		pub.material = rsaPublic{key: &m.key.PublicKey}
	}

	return &pub
}

// Verify checks signature over message with the key's public half.
// A signature produced by any other key, or over any other message,
// fails with ErrSignatureMismatch.
func (k *Jwk) Verify(message, signature []byte) error {
	m, err := k.load()
	if err != nil {
		return err
	}
	return m.verify(message, signature)
}

// Sign signs message and returns the raw signature bytes. Calling Sign
// on a public-only key fails with ErrNotSigner; RS256 signatures are
// deterministic, so equal messages under equal keys sign identically.
func (k *Jwk) Sign(message []byte) ([]byte, error) {
	m, err := k.load()
	if err != nil {
		return nil, err
	}
	return m.sign(message)
}

// NewPublicKey wraps an *rsa.PublicKey as a verify-only Jwk under the
// given key id.
func NewPublicKey(key *rsa.PublicKey, kid string) *Jwk {
	return &Jwk{
		Kty:      "RSA",
		Kid:      kid,
		Alg:      AlgRS256,
		N:        encodeBigInt(key.N),
		E:        encodeExponent(key.E),
		material: rsaPublic{key: key},
	}
}

// NewPrivateKey wraps an *rsa.PrivateKey as a signing Jwk under the
// given key id. The exported document carries the CRT parameters, so
// it can seed any JWK consumer. Keys are expected in the usual
// two-prime form.
func NewPrivateKey(key *rsa.PrivateKey, kid string) *Jwk {
	key.Precompute()

	return &Jwk{
		Kty:      "RSA",
		Kid:      kid,
		Alg:      AlgRS256,
		N:        encodeBigInt(key.N),
		E:        encodeExponent(key.E),
		D:        encodeBigInt(key.D),
		P:        encodeBigInt(key.Primes[0]),
		Q:        encodeBigInt(key.Primes[1]),
		Dp:       encodeBigInt(key.Precomputed.Dp),
		Dq:       encodeBigInt(key.Precomputed.Dq),
		Qi:       encodeBigInt(key.Precomputed.Qinv),
		material: rsaPrivate{key: key},
	}
}
