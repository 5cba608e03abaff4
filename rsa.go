package jwx

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"math/big"
)

// rsaPublic wraps an RSA public key as verify-only RS256 material.
type rsaPublic struct {
	key *rsa.PublicKey
}

func (m rsaPublic) algorithm() string { return AlgRS256 }

func (m rsaPublic) verify(message, signature []byte) error {
	hashed := sha256.Sum256(message)
	if err := rsa.VerifyPKCS1v15(m.key, crypto.SHA256, hashed[:], signature); err != nil {
		return ErrSignatureMismatch
	}
	return nil
}

func (m rsaPublic) sign([]byte) ([]byte, error) {
	return nil, ErrNotSigner
}

// rsaPrivate wraps an RSA private key as RS256 material that signs and
// verifies.
type rsaPrivate struct {
	key *rsa.PrivateKey
}

func (m rsaPrivate) algorithm() string { return AlgRS256 }

func (m rsaPrivate) verify(message, signature []byte) error {
	return rsaPublic{key: &m.key.PublicKey}.verify(message, signature)
}

func (m rsaPrivate) sign(message []byte) ([]byte, error) {
	hashed := sha256.Sum256(message)
	signature, err := rsa.SignPKCS1v15(rand.Reader, m.key, crypto.SHA256, hashed[:])
	if err != nil {
		return nil, ErrSignFailure
	}
	return signature, nil
}

// JWK parameter codec. RSA parameters travel as unpadded base64url over
// the big-endian magnitude bytes, with no sign byte.

func decodeBigInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, ErrDecodeSegment
	}
	b, err := Base64Decode(StringToBytes(s))
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// decodeExponent reads the "e" parameter. Values wider than four bytes
// after stripping leading zeros are rejected rather than truncated.
func decodeExponent(s string) (int, error) {
	if s == "" {
		return 0, ErrDecodeSegment
	}
	b, err := Base64Decode(StringToBytes(s))
	if err != nil {
		return 0, err
	}
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	if len(b) == 0 || len(b) > 4 {
		return 0, ErrDecodeSegment
	}
	e := 0
	for _, v := range b {
		e = e<<8 + int(v)
	}
	return e, nil
}

func encodeBigInt(v *big.Int) string {
	return BytesToString(Base64Encode(v.Bytes()))
}

func encodeExponent(e int) string {
	return BytesToString(Base64Encode(big.NewInt(int64(e)).Bytes()))
}

func rsaPublicFromParams(n, e string) (keyMaterial, error) {
	modulus, err := decodeBigInt(n)
	if err != nil {
		return nil, err
	}

	exponent, err := decodeExponent(e)
	if err != nil {
		return nil, err
	}

	return rsaPublic{key: &rsa.PublicKey{N: modulus, E: exponent}}, nil
}

func rsaPrivateFromParams(n, e, d, p, q string) (keyMaterial, error) {
	modulus, err := decodeBigInt(n)
	if err != nil {
		return nil, err
	}

	exponent, err := decodeExponent(e)
	if err != nil {
		return nil, err
	}

	priv, err := decodeBigInt(d)
	if err != nil {
		return nil, err
	}

	prime1, err := decodeBigInt(p)
	if err != nil {
		return nil, err
	}

	prime2, err := decodeBigInt(q)
	if err != nil {
		return nil, err
	}

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: modulus, E: exponent},
		D:         priv,
		Primes:    []*big.Int{prime1, prime2},
	}
	// CRT values from the document are ignored and recomputed, so a
	// stale dp/dq/qi triple cannot poison the key.
	key.Precompute()

	return rsaPrivate{key: key}, nil
}

// Key helpers.

// ParsePrivateKeyPEM decodes and parses PEM-encoded RSA private key bytes
// in PKCS#1 or PKCS#8 format. Pass the result to NewPrivateKey.
func ParsePrivateKeyPEM(key []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, fmt.Errorf("private key: malformed or missing PEM format (RSA)")
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
			pKey, ok := key.(*rsa.PrivateKey)
			if !ok {
				return nil, fmt.Errorf("private key: expected a type of *rsa.PrivateKey")
			}

			privateKey = pKey
		} else {
			return nil, err
		}
	}

	return privateKey, nil
}

// ParsePublicKeyPEM decodes and parses PEM-encoded RSA public key bytes
// in PKIX format, or a certificate containing an RSA public key.
// Pass the result to NewPublicKey.
func ParsePublicKeyPEM(key []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, fmt.Errorf("public key: malformed or missing PEM format (RSA)")
	}

	parsedKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		if cert, err := x509.ParseCertificate(block.Bytes); err == nil {
			parsedKey = cert.PublicKey
		} else {
			return nil, err
		}
	}

	publicKey, ok := parsedKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key: expected a type of *rsa.PublicKey")
	}

	return publicKey, nil
}
