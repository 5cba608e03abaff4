package jwx

// KeySet is an in-memory JSON Web Key Set: an ordered collection of
// keys addressed by key id. Initialize it once, at startup; it is safe
// for concurrent reads but not for concurrent writes.
//
// Usage:
//
//	set := jwx.NewKeySet(apiKey, legacyKey)
//	...
//	token, err := set.SignToken("api", myClaims{...}, jwx.MaxAge(15*time.Minute))
//	...
//	claims, err := jwx.VerifyWithSet[myClaims](set, token)
type KeySet struct {
	keys []*Jwk
}

// NewKeySet builds a key set from the given keys.
func NewKeySet(keys ...*Jwk) *KeySet {
	return &KeySet{keys: keys}
}

// ParseKeySet parses a JWKS document of the usual {"keys": [...]}
// shape. Entries that fail to parse, e.g. keys of an unsupported
// family published next to RSA ones, are skipped rather than failing
// the whole document. A document that is not a key set at all fails
// with ErrDecodeSegment.
func ParseKeySet(data []byte) (*KeySet, error) {
	var doc struct {
		Keys []RawMessage `json:"keys"`
	}
	if err := Unmarshal(data, &doc); err != nil {
		return nil, ErrDecodeSegment
	}

	set := new(KeySet)
	for _, raw := range doc.Keys {
		key, err := ParseKey(raw)
		if err != nil {
			continue
		}
		set.keys = append(set.keys, key)
	}

	return set, nil
}

// MarshalJSON serializes the set into the standard JWKS document
// shape, private parameters included for private keys. Project keys
// with Public before serving the set publicly.
func (s *KeySet) MarshalJSON() ([]byte, error) {
	doc := struct {
		Keys []*Jwk `json:"keys"`
	}{Keys: s.keys}

	return Marshal(doc)
}

// Register appends keys to the set. Not safe to call concurrently
// with Select.
func (s *KeySet) Register(keys ...*Jwk) {
	s.keys = append(s.keys, keys...)
}

// Len returns the number of keys in the set.
func (s *KeySet) Len() int {
	return len(s.keys)
}

// Keys returns a copy of the set's key list in document order.
func (s *KeySet) Keys() []*Jwk {
	keys := make([]*Jwk, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Select returns the key with the given id, or ErrUnknownKid when no
// key matches. An empty kid selects the sole key of a single-key set,
// which covers issuers that publish one key and omit "kid" from their
// tokens.
func (s *KeySet) Select(kid string) (*Jwk, error) {
	if kid == "" {
		if len(s.keys) == 1 {
			return s.keys[0], nil
		}
		return nil, ErrUnknownKid
	}

	for _, key := range s.keys {
		if key.Kid == kid {
			return key, nil
		}
	}

	return nil, ErrUnknownKid
}

// SignToken signs claims with the set's key under the given id.
func (s *KeySet) SignToken(kid string, claims any, opts ...SignOption) (string, error) {
	key, err := s.Select(kid)
	if err != nil {
		return "", err
	}

	return Sign(key, claims, opts...)
}

// VerifyWithSet verifies a token against the key the set holds for the
// token's "kid" header, then validates the standard time claims and
// any extra validators, like Verify does for a single key.
func VerifyWithSet[T any](set *KeySet, token string, validators ...TokenValidator) (*Jwt[T], error) {
	header, err := peekHeader(token)
	if err != nil {
		return nil, err
	}

	key, err := set.Select(header.Kid)
	if err != nil {
		return nil, err
	}

	return Verify[T](token, key, validators...)
}

// peekHeader decodes just the header segment, so a verification key
// can be resolved before the full parse.
func peekHeader(token string) (Header, error) {
	headerSeg, _, _, err := splitToken(token)
	if err != nil {
		return Header{}, err
	}

	headerRaw, err := Base64Decode(StringToBytes(headerSeg))
	if err != nil {
		return Header{}, ErrDecodeHeader
	}

	var header Header
	if err = Unmarshal(headerRaw, &header); err != nil {
		return Header{}, ErrDecodeHeader
	}

	return header, nil
}
