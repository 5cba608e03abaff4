package jwx

import "reflect"

// TokenValidator runs after signature verification and the built-in
// claim checks. It receives the raw token, the parsed standard claims
// and the verdict so far, and returns the verdict to carry forward, so
// a validator can veto an otherwise valid token or clear an error
// raised before it. See Leeway, Future, Expected, Plain and Blocklist.
type TokenValidator interface {
	ValidateToken(token []byte, claims Claims, err error) error
}

// TokenValidatorFunc is the functional adapter for TokenValidator.
type TokenValidatorFunc func(token []byte, claims Claims, err error) error

// ValidateToken completes the TokenValidator interface.
func (fn TokenValidatorFunc) ValidateToken(token []byte, claims Claims, err error) error {
	return fn(token, claims, err)
}

// errPayloadNotJSON is raised during validation when the payload does
// not bind to the standard claims shape. The Plain validator clears it.
var errPayloadNotJSON = &Error{KindPayload, "Payload is not JSON"}

// Plain accepts tokens whose payload is not a JSON object, skipping
// the standard claim checks for them.
var Plain = TokenValidatorFunc(func(token []byte, claims Claims, err error) error {
	if err == errPayloadNotJSON {
		return nil
	}

	return err
})

// Parser parses and optionally verifies one compact token. Obtain one
// with From, chain options, then call Parse. A zero option set decodes
// without verifying, which is safe only for inspection.
type Parser[T any] struct {
	token      string
	key        *Jwk
	validators []TokenValidator
	validate   bool
	required   bool
}

// From starts a parse of the given compact token.
//
// Example Code:
//
//	claims, err := jwx.From[jwx.Map](token).
//	    WithVerificationKey(key).
//	    Parse()
func From[T any](token string) *Parser[T] {
	return &Parser[T]{token: token}
}

// WithVerificationKey sets the key used to verify the signature and to
// cross-check the header's "alg". Calling it again replaces the key;
// the last call wins.
func (p *Parser[T]) WithVerificationKey(key *Jwk) *Parser[T] {
	p.key = key
	return p
}

// WithValidation enables validation of the standard time claims
// against Clock and appends any given validators to run after the
// built-in checks, in order.
func (p *Parser[T]) WithValidation(validators ...TokenValidator) *Parser[T] {
	p.validate = true
	p.validators = append(p.validators, validators...)
	return p
}

// WithRequiredFields makes Parse fail with ErrMissingField when a
// payload field tagged with `json:"...,required"` is left zero.
func (p *Parser[T]) WithRequiredFields() *Parser[T] {
	p.required = true
	return p
}

// Parse runs the pipeline: split the segments, decode the header,
// decode and bind the payload, verify the signature when a key is
// attached, then validate claims when requested.
//
// Verification signs off on the exact bytes received: the signing
// input is the first two segments as they appeared on the wire, never
// a re-serialization of the parsed structures.
func (p *Parser[T]) Parse() (*Jwt[T], error) {
	headerSeg, payloadSeg, signatureSeg, err := splitToken(p.token)
	if err != nil {
		return nil, err
	}

	headerRaw, err := Base64Decode(StringToBytes(headerSeg))
	if err != nil {
		return nil, ErrDecodeHeader
	}

	var header Header
	if err = Unmarshal(headerRaw, &header); err != nil {
		return nil, ErrDecodeHeader
	}

	payloadRaw, err := Base64Decode(StringToBytes(payloadSeg))
	if err != nil {
		return nil, ErrDecodePayload
	}

	var payload T
	if err = Unmarshal(payloadRaw, &payload); err != nil {
		return nil, ErrDecodePayload
	}

	if p.required {
		if err = meetRequirements(reflect.ValueOf(payload)); err != nil {
			return nil, err
		}
	}

	if p.key != nil {
		if header.Alg == algNone {
			return nil, ErrUnsecured
		}

		if header.Alg != p.key.Algorithm() {
			return nil, ErrTokenAlg
		}

		signature, err := Base64Decode(StringToBytes(signatureSeg))
		if err != nil {
			return nil, err
		}

		// header.payload
		signingInput := p.token[:len(headerSeg)+1+len(payloadSeg)]
		if err = p.key.Verify(StringToBytes(signingInput), signature); err != nil {
			return nil, err
		}
	}

	if p.validate {
		var claims Claims
		if jsonErr := Unmarshal(payloadRaw, &claims); jsonErr != nil {
			err = errPayloadNotJSON
		} else {
			err = claims.Validate(Clock())
		}

		for _, validator := range p.validators {
			if validator == nil {
				continue
			}
			// A validator can clear the error raised before it and
			// return nil, in which case the chain continues.
			if err = validator.ValidateToken(StringToBytes(p.token), claims, err); err != nil {
				break
			}
		}

		if err != nil {
			return nil, err
		}
	}

	return &Jwt[T]{
		Header:    header,
		Payload:   payload,
		Signature: signatureSeg,
	}, nil
}
