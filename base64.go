package jwx

import (
	"bytes"
	"encoding/base64"
)

// Base64Encode encodes src to the unpadded base64url alphabet used by
// every JWT segment and JWK parameter.
func Base64Encode(src []byte) []byte {
	buf := make([]byte, base64.RawURLEncoding.EncodedLen(len(src)))
	base64.RawURLEncoding.Encode(buf, src)
	return buf
}

// Base64Decode decodes an unpadded base64url segment. Padded or
// otherwise corrupt input fails with ErrDecodeSegment. The stdlib
// decoder skips \r and \n, so those are rejected up front: a segment
// is a single line and every byte outside the alphabet must fail.
func Base64Decode(src []byte) ([]byte, error) {
	if bytes.ContainsAny(src, "\r\n") {
		return nil, ErrDecodeSegment
	}

	buf := make([]byte, base64.RawURLEncoding.DecodedLen(len(src)))
	n, err := base64.RawURLEncoding.Decode(buf, src)
	if err != nil {
		return nil, ErrDecodeSegment
	}
	return buf[:n], nil
}
