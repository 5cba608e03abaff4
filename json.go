package jwx

import "github.com/goccy/go-json"

// Marshal and Unmarshal are the JSON functions used for headers,
// payloads and key documents. They default to goccy/go-json and are
// variables so callers can swap in another encoding/json-compatible
// implementation before first use.
var (
	Marshal   = json.Marshal
	Unmarshal = json.Unmarshal
)

// Map is a convenient alias for dynamic claims.
//
// Usage:
//
//	claims := jwx.Map{"sub": "1234567890", "name": "John Doe"}
type Map = map[string]any

// RawMessage is a raw, pre-encoded JSON value.
type RawMessage = json.RawMessage
