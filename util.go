//go:build !safe

package jwx

import "unsafe"

// BytesToString converts a byte slice to a string without allocating.
// The caller must not mutate b afterwards.
func BytesToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// StringToBytes converts a string to a byte slice without allocating.
// The result must be treated as read-only.
func StringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
