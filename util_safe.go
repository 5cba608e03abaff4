//go:build safe

package jwx

// BytesToString converts a byte slice to a string.
func BytesToString(b []byte) string {
	return string(b)
}

// StringToBytes converts a string to a byte slice.
func StringToBytes(s string) []byte {
	return []byte(s)
}
