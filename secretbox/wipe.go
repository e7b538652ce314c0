package secretbox

import (
	"crypto/subtle"
	"runtime"
)

// Wipe overwrites b with zero bytes. Exported because Encrypt and Decrypt
// consume their input buffers; callers holding copies of secret material are
// responsible for wiping those copies themselves.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices.
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Clone returns a copy of b. Use it to keep a buffer alive across a call
// that consumes its argument.
func Clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
