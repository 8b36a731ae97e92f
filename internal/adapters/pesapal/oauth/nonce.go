package oauth

import (
	"crypto/rand"
)

// NonceAlphabet is the 57-symbol alphabet Pesapal nonces are drawn from.
// It leaves out i, l, o, I and O.
const NonceAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ0123456789"

// DefaultNonceLength is the length of the random part of oauth_nonce
const DefaultNonceLength = 12

// NonceFunc produces the random part of a nonce
type NonceFunc func(length int) string

// largest multiple of len(NonceAlphabet) that fits in a byte; bytes at or
// above it are rejected to keep the draw uniform
const nonceRejectAbove = 256 - 256%len(NonceAlphabet)

// GenerateNonce draws length characters uniformly from NonceAlphabet.
// It uses crypto/rand and is safe for concurrent use.
func GenerateNonce(length int) string {
	if length <= 0 {
		return ""
	}

	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2)
	for len(out) < length {
		// crypto/rand.Read never returns an error on supported platforms
		_, _ = rand.Read(buf)
		for _, b := range buf {
			if int(b) >= nonceRejectAbove {
				continue
			}
			out = append(out, NonceAlphabet[int(b)%len(NonceAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out)
}
