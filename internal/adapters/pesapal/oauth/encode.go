// Package oauth implements the OAuth 1.0a style request signing used by the
// Pesapal API: parameter encoding, nonces, canonical query strings, URL
// normalization and HMAC-SHA1 signatures.
package oauth

import "strings"

const upperHex = "0123456789ABCDEF"

// Encode percent-encodes s as RFC 3986 requires for OAuth parameters.
// Every UTF-8 byte outside [A-Za-z0-9-._~] becomes %XX with uppercase hex.
func Encode(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !isUnreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
